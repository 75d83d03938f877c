// Package services contains the application services of the TalentLink
// client: the session manager (login, logout, verification, token refresh,
// persistence) and the notification stream manager (server-push connection,
// topic routing, bounded reconnection).
//
// Both managers are safe for concurrent use. The stream manager observes
// the session manager's authenticated state through OnAuthChange and opens
// or closes its connection accordingly; the session manager has no
// dependency on the stream.
package services
