// Package cli provides the interactive TalentLink command-line client.
//
// It wires configuration, local storage, the REST API client, the session
// manager, and the notification stream into an interactive REPL. Typical
// flow: restore a persisted session on startup, let the stream follow the
// authenticated state, and execute user commands.
//
// Key features:
//   - Login / Logout (password prompt without echo)
//   - Status: session identity plus stream connection state
//   - Inbox: list / read / readall / clear notifications
//   - Topics: sub / unsub named notification channels
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
