// Package models defines client-side data models used by the TalentLink client.
package models

import (
	"encoding/json"

	"github.com/talentlink/talentlink-client/internal/common"
)

// User is the opaque profile record returned by the backend. The client
// never interprets profile fields beyond identity display; the raw payload
// is kept so nothing gets lost on a persist/restore round trip.
type User struct {
	// ID is the platform-assigned user identifier.
	ID string `json:"id"`

	// Email is the login identity.
	Email string `json:"email"`

	// Name is the display name (may be empty).
	Name string `json:"name,omitempty"`

	// Raw holds the full profile document exactly as the backend sent it.
	Raw json.RawMessage `json:"-"`
}

// Session is the authenticated identity for the current client context.
//
// Invariant: AccessToken, User, and UserType are either all set or all
// empty; a half-populated session is never persisted.
type Session struct {
	User         *User           `json:"user"`
	UserType     common.UserType `json:"userType"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// Complete reports whether the session carries everything a login must
// provide.
func (s *Session) Complete() bool {
	return s != nil && s.User != nil && s.AccessToken != "" && s.UserType != common.UserTypeNone
}
