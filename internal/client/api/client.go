// Package api implements the REST boundary between the client and the
// TalentLink backend: token verification, token refresh, and the
// best-effort logout notification.
package api

import (
	"context"
	"encoding/json"

	"github.com/talentlink/talentlink-client/internal/common"
)

// VerifyResult is the identity returned by the verify endpoint.
type VerifyResult struct {
	User     json.RawMessage `json:"user"`
	UserType common.UserType `json:"user_type"`
}

// LoginResult is the payload returned by the password login endpoint. Only
// the CLI uses it; the session manager receives the pieces via Login.
type LoginResult struct {
	User         json.RawMessage `json:"user"`
	UserType     common.UserType `json:"user_type"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// Client is the backend surface the session manager depends on. The HTTP
// implementation lives in this package; tests substitute fakes.
type Client interface {
	// VerifyToken validates an access token and returns the current
	// user/role. Failures are classified: ErrUnauthorized for an
	// authoritative rejection, ErrUnavailable for transport-level trouble.
	VerifyToken(ctx context.Context, accessToken string) (*VerifyResult, error)

	// RefreshToken exchanges a refresh token for a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (string, error)

	// NotifyLogout tells the backend to revoke the token pair. Callers
	// treat any error as non-fatal.
	NotifyLogout(ctx context.Context, accessToken, refreshToken string) error

	Close() error
}
