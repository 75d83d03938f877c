// Package common defines shared constants and sentinel errors used across
// the TalentLink client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Session lifecycle errors.
	ErrInvalidLoginData   = errors.New("invalid login data")
	ErrVerificationFailed = errors.New("token verification failed")
	ErrNoRefreshToken     = errors.New("no refresh token")
	ErrRefreshFailed      = errors.New("token refresh failed")

	// Generic flow-control errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
