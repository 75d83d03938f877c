package api

import "errors"

var (
	// ErrUnavailable marks transport-level failures (connection refused,
	// timeouts, 5xx). The session manager treats these as transient.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks an authoritative rejection (401/403).
	ErrUnauthorized = errors.New("unauthorized")
)
