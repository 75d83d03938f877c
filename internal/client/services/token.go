package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTimes extracts the issued-at and expiry claims from an access token
// without validating its signature. The client only needs the timestamps to
// decide whether a stored token is fresh enough to skip startup
// verification; authenticity is the backend's concern.
//
// A zero time is returned for a claim the token does not carry.
func tokenTimes(token string) (iat, exp time.Time, err error) {
	claims := jwt.MapClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if n, err := claims.GetIssuedAt(); err == nil && n != nil {
		iat = n.Time
	}
	if n, err := claims.GetExpirationTime(); err == nil && n != nil {
		exp = n.Time
	}
	return iat, exp, nil
}
