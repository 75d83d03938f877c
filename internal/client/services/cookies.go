package services

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/talentlink/talentlink-client/internal/common"
)

// CookieMirror keeps the access-token and user-type cookies in sync with
// the session so request-time layers that cannot read local storage (a
// reverse proxy, middleware) still see who is logged in.
//
// Clearing expires not just the two live names but a configured superset of
// legacy names, to catch cookies written by earlier client versions.
type CookieMirror struct {
	jar         http.CookieJar
	site        *url.URL
	ttl         time.Duration
	legacyNames []string
}

// NewCookieMirror builds a mirror for the given site URL. When jar is nil a
// fresh in-memory jar is created.
func NewCookieMirror(jar http.CookieJar, site string, ttl time.Duration, legacyNames []string) (*CookieMirror, error) {
	u, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
	}
	return &CookieMirror{jar: jar, site: u, ttl: ttl, legacyNames: legacyNames}, nil
}

// Jar exposes the underlying jar so the HTTP client can share it.
func (c *CookieMirror) Jar() http.CookieJar {
	return c.jar
}

// SetAuth mirrors both auth cookies with the configured TTL.
func (c *CookieMirror) SetAuth(accessToken string, userType common.UserType) {
	expires := time.Now().Add(c.ttl)
	c.jar.SetCookies(c.site, []*http.Cookie{
		{Name: common.AccessTokenCookieName, Value: accessToken, Path: "/", Expires: expires},
		{Name: common.UserTypeCookieName, Value: string(userType), Path: "/", Expires: expires},
	})
}

// SetAccessToken replaces only the access-token cookie (after a refresh).
func (c *CookieMirror) SetAccessToken(accessToken string) {
	c.jar.SetCookies(c.site, []*http.Cookie{
		{Name: common.AccessTokenCookieName, Value: accessToken, Path: "/", Expires: time.Now().Add(c.ttl)},
	})
}

// ClearAll expires the live cookie names plus every configured legacy name.
func (c *CookieMirror) ClearAll() {
	names := append([]string{common.AccessTokenCookieName, common.UserTypeCookieName}, c.legacyNames...)

	expired := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		expired = append(expired, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			MaxAge:  -1,
			Expires: time.Unix(0, 0),
		})
	}
	c.jar.SetCookies(c.site, expired)
}

// Get returns the current value of a cookie, or "" when absent.
func (c *CookieMirror) Get(name string) string {
	for _, ck := range c.jar.Cookies(c.site) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
