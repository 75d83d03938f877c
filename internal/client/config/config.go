package config

import "time"

// Config holds runtime settings for the TalentLink client.
//
// Fields:
//   - APIBaseURL: base URL of the platform REST API (also the cookie site).
//   - StreamURL: URL of the SSE notification stream endpoint.
//   - DatabaseDSN: path/DSN of the local sqlite database.
//   - RequestTimeout: per-request timeout for REST calls.
//   - TokenFreshness: how recently issued a stored access token must be to
//     skip startup verification.
//   - ReconnectMaxAttempts: stream reconnect ceiling before giving up.
//   - ReconnectBaseDelay: first reconnect delay; doubles on each attempt.
//   - CookieTTL: lifetime of mirrored auth cookies.
//   - LegacyAuthCookies: extra cookie names expired on logout.
//   - PermissionReAsk: how long a dismissed notification prompt is remembered.
type Config struct {
	APIBaseURL           string
	StreamURL            string
	DatabaseDSN          string
	LegacyAuthCookies    []string
	RequestTimeout       time.Duration
	TokenFreshness       time.Duration
	ReconnectBaseDelay   time.Duration
	CookieTTL            time.Duration
	PermissionReAsk      time.Duration
	ReconnectMaxAttempts int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.talentlink.example"
	c.StreamURL = "https://api.talentlink.example/notifications/stream"
	c.DatabaseDSN = "talentlink.db"
	c.RequestTimeout = 10 * time.Second
	c.TokenFreshness = time.Minute
	c.ReconnectMaxAttempts = 5
	c.ReconnectBaseDelay = time.Second
	c.CookieTTL = 24 * time.Hour
	c.LegacyAuthCookies = []string{"token", "authToken", "user_type", "refreshToken"}
	c.PermissionReAsk = 7 * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
