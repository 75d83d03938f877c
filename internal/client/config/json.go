package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/talentlink/talentlink-client/internal/flagx"
	"github.com/talentlink/talentlink-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "10s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	StreamURL            string         `json:"stream_url"`
	DatabaseDSN          string         `json:"database_dsn"`
	LegacyAuthCookies    []string       `json:"legacy_auth_cookies"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	TokenFreshness       timex.Duration `json:"token_freshness"`
	ReconnectBaseDelay   timex.Duration `json:"reconnect_base_delay"`
	CookieTTL            timex.Duration `json:"cookie_ttl"`
	PermissionReAsk      timex.Duration `json:"permission_re_ask"`
	ReconnectMaxAttempts int            `json:"reconnect_max_attempts"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies the fields the file actually sets into the provided Config, so
//     a partial file leaves the remaining defaults intact.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StreamURL != "" {
		cfg.StreamURL = jc.StreamURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.LegacyAuthCookies != nil {
		cfg.LegacyAuthCookies = jc.LegacyAuthCookies
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenFreshness.Duration != 0 {
		cfg.TokenFreshness = time.Duration(jc.TokenFreshness.Duration)
	}
	if jc.ReconnectBaseDelay.Duration != 0 {
		cfg.ReconnectBaseDelay = time.Duration(jc.ReconnectBaseDelay.Duration)
	}
	if jc.CookieTTL.Duration != 0 {
		cfg.CookieTTL = time.Duration(jc.CookieTTL.Duration)
	}
	if jc.PermissionReAsk.Duration != 0 {
		cfg.PermissionReAsk = time.Duration(jc.PermissionReAsk.Duration)
	}
	if jc.ReconnectMaxAttempts != 0 {
		cfg.ReconnectMaxAttempts = jc.ReconnectMaxAttempts
	}
}
