// Package config loads runtime configuration for the TalentLink client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the platform REST API
//	-s string   URL of the SSE notification stream
//	-d string   path of the local sqlite database
//	-t int      REST request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.talentlink.example",
//	  "stream_url": "https://api.talentlink.example/notifications/stream",
//	  "database_dsn": "talentlink.db",
//	  "request_timeout": "10s",
//	  "token_freshness": "1m",
//	  "reconnect_max_attempts": 5,
//	  "reconnect_base_delay": "1s",
//	  "cookie_ttl": "24h",
//	  "legacy_auth_cookies": ["token", "authToken"],
//	  "permission_re_ask": "168h"
//	}
//
// Primary API
//
//   - type Config                     — holds client runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
