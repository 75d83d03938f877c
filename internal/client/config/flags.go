package config

import (
	"flag"
	"os"
	"time"

	"github.com/talentlink/talentlink-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the platform REST API (default from Config)
//	-s string   URL of the SSE notification stream (default from Config)
//	-d string   path of the local sqlite database (default from Config)
//	-t int      REST request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the platform REST API")
	fs.StringVar(&cfg.StreamURL, "s", cfg.StreamURL, "URL of the SSE notification stream")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local sqlite database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "REST request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
