package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "https://stage.talentlink.example", "-s", "https://stage.talentlink.example/stream", "-d", "stage.db", "-t", "20"}, expectPanic: false,
			expected: &Config{APIBaseURL: "https://stage.talentlink.example", StreamURL: "https://stage.talentlink.example/stream", DatabaseDSN: "stage.db", RequestTimeout: 20 * time.Second}},
		{name: "Test2 incorrect timeout", args: []string{"cmd", "-a", "https://stage.talentlink.example", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
