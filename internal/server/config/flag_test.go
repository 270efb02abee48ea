package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags(t *testing.T) {

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-b", "https://qr.example.com",
			"-s", "secret", "-w", "example.com", "-l",
			"-i", "30", "-t", "5", "-e", "60", "-m", "3", "-q", "100",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddr:           "127.0.0.1:9090",
				DatabaseDSN:            "db",
				BaseURL:                "https://qr.example.com",
				SecretKey:              "secret",
				AllowedDomains:         "example.com",
				RequireLogin:           true,
				IPRatePerMin:           30,
				DefaultTokenRatePerMin: 5,
				DefaultTokenTTL:        60 * time.Minute,
				DefaultMaxUses:         3,
				GenPerUserPerDay:       100,
			}},
		{name: "Test2 defaults survive unrelated args", args: []string{"cmd", "-x", "ignored"},
			expectPanic: false,
			expected: &Config{
				EndpointAddr: "",
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				assert.Panics(t, func() { parseFlags(config) })
				return
			}

			parseFlags(config)
			assert.Equal(t, tt.expected.EndpointAddr, config.EndpointAddr)
			if tt.name == "Test1 OK" {
				assert.Equal(t, tt.expected, config)
			}
		})
	}
}
