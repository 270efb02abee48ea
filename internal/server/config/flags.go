package config

import (
	"flag"
	"os"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-b string   deployment base URL
//	-s string   JWT HMAC secret key
//	-w string   redirect domain allow-list (comma-separated)
//	-l          require login for resolution
//	-i int      per-IP resolutions per minute (0 disables)
//	-t int      default per-token resolutions per minute (0 disables)
//	-e int      default token TTL, minutes (0 means no expiry)
//	-m int      default max uses per token (0 means unlimited)
//	-q int      per-user generation quota per day (0 disables)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The TTL flag is accepted as an integer in minutes and converted to
//     a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-s", "-w", "-l", "-i", "-t", "-e", "-m", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "deployment base URL")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.AllowedDomains, "w", config.AllowedDomains, "redirect domain allow-list")
	fs.BoolVar(&config.RequireLogin, "l", config.RequireLogin, "require login for resolution")
	fs.IntVar(&config.IPRatePerMin, "i", config.IPRatePerMin, "per-IP resolutions per minute")
	fs.IntVar(&config.DefaultTokenRatePerMin, "t", config.DefaultTokenRatePerMin, "default per-token resolutions per minute")

	defaultTokenTTL := fs.Int("e", int(config.DefaultTokenTTL.Minutes()), "default token TTL (in minutes)")

	fs.IntVar(&config.DefaultMaxUses, "m", config.DefaultMaxUses, "default max uses per token")
	fs.IntVar(&config.GenPerUserPerDay, "q", config.GenPerUserPerDay, "per-user generation quota per day")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DefaultTokenTTL = time.Duration(*defaultTokenTTL) * time.Minute
}
