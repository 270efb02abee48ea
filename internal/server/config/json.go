package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/qrfoundry/qrfoundry/internal/flagx"
	"github.com/qrfoundry/qrfoundry/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which
// allows parsing both string values such as "30m" and integer
// nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into
// the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	BaseURL                string         `json:"base_url"`
	SecretKey              string         `json:"secret_key"`
	AllowedDomains         string         `json:"allowed_domains"`
	RequireLogin           bool           `json:"require_login"`
	IPRatePerMin           int            `json:"ip_rate_per_min"`
	DefaultTokenRatePerMin int            `json:"default_token_rate_per_min"`
	DefaultTokenTTL        timex.Duration `json:"default_token_ttl"`
	DefaultMaxUses         int            `json:"default_max_uses"`
	GenPerUserPerDay       int            `json:"gen_per_user_per_day"`
}

// parseJson loads configuration values from a JSON file into the
// provided Config instance.
//
// The lookup order for the JSON file path is the -c or -config
// command-line flags; if neither is set, no JSON file is loaded.
// If the file cannot be read or contains invalid JSON, the function
// panics. The caller is expected to merge these values with defaults
// and command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.BaseURL = c.BaseURL
	config.SecretKey = c.SecretKey
	config.AllowedDomains = c.AllowedDomains
	config.RequireLogin = c.RequireLogin
	config.IPRatePerMin = c.IPRatePerMin
	config.DefaultTokenRatePerMin = c.DefaultTokenRatePerMin
	config.DefaultTokenTTL = time.Duration(c.DefaultTokenTTL.Duration)
	config.DefaultMaxUses = c.DefaultMaxUses
	config.GenPerUserPerDay = c.GenPerUserPerDay
}
