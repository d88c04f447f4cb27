package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkrasnovs/tenauth/internal/flagx"
	"github.com/dkrasnovs/tenauth/internal/timex"
)

// jsonConfig mirrors Config for JSON unmarshalling. Durations use
// timex.Duration so both "1h" strings and integer nanoseconds parse.
type jsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	PrivateKeyPath               string         `json:"private_key_path"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CookieDomain                 string         `json:"cookie_domain"`
	BcryptCost                   int            `json:"bcrypt_cost"`
}

// parseJSON overlays values from the JSON file named by -c/-config, when one
// is given. Only fields present in the file override the current values.
// An unreadable or invalid file panics: a config file that was asked for but
// cannot be used must not be silently ignored.
func parseJSON(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.PrivateKeyPath != "" {
		config.PrivateKeyPath = c.PrivateKeyPath
	}
	if c.RefreshTokenSecret != "" {
		config.RefreshTokenSecret = c.RefreshTokenSecret
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = time.Duration(c.RefreshTokenValidityDuration.Duration)
	}
	if c.CookieDomain != "" {
		config.CookieDomain = c.CookieDomain
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
}
