// Package config handles configuration for the server component, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the invoicer ledger server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: path of the SQLite ledger database.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     the test default in prod.
//   - TokenValidityDuration: session token lifetime.
//   - SequenceLockWait: how long SYNC_INVOICES waits for the number sequence
//     before giving up with a busy error.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	SequenceLockWait      time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = "ledger.db"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 12 * time.Hour
	c.SequenceLockWait = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
