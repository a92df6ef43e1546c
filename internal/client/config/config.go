package config

import "time"

// Config holds runtime settings for the invoicer CLI.
//
// Fields:
//   - EndpointURL: base URL of the remote ledger store.
//   - DatabaseDSN: path of the local SQLite cache.
//   - ProbeInterval: how often the client probes store reachability.
type Config struct {
	EndpointURL   string
	DatabaseDSN   string
	ProbeInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointURL = "http://127.0.0.1:8080/api"
	c.DatabaseDSN = "invoicer.db"
	c.ProbeInterval = 30 * time.Second
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
