package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/primesolution/invoicer/internal/flagx"
	"github.com/primesolution/invoicer/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	EndpointURL   string         `json:"endpoint_url"`
	DatabaseDSN   string         `json:"database_dsn"`
	ProbeInterval timex.Duration `json:"probe_interval"`
}

// parseJson overlays Config with values loaded from a JSON file named via
// the -c/-config flags. Empty fields keep their previous values; later
// stages (flags) override.
func parseJson(cfg *Config) {
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

	if jc.EndpointURL != "" {
		cfg.EndpointURL = jc.EndpointURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.ProbeInterval.Duration != 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
}
