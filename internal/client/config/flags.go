package config

import (
	"flag"
	"os"
	"time"

	"github.com/primesolution/invoicer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the remote ledger store
//	-d string   path of the local SQLite cache
//	-i int      connectivity probe interval in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, so cobra subcommands and their flags pass through
// untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointURL, "u", cfg.EndpointURL, "base URL of the remote store")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local database")
	probeInterval := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "connectivity probe interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ProbeInterval = time.Duration(*probeInterval) * time.Second
}
