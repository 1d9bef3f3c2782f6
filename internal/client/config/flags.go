package config

import (
	"flag"
	"os"
	"time"

	"github.com/mkhitrov/furnboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend REST API
//	-w string   websocket URL for realtime push (empty disables)
//	-d string   local sqlite database path
//	-i int      connectivity probe interval in seconds
//
// Only the flags listed here are consumed; os.Args is filtered through
// flagx.FilterArgs so unrelated flags pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.WebsocketURL, "w", cfg.WebsocketURL, "websocket URL for realtime push")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	probeInterval := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "probe interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ProbeInterval = time.Duration(*probeInterval) * time.Second
}
