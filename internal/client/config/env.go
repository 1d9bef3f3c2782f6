package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first; existing variables win over
// the file's.
//
// Recognized variables:
//
//	FURNBOARD_SERVER_URL     backend REST base URL
//	FURNBOARD_WS_URL         backend websocket URL
//	FURNBOARD_DB_PATH        local sqlite file path
//	FURNBOARD_PROBE_INTERVAL online probe interval (Go duration, e.g. "5s")
//	FURNBOARD_PAGE_SIZE      collection list page size
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FURNBOARD_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("FURNBOARD_WS_URL"); v != "" {
		cfg.WebsocketURL = v
	}
	if v := os.Getenv("FURNBOARD_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("FURNBOARD_PROBE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProbeInterval = d
		}
	}
	if v := os.Getenv("FURNBOARD_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
}
