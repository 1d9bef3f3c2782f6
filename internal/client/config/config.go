package config

import "time"

// Config holds runtime settings for the furnboard client.
type Config struct {
	// ServerBaseURL is the root of the backend REST API.
	ServerBaseURL string
	// WebsocketURL is the backend push endpoint; empty disables realtime.
	WebsocketURL string
	// DatabasePath is the local sqlite file.
	DatabasePath string
	// ProbeInterval is how often connectivity is checked while online.
	ProbeInterval time.Duration
	// ProbeTimeout bounds a single health probe.
	ProbeTimeout time.Duration
	// OfflineBackoffMin/Max bound the probe interval while offline.
	OfflineBackoffMin time.Duration
	OfflineBackoffMax time.Duration
	// PageSize caps collection list requests.
	PageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.WebsocketURL = ""
	c.DatabasePath = "furnboard.db"
	c.ProbeInterval = 5 * time.Second
	c.ProbeTimeout = 5 * time.Second
	c.OfflineBackoffMin = 5 * time.Second
	c.OfflineBackoffMax = 60 * time.Second
	c.PageSize = 1000
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
