package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/mkhitrov/furnboard/internal/flagx"
	"github.com/mkhitrov/furnboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be strings like "5s" or integer
// nanoseconds. Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	ServerBaseURL     string         `json:"server_base_url"`
	WebsocketURL      string         `json:"websocket_url"`
	DatabasePath      string         `json:"database_path"`
	ProbeInterval     timex.Duration `json:"probe_interval"`
	ProbeTimeout      timex.Duration `json:"probe_timeout"`
	OfflineBackoffMin timex.Duration `json:"offline_backoff_min"`
	OfflineBackoffMax timex.Duration `json:"offline_backoff_max"`
	PageSize          int            `json:"page_size"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given nothing is loaded. Read and unmarshal errors panic.
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.WebsocketURL != "" {
		cfg.WebsocketURL = jc.WebsocketURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ProbeInterval.Duration > 0 {
		cfg.ProbeInterval = time.Duration(jc.ProbeInterval.Duration)
	}
	if jc.ProbeTimeout.Duration > 0 {
		cfg.ProbeTimeout = time.Duration(jc.ProbeTimeout.Duration)
	}
	if jc.OfflineBackoffMin.Duration > 0 {
		cfg.OfflineBackoffMin = time.Duration(jc.OfflineBackoffMin.Duration)
	}
	if jc.OfflineBackoffMax.Duration > 0 {
		cfg.OfflineBackoffMax = time.Duration(jc.OfflineBackoffMax.Duration)
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
}
