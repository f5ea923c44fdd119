package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept "30m" style strings or integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL     string          `json:"server_base_url"`
	InactivityTimeout *timex.Duration `json:"inactivity_timeout"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	StatePath         string          `json:"state_path"`
	Verbose           *bool           `json:"verbose"`
}

// parseJSON overlays cfg with the fields present in the file at path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.InactivityTimeout != nil {
		cfg.InactivityTimeout = jc.InactivityTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatePath != "" {
		cfg.StatePath = jc.StatePath
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
	return nil
}
