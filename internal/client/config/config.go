package config

import (
	"os"
	"path/filepath"
	"time"
)

// EnvConfig names the environment variable consulted for the JSON config
// path when --config is not given.
const EnvConfig = "TRIP_CLIENT_CONFIG"

// Config holds runtime settings for the trip planner client.
type Config struct {
	// ServerBaseURL is the scheme://host[:port] of the backend.
	ServerBaseURL string
	// InactivityTimeout ends the session after this long without input.
	// Zero disables it.
	InactivityTimeout time.Duration
	// RequestTimeout bounds every backend call. Recommendation queries can
	// take a while, so keep it generous.
	RequestTimeout time.Duration
	// StatePath is the SQLite file holding the token and session key.
	StatePath string
	Verbose   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.InactivityTimeout = 30 * time.Minute
	c.RequestTimeout = 2 * time.Minute
	c.StatePath = defaultStatePath()
	c.Verbose = false
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".trip-planner", "state.db")
	}
	return filepath.Join(dir, "trip-planner", "state.db")
}
