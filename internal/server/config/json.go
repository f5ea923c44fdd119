package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/flagx"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "1m" strings and integer nanoseconds. Absent fields leave the
// current value untouched.
type JsonConfig struct {
	ListenAddr                  *string         `json:"listen_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	RecommenderURL              *string         `json:"recommender_url"`
	AllowedOrigin               *string         `json:"allowed_origin"`
	RecommenderTimeout          *timex.Duration `json:"recommender_timeout"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays config with the JSON file named by -c/-config in args,
// or by the TRIP_SERVER_CONFIG environment variable. No path, no change.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args, EnvConfig)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RecommenderURL, c.RecommenderURL)
	setString(&config.AllowedOrigin, c.AllowedOrigin)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RecommenderTimeout, c.RecommenderTimeout)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = time.Duration(v.Duration)
	}
}
