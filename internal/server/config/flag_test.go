package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-t", "15", "-r", "http://engine/api/query", "-o", "https://app.example.com",
			},
			expected: &Config{
				ListenAddr:                  "127.0.0.1:9090",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 15 * time.Minute,
				RecommenderURL:              "http://engine/api/query",
				AllowedOrigin:               "https://app.example.com",
			},
		},
		{
			name:     "unknown flags are filtered out",
			args:     []string{"-config", "x.json", "-a", ":1", "-x", "y"},
			expected: &Config{ListenAddr: ":1"},
		},
		{
			name:    "bad int",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
