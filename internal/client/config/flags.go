package config

import (
	"os"

	"github.com/spf13/pflag"
)

// Flags binds command-line overrides onto a pflag.FlagSet (normally the
// cobra root's persistent flags).
type Flags struct {
	ConfigPath string

	fs     *pflag.FlagSet
	values Config
}

func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	var d Config
	d.LoadDefaults()

	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to JSON config file (env "+EnvConfig+")")
	fs.StringVarP(&f.values.ServerBaseURL, "server", "s", d.ServerBaseURL, "backend base URL")
	fs.DurationVar(&f.values.InactivityTimeout, "idle-timeout", d.InactivityTimeout, "log out after this long without input (0 disables)")
	fs.DurationVar(&f.values.RequestTimeout, "request-timeout", d.RequestTimeout, "timeout for each backend request")
	fs.StringVar(&f.values.StatePath, "state", d.StatePath, "path to the local state database")
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", d.Verbose, "debug logging to stderr")
	return f
}

// Load builds the Config: defaults, then the JSON file, then the flags that
// were set explicitly. Later sources win.
func (f *Flags) Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := f.ConfigPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	f.apply(cfg)
	return cfg, nil
}

func (f *Flags) apply(cfg *Config) {
	if f.fs.Changed("server") {
		cfg.ServerBaseURL = f.values.ServerBaseURL
	}
	if f.fs.Changed("idle-timeout") {
		cfg.InactivityTimeout = f.values.InactivityTimeout
	}
	if f.fs.Changed("request-timeout") {
		cfg.RequestTimeout = f.values.RequestTimeout
	}
	if f.fs.Changed("state") {
		cfg.StatePath = f.values.StatePath
	}
	if f.fs.Changed("verbose") {
		cfg.Verbose = f.values.Verbose
	}
}
