// Package config holds the application configuration and its TOML loader.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config contains all the configuration for the application.
type Config struct {
	// Core settings
	IngestURL string            `toml:"ingest_url"`
	AuthToken string            `toml:"auth_token"`
	AppName   string            `toml:"app_name"`
	Tags      map[string]string `toml:"tags"`
	LogLevel  string            `toml:"log_level"`

	// Pipeline settings
	Interval        float64 `toml:"interval"`         // seconds between batch flushes
	BatchLimit      int     `toml:"batch_limit"`      // maximum records per batch
	ConcurrentLimit int     `toml:"concurrent_limit"` // maximum concurrent batchers

	// Journal settings
	JournalPath string `toml:"journal_path"`
}

// NewDefault returns a new default config.
func NewDefault() *Config {
	return &Config{
		AppName:         "tracescope",
		LogLevel:        "info",
		Interval:        1.0,
		BatchLimit:      50000,
		ConcurrentLimit: 1,
	}
}

// Load decodes a TOML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefault()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown configuration key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// FlushInterval returns the batch flush interval as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Interval * float64(time.Second))
}
