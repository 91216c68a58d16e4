// Package config loads the server configuration from a YAML file,
// with environment overrides applied in cmd/huddle.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// TokenKey signs session tokens.
	TokenKey string `yaml:"token_key"`

	// TokenTTLHours bounds session token lifetime. Zero means the
	// 24 hour default.
	TokenTTLHours int `yaml:"token_ttl_hours"`

	// ArchiveDSN is the postgres connection string for the audit
	// archive. Empty runs without one.
	ArchiveDSN string `yaml:"archive_dsn"`
}

// Load reads and parses a config file, filling defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading config file")
	}

	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "Error parsing config file")
	}

	if c.Addr == "" {
		c.Addr = ":8080"
	}
	return &c, nil
}
