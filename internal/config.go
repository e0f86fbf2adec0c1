package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is read once at startup
type Config struct {
	// Storage overrides the data directory or database file
	Storage string `yaml:"storage" toml:"storage" json:"storage"`

	// DefaultMinutes and DefaultSeconds preset free-form timing
	DefaultMinutes int `yaml:"default_minutes" toml:"default_minutes" json:"default_minutes"`
	DefaultSeconds int `yaml:"default_seconds" toml:"default_seconds" json:"default_seconds"`

	// QuotaBytes caps what the store may hold; 0 means unlimited
	QuotaBytes int64 `yaml:"quota_bytes" toml:"quota_bytes" json:"quota_bytes"`

	// Speakers is the agenda; empty means free-form timing
	Speakers []AgendaEntry `yaml:"speakers" toml:"speakers" json:"speakers"`
}

// DefaultConfig returns free-form 10:00 timing with no quota
func DefaultConfig() *Config {
	return &Config{DefaultMinutes: DefaultMinutes}
}

// LoadConfig reads a YAML, TOML or JSON config chosen by extension. A
// missing file yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			LogDebug("No config at %s, using defaults", path)
		case err != nil:
			return nil, &ConfigError{Path: path, Err: err}
		default:
			if err := decodeConfig(path, data, cfg); err != nil {
				return nil, &ConfigError{Path: path, Err: err}
			}
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

func decodeConfig(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (supported: yaml, toml, json)", filepath.Ext(path))
	}
	return nil
}

// ApplyEnvOverrides reads TIMEKEEPER_STORAGE and TIMEKEEPER_QUOTA_BYTES
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("TIMEKEEPER_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("TIMEKEEPER_QUOTA_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TIMEKEEPER_QUOTA_BYTES: %w", err)
		}
		c.QuotaBytes = n
	}
	return nil
}

// Validate checks durations and the agenda
func (c *Config) Validate() error {
	var errs []error
	if c.DefaultMinutes < 0 || c.DefaultMinutes > MaxMinutes {
		errs = append(errs, fmt.Errorf("default_minutes must be 0..%d, got %d", MaxMinutes, c.DefaultMinutes))
	}
	if c.DefaultSeconds < 0 || c.DefaultSeconds > 59 {
		errs = append(errs, fmt.Errorf("default_seconds must be 0..59, got %d", c.DefaultSeconds))
	}
	if c.QuotaBytes < 0 {
		errs = append(errs, fmt.Errorf("quota_bytes must not be negative"))
	}
	for i, s := range c.Speakers {
		if s.Minutes < 0 || s.Minutes > MaxMinutes {
			errs = append(errs, fmt.Errorf("speaker %d (%s): minutes must be 0..%d", i+1, s.Name, MaxMinutes))
		}
		if s.Seconds < 0 || s.Seconds > 59 {
			errs = append(errs, fmt.Errorf("speaker %d (%s): seconds must be 0..59", i+1, s.Name))
		}
	}
	return errors.Join(errs...)
}

// Fields returns the free-form fields the config presets
func (c *Config) Fields() ActiveFields {
	return ActiveFields{Minutes: c.DefaultMinutes, Seconds: c.DefaultSeconds}.Normalize()
}

// AgendaMode reports whether the config carries an agenda
func (c *Config) AgendaMode() bool {
	return len(c.Speakers) > 0
}
