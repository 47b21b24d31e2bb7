// Package config loads seedlock settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/keystore"
	"github.com/illarion/seedlock/internal/logging"
	"gopkg.in/yaml.v3"
)

const (
	// LogLevelEnvVar overrides the configured log level.
	LogLevelEnvVar = "SEEDLOCK_LOG_LEVEL"

	dirName  = "seedlock"
	fileName = "config.yaml"
)

// Config holds user settings. Zero-valued fields in the file keep their
// defaults.
type Config struct {
	// Iterations is the PBKDF2 cost applied to newly encoded records.
	Iterations int `yaml:"iterations"`

	// LogLevel is one of off, trace, debug, info, warn, error, critical.
	LogLevel string `yaml:"log_level"`

	// Keyring enables the OS keyring passphrase cache.
	Keyring bool `yaml:"keyring"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Iterations: crypto.DefaultIters,
		LogLevel:   logging.LevelOff,
		Keyring:    true,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Load reads the file at path over the defaults. A missing file is only an
// error when mustExist is set.
func Load(path string, mustExist bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment overrides.
func (c *Config) ApplyEnv() {
	if level := os.Getenv(LogLevelEnvVar); level != "" {
		c.LogLevel = level
	}
}

// Validate rejects settings the codec or logger cannot honor.
func (c *Config) Validate() error {
	if c.Iterations < 1 || c.Iterations > keystore.MaxIterations {
		return fmt.Errorf("iterations must be between 1 and %d, got %d",
			keystore.MaxIterations, c.Iterations)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
