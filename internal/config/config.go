// Package config reads the fieldsurvey configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/fieldsurvey/internal/logging"
)

// Environment variables that override the config file.
const (
	EnvConfig   = "FIELDSURVEY_CONFIG"
	EnvDB       = "FIELDSURVEY_DB"
	EnvTemplate = "FIELDSURVEY_TEMPLATE"
	EnvLogLevel = "FIELDSURVEY_LOG_LEVEL"
)

// Config is the on-disk configuration.
type Config struct {
	Logging logging.Config `yaml:"logging"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Survey struct {
		// TemplatePath points at a YAML or JSON template. Empty means the
		// built-in survey.
		TemplatePath string `yaml:"template_path"`
	} `yaml:"survey"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Logging = logging.Config{
		Level:      "info",
		MaxSize:    10,
		MaxAge:     30,
		MaxBackups: 3,
	}
	return c
}

// Load reads the config file at path over the defaults. Unknown keys are
// rejected. An empty path yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides file settings with environment variables.
func (c *Config) ApplyEnv() {
	if p := os.Getenv(EnvDB); p != "" {
		c.Database.Path = p
	}
	if p := os.Getenv(EnvTemplate); p != "" {
		c.Survey.TemplatePath = p
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		c.Logging.Level = l
	}
}

// DefaultPath resolves the config file location in priority order:
// 1. FIELDSURVEY_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/fieldsurvey/config.yaml
// 3. ~/.config/fieldsurvey/config.yaml
//
// The XDG locations are only returned when the file exists, so a missing
// default config is not an error.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	p := filepath.Join(configHome, "fieldsurvey", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat config: %w", err)
	}
	return p, nil
}
