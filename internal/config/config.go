// Package config loads the drift shell configuration from YAML with
// environment variable expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the drift shell configuration.
type Config struct {
	Engine struct {
		Headless       bool `yaml:"headless"`
		NoSandbox      bool `yaml:"no_sandbox"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"engine"`

	// Manifest is the path to a web app manifest; when set, tabs opened
	// by the shell are treated as custom tabs inside its trusted scope.
	Manifest string `yaml:"manifest"`

	// ContextID is the default container id for new tabs.
	ContextID string `yaml:"context_id"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Engine.Headless = true
	c.Engine.TimeoutSeconds = 30
	return c
}

// Load reads a YAML config file, expanding ${VAR} references from the
// environment.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes decodes YAML config bytes over the defaults.
func LoadFromBytes(data []byte) (Config, error) {
	c := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if c.Engine.TimeoutSeconds <= 0 {
		c.Engine.TimeoutSeconds = 30
	}
	return c, nil
}

// EngineTimeout returns the navigation timeout as a duration.
func (c Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds) * time.Second
}
