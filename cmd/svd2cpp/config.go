package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds generator settings loaded from an optional YAML file.
// Command-line flags override file values.
type Config struct {
	// Output is the directory generated headers are written to.
	Output string `yaml:"output"`

	// Report is the path of the machine-readable findings report file.
	// Empty disables the report.
	Report string `yaml:"report"`

	// Verbose enables debug-level console output.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{Output: "generated"}
}

// ParseConfig parses generator settings from YAML bytes, applied on top of
// the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultConfig().Output
	}
	return cfg, nil
}

// LoadConfig loads and parses generator settings from a file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseConfig(data)
}
