package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a lintmux configuration from the given YAML file
// path. After parsing, it fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches standard locations and loads the first config file
// found. Search order: ./.lintmux.yaml, ./lintmux.yaml,
// ~/.lintmux/config.yaml. A project with no config file runs with the
// built-in defaults; only a file that exists but cannot be parsed is an
// error.
func LoadDefault() (*Config, error) {
	candidates := []string{".lintmux.yaml", "lintmux.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".lintmux", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return Default(), nil
}

// Default returns the configuration used when no file is present: all
// tools enabled with stock commands, text output, failing on errors.
func Default() *Config {
	cfg := &Config{Tools: map[string]Tool{}}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset output settings.
func applyDefaults(cfg *Config) {
	if cfg.Tools == nil {
		cfg.Tools = map[string]Tool{}
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Output.FailOn == "" {
		cfg.Output.FailOn = "error"
	}
}
