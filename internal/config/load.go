package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the VSA parameters can drive an operation.
func (c *Config) Validate() error {
	if c.VSA.NumProxies < 1 {
		return fmt.Errorf("num_proxies must be at least 1, got %d", c.VSA.NumProxies)
	}
	if c.VSA.NumIterations < 1 {
		return fmt.Errorf("num_iterations must be at least 1, got %d", c.VSA.NumIterations)
	}
	if c.VSA.EdgeSplitThreshold < 0 {
		return fmt.Errorf("edge_split_threshold must not be negative, got %g", c.VSA.EdgeSplitThreshold)
	}
	if c.Output.StateSuffix == "" {
		return fmt.Errorf("state_suffix must not be empty")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./isimp.yaml",
		"./isimp.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "isimp")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "isimp")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "isimp")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "isimp")
	}
}

// loadFromFile loads config from a YAML or TOML file, merging with existing
// values. The format is picked by extension; anything but .toml is YAML.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}
