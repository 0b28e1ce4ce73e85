// Package config loads the server configuration from the xcmcp home
// directory. Everything has a default; a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const fileName = "xcmcp.toml"

// Config is the on-disk server configuration.
type Config struct {
	// LogLevel is the minimum level written to the log ("debug", "info",
	// "warn", "error").
	LogLevel string `toml:"log_level"`

	// DefaultWorkflows overrides the manifest's default-enabled set at
	// startup when non-empty.
	DefaultWorkflows []string `toml:"default_workflows"`

	// ManifestDir points at a directory of manifest YAML files to load
	// instead of the embedded manifest.
	ManifestDir string `toml:"manifest_dir"`
}

func DefaultConfig() Config {
	return Config{LogLevel: "info"}
}

// Dir returns the xcmcp home directory, creating it if needed. XCMCP_HOME
// overrides the default ~/.xcmcp.
func Dir() (string, error) {
	dir := os.Getenv("XCMCP_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".xcmcp")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Load reads the config file from dir. A missing file yields the defaults;
// a malformed file is an error.
func Load(dir string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", fileName, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Save writes the config file to dir.
func Save(dir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fileName), data, 0644)
}
