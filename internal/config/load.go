package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when --config is not given.
const EnvConfig = "TOTEMFALL_CONFIG"

// Load builds the config from defaults, then the first config file found,
// then command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := locate(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.Source = path
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// locate picks the config file: --config, then $TOTEMFALL_CONFIG, then the
// search locations.
func locate() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile returns the first existing file among ./totemfall.yaml and
// <ConfigDir>/config.yaml.
func findConfigFile() string {
	for _, path := range []string{"totemfall.yaml", filepath.Join(ConfigDir(), "config.yaml")} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user totemfall directory.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "totemfall")
}

// loadFromFile decodes path over cfg. Keys missing from the file keep their
// current values; key bindings merge, so a file only lists the keys it
// rebinds. Unknown keys are an error.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
