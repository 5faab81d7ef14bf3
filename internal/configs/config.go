package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type UserConfig struct {
	Keys   KeysConfig   `toml:"keys"`
	Output OutputConfig `toml:"output"`
	Audit  AuditConfig  `toml:"audit"`
}

type KeysConfig struct {
	Dir  string `toml:"dir,omitempty"`
	Name string `toml:"name,omitempty"`
}

type OutputConfig struct {
	// Clipboard makes encrypt and decrypt write to the clipboard by default.
	Clipboard bool `toml:"clipboard"`
}

type AuditConfig struct {
	Disabled bool `toml:"disabled"`
}

// LoadUserConfig loads config.toml from configsPath. A missing file yields
// an empty config.
func LoadUserConfig(configsPath string) (*UserConfig, error) {
	configPath := filepath.Join(configsPath, "config.toml")
	config := &UserConfig{}

	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig writes config to config.toml in configsPath.
func SaveUserConfig(configsPath string, config *UserConfig) error {
	configPath := filepath.Join(configsPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}
