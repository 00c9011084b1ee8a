package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cosmos-mcp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/cosmos-mcp"
	configFileName = "config.yaml"
)

// osUserHomeDir is swapped out in tests.
var osUserHomeDir = os.UserHomeDir

// DefaultConfigPath returns ~/.config/cosmos-mcp, or "" when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig reads config.yaml from configPath over the defaults. A missing
// file is not an error.
func LoadConfig(configPath string) (Config, error) {
	config := GetDefaultConfig()
	if configPath == "" {
		return config, nil
	}

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// Load reads the file, applies the environment and validates the result.
func Load(configPath string) (Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnv(&config, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
