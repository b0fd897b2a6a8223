/*
Package config manages TOML config for kanabest services.
*/
package config

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"kanabest/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Dict    DictConfig    `toml:"dict"`
	Server  ServerConfig  `toml:"server"`
}

// ConvertConfig has candidate generation options.
type ConvertConfig struct {
	DefaultLimit  int    `toml:"default_limit"`
	BoundaryMode  string `toml:"boundary_mode"`
	SingleSegment bool   `toml:"single_segment"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path string `toml:"path"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxKeyBytes int `toml:"max_key_bytes"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			DefaultLimit:  10,
			BoundaryMode:  "strict",
			SingleSegment: false,
		},
		Dict: DictConfig{
			Path: "data/dictionary.bin",
		},
		Server: ServerConfig{
			MaxLimit:    64,
			MaxKeyBytes: 300,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to salvage valid sections from a malformed TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if convertSection, ok := utils.ExtractSection(tempConfig, "convert"); ok {
		extractConvertConfig(convertSection, &config.Convert)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	return config, nil
}

// extractConvertConfig extracts conversion configuration from a map
func extractConvertConfig(data map[string]any, convert *ConvertConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		convert.DefaultLimit = val
	}
	if val, ok := utils.ExtractString(data, "boundary_mode"); ok {
		convert.BoundaryMode = val
	}
	if val, ok := utils.ExtractBool(data, "single_segment"); ok {
		convert.SingleSegment = val
	}
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_key_bytes"); ok {
		server.MaxKeyBytes = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file
func (c *Config) Update(configPath string, defaultLimit *int, boundaryMode *string, singleSegment *bool) error {
	if defaultLimit != nil {
		c.Convert.DefaultLimit = *defaultLimit
	}
	if boundaryMode != nil {
		c.Convert.BoundaryMode = *boundaryMode
	}
	if singleSegment != nil {
		c.Convert.SingleSegment = *singleSegment
	}
	return SaveConfig(c, configPath)
}
