package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

type Cache struct {
	Enabled    bool   `yaml:"enabled"`
	Address    string `yaml:"address"`
	TTLMinutes int    `yaml:"ttlMinutes"`
}

type ServiceConfig struct {
	Port           int      `yaml:"port"`
	MaxUploadBytes int64    `yaml:"maxUploadBytes"`
	ScratchDir     string   `yaml:"scratchDir"`
	Database       Database `yaml:"database"`
	Cache          Cache    `yaml:"cache"`
}

const defaultMaxUploadBytes = 20 << 20 // 20 MiB

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig ensures required fields are present and fills defaults.
func validateConfig(config *ServiceConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be in (0,65535], got %d", config.Port)
	}
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = defaultMaxUploadBytes
	}
	if config.MaxUploadBytes < 0 {
		return fmt.Errorf("maxUploadBytes must be positive, got %d", config.MaxUploadBytes)
	}
	if config.Database.Type == "" {
		return fmt.Errorf("database type must not be empty")
	}
	if config.Cache.Enabled && config.Cache.Address == "" {
		return fmt.Errorf("cache address must not be empty when the cache is enabled")
	}
	if config.Cache.TTLMinutes < 0 {
		return fmt.Errorf("cache ttlMinutes must not be negative, got %d", config.Cache.TTLMinutes)
	}
	return nil
}
