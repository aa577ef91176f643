// Package config provides configuration management for Blockdown using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files (.blockdown.yml), environment
// variable overrides with the BLOCKDOWN_ prefix, defaulting, and security
// checks. It manages content scan paths, formatting behavior, and the preview
// server settings.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sparktype/blockdown/internal/validation"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Format  FormatConfig  `yaml:"format"`
	Watch   WatchConfig   `yaml:"watch"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ContentConfig struct {
	// ScanPaths are the directories searched for block documents
	ScanPaths []string `yaml:"scan_paths"`
	// ExcludePatterns filters file basenames out of directory walks
	ExcludePatterns []string `yaml:"exclude_patterns"`
	// Extensions are the file extensions treated as block documents
	Extensions []string `yaml:"extensions"`
}

type FormatConfig struct {
	// WriteInPlace rewrites files during fmt instead of printing to stdout
	WriteInPlace bool `yaml:"write_in_place"`
}

type WatchConfig struct {
	// DebounceMillis groups rapid file changes before re-parsing
	DebounceMillis int `yaml:"debounce_millis"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slices set via viper (workaround for viper slice handling)
	if viper.IsSet("content.scan_paths") && len(config.Content.ScanPaths) == 0 {
		config.Content.ScanPaths = viper.GetStringSlice("content.scan_paths")
	}
	if viper.IsSet("content.exclude_patterns") && len(config.Content.ExcludePatterns) == 0 {
		config.Content.ExcludePatterns = viper.GetStringSlice("content.exclude_patterns")
	}
	if viper.IsSet("server.allowed_origins") && len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}

	// Defaults
	if len(config.Content.ScanPaths) == 0 {
		config.Content.ScanPaths = []string{"./content"}
	}
	if len(config.Content.ExcludePatterns) == 0 {
		config.Content.ExcludePatterns = []string{"*.bak", ".#*"}
	}
	if len(config.Content.Extensions) == 0 {
		config.Content.Extensions = []string{".md"}
	}
	if config.Server.Port == 0 {
		config.Server.Port = 4321
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Watch.DebounceMillis == 0 {
		config.Watch.DebounceMillis = 300
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server config: port %d is not in valid range 0-65535", config.Server.Port)
	}
	if err := validation.ValidateHost(config.Server.Host); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	for _, path := range config.Content.ScanPaths {
		if err := validation.ValidatePath(path); err != nil {
			return fmt.Errorf("content config: invalid scan path %q: %w", path, err)
		}
	}
	return nil
}
