package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// BackendConfig holds isolation backend configuration
type BackendConfig struct {
	Runtime string `mapstructure:"runtime"`
	Image   string `mapstructure:"image"`
}

// LimitsConfig holds the process-wide resource limit policy. It is read
// once at startup and never mutated per request.
type LimitsConfig struct {
	TimeoutSec         int     `mapstructure:"timeout_sec"`
	MemoryMB           int     `mapstructure:"memory_mb"`
	CPUs               float64 `mapstructure:"cpus"`
	PidsLimit          int     `mapstructure:"pids_limit"`
	MaxCodeChars       int     `mapstructure:"max_code_chars"`
	NetworkEnabled     bool    `mapstructure:"network_enabled"`
	FilesystemWritable bool    `mapstructure:"filesystem_writable"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads and validates the application configuration
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	viper.SetDefault("server.transport", "http")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("backend.runtime", "docker")
	viper.SetDefault("backend.image", "python:3.11-slim")
	viper.SetDefault("limits.timeout_sec", 10)
	viper.SetDefault("limits.memory_mb", 128)
	viper.SetDefault("limits.cpus", 1.0)
	viper.SetDefault("limits.pids_limit", 64)
	viper.SetDefault("limits.max_code_chars", 5000)
	viper.SetDefault("limits.network_enabled", false)
	viper.SetDefault("limits.filesystem_writable", false)
	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	switch c.Server.Transport {
	case "http", "mcp-stdio", "mcp-http":
	default:
		return fmt.Errorf("invalid server.transport: %s, must be 'http', 'mcp-stdio' or 'mcp-http'", c.Server.Transport)
	}

	if c.Backend.Runtime != "docker" && c.Backend.Runtime != "podman" {
		return fmt.Errorf("unsupported backend.runtime: %s", c.Backend.Runtime)
	}

	if c.Backend.Image == "" {
		return fmt.Errorf("backend.image must not be empty")
	}

	if c.Limits.TimeoutSec <= 0 {
		return fmt.Errorf("limits.timeout_sec must be positive, got: %d", c.Limits.TimeoutSec)
	}

	if c.Limits.MemoryMB <= 0 {
		return fmt.Errorf("limits.memory_mb must be positive, got: %d", c.Limits.MemoryMB)
	}

	if c.Limits.CPUs <= 0 {
		return fmt.Errorf("limits.cpus must be positive, got: %f", c.Limits.CPUs)
	}

	if c.Limits.PidsLimit <= 0 {
		return fmt.Errorf("limits.pids_limit must be positive, got: %d", c.Limits.PidsLimit)
	}

	if c.Limits.MaxCodeChars <= 0 {
		return fmt.Errorf("limits.max_code_chars must be positive, got: %d", c.Limits.MaxCodeChars)
	}

	return nil
}

// Timeout returns the execution timeout as a duration
func (l LimitsConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSec) * time.Second
}
