// Package config provides configuration management for the inventory tracker.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default configuration values.
const (
	DefaultInventoryFile   = "inventory.json"
	DefaultAutoSave        = true
	DefaultLogLevel        = "info"
	DefaultLogEncoding     = "console"
	DefaultProbePort       = 0
	DefaultMetricsEnabled  = true
	DefaultShutdownTimeout = 5 * time.Second
)

// Environment variable names.
const (
	EnvInventoryFile   = "APP_INVENTORY_FILE"
	EnvAutoSave        = "APP_AUTO_SAVE"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvLogEncoding     = "APP_LOG_ENCODING"
	EnvProbePort       = "APP_PROBE_PORT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
)

// Config holds the application configuration.
type Config struct {
	// Storage settings.
	InventoryFile string
	AutoSave      bool

	// Logging settings.
	LogLevel    string
	LogEncoding string

	// Probe server settings.
	ProbePort       int // Probe server port (0 = disabled).
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// Validation errors.
var (
	ErrEmptyInventoryFile     = errors.New("inventory file path cannot be empty")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogEncoding     = errors.New("log encoding must be one of: console, json")
	ErrInvalidProbePort       = errors.New("probe port must be between 0 and 65535")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
)

// Load reads configuration from environment variables with defaults.
// Environment variables have priority over default values.
func Load() (*Config, error) {
	cfg := &Config{
		InventoryFile:   DefaultInventoryFile,
		AutoSave:        DefaultAutoSave,
		LogLevel:        DefaultLogLevel,
		LogEncoding:     DefaultLogEncoding,
		ProbePort:       DefaultProbePort,
		MetricsEnabled:  DefaultMetricsEnabled,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if err := c.loadStorageEnv(); err != nil {
		return err
	}

	c.loadLogEnv()

	if err := c.loadProbeEnv(); err != nil {
		return err
	}

	return nil
}

// loadStorageEnv loads backing file environment variables.
func (c *Config) loadStorageEnv() error {
	if val := os.Getenv(EnvInventoryFile); val != "" {
		c.InventoryFile = val
	}

	if val := os.Getenv(EnvAutoSave); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvAutoSave, err)
		}
		c.AutoSave = enabled
	}

	return nil
}

// loadLogEnv loads logging environment variables.
func (c *Config) loadLogEnv() {
	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvLogEncoding); val != "" {
		c.LogEncoding = val
	}
}

// loadProbeEnv loads probe server environment variables.
func (c *Config) loadProbeEnv() error {
	if val := os.Getenv(EnvProbePort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvProbePort, err)
		}
		c.ProbePort = port
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	return nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.InventoryFile == "" {
		return ErrEmptyInventoryFile
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	validEncodings := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validEncodings[c.LogEncoding] {
		return ErrInvalidLogEncoding
	}

	if c.ProbePort < 0 || c.ProbePort > 65535 {
		return ErrInvalidProbePort
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// ProbeEnabled reports whether the probe server should run.
func (c *Config) ProbeEnabled() bool {
	return c.ProbePort != 0
}

// ProbeAddress returns the probe server address in host:port format.
func (c *Config) ProbeAddress() string {
	return fmt.Sprintf(":%d", c.ProbePort)
}
