// Package config provides configuration loading for the PlateLink server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "platelink.yaml"

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Network NetworkConfig `yaml:"network"`
	Monitor MonitorConfig `yaml:"monitor"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
}

// StoreConfig selects where the inventory collection lives
type StoreConfig struct {
	// Driver is "memory" or "sqlite"
	Driver string `yaml:"driver"`
	// Path is the SQLite database path (":memory:" keeps it process-local)
	Path string `yaml:"path"`
}

// NetworkConfig describes the caller's home facility and the seed data
type NetworkConfig struct {
	HomeFacility string  `yaml:"home_facility"`
	HomeLat      float64 `yaml:"home_lat"`
	HomeLon      float64 `yaml:"home_lon"`
	// Scenario is loaded at startup (empty = start with no stock)
	Scenario string `yaml:"scenario"`
}

// MonitorConfig configures the periodic expiry report
type MonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures slog output
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
			StaticDir:      "./web/dist",
		},
		Store: StoreConfig{
			Driver: "memory",
			Path:   ":memory:",
		},
		Network: NetworkConfig{
			HomeFacility: "City General Hospital",
			HomeLat:      34.0522,
			HomeLon:      -118.2437,
			Scenario:     "rolling",
		},
		Monitor: MonitorConfig{
			Enabled:  true,
			Interval: 1 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Network.HomeFacility) == "" {
		return fmt.Errorf("network.home_facility is required")
	}
	if c.Monitor.Enabled && c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive when the monitor is enabled")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Server.StaticDir != "" {
		c.Server.StaticDir = other.Server.StaticDir
	}

	// Store
	if other.Store.Driver != "" {
		c.Store.Driver = other.Store.Driver
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}

	// Network
	if other.Network.HomeFacility != "" {
		c.Network.HomeFacility = other.Network.HomeFacility
		c.Network.HomeLat = other.Network.HomeLat
		c.Network.HomeLon = other.Network.HomeLon
	}
	if other.Network.Scenario != "" {
		c.Network.Scenario = other.Network.Scenario
	}

	// Monitor
	if other.Monitor.Interval != 0 {
		c.Monitor.Interval = other.Monitor.Interval
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
