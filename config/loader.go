package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
)

// Loader resolves the configuration file and applies defaults.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load returns the configuration with layered precedence:
// 1. Default config
// 2. The explicit path, or platelink.yaml in the working directory
//
// An explicit path that cannot be read is an error; a missing default file
// is not.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	fileConfig, err := LoadFromFile(path)
	switch {
	case err == nil:
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config = fileConfig
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, err
	default:
		l.logger.Debug("No config file found, using defaults")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Level maps the configured level name to a slog.Level.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
