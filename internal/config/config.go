// Package config loads the journal's settings and builds its logger.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all journal configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Prompt   PromptConfig   `yaml:"prompt"`
}

// DatabaseConfig locates the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the REST API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// LexiconConfig points at an optional YAML file overriding the built-in tables
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// PromptConfig seeds prompt selection; 0 seeds from the clock
type PromptConfig struct {
	Seed uint64 `yaml:"seed"`
}

// Dir is the default directory for the database and config file
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".journal")
}

// DefaultPath is where Load looks when no config file is given
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(Dir(), "journal.db")},
		Server:   ServerConfig{Addr: ":8080"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JOURNAL_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("JOURNAL_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JOURNAL_LEXICON"); v != "" {
		c.Lexicon.Path = v
	}
}

// NewLogger builds a production zap logger at the given level
func NewLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
