// Package config resolves watchlens settings from a YAML file, a .env file
// and WATCHLENS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/logging"
	"github.com/gauthierbraillon/watchlens/internal/session"
	"github.com/gauthierbraillon/watchlens/internal/words"
)

// Config holds all application configuration.
type Config struct {
	DataDir           string                 `yaml:"data_dir"`
	HistoryFile       string                 `yaml:"history_file"`
	CategoriesFile    string                 `yaml:"categories_file"`
	DatabaseFile      string                 `yaml:"database_file"`
	SessionGapMinutes int                    `yaml:"session_gap_minutes"`
	MinWordFrequency  int                    `yaml:"min_word_frequency"`
	Stopwords         []string               `yaml:"stopwords"`
	ExtraStopwords    []string               `yaml:"extra_stopwords"`
	ContentCategories []features.KeywordRule `yaml:"content_categories"`
	LogLevel          string                 `yaml:"log_level"`
}

// Dir returns the configuration directory.
func Dir() string {
	if dir := os.Getenv("WATCHLENS_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "watchlens")
}

// Path returns the config file path from environment or default.
func Path() string {
	if path := os.Getenv("WATCHLENS_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(Dir(), "config.yaml")
}

// LoadEnvFile loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file: %w", err)
}

// Load reads configuration from a YAML file and applies defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user configuration
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := applyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = Dir()
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = filepath.Join(cfg.DataDir, "watch-history.json")
	}
	if cfg.CategoriesFile == "" {
		cfg.CategoriesFile = filepath.Join(cfg.DataDir, "word_categories.json")
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = filepath.Join(cfg.DataDir, "watchlens.db")
	}
	if cfg.SessionGapMinutes == 0 {
		cfg.SessionGapMinutes = int(session.DefaultGap / time.Minute)
	}
	if cfg.MinWordFrequency == 0 {
		cfg.MinWordFrequency = words.DefaultMinFrequency
	}
	if len(cfg.ContentCategories) == 0 {
		cfg.ContentCategories = features.DefaultKeywordRules()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnvironmentOverrides(cfg *Config) error {
	if dir := os.Getenv("WATCHLENS_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if path := os.Getenv("WATCHLENS_DB"); path != "" {
		cfg.DatabaseFile = path
	}
	if path := os.Getenv("WATCHLENS_CATEGORIES_FILE"); path != "" {
		cfg.CategoriesFile = path
	}
	if level := os.Getenv("WATCHLENS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if v := os.Getenv("WATCHLENS_MIN_FREQUENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WATCHLENS_MIN_FREQUENCY must be an integer, got %q", v)
		}
		cfg.MinWordFrequency = n
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.SessionGapMinutes < 0 {
		return fmt.Errorf("session_gap_minutes must not be negative, got %d", cfg.SessionGapMinutes)
	}
	if cfg.MinWordFrequency < 1 {
		return fmt.Errorf("min_word_frequency must be at least 1, got %d", cfg.MinWordFrequency)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	for i, rule := range cfg.ContentCategories {
		if rule.Category == "" {
			return fmt.Errorf("content_categories[%d]: category is required", i)
		}
	}
	return nil
}

// SessionGap returns the session gap as a duration.
func (c *Config) SessionGap() time.Duration {
	return time.Duration(c.SessionGapMinutes) * time.Minute
}

// StopwordSet builds the stopword set: the configured list (or the built-in
// one when empty) plus any extra words.
func (c *Config) StopwordSet() words.Stopwords {
	var sw words.Stopwords
	if len(c.Stopwords) > 0 {
		sw = words.NewStopwords(c.Stopwords...)
	} else {
		sw = words.DefaultStopwords()
	}
	sw.Add(c.ExtraStopwords...)
	return sw
}
