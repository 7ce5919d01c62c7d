package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAC501_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WATCHLENS_CONFIG_DIR", dir)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatalf("user should run without a config file: %v", err)
	}

	if cfg.DataDir != dir {
		t.Errorf("user should get data dir %q, got %q", dir, cfg.DataDir)
	}
	if cfg.CategoriesFile != filepath.Join(dir, "word_categories.json") {
		t.Errorf("user should get default categories file, got %q", cfg.CategoriesFile)
	}
	if cfg.SessionGap() != 30*time.Minute {
		t.Errorf("user should get a 30 minute session gap, got %v", cfg.SessionGap())
	}
	if cfg.MinWordFrequency != 75 {
		t.Errorf("user should get min frequency 75, got %d", cfg.MinWordFrequency)
	}
	if len(cfg.ContentCategories) != 5 || cfg.ContentCategories[0].Category != "tutorial" {
		t.Errorf("user should get the built-in keyword table, got %+v", cfg.ContentCategories)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("user should get info logging, got %q", cfg.LogLevel)
	}
}

func TestAC502_YAMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
data_dir: `+dir+`/data
session_gap_minutes: 45
min_word_frequency: 10
extra_stopwords: [trailer, Teaser]
content_categories:
  - category: cooking
    keywords: [recipe, bake]
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("user should be able to load a YAML config: %v", err)
	}

	if cfg.HistoryFile != filepath.Join(dir, "data", "watch-history.json") {
		t.Errorf("user should get paths under the configured data dir, got %q", cfg.HistoryFile)
	}
	if cfg.SessionGap() != 45*time.Minute {
		t.Errorf("user should get a 45 minute gap, got %v", cfg.SessionGap())
	}
	if cfg.MinWordFrequency != 10 {
		t.Errorf("user should get min frequency 10, got %d", cfg.MinWordFrequency)
	}
	if len(cfg.ContentCategories) != 1 || cfg.ContentCategories[0].Category != "cooking" {
		t.Errorf("user should get the configured keyword table, got %+v", cfg.ContentCategories)
	}

	sw := cfg.StopwordSet()
	if !sw.Contains("teaser") || !sw.Contains("trailer") {
		t.Error("user should have extra stopwords added")
	}
	if !sw.Contains("the") {
		t.Error("user should keep the built-in stopwords when only extras are configured")
	}
}

func TestAC503_StopwordsReplaceBuiltInList(t *testing.T) {
	cfg := &Config{Stopwords: []string{"alpha"}}
	sw := cfg.StopwordSet()
	if sw.Len() != 1 || !sw.Contains("alpha") {
		t.Errorf("user should get only the configured stopwords, got %d words", sw.Len())
	}
}

func TestAC504_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "min_word_frequency: 10\nlog_level: debug\n")

	t.Setenv("WATCHLENS_MIN_FREQUENCY", "3")
	t.Setenv("WATCHLENS_LOG_LEVEL", "warn")
	t.Setenv("WATCHLENS_DB", filepath.Join(dir, "other.db"))
	t.Setenv("WATCHLENS_CATEGORIES_FILE", filepath.Join(dir, "cats.json"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinWordFrequency != 3 {
		t.Errorf("user should get min frequency from environment, got %d", cfg.MinWordFrequency)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("user should get log level from environment, got %q", cfg.LogLevel)
	}
	if cfg.DatabaseFile != filepath.Join(dir, "other.db") {
		t.Errorf("user should get database path from environment, got %q", cfg.DatabaseFile)
	}
	if cfg.CategoriesFile != filepath.Join(dir, "cats.json") {
		t.Errorf("user should get categories path from environment, got %q", cfg.CategoriesFile)
	}
}

func TestAC505_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative gap", "session_gap_minutes: -5\n", "must not be negative"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"unnamed category", "content_categories:\n  - keywords: [x]\n", "category is required"},
		{"broken yaml", "min_word_frequency: [\n", "parse config yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("user should get an error for invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("user should see %q in the error, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAC506_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "WATCHLENS_TEST_ENV_VALUE=from-dotenv\n")
	t.Setenv("WATCHLENS_TEST_ENV_VALUE", "")
	os.Unsetenv("WATCHLENS_TEST_ENV_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("user should be able to load a .env file: %v", err)
	}
	if got := os.Getenv("WATCHLENS_TEST_ENV_VALUE"); got != "from-dotenv" {
		t.Errorf("user should see .env values in the environment, got %q", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("user should not get an error for a missing .env file: %v", err)
	}
}

func TestAC507_PathFromEnvironment(t *testing.T) {
	t.Setenv("WATCHLENS_CONFIG", "/tmp/custom.yaml")
	if Path() != "/tmp/custom.yaml" {
		t.Errorf("user should be able to point at a custom config file, got %q", Path())
	}

	t.Setenv("WATCHLENS_CONFIG", "")
	t.Setenv("WATCHLENS_CONFIG_DIR", "/tmp/wl")
	if Path() != filepath.Join("/tmp/wl", "config.yaml") {
		t.Errorf("user should get config.yaml in the config dir, got %q", Path())
	}
}

func TestAC508_LogLevelAcceptsSameNamesAsLogger(t *testing.T) {
	for _, level := range []string{"warning", "WARN", "Debug"} {
		t.Run(level, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", "log_level: "+level+"\n")
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("user should be able to use log level %q: %v", level, err)
			}
			if cfg.LogLevel != level {
				t.Errorf("user should keep log level %q, got %q", level, cfg.LogLevel)
			}
		})
	}

	t.Run("environment", func(t *testing.T) {
		t.Setenv("WATCHLENS_LOG_LEVEL", "warning")
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
			t.Errorf("user should be able to set log level warning from environment: %v", err)
		}
	})
}

func TestAC509_InvalidMinFrequencyFromEnvironment(t *testing.T) {
	t.Setenv("WATCHLENS_MIN_FREQUENCY", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("user should get an error for a non-numeric WATCHLENS_MIN_FREQUENCY")
	}
	if !strings.Contains(err.Error(), "WATCHLENS_MIN_FREQUENCY") {
		t.Errorf("user should see which variable is wrong, got %v", err)
	}
}
