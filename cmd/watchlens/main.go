// Package main provides the watchlens CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/watchlens/internal/aggregator"
	"github.com/gauthierbraillon/watchlens/internal/config"
	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/history"
	"github.com/gauthierbraillon/watchlens/internal/logging"
	"github.com/gauthierbraillon/watchlens/internal/session"
	"github.com/gauthierbraillon/watchlens/internal/store"
	"github.com/gauthierbraillon/watchlens/internal/takeout"
	"github.com/gauthierbraillon/watchlens/internal/words"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

const dateLayout = "2006-01-02"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(v string, info *debug.BuildInfo) string {
	if v != "dev" {
		return v
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// app carries state resolved before any subcommand runs.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// newRootCmd creates the root command for watchlens CLI.
func newRootCmd() *cobra.Command {
	a := &app{}
	info, _ := debug.ReadBuildInfo()

	rootCmd := &cobra.Command{
		Use:          "watchlens",
		Short:        "Analyze your YouTube watch history",
		Long:         "Watchlens turns a Google Takeout watch-history export into viewing sessions, reports and word categories.",
		Version:      resolveVersion(version, info),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.SetVersionTemplate("watchlens version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $WATCHLENS_CONFIG or <config dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newFeaturesCmd(a))
	rootCmd.AddCommand(newReportCmd(a))
	rootCmd.AddCommand(newWordsCmd(a))
	rootCmd.AddCommand(newCategorizeCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// setup loads .env files, the config file and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	for _, path := range []string{".env", filepath.Join(config.Dir(), ".env")} {
		if err := config.LoadEnvFile(path); err != nil {
			return err
		}
	}

	path := a.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if _, err := logging.Init(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
		return err
	}

	a.configPath = path
	a.cfg = cfg
	return nil
}

// historyFlags are shared by commands that read the watch history.
type historyFlags struct {
	input string
	since string
	until string
}

func (h *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&h.input, "input", "i", "", "History source: Takeout .html export, JSON snapshot or .db file (default: configured history file)")
	cmd.Flags().StringVar(&h.since, "since", "", "Only include videos watched on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&h.until, "until", "", "Only include videos watched on or before this date (YYYY-MM-DD)")
}

// options converts the date flags to an inclusive range covering whole days.
func (h *historyFlags) options() (aggregator.Options, error) {
	var opts aggregator.Options
	if h.since != "" {
		t, err := time.Parse(dateLayout, h.since)
		if err != nil {
			return opts, fmt.Errorf("invalid --since %q: expected YYYY-MM-DD", h.since)
		}
		opts.Since = t
	}
	if h.until != "" {
		t, err := time.Parse(dateLayout, h.until)
		if err != nil {
			return opts, fmt.Errorf("invalid --until %q: expected YYYY-MM-DD", h.until)
		}
		opts.Until = t.Add(24*time.Hour - time.Nanosecond)
	}
	if !opts.Since.IsZero() && !opts.Until.IsZero() && opts.Until.Before(opts.Since) {
		return opts, fmt.Errorf("--until must not be before --since")
	}
	return opts, nil
}

// load reads the history and applies the date range, most recent first.
func (h *historyFlags) load(ctx context.Context, cfg *config.Config) ([]history.Event, error) {
	opts, err := h.options()
	if err != nil {
		return nil, err
	}

	path := h.input
	if path == "" {
		path = cfg.HistoryFile
	}
	events, err := readHistory(ctx, path)
	if err != nil {
		return nil, err
	}
	return aggregator.Filter(events, opts), nil
}

// readHistory reads events from an export, a JSON snapshot or a feature database.
func readHistory(ctx context.Context, path string) ([]history.Event, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		entries, err := takeout.ParseFile(path)
		if err != nil {
			return nil, err
		}
		events, _ := history.Normalize(entries)
		return events, nil
	case ".db", ".sqlite":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open database: %w (run 'watchlens features' first)", err)
		}
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		return db.History(ctx)
	default:
		events, err := history.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%w (run 'watchlens parse <watch-history.html>' first)", err)
		}
		return events, nil
	}
}

// newAggregator builds the feature pipeline from configuration.
func newAggregator(cfg *config.Config) *aggregator.Aggregator {
	enricher := features.NewEnricher(features.NewClassifier(cfg.ContentCategories))
	return aggregator.New(enricher, session.NewSegmenter(cfg.SessionGap()))
}

// newExtractor builds the word extractor from configuration; minFreq overrides it when positive.
func newExtractor(cfg *config.Config, minFreq int) *words.Extractor {
	if minFreq <= 0 {
		minFreq = cfg.MinWordFrequency
	}
	return words.NewExtractor(cfg.StopwordSet(), minFreq)
}
