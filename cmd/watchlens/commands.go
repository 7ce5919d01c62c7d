package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/watchlens/internal/aggregator"
	"github.com/gauthierbraillon/watchlens/internal/analysis"
	"github.com/gauthierbraillon/watchlens/internal/categories"
	"github.com/gauthierbraillon/watchlens/internal/display"
	"github.com/gauthierbraillon/watchlens/internal/history"
	"github.com/gauthierbraillon/watchlens/internal/store"
	"github.com/gauthierbraillon/watchlens/internal/tagger"
	"github.com/gauthierbraillon/watchlens/internal/takeout"
	"github.com/gauthierbraillon/watchlens/internal/words"
	"github.com/gauthierbraillon/watchlens/pkg/browser"
)

// newParseCmd creates the parse subcommand.
func newParseCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse <watch-history.html>",
		Short: "Convert a Takeout export to a JSON snapshot",
		Long:  "Parse a Google Takeout watch-history.html export, skipping malformed entries, and save the events most recent first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := takeout.ParseFile(args[0])
			if err != nil {
				return err
			}

			events, skipped := history.Normalize(entries)
			if output == "" {
				output = a.cfg.HistoryFile
			}
			if err := history.Save(output, events); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d videos (%d entries skipped)\n", len(events), len(skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON file (default: configured history file)")

	return cmd
}

// newFeaturesCmd creates the features subcommand.
func newFeaturesCmd(a *app) *cobra.Command {
	var hf historyFlags
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Build the feature table and store it in SQLite",
		Long:  "Enrich every watch event, segment viewing sessions and save the resulting table to a SQLite database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			events, err := hf.load(ctx, a.cfg)
			if err != nil {
				return err
			}
			table := newAggregator(a.cfg).Build(events, aggregator.Options{})

			if dbPath == "" {
				dbPath = a.cfg.DatabaseFile
			}
			db, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.SaveTable(ctx, table.Events, table.Sessions); err != nil {
				return fmt.Errorf("failed to save feature table: %w", err)
			}
			slog.Debug("feature table saved", "path", dbPath, "events", len(table.Events))

			formatter := display.NewTerminalFormatter()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d videos in %d sessions to: %s\n\n", len(table.Events), len(table.Sessions), dbPath)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessions(table.Sessions, limit))
			return nil
		},
	}

	hf.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (default: configured database file)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Number of longest sessions to display")

	return cmd
}

// newReportCmd creates the report subcommand.
func newReportCmd(a *app) *cobra.Command {
	var hf historyFlags
	var output string
	var top int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show viewing statistics and charts",
		Long:  "Summarize viewing habits: daily averages, weekday and hourly patterns, session lengths, content categories and top channels.",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := hf.load(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			table := newAggregator(a.cfg).Build(events, aggregator.Options{})
			report := renderReport(table, top)

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), report)
				return nil
			}
			if err := os.WriteFile(output, []byte(report), 0o600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", output)
			return nil
		},
	}

	hf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().IntVar(&top, "top", 10, "Number of channels to list")

	return cmd
}

func renderReport(table aggregator.Table, top int) string {
	f := display.NewTerminalFormatter()
	sections := []string{
		f.FormatReport(analysis.Summarize(table.Events, table.Sessions)),
	}
	if len(table.Events) == 0 {
		return sections[0]
	}

	sections = append(sections,
		f.FormatBarChart("Average videos per day, by month", display.MonthBars(analysis.MonthlyDailyAverages(table.Events))),
		f.FormatBarChart("Videos per week, by weekday", display.WeekdayBars(analysis.WeekdayAverages(table.Events))),
		f.FormatBarChart("Average videos per day, by hour", display.HourBars(analysis.HourlyAverages(table.Events))),
		f.FormatBarChart("Sessions by duration", display.CountBars(analysis.DurationDistribution(table.Sessions))),
		f.FormatBarChart("Videos by time of day", display.CountBars(analysis.TimeOfDayDistribution(table.Events))),
		f.FormatBarChart("Videos by content category", display.CountBars(analysis.CategoryBreakdown(table.Events))),
		f.FormatBarChart("Top channels", display.CountBars(analysis.TopChannels(table.Events, top))),
	)
	return strings.Join(sections, "\n")
}

// newWordsCmd creates the words subcommand.
func newWordsCmd(a *app) *cobra.Command {
	var hf historyFlags
	var minFreq int
	var limit int

	cmd := &cobra.Command{
		Use:   "words",
		Short: "List frequent title words",
		Long:  "Count the words of every watched title, excluding stopwords and numbers, and list those above the frequency threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := hf.load(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			x := newExtractor(a.cfg, minFreq)
			table := x.Extract(history.Titles(events))

			fmt.Fprintf(cmd.OutOrStdout(), "%d words appear at least %d times\n\n", table.Len(), x.MinFrequency())
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatWordTable(table, limit))
			return nil
		},
	}

	hf.register(cmd)
	cmd.Flags().IntVarP(&minFreq, "min", "m", 0, "Minimum occurrences (default: configured threshold)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "Number of words to list (0 for all)")

	return cmd
}

// newCategorizeCmd creates the categorize subcommand.
func newCategorizeCmd(a *app) *cobra.Command {
	var hf historyFlags
	var minFreq int
	var file string

	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Assign frequent words to categories interactively",
		Long:  "Walk through the frequent words that have no category yet. Every answer is saved immediately, so the session can be stopped and resumed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := hf.load(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			x := newExtractor(a.cfg, minFreq)
			table := x.Extract(history.Titles(events))

			s, err := openCategoryStore(a, file, table)
			if err != nil {
				return err
			}

			t := tagger.New(s, cmd.InOrStdin(), cmd.OutOrStdout(),
				tagger.WithOpener(browser.System{}),
				tagger.WithSamples(tagger.SampleLinks(events, x, table)),
			)
			res, err := t.Run()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nCategorized %d words, skipped %d. Progress saved to: %s\n", res.Assigned, res.Skipped, s.Path())
			return nil
		},
	}

	hf.register(cmd)
	cmd.Flags().IntVarP(&minFreq, "min", "m", 0, "Minimum occurrences (default: configured threshold)")
	cmd.Flags().StringVar(&file, "file", "", "Category file (default: configured categories file)")

	return cmd
}

// newStatusCmd creates the status subcommand.
func newStatusCmd(a *app) *cobra.Command {
	var hf historyFlags
	var minFreq int
	var file string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show categorization progress",
		Long:  "Show the words assigned to each category and how many frequent words remain uncategorized.",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := words.NewTable(nil)
			events, err := hf.load(cmd.Context(), a.cfg)
			if err != nil {
				slog.Warn("history unavailable, word counts will show as 0", "error", err)
			} else {
				table = newExtractor(a.cfg, minFreq).Extract(history.Titles(events))
			}

			s, err := openCategoryStore(a, file, table)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatStatus(s.Status()))
			return nil
		},
	}

	hf.register(cmd)
	cmd.Flags().IntVarP(&minFreq, "min", "m", 0, "Minimum occurrences (default: configured threshold)")
	cmd.Flags().StringVar(&file, "file", "", "Category file (default: configured categories file)")

	return cmd
}

func openCategoryStore(a *app, file string, table *words.Table) (*categories.Store, error) {
	if file == "" {
		file = a.cfg.CategoriesFile
	}
	s := categories.NewStore(file, table)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Print the resolved watchlens configuration: file locations and analysis settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n", a.configPath)
			fmt.Fprintf(out, "Config directory: %s\n", filepath.Dir(a.configPath))
			fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
			fmt.Fprintf(out, "History file: %s\n", cfg.HistoryFile)
			fmt.Fprintf(out, "Categories file: %s\n", cfg.CategoriesFile)
			fmt.Fprintf(out, "Database file: %s\n", cfg.DatabaseFile)
			fmt.Fprintf(out, "Session gap: %s\n", cfg.SessionGap())
			fmt.Fprintf(out, "Minimum word frequency: %d\n", cfg.MinWordFrequency)
			fmt.Fprintf(out, "Stopwords: %d\n", cfg.StopwordSet().Len())
			fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
			fmt.Fprintln(out, "Content categories:")
			for _, rule := range cfg.ContentCategories {
				fmt.Fprintf(out, "  %s: %s\n", rule.Category, strings.Join(rule.Keywords, ", "))
			}
			return nil
		},
	}

	return cmd
}
