// Package display provides terminal output formatting for watchlens.
package display

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gauthierbraillon/watchlens/internal/analysis"
	"github.com/gauthierbraillon/watchlens/internal/categories"
	"github.com/gauthierbraillon/watchlens/internal/session"
	"github.com/gauthierbraillon/watchlens/internal/words"
)

const (
	separator = " • "
	barWidth  = 40
	barRune   = "#"
)

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// TerminalFormatter formats analysis results for terminal display.
type TerminalFormatter struct {
	printer *message.Printer
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{printer: message.NewPrinter(language.English)}
}

// FormatReport formats the headline statistics.
func (f *TerminalFormatter) FormatReport(o analysis.Overview) string {
	if o.TotalVideos == 0 {
		return "No videos to report.\n"
	}

	var lines []string
	lines = append(lines, "YouTube Watch History Analysis")
	lines = append(lines, strings.Repeat("=", 30))
	lines = append(lines, f.printer.Sprintf("Total videos watched: %d", o.TotalVideos))
	lines = append(lines, f.printer.Sprintf("Active days: %d", o.ActiveDays))
	lines = append(lines, f.printer.Sprintf("Average videos per day: %.1f", o.AvgVideosPerDay))
	lines = append(lines, f.printer.Sprintf("Most active day: %s (%.1f videos on average)", o.MostActiveDay, o.MostActiveDayAvg))
	lines = append(lines, f.printer.Sprintf("Peak hour: %s (%.1f videos on average)", fmt.Sprintf("%02d:00", o.PeakHour), o.PeakHourAvg))
	lines = append(lines, "")
	lines = append(lines, f.printer.Sprintf("Total sessions: %d", o.TotalSessions))
	lines = append(lines, f.printer.Sprintf("Average session length: %.1f minutes", o.AvgSessionMinutes))
	lines = append(lines, f.printer.Sprintf("Median session length: %.1f minutes", o.MedianSessionMinutes))
	lines = append(lines, f.printer.Sprintf("Average videos per session: %.1f", o.AvgVideosPerSession))

	return strings.Join(lines, "\n") + "\n"
}

// FormatBarChart renders bars scaled to the largest value.
func (f *TerminalFormatter) FormatBarChart(title string, bars []Bar) string {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")

	if len(bars) == 0 {
		b.WriteString("  (no data)\n")
		return b.String()
	}

	labelWidth := 0
	top := 0.0
	for _, bar := range bars {
		labelWidth = max(labelWidth, len([]rune(bar.Label)))
		top = math.Max(top, bar.Value)
	}

	for _, bar := range bars {
		n := 0
		if top > 0 {
			n = int(math.Round(bar.Value / top * barWidth))
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(bar.Label)))
		b.WriteString(fmt.Sprintf("  %s%s | %s %s\n", bar.Label, pad, strings.Repeat(barRune, n), f.formatValue(bar.Value)))
	}
	return b.String()
}

func (f *TerminalFormatter) formatValue(v float64) string {
	if v == math.Trunc(v) {
		return f.printer.Sprintf("%d", int64(v))
	}
	return f.printer.Sprintf("%.2f", v)
}

// FormatWordTable lists the most frequent words. A limit of 0 or less lists them all.
func (f *TerminalFormatter) FormatWordTable(table *words.Table, limit int) string {
	entries := table.Entries()
	if len(entries) == 0 {
		return "No words above the frequency threshold.\n"
	}
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	var lines []string
	for i, e := range entries {
		lines = append(lines, f.printer.Sprintf("%4d. %-24s %d", i+1, f.TruncateText(e.Word, 24), e.Count))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatStatus formats the categorization progress, one block per category.
func (f *TerminalFormatter) FormatStatus(s categories.Status) string {
	var b strings.Builder
	b.WriteString("Current categories:\n")

	if len(s.Groups) == 0 {
		b.WriteString("  (none yet)\n")
	}
	for _, g := range s.Groups {
		b.WriteString(fmt.Sprintf("\n%s (%s):\n", g.Category, countNoun(len(g.Words), "word")))
		for _, w := range g.Words {
			b.WriteString(f.printer.Sprintf("  - %s (%d)\n", w.Word, w.Count))
		}
	}

	b.WriteString(fmt.Sprintf("\nUncategorized words remaining: %d\n", s.Uncategorized))
	return b.String()
}

// FormatSessions lists sessions, longest first. A limit of 0 or less lists them all.
func (f *TerminalFormatter) FormatSessions(sessions []session.Session, limit int) string {
	if len(sessions) == 0 {
		return "No sessions to display.\n"
	}

	sorted := make([]session.Session, len(sessions))
	copy(sorted, sessions)
	sortSessions(sorted)
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	var lines []string
	for _, s := range sorted {
		lines = append(lines, fmt.Sprintf("#%d %s%s%s%s%.0f min (%s)",
			s.ID,
			f.FormatTimestamp(s.StartTime),
			separator,
			countNoun(s.VideoCount, "video"),
			separator,
			s.DurationMinutes,
			s.DurationCategory,
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatTimestamp formats a naive watch timestamp.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	return t.Format("Mon Jan 2, 2006 15:04")
}

// countNoun returns "1 unit" or "N units" based on count.
func countNoun(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
