// Package history turns raw export entries into an ordered sequence of
// timestamped watch events.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gauthierbraillon/watchlens/internal/takeout"
)

// TimestampLayout is the month-day-year-time format used by the export,
// without its timezone suffix.
const TimestampLayout = "Jan 2, 2006, 3:04:05 PM"

var (
	// ErrNoTimestamp is returned for entries whose timestamp is blank.
	ErrNoTimestamp = errors.New("missing timestamp")
	// ErrNoTitle is returned for entries without a video title.
	ErrNoTitle = errors.New("missing title")
)

// Event is a watch-history entry with its timestamp parsed.
// Timestamp carries the wall-clock time from the export; no zone conversion is applied.
type Event struct {
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	Channel      string    `json:"channel,omitempty"`
	RawTimestamp string    `json:"raw_timestamp"`
	Timestamp    time.Time `json:"timestamp"`
}

// ParseError describes an entry that was skipped during normalization.
type ParseError struct {
	Index int
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %d: cannot parse %q: %v", e.Index, e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseTimestamp parses an export timestamp such as
// "Jan 2, 2024, 3:04:05 PM GMT+03:00". The zone suffix is dropped.
func ParseTimestamp(raw string) (time.Time, error) {
	s := stripZone(raw)
	if s == "" {
		return time.Time{}, ErrNoTimestamp
	}
	return time.Parse(TimestampLayout, s)
}

func stripZone(raw string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u202f', '\u2009':
			return ' '
		}
		return r
	}, raw)

	if i := strings.Index(s, " GMT"); i >= 0 {
		s = s[:i]
	}

	fields := strings.Fields(s)
	if n := len(fields); n >= 2 && !isMeridiem(fields[n-1]) && isMeridiem(fields[n-2]) {
		fields = fields[:n-1]
	}

	return strings.Join(fields, " ")
}

func isMeridiem(s string) bool {
	return s == "AM" || s == "PM"
}

// Normalize parses every entry and returns the events ordered most recent first.
// Entries that cannot be parsed are skipped, logged and reported; they never abort the run.
func Normalize(entries []takeout.Entry) ([]Event, []*ParseError) {
	events := make([]Event, 0, len(entries))
	var skipped []*ParseError

	for i, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			perr := &ParseError{Index: i, Raw: entry.RawTimestamp, Err: ErrNoTitle}
			slog.Warn("skipping entry", "index", i, "error", perr.Err)
			skipped = append(skipped, perr)
			continue
		}

		ts, err := ParseTimestamp(entry.RawTimestamp)
		if err != nil {
			perr := &ParseError{Index: i, Raw: entry.RawTimestamp, Err: err}
			slog.Warn("could not parse timestamp", "index", i, "timestamp", entry.RawTimestamp, "error", err)
			skipped = append(skipped, perr)
			continue
		}

		events = append(events, Event{
			Title:        entry.Title,
			Link:         entry.Link,
			Channel:      entry.Channel,
			RawTimestamp: entry.RawTimestamp,
			Timestamp:    ts,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	return events, skipped
}

// Ascending returns a copy of events ordered oldest first.
func Ascending(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Titles returns the title of every event, in order.
func Titles(events []Event) []string {
	titles := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
	}
	return titles
}

// Save writes events as a JSON document, replacing any previous file.
func Save(path string, events []Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write events: %w", err)
	}
	return nil
}

// Load reads events previously written by Save.
func Load(path string) ([]Event, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return events, nil
}
