// Package tagger drives interactive word categorization over a terminal.
//
// The loop only talks to the categories.Store through its public operations,
// so every step can be exercised with an in-memory reader and writer.
package tagger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gauthierbraillon/watchlens/internal/categories"
	"github.com/gauthierbraillon/watchlens/internal/history"
	"github.com/gauthierbraillon/watchlens/internal/words"
	"github.com/gauthierbraillon/watchlens/pkg/browser"
)

// Result summarizes an interactive run.
type Result struct {
	Assigned int
	Skipped  int
	Stopped  bool
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithOpener sets the browser used for the "open" command.
func WithOpener(o browser.Opener) Option {
	return func(t *Tagger) {
		t.opener = o
	}
}

// WithSamples sets a sample watch link per word, offered by the "open" command.
func WithSamples(samples map[string]string) Option {
	return func(t *Tagger) {
		t.samples = samples
	}
}

// Tagger asks the user for a category for every uncategorized word.
type Tagger struct {
	store   *categories.Store
	in      *bufio.Scanner
	out     io.Writer
	opener  browser.Opener
	samples map[string]string
}

// New creates a Tagger reading answers from in and writing prompts to out.
func New(store *categories.Store, in io.Reader, out io.Writer, opts ...Option) *Tagger {
	t := &Tagger{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type action int

const (
	actionAssign action = iota
	actionSkip
	actionQuit
)

// Run walks the uncategorized words in table order until none are left,
// the user quits or input ends. A failed save stops the run with its error;
// the assignment that failed is not recorded.
func (t *Tagger) Run() (Result, error) {
	var res Result

	pending := t.store.Uncategorized()
	if len(pending) == 0 {
		fmt.Fprintln(t.out, "All words have been categorized!")
		return res, nil
	}

	fmt.Fprintf(t.out, "You have %d words to categorize.\n", len(pending))
	fmt.Fprintln(t.out, "Type 'quit' at any time to stop.")

	for _, word := range pending {
		fmt.Fprintf(t.out, "\nWord: '%s' (appears %d times)\n", word, t.store.Frequency(word))
		t.showCategories()

		act, category := t.ask(word)
		switch act {
		case actionQuit:
			res.Stopped = true
			return res, nil
		case actionSkip:
			res.Skipped++
			continue
		}

		err := t.store.Assign(word, category)
		switch {
		case errors.Is(err, categories.ErrInvalidWord), errors.Is(err, categories.ErrInvalidCategory):
			fmt.Fprintf(t.out, "Rejected: %v\n", err)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("failed to save %q: %w", word, err)
		default:
			fmt.Fprintf(t.out, "Added '%s' to category '%s'\n", word, category)
			res.Assigned++
		}
	}

	return res, nil
}

func (t *Tagger) showCategories() {
	fmt.Fprintln(t.out, "Available categories:")
	for i, c := range categories.All() {
		fmt.Fprintf(t.out, "%2d. %s\n", i+1, c)
	}
}

func (t *Tagger) ask(word string) (action, categories.Category) {
	for {
		fmt.Fprint(t.out, "Enter category number ('s' skip, 'o' open sample, 'quit' stop): ")
		if !t.in.Scan() {
			fmt.Fprintln(t.out)
			return actionQuit, ""
		}
		answer := strings.ToLower(strings.TrimSpace(t.in.Text()))

		switch answer {
		case "q", "quit", "exit":
			return actionQuit, ""
		case "s", "skip":
			return actionSkip, ""
		case "o", "open":
			t.openSample(word)
			continue
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(t.out, "Please enter a valid number or 'quit'")
			continue
		}
		c, ok := categories.ByIndex(n)
		if !ok {
			fmt.Fprintln(t.out, "Invalid category number. Please try again.")
			continue
		}
		return actionAssign, c
	}
}

func (t *Tagger) openSample(word string) {
	link, ok := t.samples[word]
	if !ok || t.opener == nil {
		fmt.Fprintln(t.out, "No sample video available for this word.")
		return
	}
	if err := t.opener.Open(link); err != nil {
		fmt.Fprintf(t.out, "Could not open browser. Please visit:\n%s\n", link)
		return
	}
	fmt.Fprintf(t.out, "Opened %s\n", link)
}

// SampleLinks returns, for every word of table, the link of the first event
// whose title contains it. Events are usually ordered most recent first.
func SampleLinks(events []history.Event, x *words.Extractor, table *words.Table) map[string]string {
	samples := make(map[string]string, table.Len())
	for _, e := range events {
		if e.Link == "" {
			continue
		}
		for _, w := range x.Words(e.Title) {
			if !table.Contains(w) {
				continue
			}
			if _, seen := samples[w]; !seen {
				samples[w] = e.Link
			}
		}
		if len(samples) == table.Len() {
			break
		}
	}
	return samples
}
