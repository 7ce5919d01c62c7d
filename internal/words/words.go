// Package words extracts frequent words from video titles.
package words

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMinFrequency is the occurrence count a word needs to be kept.
const DefaultMinFrequency = 75

// WordCount pairs a word with its number of occurrences.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Tokenize lowercases title, turns every character that is neither a word
// character nor whitespace into a space and splits on whitespace.
func Tokenize(title string) []string {
	lower := strings.ToLower(norm.NFC.String(title))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lower)
	return strings.Fields(cleaned)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// Extractor counts words across titles.
type Extractor struct {
	stopwords    Stopwords
	minFrequency int
}

// NewExtractor returns an Extractor that ignores stopwords and keeps words
// seen at least minFrequency times. A non-positive minFrequency selects
// DefaultMinFrequency; a nil stopword set excludes nothing.
func NewExtractor(stopwords Stopwords, minFrequency int) *Extractor {
	if minFrequency <= 0 {
		minFrequency = DefaultMinFrequency
	}
	if stopwords == nil {
		stopwords = NewStopwords()
	}
	return &Extractor{stopwords: stopwords, minFrequency: minFrequency}
}

// MinFrequency returns the retention threshold.
func (x *Extractor) MinFrequency() int {
	return x.minFrequency
}

// Keep reports whether token counts towards word frequencies.
func (x *Extractor) Keep(token string) bool {
	if x.stopwords.Contains(token) {
		return false
	}
	if utf8.RuneCountInString(token) <= 1 {
		return false
	}
	return !isNumeric(token)
}

// Words returns the kept tokens of title, in order.
func (x *Extractor) Words(title string) []string {
	tokens := Tokenize(title)
	kept := tokens[:0]
	for _, tok := range tokens {
		if x.Keep(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Count returns the occurrence count of every kept word, with no threshold.
func (x *Extractor) Count(titles []string) map[string]int {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, w := range x.Words(title) {
			counts[w]++
		}
	}
	return counts
}

// Extract returns the words occurring at least MinFrequency times,
// most frequent first. Equal counts are ordered alphabetically.
func (x *Extractor) Extract(titles []string) *Table {
	counts := x.Count(titles)

	entries := make([]WordCount, 0)
	for w, c := range counts {
		if c >= x.minFrequency {
			entries = append(entries, WordCount{Word: w, Count: c})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})

	return NewTable(entries)
}
