package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gauthierbraillon/watchlens/internal/words"
)

var (
	// ErrInvalidWord is returned when assigning a word outside the frequent-word table.
	ErrInvalidWord = errors.New("word is not in the frequent word table")
	// ErrInvalidCategory is returned when assigning an undeclared category.
	ErrInvalidCategory = errors.New("unknown category")
)

// Group is one category with the words assigned to it.
type Group struct {
	Category Category          `json:"category"`
	Words    []words.WordCount `json:"words"`
}

// Status is a snapshot of the categorization progress.
type Status struct {
	Groups        []Group `json:"groups"`
	Uncategorized int     `json:"uncategorized"`
}

// Store holds the word to category mapping and its backing file.
type Store struct {
	path    string
	vocab   *words.Table
	mapping map[string]Category
}

// NewStore creates a store backed by the file at path. vocab is the
// frequent-word table assignments are checked against.
func NewStore(path string, vocab *words.Table) *Store {
	if vocab == nil {
		vocab = words.NewTable(nil)
	}
	return &Store{
		path:    path,
		vocab:   vocab,
		mapping: make(map[string]Category),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory mapping with the persisted one.
// A missing file is not an error: the mapping is simply empty.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			s.mapping = make(map[string]Category)
			return nil
		}
		return fmt.Errorf("failed to read categories: %w", err)
	}

	mapping := make(map[string]Category)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	s.mapping = mapping
	return nil
}

// Save writes the whole mapping to the backing file. The document is written
// to a temporary file and renamed over the previous one, so readers never see
// a partial document.
func (s *Store) Save() error {
	return s.write(s.mapping)
}

func (s *Store) write(mapping map[string]Category) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write categories: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync categories: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close categories: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace categories: %w", err)
	}
	return nil
}

// Assign maps word to category and persists the mapping. The in-memory
// mapping only changes once the document has been written.
func (s *Store) Assign(word string, category Category) error {
	if !s.vocab.Contains(word) {
		return fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	next := make(map[string]Category, len(s.mapping)+1)
	for w, c := range s.mapping {
		next[w] = c
	}
	next[word] = category

	if err := s.write(next); err != nil {
		return err
	}
	s.mapping = next
	return nil
}

// Frequency returns how often word occurs in the frequent-word table, or 0.
func (s *Store) Frequency(word string) int {
	c, _ := s.vocab.Count(word)
	return c
}

// Category returns the category assigned to word.
func (s *Store) Category(word string) (Category, bool) {
	c, ok := s.mapping[word]
	return c, ok
}

// Mapping returns a copy of the current mapping.
func (s *Store) Mapping() map[string]Category {
	out := make(map[string]Category, len(s.mapping))
	for w, c := range s.mapping {
		out[w] = c
	}
	return out
}

// Uncategorized returns the frequent words without a category, in table order.
func (s *Store) Uncategorized() []string {
	out := make([]string, 0)
	for _, w := range s.vocab.Words() {
		if _, ok := s.mapping[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}

// NextUncategorized returns the first frequent word without a category.
func (s *Store) NextUncategorized() (words.WordCount, bool) {
	for _, e := range s.vocab.Entries() {
		if _, ok := s.mapping[e.Word]; !ok {
			return e, true
		}
	}
	return words.WordCount{}, false
}

// Status groups the mapping by declared category. Words within a group are
// sorted alphabetically; words outside the table report a count of 0.
// Empty categories and undeclared ones are left out.
func (s *Store) Status() Status {
	byCategory := make(map[Category][]string)
	for w, c := range s.mapping {
		byCategory[c] = append(byCategory[c], w)
	}

	status := Status{
		Groups:        make([]Group, 0),
		Uncategorized: len(s.Uncategorized()),
	}
	for _, c := range declared {
		ws := byCategory[c]
		if len(ws) == 0 {
			continue
		}
		sort.Strings(ws)

		group := Group{Category: c, Words: make([]words.WordCount, 0, len(ws))}
		for _, w := range ws {
			count, _ := s.vocab.Count(w)
			group.Words = append(group.Words, words.WordCount{Word: w, Count: count})
		}
		status.Groups = append(status.Groups, group)
	}
	return status
}
