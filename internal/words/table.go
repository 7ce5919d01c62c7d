package words

// Table is an ordered word frequency table.
type Table struct {
	entries []WordCount
	index   map[string]int
}

// NewTable wraps entries, keeping their order. Later duplicates are ignored.
func NewTable(entries []WordCount) *Table {
	t := &Table{
		entries: make([]WordCount, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := t.index[e.Word]; dup {
			continue
		}
		t.index[e.Word] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

// Entries returns a copy of the table rows in order.
func (t *Table) Entries() []WordCount {
	out := make([]WordCount, len(t.entries))
	copy(out, t.entries)
	return out
}

// Words returns the words in table order.
func (t *Table) Words() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Word
	}
	return out
}

// Count returns the frequency of word and whether it is in the table.
func (t *Table) Count(word string) (int, bool) {
	i, ok := t.index[word]
	if !ok {
		return 0, false
	}
	return t.entries[i].Count, true
}

// Contains reports whether word is in the table.
func (t *Table) Contains(word string) bool {
	_, ok := t.index[word]
	return ok
}

// Len returns the number of words.
func (t *Table) Len() int {
	return len(t.entries)
}

// Map returns the table as a word to count mapping.
func (t *Table) Map() map[string]int {
	m := make(map[string]int, len(t.entries))
	for _, e := range t.entries {
		m[e.Word] = e.Count
	}
	return m
}
