package words

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stopwords is a case-insensitive set of tokens excluded from frequency counts.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, normalizing case.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	s.Add(words...)
	return s
}

// Add inserts words into the set.
func (s Stopwords) Add(words ...string) {
	for _, w := range words {
		w = normalize(w)
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// Contains reports whether word is in the set, ignoring case.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[normalize(word)]
	return ok
}

// Len returns the number of distinct stopwords.
func (s Stopwords) Len() int {
	return len(s)
}

func normalize(w string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(w)))
}

// DefaultStopwords returns the built-in exclusion list: web and platform terms,
// function words, pronouns, common verbs and descriptors that say nothing
// about what a video is about.
func DefaultStopwords() Stopwords {
	s := NewStopwords()
	for _, group := range defaultStopwordGroups {
		s.Add(group...)
	}
	return s
}

var defaultStopwordGroups = [][]string{
	// web and platform
	{"com", "www", "http", "https", "youtube", "youtu", "watch", "video",
		"shorts", "channel", "playlist", "subscribe"},
	// particles
	{"v", "re", "as", "de", "da", "en", "bu", "ne", "ile", "mi",
		"la", "ii", "öyle", "ve"},
	// counters
	{"000", "k", "m", "bir", "one", "first"},
	// articles and prepositions
	{"the", "a", "an", "and", "or", "but", "in", "on", "at",
		"to", "for", "of", "with", "by", "from"},
	// pronouns
	{"i", "me", "my", "mine", "myself",
		"you", "your", "yours", "yourself",
		"he", "him", "his", "himself",
		"she", "her", "herself",
		"it", "its",
		"we", "us", "our",
		"they", "them", "their"},
	// verbs
	{"am", "is", "are", "was", "were", "be", "being",
		"have", "has", "had", "having",
		"do", "does", "did",
		"will", "can", "should", "could", "would",
		"get", "got", "gotten", "getting", "gets",
		"go", "goes", "went", "gone", "going",
		"make", "made", "come", "look", "see", "know"},
	// time
	{"day", "week", "month", "year", "time", "daily", "weekly",
		"now", "then", "before", "after", "while", "during", "until",
		"minutes", "years", "last", "ever"},
	// descriptors
	{"new", "old", "good", "better", "best", "perfect",
		"bad", "worse", "worst",
		"big", "small", "large", "little", "long", "short",
		"real", "great", "well", "black", "awesome", "amazing"},
	// quantities
	{"most", "some", "any", "all", "both", "each", "every",
		"other", "another", "own", "same", "such", "more", "less",
		"many", "few", "several", "much"},
	// question and relation words
	{"how", "what", "why", "who", "where", "when", "which",
		"that", "this", "these", "if", "about", "than", "way",
		"here", "there", "like"},
	// modifiers
	{"so", "too", "very", "enough", "just", "only", "even",
		"also", "still", "already", "yet", "almost",
		"always", "never", "often", "sometimes", "rarely"},
	// media
	{"episode", "ep", "ft", "feat", "vs", "part", "official", "full"},
	// spatial
	{"up", "down", "over", "under", "above", "below",
		"between", "among", "through", "into", "out", "off", "back"},
	// other
	{"not", "no", "yes", "maybe", "perhaps", "either", "neither",
		"none", "let", "really"},
}
