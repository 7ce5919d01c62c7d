// Package categories persists the user's manual word categorization.
//
// The mapping from frequent word to Category lives in a JSON document that
// is rewritten in full after every assignment. Only one process is expected
// to write the document at a time; concurrent writers are not supported.
package categories

import "strings"

// Category is a user-facing label attached to a frequent word.
type Category string

const (
	Entertainment Category = "Entertainment"
	Education     Category = "Education"
	History       Category = "History"
	Architecture  Category = "Architecture"
	Lifestyle     Category = "Lifestyle"
	TechReviews   Category = "Tech Reviews"
	Sports        Category = "Sports"
	Music         Category = "Music"
	Movie         Category = "Movie"
	Food          Category = "Food"
	Programming   Category = "Programming"
	Other         Category = "Other"
)

var declared = []Category{
	Entertainment, Education, History, Architecture, Lifestyle, TechReviews,
	Sports, Music, Movie, Food, Programming, Other,
}

// All returns the declared categories in presentation order.
func All() []Category {
	out := make([]Category, len(declared))
	copy(out, declared)
	return out
}

// Valid reports whether c is a declared category.
func (c Category) Valid() bool {
	for _, d := range declared {
		if d == c {
			return true
		}
	}
	return false
}

// Parse looks up a declared category by name, ignoring case.
func Parse(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, d := range declared {
		if strings.EqualFold(string(d), name) {
			return d, true
		}
	}
	return "", false
}

// ByIndex returns the category shown as number i (1-based) in All.
func ByIndex(i int) (Category, bool) {
	if i < 1 || i > len(declared) {
		return "", false
	}
	return declared[i-1], true
}
