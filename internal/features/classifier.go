package features

import "strings"

// OtherCategory is assigned to titles no keyword rule matches.
const OtherCategory = "other"

// KeywordRule maps a content category to the title substrings that select it.
type KeywordRule struct {
	Category string   `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultKeywordRules returns the built-in keyword table. Order matters:
// the first matching rule wins.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Category: "tutorial", Keywords: []string{"tutorial", "how to", "guide"}},
		{Category: "music", Keywords: []string{"music", "official video", "lyrics"}},
		{Category: "gaming", Keywords: []string{"gameplay", "gaming", "playthrough"}},
		{Category: "tech", Keywords: []string{"tech", "review", "unboxing"}},
		{Category: "educational", Keywords: []string{"lecture", "course", "lesson"}},
	}
}

// Classifier assigns a content category to a title by substring matching.
type Classifier struct {
	rules []KeywordRule
}

// NewClassifier copies rules, lowercasing every keyword. Empty keywords are dropped.
func NewClassifier(rules []KeywordRule) *Classifier {
	c := &Classifier{rules: make([]KeywordRule, 0, len(rules))}
	for _, r := range rules {
		rule := KeywordRule{Category: r.Category}
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(kw); kw != "" {
				rule.Keywords = append(rule.Keywords, kw)
			}
		}
		c.rules = append(c.rules, rule)
	}
	return c
}

// Classify returns the category of the first rule with a keyword contained
// in the lowercased title, or OtherCategory.
func (c *Classifier) Classify(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return OtherCategory
}

// Categories returns the rule categories in declaration order, followed by OtherCategory.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.rules)+1)
	for _, r := range c.rules {
		out = append(out, r.Category)
	}
	return append(out, OtherCategory)
}
