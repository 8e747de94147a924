package assistant

import "strings"

// Question categories.
const (
	CategoryComprehension = "comprehension"
	CategoryVocabulary    = "vocabulary"
	CategoryAnalysis      = "analysis"
	CategoryGeneral       = "general"
)

// categoryRule matches a question to a category when any keyword appears as a
// substring of the lower-cased text.
type categoryRule struct {
	category string
	keywords []string
}

// Rules are checked in order; the first match wins. "What is the meaning of X"
// is comprehension, not vocabulary, because the comprehension rule is checked
// first.
var categoryRules = []categoryRule{
	{CategoryComprehension, []string{"what", "explain", "how", "why"}},
	{CategoryVocabulary, []string{"meaning", "define", "definition"}},
	{CategoryAnalysis, []string{"analyze", "compare", "evaluate"}},
}

// Categorize assigns a question to a category using the ordered rule list,
// falling back to general.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}
