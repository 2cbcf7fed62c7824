package query

import "strings"

const maxSuggestions = 8

// popularSearches is a static list of common queries on the platform, used to
// pad suggestions beyond taxonomy keywords.
var popularSearches = []string{
	"bharatanatyam dance",
	"madhubani painting",
	"carnatic music",
	"warli art",
	"kathakali performance",
	"traditional pottery",
	"folk dance kerala",
	"handloom weaving",
	"tanjore painting",
	"classical music concert",
}

// Suggester produces autocomplete candidates from the artform keywords and
// the popular-search list.
type Suggester struct {
	taxonomy Taxonomy
}

func NewSuggester(taxonomy Taxonomy) *Suggester {
	return &Suggester{taxonomy: taxonomy}
}

// Suggest returns at most eight deduplicated completions containing the
// partial input, taxonomy keywords first, in discovery order. Suggestions are
// not ranked among themselves.
func (s *Suggester) Suggest(partial string) []string {
	lower := strings.ToLower(strings.TrimSpace(partial))
	if lower == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	suggestions := []string{}

	add := func(candidate string) bool {
		if len(suggestions) >= maxSuggestions {
			return false
		}
		if !strings.Contains(candidate, lower) || seen[candidate] {
			return true
		}
		seen[candidate] = true
		suggestions = append(suggestions, candidate)
		return true
	}

	for _, kw := range s.taxonomy.ArtformKeywords() {
		if !add(kw) {
			return suggestions
		}
	}
	for _, phrase := range popularSearches {
		if !add(phrase) {
			return suggestions
		}
	}
	return suggestions
}

// Popular returns the static popular-search list. It seeds trending when no
// fresher signal is cached.
func (s *Suggester) Popular() []string {
	out := make([]string, len(popularSearches))
	copy(out, popularSearches)
	return out
}
