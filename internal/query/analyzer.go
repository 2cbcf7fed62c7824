package query

import (
	"strings"

	"github.com/kalasangam/search-service/internal/models"
)

const (
	baseConfidence    = 0.5
	intentConfidence  = 0.2
	keywordConfidence = 0.1
	minTermLength     = 3
)

// Analyzer turns free-text queries into structured QueryAnalysis values. It
// is stateless apart from the immutable taxonomy and rule list, so a single
// instance serves concurrent requests.
type Analyzer struct {
	taxonomy Taxonomy
	intents  *IntentMatcher
}

func NewAnalyzer(taxonomy Taxonomy) *Analyzer {
	return &Analyzer{
		taxonomy: taxonomy,
		intents:  NewIntentMatcher(),
	}
}

// Analyze never fails: an empty or unrecognized query produces the default
// intent with base confidence and empty match lists.
//
// Confidence is additive and deliberately unclamped: 0.5 base, +0.2 for an
// intent match, +0.1 per matched keyword. Keyword matching is plain
// case-insensitive substring containment, no stemming or fuzziness. A keyword
// listed under several categories is appended once per category; only the
// last matched subcategory is retained as the filter for each category.
func (a *Analyzer) Analyze(query string) *models.QueryAnalysis {
	analysis := &models.QueryAnalysis{
		OriginalQuery: query,
		Intent:        models.IntentGeneral,
		Keywords:      []string{},
		Categories:    []string{},
		Filters:       map[string]string{},
		Confidence:    baseConfidence,
		SearchTerms:   []string{},
	}

	lower := strings.ToLower(query)

	if intent, extracted, ok := a.intents.Match(query); ok {
		analysis.Intent = intent
		analysis.Extracted = extracted
		analysis.Confidence += intentConfidence
	}

	for _, category := range a.taxonomy.Categories() {
		for _, sub := range a.taxonomy.Subcategories(category) {
			for _, keyword := range a.taxonomy[category][sub] {
				if !strings.Contains(lower, keyword) {
					continue
				}
				analysis.Keywords = append(analysis.Keywords, keyword)
				if !containsString(analysis.Categories, category) {
					analysis.Categories = append(analysis.Categories, category)
				}
				analysis.Filters[category] = sub
				analysis.Confidence += keywordConfidence
			}
		}
	}

	for _, token := range strings.Fields(lower) {
		if len(token) >= minTermLength {
			analysis.SearchTerms = append(analysis.SearchTerms, token)
		}
	}

	return analysis
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
