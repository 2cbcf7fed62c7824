package query

import (
	"sort"

	"github.com/kalasangam/search-service/internal/models"
)

// Rank scores every document and returns the set sorted by descending
// relevance. Ordering among equal scores is unspecified.
func Rank[T Searchable](docs []T, analysis *models.QueryAnalysis) []models.Scored[T] {
	scored := make([]models.Scored[T], len(docs))
	for i, doc := range docs {
		scored[i] = models.Scored[T]{
			Item:           doc,
			RelevanceScore: Score(doc, analysis),
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}
