package query

import "github.com/kalasangam/search-service/internal/models"

// Relevance tier boundaries for the insight buckets.
const (
	highRelevanceFloor   = 0.7
	mediumRelevanceFloor = 0.4
)

// Summarize partitions the ranked scores into relevance tiers and attaches
// related-search suggestions derived from the original query. Pure function;
// no I/O.
func Summarize(analysis *models.QueryAnalysis, scores []float64, suggester *Suggester) models.Insights {
	tiers := models.ResultTiers{Total: len(scores)}
	for _, s := range scores {
		switch {
		case s > highRelevanceFloor:
			tiers.HighRelevance++
		case s > mediumRelevanceFloor:
			tiers.MediumRelevance++
		default:
			tiers.LowRelevance++
		}
	}

	return models.Insights{
		QueryAnalysis: analysis.View(),
		Results:       tiers,
		Suggestions:   suggester.Suggest(analysis.OriginalQuery),
	}
}

// CollectScores flattens the scores of a ranked bucket for Summarize.
func CollectScores[T any](ranked []models.Scored[T]) []float64 {
	scores := make([]float64, len(ranked))
	for i, r := range ranked {
		scores[i] = r.RelevanceScore
	}
	return scores
}
