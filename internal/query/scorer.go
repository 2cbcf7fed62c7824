package query

import (
	"strings"

	"github.com/kalasangam/search-service/internal/models"
)

// Raw point weights. The raw total is divided by maxRawScore and clamped to 1
// after the division; translation matches can push the raw total past 100.
const (
	titleMatchPoints       = 30.0
	descriptionMatchPoints = 20.0
	artformMatchPoints     = 25.0
	categoryMatchPoints    = 15.0
	tagMatchPoints         = 10.0
	translationMatchPoints = 15.0
	maxRawScore            = 100.0

	likeWeight       = 0.5
	maxLikeBonus     = 5.0
	bookmarkWeight   = 0.3
	maxBookmarkBonus = 3.0
)

// Searchable is implemented by every document kind the ranker can score.
type Searchable interface {
	SearchFields() models.SearchFields
}

// Score computes the bounded [0,1] relevance of one document against an
// analysis. Missing fields contribute nothing; the function never fails.
func Score(doc Searchable, analysis *models.QueryAnalysis) float64 {
	f := doc.SearchFields()
	q := strings.ToLower(analysis.OriginalQuery)
	raw := 0.0

	// Deliberate: an empty query awards no text-match points, even though
	// every string trivially contains "". Base searches rank on keyword and
	// popularity signals alone.
	if q != "" && strings.Contains(strings.ToLower(f.Title), q) {
		raw += titleMatchPoints
	}
	if q != "" && strings.Contains(strings.ToLower(f.Description), q) {
		raw += descriptionMatchPoints
	}

	if anyKeywordIn(f.Artform, analysis.Keywords) {
		raw += artformMatchPoints
	}
	if anyKeywordIn(f.Category, analysis.Keywords) {
		raw += categoryMatchPoints
	}
	for _, tag := range f.Tags {
		if anyKeywordIn(tag, analysis.Keywords) {
			raw += tagMatchPoints
			break
		}
	}

	// Each matching language stacks; the raw total is uncapped here.
	if q != "" {
		for _, title := range f.TitleTranslations {
			if strings.Contains(strings.ToLower(title), q) {
				raw += translationMatchPoints
			}
		}
	}

	raw += min(float64(f.LikesCount)*likeWeight, maxLikeBonus)
	raw += min(float64(f.BookmarksCount)*bookmarkWeight, maxBookmarkBonus)

	return min(raw/maxRawScore, 1.0)
}

func anyKeywordIn(field string, keywords []string) bool {
	if field == "" {
		return false
	}
	lower := strings.ToLower(field)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
