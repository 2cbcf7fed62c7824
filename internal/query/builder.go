package query

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kalasangam/search-service/internal/models"
)

// Collections the filter builder knows how to target.
const (
	CollectionArtworks = "artworks"
	CollectionEvents   = "events"
)

// ErrUnknownCollection signals a programming error: the builder was asked for
// a collection it has no field mapping for.
type ErrUnknownCollection struct {
	Collection string
}

func (e *ErrUnknownCollection) Error() string {
	return fmt.Sprintf("query: unknown collection %q", e.Collection)
}

// translationLangs are the language codes whose localized titles the artwork
// filter checks. This is a fixed subset of the platform's supported
// languages, kept narrow on purpose; widening it is a data change here plus
// an index change in Mongo.
var translationLangs = []string{"hi", "ta", "bn", "te"}

// FilterBuilder turns a QueryAnalysis into a bson predicate tree for one of
// the content collections. It is stateless.
type FilterBuilder struct{}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Build assembles the candidate filter. Every clause is ANDed; with nothing
// matched in the analysis only the base active/public predicate remains and
// is returned unwrapped.
func (fb *FilterBuilder) Build(analysis *models.QueryAnalysis, collection string) (bson.M, error) {
	var clauses []bson.M

	switch collection {
	case CollectionArtworks:
		clauses = append(clauses, bson.M{"is_active": true, "is_public": true})
	case CollectionEvents:
		clauses = append(clauses, bson.M{"is_active": true})
	default:
		return nil, &ErrUnknownCollection{Collection: collection}
	}

	if len(analysis.SearchTerms) > 0 {
		// The full original query is matched as one case-insensitive
		// substring, not term by term; that mirrors how results are scored.
		re := containsRegex(analysis.OriginalQuery)
		or := []bson.M{
			{"title": re},
			{"description": re},
			{"artform": re},
			{"tags": re},
		}
		if collection == CollectionArtworks {
			for _, lang := range translationLangs {
				or = append(or, bson.M{"translations." + lang + ".title": re})
			}
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	if artform, ok := analysis.Filters[CategoryArtforms]; ok {
		re := containsRegex(artform)
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"category": re},
			{"artform": re},
		}})
	}

	if region, ok := analysis.Filters[CategoryRegions]; ok {
		re := containsRegex(region)
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"location.city": re},
			{"location.state": re},
			{"location.address": re},
		}})
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}

// containsRegex builds a case-insensitive substring matcher with the needle
// escaped, so user input never injects regex syntax.
func containsRegex(needle string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(needle), Options: "i"}
}
