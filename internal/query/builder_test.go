package query

import (
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterBuilder_EmptyAnalysisArtworks(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("")

	filter, err := fb.Build(analysis, CollectionArtworks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := bson.M{"is_active": true, "is_public": true}
	if !reflect.DeepEqual(filter, want) {
		t.Errorf("expected bare base predicate %v, got %v", want, filter)
	}
}

func TestFilterBuilder_EmptyAnalysisEvents(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("")

	filter, err := fb.Build(analysis, CollectionEvents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := bson.M{"is_active": true}
	if !reflect.DeepEqual(filter, want) {
		t.Errorf("expected bare base predicate %v, got %v", want, filter)
	}
}

func TestFilterBuilder_UnknownCollection(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("dance")

	_, err := fb.Build(analysis, "artists")
	if err == nil {
		t.Fatal("expected error for unsupported collection")
	}
	var unknown *ErrUnknownCollection
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownCollection, got %T: %v", err, err)
	}
	if unknown.Collection != "artists" {
		t.Errorf("expected collection artists in error, got %q", unknown.Collection)
	}
}

func TestFilterBuilder_TextClauseUsesFullQuery(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("warli painting")

	filter, err := fb.Build(analysis, CollectionArtworks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clauses, ok := filter["$and"].([]bson.M)
	if !ok {
		t.Fatalf("expected $and clause list, got %v", filter)
	}

	var textOr []bson.M
	for _, clause := range clauses {
		or, isOr := clause["$or"].([]bson.M)
		if !isOr {
			continue
		}
		if _, hasTitle := or[0]["title"]; hasTitle {
			textOr = or
			break
		}
	}
	if textOr == nil {
		t.Fatal("expected a text $or clause against title")
	}

	// One regex clause per content field plus one per hardcoded translation
	// language, all matching the full original query.
	if len(textOr) != 4+len(translationLangs) {
		t.Errorf("expected %d alternatives, got %d: %v", 4+len(translationLangs), len(textOr), textOr)
	}
	re := containsRegex("warli painting")
	if !reflect.DeepEqual(textOr[0], bson.M{"title": re}) {
		t.Errorf("expected title regex on full query, got %v", textOr[0])
	}
}

func TestFilterBuilder_EventsSkipTranslations(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("kathak performance")

	filter, err := fb.Build(analysis, CollectionEvents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clauses := filter["$and"].([]bson.M)
	for _, clause := range clauses {
		or, isOr := clause["$or"].([]bson.M)
		if !isOr {
			continue
		}
		for _, alt := range or {
			for field := range alt {
				if len(field) > len("translations") && field[:len("translations")] == "translations" {
					t.Errorf("events filter must not reference translation fields, got %s", field)
				}
			}
		}
	}
}

func TestFilterBuilder_ArtformAndRegionFilters(t *testing.T) {
	fb := NewFilterBuilder()
	analysis := newTestAnalyzer().Analyze("dance from kerala")

	if analysis.Filters[CategoryArtforms] != "dance" {
		t.Fatalf("precondition: expected dance artform filter, got %v", analysis.Filters)
	}
	if analysis.Filters[CategoryRegions] != "south" {
		t.Fatalf("precondition: expected south region filter, got %v", analysis.Filters)
	}

	filter, err := fb.Build(analysis, CollectionArtworks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clauses := filter["$and"].([]bson.M)
	// base + text + artform + region
	if len(clauses) != 4 {
		t.Fatalf("expected 4 AND clauses, got %d: %v", len(clauses), clauses)
	}

	artformOr := clauses[2]["$or"].([]bson.M)
	if !reflect.DeepEqual(artformOr[0], bson.M{"category": containsRegex("dance")}) {
		t.Errorf("expected category regex for artform filter, got %v", artformOr[0])
	}

	regionOr := clauses[3]["$or"].([]bson.M)
	if !reflect.DeepEqual(regionOr[1], bson.M{"location.state": containsRegex("south")}) {
		t.Errorf("expected location.state regex for region filter, got %v", regionOr[1])
	}
}

func TestContainsRegex_EscapesInput(t *testing.T) {
	re := containsRegex("a.b*c")
	if re.Pattern == "a.b*c" {
		t.Error("expected regex metacharacters to be escaped")
	}
	if re.Options != "i" {
		t.Errorf("expected case-insensitive option, got %q", re.Options)
	}
}
