package query

import (
	"testing"

	"github.com/kalasangam/search-service/internal/models"
)

func TestIntentMatcher_NoMatch(t *testing.T) {
	m := NewIntentMatcher()

	intent, extracted, ok := m.Match("random folk pottery")
	if ok {
		t.Fatal("expected no rule to match")
	}
	if intent != models.IntentGeneral {
		t.Errorf("expected general_search default, got %s", intent)
	}
	if extracted != nil {
		t.Errorf("expected nil extraction, got %v", extracted)
	}
}

func TestIntentMatcher_FirstMatchWins(t *testing.T) {
	m := NewIntentMatcher()

	// Matches both the "show me X art" and "X from Y" rules; the earlier
	// rule in the list must win.
	intent, _, ok := m.Match("show me paintings from bengal art")
	if !ok {
		t.Fatal("expected a rule to match")
	}
	if intent != models.IntentArtform {
		t.Errorf("expected search_artform from the first rule, got %s", intent)
	}
}

func TestIntentMatcher_SubjectExtraction(t *testing.T) {
	tests := []struct {
		query   string
		intent  models.Intent
		subject string
	}{
		{"show me madhubani art", models.IntentArtform, "madhubani"},
		{"Show Me Beautiful Dance Art", models.IntentArtform, "Beautiful Dance"},
		{"paintings of rajasthan", models.IntentPainting, "rajasthan"},
		{"painting by tribal artists", models.IntentPainting, "tribal artists"},
		{"dances of kerala", models.IntentDance, "kerala"},
		{"what is kathakali", models.IntentInformation, "kathakali"},
		{"tell me about warli painting", models.IntentInformation, "warli painting"},
	}

	m := NewIntentMatcher()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			intent, extracted, ok := m.Match(tt.query)
			if !ok {
				t.Fatal("expected a rule to match")
			}
			if intent != tt.intent {
				t.Errorf("intent = %s, want %s", intent, tt.intent)
			}
			sub, isSubject := extracted.(models.SubjectExtraction)
			if !isSubject {
				t.Fatalf("expected SubjectExtraction, got %T", extracted)
			}
			if sub.Subject != tt.subject {
				t.Errorf("subject = %q, want %q", sub.Subject, tt.subject)
			}
		})
	}
}

func TestIntentMatcher_ArtformRegionExtraction(t *testing.T) {
	m := NewIntentMatcher()

	intent, extracted, ok := m.Match("pottery from gujarat")
	if !ok {
		t.Fatal("expected a rule to match")
	}
	if intent != models.IntentRegional {
		t.Errorf("expected search_regional, got %s", intent)
	}
	ar, isPair := extracted.(models.ArtformRegionExtraction)
	if !isPair {
		t.Fatalf("expected ArtformRegionExtraction, got %T", extracted)
	}
	if ar.Artform != "pottery" || ar.Region != "gujarat" {
		t.Errorf("extracted {%q, %q}, want {pottery, gujarat}", ar.Artform, ar.Region)
	}
}

func TestIntentMatcher_CaseInsensitive(t *testing.T) {
	m := NewIntentMatcher()

	intent, _, ok := m.Match("SHOW ME WARLI ART")
	if !ok || intent != models.IntentArtform {
		t.Errorf("expected case-insensitive match to search_artform, got ok=%v intent=%s", ok, intent)
	}
}
