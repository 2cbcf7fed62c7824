package models

import (
	"testing"
)

func TestIntentString(t *testing.T) {
	tests := []struct {
		intent Intent
		want   string
	}{
		{IntentGeneral, "general_search"},
		{IntentArtform, "search_artform"},
		{IntentPainting, "search_painting"},
		{IntentDance, "search_dance"},
		{IntentRegional, "search_regional"},
		{IntentInformation, "information_search"},
		{Intent(99), "unknown"},
		{Intent(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.intent.String()
			if got != tt.want {
				t.Errorf("Intent(%d).String() = %q, want %q", tt.intent, got, tt.want)
			}
		})
	}
}

func TestQueryAnalysisView(t *testing.T) {
	analysis := &QueryAnalysis{
		OriginalQuery: "show me madhubani art",
		Intent:        IntentArtform,
		Keywords:      []string{"madhubani"},
		Categories:    []string{"artforms"},
		Confidence:    0.8,
	}

	view := analysis.View()

	if view.Intent != "search_artform" {
		t.Errorf("view intent = %q, want search_artform", view.Intent)
	}
	if view.Confidence != 0.8 {
		t.Errorf("view confidence = %v, want 0.8", view.Confidence)
	}
	if len(view.Keywords) != 1 || view.Keywords[0] != "madhubani" {
		t.Errorf("view keywords = %v", view.Keywords)
	}
	if len(view.Categories) != 1 || view.Categories[0] != "artforms" {
		t.Errorf("view categories = %v", view.Categories)
	}
}

func TestArtworkSearchFields(t *testing.T) {
	aw := Artwork{
		Title:       "Peacock Motif",
		Description: "A classic madhubani piece",
		Artform:     "madhubani",
		Category:    "painting",
		Tags:        []string{"folk", "bihar"},
		Translations: map[string]Translation{
			"hi": {Title: "मोर"},
		},
		Likes:     []string{"u1", "u2", "u3"},
		Bookmarks: []string{"u1"},
	}

	f := aw.SearchFields()

	if f.Title != "Peacock Motif" || f.Artform != "madhubani" {
		t.Errorf("unexpected fields: %+v", f)
	}
	if f.LikesCount != 3 || f.BookmarksCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", f.LikesCount, f.BookmarksCount)
	}
	if f.TitleTranslations["hi"] != "मोर" {
		t.Errorf("translations = %v", f.TitleTranslations)
	}
}

func TestArtworkSearchFields_NoTranslations(t *testing.T) {
	f := Artwork{Title: "Plain"}.SearchFields()
	if f.TitleTranslations != nil {
		t.Errorf("expected nil translations map, got %v", f.TitleTranslations)
	}
}

func TestEventSearchFields(t *testing.T) {
	ev := Event{
		Title:      "Kathakali Night",
		Artform:    "kathakali",
		Interested: []string{"u1", "u2"},
		Bookmarks:  []string{"u1"},
	}

	f := ev.SearchFields()

	if f.Title != "Kathakali Night" {
		t.Errorf("title = %q", f.Title)
	}
	// Interest counts feed the popularity signal the way likes do.
	if f.LikesCount != 2 || f.BookmarksCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", f.LikesCount, f.BookmarksCount)
	}
	if f.TitleTranslations != nil {
		t.Error("events carry no translations")
	}
}

func TestArtistSearchFields(t *testing.T) {
	ar := Artist{
		Name:      "Asha Devi",
		Bio:       "Third-generation madhubani painter",
		Artform:   "madhubani",
		Followers: []string{"u1", "u2", "u3", "u4"},
	}

	f := ar.SearchFields()

	if f.Title != "Asha Devi" || f.Description != "Third-generation madhubani painter" {
		t.Errorf("unexpected fields: %+v", f)
	}
	if f.LikesCount != 4 {
		t.Errorf("followers count = %d, want 4", f.LikesCount)
	}
}
