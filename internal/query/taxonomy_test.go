package query

import (
	"reflect"
	"testing"
)

func TestTaxonomy_DeterministicWalk(t *testing.T) {
	tax := DefaultTaxonomy()

	first := tax.Categories()
	second := tax.Categories()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("category order not stable: %v vs %v", first, second)
	}

	if !reflect.DeepEqual(tax.ArtformKeywords(), tax.ArtformKeywords()) {
		t.Error("artform keyword order not stable")
	}
}

func TestTaxonomy_KnownCategories(t *testing.T) {
	tax := DefaultTaxonomy()

	for _, category := range []string{CategoryArtforms, CategoryEmotions, CategoryRegions, CategoryRecency} {
		if len(tax[category]) == 0 {
			t.Errorf("category %s missing or empty", category)
		}
	}

	for _, category := range tax.Categories() {
		for _, sub := range tax.Subcategories(category) {
			if len(tax[category][sub]) == 0 {
				t.Errorf("subcategory %s/%s has no keywords", category, sub)
			}
		}
	}
}
