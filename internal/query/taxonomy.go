package query

import "sort"

// Taxonomy maps category -> subcategory -> synonym keywords. It is built once
// at startup and never mutated, so concurrent searches share it freely.
type Taxonomy map[string]map[string][]string

// Category names used across the analyzer, filter builder, and suggester.
const (
	CategoryArtforms = "artforms"
	CategoryEmotions = "emotions"
	CategoryRegions  = "regions"
	CategoryRecency  = "recency"
)

// DefaultTaxonomy returns the built-in synonym dictionary for traditional-art
// searches. Adding a subcategory or synonym is a data change only; nothing
// else in the package enumerates these values.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		CategoryArtforms: {
			"dance": {
				"dance", "dancing", "bharatanatyam", "kathak", "odissi",
				"kuchipudi", "mohiniyattam", "folk dance", "classical dance",
			},
			"music": {
				"music", "song", "carnatic", "hindustani", "folk music",
				"classical music", "instrumental", "veena", "tabla",
			},
			"painting": {
				"painting", "madhubani", "warli", "tanjore", "pattachitra",
				"miniature", "mural", "canvas", "artwork",
			},
			"craft": {
				"craft", "handicraft", "pottery", "weaving", "embroidery",
				"sculpture", "textile", "handloom",
			},
			"theatre": {
				"theatre", "drama", "kathakali", "yakshagana", "puppetry",
				"storytelling",
			},
		},
		CategoryEmotions: {
			"beautiful":   {"beautiful", "stunning", "gorgeous", "elegant", "graceful"},
			"traditional": {"traditional", "classical", "authentic", "ancient", "heritage"},
			"vibrant":     {"vibrant", "colorful", "lively", "bright"},
			"serene":      {"serene", "peaceful", "calm", "meditative"},
		},
		CategoryRegions: {
			"north": {"north india", "punjab", "rajasthan", "kashmir", "delhi"},
			"south": {"south india", "tamil nadu", "kerala", "karnataka", "andhra"},
			"east":  {"east india", "bengal", "odisha", "assam"},
			"west":  {"west india", "maharashtra", "gujarat", "goa"},
		},
		CategoryRecency: {
			"recent":  {"new", "latest", "recent", "fresh"},
			"popular": {"popular", "trending", "famous", "renowned", "best"},
		},
	}
}

// Categories returns the category names in sorted order. Map iteration order
// is randomized in Go, so every walk over the taxonomy goes through here to
// keep analyzer output deterministic.
func (t Taxonomy) Categories() []string {
	return sortedKeys(t)
}

// Subcategories returns the subcategory names of a category in sorted order.
func (t Taxonomy) Subcategories(category string) []string {
	return sortedKeys(t[category])
}

// ArtformKeywords flattens the artforms category across subcategories in
// deterministic order for the suggester.
func (t Taxonomy) ArtformKeywords() []string {
	var out []string
	for _, sub := range t.Subcategories(CategoryArtforms) {
		out = append(out, t[CategoryArtforms][sub]...)
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
