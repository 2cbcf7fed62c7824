package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
)

type stubStore struct {
	artworks []models.Artwork
	events   []models.Event
	artists  []models.Artist
	titles   []string
	err      error

	artworkCalls int32
	eventCalls   int32
	artistCalls  int32
}

func (s *stubStore) FindArtworks(_ context.Context, _ bson.M, _, _ int) ([]models.Artwork, error) {
	atomic.AddInt32(&s.artworkCalls, 1)
	return s.artworks, s.err
}

func (s *stubStore) FindEvents(_ context.Context, _ bson.M, _, _ int) ([]models.Event, error) {
	atomic.AddInt32(&s.eventCalls, 1)
	return s.events, s.err
}

func (s *stubStore) FindArtists(_ context.Context, _ string, _, _ int) ([]models.Artist, error) {
	atomic.AddInt32(&s.artistCalls, 1)
	return s.artists, s.err
}

func (s *stubStore) FindArtworkTitles(_ context.Context, _ string, _ int) ([]string, error) {
	return s.titles, s.err
}

type stubCache struct {
	search   *models.SearchResponse
	stale    *models.SearchResponse
	sugg     []string
	trending []string

	setSearchCalls int
	setSugg        []string
	setTrending    []string
}

func (c *stubCache) GetSearchResults(_ context.Context, _ *models.SearchRequest) (*models.SearchResponse, error) {
	return c.search, nil
}

func (c *stubCache) SetSearchResults(_ context.Context, _ *models.SearchRequest, _ *models.SearchResponse) error {
	c.setSearchCalls++
	return nil
}

func (c *stubCache) GetStaleResults(_ context.Context, _ *models.SearchRequest) (*models.SearchResponse, error) {
	return c.stale, nil
}

func (c *stubCache) GetSuggestions(_ context.Context, _ string) ([]string, error) {
	return c.sugg, nil
}

func (c *stubCache) SetSuggestions(_ context.Context, _ string, results []string) error {
	c.setSugg = results
	return nil
}

func (c *stubCache) GetTrending(_ context.Context) ([]string, error) {
	return c.trending, nil
}

func (c *stubCache) SetTrending(_ context.Context, queries []string) error {
	c.setTrending = queries
	return nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultLimit:   20,
		MaxLimit:       100,
		QueryTimeout:   time.Second,
		MaxSuggestions: 10,
	}
}

func newTestOrchestrator(store *stubStore, cache *stubCache) *Orchestrator {
	detector := observability.NewSlowQueryDetector(time.Hour, 2*time.Hour, zap.NewNop(), nil)
	return New(store, cache, detector, nil, testSearchConfig(), zap.NewNop())
}

func TestSearch_PrimaryPath(t *testing.T) {
	store := &stubStore{
		artworks: []models.Artwork{
			{Title: "Madhubani fish motif", Artform: "madhubani", Tags: []string{"madhubani"}},
			{Title: "Clay bowl"},
		},
		events: []models.Event{
			{Title: "Madhubani workshop", Artform: "madhubani"},
		},
		artists: []models.Artist{
			{Name: "Asha", Artform: "madhubani"},
		},
	}
	cache := &stubCache{}
	o := newTestOrchestrator(store, cache)

	resp, err := o.Search(context.Background(), &models.SearchRequest{Query: "madhubani painting"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !resp.Success {
		t.Error("expected success response")
	}
	if resp.Source != "primary" {
		t.Errorf("source = %q, want primary", resp.Source)
	}
	if resp.Metadata.Source != "mongodb" {
		t.Errorf("metadata source = %q, want mongodb", resp.Metadata.Source)
	}
	if len(resp.Results.Artworks) != 2 || len(resp.Results.Events) != 1 || len(resp.Results.Artists) != 1 {
		t.Errorf("bucket sizes = %d/%d/%d, want 2/1/1",
			len(resp.Results.Artworks), len(resp.Results.Events), len(resp.Results.Artists))
	}
	if resp.Insights.Results.Total != 4 {
		t.Errorf("insights total = %d, want 4", resp.Insights.Results.Total)
	}
	if resp.Pagination.Page != 1 || resp.Pagination.Limit != 20 {
		t.Errorf("pagination defaults = page %d limit %d, want 1/20", resp.Pagination.Page, resp.Pagination.Limit)
	}
	if cache.setSearchCalls != 1 {
		t.Errorf("cache set calls = %d, want 1", cache.setSearchCalls)
	}
	// Matching artwork must outrank the unrelated one.
	if resp.Results.Artworks[0].Item.Title != "Madhubani fish motif" {
		t.Errorf("top artwork = %q, want the matching one", resp.Results.Artworks[0].Item.Title)
	}
}

func TestSearch_CacheHit(t *testing.T) {
	cached := &models.SearchResponse{Success: true, Source: "primary"}
	store := &stubStore{}
	cache := &stubCache{search: cached}
	o := newTestOrchestrator(store, cache)

	resp, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !resp.Metadata.CacheHit {
		t.Error("expected cache hit flag")
	}
	if atomic.LoadInt32(&store.artworkCalls) != 0 {
		t.Error("cache hit must not touch the store")
	}
}

func TestSearch_ForceFreshBypassesCache(t *testing.T) {
	cached := &models.SearchResponse{Success: true}
	store := &stubStore{}
	cache := &stubCache{search: cached}
	o := newTestOrchestrator(store, cache)

	resp, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli", ForceFresh: true})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Metadata.CacheHit {
		t.Error("force fresh must not serve from cache")
	}
	if atomic.LoadInt32(&store.artworkCalls) == 0 {
		t.Error("force fresh must query the store")
	}
}

func TestSearch_TypeFiltersBuckets(t *testing.T) {
	store := &stubStore{artworks: []models.Artwork{{Title: "Warli mural"}}}
	o := newTestOrchestrator(store, &stubCache{})

	_, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli", Type: "artworks"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if atomic.LoadInt32(&store.artworkCalls) != 1 {
		t.Error("expected artworks bucket query")
	}
	if atomic.LoadInt32(&store.eventCalls) != 0 || atomic.LoadInt32(&store.artistCalls) != 0 {
		t.Error("type=artworks must skip events and artists")
	}
}

func TestSearch_StaleFallback(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	stale := &models.SearchResponse{Success: true, Source: "primary"}
	cache := &stubCache{stale: stale}
	o := newTestOrchestrator(store, cache)

	resp, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !resp.Metadata.Stale {
		t.Error("expected stale flag")
	}
	if resp.Source != "stale_cache" {
		t.Errorf("source = %q, want stale_cache", resp.Source)
	}
	if cache.setSearchCalls != 0 {
		t.Error("stale responses must not be written back to the cache")
	}
}

func TestSearch_StaticFallback(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	o := newTestOrchestrator(store, &stubCache{})
	o.SetStaticFallback([]models.Scored[models.Artwork]{
		{Item: models.Artwork{Title: "Featured warli"}, RelevanceScore: 0.5},
	})

	resp, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if resp.Source != "static_fallback" {
		t.Errorf("source = %q, want static_fallback", resp.Source)
	}
	if len(resp.Results.Artworks) != 1 {
		t.Errorf("expected the static artwork, got %d", len(resp.Results.Artworks))
	}
}

func TestSearch_AllPathsExhausted(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	o := newTestOrchestrator(store, &stubCache{})

	if _, err := o.Search(context.Background(), &models.SearchRequest{Query: "warli"}); err == nil {
		t.Fatal("expected error when every path fails")
	}
}

func TestSuggest_MergesStoreTitles(t *testing.T) {
	store := &stubStore{titles: []string{"Madhubani Peacock", "madhubani painting", "Madhubani Sunrise"}}
	cache := &stubCache{}
	o := newTestOrchestrator(store, cache)

	got, err := o.Suggest(context.Background(), "madhubani")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if len(got) > 10 {
		t.Errorf("suggestion count = %d, want at most 10", len(got))
	}
	// "madhubani painting" already comes from the rule-based list; the store
	// copy must be deduplicated case-insensitively.
	count := 0
	for _, s := range got {
		if strings.EqualFold(s, "madhubani painting") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("'madhubani painting' appears %d times, want 1", count)
	}
	if cache.setSugg == nil {
		t.Error("fresh suggestions should be cached")
	}
}

func TestSuggest_ServesCached(t *testing.T) {
	cache := &stubCache{sugg: []string{"warli art"}}
	o := newTestOrchestrator(&stubStore{}, cache)

	got, err := o.Suggest(context.Background(), "warli")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0] != "warli art" {
		t.Errorf("got %v, want cached entry", got)
	}
}

func TestSuggest_StoreErrorDegrades(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	o := newTestOrchestrator(store, &stubCache{})

	got, err := o.Suggest(context.Background(), "madhubani")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) == 0 {
		t.Error("rule-based suggestions should survive a store outage")
	}
}

func TestTrending_ColdCacheSeedsPopular(t *testing.T) {
	cache := &stubCache{}
	o := newTestOrchestrator(&stubStore{}, cache)

	got, err := o.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("expected seeded trending list")
	}
	if cache.setTrending == nil {
		t.Error("seeded trending should be cached")
	}
}

func TestTrending_ServesCached(t *testing.T) {
	cache := &stubCache{trending: []string{"kathakali performance"}}
	o := newTestOrchestrator(&stubStore{}, cache)

	got, err := o.Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(got) != 1 || got[0] != "kathakali performance" {
		t.Errorf("got %v, want cached list", got)
	}
}

func TestNormalizeRequest(t *testing.T) {
	cfg := testSearchConfig()

	tests := []struct {
		name      string
		req       models.SearchRequest
		wantLimit int
		wantPage  int
		wantType  string
	}{
		{"defaults", models.SearchRequest{}, 20, 1, "all"},
		{"limit capped", models.SearchRequest{Limit: 500}, 100, 1, "all"},
		{"explicit values kept", models.SearchRequest{Limit: 5, Page: 3, Type: "events"}, 5, 3, "events"},
		{"negative page reset", models.SearchRequest{Page: -2}, 20, 1, "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			normalizeRequest(&req, cfg)
			if req.Limit != tt.wantLimit || req.Page != tt.wantPage || req.Type != tt.wantType {
				t.Errorf("got limit=%d page=%d type=%q, want %d/%d/%q",
					req.Limit, req.Page, req.Type, tt.wantLimit, tt.wantPage, tt.wantType)
			}
		})
	}
}

func TestMergeSuggestions(t *testing.T) {
	base := []string{"warli art", "warli painting"}
	extra := []string{"Warli Art", "Warli Village Scene"}

	got := mergeSuggestions(base, extra, 3)

	want := []string{"warli art", "warli painting", "Warli Village Scene"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
