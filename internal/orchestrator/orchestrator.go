package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
	"github.com/kalasangam/search-service/internal/query"
)

// DocumentStore is the slice of the MongoDB store the orchestrator reads.
type DocumentStore interface {
	FindArtworks(ctx context.Context, filter bson.M, limit, skip int) ([]models.Artwork, error)
	FindEvents(ctx context.Context, filter bson.M, limit, skip int) ([]models.Event, error)
	FindArtists(ctx context.Context, queryText string, limit, skip int) ([]models.Artist, error)
	FindArtworkTitles(ctx context.Context, partial string, limit int) ([]string, error)
}

// ResultCache is the slice of the Redis cache the orchestrator uses.
type ResultCache interface {
	GetSearchResults(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	SetSearchResults(ctx context.Context, req *models.SearchRequest, resp *models.SearchResponse) error
	GetStaleResults(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	GetSuggestions(ctx context.Context, partial string) ([]string, error)
	SetSuggestions(ctx context.Context, partial string, results []string) error
	GetTrending(ctx context.Context) ([]string, error)
	SetTrending(ctx context.Context, queries []string) error
}

// Orchestrator runs the full search pipeline: analyze the query, check the
// cache, fan out to the document buckets, rank, summarize, and fall back
// through stale cache and static results when the store is down.
type Orchestrator struct {
	store     DocumentStore
	cache     ResultCache
	analyzer  *query.Analyzer
	builder   *query.FilterBuilder
	suggester *query.Suggester
	slowQuery *observability.SlowQueryDetector
	analytics observability.AnalyticsWriter
	cfg       config.SearchConfig
	logger    *zap.Logger

	mu             sync.RWMutex
	staticFallback []models.Scored[models.Artwork]
}

func New(
	store DocumentStore,
	cache ResultCache,
	slowQuery *observability.SlowQueryDetector,
	analytics observability.AnalyticsWriter,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *Orchestrator {
	taxonomy := query.DefaultTaxonomy()
	return &Orchestrator{
		store:     store,
		cache:     cache,
		analyzer:  query.NewAnalyzer(taxonomy),
		builder:   query.NewFilterBuilder(),
		suggester: query.NewSuggester(taxonomy),
		slowQuery: slowQuery,
		analytics: analytics,
		cfg:       cfg,
		logger:    logger,
	}
}

func (o *Orchestrator) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "orchestrator.search",
		attribute.String("query_hash", observability.HashQuery(req.Query)),
	)
	defer span.End()

	normalizeRequest(req, o.cfg)

	analysis := o.analyzer.Analyze(req.Query)
	intent := analysis.Intent.String()
	o.logger.Debug("query analyzed",
		zap.String("intent", intent),
		zap.Float64("confidence", analysis.Confidence),
		zap.Strings("keywords", analysis.Keywords),
	)
	observability.SearchConfidence.Observe(analysis.Confidence)

	if !req.ForceFresh {
		cached, err := o.cache.GetSearchResults(ctx, req)
		if err != nil {
			o.logger.Warn("cache lookup error", zap.Error(err))
		}
		if cached != nil {
			cached.Metadata.CacheHit = true
			cached.TookMs = time.Since(start).Milliseconds()
			observability.SearchRequestsTotal.WithLabelValues(intent, "cache_hit").Inc()
			observability.SearchRequestDuration.WithLabelValues(intent, "cache", "success").Observe(time.Since(start).Seconds())
			return cached, nil
		}
	}

	resp, err := o.searchWithFallback(ctx, req, analysis)
	if err != nil {
		observability.SearchRequestsTotal.WithLabelValues(intent, "error").Inc()
		observability.SearchRequestDuration.WithLabelValues(intent, "error", "error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	resp.TookMs = time.Since(start).Milliseconds()
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.Intent = intent

	if resp.Source == "primary" {
		if err := o.cache.SetSearchResults(ctx, req, resp); err != nil {
			o.logger.Warn("cache set error", zap.Error(err))
		}
	}

	total := int64(resp.Insights.Results.Total)
	observability.SearchRequestsTotal.WithLabelValues(intent, "success").Inc()
	observability.SearchRequestDuration.WithLabelValues(intent, resp.Source, "success").Observe(time.Since(start).Seconds())

	o.slowQuery.Intercept(ctx, req.Query, intent, time.Since(start), total)
	o.publishSearchEvent(ctx, req, analysis, resp, time.Since(start), total)

	return resp, nil
}

func (o *Orchestrator) searchWithFallback(ctx context.Context, req *models.SearchRequest, analysis *models.QueryAnalysis) (*models.SearchResponse, error) {
	resp, err := o.primarySearch(ctx, req, analysis)
	if err == nil {
		return resp, nil
	}
	o.logger.Warn("primary search failed, trying fallback", zap.Error(err))
	observability.FallbackCounter.WithLabelValues("primary_failed").Inc()

	stale, cacheErr := o.cache.GetStaleResults(ctx, req)
	if cacheErr == nil && stale != nil {
		stale.Metadata.Stale = true
		stale.Source = "stale_cache"
		stale.Metadata.Source = "stale_cache"
		observability.FallbackCounter.WithLabelValues("stale_cache").Inc()
		return stale, nil
	}
	if cacheErr != nil {
		o.logger.Warn("stale cache lookup failed", zap.Error(cacheErr))
	}

	static := o.getStaticFallback()
	if len(static) > 0 {
		observability.FallbackCounter.WithLabelValues("static").Inc()
		resp := buildResponse(req, analysis, models.ResultBuckets{Artworks: static}, o.suggester)
		resp.Source = "static_fallback"
		resp.Metadata.Source = "static_fallback"
		return resp, nil
	}

	return nil, fmt.Errorf("all search paths exhausted: primary error: %w", err)
}

// primarySearch fans out one goroutine per requested bucket and waits for all
// of them. A single bucket failure fails the whole search so the fallback
// ladder can take over.
func (o *Orchestrator) primarySearch(ctx context.Context, req *models.SearchRequest, analysis *models.QueryAnalysis) (*models.SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.QueryTimeout)
	defer cancel()

	skip := (req.Page - 1) * req.Limit

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		buckets  models.ResultBuckets
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	if wantBucket(req.Type, "artworks") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filter, err := o.builder.Build(analysis, query.CollectionArtworks)
			if err != nil {
				fail(err)
				return
			}
			docs, err := o.store.FindArtworks(ctx, filter, req.Limit, skip)
			if err != nil {
				fail(fmt.Errorf("artworks bucket: %w", err))
				return
			}
			ranked := query.Rank(docs, analysis)
			mu.Lock()
			buckets.Artworks = ranked
			mu.Unlock()
		}()
	}

	if wantBucket(req.Type, "events") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			filter, err := o.builder.Build(analysis, query.CollectionEvents)
			if err != nil {
				fail(err)
				return
			}
			docs, err := o.store.FindEvents(ctx, filter, req.Limit, skip)
			if err != nil {
				fail(fmt.Errorf("events bucket: %w", err))
				return
			}
			ranked := query.Rank(docs, analysis)
			mu.Lock()
			buckets.Events = ranked
			mu.Unlock()
		}()
	}

	if wantBucket(req.Type, "artists") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, err := o.store.FindArtists(ctx, strings.ToLower(strings.TrimSpace(req.Query)), req.Limit, skip)
			if err != nil {
				fail(fmt.Errorf("artists bucket: %w", err))
				return
			}
			ranked := query.Rank(docs, analysis)
			mu.Lock()
			buckets.Artists = ranked
			mu.Unlock()
		}()
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	resp := buildResponse(req, analysis, buckets, o.suggester)
	resp.Source = "primary"
	resp.Metadata.Source = "mongodb"
	return resp, nil
}

// Suggest merges rule-based completions with live artwork titles, capped at
// the configured maximum. Cache errors degrade to a fresh computation.
func (o *Orchestrator) Suggest(ctx context.Context, partial string) ([]string, error) {
	ctx, span := observability.StartSpan(ctx, "orchestrator.suggest")
	defer span.End()

	cached, err := o.cache.GetSuggestions(ctx, partial)
	if err != nil {
		o.logger.Warn("suggestion cache lookup error", zap.Error(err))
	}
	if cached != nil {
		observability.SuggestionRequestsTotal.WithLabelValues("cache").Inc()
		return cached, nil
	}

	suggestions := o.suggester.Suggest(partial)

	titles, err := o.store.FindArtworkTitles(ctx, strings.ToLower(strings.TrimSpace(partial)), o.cfg.MaxSuggestions)
	if err != nil {
		// Rule-based suggestions alone are still useful.
		o.logger.Warn("artwork title lookup failed", zap.Error(err))
	} else {
		suggestions = mergeSuggestions(suggestions, titles, o.cfg.MaxSuggestions)
	}

	if err := o.cache.SetSuggestions(ctx, partial, suggestions); err != nil {
		o.logger.Warn("suggestion cache set error", zap.Error(err))
	}

	observability.SuggestionRequestsTotal.WithLabelValues("fresh").Inc()
	return suggestions, nil
}

// Trending serves the cached trending queries, seeding from the static
// popular list when the cache is cold.
func (o *Orchestrator) Trending(ctx context.Context) ([]string, error) {
	cached, err := o.cache.GetTrending(ctx)
	if err != nil {
		o.logger.Warn("trending cache lookup error", zap.Error(err))
	}
	if len(cached) > 0 {
		return cached, nil
	}

	trending := o.suggester.Popular()
	if err := o.cache.SetTrending(ctx, trending); err != nil {
		o.logger.Warn("trending cache set error", zap.Error(err))
	}
	return trending, nil
}

func (o *Orchestrator) SetStaticFallback(results []models.Scored[models.Artwork]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staticFallback = results
}

func (o *Orchestrator) getStaticFallback() []models.Scored[models.Artwork] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.staticFallback
}

func (o *Orchestrator) publishSearchEvent(ctx context.Context, req *models.SearchRequest, analysis *models.QueryAnalysis, resp *models.SearchResponse, took time.Duration, total int64) {
	if o.analytics == nil {
		return
	}
	event := &models.SearchEvent{
		EventType:   "search",
		QueryHash:   observability.HashQuery(req.Query),
		Query:       req.Query,
		Intent:      analysis.Intent.String(),
		Confidence:  analysis.Confidence,
		ResultCount: total,
		DurationMs:  float64(took.Milliseconds()),
		CacheHit:    resp.Metadata.CacheHit,
		Timestamp:   time.Now().UTC(),
		TraceID:     observability.TraceIDFromContext(ctx),
		Source:      resp.Source,
	}
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := o.analytics.WriteSearchEvent(writeCtx, event); err != nil {
			o.logger.Warn("failed to publish search event", zap.Error(err))
		}
	}()
}

func normalizeRequest(req *models.SearchRequest, cfg config.SearchConfig) {
	if req.Limit <= 0 {
		req.Limit = cfg.DefaultLimit
	}
	if req.Limit > cfg.MaxLimit {
		req.Limit = cfg.MaxLimit
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Type == "" {
		req.Type = "all"
	}
}

func wantBucket(reqType, bucket string) bool {
	return reqType == "all" || reqType == bucket
}

func buildResponse(req *models.SearchRequest, analysis *models.QueryAnalysis, buckets models.ResultBuckets, suggester *query.Suggester) *models.SearchResponse {
	scores := make([]float64, 0, len(buckets.Artworks)+len(buckets.Events)+len(buckets.Artists))
	scores = append(scores, query.CollectScores(buckets.Artworks)...)
	scores = append(scores, query.CollectScores(buckets.Events)...)
	scores = append(scores, query.CollectScores(buckets.Artists)...)
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	insights := query.Summarize(analysis, scores, suggester)

	return &models.SearchResponse{
		Success:  true,
		Query:    req.Query,
		Analysis: analysis.View(),
		Results:  buckets,
		Insights: insights,
		Pagination: models.Pagination{
			Page:     req.Page,
			Limit:    req.Limit,
			Artworks: len(buckets.Artworks),
			Events:   len(buckets.Events),
			Artists:  len(buckets.Artists),
		},
	}
}

func mergeSuggestions(base, extra []string, limit int) []string {
	seen := make(map[string]bool, len(base))
	merged := make([]string, 0, limit)
	for _, s := range base {
		key := strings.ToLower(s)
		if seen[key] || len(merged) >= limit {
			continue
		}
		seen[key] = true
		merged = append(merged, s)
	}
	for _, s := range extra {
		key := strings.ToLower(s)
		if seen[key] || len(merged) >= limit {
			continue
		}
		seen[key] = true
		merged = append(merged, s)
	}
	return merged
}
