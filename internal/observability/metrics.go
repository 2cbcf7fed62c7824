package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_request_duration_seconds",
			Help:    "Search request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.5, 1, 2.5},
		},
		[]string{"intent", "source", "status"},
	)

	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests",
		},
		[]string{"intent", "status"},
	)

	SearchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_query_confidence",
			Help:    "Analyzer confidence per query (additive, can exceed 1)",
			Buckets: []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1, 1.25, 1.5, 2},
		},
	)

	SuggestionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_requests_total",
			Help: "Total number of suggestion requests",
		},
		[]string{"source"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_hits_total",
			Help: "Total number of Redis cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_cache_misses_total",
			Help: "Total number of Redis cache misses",
		},
	)

	MongoQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongo_query_duration_seconds",
			Help:    "MongoDB query duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.15, 0.2, 0.5, 1},
		},
		[]string{"collection", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	SlowQueryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slow_query_total",
			Help: "Total number of slow queries",
		},
		[]string{"severity", "intent"},
	)

	FallbackCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_fallback_total",
			Help: "Total number of search fallback invocations",
		},
		[]string{"level"},
	)

	IngestLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_lag_seconds",
			Help: "Current content-change ingest lag in seconds",
		},
	)

	IngestEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_total",
			Help: "Total number of content-change events processed",
		},
		[]string{"operation", "status"},
	)

	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Total number of search analytics events published",
		},
		[]string{"status"},
	)
)
