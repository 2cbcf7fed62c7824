package models

import "time"

type Intent int

const (
	IntentGeneral Intent = iota
	IntentArtform
	IntentPainting
	IntentDance
	IntentRegional
	IntentInformation
)

func (i Intent) String() string {
	switch i {
	case IntentGeneral:
		return "general_search"
	case IntentArtform:
		return "search_artform"
	case IntentPainting:
		return "search_painting"
	case IntentDance:
		return "search_dance"
	case IntentRegional:
		return "search_regional"
	case IntentInformation:
		return "information_search"
	default:
		return "unknown"
	}
}

// Extraction is the structured payload captured by an intent rule. The shape
// depends on the intent that matched, so callers switch on the concrete type.
type Extraction interface {
	extraction()
}

// SubjectExtraction carries the single captured subject of an intent rule,
// e.g. "madhubani" out of "show me madhubani art".
type SubjectExtraction struct {
	Subject string `json:"subject"`
}

// ArtformRegionExtraction carries both halves of an "X from Y" query.
type ArtformRegionExtraction struct {
	Artform string `json:"artform"`
	Region  string `json:"region"`
}

func (SubjectExtraction) extraction()       {}
func (ArtformRegionExtraction) extraction() {}

// QueryAnalysis is the result of running a raw query through the analyzer.
// It is built fresh per request and read-only afterwards.
type QueryAnalysis struct {
	OriginalQuery string
	Intent        Intent
	Extracted     Extraction
	Keywords      []string
	Categories    []string
	Filters       map[string]string
	Confidence    float64
	SearchTerms   []string
}

// AnalysisView is the wire-level echo of a QueryAnalysis.
type AnalysisView struct {
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`
}

func (a *QueryAnalysis) View() AnalysisView {
	return AnalysisView{
		Intent:     a.Intent.String(),
		Confidence: a.Confidence,
		Categories: a.Categories,
		Keywords:   a.Keywords,
	}
}

// Scored wraps a stored document with the relevance score attached by the
// ranker. Never persisted.
type Scored[T any] struct {
	Item           T       `json:"item"`
	RelevanceScore float64 `json:"relevance_score"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	Type       string `json:"type,omitempty"` // all, artworks, events, artists
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	ForceFresh bool   `json:"force_fresh,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

type ResultBuckets struct {
	Artworks []Scored[Artwork] `json:"artworks"`
	Events   []Scored[Event]   `json:"events"`
	Artists  []Scored[Artist]  `json:"artists"`
}

type ResultTiers struct {
	HighRelevance   int `json:"high_relevance"`
	MediumRelevance int `json:"medium_relevance"`
	LowRelevance    int `json:"low_relevance"`
	Total           int `json:"total"`
}

type Insights struct {
	QueryAnalysis AnalysisView `json:"query_analysis"`
	Results       ResultTiers  `json:"results"`
	Suggestions   []string     `json:"suggestions"`
}

type Pagination struct {
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	Artworks int `json:"artworks"`
	Events   int `json:"events"`
	Artists  int `json:"artists"`
}

type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source"`
	CacheHit  bool   `json:"cache_hit"`
	Stale     bool   `json:"stale"`
	Intent    string `json:"intent"`
}

type SearchResponse struct {
	Success    bool             `json:"success"`
	Query      string           `json:"query"`
	Analysis   AnalysisView     `json:"analysis"`
	Results    ResultBuckets    `json:"results"`
	Insights   Insights         `json:"insights"`
	Pagination Pagination       `json:"pagination"`
	TookMs     int64            `json:"took_ms"`
	Source     string           `json:"source"`
	Metadata   ResponseMetadata `json:"metadata"`
}

// ChangeEvent is published by the content platform whenever an artwork or
// event document is created, updated, or deleted.
type ChangeEvent struct {
	Type       string         `json:"type"` // CREATE, UPDATE, DELETE
	DocumentID string         `json:"document_id"`
	Collection string         `json:"collection"`
	Document   map[string]any `json:"document,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Version    int64          `json:"version"`
}

// SearchEvent is the analytics record emitted for every executed search.
type SearchEvent struct {
	EventType   string    `json:"event_type"`
	QueryHash   string    `json:"query_hash"`
	Query       string    `json:"query"`
	Intent      string    `json:"intent"`
	Confidence  float64   `json:"confidence"`
	ResultCount int64     `json:"result_count"`
	DurationMs  float64   `json:"duration_ms"`
	CacheHit    bool      `json:"cache_hit"`
	Timestamp   time.Time `json:"timestamp"`
	TraceID     string    `json:"trace_id"`
	Source      string    `json:"source"`
}
