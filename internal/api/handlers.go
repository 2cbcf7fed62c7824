package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const maxPartialLen = 100

// SearchService is the orchestrator surface the HTTP layer calls.
type SearchService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	Suggest(ctx context.Context, partial string) ([]string, error)
	Trending(ctx context.Context) ([]string, error)
}

type Handler struct {
	service SearchService
	cfg     config.SearchConfig
	logger  *zap.Logger
}

func NewHandler(service SearchService, cfg config.SearchConfig, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := RequestIDFromContext(ctx)

	req, err := h.parseSearchRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	// An empty query is valid: it runs the base search, which returns the
	// freshest content with no text filtering.
	if !validResultType(req.Type) {
		h.writeError(w, http.StatusBadRequest, "invalid_type", "Type must be one of all, artworks, events, artists")
		return
	}
	req.RequestID = requestID

	resp, err := h.service.Search(ctx, req)
	if err != nil {
		h.logger.Error("search failed",
			zap.String("request_id", requestID),
			zap.String("query", req.Query),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "search_error", "Search service temporarily unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Suggestions serves autocomplete. Inputs below the minimum length get an
// empty list rather than an error so typeahead clients need no special case.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partial := r.URL.Query().Get("q")
	if len(partial) > maxPartialLen {
		partial = partial[:maxPartialLen]
	}
	if len(partial) < h.cfg.MinSuggestionLen {
		h.writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"suggestions": []string{},
		})
		return
	}

	suggestions, err := h.service.Suggest(ctx, partial)
	if err != nil {
		h.logger.Error("suggestions failed",
			zap.String("request_id", RequestIDFromContext(ctx)),
			zap.Error(err),
		)
		h.writeError(w, http.StatusInternalServerError, "suggestions_error", "Suggestions temporarily unavailable")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"suggestions": suggestions,
	})
}

func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	trending, err := h.service.Trending(ctx)
	if err != nil {
		h.logger.Warn("trending lookup failed", zap.Error(err))
		trending = []string{}
	}
	if trending == nil {
		trending = []string{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"trending": trending,
	})
}

func (h *Handler) parseSearchRequest(r *http.Request) (*models.SearchRequest, error) {
	if r.Method == http.MethodPost {
		var req models.SearchRequest
		limited := io.LimitReader(r.Body, maxRequestBodySize)
		if err := json.NewDecoder(limited).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	// GET request
	req := &models.SearchRequest{
		Query: r.URL.Query().Get("q"),
		Type:  r.URL.Query().Get("type"),
	}

	if p := r.URL.Query().Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err == nil && page > 0 {
			req.Page = page
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	if r.URL.Query().Get("force_fresh") == "true" {
		req.ForceFresh = true
	}

	return req, nil
}

func validResultType(t string) bool {
	switch t {
	case "", "all", "artworks", "events", "artists":
		return true
	}
	return false
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("writing json response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
