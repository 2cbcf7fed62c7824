package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
)

// Invalidator is the slice of the cache the processor needs.
type Invalidator interface {
	InvalidatePattern(ctx context.Context, patterns []string) error
}

// Processor reacts to content changes by dropping the cache entries the
// change could have made stale. Invalidations are debounced: a burst of
// changes collapses into one sweep per flush interval.
type Processor struct {
	cache  Invalidator
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	ticker  *time.Ticker
	done    chan struct{}
}

func NewProcessor(cache Invalidator, flushInterval time.Duration, logger *zap.Logger) *Processor {
	p := &Processor{
		cache:   cache,
		logger:  logger,
		pending: make(map[string]struct{}),
		ticker:  time.NewTicker(flushInterval),
		done:    make(chan struct{}),
	}

	go p.flushLoop()

	return p
}

// HandleEvent is the kafka.MessageHandler for content-change events.
func (p *Processor) HandleEvent(ctx context.Context, event *models.ChangeEvent) error {
	patterns, err := invalidationPatterns(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	for _, pattern := range patterns {
		p.pending[pattern] = struct{}{}
	}
	p.mu.Unlock()

	observability.IngestEventsTotal.WithLabelValues(event.Type, "accepted").Inc()
	return nil
}

func (p *Processor) flushLoop() {
	for {
		select {
		case <-p.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.flush(ctx); err != nil {
				p.logger.Warn("cache invalidation sweep failed", zap.Error(err))
			}
			cancel()
		case <-p.done:
			return
		}
	}
}

func (p *Processor) flush(ctx context.Context) error {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return nil
	}
	patterns := make([]string, 0, len(p.pending))
	for pattern := range p.pending {
		patterns = append(patterns, pattern)
	}
	p.pending = make(map[string]struct{})
	p.mu.Unlock()

	sort.Strings(patterns)

	start := time.Now()
	if err := p.cache.InvalidatePattern(ctx, patterns); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}

	p.logger.Info("cache invalidation sweep completed",
		zap.Int("patterns", len(patterns)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (p *Processor) Stop() error {
	p.ticker.Stop()
	close(p.done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return p.flush(ctx)
}

// invalidationPatterns maps a change event to the cache regions it dirties.
// Stale fallback copies (sr:stale:*) deliberately survive so they remain
// available during a store outage.
func invalidationPatterns(event *models.ChangeEvent) ([]string, error) {
	switch event.Type {
	case "CREATE", "UPDATE", "DELETE":
	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}

	patterns := []string{"sr:q:*"}

	switch event.Collection {
	case "artworks":
		// Artwork titles feed autocomplete.
		patterns = append(patterns, "sg:*")
	case "events", "users":
	default:
		return nil, fmt.Errorf("unknown collection: %s", event.Collection)
	}

	if event.Type == "CREATE" {
		patterns = append(patterns, "trend:queries")
	}

	return patterns, nil
}
