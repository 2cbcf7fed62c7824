package observability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/models"
)

type SlowQueryDetector struct {
	warningThreshold  time.Duration
	criticalThreshold time.Duration
	logger            *zap.Logger
	analyticsWriter   AnalyticsWriter
}

// AnalyticsWriter receives the analytics record for a slow search. The Kafka
// producer implements it; a nil writer disables the analytics path.
type AnalyticsWriter interface {
	WriteSearchEvent(ctx context.Context, event *models.SearchEvent) error
}

func NewSlowQueryDetector(warning, critical time.Duration, logger *zap.Logger, aw AnalyticsWriter) *SlowQueryDetector {
	return &SlowQueryDetector{
		warningThreshold:  warning,
		criticalThreshold: critical,
		logger:            logger,
		analyticsWriter:   aw,
	}
}

func (sqd *SlowQueryDetector) Intercept(ctx context.Context, query string, intent string, duration time.Duration, resultCount int64) {
	// Fast queries return immediately with zero overhead.
	if duration <= sqd.warningThreshold {
		return
	}

	traceID := TraceIDFromContext(ctx)
	severity := sqd.classifySeverity(duration)

	SlowQueryCounter.WithLabelValues(severity, intent).Inc()

	sqd.logger.Warn("slow query detected",
		zap.String("trace_id", traceID),
		zap.String("query_hash", HashQuery(query)),
		zap.String("intent", intent),
		zap.Float64("duration_ms", float64(duration.Milliseconds())),
		zap.Int64("result_count", resultCount),
		zap.String("severity", severity),
	)

	// The analytics write happens off the request path.
	if sqd.analyticsWriter != nil {
		event := &models.SearchEvent{
			EventType:   "slow_query",
			QueryHash:   HashQuery(query),
			Intent:      intent,
			DurationMs:  float64(duration.Milliseconds()),
			ResultCount: resultCount,
			Timestamp:   time.Now().UTC(),
			TraceID:     traceID,
		}
		go func() {
			writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := sqd.analyticsWriter.WriteSearchEvent(writeCtx, event); err != nil {
				sqd.logger.Error("failed to write slow query analytics",
					zap.String("trace_id", traceID),
					zap.Error(err),
				)
			}
		}()
	}
}

func (sqd *SlowQueryDetector) classifySeverity(d time.Duration) string {
	if d > sqd.criticalThreshold {
		return "critical"
	}
	if d > sqd.warningThreshold {
		return "warning"
	}
	return "normal"
}

// HashQuery is the stable short hash used wherever a raw query must not be
// logged or keyed verbatim.
func HashQuery(q string) string {
	return fmt.Sprintf("%016x", hashUint64(q))
}

func hashUint64(s string) uint64 {
	h := uint64(0)
	for _, c := range s {
		h = h*31 + uint64(c)
	}
	return h
}
