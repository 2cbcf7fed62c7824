package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
)

// Producer publishes search analytics events. It satisfies
// observability.AnalyticsWriter so the slow-query detector and the
// orchestrator share one event stream.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicAnalytics,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		MaxAttempts:  cfg.MaxRetries,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	logger.Info("kafka producer created", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.TopicAnalytics))

	return &Producer{
		writer: w,
		logger: logger,
	}
}

func (p *Producer) WriteSearchEvent(ctx context.Context, event *models.SearchEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		observability.AnalyticsEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("marshaling search event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.QueryHash),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "intent", Value: []byte(event.Intent)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		observability.AnalyticsEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("publishing search event: %w", err)
	}

	observability.AnalyticsEventsTotal.WithLabelValues("success").Inc()
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
