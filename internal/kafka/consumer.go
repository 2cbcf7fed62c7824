package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
	"github.com/kalasangam/search-service/internal/resilience"
)

type MessageHandler func(ctx context.Context, event *models.ChangeEvent) error

const (
	fetchMaxWait   = 250 * time.Millisecond
	fetchMaxBytes  = 10 << 20
	fetchRetryWait = time.Second
)

// Consumer tails the content-change topic published by the platform backend
// and hands each event to the ingest processor. Poison messages go to the DLQ
// so the partition never stalls.
type Consumer struct {
	reader    *kafka.Reader
	dlqWriter *kafka.Writer
	handler   MessageHandler
	retry     resilience.RetryConfig
	cfg       config.KafkaConfig
	logger    *zap.Logger
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

func NewConsumer(cfg config.KafkaConfig, handler MessageHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.TopicChanges,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1,
		MaxBytes:       fetchMaxBytes,
		MaxWait:        fetchMaxWait,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	logger.Info("change-feed consumer created",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.TopicChanges),
		zap.String("group", cfg.ConsumerGroup),
		zap.String("dlq", cfg.TopicDLQ),
	)

	return &Consumer{
		reader: reader,
		dlqWriter: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.TopicDLQ,
			Balancer: &kafka.Hash{},
		},
		handler: handler,
		retry:   retryPolicy(cfg),
		cfg:     cfg,
		logger:  logger,
	}
}

// retryPolicy derives the handler retry schedule from the kafka config. The
// cap keeps a flapping Redis from blocking the partition for more than a few
// seconds per event.
func retryPolicy(cfg config.KafkaConfig) resilience.RetryConfig {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	return resilience.RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()

	c.logger.Info("change-feed consumer started")
	return nil
}

func (c *Consumer) run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("change-feed consumer shutting down")
				return
			}
			c.logger.Error("fetching change event", zap.Error(err))
			time.Sleep(fetchRetryWait)
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event models.ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("undecodable change event",
			zap.Error(err),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
		observability.IngestEventsTotal.WithLabelValues("invalid", "dlq").Inc()
		c.deadLetter(ctx, msg, fmt.Sprintf("unmarshal error: %v", err))
		c.commit(ctx, msg)
		return
	}

	// How far behind the content platform this consumer is running.
	if !event.Timestamp.IsZero() {
		observability.IngestLag.Set(time.Since(event.Timestamp).Seconds())
	}

	err := resilience.Retry(ctx, c.retry, func() error {
		return c.handler(ctx, &event)
	})
	if err != nil {
		c.logger.Error("change event handler exhausted retries",
			zap.Error(err),
			zap.String("doc_id", event.DocumentID),
			zap.String("collection", event.Collection),
		)
		observability.IngestEventsTotal.WithLabelValues(event.Type, "dlq").Inc()
		c.deadLetter(ctx, msg, fmt.Sprintf("handler error after retries: %v", err))
	} else {
		observability.IngestEventsTotal.WithLabelValues(event.Type, "success").Inc()
	}

	c.commit(ctx, msg)
}

// deadLetterMessage copies a failed message for the DLQ, preserving key and
// payload and recording where it came from and why it failed.
func deadLetterMessage(msg kafka.Message, reason, sourceTopic string) kafka.Message {
	return kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers,
			kafka.Header{Key: "dlq_reason", Value: []byte(reason)},
			kafka.Header{Key: "original_topic", Value: []byte(sourceTopic)},
			kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		),
	}
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, reason string) {
	if err := c.dlqWriter.WriteMessages(ctx, deadLetterMessage(msg, reason, c.cfg.TopicChanges)); err != nil {
		c.logger.Error("writing to DLQ",
			zap.Error(err),
			zap.Int64("offset", msg.Offset),
		)
	}
}

func (c *Consumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("committing change event",
			zap.Error(err),
			zap.Int64("offset", msg.Offset),
		)
	}
}

func (c *Consumer) HealthCheck(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("kafka health check dial: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("kafka health check brokers: %w", err)
	}
	return nil
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	var errs []error
	if err := c.reader.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing reader: %w", err))
	}
	if err := c.dlqWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing dlq writer: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("consumer close errors: %v", errs)
	}
	return nil
}
