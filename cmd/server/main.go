package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/api"
	"github.com/kalasangam/search-service/internal/cache"
	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/ingest"
	"github.com/kalasangam/search-service/internal/kafka"
	"github.com/kalasangam/search-service/internal/observability"
	"github.com/kalasangam/search-service/internal/orchestrator"
	"github.com/kalasangam/search-service/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize logger
	logger, err := observability.NewLogger(cfg.Observability.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting search service",
		zap.String("service", cfg.Observability.ServiceName),
	)

	// Initialize tracing
	tracerShutdown, err := observability.InitTracer(cfg.Observability.ServiceName)
	if err != nil {
		logger.Warn("tracing initialization failed, continuing without tracing", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients
	redisCache, err := cache.NewRedisCache(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("initializing redis: %w", err)
	}
	defer redisCache.Close()

	documentStore, err := store.New(ctx, cfg.MongoDB, cfg.Search, logger)
	if err != nil {
		return fmt.Errorf("initializing mongodb: %w", err)
	}
	defer documentStore.Close(context.Background())

	// Analytics producer. Kafka being down degrades analytics, not search.
	producer := kafka.NewProducer(cfg.Kafka, logger)
	defer producer.Close()

	slowQueryDetector := observability.NewSlowQueryDetector(
		cfg.Search.SlowQuery.WarningThreshold,
		cfg.Search.SlowQuery.CriticalThreshold,
		logger,
		producer,
	)

	// Initialize search orchestrator
	orch := orchestrator.New(
		documentStore, redisCache,
		slowQueryDetector, producer, cfg.Search, logger,
	)

	// Content-change ingest pipeline
	processor := ingest.NewProcessor(redisCache, 5*time.Second, logger)
	defer processor.Stop()

	consumer := kafka.NewConsumer(cfg.Kafka, processor.HandleEvent, logger)
	if err := consumer.Start(ctx); err != nil {
		logger.Warn("kafka consumer start failed, cache invalidation will be unavailable", zap.Error(err))
	} else {
		defer consumer.Stop()
	}

	// Initialize HTTP server
	handler := api.NewHandler(orch, cfg.Search, logger)

	healthHandler := api.NewHealthHandler(logger)
	healthHandler.Register("redis", redisCache)
	healthHandler.Register("mongodb", documentStore)
	healthHandler.Register("kafka", consumer)

	router := api.NewRouter(handler, healthHandler, cfg.Server, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	// Graceful shutdown
	logger.Info("starting graceful shutdown", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new requests
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	// Cancel background operations
	cancel()

	// Shutdown tracing
	if tracerShutdown != nil {
		if err := tracerShutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}
