package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
	"github.com/kalasangam/search-service/internal/resilience"
)

// Store wraps the MongoDB client serving artwork, event, and artist reads.
// Every query goes through the circuit breaker and retry policy.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	cb       *gobreaker.CircuitBreaker
	cfg      config.MongoDBConfig
	retryCfg resilience.RetryConfig
	logger   *zap.Logger
}

func New(ctx context.Context, cfg config.MongoDBConfig, searchCfg config.SearchConfig, logger *zap.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	cb := resilience.NewCircuitBreaker("mongodb-primary", searchCfg.CircuitBreaker, logger)

	logger.Info("mongodb store connected", zap.String("database", cfg.Database))

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		cb:     cb,
		cfg:    cfg,
		retryCfg: resilience.RetryConfig{
			MaxAttempts: searchCfg.Retry.MaxAttempts,
			InitialWait: searchCfg.Retry.InitialWait,
			MaxWait:     searchCfg.Retry.MaxWait,
			Multiplier:  searchCfg.Retry.Multiplier,
		},
		logger: logger,
	}, nil
}

// FindArtworks fetches candidate artworks for the given filter, newest first.
func (s *Store) FindArtworks(ctx context.Context, filter bson.M, limit, skip int) ([]models.Artwork, error) {
	return findDocuments[models.Artwork](ctx, s, s.cfg.ArtworksColl, filter, pageOptions(limit, skip))
}

// FindEvents fetches candidate events for the given filter, newest first.
func (s *Store) FindEvents(ctx context.Context, filter bson.M, limit, skip int) ([]models.Event, error) {
	return findDocuments[models.Event](ctx, s, s.cfg.EventsColl, filter, pageOptions(limit, skip))
}

// FindArtists matches active artist profiles against the query text. Artist
// search has no analyzer-driven filter; it matches name, artform, and bio
// directly, the same way the platform's profile search does.
func (s *Store) FindArtists(ctx context.Context, queryText string, limit, skip int) ([]models.Artist, error) {
	return findDocuments[models.Artist](ctx, s, s.cfg.ArtistsColl, artistFilter(queryText), pageOptions(limit, skip))
}

// FindArtworkTitles returns active artwork titles containing the partial
// input, for merging into autocomplete suggestions.
func (s *Store) FindArtworkTitles(ctx context.Context, partial string, limit int) ([]string, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.M{"title": 1})

	artworks, err := findDocuments[models.Artwork](ctx, s, s.cfg.ArtworksColl, titleFilter(partial), opts)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(artworks))
	for _, aw := range artworks {
		if aw.Title != "" {
			titles = append(titles, aw.Title)
		}
	}
	return titles, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func pageOptions(limit, skip int) *options.FindOptions {
	return options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(skip)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// findDocuments executes one Find through the breaker/retry stack. It is a
// package function because methods cannot carry type parameters.
func findDocuments[T any](ctx context.Context, s *Store, collection string, filter bson.M, opts *options.FindOptions) ([]T, error) {
	ctx, span := observability.StartSpan(ctx, "mongo.find",
		attribute.String("mongo.collection", collection),
	)
	defer span.End()

	start := time.Now()
	result, err := s.cb.Execute(func() (any, error) {
		var docs []T
		retryErr := resilience.Retry(ctx, s.retryCfg, func() error {
			findCtx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
			defer cancel()

			cursor, findErr := s.db.Collection(collection).Find(findCtx, filter, opts)
			if findErr != nil {
				return fmt.Errorf("executing find: %w", findErr)
			}
			docs = nil
			if decodeErr := cursor.All(findCtx, &docs); decodeErr != nil {
				return fmt.Errorf("decoding documents: %w", decodeErr)
			}
			return nil
		})
		return docs, retryErr
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.MongoQueryDuration.WithLabelValues(collection, status).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("mongo find (collection=%s): %w", collection, err)
	}

	docs, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("mongo find (collection=%s): unexpected result from circuit breaker", collection)
	}
	return docs, nil
}

func artistFilter(queryText string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(queryText), Options: "i"}
	return bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"name": re},
			{"artform": re},
			{"bio": re},
		},
	}
}

func titleFilter(partial string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(partial), Options: "i"}
	return bson.M{
		"is_active": true,
		"is_public": true,
		"title":     re,
	}
}
