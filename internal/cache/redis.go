package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kalasangam/search-service/internal/config"
	"github.com/kalasangam/search-service/internal/models"
	"github.com/kalasangam/search-service/internal/observability"
)

// RedisCache fronts MongoDB for hot search traffic. Alongside the regular
// entries it writes long-lived stale copies that serve as a fallback when
// the primary store is down.
type RedisCache struct {
	client redis.UniversalClient
	ttl    config.CacheTTLConfig
	logger *zap.Logger
}

func NewRedisCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisCache, error) {
	var client redis.UniversalClient

	if len(cfg.Addresses) > 1 {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Addresses,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addresses[0],
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("redis cache connected", zap.Strings("addresses", cfg.Addresses))

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

func (rc *RedisCache) GetSearchResults(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	return rc.getResponse(ctx, searchKey(req))
}

func (rc *RedisCache) SetSearchResults(ctx context.Context, req *models.SearchRequest, resp *models.SearchResponse) error {
	if err := rc.setResponse(ctx, searchKey(req), resp, rc.ttl.SearchResults); err != nil {
		return err
	}
	return rc.setResponse(ctx, staleKey(req), resp, rc.ttl.StaleFallback)
}

// GetStaleResults reads the long-TTL copy of a response. Used only when the
// primary store is unavailable.
func (rc *RedisCache) GetStaleResults(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	return rc.getResponse(ctx, staleKey(req))
}

func (rc *RedisCache) InvalidatePattern(ctx context.Context, patterns []string) error {
	for _, pattern := range patterns {
		iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			rc.logger.Warn("cache scan error", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if len(keys) > 0 {
			if err := rc.client.Del(ctx, keys...).Err(); err != nil {
				rc.logger.Warn("cache delete error", zap.Strings("keys", keys), zap.Error(err))
			}
		}
	}
	return nil
}

func (rc *RedisCache) GetSuggestions(ctx context.Context, partial string) ([]string, error) {
	val, err := rc.client.Get(ctx, suggestionKey(partial)).Result()
	if err == redis.Nil {
		observability.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get suggestions: %w", err)
	}
	observability.CacheHits.Inc()
	var results []string
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, fmt.Errorf("cache unmarshal suggestions: %w", err)
	}
	return results, nil
}

func (rc *RedisCache) SetSuggestions(ctx context.Context, partial string, results []string) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("cache marshal suggestions: %w", err)
	}
	return rc.client.Set(ctx, suggestionKey(partial), data, rc.ttl.Suggestions).Err()
}

func (rc *RedisCache) GetTrending(ctx context.Context) ([]string, error) {
	val, err := rc.client.Get(ctx, trendingKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get trending: %w", err)
	}
	var results []string
	if err := json.Unmarshal([]byte(val), &results); err != nil {
		return nil, fmt.Errorf("cache unmarshal trending: %w", err)
	}
	return results, nil
}

func (rc *RedisCache) SetTrending(ctx context.Context, queries []string) error {
	data, err := json.Marshal(queries)
	if err != nil {
		return fmt.Errorf("cache marshal trending: %w", err)
	}
	return rc.client.Set(ctx, trendingKey, data, rc.ttl.Trending).Err()
}

func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func (rc *RedisCache) getResponse(ctx context.Context, key string) (*models.SearchResponse, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	observability.CacheHits.Inc()
	var resp models.SearchResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("cache unmarshal: %w", err)
	}
	return &resp, nil
}

func (rc *RedisCache) setResponse(ctx context.Context, key string, resp *models.SearchResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return rc.client.Set(ctx, key, data, ttl).Err()
}

const trendingKey = "trend:queries"

// Regular entries live under sr:q: and stale copies under sr:stale: so that
// content-change invalidation can sweep the former without touching the
// fallback copies.
func searchKey(req *models.SearchRequest) string {
	return fmt.Sprintf("sr:q:%s", hashString(requestKey(req)))
}

func staleKey(req *models.SearchRequest) string {
	return fmt.Sprintf("sr:stale:%s", hashString(requestKey(req)))
}

func suggestionKey(partial string) string {
	return fmt.Sprintf("sg:%s", hashString(partial))
}

func requestKey(req *models.SearchRequest) string {
	return fmt.Sprintf("%s:%s:%d:%d", req.Query, req.Type, req.Page, req.Limit)
}

func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h[:8])
}
