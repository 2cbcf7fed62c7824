package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	MongoDB       MongoDBConfig       `yaml:"mongodb"`
	Redis         RedisConfig         `yaml:"redis"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Search        SearchConfig        `yaml:"search"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxConcurrent   int           `yaml:"max_concurrent"`
}

type MongoDBConfig struct {
	URI             string        `yaml:"uri"`
	Database        string        `yaml:"database"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	ArtworksColl    string        `yaml:"artworks_collection"`
	EventsColl      string        `yaml:"events_collection"`
	ArtistsColl     string        `yaml:"artists_collection"`
}

type RedisConfig struct {
	Addresses    []string       `yaml:"addresses"`
	Password     string         `yaml:"password"`
	DB           int            `yaml:"db"`
	PoolSize     int            `yaml:"pool_size"`
	MinIdleConns int            `yaml:"min_idle_conns"`
	DialTimeout  time.Duration  `yaml:"dial_timeout"`
	ReadTimeout  time.Duration  `yaml:"read_timeout"`
	WriteTimeout time.Duration  `yaml:"write_timeout"`
	TTL          CacheTTLConfig `yaml:"ttl"`
}

type CacheTTLConfig struct {
	Suggestions   time.Duration `yaml:"suggestions"`
	Trending      time.Duration `yaml:"trending"`
	SearchResults time.Duration `yaml:"search_results"`
	StaleFallback time.Duration `yaml:"stale_fallback"`
}

type KafkaConfig struct {
	Brokers        []string      `yaml:"brokers"`
	TopicChanges   string        `yaml:"topic_changes"`
	TopicAnalytics string        `yaml:"topic_analytics"`
	TopicDLQ       string        `yaml:"topic_dlq"`
	ConsumerGroup  string        `yaml:"consumer_group"`
	BatchSize      int           `yaml:"batch_size"`
	BatchTimeout   time.Duration `yaml:"batch_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
}

type SearchConfig struct {
	DefaultLimit     int                  `yaml:"default_limit"`
	MaxLimit         int                  `yaml:"max_limit"`
	QueryTimeout     time.Duration        `yaml:"query_timeout"`
	MinSuggestionLen int                  `yaml:"min_suggestion_len"`
	MaxSuggestions   int                  `yaml:"max_suggestions"`
	CircuitBreaker   CircuitBreakerConfig `yaml:"circuit_breaker"`
	Retry            RetryConfig          `yaml:"retry"`
	SlowQuery        SlowQueryConfig      `yaml:"slow_query"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

type SlowQueryConfig struct {
	WarningThreshold  time.Duration `yaml:"warning_threshold"`
	CriticalThreshold time.Duration `yaml:"critical_threshold"`
}

type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	ServiceName string `yaml:"service_name"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxConcurrent:   1000,
		},
		MongoDB: MongoDBConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "kalasangam",
			ConnectTimeout: 5 * time.Second,
			QueryTimeout:   2 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    5,
			ArtworksColl:   "artworks",
			EventsColl:     "events",
			ArtistsColl:    "users",
		},
		Redis: RedisConfig{
			Addresses:    []string{"localhost:6379"},
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  1 * time.Second,
			WriteTimeout: 1 * time.Second,
			TTL: CacheTTLConfig{
				Suggestions:   10 * time.Minute,
				Trending:      60 * time.Second,
				SearchResults: 2 * time.Minute,
				StaleFallback: 1 * time.Hour,
			},
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			TopicChanges:   "content.changes",
			TopicAnalytics: "search.analytics",
			TopicDLQ:       "content.changes.dlq",
			ConsumerGroup:  "search-service",
			BatchSize:      500,
			BatchTimeout:   1 * time.Second,
			MaxRetries:     3,
		},
		Search: SearchConfig{
			DefaultLimit:     20,
			MaxLimit:         100,
			QueryTimeout:     500 * time.Millisecond,
			MinSuggestionLen: 2,
			MaxSuggestions:   10,
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests:      100,
				Interval:         30 * time.Second,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
			Retry: RetryConfig{
				MaxAttempts: 2,
				InitialWait: 50 * time.Millisecond,
				MaxWait:     500 * time.Millisecond,
				Multiplier:  2.0,
			},
			SlowQuery: SlowQueryConfig{
				WarningThreshold:  200 * time.Millisecond,
				CriticalThreshold: 500 * time.Millisecond,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			ServiceName: "art-search",
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxConcurrent <= 0 {
		return fmt.Errorf("max concurrent requests must be positive")
	}
	if c.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri required")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("mongodb database required")
	}
	if len(c.Redis.Addresses) == 0 {
		return fmt.Errorf("at least one redis address required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("at least one kafka broker required")
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive")
	}
	if c.Search.MaxLimit <= 0 || c.Search.MaxLimit > 1000 {
		return fmt.Errorf("max limit must be between 1 and 1000")
	}
	if c.Search.MinSuggestionLen < 1 {
		return fmt.Errorf("min suggestion length must be at least 1")
	}
	return nil
}
