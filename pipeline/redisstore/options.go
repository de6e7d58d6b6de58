package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNilClient occurs when a constructor receives a nil Redis client.
	ErrNilClient = errors.New("redis client must not be nil")

	// ErrEmptyKeyPrefix occurs when a key prefix option receives an
	// empty string.
	ErrEmptyKeyPrefix = errors.New("key prefix must not be empty")
)

const (
	defaultCacheKeyPrefix       = "pipeline:cache:"
	defaultIdempotencyKeyPrefix = "pipeline:idempotency:"
)

// commands is the slice of the go-redis API the stores use. *redis.Client,
// *redis.ClusterClient, and redis.UniversalClient all satisfy it.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// config carries the settings shared by the package's constructors.
type config struct {
	cacheKeyPrefix       string
	idempotencyKeyPrefix string
	clock                func() time.Time
}

func defaultConfig() config {
	return config{
		cacheKeyPrefix:       defaultCacheKeyPrefix,
		idempotencyKeyPrefix: defaultIdempotencyKeyPrefix,
		clock:                time.Now,
	}
}

// Option defines a functional option for configuring the Redis stores.
type Option func(*config) error

// WithCacheKeyPrefix sets the Redis key prefix for cached results.
func WithCacheKeyPrefix(prefix string) Option {
	return func(c *config) error {
		if prefix == "" {
			return ErrEmptyKeyPrefix
		}

		c.cacheKeyPrefix = prefix

		return nil
	}
}

// WithIdempotencyKeyPrefix sets the Redis key prefix for idempotency records.
func WithIdempotencyKeyPrefix(prefix string) Option {
	return func(c *config) error {
		if prefix == "" {
			return ErrEmptyKeyPrefix
		}

		c.idempotencyKeyPrefix = prefix

		return nil
	}
}

// WithClock sets the time source used for TTL computation.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		c.clock = clock
		return nil
	}
}

func buildConfig(options ...Option) (config, error) {
	cfg := defaultConfig()

	for _, option := range options {
		if err := option(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}
