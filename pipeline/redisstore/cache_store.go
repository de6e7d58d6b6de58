package redisstore

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// CacheStore implements pipeline.CacheStore on Redis. Cached Results are
// serialized as JSON; the cache duration maps directly onto the Redis
// key TTL.
type CacheStore struct {
	client commands
	prefix string
}

// NewCacheStore creates a CacheStore using the given Redis client.
func NewCacheStore(client redis.UniversalClient, options ...Option) (*CacheStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return newCacheStore(client, options...)
}

func newCacheStore(client commands, options ...Option) (*CacheStore, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}

	return &CacheStore{
		client: client,
		prefix: cfg.cacheKeyPrefix,
	}, nil
}

// Get implements the pipeline.CacheStore interface.
func (s *CacheStore) Get(ctx context.Context, key string) (pipeline.Result, bool, error) {
	var empty pipeline.Result

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return empty, false, nil
	}
	if err != nil {
		return empty, false, err
	}

	var result pipeline.Result
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(raw, &result); unmarshalErr != nil {
		return empty, false, unmarshalErr
	}

	return result, true, nil
}

// Set implements the pipeline.CacheStore interface.
func (s *CacheStore) Set(ctx context.Context, key string, value pipeline.Result, ttl time.Duration) error {
	raw, err := jsoniter.ConfigFastest.Marshal(value)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

// Ensure CacheStore implements pipeline.CacheStore.
var _ pipeline.CacheStore = (*CacheStore)(nil)
