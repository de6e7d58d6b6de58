package redisstore

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// IdempotencyStore implements pipeline.IdempotencyStore on Redis.
//
// Claiming a key (saving a Processing record) uses SET NX, so when two
// callers race on the same key exactly one claim succeeds and the other
// receives pipeline.ErrIdempotencyKeyConflict. The record's ExpiresAt
// becomes the Redis key TTL; Redis handles expiry, Get never sees an
// expired record.
type IdempotencyStore struct {
	client commands
	prefix string
	clock  func() time.Time
}

// NewIdempotencyStore creates an IdempotencyStore using the given Redis client.
func NewIdempotencyStore(client redis.UniversalClient, options ...Option) (*IdempotencyStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return newIdempotencyStore(client, options...)
}

func newIdempotencyStore(client commands, options ...Option) (*IdempotencyStore, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}

	return &IdempotencyStore{
		client: client,
		prefix: cfg.idempotencyKeyPrefix,
		clock:  cfg.clock,
	}, nil
}

// Get implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (pipeline.IdempotencyRecord, bool, error) {
	var empty pipeline.IdempotencyRecord

	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return empty, false, nil
	}
	if err != nil {
		return empty, false, err
	}

	var record pipeline.IdempotencyRecord
	if unmarshalErr := jsoniter.ConfigFastest.Unmarshal(raw, &record); unmarshalErr != nil {
		return empty, false, unmarshalErr
	}

	return record, true, nil
}

// Save implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Save(ctx context.Context, record pipeline.IdempotencyRecord) error {
	raw, err := jsoniter.ConfigFastest.Marshal(record)
	if err != nil {
		return err
	}

	ttl := s.recordTTL(record)

	if record.Status == pipeline.IdempotencyProcessing {
		claimed, claimErr := s.client.SetNX(ctx, s.prefix+record.Key, raw, ttl).Result()
		if claimErr != nil {
			return claimErr
		}

		if !claimed {
			return pipeline.ErrIdempotencyKeyConflict
		}

		return nil
	}

	return s.client.Set(ctx, s.prefix+record.Key, raw, ttl).Err()
}

// Remove implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// recordTTL maps the record's absolute expiry onto a relative Redis TTL.
// A record without expiry, or one that already expired, gets the
// shortest positive TTL so it vanishes immediately instead of living
// forever.
func (s *IdempotencyStore) recordTTL(record pipeline.IdempotencyRecord) time.Duration {
	if record.ExpiresAt.IsZero() {
		return 0 // no expiry requested, keep the key until removed
	}

	ttl := record.ExpiresAt.Sub(s.clock())
	if ttl <= 0 {
		return time.Millisecond
	}

	return ttl
}

// Ensure IdempotencyStore implements pipeline.IdempotencyStore.
var _ pipeline.IdempotencyStore = (*IdempotencyStore)(nil)
