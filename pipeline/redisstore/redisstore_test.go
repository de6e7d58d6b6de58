package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// fakeRedis implements the commands interface in-memory, mirroring the
// SET NX first-writer-wins semantics.
type fakeRedis struct {
	values map[string][]byte
	ttls   map[string]time.Duration

	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}

	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}

	return redis.NewStringResult(string(value), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}

	f.values[key] = value.([]byte)
	f.ttls[key] = expiration

	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}

	if _, taken := f.values[key]; taken {
		return redis.NewBoolResult(false, nil)
	}

	f.values[key] = value.([]byte)
	f.ttls[key] = expiration

	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var deleted int64

	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			delete(f.ttls, key)
			deleted++
		}
	}

	return redis.NewIntResult(deleted, nil)
}

func Test_CacheStore_SetAndGet_RoundTrip(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newCacheStore(fake)
	require.NoError(t, err)

	cached := pipeline.OkWith(map[string]any{"count": float64(3)})

	// act
	err = store.Set(context.Background(), "BooksInCirculation:acme:u1:all", cached, 30*time.Second)
	require.NoError(t, err)

	got, found, err := store.Get(context.Background(), "BooksInCirculation:acme:u1:all")

	// assert
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cached, got)
}

func Test_CacheStore_KeysCarryThePrefix(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newCacheStore(fake)
	require.NoError(t, err)

	// act
	err = store.Set(context.Background(), "some-key", pipeline.Ok(), time.Minute)

	// assert
	require.NoError(t, err)
	assert.Contains(t, fake.values, "pipeline:cache:some-key")
	assert.Equal(t, time.Minute, fake.ttls["pipeline:cache:some-key"])
}

func Test_CacheStore_CustomPrefix(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newCacheStore(fake, WithCacheKeyPrefix("lending:"))
	require.NoError(t, err)

	// act
	err = store.Set(context.Background(), "some-key", pipeline.Ok(), time.Minute)

	// assert
	require.NoError(t, err)
	assert.Contains(t, fake.values, "lending:some-key")
}

func Test_CacheStore_Miss_ReportsNotFound(t *testing.T) {
	// setup
	store, err := newCacheStore(newFakeRedis())
	require.NoError(t, err)

	// act
	_, found, err := store.Get(context.Background(), "absent")

	// assert
	assert.NoError(t, err)
	assert.False(t, found)
}

func Test_CacheStore_GetError_IsReturned(t *testing.T) {
	// setup
	fake := newFakeRedis()
	fake.getErr = errors.New("connection refused")
	store, err := newCacheStore(fake)
	require.NoError(t, err)

	// act
	_, _, err = store.Get(context.Background(), "some-key")

	// assert
	assert.Error(t, err)
}

func Test_IdempotencyStore_Claim_FreeKey_Succeeds(t *testing.T) {
	// setup
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := newFakeRedis()
	store, err := newIdempotencyStore(fake, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	record := pipeline.IdempotencyRecord{
		Key:       "key-1",
		Status:    pipeline.IdempotencyProcessing,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}

	// act
	err = store.Save(context.Background(), record)

	// assert
	require.NoError(t, err)
	assert.Contains(t, fake.values, "pipeline:idempotency:key-1")
	assert.Equal(t, 24*time.Hour, fake.ttls["pipeline:idempotency:key-1"],
		"absolute expiry should map onto the Redis TTL")
}

func Test_IdempotencyStore_Claim_TakenKey_ReportsConflict(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newIdempotencyStore(fake)
	require.NoError(t, err)

	record := pipeline.IdempotencyRecord{Key: "key-1", Status: pipeline.IdempotencyProcessing}
	require.NoError(t, store.Save(context.Background(), record))

	// act: the second claim races against an existing key
	err = store.Save(context.Background(), record)

	// assert
	assert.ErrorIs(t, err, pipeline.ErrIdempotencyKeyConflict)
}

func Test_IdempotencyStore_CompletedOverwrite_ReplacesTheClaim(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newIdempotencyStore(fake)
	require.NoError(t, err)

	claim := pipeline.IdempotencyRecord{Key: "key-1", Status: pipeline.IdempotencyProcessing}
	require.NoError(t, store.Save(context.Background(), claim))

	completed := pipeline.IdempotencyRecord{
		Key:      "key-1",
		Status:   pipeline.IdempotencyCompleted,
		Response: []byte(`{"success":true}`),
	}

	// act
	err = store.Save(context.Background(), completed)

	// assert
	require.NoError(t, err)

	got, found, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, pipeline.IdempotencyCompleted, got.Status)
	assert.JSONEq(t, `{"success":true}`, string(got.Response))
}

func Test_IdempotencyStore_Remove_DeletesTheRecord(t *testing.T) {
	// setup
	fake := newFakeRedis()
	store, err := newIdempotencyStore(fake)
	require.NoError(t, err)

	record := pipeline.IdempotencyRecord{Key: "key-1", Status: pipeline.IdempotencyProcessing}
	require.NoError(t, store.Save(context.Background(), record))

	// act
	err = store.Remove(context.Background(), "key-1")

	// assert
	require.NoError(t, err)

	_, found, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_IdempotencyStore_TTLMapping(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fake := newFakeRedis()
	store, err := newIdempotencyStore(fake, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	// no expiry requested: the key lives until removed
	noExpiry := pipeline.IdempotencyRecord{Key: "k1", Status: pipeline.IdempotencyProcessing}
	require.NoError(t, store.Save(context.Background(), noExpiry))
	assert.Equal(t, time.Duration(0), fake.ttls["pipeline:idempotency:k1"])

	// already expired: shortest positive TTL, the key vanishes immediately
	expired := pipeline.IdempotencyRecord{
		Key:       "k2",
		Status:    pipeline.IdempotencyProcessing,
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), expired))
	assert.Equal(t, time.Millisecond, fake.ttls["pipeline:idempotency:k2"])
}

func Test_Constructors_RejectNilClients(t *testing.T) {
	_, err := NewCacheStore(nil)
	assert.ErrorIs(t, err, ErrNilClient)

	_, err = NewIdempotencyStore(nil)
	assert.ErrorIs(t, err, ErrNilClient)
}

func Test_Options_RejectEmptyPrefixes(t *testing.T) {
	_, err := newCacheStore(newFakeRedis(), WithCacheKeyPrefix(""))
	assert.ErrorIs(t, err, ErrEmptyKeyPrefix)

	_, err = newIdempotencyStore(newFakeRedis(), WithIdempotencyKeyPrefix(""))
	assert.ErrorIs(t, err, ErrEmptyKeyPrefix)
}
