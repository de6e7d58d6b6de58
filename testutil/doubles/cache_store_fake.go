package doubles

import (
	"context"
	"sync"
	"time"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// CacheStoreFake is an in-memory pipeline.CacheStore. Entries never
// expire on their own; the last Set's TTL is recorded for assertions.
type CacheStoreFake struct {
	GetErr error
	SetErr error

	mu       sync.Mutex
	entries  map[string]pipeline.Result
	ttls     map[string]time.Duration
	getCalls int
	setCalls int
}

// NewCacheStoreFake creates an empty CacheStoreFake.
func NewCacheStoreFake() *CacheStoreFake {
	return &CacheStoreFake{
		entries: make(map[string]pipeline.Result),
		ttls:    make(map[string]time.Duration),
	}
}

// Get implements the pipeline.CacheStore interface.
func (f *CacheStoreFake) Get(_ context.Context, key string) (pipeline.Result, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++

	if f.GetErr != nil {
		return pipeline.Result{}, false, f.GetErr
	}

	result, found := f.entries[key]

	return result, found, nil
}

// Set implements the pipeline.CacheStore interface.
func (f *CacheStoreFake) Set(_ context.Context, key string, value pipeline.Result, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setCalls++

	if f.SetErr != nil {
		return f.SetErr
	}

	f.entries[key] = value
	f.ttls[key] = ttl

	return nil
}

// Keys returns the stored composite keys.
func (f *CacheStoreFake) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}

	return keys
}

// TTLOf returns the TTL recorded for key by the last Set.
func (f *CacheStoreFake) TTLOf(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ttl, found := f.ttls[key]

	return ttl, found
}

// SetCalls returns how many times Set was invoked.
func (f *CacheStoreFake) SetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.setCalls
}
