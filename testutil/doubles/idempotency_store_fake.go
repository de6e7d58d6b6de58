package doubles

import (
	"context"
	"sync"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// IdempotencyStoreFake is an in-memory pipeline.IdempotencyStore.
//
// By default it behaves like a plain get-then-save store, admitting the
// documented race where two concurrent first-time callers both observe
// "not found". With Atomic set, Save of a Processing record over an
// existing key reports pipeline.ErrIdempotencyKeyConflict, emulating a
// unique-constraint insert.
type IdempotencyStoreFake struct {
	Atomic bool

	GetErr    error
	SaveErr   error
	RemoveErr error

	mu          sync.Mutex
	records     map[string]pipeline.IdempotencyRecord
	getCalls    int
	saveCalls   int
	removeCalls int
}

// NewIdempotencyStoreFake creates an empty IdempotencyStoreFake.
func NewIdempotencyStoreFake() *IdempotencyStoreFake {
	return &IdempotencyStoreFake{
		records: make(map[string]pipeline.IdempotencyRecord),
	}
}

// Get implements the pipeline.IdempotencyStore interface.
func (f *IdempotencyStoreFake) Get(_ context.Context, key string) (pipeline.IdempotencyRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++

	if f.GetErr != nil {
		return pipeline.IdempotencyRecord{}, false, f.GetErr
	}

	record, found := f.records[key]

	return record, found, nil
}

// Save implements the pipeline.IdempotencyStore interface.
func (f *IdempotencyStoreFake) Save(_ context.Context, record pipeline.IdempotencyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveCalls++

	if f.SaveErr != nil {
		return f.SaveErr
	}

	if f.Atomic && record.Status == pipeline.IdempotencyProcessing {
		if _, exists := f.records[record.Key]; exists {
			return pipeline.ErrIdempotencyKeyConflict
		}
	}

	f.records[record.Key] = record

	return nil
}

// Remove implements the pipeline.IdempotencyStore interface.
func (f *IdempotencyStoreFake) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removeCalls++

	if f.RemoveErr != nil {
		return f.RemoveErr
	}

	delete(f.records, key)

	return nil
}

// Record returns the stored record for key, if any.
func (f *IdempotencyStoreFake) Record(key string) (pipeline.IdempotencyRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, found := f.records[key]

	return record, found
}

// Put seeds a record, bypassing call counting.
func (f *IdempotencyStoreFake) Put(record pipeline.IdempotencyRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records[record.Key] = record
}

// SaveCalls returns how many times Save was invoked.
func (f *IdempotencyStoreFake) SaveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.saveCalls
}

// RemoveCalls returns how many times Remove was invoked.
func (f *IdempotencyStoreFake) RemoveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.removeCalls
}
