package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdempotencyStatus is the lifecycle state of an IdempotencyRecord.
type IdempotencyStatus string

const (
	// IdempotencyProcessing marks a record whose request is in flight.
	IdempotencyProcessing IdempotencyStatus = "processing"

	// IdempotencyCompleted marks a record holding the serialized
	// response of a completed request.
	IdempotencyCompleted IdempotencyStatus = "completed"

	// IdempotencyFailed is reserved for stores that mark failed attempts
	// instead of deleting them. The idempotency behavior deletes records
	// on fault and treats a Failed record like an absent one, allowing
	// the request to retry.
	IdempotencyFailed IdempotencyStatus = "failed"
)

// IdempotencyRecord is the deduplication record for one idempotency key.
// It is owned exclusively by the IdempotencyStore; the pipeline only
// reads, writes, and deletes it by key.
type IdempotencyRecord struct {
	Key          string
	RequestType  string
	ResponseType string
	Response     []byte
	Status       IdempotencyStatus
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IdempotencyStore persists IdempotencyRecords.
//
// The "at most one execution per key" guarantee is only as strong as the
// store's read-then-write atomicity: a store backed by a plain get/save
// pair admits a race where two concurrent first-time callers both
// observe "not found" and both execute. Stores with atomic claim
// semantics (unique-constraint insert, SET NX) close that race by
// returning ErrIdempotencyKeyConflict from Save when the key is taken.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, record IdempotencyRecord) error
	Remove(ctx context.Context, key string) error
}

// CacheStore persists Results for cacheable queries under composite keys
// built by the caching behavior.
type CacheStore interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Set(ctx context.Context, key string, value Result, ttl time.Duration) error
}

// TransactionProvider begins the unit of work wrapping a command.
type TransactionProvider interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction is one unit of work. Exactly one of Commit or Rollback is
// invoked per pipeline call; Persist flushes outstanding changes before
// a commit.
type Transaction interface {
	Persist(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ContextTransaction is an optional interface for Transactions that
// expose themselves to downstream handlers through the call's context.
// When a Transaction implements it, the transaction behavior replaces
// the context passed to inner stages and the handler with the one
// returned by InContext, so repositories can join the unit of work.
type ContextTransaction interface {
	Transaction
	InContext(ctx context.Context) context.Context
}

// AuditLogEntry records the outcome of one auditable request. Entries
// are write-once and owned by the AuditSink.
type AuditLogEntry struct {
	ID           uuid.UUID
	Action       string
	EntityType   string
	EntityID     string
	UserID       string
	UserName     string
	TenantID     string
	OccurredAt   time.Time
	Success      bool
	ErrorMessage string
	Request      []byte
	ExtraData    []byte
}

// AuditSink persists AuditLogEntries.
type AuditSink interface {
	Save(ctx context.Context, entry AuditLogEntry) error
}
