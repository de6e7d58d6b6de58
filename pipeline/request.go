package pipeline

import "time"

// Command represents the contract for all command types processed by a
// Pipeline. Each command encapsulates the intent and parameters needed
// to execute a specific state-changing operation. The CommandType method
// enables polymorphic handling and observability instrumentation.
//
// Commands are immutable values: they are constructed once per call and
// discarded after the call completes.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types processed by a
// Pipeline. Queries never change state; the caching behavior applies
// only to them.
type Query interface {
	QueryType() string
}

// HasIdempotencyKey marks a request as idempotent. A request returning
// an empty key for a given call is treated as not idempotent for that
// call.
type HasIdempotencyKey interface {
	IdempotencyKey() string
}

// Cacheable marks a query as cacheable. CacheKey supplies the
// request-specific key segment; CacheDuration supplies the entry's
// expiration. A zero or negative duration disables caching for the call.
type Cacheable interface {
	CacheKey() string
	CacheDuration() time.Duration
}

// AuditDescriptor describes what an auditable request does, for the
// audit log entry written after the wrapped call completes.
type AuditDescriptor struct {
	Action     string
	EntityType string
	EntityID   string
	ExtraData  map[string]any
}

// Auditable marks a request as auditable.
type Auditable interface {
	AuditDescriptor() AuditDescriptor
}

// AuthorizationRequirement is one declarative authorization rule on a
// request type. Roles is a comma-separated role list with OR semantics:
// the caller must hold at least one of the listed roles. Policy names a
// policy evaluated by the AuthorizationProvider. When both are set, both
// must pass. All requirements declared on a request must pass (AND
// semantics across requirements).
type AuthorizationRequirement struct {
	Roles  string
	Policy string
}

// RequiresAuthorization marks a request as requiring authorization.
type RequiresAuthorization interface {
	AuthorizationRequirements() []AuthorizationRequirement
}
