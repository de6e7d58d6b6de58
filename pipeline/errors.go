package pipeline

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNilHandler is returned when a Pipeline is built without a handler.
	ErrNilHandler = errors.New("nil handler supplied")

	// ErrNotCommandOrQuery is returned when the request type implements
	// neither Command nor Query.
	ErrNotCommandOrQuery = errors.New("request type implements neither Command nor Query")

	// ErrIdempotencyKeyConflict is returned by idempotency stores with
	// atomic claim semantics when a record for the key already exists.
	// The idempotency behavior translates it into a conflict failure
	// Result instead of a fault.
	ErrIdempotencyKeyConflict = errors.New("idempotency record for this key already exists")
)

// GenericFailureMessage is the non-leaking message carried by the
// failure Result that the exception handling behavior produces for
// unrecognized faults.
const GenericFailureMessage = "an unexpected error occurred while processing the request"

// DomainError is a recognized business-rule fault. The exception
// handling behavior converts it into a failure Result carrying its own
// message; any other fault is converted into a generic, non-leaking one.
type DomainError struct {
	message string
}

// NewDomainError is a factory method for DomainError.
func NewDomainError(format string, args ...any) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError builds the conventional "not found" domain error for
// an entity type and identifier.
func NewNotFoundError(entityType string, id any) *DomainError {
	return &DomainError{message: fmt.Sprintf("%s not found: %v", entityType, id)}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.message
}

// IsCancellation reports whether err represents cooperative cancellation
// (context canceled or deadline exceeded). Cancellation is always
// propagated as an error and never converted into a failure Result.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
