package pipeline

import (
	jsoniter "github.com/json-iterator/go"
)

// Result is the uniform success/failure value returned by every handler
// and every behavior.
//
// Invariant: Error is set if and only if Success is false; Value is
// meaningful only when Success is true. A Result is immutable once
// constructed.
//
// While its properties are exported (for serialization), it should only
// be constructed with the supplied factory methods:
//   - Ok
//   - OkWith
//   - Fail
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// Ok is a factory method for a successful Result without a payload.
func Ok() Result {
	return Result{Success: true}
}

// OkWith is a factory method for a successful Result carrying a payload.
func OkWith(value any) Result {
	return Result{Success: true, Value: value}
}

// Fail is a factory method for a failure Result carrying a
// human-readable message.
func Fail(message string) Result {
	return Result{Success: false, Error: message}
}

// ValueAs extracts the Result's payload as type T.
//
// It first tries a plain type assertion. If the payload came back from a
// serialized form (for example an idempotency replay), it is re-decoded
// into T instead. Returns the zero value and false for failure Results,
// missing payloads, and payloads that cannot be represented as T.
func ValueAs[T any](r Result) (T, bool) {
	var zero T

	if !r.Success || r.Value == nil {
		return zero, false
	}

	if v, ok := r.Value.(T); ok {
		return v, true
	}

	raw, err := jsoniter.ConfigFastest.Marshal(r.Value)
	if err != nil {
		return zero, false
	}

	var decoded T
	if err := jsoniter.ConfigFastest.Unmarshal(raw, &decoded); err != nil {
		return zero, false
	}

	return decoded, true
}
