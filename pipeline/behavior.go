package pipeline

import "context"

// Canonical behavior orders. Lower order = outer layer = runs first on
// the way in and last on the way out. Custom behaviors added with
// WithBehavior pick their place in the chain through these values.
const (
	OrderExceptionHandling     = 0
	OrderPerformanceMonitoring = 50
	OrderValidation            = 100
	OrderAuthorization         = 200
	OrderIdempotency           = 300
	OrderCaching               = 350
	OrderTransaction           = 400
	OrderAuditLog              = 550
	OrderLogging               = 600
)

// Next invokes the remainder of the behavior chain, eventually reaching
// the request's Handler.
type Next func(ctx context.Context) (Result, error)

// Behavior is one stage of the middleware chain wrapping a Handler. A
// behavior may short-circuit (return a Result without calling next),
// transform the Result returned by next, or pass through unchanged.
//
// Behaviors hold no per-call state of their own; one Behavior instance
// serves all concurrent calls of its pipeline.
type Behavior interface {
	Order() int
	Handle(ctx context.Context, request any, next Next) (Result, error)
}
