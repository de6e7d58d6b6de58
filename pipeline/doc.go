// Package pipeline provides the request processing pipeline for a
// CQRS-style application core: an ordered chain of behaviors wrapping
// every command and query execution.
//
// A Pipeline is built once per request type and composes the enabled
// behaviors around the request's Handler, outermost first:
//   - Exception handling
//   - Performance monitoring
//   - Validation
//   - Authorization
//   - Idempotency
//   - Caching (queries only)
//   - Transaction (commands only)
//   - Audit logging
//   - Logging
//
// Every handler and behavior honors the same contract: a business
// failure is a failure Result, a fault is a non-nil error, and
// cancellation is the context's error, never converted into a Result.
//
// Requests declare optional capabilities by implementing the
// HasIdempotencyKey, Cacheable, Auditable, and RequiresAuthorization
// interfaces. Capabilities are detected once when the pipeline is built;
// a behavior whose capability is absent stays in the chain as a
// pass-through so composition order is stable across request types.
//
// Common usage pattern:
//
//	p, err := pipeline.New[RemoveBookCopy](
//		handler,
//		pipeline.WithValidators(removeBookCopyValidator),
//		pipeline.WithIdempotencyStore(store),
//		pipeline.WithTransactionProvider(txProvider),
//		pipeline.WithContextualLogger(logger),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	result, err := p.Execute(ctx, RemoveBookCopy{BookID: id, Key: "k1"})
package pipeline
