package pipeline

import (
	"context"
	"sort"
)

// Handler defines the contract for the terminal business-logic unit of
// one request type. A handler reports a business failure as a failure
// Result and a fault as a non-nil error; the two are never conflated.
type Handler[R any] interface {
	Handle(ctx context.Context, request R) (Result, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc[R any] func(ctx context.Context, request R) (Result, error)

// Handle implements the Handler interface.
func (f HandlerFunc[R]) Handle(ctx context.Context, request R) (Result, error) {
	return f(ctx, request)
}

// capabilities is the result of the one-time capability detection
// performed when a pipeline is built. Behaviors consult it instead of
// re-inspecting the request type per call.
type capabilities struct {
	requestType string
	isCommand   bool
	idempotent  bool
	cacheable   bool
	auditable   bool
	authorized  bool
}

// invocation is the composed chain for one request type.
type invocation func(ctx context.Context, request any) (Result, error)

// Pipeline is the ordered composition of behaviors terminating in a
// Handler, built once per request type and invoked per call. A Pipeline
// holds no per-call mutable state; any number of calls may execute
// concurrently.
type Pipeline[R any] struct {
	requestType string
	chain       invocation
}

// New builds a Pipeline for request type R around the given handler.
//
// R must implement Command or Query. Request capabilities (idempotency,
// caching, auditing, authorization) are detected here, once, through
// interface assertions on the type; per-call values such as the actual
// idempotency key are read from the request instance during execution.
//
// Behaviors disabled through Without... options are removed from the
// composition entirely. A behavior whose capability predicate is false
// for R stays in the chain as a pass-through, keeping composition order
// stable and independent of per-type configuration.
func New[R any](handler Handler[R], opts ...Option) (*Pipeline[R], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}

	caps, err := detectCapabilities[R]()
	if err != nil {
		return nil, err
	}

	behaviors := assembleBehaviors(s, caps)

	chain := terminal(handler)
	for i := len(behaviors) - 1; i >= 0; i-- {
		chain = wrap(behaviors[i], chain)
	}

	return &Pipeline[R]{
		requestType: caps.requestType,
		chain:       chain,
	}, nil
}

// Execute submits one request to the pipeline. It returns when every
// stage down to the handler and back has completed, failed, or faulted.
func (p *Pipeline[R]) Execute(ctx context.Context, request R) (Result, error) {
	return p.chain(ctx, request)
}

// RequestType returns the name of the request type this pipeline serves.
func (p *Pipeline[R]) RequestType() string {
	return p.requestType
}

func detectCapabilities[R any]() (capabilities, error) {
	var zero R
	caps := capabilities{}

	switch r := any(zero).(type) {
	case Command:
		caps.requestType = r.CommandType()
		caps.isCommand = true
	case Query:
		caps.requestType = r.QueryType()
	default:
		return capabilities{}, ErrNotCommandOrQuery
	}

	_, caps.idempotent = any(zero).(HasIdempotencyKey)
	_, caps.cacheable = any(zero).(Cacheable)
	_, caps.auditable = any(zero).(Auditable)
	_, caps.authorized = any(zero).(RequiresAuthorization)

	return caps, nil
}

func assembleBehaviors(s settings, caps capabilities) []Behavior {
	behaviors := make([]Behavior, 0, 9+len(s.extraBehaviors))
	log := s.loggers()

	if s.exceptionHandlingEnabled {
		behaviors = append(behaviors, &exceptionBehavior{loggers: log})
	}

	if s.performanceMonitoringEnabled {
		behaviors = append(behaviors, &performanceBehavior{
			loggers:     log,
			metrics:     s.metrics,
			tracing:     s.tracing,
			threshold:   s.slowRequestThreshold,
			requestType: caps.requestType,
		})
	}

	if s.validationEnabled {
		behaviors = append(behaviors, &validationBehavior{
			validators: s.validators,
		})
	}

	if s.authorizationEnabled {
		behaviors = append(behaviors, &authorizationBehavior{
			loggers:      log,
			applies:      caps.authorized,
			userProvider: s.userProvider,
			authProvider: s.authProvider,
		})
	}

	if s.idempotencyEnabled {
		behaviors = append(behaviors, &idempotencyBehavior{
			loggers:     log,
			applies:     caps.idempotent,
			store:       s.idempotencyStore,
			expiry:      s.idempotencyExpiry,
			requestType: caps.requestType,
			clock:       s.clock,
		})
	}

	if s.cachingEnabled {
		behaviors = append(behaviors, &cachingBehavior{
			loggers:      log,
			applies:      caps.cacheable && !caps.isCommand,
			store:        s.cacheStore,
			userProvider: s.userProvider,
			requestType:  caps.requestType,
		})
	}

	if s.transactionEnabled {
		behaviors = append(behaviors, &transactionBehavior{
			loggers:  log,
			applies:  caps.isCommand,
			provider: s.txProvider,
		})
	}

	if s.auditLogEnabled {
		behaviors = append(behaviors, &auditLogBehavior{
			loggers:      log,
			applies:      caps.auditable,
			sink:         s.auditSink,
			userProvider: s.userProvider,
			clock:        s.clock,
		})
	}

	if s.loggingEnabled {
		behaviors = append(behaviors, &loggingBehavior{
			loggers:     log,
			requestType: caps.requestType,
		})
	}

	behaviors = append(behaviors, s.extraBehaviors...)

	sort.SliceStable(behaviors, func(i, j int) bool {
		return behaviors[i].Order() < behaviors[j].Order()
	})

	return behaviors
}

func terminal[R any](handler Handler[R]) invocation {
	return func(ctx context.Context, request any) (Result, error) {
		return handler.Handle(ctx, request.(R))
	}
}

func wrap(behavior Behavior, inner invocation) invocation {
	return func(ctx context.Context, request any) (Result, error) {
		next := func(nextCtx context.Context) (Result, error) {
			return inner(nextCtx, request)
		}

		return behavior.Handle(ctx, request, next)
	}
}
