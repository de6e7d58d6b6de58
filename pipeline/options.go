package pipeline

import (
	"errors"
	"time"
)

const (
	// DefaultSlowRequestThreshold is the duration above which the
	// performance monitoring behavior emits a slow request warning.
	DefaultSlowRequestThreshold = 500 * time.Millisecond

	// DefaultIdempotencyExpiry is the default lifetime of an
	// IdempotencyRecord.
	DefaultIdempotencyExpiry = 24 * time.Hour
)

// ErrInvalidThreshold is returned for non-positive duration options.
var ErrInvalidThreshold = errors.New("duration option must be positive")

// settings holds everything a Pipeline is built from: collaborators,
// per-behavior toggles, and tunables.
type settings struct {
	logger           Logger
	contextualLogger ContextualLogger
	metrics          MetricsCollector
	tracing          TracingCollector
	validators       []Validator
	userProvider     CurrentUserProvider
	authProvider     AuthorizationProvider
	idempotencyStore IdempotencyStore
	cacheStore       CacheStore
	txProvider       TransactionProvider
	auditSink        AuditSink
	extraBehaviors   []Behavior

	exceptionHandlingEnabled     bool
	performanceMonitoringEnabled bool
	validationEnabled            bool
	authorizationEnabled         bool
	idempotencyEnabled           bool
	cachingEnabled               bool
	transactionEnabled           bool
	auditLogEnabled              bool
	loggingEnabled               bool

	slowRequestThreshold time.Duration
	idempotencyExpiry    time.Duration

	clock func() time.Time
}

func defaultSettings() settings {
	return settings{
		exceptionHandlingEnabled:     true,
		performanceMonitoringEnabled: true,
		validationEnabled:            true,
		authorizationEnabled:         true,
		idempotencyEnabled:           true,
		cachingEnabled:               true,
		transactionEnabled:           true,
		auditLogEnabled:              true,
		loggingEnabled:               true,
		slowRequestThreshold:         DefaultSlowRequestThreshold,
		idempotencyExpiry:            DefaultIdempotencyExpiry,
		clock:                        time.Now,
	}
}

func (s settings) loggers() loggers {
	return loggers{logger: s.logger, contextual: s.contextualLogger}
}

// Option defines a functional option for configuring a Pipeline.
type Option func(*settings) error

// WithLogger sets the logger used by all behaviors.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger used by all behaviors.
// When both a Logger and a ContextualLogger are configured, behaviors
// prefer the contextual one.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector used by the performance
// monitoring behavior.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *settings) error {
		s.metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector. The performance monitoring
// behavior opens one span per request, carrying the request type and
// correlation id and finished with the call's outcome.
func WithTracing(collector TracingCollector) Option {
	return func(s *settings) error {
		s.tracing = collector
		return nil
	}
}

// WithValidators registers validators for the pipeline's request type.
// All registered validators run on every call; every failure message
// from every validator is collected into the combined failure Result.
func WithValidators(validators ...Validator) Option {
	return func(s *settings) error {
		s.validators = append(s.validators, validators...)
		return nil
	}
}

// WithCurrentUserProvider sets the provider resolving the caller for the
// authorization, caching, and audit behaviors. Without one configured,
// the authorization behavior logs a warning and passes through.
func WithCurrentUserProvider(provider CurrentUserProvider) Option {
	return func(s *settings) error {
		s.userProvider = provider
		return nil
	}
}

// WithAuthorizationProvider sets the provider evaluating named policies.
func WithAuthorizationProvider(provider AuthorizationProvider) Option {
	return func(s *settings) error {
		s.authProvider = provider
		return nil
	}
}

// WithIdempotencyStore sets the store backing the idempotency behavior.
func WithIdempotencyStore(store IdempotencyStore) Option {
	return func(s *settings) error {
		s.idempotencyStore = store
		return nil
	}
}

// WithCacheStore sets the store backing the caching behavior.
func WithCacheStore(store CacheStore) Option {
	return func(s *settings) error {
		s.cacheStore = store
		return nil
	}
}

// WithTransactionProvider sets the unit-of-work provider backing the
// transaction behavior.
func WithTransactionProvider(provider TransactionProvider) Option {
	return func(s *settings) error {
		s.txProvider = provider
		return nil
	}
}

// WithAuditSink sets the sink backing the audit log behavior.
func WithAuditSink(sink AuditSink) Option {
	return func(s *settings) error {
		s.auditSink = sink
		return nil
	}
}

// WithBehavior appends custom behaviors to the chain. They are merged
// with the built-in behaviors and sorted by Order.
func WithBehavior(behaviors ...Behavior) Option {
	return func(s *settings) error {
		s.extraBehaviors = append(s.extraBehaviors, behaviors...)
		return nil
	}
}

// WithSlowRequestThreshold sets the duration above which the performance
// monitoring behavior warns about a slow request.
func WithSlowRequestThreshold(threshold time.Duration) Option {
	return func(s *settings) error {
		if threshold <= 0 {
			return ErrInvalidThreshold
		}

		s.slowRequestThreshold = threshold

		return nil
	}
}

// WithIdempotencyExpiry sets the lifetime of new IdempotencyRecords.
func WithIdempotencyExpiry(expiry time.Duration) Option {
	return func(s *settings) error {
		if expiry <= 0 {
			return ErrInvalidThreshold
		}

		s.idempotencyExpiry = expiry

		return nil
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) error {
		if clock != nil {
			s.clock = clock
		}

		return nil
	}
}

// WithoutExceptionHandling removes the exception handling stage from the
// composition. Faults then propagate to the caller unconverted.
func WithoutExceptionHandling() Option {
	return func(s *settings) error {
		s.exceptionHandlingEnabled = false
		return nil
	}
}

// WithoutPerformanceMonitoring removes the performance monitoring stage.
func WithoutPerformanceMonitoring() Option {
	return func(s *settings) error {
		s.performanceMonitoringEnabled = false
		return nil
	}
}

// WithoutValidation removes the validation stage.
func WithoutValidation() Option {
	return func(s *settings) error {
		s.validationEnabled = false
		return nil
	}
}

// WithoutAuthorization removes the authorization stage.
func WithoutAuthorization() Option {
	return func(s *settings) error {
		s.authorizationEnabled = false
		return nil
	}
}

// WithoutIdempotency removes the idempotency stage.
func WithoutIdempotency() Option {
	return func(s *settings) error {
		s.idempotencyEnabled = false
		return nil
	}
}

// WithoutCaching removes the caching stage.
func WithoutCaching() Option {
	return func(s *settings) error {
		s.cachingEnabled = false
		return nil
	}
}

// WithoutTransaction removes the transaction stage.
func WithoutTransaction() Option {
	return func(s *settings) error {
		s.transactionEnabled = false
		return nil
	}
}

// WithoutAuditLog removes the audit log stage.
func WithoutAuditLog() Option {
	return func(s *settings) error {
		s.auditLogEnabled = false
		return nil
	}
}

// WithoutLogging removes the logging stage.
func WithoutLogging() Option {
	return func(s *settings) error {
		s.loggingEnabled = false
		return nil
	}
}
