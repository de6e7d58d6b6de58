package pipeline

import (
	"context"
	"time"
)

// Logger interface for behavior logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic
// trace correlation. This interface follows a dependency-free pattern,
// allowing users to integrate with any logging backend (OpenTelemetry,
// structured loggers, etc.) that supports context-based correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting pipeline performance and
// operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished
// and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing
// information from pipeline executions. This interface follows the same
// dependency-free pattern as MetricsCollector, allowing users to
// integrate with any tracing backend (OpenTelemetry, Jaeger, Zipkin,
// etc.) by implementing this interface.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

const (
	// RequestDurationMetric tracks request execution duration as seen by
	// the performance monitoring behavior (OpenTelemetry-compatible).
	RequestDurationMetric = "pipeline_request_duration_seconds"

	// SlowRequestsMetric tracks requests exceeding the configured slow
	// request threshold.
	SlowRequestsMetric = "pipeline_slow_requests_total"
)

// loggers bundles the optional plain and contextual loggers handed to
// every behavior. Contextual logging wins when both are configured.
type loggers struct {
	logger     Logger
	contextual ContextualLogger
}

func (l loggers) debug(ctx context.Context, msg string, args ...any) {
	if l.contextual != nil {
		l.contextual.DebugContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

func (l loggers) info(ctx context.Context, msg string, args ...any) {
	if l.contextual != nil {
		l.contextual.InfoContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}

func (l loggers) warn(ctx context.Context, msg string, args ...any) {
	if l.contextual != nil {
		l.contextual.WarnContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}

func (l loggers) error(ctx context.Context, msg string, args ...any) {
	if l.contextual != nil {
		l.contextual.ErrorContext(ctx, msg, args...)
		return
	}

	if l.logger != nil {
		l.logger.Error(msg, args...)
	}
}
