package pipeline

import (
	"context"
	"strconv"
	"time"
)

const (
	logMsgSlowRequest = "slow request detected"

	logAttrDurationMS  = "duration_ms"
	logAttrThresholdMS = "threshold_ms"

	spanNameRequest = "pipeline.request"

	spanStatusSuccess  = "success"
	spanStatusFailure  = "failure"
	spanStatusError    = "error"
	spanStatusCanceled = "canceled"
)

// performanceBehavior measures the wall-clock duration of the wrapped
// call, records it as a metric, and warns when it exceeds the configured
// threshold. With a tracing collector configured it additionally wraps
// the call in one span per request, finished with the call's outcome.
// The Result is never altered.
type performanceBehavior struct {
	loggers     loggers
	metrics     MetricsCollector
	tracing     TracingCollector
	threshold   time.Duration
	requestType string
}

func (b *performanceBehavior) Order() int {
	return OrderPerformanceMonitoring
}

func (b *performanceBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	var span SpanContext
	if b.tracing != nil {
		ctx, span = b.tracing.StartSpan(ctx, spanNameRequest, b.spanAttributes(ctx))
	}

	start := time.Now()

	result, err := next(ctx)

	elapsed := time.Since(start)
	labels := map[string]string{logAttrRequestType: b.requestType}

	if b.metrics != nil {
		b.metrics.RecordDuration(RequestDurationMetric, elapsed, labels)
	}

	if elapsed > b.threshold {
		if b.metrics != nil {
			b.metrics.IncrementCounter(SlowRequestsMetric, labels)
		}

		b.loggers.warn(ctx, logMsgSlowRequest,
			logAttrRequestType, b.requestType,
			logAttrDurationMS, elapsed.Milliseconds(),
			logAttrThresholdMS, b.threshold.Milliseconds(),
		)
	}

	if span != nil {
		b.tracing.FinishSpan(span, spanStatus(result, err), map[string]string{
			logAttrDurationMS: strconv.FormatInt(elapsed.Milliseconds(), 10),
		})
	}

	return result, err
}

func (b *performanceBehavior) spanAttributes(ctx context.Context) map[string]string {
	attrs := map[string]string{logAttrRequestType: b.requestType}
	if correlationID := CorrelationIDFrom(ctx); correlationID != "" {
		attrs[logAttrCorrelationID] = correlationID
	}

	return attrs
}

// spanStatus maps the call's outcome onto the three-way failure taxonomy
// plus cancellation.
func spanStatus(result Result, err error) string {
	switch {
	case err != nil && IsCancellation(err):
		return spanStatusCanceled
	case err != nil:
		return spanStatusError
	case !result.Success:
		return spanStatusFailure
	default:
		return spanStatusSuccess
	}
}
