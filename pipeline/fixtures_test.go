package pipeline_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// plainCommand carries no capability markers.
type plainCommand struct{}

func (plainCommand) CommandType() string { return "PlainCommand" }

// plainQuery carries no capability markers.
type plainQuery struct{}

func (plainQuery) QueryType() string { return "PlainQuery" }

// archiveReport is an idempotent, audited command.
type archiveReport struct {
	ReportID string
	Key      string
}

func (archiveReport) CommandType() string { return "ArchiveReport" }

func (c archiveReport) IdempotencyKey() string { return c.Key }

func (c archiveReport) AuditDescriptor() pipeline.AuditDescriptor {
	return pipeline.AuditDescriptor{
		Action:     "archive",
		EntityType: "Report",
		EntityID:   c.ReportID,
		ExtraData:  map[string]any{"report_id": c.ReportID},
	}
}

// guardedCommand declares its authorization requirements per instance so
// tests can vary them.
type guardedCommand struct {
	Requirements []pipeline.AuthorizationRequirement
}

func (guardedCommand) CommandType() string { return "GuardedCommand" }

func (c guardedCommand) AuthorizationRequirements() []pipeline.AuthorizationRequirement {
	return c.Requirements
}

// reportsByAuthor is a cacheable query.
type reportsByAuthor struct {
	Author string
	TTL    time.Duration
}

func (reportsByAuthor) QueryType() string { return "ReportsByAuthor" }

func (q reportsByAuthor) CacheKey() string { return q.Author }

func (q reportsByAuthor) CacheDuration() time.Duration { return q.TTL }

// cacheableCommand implements Cacheable on a command; the caching stage
// must still skip it.
type cacheableCommand struct{}

func (cacheableCommand) CommandType() string { return "CacheableCommand" }

func (cacheableCommand) CacheKey() string { return "always" }

func (cacheableCommand) CacheDuration() time.Duration { return time.Minute }

// notARequest implements neither Command nor Query.
type notARequest struct{}

// countingHandler returns a fixed outcome and counts invocations.
type countingHandler[R any] struct {
	calls  atomic.Int64
	result pipeline.Result
	err    error
	fn     func(ctx context.Context, request R) (pipeline.Result, error)
}

func (h *countingHandler[R]) Handle(ctx context.Context, request R) (pipeline.Result, error) {
	h.calls.Add(1)

	if h.fn != nil {
		return h.fn(ctx, request)
	}

	return h.result, h.err
}

func (h *countingHandler[R]) Calls() int {
	return int(h.calls.Load())
}

func succeedingHandler[R any](result pipeline.Result) *countingHandler[R] {
	return &countingHandler[R]{result: result}
}

func faultingHandler[R any](err error) *countingHandler[R] {
	return &countingHandler[R]{err: err}
}

// recordingBehavior records enter/exit events into a shared trace.
type recordingBehavior struct {
	name  string
	order int
	trace *[]string
}

func (b *recordingBehavior) Order() int { return b.order }

func (b *recordingBehavior) Handle(ctx context.Context, _ any, next pipeline.Next) (pipeline.Result, error) {
	*b.trace = append(*b.trace, "enter:"+b.name)
	result, err := next(ctx)
	*b.trace = append(*b.trace, "exit:"+b.name)

	return result, err
}
