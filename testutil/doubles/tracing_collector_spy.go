package doubles

import (
	"context"
	"sync"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// SpySpanRecord represents one recorded span from start to finish.
type SpySpanRecord struct {
	Name        string
	StartAttrs  map[string]string
	Status      string
	FinishAttrs map[string]string
	Finished    bool
}

// TracingCollectorSpy captures spans for testing. It implements the
// pipeline.TracingCollector interface.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpySpanRecord
}

// NewTracingCollectorSpy creates a TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

// StartSpan implements the pipeline.TracingCollector interface.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, pipeline.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &SpySpanRecord{Name: name, StartAttrs: attrs}
	s.spans = append(s.spans, record)

	return ctx, &spySpanContext{record: record}
}

// FinishSpan implements the pipeline.TracingCollector interface.
func (s *TracingCollectorSpy) FinishSpan(spanCtx pipeline.SpanContext, status string, attrs map[string]string) {
	spy, ok := spanCtx.(*spySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spy.record.Status = status
	spy.record.FinishAttrs = attrs
	spy.record.Finished = true
}

// Spans returns a copy of all recorded spans.
func (s *TracingCollectorSpy) Spans() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpySpanRecord, 0, len(s.spans))
	for _, record := range s.spans {
		spans = append(spans, *record)
	}

	return spans
}

type spySpanContext struct {
	record *SpySpanRecord
}

func (c *spySpanContext) SetStatus(status string) {
	c.record.Status = status
}

func (c *spySpanContext) AddAttribute(key, value string) {
	if c.record.FinishAttrs == nil {
		c.record.FinishAttrs = make(map[string]string)
	}

	c.record.FinishAttrs[key] = value
}

var _ pipeline.TracingCollector = (*TracingCollectorSpy)(nil)
