package doubles

import (
	"context"
	"sync"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// LoggerSpy captures logging calls for testing. It implements both the
// pipeline.Logger and pipeline.ContextualLogger interfaces.
type LoggerSpy struct {
	mu      sync.Mutex
	records []SpyLogRecord
}

// NewLoggerSpy creates a LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) record(level, msg string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args})
}

// Debug implements the pipeline.Logger interface.
func (s *LoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args...) }

// Info implements the pipeline.Logger interface.
func (s *LoggerSpy) Info(msg string, args ...any) { s.record("info", msg, args...) }

// Warn implements the pipeline.Logger interface.
func (s *LoggerSpy) Warn(msg string, args ...any) { s.record("warn", msg, args...) }

// Error implements the pipeline.Logger interface.
func (s *LoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args...) }

// DebugContext implements the pipeline.ContextualLogger interface.
func (s *LoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args...)
}

// InfoContext implements the pipeline.ContextualLogger interface.
func (s *LoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args...)
}

// WarnContext implements the pipeline.ContextualLogger interface.
func (s *LoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args...)
}

// ErrorContext implements the pipeline.ContextualLogger interface.
func (s *LoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args...)
}

// Records returns a copy of all captured log records.
func (s *LoggerSpy) Records() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpyLogRecord, len(s.records))
	copy(records, s.records)

	return records
}

// MessagesAt returns the messages recorded at the given level.
func (s *LoggerSpy) MessagesAt(level string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []string
	for _, r := range s.records {
		if r.Level == level {
			messages = append(messages, r.Message)
		}
	}

	return messages
}
