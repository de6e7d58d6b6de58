package doubles

import (
	"context"
	"sync"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// AuditSinkSpy is a pipeline.AuditSink that captures saved entries.
type AuditSinkSpy struct {
	SaveErr error

	mu      sync.Mutex
	entries []pipeline.AuditLogEntry
}

// NewAuditSinkSpy creates an AuditSinkSpy.
func NewAuditSinkSpy() *AuditSinkSpy {
	return &AuditSinkSpy{}
}

// Save implements the pipeline.AuditSink interface.
func (s *AuditSinkSpy) Save(_ context.Context, entry pipeline.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.entries = append(s.entries, entry)

	return nil
}

// Entries returns a copy of all captured entries.
func (s *AuditSinkSpy) Entries() []pipeline.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]pipeline.AuditLogEntry, len(s.entries))
	copy(entries, s.entries)

	return entries
}
