package doubles

import (
	"context"
	"sync"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// TransactionProviderSpy is a pipeline.TransactionProvider that hands
// out TransactionSpy instances and counts begins.
type TransactionProviderSpy struct {
	BeginErr    error
	PersistErr  error
	CommitErr   error
	RollbackErr error

	mu         sync.Mutex
	beginCalls int
	last       *TransactionSpy
}

// NewTransactionProviderSpy creates a TransactionProviderSpy.
func NewTransactionProviderSpy() *TransactionProviderSpy {
	return &TransactionProviderSpy{}
}

// Begin implements the pipeline.TransactionProvider interface.
func (p *TransactionProviderSpy) Begin(_ context.Context) (pipeline.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.beginCalls++

	if p.BeginErr != nil {
		return nil, p.BeginErr
	}

	p.last = &TransactionSpy{
		persistErr:  p.PersistErr,
		commitErr:   p.CommitErr,
		rollbackErr: p.RollbackErr,
	}

	return p.last, nil
}

// BeginCalls returns how many times Begin was invoked.
func (p *TransactionProviderSpy) BeginCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.beginCalls
}

// Last returns the most recently begun transaction spy.
func (p *TransactionProviderSpy) Last() *TransactionSpy {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.last
}

// TransactionSpy is a pipeline.Transaction that counts persist, commit,
// and rollback calls.
type TransactionSpy struct {
	persistErr  error
	commitErr   error
	rollbackErr error

	mu            sync.Mutex
	persistCalls  int
	commitCalls   int
	rollbackCalls int
}

// Persist implements the pipeline.Transaction interface.
func (t *TransactionSpy) Persist(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.persistCalls++

	return t.persistErr
}

// Commit implements the pipeline.Transaction interface.
func (t *TransactionSpy) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commitCalls++

	return t.commitErr
}

// Rollback implements the pipeline.Transaction interface.
func (t *TransactionSpy) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollbackCalls++

	return t.rollbackErr
}

// PersistCalls returns how many times Persist was invoked.
func (t *TransactionSpy) PersistCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.persistCalls
}

// CommitCalls returns how many times Commit was invoked.
func (t *TransactionSpy) CommitCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.commitCalls
}

// RollbackCalls returns how many times Rollback was invoked.
func (t *TransactionSpy) RollbackCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.rollbackCalls
}
