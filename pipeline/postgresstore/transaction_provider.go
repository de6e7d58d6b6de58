package postgresstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqrskit/pipeline-go/pipeline"
)

type txCtxKey struct{}

// TxFrom extracts the pgx transaction started by the transaction
// behavior from the context. Handlers and repositories use it to join
// the unit of work wrapping the current command.
func TxFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx, ok
}

// TransactionProvider implements pipeline.TransactionProvider on a pgx
// pool. Each Begin starts one pgx transaction and carries it into the
// call's context, retrievable with TxFrom.
type TransactionProvider struct {
	pool *pgxpool.Pool
}

// NewTransactionProvider creates a TransactionProvider using a pgx pool.
func NewTransactionProvider(pool *pgxpool.Pool) (*TransactionProvider, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	return &TransactionProvider{pool: pool}, nil
}

// Begin implements the pipeline.TransactionProvider interface.
func (p *TransactionProvider) Begin(ctx context.Context) (pipeline.Transaction, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &pgxTransaction{tx: tx}, nil
}

// pgxTransaction adapts pgx.Tx to the pipeline.Transaction contract.
type pgxTransaction struct {
	tx pgx.Tx
}

// Persist is a no-op: statements executed through the pgx transaction
// take effect immediately, there is nothing left to flush before commit.
func (t *pgxTransaction) Persist(_ context.Context) error {
	return nil
}

// Commit commits the pgx transaction.
func (t *pgxTransaction) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the pgx transaction. A transaction that was
// already closed counts as rolled back.
func (t *pgxTransaction) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}

	return err
}

// InContext implements the pipeline.ContextTransaction interface.
func (t *pgxTransaction) InContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, txCtxKey{}, t.tx)
}

// Ensure the provider and transaction satisfy the pipeline contracts.
var (
	_ pipeline.TransactionProvider = (*TransactionProvider)(nil)
	_ pipeline.ContextTransaction  = (*pgxTransaction)(nil)
)
