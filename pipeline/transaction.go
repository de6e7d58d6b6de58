package pipeline

import (
	"context"
)

const (
	logMsgRollbackFailed = "transaction rollback failed"
)

// transactionBehavior wraps commands in a unit of work. A successful
// Result persists outstanding changes and commits; a business failure
// rolls back and returns the failure Result unchanged, because a
// business failure is not an exceptional condition; a fault rolls back
// and re-returns the original error unchanged. Exactly one of commit or
// rollback occurs per invocation.
type transactionBehavior struct {
	loggers  loggers
	applies  bool
	provider TransactionProvider
}

func (b *transactionBehavior) Order() int {
	return OrderTransaction
}

func (b *transactionBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if !b.applies || b.provider == nil {
		return next(ctx)
	}

	tx, err := b.provider.Begin(ctx)
	if err != nil {
		return Result{}, err
	}

	if contextTx, ok := tx.(ContextTransaction); ok {
		ctx = contextTx.InContext(ctx)
	}

	result, err := next(ctx)
	if err != nil {
		b.rollback(ctx, tx)
		return Result{}, err
	}

	if !result.Success {
		b.rollback(ctx, tx)
		return result, nil
	}

	if persistErr := tx.Persist(ctx); persistErr != nil {
		b.rollback(ctx, tx)
		return Result{}, persistErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		return Result{}, commitErr
	}

	return result, nil
}

// rollback must complete even when the call was canceled.
func (b *transactionBehavior) rollback(ctx context.Context, tx Transaction) {
	rollbackCtx := context.WithoutCancel(ctx)
	if err := tx.Rollback(rollbackCtx); err != nil {
		b.loggers.warn(ctx, logMsgRollbackFailed, "error", err)
	}
}
