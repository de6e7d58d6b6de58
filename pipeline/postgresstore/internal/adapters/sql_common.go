package adapters

import (
	"context"
	"database/sql"
)

// stdQuerier is the database/sql execution surface shared by sql.DB and
// sqlx.DB handles; both adapters fold through it.
type stdQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// stdAdapter implements DBAdapter on any stdQuerier.
type stdAdapter struct {
	db stdQuerier
}

func (a stdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func (a stdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := a.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return stdResult{result: result}, nil
}

// stdRows adapts *sql.Rows to the DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

func (r *stdRows) Next() bool {
	return r.rows.Next()
}

func (r *stdRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *stdRows) Close() error {
	return r.rows.Close()
}

// stdResult adapts sql.Result to the DBResult interface.
type stdResult struct {
	result sql.Result
}

func (r stdResult) RowsAffected() (int64, error) {
	return r.result.RowsAffected()
}
