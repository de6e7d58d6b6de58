package adapters

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubQuerier struct {
	queryErr error
	execErr  error

	lastQuery    string
	rowsAffected int64
}

func (s *stubQuerier) QueryContext(_ context.Context, query string, _ ...any) (*sql.Rows, error) {
	s.lastQuery = query
	return nil, s.queryErr
}

func (s *stubQuerier) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	s.lastQuery = query
	if s.execErr != nil {
		return nil, s.execErr
	}

	return stubSQLResult{rowsAffected: s.rowsAffected}, nil
}

type stubSQLResult struct {
	rowsAffected int64
}

func (r stubSQLResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubSQLResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

func Test_StdAdapter_Exec_ReportsRowsAffected(t *testing.T) {
	// setup
	querier := &stubQuerier{rowsAffected: 3}
	adapter := stdAdapter{db: querier}

	// act
	result, err := adapter.Exec(context.Background(), "DELETE FROM \"idempotency_records\"")

	// assert
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.Equal(t, "DELETE FROM \"idempotency_records\"", querier.lastQuery)
}

func Test_StdAdapter_Exec_PropagatesError(t *testing.T) {
	// setup
	execErr := errors.New("connection reset")
	adapter := stdAdapter{db: &stubQuerier{execErr: execErr}}

	// act
	_, err := adapter.Exec(context.Background(), "DELETE FROM \"idempotency_records\"")

	// assert
	assert.ErrorIs(t, err, execErr)
}

func Test_StdAdapter_Query_PropagatesError(t *testing.T) {
	// setup
	queryErr := errors.New("connection reset")
	adapter := stdAdapter{db: &stubQuerier{queryErr: queryErr}}

	// act
	_, err := adapter.Query(context.Background(), "SELECT 1")

	// assert
	assert.ErrorIs(t, err, queryErr)
}

// Both handle types ride the same database/sql surface.
var (
	_ stdQuerier = (*sql.DB)(nil)
	_ stdQuerier = (*sqlx.DB)(nil)
)
