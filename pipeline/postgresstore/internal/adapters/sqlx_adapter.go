package adapters

import "github.com/jmoiron/sqlx"

// SQLXAdapter implements DBAdapter for a sqlx.DB handle. The stores emit
// plain SQL with inline literals, so sqlx's extensions are not needed
// and the adapter rides the shared database/sql surface.
type SQLXAdapter struct {
	stdAdapter
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{stdAdapter{db: db}}
}

var _ DBAdapter = (*SQLXAdapter)(nil)
