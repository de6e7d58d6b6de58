package adapters

import "database/sql"

// SQLAdapter implements DBAdapter for a plain sql.DB handle.
type SQLAdapter struct {
	stdAdapter
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{stdAdapter{db: db}}
}

var _ DBAdapter = (*SQLAdapter)(nil)
