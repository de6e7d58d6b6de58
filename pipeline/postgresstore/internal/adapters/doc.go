// Package adapters provides database abstraction adapters for the postgres store.
// It wraps pgx.Pool, sql.DB, and sqlx.DB behind small interfaces so the store
// logic stays independent of the concrete database client.
package adapters
