// Package postgresstore provides PostgreSQL-backed implementations of the
// pipeline store collaborators: the idempotency store, the audit sink, and
// the transaction provider.
//
// The idempotency store and audit sink work against pgx pools, database/sql
// handles, or sqlx handles; SQL statements are built with goqu. The
// transaction provider requires a pgx pool because it hands the live pgx
// transaction to handlers through the call's context (see TxFrom).
//
// The store owns its tables. The expected schema:
//
//	CREATE TABLE idempotency_records (
//	    key           TEXT PRIMARY KEY,
//	    request_type  TEXT        NOT NULL,
//	    response_type TEXT        NOT NULL,
//	    response      JSONB       NOT NULL,
//	    status        TEXT        NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    expires_at    TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE audit_log_entries (
//	    id            UUID PRIMARY KEY,
//	    action        TEXT        NOT NULL,
//	    entity_type   TEXT        NOT NULL,
//	    entity_id     TEXT        NOT NULL,
//	    user_id       TEXT        NOT NULL,
//	    user_name     TEXT        NOT NULL,
//	    tenant_id     TEXT        NOT NULL,
//	    occurred_at   TIMESTAMPTZ NOT NULL,
//	    success       BOOLEAN     NOT NULL,
//	    error_message TEXT        NOT NULL,
//	    request       JSONB       NOT NULL,
//	    extra_data    JSONB       NOT NULL
//	);
package postgresstore
