package postgresstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/cqrskit/pipeline-go/pipeline"
	"github.com/cqrskit/pipeline-go/pipeline/postgresstore/internal/adapters"
)

const (
	colID           = "id"
	colAction       = "action"
	colEntityType   = "entity_type"
	colEntityID     = "entity_id"
	colUserID       = "user_id"
	colUserName     = "user_name"
	colTenantID     = "tenant_id"
	colOccurredAt   = "occurred_at"
	colSuccess      = "success"
	colErrorMessage = "error_message"
	colRequest      = "request"
	colExtraData    = "extra_data"

	logActionAuditSave = "audit save"
)

// AuditSink implements pipeline.AuditSink on PostgreSQL. Entries are
// write-once inserts; the sink never updates or deletes them.
type AuditSink struct {
	db        adapters.DBAdapter
	tableName string
	logger    Logger
}

// NewAuditSinkFromPGXPool creates an AuditSink using a pgx pool.
func NewAuditSinkFromPGXPool(db *pgxpool.Pool, options ...Option) (*AuditSink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAuditSink(adapters.NewPGXAdapter(db), options...)
}

// NewAuditSinkFromSQLDB creates an AuditSink using a sql.DB.
func NewAuditSinkFromSQLDB(db *sql.DB, options ...Option) (*AuditSink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAuditSink(adapters.NewSQLAdapter(db), options...)
}

// NewAuditSinkFromSQLX creates an AuditSink using a sqlx.DB.
func NewAuditSinkFromSQLX(db *sqlx.DB, options ...Option) (*AuditSink, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newAuditSink(adapters.NewSQLXAdapter(db), options...)
}

func newAuditSink(db adapters.DBAdapter, options ...Option) (*AuditSink, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}

	return &AuditSink{
		db:        db,
		tableName: cfg.auditTableName,
		logger:    cfg.logger,
	}, nil
}

// Save implements the pipeline.AuditSink interface.
func (s *AuditSink) Save(ctx context.Context, entry pipeline.AuditLogEntry) error {
	sqlQuery, buildErr := buildAuditInsertQuery(s.tableName, entry)
	if buildErr != nil {
		s.logError(logMsgBuildQueryFailed, buildErr)
		return buildErr
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionAuditSave, time.Since(start))

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(ErrExecFailed, execErr)
	}

	return nil
}

func buildAuditInsertQuery(tableName string, entry pipeline.AuditLogEntry) (string, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableName).
		Rows(goqu.Record{
			colID:           entry.ID.String(),
			colAction:       entry.Action,
			colEntityType:   entry.EntityType,
			colEntityID:     entry.EntityID,
			colUserID:       entry.UserID,
			colUserName:     entry.UserName,
			colTenantID:     entry.TenantID,
			colOccurredAt:   entry.OccurredAt,
			colSuccess:      entry.Success,
			colErrorMessage: entry.ErrorMessage,
			colRequest:      goqu.L(castJsonb, jsonOrNull(entry.Request)),
			colExtraData:    goqu.L(castJsonb, jsonOrNull(entry.ExtraData)),
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s *AuditSink) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

func (s *AuditSink) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// Ensure AuditSink implements pipeline.AuditSink.
var _ pipeline.AuditSink = (*AuditSink)(nil)
