package postgresstore

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/cqrskit/pipeline-go/pipeline"
	"github.com/cqrskit/pipeline-go/pipeline/postgresstore/internal/adapters"
)

const (
	defaultIdempotencyTableName = "idempotency_records"
	defaultAuditTableName       = "audit_log_entries"

	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	jsonNull        = "null"

	colKey          = "key"
	colRequestType  = "request_type"
	colResponseType = "response_type"
	colResponse     = "response"
	colStatus       = "status"
	colCreatedAt    = "created_at"
	colExpiresAt    = "expires_at"

	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgSQLExecuted        = "executed sql for: "

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrDurationMS = "duration_ms"

	logActionGet    = "idempotency get"
	logActionSave   = "idempotency save"
	logActionRemove = "idempotency remove"
)

var (
	// ErrBuildingQueryFailed occurs when a SQL statement cannot be built.
	ErrBuildingQueryFailed = errors.New("failed to build sql statement")

	// ErrQueryFailed occurs when a database read fails.
	ErrQueryFailed = errors.New("database query failed")

	// ErrExecFailed occurs when a database write fails.
	ErrExecFailed = errors.New("database execution failed")
)

// IdempotencyStore implements pipeline.IdempotencyStore on PostgreSQL.
//
// Claiming a key (saving a Processing record) uses
// INSERT ... ON CONFLICT (key) DO UPDATE ... WHERE expired, so a live
// record is never stolen and an expired one is reclaimed in place. When
// the claim affects no row, Save reports
// pipeline.ErrIdempotencyKeyConflict, which gives the pipeline the
// atomic first-caller-wins guarantee. Expired records are treated as
// absent on Get.
type IdempotencyStore struct {
	db        adapters.DBAdapter
	tableName string
	logger    Logger
	clock     func() time.Time
}

// NewIdempotencyStoreFromPGXPool creates an IdempotencyStore using a pgx pool.
func NewIdempotencyStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*IdempotencyStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newIdempotencyStore(adapters.NewPGXAdapter(db), options...)
}

// NewIdempotencyStoreFromSQLDB creates an IdempotencyStore using a sql.DB.
func NewIdempotencyStoreFromSQLDB(db *sql.DB, options ...Option) (*IdempotencyStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newIdempotencyStore(adapters.NewSQLAdapter(db), options...)
}

// NewIdempotencyStoreFromSQLX creates an IdempotencyStore using a sqlx.DB.
func NewIdempotencyStoreFromSQLX(db *sqlx.DB, options ...Option) (*IdempotencyStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newIdempotencyStore(adapters.NewSQLXAdapter(db), options...)
}

func newIdempotencyStore(db adapters.DBAdapter, options ...Option) (*IdempotencyStore, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}

	return &IdempotencyStore{
		db:        db,
		tableName: cfg.idempotencyTableName,
		logger:    cfg.logger,
		clock:     cfg.clock,
	}, nil
}

// Get implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (pipeline.IdempotencyRecord, bool, error) {
	var empty pipeline.IdempotencyRecord

	sqlQuery, buildErr := buildIdempotencyGetQuery(s.tableName, key)
	if buildErr != nil {
		s.logError(logMsgBuildQueryFailed, buildErr)
		return empty, false, buildErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionGet, time.Since(start))

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return empty, false, errors.Join(ErrQueryFailed, queryErr)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return empty, false, nil
	}

	record := pipeline.IdempotencyRecord{}
	var status string

	scanErr := rows.Scan(
		&record.Key, &record.RequestType, &record.ResponseType,
		&record.Response, &status, &record.CreatedAt, &record.ExpiresAt,
	)
	if scanErr != nil {
		s.logError(logMsgScanRowFailed, scanErr)
		return empty, false, errors.Join(ErrQueryFailed, scanErr)
	}

	record.Status = pipeline.IdempotencyStatus(status)

	// an expired record is as good as no record
	if !record.ExpiresAt.IsZero() && !record.ExpiresAt.After(s.clock()) {
		return empty, false, nil
	}

	return record, true, nil
}

// Save implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Save(ctx context.Context, record pipeline.IdempotencyRecord) error {
	sqlQuery, buildErr := buildIdempotencySaveQuery(s.tableName, record, s.clock())
	if buildErr != nil {
		s.logError(logMsgBuildQueryFailed, buildErr)
		return buildErr
	}

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionSave, time.Since(start))

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(ErrExecFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsErr)
		return errors.Join(ErrExecFailed, rowsErr)
	}

	if record.Status == pipeline.IdempotencyProcessing && rowsAffected == 0 {
		return pipeline.ErrIdempotencyKeyConflict
	}

	return nil
}

// Remove implements the pipeline.IdempotencyStore interface.
func (s *IdempotencyStore) Remove(ctx context.Context, key string) error {
	sqlQuery, buildErr := buildIdempotencyRemoveQuery(s.tableName, key)
	if buildErr != nil {
		s.logError(logMsgBuildQueryFailed, buildErr)
		return buildErr
	}

	start := time.Now()
	_, execErr := s.db.Exec(ctx, sqlQuery)
	s.logQueryWithDuration(sqlQuery, logActionRemove, time.Since(start))

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return errors.Join(ErrExecFailed, execErr)
	}

	return nil
}

func buildIdempotencyGetQuery(tableName, key string) (string, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(tableName).
		Select(colKey, colRequestType, colResponseType, colResponse, colStatus, colCreatedAt, colExpiresAt).
		Where(goqu.Ex{colKey: key})

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildIdempotencySaveQuery(tableName string, record pipeline.IdempotencyRecord, now time.Time) (string, error) {
	row := goqu.Record{
		colKey:          record.Key,
		colRequestType:  record.RequestType,
		colResponseType: record.ResponseType,
		colResponse:     goqu.L(castJsonb, jsonOrNull(record.Response)),
		colStatus:       string(record.Status),
		colCreatedAt:    record.CreatedAt,
		colExpiresAt:    record.ExpiresAt,
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(tableName).
		Rows(row)

	if record.Status == pipeline.IdempotencyProcessing {
		// a claim must not steal a live record, only reclaim an expired one
		insertStmt = insertStmt.OnConflict(
			goqu.DoUpdate(colKey, row).
				Where(goqu.I(tableName + "." + colExpiresAt).Lte(now)),
		)
	} else {
		insertStmt = insertStmt.OnConflict(goqu.DoUpdate(colKey, row))
	}

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func buildIdempotencyRemoveQuery(tableName, key string) (string, error) {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(tableName).
		Where(goqu.Ex{colKey: key})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// jsonOrNull renders raw JSON bytes for a jsonb column, substituting the
// JSON null literal when no payload is present.
func jsonOrNull(raw []byte) string {
	if len(raw) == 0 {
		return jsonNull
	}

	return string(raw)
}

func (s *IdempotencyStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (s *IdempotencyStore) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append([]any{logAttrError, err.Error()}, args...)...)
	}
}

func (s *IdempotencyStore) logQueryWithDuration(sqlQuery, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// Ensure IdempotencyStore implements pipeline.IdempotencyStore.
var _ pipeline.IdempotencyStore = (*IdempotencyStore)(nil)
