package postgresstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqrskit/pipeline-go/pipeline"
)

func sampleAuditEntry() pipeline.AuditLogEntry {
	return pipeline.AuditLogEntry{
		ID:           uuid.MustParse("0d9517c5-9da2-4b7c-b1b9-7dcd05d68a4f"),
		Action:       "remove",
		EntityType:   "BookCopy",
		EntityID:     "book-1",
		UserID:       "u1",
		UserName:     "lee",
		TenantID:     "acme",
		OccurredAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Success:      true,
		ErrorMessage: "",
		Request:      []byte(`{"bookId":"book-1"}`),
		ExtraData:    []byte(`{"branch":"main"}`),
	}
}

func Test_BuildAuditInsertQuery(t *testing.T) {
	sqlQuery, err := buildAuditInsertQuery("audit_log_entries", sampleAuditEntry())

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "audit_log_entries"`)
	assert.Contains(t, sqlQuery, `0d9517c5-9da2-4b7c-b1b9-7dcd05d68a4f`)
	assert.Contains(t, sqlQuery, `'remove'`)
	assert.Contains(t, sqlQuery, `'BookCopy'`)
	assert.Contains(t, sqlQuery, `{"bookId":"book-1"}`)
	assert.Contains(t, sqlQuery, `{"branch":"main"}`)
}

func Test_BuildAuditInsertQuery_MissingPayloads_BecomeJSONNull(t *testing.T) {
	entry := sampleAuditEntry()
	entry.Request = nil
	entry.ExtraData = nil

	sqlQuery, err := buildAuditInsertQuery("audit_log_entries", entry)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `'null'::jsonb`)
}

func Test_AuditSink_Save_InsertsOneEntry(t *testing.T) {
	// setup
	db := &fakeDB{rowsAffected: 1}
	sink, err := newAuditSink(db)
	require.NoError(t, err)

	// act
	err = sink.Save(context.Background(), sampleAuditEntry())

	// assert
	assert.NoError(t, err)
	assert.Contains(t, db.lastExec, `INSERT INTO "audit_log_entries"`)
}

func Test_AuditSink_Save_ExecError_IsWrapped(t *testing.T) {
	// setup
	sink, err := newAuditSink(&fakeDB{execErr: errors.New("connection refused")})
	require.NoError(t, err)

	// act
	err = sink.Save(context.Background(), sampleAuditEntry())

	// assert
	assert.ErrorIs(t, err, ErrExecFailed)
}

func Test_AuditSink_Constructors_RejectNilConnections(t *testing.T) {
	_, err := NewAuditSinkFromPGXPool(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewAuditSinkFromSQLDB(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)

	_, err = NewAuditSinkFromSQLX(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)
}

func Test_NewTransactionProvider_RejectsNilPool(t *testing.T) {
	_, err := NewTransactionProvider(nil)
	assert.ErrorIs(t, err, ErrNilDatabaseConnection)
}
