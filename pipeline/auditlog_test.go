package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqrskit/pipeline-go/pipeline"
	"github.com/cqrskit/pipeline-go/testutil/doubles"
)

func Test_AuditLog_SuccessfulCommand_RecordsSuccessEntry(t *testing.T) {
	// setup
	sink := doubles.NewAuditSinkSpy()
	provider := &doubles.UserProviderStub{Authenticated: true, ID: "u1", Name: "pat", Tenant: "acme"}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	handler := succeedingHandler[archiveReport](pipeline.Ok())

	p, err := pipeline.New[archiveReport](handler,
		pipeline.WithAuditSink(sink),
		pipeline.WithCurrentUserProvider(provider),
		pipeline.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), archiveReport{ReportID: "rep-9", Key: ""})
	require.NoError(t, err)

	// assert
	entries := sink.Entries()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.True(t, entry.Success)
	assert.Empty(t, entry.ErrorMessage)
	assert.Equal(t, "archive", entry.Action)
	assert.Equal(t, "Report", entry.EntityType)
	assert.Equal(t, "rep-9", entry.EntityID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "pat", entry.UserName)
	assert.Equal(t, "acme", entry.TenantID)
	assert.Equal(t, now, entry.OccurredAt)
	assert.NotZero(t, entry.ID)
	assert.Contains(t, string(entry.Request), "rep-9")
	assert.Contains(t, string(entry.ExtraData), "report_id")
}

func Test_AuditLog_BusinessFailure_RecordsResultError(t *testing.T) {
	// setup
	sink := doubles.NewAuditSinkSpy()
	handler := succeedingHandler[archiveReport](pipeline.Fail("Report not found: rep-9"))

	p, err := pipeline.New[archiveReport](handler, pipeline.WithAuditSink(sink))
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), archiveReport{ReportID: "rep-9"})
	require.NoError(t, err)

	// assert
	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "Report not found: rep-9", entries[0].ErrorMessage)
}

func Test_AuditLog_Fault_RecordsFaultMessageAndRethrows(t *testing.T) {
	// setup
	sink := doubles.NewAuditSinkSpy()
	faultErr := errors.New("archive storage offline")
	handler := faultingHandler[archiveReport](faultErr)

	p, err := pipeline.New[archiveReport](handler,
		pipeline.WithAuditSink(sink),
		pipeline.WithoutExceptionHandling(),
	)
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), archiveReport{ReportID: "rep-9"})

	// assert
	assert.ErrorIs(t, err, faultErr)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "archive storage offline", entries[0].ErrorMessage)
}

func Test_AuditLog_SinkFailure_NeverAffectsTheCall(t *testing.T) {
	// setup
	sink := doubles.NewAuditSinkSpy()
	sink.SaveErr = errors.New("audit db down")
	logger := doubles.NewLoggerSpy()

	handler := succeedingHandler[archiveReport](pipeline.OkWith("done"))

	p, err := pipeline.New[archiveReport](handler,
		pipeline.WithAuditSink(sink),
		pipeline.WithContextualLogger(logger),
	)
	require.NoError(t, err)

	// act
	result, err := p.Execute(context.Background(), archiveReport{ReportID: "rep-9"})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, pipeline.OkWith("done"), result)
	assert.NotEmpty(t, logger.MessagesAt("warn"))
}

func Test_AuditLog_NonAuditableRequest_WritesNoEntry(t *testing.T) {
	// setup
	sink := doubles.NewAuditSinkSpy()
	handler := succeedingHandler[plainCommand](pipeline.Ok())

	p, err := pipeline.New[plainCommand](handler, pipeline.WithAuditSink(sink))
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), plainCommand{})
	require.NoError(t, err)

	// assert
	assert.Empty(t, sink.Entries())
}
