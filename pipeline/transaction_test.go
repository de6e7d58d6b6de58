package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqrskit/pipeline-go/pipeline"
	"github.com/cqrskit/pipeline-go/testutil/doubles"
)

func Test_Transaction_SuccessfulCommand_PersistsAndCommits(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	handler := succeedingHandler[plainCommand](pipeline.Ok())

	p, err := pipeline.New[plainCommand](handler, pipeline.WithTransactionProvider(provider))
	require.NoError(t, err)

	// act
	result, err := p.Execute(context.Background(), plainCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, result.Success)

	tx := provider.Last()
	require.NotNil(t, tx)
	assert.Equal(t, 1, tx.PersistCalls())
	assert.Equal(t, 1, tx.CommitCalls())
	assert.Zero(t, tx.RollbackCalls())
}

func Test_Transaction_BusinessFailure_RollsBackAndReturnsResultUnchanged(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	handler := succeedingHandler[plainCommand](pipeline.Fail("quota exceeded"))

	p, err := pipeline.New[plainCommand](handler, pipeline.WithTransactionProvider(provider))
	require.NoError(t, err)

	// act
	result, err := p.Execute(context.Background(), plainCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, pipeline.Fail("quota exceeded"), result)

	tx := provider.Last()
	require.NotNil(t, tx)
	assert.Equal(t, 1, tx.RollbackCalls())
	assert.Zero(t, tx.CommitCalls())
	assert.Zero(t, tx.PersistCalls())
}

func Test_Transaction_Fault_RollsBackAndRethrowsUnchanged(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	faultErr := errors.New("connection reset")
	handler := faultingHandler[plainCommand](faultErr)

	p, err := pipeline.New[plainCommand](handler,
		pipeline.WithTransactionProvider(provider),
		pipeline.WithoutExceptionHandling(),
	)
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), plainCommand{})

	// assert
	assert.ErrorIs(t, err, faultErr)

	tx := provider.Last()
	require.NotNil(t, tx)
	assert.Equal(t, 1, tx.RollbackCalls())
	assert.Zero(t, tx.CommitCalls())
}

func Test_Transaction_NeverAppliesToQueries(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	handler := succeedingHandler[plainQuery](pipeline.Ok())

	p, err := pipeline.New[plainQuery](handler, pipeline.WithTransactionProvider(provider))
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), plainQuery{})

	// assert
	assert.NoError(t, err)
	assert.Zero(t, provider.BeginCalls())
}

func Test_Transaction_PersistError_RollsBack(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	provider.PersistErr = errors.New("flush failed")
	handler := succeedingHandler[plainCommand](pipeline.Ok())

	p, err := pipeline.New[plainCommand](handler,
		pipeline.WithTransactionProvider(provider),
		pipeline.WithoutExceptionHandling(),
	)
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), plainCommand{})

	// assert
	assert.Error(t, err)

	tx := provider.Last()
	require.NotNil(t, tx)
	assert.Equal(t, 1, tx.RollbackCalls())
	assert.Zero(t, tx.CommitCalls())
}

func Test_Transaction_Cancellation_RollsBackAndPropagates(t *testing.T) {
	// setup
	provider := doubles.NewTransactionProviderSpy()
	handler := faultingHandler[plainCommand](context.Canceled)

	p, err := pipeline.New[plainCommand](handler, pipeline.WithTransactionProvider(provider))
	require.NoError(t, err)

	// act
	_, err = p.Execute(context.Background(), plainCommand{})

	// assert: rollback applies to cancellation exactly as to any fault,
	// but the cancellation itself is never converted.
	assert.ErrorIs(t, err, context.Canceled)

	tx := provider.Last()
	require.NotNil(t, tx)
	assert.Equal(t, 1, tx.RollbackCalls())
}
