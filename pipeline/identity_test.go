package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cqrskit/pipeline-go/pipeline"
)

func Test_Identity_ContextRoundTrip(t *testing.T) {
	identity := pipeline.Identity{
		UserID:   "u1",
		UserName: "lee",
		TenantID: "acme",
		Roles:    []string{"librarian", "admin"},
	}

	ctx := pipeline.WithIdentity(context.Background(), identity)

	got, ok := pipeline.IdentityFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, identity, got)

	_, ok = pipeline.IdentityFrom(context.Background())
	assert.False(t, ok)
}

func Test_ContextUserProvider_ResolvesFromContext(t *testing.T) {
	provider := pipeline.ContextUserProvider{}
	ctx := pipeline.WithIdentity(context.Background(), pipeline.Identity{
		UserID:   "u1",
		UserName: "lee",
		TenantID: "acme",
		Roles:    []string{"librarian"},
	})

	assert.True(t, provider.IsAuthenticated(ctx))
	assert.Equal(t, "u1", provider.UserID(ctx))
	assert.Equal(t, "lee", provider.UserName(ctx))
	assert.Equal(t, "acme", provider.TenantID(ctx))
	assert.True(t, provider.IsInRole(ctx, "librarian"))
	assert.False(t, provider.IsInRole(ctx, "admin"))
}

func Test_ContextUserProvider_EmptyContext_IsAnonymous(t *testing.T) {
	provider := pipeline.ContextUserProvider{}
	ctx := context.Background()

	assert.False(t, provider.IsAuthenticated(ctx))
	assert.Empty(t, provider.UserID(ctx))
	assert.False(t, provider.IsInRole(ctx, "librarian"))
}

func Test_ContextUserProvider_IdentityWithoutUserID_IsNotAuthenticated(t *testing.T) {
	provider := pipeline.ContextUserProvider{}
	ctx := pipeline.WithIdentity(context.Background(), pipeline.Identity{TenantID: "acme"})

	assert.False(t, provider.IsAuthenticated(ctx))
}
