package pipeline

import (
	"context"
	"slices"
)

// Identity is the authenticated caller of a request. It travels in the
// call's context (see WithIdentity) rather than in any ambient or global
// state, so concurrent calls never observe each other's caller.
type Identity struct {
	UserID   string
	UserName string
	TenantID string
	Roles    []string
}

// HasRole reports whether the identity holds the given role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

type identityCtxKey struct{}

type correlationIDCtxKey struct{}

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFrom extracts the caller's identity from the context.
// The second return value is false when no identity is present.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}

// WithCorrelationID returns a context carrying the given correlation
// identifier. The logging behavior generates one if none is present.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDCtxKey{}, correlationID)
}

// CorrelationIDFrom extracts the correlation identifier from the
// context, or returns the empty string when none is present.
func CorrelationIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDCtxKey{}).(string); ok {
		return id
	}

	return ""
}

// CurrentUserProvider supplies the authorization, caching, and audit
// behaviors with the caller's identity. Implementations read from the
// call's context; no global user state is consulted.
type CurrentUserProvider interface {
	IsAuthenticated(ctx context.Context) bool
	UserID(ctx context.Context) string
	UserName(ctx context.Context) string
	TenantID(ctx context.Context) string
	IsInRole(ctx context.Context, role string) bool
}

// ContextUserProvider is the default CurrentUserProvider. It resolves
// the caller from the Identity stored in the context via WithIdentity.
type ContextUserProvider struct{}

// IsAuthenticated implements the CurrentUserProvider interface.
func (ContextUserProvider) IsAuthenticated(ctx context.Context) bool {
	identity, ok := IdentityFrom(ctx)
	return ok && identity.UserID != ""
}

// UserID implements the CurrentUserProvider interface.
func (ContextUserProvider) UserID(ctx context.Context) string {
	identity, _ := IdentityFrom(ctx)
	return identity.UserID
}

// UserName implements the CurrentUserProvider interface.
func (ContextUserProvider) UserName(ctx context.Context) string {
	identity, _ := IdentityFrom(ctx)
	return identity.UserName
}

// TenantID implements the CurrentUserProvider interface.
func (ContextUserProvider) TenantID(ctx context.Context) string {
	identity, _ := IdentityFrom(ctx)
	return identity.TenantID
}

// IsInRole implements the CurrentUserProvider interface.
func (ContextUserProvider) IsInRole(ctx context.Context, role string) bool {
	identity, ok := IdentityFrom(ctx)
	return ok && identity.HasRole(role)
}

// AuthorizationProvider evaluates named authorization policies for the
// authorization behavior.
type AuthorizationProvider interface {
	Authorize(ctx context.Context, userID string, policy string) (bool, error)
}
