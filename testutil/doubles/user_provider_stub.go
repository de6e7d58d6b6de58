package doubles

import (
	"context"
	"slices"

	"github.com/cqrskit/pipeline-go/pipeline"
)

// UserProviderStub is a pipeline.CurrentUserProvider returning a fixed
// caller, ignoring the context.
type UserProviderStub struct {
	Authenticated bool
	ID            string
	Name          string
	Tenant        string
	Roles         []string
}

// IsAuthenticated implements the pipeline.CurrentUserProvider interface.
func (s *UserProviderStub) IsAuthenticated(_ context.Context) bool { return s.Authenticated }

// UserID implements the pipeline.CurrentUserProvider interface.
func (s *UserProviderStub) UserID(_ context.Context) string { return s.ID }

// UserName implements the pipeline.CurrentUserProvider interface.
func (s *UserProviderStub) UserName(_ context.Context) string { return s.Name }

// TenantID implements the pipeline.CurrentUserProvider interface.
func (s *UserProviderStub) TenantID(_ context.Context) string { return s.Tenant }

// IsInRole implements the pipeline.CurrentUserProvider interface.
func (s *UserProviderStub) IsInRole(_ context.Context, role string) bool {
	return slices.Contains(s.Roles, role)
}

// AuthorizationProviderStub is a pipeline.AuthorizationProvider granting
// exactly the listed policies.
type AuthorizationProviderStub struct {
	Granted []string
	Err     error
}

// Authorize implements the pipeline.AuthorizationProvider interface.
func (s *AuthorizationProviderStub) Authorize(_ context.Context, _ string, policy string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}

	return slices.Contains(s.Granted, policy), nil
}

var _ pipeline.CurrentUserProvider = (*UserProviderStub)(nil)
var _ pipeline.AuthorizationProvider = (*AuthorizationProviderStub)(nil)
