package pipeline

import (
	"context"
	"fmt"
	"strings"
)

const (
	logMsgNoUserProvider = "authorization skipped: no current-user provider configured"
	logMsgNoAuthProvider = "authorization requirement names a policy but no authorization provider is configured"

	msgAuthenticationRequired = "authentication required"
)

// authorizationBehavior enforces the authorization requirements declared
// on the request type. Role lists within one requirement use OR
// semantics; requirements combine with AND semantics, and the first
// failing requirement's message becomes the failure Result's error.
//
// When no current-user provider is configured the behavior logs a
// warning and passes through. This fail-open stance is preserved from
// the observed system as a configuration-dependent trade-off, not a
// recommendation; configure a provider in any deployment that declares
// authorization requirements.
type authorizationBehavior struct {
	loggers      loggers
	applies      bool
	userProvider CurrentUserProvider
	authProvider AuthorizationProvider
}

func (b *authorizationBehavior) Order() int {
	return OrderAuthorization
}

func (b *authorizationBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if !b.applies {
		return next(ctx)
	}

	requirements := request.(RequiresAuthorization).AuthorizationRequirements()
	if len(requirements) == 0 {
		return next(ctx)
	}

	if b.userProvider == nil {
		b.loggers.warn(ctx, logMsgNoUserProvider)
		return next(ctx)
	}

	if !b.userProvider.IsAuthenticated(ctx) {
		return Fail(msgAuthenticationRequired), nil
	}

	for _, requirement := range requirements {
		result, err := b.check(ctx, requirement)
		if err != nil {
			return Result{}, err
		}

		if !result.Success {
			return result, nil
		}
	}

	return next(ctx)
}

// check evaluates one requirement against the current caller.
func (b *authorizationBehavior) check(ctx context.Context, requirement AuthorizationRequirement) (Result, error) {
	if requirement.Roles != "" {
		if !b.holdsAnyRole(ctx, requirement.Roles) {
			return Fail(fmt.Sprintf("authorization failed: requires one of the roles [%s]", requirement.Roles)), nil
		}
	}

	if requirement.Policy != "" {
		if b.authProvider == nil {
			b.loggers.warn(ctx, logMsgNoAuthProvider, "policy", requirement.Policy)
			return Fail(fmt.Sprintf("authorization failed: policy %q cannot be evaluated", requirement.Policy)), nil
		}

		granted, err := b.authProvider.Authorize(ctx, b.userProvider.UserID(ctx), requirement.Policy)
		if err != nil {
			return Result{}, err
		}

		if !granted {
			return Fail(fmt.Sprintf("authorization failed: policy %q denied", requirement.Policy)), nil
		}
	}

	return Ok(), nil
}

func (b *authorizationBehavior) holdsAnyRole(ctx context.Context, roles string) bool {
	for _, role := range strings.Split(roles, ",") {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}

		if b.userProvider.IsInRole(ctx, role) {
			return true
		}
	}

	return false
}
