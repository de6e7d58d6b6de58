package pipeline

import (
	"context"
	"errors"
)

const (
	logMsgDomainFault    = "domain fault converted to failure result"
	logMsgUnhandledFault = "unhandled fault converted to generic failure result"
)

// exceptionBehavior is the outermost stage. It converts recognized
// domain faults into failure Results carrying their own message and any
// other fault into a failure Result carrying a fixed generic message, so
// callers never need an error branch for business-rule violations.
// Cancellation is always re-returned as an error, never converted.
type exceptionBehavior struct {
	loggers loggers
}

func (b *exceptionBehavior) Order() int {
	return OrderExceptionHandling
}

func (b *exceptionBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	result, err := next(ctx)
	if err == nil {
		return result, nil
	}

	if IsCancellation(err) {
		return Result{}, err
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		b.loggers.debug(ctx, logMsgDomainFault, logAttrError, err)
		return Fail(domainErr.Error()), nil
	}

	b.loggers.error(ctx, logMsgUnhandledFault, logAttrError, err)

	return Fail(GenericFailureMessage), nil
}
