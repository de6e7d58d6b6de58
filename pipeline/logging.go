package pipeline

import (
	"context"

	"github.com/google/uuid"
)

const (
	logMsgRequestStarted         = "request started"
	logMsgRequestCompleted       = "request completed"
	logMsgRequestBusinessFailure = "request completed with business failure"
	logMsgRequestFaulted         = "request faulted"
	logMsgRequestCanceled        = "request canceled"

	logAttrRequestType   = "request_type"
	logAttrCorrelationID = "correlation_id"
	logAttrError         = "error"
)

// loggingBehavior wraps the call with start and completion (or failure)
// log events carrying a correlation identifier. If the incoming context
// carries none, one is generated and injected so every nested stage and
// the handler observe the same identifier.
type loggingBehavior struct {
	loggers     loggers
	requestType string
}

func (b *loggingBehavior) Order() int {
	return OrderLogging
}

func (b *loggingBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	correlationID := CorrelationIDFrom(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
		ctx = WithCorrelationID(ctx, correlationID)
	}

	b.loggers.info(ctx, logMsgRequestStarted,
		logAttrRequestType, b.requestType,
		logAttrCorrelationID, correlationID,
	)

	result, err := next(ctx)

	switch {
	case err != nil && IsCancellation(err):
		b.loggers.info(ctx, logMsgRequestCanceled,
			logAttrRequestType, b.requestType,
			logAttrCorrelationID, correlationID,
		)
	case err != nil:
		b.loggers.error(ctx, logMsgRequestFaulted,
			logAttrRequestType, b.requestType,
			logAttrCorrelationID, correlationID,
			logAttrError, err,
		)
	case !result.Success:
		b.loggers.info(ctx, logMsgRequestBusinessFailure,
			logAttrRequestType, b.requestType,
			logAttrCorrelationID, correlationID,
			logAttrError, result.Error,
		)
	default:
		b.loggers.info(ctx, logMsgRequestCompleted,
			logAttrRequestType, b.requestType,
			logAttrCorrelationID, correlationID,
		)
	}

	return result, err
}
