package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const (
	logMsgAuditSaveFailed    = "failed to write audit log entry"
	logMsgAuditMarshalFailed = "failed to serialize request for audit log entry"
)

// auditLogBehavior records the outcome of every auditable call: success,
// business failure, or fault. Exactly one entry is written per
// invocation attempt. Auditing is best-effort by contract: a failure
// while writing the entry itself is logged as a warning and never
// affects the call's outcome.
type auditLogBehavior struct {
	loggers      loggers
	applies      bool
	sink         AuditSink
	userProvider CurrentUserProvider
	clock        func() time.Time
}

func (b *auditLogBehavior) Order() int {
	return OrderAuditLog
}

func (b *auditLogBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if !b.applies || b.sink == nil {
		return next(ctx)
	}

	result, err := next(ctx)

	entry := b.buildEntry(ctx, request, result, err)

	// The entry must be written even when the call was canceled.
	saveCtx := context.WithoutCancel(ctx)
	if saveErr := b.sink.Save(saveCtx, entry); saveErr != nil {
		b.loggers.warn(ctx, logMsgAuditSaveFailed, "action", entry.Action, "error", saveErr)
	}

	return result, err
}

func (b *auditLogBehavior) buildEntry(ctx context.Context, request any, result Result, err error) AuditLogEntry {
	descriptor := request.(Auditable).AuditDescriptor()

	entry := AuditLogEntry{
		ID:         uuid.New(),
		Action:     descriptor.Action,
		EntityType: descriptor.EntityType,
		EntityID:   descriptor.EntityID,
		OccurredAt: b.clock().UTC(),
		Success:    err == nil && result.Success,
	}

	switch {
	case err != nil:
		entry.ErrorMessage = err.Error()
	case !result.Success:
		entry.ErrorMessage = result.Error
	}

	if b.userProvider != nil {
		entry.UserID = b.userProvider.UserID(ctx)
		entry.UserName = b.userProvider.UserName(ctx)
		entry.TenantID = b.userProvider.TenantID(ctx)
	}

	entry.Request = b.marshal(ctx, request)
	if len(descriptor.ExtraData) > 0 {
		entry.ExtraData = b.marshal(ctx, descriptor.ExtraData)
	}

	return entry
}

func (b *auditLogBehavior) marshal(ctx context.Context, value any) []byte {
	raw, err := jsoniter.ConfigFastest.Marshal(value)
	if err != nil {
		b.loggers.warn(ctx, logMsgAuditMarshalFailed, "error", err)
		return []byte("{}")
	}

	return raw
}
