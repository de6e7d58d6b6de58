package pipeline

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	logMsgIdempotentReplay       = "duplicate submission replayed from idempotency record"
	logMsgIdempotencyRemoveError = "failed to remove idempotency record after fault"
	logMsgIdempotencySaveError   = "failed to record completed idempotency response"

	msgRequestInFlight = "a request with this idempotency key is currently being processed"

	resultResponseType = "pipeline.Result"
)

// idempotencyBehavior deduplicates repeated submissions of the same
// logical command by its caller-supplied idempotency key.
//
// A completed record replays the stored response without invoking the
// handler; an in-flight record short-circuits with a conflict failure;
// an absent record is claimed as Processing before the handler runs and
// either completed with the serialized response or, on fault, deleted so
// an identical request may retry.
type idempotencyBehavior struct {
	loggers     loggers
	applies     bool
	store       IdempotencyStore
	expiry      time.Duration
	requestType string
	clock       func() time.Time
}

func (b *idempotencyBehavior) Order() int {
	return OrderIdempotency
}

func (b *idempotencyBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if !b.applies || b.store == nil {
		return next(ctx)
	}

	key := request.(HasIdempotencyKey).IdempotencyKey()
	if key == "" {
		return next(ctx)
	}

	record, found, err := b.store.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}

	if found {
		switch record.Status {
		case IdempotencyCompleted:
			return b.replay(ctx, record)
		case IdempotencyProcessing:
			return Fail(msgRequestInFlight), nil
		case IdempotencyFailed:
			// A marked failure does not block retry; fall through and
			// claim the key again.
		}
	}

	now := b.clock().UTC()
	record = IdempotencyRecord{
		Key:          key,
		RequestType:  b.requestType,
		ResponseType: resultResponseType,
		Status:       IdempotencyProcessing,
		CreatedAt:    now,
		ExpiresAt:    now.Add(b.expiry),
	}

	if saveErr := b.store.Save(ctx, record); saveErr != nil {
		if errors.Is(saveErr, ErrIdempotencyKeyConflict) {
			return Fail(msgRequestInFlight), nil
		}

		return Result{}, saveErr
	}

	response, err := next(ctx)
	if err != nil {
		b.remove(ctx, key)
		return Result{}, err
	}

	record.Status = IdempotencyCompleted
	record.Response, err = jsoniter.ConfigFastest.Marshal(response)
	if err == nil {
		err = b.store.Save(ctx, record)
	}

	if err != nil {
		// The call itself succeeded; a bookkeeping failure must not undo
		// that. Drop the record so a duplicate re-executes instead of
		// waiting on a Processing record forever.
		b.loggers.warn(ctx, logMsgIdempotencySaveError, "key", key, "error", err)
		b.remove(ctx, key)
	}

	return response, nil
}

// replay deserializes and returns the stored response verbatim.
func (b *idempotencyBehavior) replay(ctx context.Context, record IdempotencyRecord) (Result, error) {
	var response Result
	if err := jsoniter.ConfigFastest.Unmarshal(record.Response, &response); err != nil {
		return Result{}, err
	}

	b.loggers.debug(ctx, logMsgIdempotentReplay, "key", record.Key, "request_type", record.RequestType)

	return response, nil
}

// remove deletes the record so a future identical request may retry.
// Cleanup must survive cancellation of the original call.
func (b *idempotencyBehavior) remove(ctx context.Context, key string) {
	removeCtx := context.WithoutCancel(ctx)
	if err := b.store.Remove(removeCtx, key); err != nil {
		b.loggers.warn(ctx, logMsgIdempotencyRemoveError, "key", key, "error", err)
	}
}
