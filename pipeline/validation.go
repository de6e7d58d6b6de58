package pipeline

import (
	"context"
	"strings"
)

// Validator checks one request and returns its failure messages; an
// empty slice means the request is valid. Validators are registered per
// pipeline (and therefore per request type) with WithValidators.
type Validator interface {
	Validate(ctx context.Context, request any) []string
}

// NewValidator adapts a typed validation function to the Validator
// interface. The function only runs for requests of type R; anything
// else passes unchecked, which cannot happen inside a pipeline built for
// R.
func NewValidator[R any](validate func(ctx context.Context, request R) []string) Validator {
	return validatorFunc[R]{validate: validate}
}

type validatorFunc[R any] struct {
	validate func(ctx context.Context, request R) []string
}

func (v validatorFunc[R]) Validate(ctx context.Context, request any) []string {
	typed, ok := request.(R)
	if !ok {
		return nil
	}

	return v.validate(ctx, typed)
}

// validationBehavior runs every registered validator and collects every
// failure message from every one of them, not just the first. If any
// failures exist it short-circuits with the combined message; with zero
// registered validators it behaves as identity.
type validationBehavior struct {
	validators []Validator
}

func (b *validationBehavior) Order() int {
	return OrderValidation
}

func (b *validationBehavior) Handle(ctx context.Context, request any, next Next) (Result, error) {
	if len(b.validators) == 0 {
		return next(ctx)
	}

	var messages []string
	for _, validator := range b.validators {
		messages = append(messages, validator.Validate(ctx, request)...)
	}

	if len(messages) > 0 {
		return Fail(strings.Join(messages, "; ")), nil
	}

	return next(ctx)
}
