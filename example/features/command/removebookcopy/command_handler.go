package removebookcopy

import (
	"context"

	"github.com/cqrskit/pipeline-go/example/core"
	"github.com/cqrskit/pipeline-go/pipeline"
)

// CommandHandler executes the remove book copy use case against the
// book repository. Cross-cutting concerns are handled by the pipeline
// the handler is composed into.
type CommandHandler struct {
	repository core.BookRepository
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(repository core.BookRepository) CommandHandler {
	return CommandHandler{repository: repository}
}

// Handle removes the book copy from circulation. Removing an unknown
// copy is a fault carrying a domain error, so the caller sees the
// not-found message instead of a generic one. Removing a copy that is
// already out of circulation is a no-op success, the desired state is
// already reached.
func (h CommandHandler) Handle(ctx context.Context, command Command) (pipeline.Result, error) {
	bookCopy, exists, err := h.repository.ByID(ctx, command.BookID)
	if err != nil {
		return pipeline.Result{}, err
	}

	if !exists {
		return pipeline.Result{}, pipeline.NewNotFoundError(auditEntityType, command.BookID)
	}

	if !bookCopy.InCirculation {
		return pipeline.Ok(), nil
	}

	bookCopy.InCirculation = false

	if saveErr := h.repository.Save(ctx, bookCopy); saveErr != nil {
		return pipeline.Result{}, saveErr
	}

	return pipeline.Ok(), nil
}
