package addbookcopy

import (
	"context"

	"github.com/cqrskit/pipeline-go/example/core"
	"github.com/cqrskit/pipeline-go/pipeline"
)

// CommandHandler executes the add book copy use case against the book
// repository. Cross-cutting concerns are handled by the pipeline the
// handler is composed into.
type CommandHandler struct {
	repository core.BookRepository
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(repository core.BookRepository) CommandHandler {
	return CommandHandler{repository: repository}
}

// Handle adds the book copy to circulation. Adding a copy that already
// exists is a business failure, not a fault.
func (h CommandHandler) Handle(ctx context.Context, command Command) (pipeline.Result, error) {
	_, exists, err := h.repository.ByID(ctx, command.BookID)
	if err != nil {
		return pipeline.Result{}, err
	}

	if exists {
		return pipeline.Fail("book copy is already in circulation"), nil
	}

	bookCopy := core.BookCopy{
		ID:            command.BookID,
		ISBN:          command.ISBN,
		Title:         command.Title,
		Authors:       command.Authors,
		AddedAt:       command.OccurredAt,
		InCirculation: true,
	}

	if saveErr := h.repository.Save(ctx, bookCopy); saveErr != nil {
		return pipeline.Result{}, saveErr
	}

	return pipeline.Ok(), nil
}
