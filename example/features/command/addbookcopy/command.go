package addbookcopy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cqrskit/pipeline-go/pipeline"
)

const (
	commandType = "AddBookCopy"

	auditAction     = "add"
	auditEntityType = "BookCopy"
)

// Command represents the intent to add a book copy to circulation.
// It encapsulates all the necessary information required to execute the add book copy use case.
type Command struct {
	BookID     uuid.UUID
	ISBN       string
	Title      string
	Authors    string
	OccurredAt time.Time
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// AuditDescriptor marks the command as audited.
func (c Command) AuditDescriptor() pipeline.AuditDescriptor {
	return pipeline.AuditDescriptor{
		Action:     auditAction,
		EntityType: auditEntityType,
		EntityID:   c.BookID.String(),
		ExtraData:  map[string]any{"isbn": c.ISBN, "title": c.Title},
	}
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, isbn, title, authors string, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ISBN:       isbn,
		Title:      title,
		Authors:    authors,
		OccurredAt: occurredAt,
	}
}

// NewValidator creates the validator for this command: ISBN and title
// must be present, the book id must not be nil.
func NewValidator() pipeline.Validator {
	return pipeline.NewValidator(func(_ context.Context, command Command) []string {
		var messages []string

		if command.BookID == uuid.Nil {
			messages = append(messages, "book id must not be empty")
		}

		if command.ISBN == "" {
			messages = append(messages, "isbn must not be empty")
		}

		if command.Title == "" {
			messages = append(messages, "title must not be empty")
		}

		return messages
	})
}
