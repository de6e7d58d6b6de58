package removebookcopy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cqrskit/pipeline-go/pipeline"
)

const (
	commandType = "RemoveBookCopy"

	auditAction     = "remove"
	auditEntityType = "BookCopy"

	librarianRole = "librarian"
)

// Command represents the intent to remove a book copy from circulation.
// It encapsulates all the necessary information required to execute the remove book copy use case.
type Command struct {
	BookID     uuid.UUID
	Key        string
	OccurredAt time.Time
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// IdempotencyKey marks the command as idempotent: duplicate submissions
// with the same key execute at most once.
func (c Command) IdempotencyKey() string {
	return c.Key
}

// AuditDescriptor marks the command as audited.
func (c Command) AuditDescriptor() pipeline.AuditDescriptor {
	return pipeline.AuditDescriptor{
		Action:     auditAction,
		EntityType: auditEntityType,
		EntityID:   c.BookID.String(),
	}
}

// AuthorizationRequirements restricts removal to librarians.
func (c Command) AuthorizationRequirements() []pipeline.AuthorizationRequirement {
	return []pipeline.AuthorizationRequirement{
		{Roles: librarianRole},
	}
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, idempotencyKey string, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		Key:        idempotencyKey,
		OccurredAt: occurredAt,
	}
}

// NewValidator creates the validator for this command.
func NewValidator() pipeline.Validator {
	return pipeline.NewValidator(func(_ context.Context, command Command) []string {
		var messages []string

		if command.BookID == uuid.Nil {
			messages = append(messages, "book id must not be empty")
		}

		return messages
	})
}
