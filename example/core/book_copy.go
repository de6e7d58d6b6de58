package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCopy represents one physical copy of a book owned by the library.
type BookCopy struct {
	ID            uuid.UUID
	ISBN          string
	Title         string
	Authors       string
	AddedAt       time.Time
	InCirculation bool
}
