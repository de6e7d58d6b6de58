package core

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// BookRepository defines the persistence interface the feature slices
// need for book copies.
type BookRepository interface {
	ByID(ctx context.Context, id uuid.UUID) (BookCopy, bool, error)
	Save(ctx context.Context, bookCopy BookCopy) error
	InCirculation(ctx context.Context) ([]BookCopy, error)
}

// InMemoryBookRepository implements BookRepository with a mutex-guarded
// map. The example keeps its domain persistence in memory; the durable
// integrations live in the store collaborators wired into the pipeline.
type InMemoryBookRepository struct {
	mu     sync.RWMutex
	copies map[uuid.UUID]BookCopy
}

// NewInMemoryBookRepository creates an empty InMemoryBookRepository.
func NewInMemoryBookRepository() *InMemoryBookRepository {
	return &InMemoryBookRepository{
		copies: make(map[uuid.UUID]BookCopy),
	}
}

// ByID implements the BookRepository interface.
func (r *InMemoryBookRepository) ByID(_ context.Context, id uuid.UUID) (BookCopy, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookCopy, ok := r.copies[id]

	return bookCopy, ok, nil
}

// Save implements the BookRepository interface.
func (r *InMemoryBookRepository) Save(_ context.Context, bookCopy BookCopy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.copies[bookCopy.ID] = bookCopy

	return nil
}

// InCirculation implements the BookRepository interface. Copies are
// returned sorted by the time they were added, oldest first.
func (r *InMemoryBookRepository) InCirculation(_ context.Context) ([]BookCopy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inCirculation := make([]BookCopy, 0, len(r.copies))
	for _, bookCopy := range r.copies {
		if bookCopy.InCirculation {
			inCirculation = append(inCirculation, bookCopy)
		}
	}

	slices.SortFunc(inCirculation, func(a, b BookCopy) int {
		return a.AddedAt.Compare(b.AddedAt)
	})

	return inCirculation, nil
}
