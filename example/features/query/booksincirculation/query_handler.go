package booksincirculation

import (
	"context"

	"github.com/cqrskit/pipeline-go/example/core"
	"github.com/cqrskit/pipeline-go/pipeline"
)

// QueryHandler executes the books in circulation query against the book
// repository.
type QueryHandler struct {
	repository core.BookRepository
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(repository core.BookRepository) QueryHandler {
	return QueryHandler{repository: repository}
}

// Handle projects the current circulation list from the repository.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (pipeline.Result, error) {
	copies, err := h.repository.InCirculation(ctx)
	if err != nil {
		return pipeline.Result{}, err
	}

	books := make([]BookInfo, 0, len(copies))
	for _, bookCopy := range copies {
		books = append(books, BookInfo{
			BookID:  bookCopy.ID.String(),
			ISBN:    bookCopy.ISBN,
			Title:   bookCopy.Title,
			Authors: bookCopy.Authors,
			AddedAt: bookCopy.AddedAt,
		})
	}

	return pipeline.OkWith(BooksInCirculation{
		Books: books,
		Count: len(books),
	}), nil
}
