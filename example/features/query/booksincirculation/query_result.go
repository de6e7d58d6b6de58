package booksincirculation

import (
	"time"
)

// BookInfo contains the information about a single book copy in circulation.
type BookInfo struct {
	BookID  string    `json:"bookId"`
	ISBN    string    `json:"isbn"`
	Title   string    `json:"title"`
	Authors string    `json:"authors"`
	AddedAt time.Time `json:"addedAt"`
}

// BooksInCirculation is the result of the query: all book copies
// currently in circulation, oldest first, with the total count.
type BooksInCirculation struct {
	Books []BookInfo `json:"books"`
	Count int        `json:"count"`
}
