package booksincirculation

import (
	"time"
)

const (
	queryType = "BooksInCirculation"

	cacheKey      = "all"
	cacheDuration = 30 * time.Second
)

// Query represents the request for all books currently in circulation.
type Query struct{}

// QueryType returns the type of this query for observability and routing purposes.
func (q Query) QueryType() string {
	return queryType
}

// CacheKey marks the query as cacheable. The circulation list is the
// same for every caller within a tenant, so a constant key suffices;
// the caching stage segments by tenant and user on top of it.
func (q Query) CacheKey() string {
	return cacheKey
}

// CacheDuration bounds the staleness of a cached circulation list.
func (q Query) CacheDuration() time.Duration {
	return cacheDuration
}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}
