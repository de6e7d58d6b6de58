// Package core holds the library-lending domain model shared by the
// example feature slices: the book copy entity and its repository.
package core
