// Package booksincirculation implements the Books In Circulation query
// use case.
//
// This is a read-only operation; its results are cacheable for a short
// window, so the composed pipeline serves repeats from the cache store.
package booksincirculation
