// Package removebookcopy implements the Remove Book Copy use case.
//
// The command is validated, requires the "librarian" role, carries a
// client-supplied idempotency key so duplicate submissions execute at
// most once, and is audited.
package removebookcopy
