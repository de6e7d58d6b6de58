// Package addbookcopy implements the Add Book Copy use case.
//
// The command is validated (ISBN and title must be present), audited,
// and wrapped in a transaction when the composed pipeline carries a
// transaction provider.
package addbookcopy
