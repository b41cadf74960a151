// Package request provides the per-transaction note store shared by a
// top-level request and every sub-operation it dispatches.
//
// A Transaction is either a root, created with New, or a sub-operation
// created with Sub. Notes always live on the root, so a token decoded by one
// sub-operation is visible to every other part of the same transaction and
// to nothing outside it.
//
//	tx := request.New(sink)
//	tx.Set(token.KindApp.NoteKey(), tok)
//
//	sub := tx.Sub()
//	v, ok := sub.Get(token.KindApp.NoteKey()) // same tok
//
// Transactions are handled by one goroutine at a time and are not safe for
// concurrent use.
package request
