// Package verifier runs the unseal, decode and freshness pipeline for tokens
// carried by a request and memoizes the result in the request's note store.
//
// A token verified once in a transaction is returned from the store to every
// later sub-operation of the same transaction that presents the same sealed
// bytes, as long as it has not expired. Different bytes are verified in full
// and replace the note on success.
package verifier
