package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

// Transaction is one top-level unit of work or a sub-operation of one.
type Transaction struct {
	id    string
	main  *Transaction
	sink  diag.Sink
	notes map[string]any
}

// New creates a root transaction reporting diagnostics to sink.
func New(sink diag.Sink) *Transaction {
	if sink == nil {
		sink = diag.Discard
	}
	return &Transaction{
		id:    uuid.NewString(),
		sink:  sink,
		notes: make(map[string]any),
	}
}

// Sub creates a sub-operation of tx. It shares the root's notes and sink.
func (tx *Transaction) Sub() *Transaction {
	root := tx.Main()
	return &Transaction{id: root.id, main: root, sink: root.sink}
}

// Main returns the root transaction. A root is its own main.
func (tx *Transaction) Main() *Transaction {
	if tx.main != nil {
		return tx.main
	}
	return tx
}

// IsMain reports whether tx is a root transaction.
func (tx *Transaction) IsMain() bool {
	return tx.main == nil
}

// ID returns the root transaction's id.
func (tx *Transaction) ID() string {
	return tx.id
}

// Sink returns the diagnostic sink for the transaction.
func (tx *Transaction) Sink() diag.Sink {
	return tx.sink
}

// Get returns the note stored under key.
func (tx *Transaction) Get(key string) (any, bool) {
	v, ok := tx.Main().notes[key]
	return v, ok
}

// Set stores value under key, replacing any previous note. The value is
// held by reference.
func (tx *Transaction) Set(key string, value any) {
	tx.Main().notes[key] = value
}

// Remove deletes the note under key and returns it.
func (tx *Transaction) Remove(key string) (any, bool) {
	notes := tx.Main().notes
	v, ok := notes[key]
	if ok {
		delete(notes, key)
	}
	return v, ok
}

// Len returns the number of notes on the root.
func (tx *Transaction) Len() int {
	return len(tx.Main().notes)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying tx.
func NewContext(ctx context.Context, tx *Transaction) context.Context {
	return context.WithValue(ctx, contextKey{}, tx)
}

// FromContext returns the transaction carried by ctx.
func FromContext(ctx context.Context) (*Transaction, bool) {
	tx, ok := ctx.Value(contextKey{}).(*Transaction)
	return tx, ok
}
