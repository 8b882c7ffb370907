// Package txn defines the transaction boundary that behaviors write through.
//
// Durable storage is not part of plane. A host supplies a Transactor; tests
// and the terminal demo use Memory, which keeps committed entries in a
// journal.
package txn

import (
	"context"

	"github.com/go-drift/plane/pkg/reactive"
)

// Transactor runs fn inside a transaction. A nil error from fn commits; any
// error aborts and is returned wrapped. Calls made with a context that
// already carries a transaction join it instead of starting a new one.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(Tx) error) error
}

// Tx is an open transaction.
type Tx interface {
	// ID is unique per transaction.
	ID() string
	// Context carries the transaction, for nested WithTransaction calls.
	Context() context.Context
	// Record adds an entry to the transaction.
	Record(e Entry)
	// OnPrecommit runs fn before the commit. An error aborts the transaction.
	OnPrecommit(fn func(Tx) error)
	// OnPostcommit runs fn after a successful commit.
	OnPostcommit(fn func())
	// OnAbort runs fn when the transaction aborts.
	OnAbort(fn func())
}

// Entry is one recorded mutation.
type Entry struct {
	Op     string
	Target string
	Value  any
}

type ctxKey struct{}

// FromContext returns the transaction carried by ctx.
func FromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(Tx)
	return tx, ok
}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// Change returns the change metadata for writes made inside tx.
func Change(tx Tx) reactive.Change {
	return reactive.Change{Origin: reactive.OriginUser, Tx: tx.ID()}
}
