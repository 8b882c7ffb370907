package txn

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/plane/pkg/errors"
)

// Commit is a committed transaction in a Memory journal.
type Commit struct {
	ID      string
	At      time.Time
	Entries []Entry
}

// Memory is an in-memory Transactor that journals committed entries.
type Memory struct {
	// Logger receives commit and abort records. Nil uses slog.Default.
	Logger *slog.Logger
	// Now stamps commits. Nil uses time.Now.
	Now func() time.Time

	mu      sync.Mutex
	commits []Commit
	aborts  int
}

// NewMemory returns an empty journal.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{Logger: logger}
}

type memTx struct {
	id         string
	ctx        context.Context
	entries    []Entry
	precommit  []func(Tx) error
	postcommit []func()
	abort      []func()
}

func (t *memTx) ID() string { return t.id }
func (t *memTx) Context() context.Context { return t.ctx }
func (t *memTx) Record(e Entry) { t.entries = append(t.entries, e) }
func (t *memTx) OnPrecommit(fn func(Tx) error) { t.precommit = append(t.precommit, fn) }
func (t *memTx) OnPostcommit(fn func()) { t.postcommit = append(t.postcommit, fn) }
func (t *memTx) OnAbort(fn func()) { t.abort = append(t.abort, fn) }

// WithTransaction implements Transactor.
func (m *Memory) WithTransaction(ctx context.Context, fn func(Tx) error) (err error) {
	if tx, ok := FromContext(ctx); ok {
		return fn(tx)
	}
	tx := &memTx{id: uuid.NewString()}
	tx.ctx = WithTx(ctx, tx)

	defer func() {
		if r := recover(); r != nil {
			err = m.rollback(tx, errors.CapturePanic("txn.WithTransaction", r))
		}
	}()

	if err := fn(tx); err != nil {
		return m.rollback(tx, err)
	}
	// Precommit hooks may register further precommit hooks.
	for i := 0; i < len(tx.precommit); i++ {
		if err := tx.precommit[i](tx); err != nil {
			return m.rollback(tx, fmt.Errorf("precommit: %w", err))
		}
	}
	if err := ctx.Err(); err != nil {
		return m.rollback(tx, err)
	}

	m.mu.Lock()
	m.commits = append(m.commits, Commit{ID: tx.id, At: m.now(), Entries: tx.entries})
	m.mu.Unlock()
	m.logger().Debug("transaction committed", "tx", tx.id, "entries", len(tx.entries))

	for _, fn := range tx.postcommit {
		fn()
	}
	return nil
}

func (m *Memory) rollback(tx *memTx, cause error) error {
	m.mu.Lock()
	m.aborts++
	m.mu.Unlock()
	m.logger().Debug("transaction aborted", "tx", tx.id, "err", cause)
	for _, fn := range slices.Backward(tx.abort) {
		fn()
	}
	return &errors.PlaneError{
		Op:   "txn.WithTransaction",
		Kind: errors.KindTransaction,
		Err:  cause,
	}
}

// Commits returns a copy of the journal, oldest first.
func (m *Memory) Commits() []Commit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.commits)
}

// Entries returns every committed entry in commit order.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, c := range m.commits {
		out = append(out, c.Entries...)
	}
	return out
}

// Aborts returns how many transactions were rolled back.
func (m *Memory) Aborts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aborts
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
