package dispatch

import (
	"strings"
	"sync"
	"time"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/input"
)

const traceCapacityDefault = 256

// TraceEntry is one behavior's part in a dispatch.
type TraceEntry struct {
	Behavior string
	Status   core.Status
	// Override marks the global override that ran ahead of the chain.
	Override bool
	// Skipped marks a behavior that had a handler but was not run because an
	// earlier behavior ended the chain.
	Skipped bool
}

func (e TraceEntry) String() string {
	var b strings.Builder
	b.WriteString(e.Behavior)
	switch {
	case e.Skipped:
		b.WriteString("(skipped)")
	case e.Override:
		b.WriteString(" PRIORITY(" + e.Status.String() + ")")
	default:
		b.WriteString("(" + e.Status.String() + ")")
	}
	return b.String()
}

// Record summarizes one dispatched event.
type Record struct {
	Time      time.Time
	Kind      input.Kind
	Origin    string
	Status    core.Status
	Prevented bool
	Duration  time.Duration
	Entries   []TraceEntry
	Err       string
}

func (r Record) chain() string {
	parts := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// TraceLog keeps the most recent dispatch records in a ring buffer. It may be
// read from other goroutines, e.g. a debug endpoint.
type TraceLog struct {
	mu      sync.RWMutex
	records []Record
	index   int
	count   int
}

// NewTraceLog creates a trace log holding up to capacity records.
func NewTraceLog(capacity int) *TraceLog {
	if capacity <= 0 {
		capacity = traceCapacityDefault
	}
	return &TraceLog{records: make([]Record, capacity)}
}

// Capacity returns the buffer capacity.
func (l *TraceLog) Capacity() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Len returns the number of stored records.
func (l *TraceLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Add stores a record, evicting the oldest when full.
func (l *TraceLog) Add(r Record) {
	l.mu.Lock()
	l.records[l.index] = r
	l.index = (l.index + 1) % len(l.records)
	if l.count < len(l.records) {
		l.count++
	}
	l.mu.Unlock()
}

// Snapshot returns the stored records oldest first.
func (l *TraceLog) Snapshot() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, l.count)
	if l.count < len(l.records) {
		copy(out, l.records[:l.count])
		return out
	}
	copy(out, l.records[l.index:])
	copy(out[len(l.records)-l.index:], l.records[:l.index])
	return out
}

// Last returns the most recent record.
func (l *TraceLog) Last() (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.count == 0 {
		return Record{}, false
	}
	i := (l.index - 1 + len(l.records)) % len(l.records)
	return l.records[i], true
}
