package input

import (
	"time"

	"github.com/go-drift/plane/pkg/graphics"
)

// ClickTracker counts consecutive clicks for double and triple click
// detection.
type ClickTracker struct {
	// MaxInterval is the longest gap between clicks of one sequence.
	MaxInterval time.Duration
	// MaxDistance is the largest Manhattan distance between clicks of one
	// sequence.
	MaxDistance float64

	lastPos   graphics.Offset
	lastTime  time.Time
	lastCount int
}

// NewClickTracker returns a tracker with the given thresholds.
func NewClickTracker(maxInterval time.Duration, maxDistance float64) *ClickTracker {
	return &ClickTracker{MaxInterval: maxInterval, MaxDistance: maxDistance}
}

// Record registers a click and returns its count within the current
// sequence. The count wraps back to 1 after 3.
func (t *ClickTracker) Record(pos graphics.Offset, at time.Time) int {
	if t.continues(pos, at) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}
	t.lastPos = pos
	t.lastTime = at
	return t.lastCount
}

func (t *ClickTracker) continues(pos graphics.Offset, at time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.MaxInterval {
		return false
	}
	return pos.Manhattan(t.lastPos) <= t.MaxDistance
}

// Count returns the count of the most recent click.
func (t *ClickTracker) Count() int {
	return t.lastCount
}

// Reset forgets the current sequence.
func (t *ClickTracker) Reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
}
