package dispatch

import "time"

// Clock provides event timestamps and dispatch timings. Tests inject a fake
// clock to control click sequences deterministically.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
