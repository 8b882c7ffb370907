package input

import (
	"math"
	"time"
)

// Device is the inferred source of wheel events.
type Device uint8

const (
	DeviceMouse Device = iota
	DeviceTouchpad
)

func (d Device) String() string {
	if d == DeviceTouchpad {
		return "touchpad"
	}
	return "mouse"
}

// IsPinch reports whether a wheel event is a trackpad pinch gesture, which
// hosts deliver as a control-modified wheel with a nonzero delta.
func IsPinch(ev *Event) bool {
	return ev.Ctrl() && (ev.DeltaX != 0 || ev.DeltaY != 0)
}

// WheelClassifier guesses whether recent wheel events came from a mouse or a
// touchpad. Mouse wheels report no horizontal motion; touchpads almost always
// do, and pinches only come from touchpads.
type WheelClassifier struct {
	// Window is how far back events are considered.
	Window time.Duration

	events []wheelSample
	mode   Device
}

type wheelSample struct {
	at     time.Time
	deltaX float64
}

// NewWheelClassifier returns a classifier over the given window.
func NewWheelClassifier(window time.Duration) *WheelClassifier {
	return &WheelClassifier{Window: window}
}

// Add records ev and returns the updated device guess.
func (c *WheelClassifier) Add(ev *Event) Device {
	c.events = append(c.events, wheelSample{at: ev.Timestamp, deltaX: ev.DeltaX})
	evict := ev.Timestamp.Add(-c.Window)
	drop := 0
	for drop < len(c.events) && c.events[drop].at.Before(evict) {
		drop++
	}
	c.events = c.events[drop:]
	c.mode = c.predict(IsPinch(ev))
	return c.mode
}

func (c *WheelClassifier) predict(pinch bool) Device {
	if pinch {
		return DeviceTouchpad
	}
	var total float64
	for _, s := range c.events {
		total += math.Abs(s.deltaX)
	}
	if total == 0 {
		return DeviceMouse
	}
	return DeviceTouchpad
}

// Mode returns the latest guess.
func (c *WheelClassifier) Mode() Device {
	return c.mode
}
