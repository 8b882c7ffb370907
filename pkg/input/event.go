package input

import (
	"time"

	"github.com/go-drift/plane/pkg/graphics"
)

// Button identifies a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Key names a keyboard key in lowercase, e.g. "a", "escape", "arrowleft".
type Key string

// Named keys.
const (
	KeyShift      Key = "shift"
	KeyControl    Key = "control"
	KeyAlt        Key = "alt"
	KeyMeta       Key = "meta"
	KeySpace      Key = "space"
	KeyEscape     Key = "escape"
	KeyEnter      Key = "enter"
	KeyTab        Key = "tab"
	KeyBackspace  Key = "backspace"
	KeyDelete     Key = "delete"
	KeyHome       Key = "home"
	KeyEnd        Key = "end"
	KeyArrowUp    Key = "arrowup"
	KeyArrowDown  Key = "arrowdown"
	KeyArrowLeft  Key = "arrowleft"
	KeyArrowRight Key = "arrowright"
	KeyDead       Key = "dead"
)

// IsModifier reports whether k is one of the modifier keys.
func (k Key) IsModifier() bool {
	switch k {
	case KeyShift, KeyControl, KeyAlt, KeyMeta:
		return true
	}
	return false
}

// Event is one raw input event after normalization by the host.
type Event struct {
	Kind Kind
	// Position is the pointer position in screen coordinates.
	Position  graphics.Offset
	Button    Button
	Modifiers Modifier
	Key       Key
	// Text is the inserted text for TextInput events.
	Text string
	// DeltaX and DeltaY are wheel deltas.
	DeltaX float64
	DeltaY float64
	// Device is the wheel source as classified by the collector.
	Device Device
	// Clicks is the click count for pointer-down events (1, 2 or 3).
	Clicks int
	// Data carries clipboard or drag payloads keyed by MIME type.
	Data      map[string]string
	Timestamp time.Time

	prevented bool
}

// PreventDefault marks the event as consumed so the host suppresses its
// default action.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Shift, Ctrl, Alt and Meta report modifier state.
func (e *Event) Shift() bool { return e.Modifiers.Has(ModShift) }
func (e *Event) Ctrl() bool  { return e.Modifiers.Has(ModCtrl) }
func (e *Event) Alt() bool   { return e.Modifiers.Has(ModAlt) }
func (e *Event) Meta() bool  { return e.Modifiers.Has(ModMeta) }
