package core

import (
	"fmt"

	"github.com/go-drift/plane/pkg/input"
)

// Status is a behavior's verdict on one event.
type Status uint8

const (
	// Ignore means no opinion. It is the zero value and is not traced.
	Ignore Status = iota
	// Decline means explicitly not interested; the next behavior is tried.
	Decline
	// Continue means handled, but later behaviors also see the event.
	Continue
	// Stop means fully handled: the chain ends and the host default action
	// is prevented.
	Stop
	// Native ends the chain and lets the host default action happen.
	Native
)

func (s Status) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Decline:
		return "decline"
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Ends reports whether the status terminates the chain.
func (s Status) Ends() bool {
	return s == Stop || s == Native
}

// Dispatcher is the view of the dispatch engine given to handlers.
type Dispatcher interface {
	// SetGlobalBehaviorOverrides claims kinds for b so that b sees events of
	// those kinds before any tree behavior. active is the node b is working
	// on; it receives pointer events that hit nothing and its destruction
	// releases the claim. It reports whether every kind was granted; kinds
	// already held by another behavior are not.
	SetGlobalBehaviorOverrides(b Behavior, active *Node, kinds ...input.Kind) bool
	// UnsetGlobalBehaviorOverrides releases b's claims on kinds, or on every
	// kind when none are given.
	UnsetGlobalBehaviorOverrides(b Behavior, kinds ...input.Kind)
	// DownKeys is the set of currently pressed keys.
	DownKeys() *input.DownKeys
	// Keymap is the platform shortcut table.
	Keymap() *input.Keymap
	// Defer schedules fn to run after the current dispatch completes.
	Defer(fn func())
}

// HandlerFunc handles one event that reached origin.
type HandlerFunc func(d Dispatcher, ev *input.Event, origin *Node) Status

// Behavior is a set of event handlers. Handler returns nil for kinds the
// behavior does not handle. Behaviors are compared by identity, so
// implementations must be comparable; pointer types are the norm.
type Behavior interface {
	Handler(kind input.Kind) HandlerFunc
}

// Named is implemented by behaviors that want a readable trace name.
type Named interface {
	Name() string
}

// BehaviorName returns the trace name of b.
func BehaviorName(b Behavior) string {
	if n, ok := b.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", b)
}

// HandlerTable is a Behavior built from a map of handlers.
type HandlerTable struct {
	name     string
	handlers map[input.Kind]HandlerFunc
}

// NewHandlerTable returns a behavior named name that routes each kind in
// handlers to its function.
func NewHandlerTable(name string, handlers map[input.Kind]HandlerFunc) *HandlerTable {
	return &HandlerTable{name: name, handlers: handlers}
}

// Handler implements Behavior.
func (t *HandlerTable) Handler(kind input.Kind) HandlerFunc {
	return t.handlers[kind]
}

// Name implements Named.
func (t *HandlerTable) Name() string {
	return t.name
}

// On adds or replaces the handler for kind.
func (t *HandlerTable) On(kind input.Kind, fn HandlerFunc) *HandlerTable {
	if t.handlers == nil {
		t.handlers = map[input.Kind]HandlerFunc{}
	}
	t.handlers[kind] = fn
	return t
}
