package behaviors

import (
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/focus"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/selection"
)

// KeyFocus moves focus with the keyboard. Arrows move focus geometrically,
// tab and shift-tab move it in tree order, escape clears the selection or
// moves focus to the nearest focusable ancestor, and enter moves it into the
// first focusable descendant. Shift-arrows extend the selection to the newly
// focused node.
type KeyFocus struct {
	*core.HandlerTable

	focus *focus.State
	sel   *selection.State
}

// NewKeyFocus returns a key-focus behavior. sel may be nil.
func NewKeyFocus(fs *focus.State, sel *selection.State) *KeyFocus {
	b := &KeyFocus{focus: fs, sel: sel}
	b.HandlerTable = core.NewHandlerTable("KeyFocus", map[input.Kind]core.HandlerFunc{
		input.KeyDown: b.keyDown,
	})
	return b
}

var arrows = map[input.Key]focus.Direction{
	input.KeyArrowUp:    focus.DirectionUp,
	input.KeyArrowDown:  focus.DirectionDown,
	input.KeyArrowLeft:  focus.DirectionLeft,
	input.KeyArrowRight: focus.DirectionRight,
}

func focusable(n *core.Node) bool { return n.Config().Focusable }

func (b *KeyFocus) keyDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	cur := b.focus.Current()
	switch ev.Key {
	case input.KeyEscape:
		if b.sel != nil && b.sel.Size() > 0 {
			b.sel.Clear()
			return core.Stop
		}
		if cur == b.focus.Root() {
			return core.Continue
		}
		if parent := cur.Parent(); parent != nil {
			if target := parent.FindClosest(focusable); target != nil {
				b.focus.SetFocus(target, core.FocusContext{Trigger: core.TriggerKey})
				return core.Stop
			}
		}
		b.focus.Blur()
		return core.Stop
	case input.KeyEnter:
		if cur == b.focus.Root() {
			return core.Continue
		}
		if target := cur.FindChild(focusable); target != nil {
			b.focus.SetFocus(target, core.FocusContext{Trigger: core.TriggerKey, Edge: core.EdgeTop})
		}
		return core.Stop
	case input.KeyTab:
		delta := 1
		if ev.Shift() {
			delta = -1
		}
		b.focus.MoveFocus(delta)
		return core.Stop
	}

	dir, ok := arrows[ev.Key]
	if !ok {
		return core.Decline
	}
	if !b.focus.FocusInDirection(dir) {
		return core.Decline
	}
	if ev.Shift() && b.sel != nil {
		if b.sel.Origin() == nil && cur != b.focus.Root() {
			b.sel.SetSelect(cur)
		}
		b.sel.SelectRange(b.focus.Current())
	}
	return core.Stop
}
