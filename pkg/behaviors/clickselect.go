package behaviors

import (
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/focus"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/selection"
)

// ClickSelect selects on pointer release. A plain click focuses and selects
// the clicked node, a meta-click toggles it, and a shift-click selects the
// range from the selection origin.
type ClickSelect struct {
	*core.HandlerTable

	focus *focus.State
	sel   *selection.State
}

// NewClickSelect returns a click-select behavior.
func NewClickSelect(fs *focus.State, sel *selection.State) *ClickSelect {
	b := &ClickSelect{focus: fs, sel: sel}
	b.HandlerTable = core.NewHandlerTable("ClickSelect", map[input.Kind]core.HandlerFunc{
		input.PointerUp: b.pointerUp,
	})
	return b
}

func selectable(n *core.Node) bool { return n.Config().Selectable }

func (b *ClickSelect) pointerUp(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := origin.FindClosest(selectable)
	if node == nil {
		return core.Decline
	}
	switch {
	case d.Keymap().IsMetaClick(ev):
		// A focused card joins the selection instead of keeping focus.
		if cur := b.focus.Current().FindClosest(selectable); cur != nil && cur != node {
			b.focus.Blur()
			b.sel.AddSelect(cur)
		}
		b.sel.ToggleSelect(node)
	case ev.Shift():
		b.sel.SelectRange(node)
	default:
		b.sel.SetSelect(node)
		if node.Config().Focusable {
			b.focus.SetFocus(node, core.FocusContext{
				Trigger:     core.TriggerPointer,
				Position:    ev.Position,
				HasPosition: true,
			})
		}
	}
	return core.Stop
}
