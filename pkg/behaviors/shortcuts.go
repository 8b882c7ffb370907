package behaviors

import (
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/selection"
)

// Action runs a matched shortcut. It returns false when it did not apply,
// letting the rest of the chain see the key.
type Action func(d core.Dispatcher, origin *core.Node) bool

// Shortcuts matches the pressed keys against the dispatcher's keymap and runs
// the action bound to the first matching shortcut, in binding order.
type Shortcuts struct {
	*core.HandlerTable

	order   []input.Shortcut
	actions map[input.Shortcut]Action
}

// NewShortcuts returns an empty shortcut table.
func NewShortcuts() *Shortcuts {
	s := &Shortcuts{actions: map[input.Shortcut]Action{}}
	s.HandlerTable = core.NewHandlerTable("Shortcuts", map[input.Kind]core.HandlerFunc{
		input.KeyDown: s.keyDown,
	})
	return s
}

// On binds fn to sc, replacing any earlier binding.
func (s *Shortcuts) On(sc input.Shortcut, fn Action) *Shortcuts {
	if _, ok := s.actions[sc]; !ok {
		s.order = append(s.order, sc)
	}
	s.actions[sc] = fn
	return s
}

func (s *Shortcuts) keyDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	keymap, down := d.Keymap(), d.DownKeys()
	for _, sc := range s.order {
		if !keymap.Matches(sc, down) {
			continue
		}
		if s.actions[sc](d, origin) {
			return core.Stop
		}
		return core.Continue
	}
	return core.Continue
}

// DefaultShortcuts binds select-all and the zoom shortcuts. Either argument
// may be nil to leave its shortcuts out.
func DefaultShortcuts(pan *Pan, sel *selection.State) *Shortcuts {
	s := NewShortcuts()
	if sel != nil {
		s.On(input.ShortcutSelectAll, func(_ core.Dispatcher, origin *core.Node) bool {
			scope, _ := PlaneOf(origin)
			if scope == nil {
				scope = origin.Root()
			}
			nodes := TopSelectable(scope)
			if len(nodes) == 0 {
				return false
			}
			sel.SetSelect(nodes...)
			return true
		})
	}
	if pan != nil {
		s.On(input.ShortcutZoomIn, func(_ core.Dispatcher, origin *core.Node) bool { return pan.ZoomIn(origin) })
		s.On(input.ShortcutZoomOut, func(_ core.Dispatcher, origin *core.Node) bool { return pan.ZoomOut(origin) })
		s.On(input.ShortcutZoomReset, func(_ core.Dispatcher, origin *core.Node) bool { return pan.ResetZoom(origin) })
	}
	return s
}

// TopSelectable returns the selectable descendants of scope that have no
// selectable ancestor below scope, in tree order.
func TopSelectable(scope *core.Node) []*core.Node {
	var out []*core.Node
	for _, c := range scope.Children() {
		c.Walk(func(n *core.Node) bool {
			if selectable(n) && n.IsVisible() {
				out = append(out, n)
				return false
			}
			return true
		})
	}
	return out
}
