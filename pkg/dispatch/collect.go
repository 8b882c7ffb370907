package dispatch

import (
	"strings"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/input"
)

// Collect is the single entry point for raw host events. It normalizes ev,
// picks the origin node and dispatches. Events that reach no node return a
// zero Result.
func (n *Navigator) Collect(ev *input.Event) (Result, error) {
	if n.closed {
		return Result{}, nil
	}
	if n.dispatching {
		// Reports ErrReentrantDispatch.
		return n.Dispatch(ev, n.root)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = n.clock.Now()
	}
	switch ev.Kind {
	case input.PointerDown, input.RightPointerDown:
		return n.pointerDown(ev)
	case input.PointerUp, input.RightPointerUp:
		return n.pointerUp(ev)
	case input.PointerMove, input.RightPointerMove:
		return n.pointerMove(ev)
	case input.Wheel:
		return n.wheelEvent(ev)
	case input.KeyDown:
		return n.keyDown(ev)
	case input.KeyUp:
		return n.keyUp(ev)
	case input.TextInput, input.Cut, input.Copy, input.Paste, input.Change:
		return n.Dispatch(ev, n.focusOrigin())
	default:
		return n.atPoint(ev)
	}
}

func (n *Navigator) focusOrigin() *core.Node {
	if cur := n.focus.Current(); cur != nil && cur.Alive() {
		return cur
	}
	return n.root
}

func (n *Navigator) hit(ev *input.Event) *core.Node {
	return n.root.NodeAt(ev.Position, true)
}

func (n *Navigator) atPoint(ev *input.Event) (Result, error) {
	node := n.hit(ev)
	if node == nil {
		return Result{}, nil
	}
	return n.Dispatch(ev, node)
}

func (n *Navigator) pointerDown(ev *input.Event) (Result, error) {
	n.down.SyncPointerModifiers(ev.Modifiers)
	right := ev.Kind == input.RightPointerDown || n.keymap.IsRightClick(ev)
	if ev.Clicks == 0 {
		ev.Clicks = n.clicks.Record(ev.Position, ev.Timestamp)
	}
	if !right && ev.Clicks == 2 {
		ev.Kind = input.DoubleClick
		return n.atPoint(ev)
	}
	if !right && ev.Clicks == 3 {
		ev.Kind = input.TripleClick
		return n.atPoint(ev)
	}
	if right && ev.Shift() {
		// Shift-right-click is left to the host context menu.
		n.logger.Debug("shift-right-click passed to host")
		return Result{Status: core.Native}, nil
	}
	ev.Kind = input.PointerDown
	if right {
		ev.Kind = input.RightPointerDown
	}
	return n.atPoint(ev)
}

func (n *Navigator) pointerUp(ev *input.Event) (Result, error) {
	n.down.SyncPointerModifiers(ev.Modifiers)
	right := ev.Kind == input.RightPointerUp || n.keymap.IsRightClick(ev)
	if ev.Clicks == 0 {
		ev.Clicks = n.clicks.Count()
	}
	// Left releases ending a double or triple click are not dispatched. Right
	// presses are never promoted, so their releases always are.
	if !right && ev.Clicks > 1 {
		return Result{}, nil
	}
	ev.Kind = input.PointerUp
	if right {
		ev.Kind = input.RightPointerUp
	}
	if node := n.hit(ev); node != nil {
		return n.Dispatch(ev, node)
	}
	return n.dispatchOverrideOnly(ev)
}

func (n *Navigator) pointerMove(ev *input.Event) (Result, error) {
	n.down.SyncPointerModifiers(ev.Modifiers)
	right := ev.Kind == input.RightPointerMove || ev.Button == input.ButtonSecondary
	ev.Kind = input.PointerMove
	if right {
		ev.Kind = input.RightPointerMove
	}
	node := n.hit(ev)
	n.updateHover(node, ev)
	if node != nil {
		return n.Dispatch(ev, node)
	}
	return n.dispatchOverrideOnly(ev)
}

// updateHover moves hover marks to node and dispatches leave and enter
// events when the hovered node changes.
func (n *Navigator) updateHover(node *core.Node, ev *input.Event) {
	prev := n.hovered.Get()
	if prev == node {
		return
	}
	if prev != nil {
		for cur := prev; cur != nil; cur = cur.Parent() {
			if node != nil && cur.Contains(node) {
				break
			}
			if cur.Alive() {
				cur.SetHover(core.Unmarked)
			}
		}
		leave := *ev
		leave.Kind = input.PointerLeave
		_, _ = n.Dispatch(&leave, prev)
	}
	if node == nil {
		n.hovered.Clear()
		return
	}
	n.hovered.Set(node)
	node.SetHover(core.Leaf)
	for p := node.Parent(); p != nil; p = p.Parent() {
		p.SetHover(core.Branch)
	}
	enter := *ev
	enter.Kind = input.PointerEnter
	_, _ = n.Dispatch(&enter, node)
}

func (n *Navigator) wheelEvent(ev *input.Event) (Result, error) {
	n.down.SyncPointerModifiers(ev.Modifiers)
	ev.Device = n.wheel.Add(ev)
	node := n.hit(ev)
	if node == nil {
		if ev.Ctrl() {
			ev.PreventDefault()
		}
		return Result{Prevented: ev.DefaultPrevented()}, nil
	}
	return n.Dispatch(ev, node)
}

func (n *Navigator) keyDown(ev *input.Event) (Result, error) {
	ev.Key = input.Key(strings.ToLower(string(ev.Key)))
	switch {
	case ev.Key == "", ev.Key == input.KeyDead:
		n.logger.Debug("ignored key", "key", string(ev.Key))
	case !ev.Key.IsModifier():
		n.down.Add(ev.Key)
	}
	n.down.SyncModifiers(ev.Modifiers, ev.Key == input.KeySpace)
	return n.Dispatch(ev, n.focusOrigin())
}

func (n *Navigator) keyUp(ev *input.Event) (Result, error) {
	ev.Key = input.Key(strings.ToLower(string(ev.Key)))
	if ev.Key != "" {
		n.down.Delete(ev.Key)
	}
	n.down.SyncModifiers(ev.Modifiers, false)
	return n.Dispatch(ev, n.focusOrigin())
}
