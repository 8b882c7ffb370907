package behaviors

import (
	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/selection"
	"github.com/go-drift/plane/pkg/txn"
)

// DragMove moves draggable nodes with a left drag. When the pressed node is
// selected, the whole selection moves with it. The drop is committed through
// the transactor; escape or a failed commit puts the nodes back.
type DragMove struct {
	*core.HandlerTable

	tx    txn.Transactor
	sel   *selection.State
	g     gesture
	moves []move
}

type move struct {
	node *core.Node
	from graphics.Rect
}

// NewDragMove returns a drag-move behavior. sel may be nil.
func NewDragMove(tx txn.Transactor, sel *selection.State) *DragMove {
	b := &DragMove{tx: tx, sel: sel}
	b.g.owner = b
	b.HandlerTable = core.NewHandlerTable("DragMove", map[input.Kind]core.HandlerFunc{
		input.PointerDown: b.pointerDown,
		input.PointerMove: b.pointerMove,
		input.PointerUp:   b.pointerUp,
		input.KeyDown:     b.keyDown,
	})
	return b
}

// Dragging reports whether a drag is in progress.
func (b *DragMove) Dragging() bool {
	return b.g.node() != nil
}

func draggable(n *core.Node) bool { return n.Config().Draggable }

func (b *DragMove) pointerDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := origin.FindClosest(draggable)
	if node == nil || b.Dragging() {
		return core.Decline
	}
	if !b.g.begin(d, node, ev.Position, b.forget, input.PointerMove, input.PointerUp, input.KeyDown) {
		return core.Decline
	}
	b.moves = b.moves[:0]
	targets := []*core.Node{node}
	if b.sel != nil && b.sel.Contains(node) {
		targets = b.sel.Nodes.Value()
	}
	for _, n := range targets {
		if n.Alive() && draggable(n) {
			b.moves = append(b.moves, move{node: n, from: n.Rect().Value()})
		}
	}
	// Let click handling see the press too; the drag only claims the events
	// that follow.
	return core.Continue
}

func (b *DragMove) pointerMove(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if !b.Dragging() {
		return core.Decline
	}
	delta, ok := b.g.track(ev.Position)
	if !ok {
		return core.Continue
	}
	for _, m := range b.moves {
		if m.node.Alive() {
			m.node.Rect().Set(m.from.Translate(delta.X, delta.Y))
		}
	}
	return core.Stop
}

func (b *DragMove) pointerUp(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := b.g.node()
	if node == nil {
		return core.Decline
	}
	moved := b.g.moved
	b.g.end(d)
	defer b.forget()
	if !moved {
		return core.Continue
	}
	var entries []txn.Entry
	for _, m := range b.moves {
		if m.node.Alive() {
			entries = append(entries, txn.Entry{Op: "move", Target: m.node.Key(), Value: m.node.Rect().Value()})
		}
	}
	if err := record(b.tx, entries...); err != nil {
		node.Context().Logger().Warn("drop failed, restoring", "node", node.String(), "err", err)
		b.restore()
	}
	return core.Stop
}

func (b *DragMove) keyDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if !b.Dragging() {
		return core.Ignore
	}
	if ev.Key != input.KeyEscape {
		return core.Continue
	}
	b.restore()
	b.g.end(d)
	b.forget()
	return core.Stop
}

func (b *DragMove) restore() {
	for _, m := range b.moves {
		if m.node.Alive() {
			m.node.Rect().Set(m.from)
		}
	}
}

func (b *DragMove) forget() {
	b.moves = b.moves[:0]
}
