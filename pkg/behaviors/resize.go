package behaviors

import (
	"math"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/txn"
)

// Resize defaults.
const (
	DefaultHandleSize = 8
	DefaultMinSize    = 20
)

// Resize resizes resizable nodes by dragging the handle in their bottom-right
// corner.
type Resize struct {
	*core.HandlerTable
	// HandleSize is the side of the square grab region.
	HandleSize float64
	// MinSize bounds both dimensions from below.
	MinSize float64

	tx   txn.Transactor
	g    gesture
	from graphics.Rect
}

// NewResize returns a resize behavior committing through tx, which may be nil.
func NewResize(tx txn.Transactor) *Resize {
	b := &Resize{tx: tx, HandleSize: DefaultHandleSize, MinSize: DefaultMinSize}
	b.g.owner = b
	b.HandlerTable = core.NewHandlerTable("Resize", map[input.Kind]core.HandlerFunc{
		input.PointerDown: b.pointerDown,
		input.PointerMove: b.pointerMove,
		input.PointerUp:   b.pointerUp,
		input.KeyDown:     b.keyDown,
	})
	return b
}

// OnHandle reports whether p is inside the resize handle of r.
func (b *Resize) OnHandle(r graphics.Rect, p graphics.Offset) bool {
	return r.Contains(p) && p.X >= r.Right-b.HandleSize && p.Y >= r.Bottom-b.HandleSize
}

func (b *Resize) pointerDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := origin.FindClosest(func(n *core.Node) bool { return n.Config().Resizable })
	if node == nil || b.g.node() != nil {
		return core.Decline
	}
	rect := node.Rect().Value()
	if !b.OnHandle(rect, ev.Position) {
		return core.Decline
	}
	if !b.g.begin(d, node, ev.Position, nil, input.PointerMove, input.PointerUp, input.KeyDown) {
		return core.Decline
	}
	b.from = rect
	return core.Stop
}

func (b *Resize) pointerMove(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := b.g.node()
	if node == nil {
		return core.Decline
	}
	delta := ev.Position.Sub(b.g.start)
	b.g.moved = true
	w := math.Max(b.MinSize, b.from.Width()+delta.X)
	h := math.Max(b.MinSize, b.from.Height()+delta.Y)
	node.Rect().Set(graphics.RectFromLTWH(b.from.Left, b.from.Top, w, h))
	return core.Stop
}

func (b *Resize) pointerUp(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := b.g.node()
	if node == nil {
		return core.Decline
	}
	b.g.end(d)
	err := record(b.tx, txn.Entry{Op: "resize", Target: node.Key(), Value: node.Rect().Value()})
	if err != nil {
		node.Context().Logger().Warn("resize failed, restoring", "node", node.String(), "err", err)
		node.Rect().Set(b.from)
	}
	return core.Stop
}

func (b *Resize) keyDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := b.g.node()
	if node == nil {
		return core.Ignore
	}
	if ev.Key != input.KeyEscape {
		return core.Continue
	}
	node.Rect().Set(b.from)
	b.g.end(d)
	return core.Stop
}
