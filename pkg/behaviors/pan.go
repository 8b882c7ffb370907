package behaviors

import (
	"math"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/reactive"
	"github.com/go-drift/plane/pkg/txn"
)

// Zoom limits of a plane.
const (
	MinScale = 0.01
	MaxScale = 4
)

const (
	touchPanStep  = 0.3
	wheelZoomStep = 0.1
	zoomIncrement = 0.1
)

// Pannable is implemented by the domain object of a plane node: the surface
// whose content is panned and zoomed.
type Pannable interface {
	Transform() *reactive.Cell[graphics.Transform]
}

// Pan pans a plane with a right drag or a space drag, and zooms or pans it
// with the wheel. The resulting transform is committed through the
// transactor when a gesture ends.
type Pan struct {
	*core.HandlerTable
	// Natural makes trackpad panning follow the fingers.
	Natural bool

	tx    txn.Transactor
	g     gesture
	plane Pannable
	from  graphics.Transform
}

// NewPan returns a pan behavior committing through tx, which may be nil.
func NewPan(tx txn.Transactor) *Pan {
	p := &Pan{tx: tx, Natural: true}
	p.g.owner = p
	p.HandlerTable = core.NewHandlerTable("Pan", map[input.Kind]core.HandlerFunc{
		input.PointerDown:      p.pointerDown,
		input.RightPointerDown: p.rightPointerDown,
		input.PointerMove:      p.pointerMove,
		input.RightPointerMove: p.pointerMove,
		input.PointerUp:        p.pointerUp,
		input.RightPointerUp:   p.pointerUp,
		input.KeyDown:          p.keyDown,
		input.Wheel:            p.wheel,
	})
	return p
}

// Active reports whether a pan gesture is in progress.
func (p *Pan) Active() bool {
	return p.g.node() != nil
}

// PlaneOf returns the nearest node, n included, whose domain object is
// Pannable.
func PlaneOf(n *core.Node) (*core.Node, Pannable) {
	node := n.FindClosest(func(c *core.Node) bool {
		_, ok := c.Self().(Pannable)
		return ok
	})
	if node == nil {
		return nil, nil
	}
	return node, node.Self().(Pannable)
}

func (p *Pan) pointerDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if !d.DownKeys().Has(input.KeySpace) {
		return core.Decline
	}
	return p.begin(d, ev, origin, input.PointerMove, input.PointerUp, input.KeyDown)
}

func (p *Pan) rightPointerDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	return p.begin(d, ev, origin, input.RightPointerMove, input.RightPointerUp, input.KeyDown)
}

func (p *Pan) begin(d core.Dispatcher, ev *input.Event, origin *core.Node, kinds ...input.Kind) core.Status {
	node, plane := PlaneOf(origin)
	if node == nil || p.Active() {
		return core.Decline
	}
	if !p.g.begin(d, node, ev.Position, p.forget, kinds...) {
		return core.Decline
	}
	p.plane = plane
	p.from = plane.Transform().Value()
	return core.Stop
}

func (p *Pan) pointerMove(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if !p.Active() {
		return core.Decline
	}
	delta, ok := p.g.track(ev.Position)
	if !ok {
		return core.Decline
	}
	p.plane.Transform().Set(p.from.Translate(delta.X, delta.Y))
	return core.Stop
}

func (p *Pan) pointerUp(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node := p.g.node()
	if node == nil {
		return core.Decline
	}
	moved := p.g.moved
	plane := p.plane
	p.g.end(d)
	p.forget()
	if !moved {
		return core.Continue
	}
	p.save(node, plane)
	return core.Stop
}

// keyDown cancels a gesture on escape, restoring the starting transform.
func (p *Pan) keyDown(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	if !p.Active() {
		return core.Ignore
	}
	if ev.Key != input.KeyEscape {
		return core.Continue
	}
	p.plane.Transform().Set(p.from)
	p.g.end(d)
	p.forget()
	return core.Stop
}

func (p *Pan) forget() {
	p.plane = nil
}

func (p *Pan) wheel(d core.Dispatcher, ev *input.Event, origin *core.Node) core.Status {
	node, plane := PlaneOf(origin)
	if node == nil {
		return core.Decline
	}
	pinch := input.IsPinch(ev)
	cell := plane.Transform()
	t := cell.Value()
	switch {
	case pinch:
		target := clampScale(t.Scale() * (100 - ev.DeltaY) / 100)
		if target == MinScale {
			return core.Stop
		}
		cell.Set(t.ScaleAbout(target/t.Scale(), ev.Position))
	case ev.Device == input.DeviceTouchpad && !d.DownKeys().Has(input.KeyMeta):
		dir := -1.0
		if !p.Natural {
			dir = 1
		}
		cell.Set(t.Translate(ev.DeltaX*dir*touchPanStep, ev.DeltaY*dir*touchPanStep))
	default:
		scale := t.Scale()
		delta := wheelDirection(ev)
		target := clampScale(scale + delta*(scale-scale*wheelZoomStep)*wheelZoomStep)
		if target == MinScale {
			return core.Stop
		}
		cell.Set(t.ScaleAbout(target/scale, ev.Position))
	}
	p.save(node, plane)
	return core.Stop
}

// ZoomIn steps the scale of the plane at or above n up to the next tenth.
func (p *Pan) ZoomIn(n *core.Node) bool {
	return p.zoomStep(n, 1)
}

// ZoomOut steps the scale of the plane at or above n down to the previous
// tenth.
func (p *Pan) ZoomOut(n *core.Node) bool {
	return p.zoomStep(n, -1)
}

// ResetZoom returns the plane at or above n to scale 1, keeping the point at
// the center of the node fixed.
func (p *Pan) ResetZoom(n *core.Node) bool {
	node, plane := PlaneOf(n)
	if node == nil {
		return false
	}
	t := plane.Transform().Value()
	plane.Transform().Set(t.ScaleAbout(1/t.Scale(), node.Rect().Value().Center()))
	p.save(node, plane)
	return true
}

func (p *Pan) zoomStep(n *core.Node, dir float64) bool {
	node, plane := PlaneOf(n)
	if node == nil {
		return false
	}
	t := plane.Transform().Value()
	scale := t.Scale()
	increment := math.Round((scale - 1) / zoomIncrement)
	target := clampScale(1 + zoomIncrement*(increment+dir))
	plane.Transform().Set(t.ScaleAbout(target/scale, node.Rect().Value().Center()))
	p.save(node, plane)
	return true
}

func (p *Pan) save(node *core.Node, plane Pannable) {
	err := record(p.tx, txn.Entry{Op: "viewport", Target: node.Key(), Value: plane.Transform().Value()})
	if err != nil {
		node.Context().Logger().Warn("saving viewport failed", "node", node.String(), "err", err)
	}
}

func clampScale(s float64) float64 {
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// wheelDirection is +1 to zoom in and -1 to zoom out.
func wheelDirection(ev *input.Event) float64 {
	switch {
	case ev.DeltaY != 0:
		return -math.Copysign(1, ev.DeltaY)
	case ev.DeltaX != 0:
		return math.Copysign(1, ev.DeltaX)
	}
	return 0
}
