package behaviors

import (
	"context"
	"math"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/lifecycle"
	"github.com/go-drift/plane/pkg/txn"
)

// DragThreshold is how far, in screen units along either axis, the pointer
// must travel before a press turns into a drag.
const DragThreshold = 5

// gesture is the state of one pointer drag that holds global overrides.
type gesture struct {
	owner  core.Behavior
	active lifecycle.Weak[*core.Node]
	start  graphics.Offset
	moved  bool
	cancel func()
}

// begin claims kinds for the owner with node as the active node. teardown
// runs if node is destroyed before the gesture ends.
func (g *gesture) begin(d core.Dispatcher, node *core.Node, at graphics.Offset, teardown func(), kinds ...input.Kind) bool {
	if !d.SetGlobalBehaviorOverrides(g.owner, node, kinds...) {
		return false
	}
	g.active.Set(node)
	g.start = at
	g.moved = false
	g.cancel = node.OnCleanup(func() {
		g.cancel = nil
		g.clear()
		if teardown != nil {
			teardown()
		}
	})
	return true
}

func (g *gesture) node() *core.Node {
	return g.active.Get()
}

// track returns the movement since begin and whether the gesture has passed
// DragThreshold. Once passed, it stays passed.
func (g *gesture) track(at graphics.Offset) (graphics.Offset, bool) {
	delta := at.Sub(g.start)
	if !g.moved && math.Abs(delta.X) < DragThreshold && math.Abs(delta.Y) < DragThreshold {
		return delta, false
	}
	g.moved = true
	return delta, true
}

func (g *gesture) end(d core.Dispatcher) {
	d.UnsetGlobalBehaviorOverrides(g.owner)
	g.clear()
}

func (g *gesture) clear() {
	if g.cancel != nil {
		cancel := g.cancel
		g.cancel = nil
		cancel()
	}
	g.active.Clear()
	g.moved = false
}

// record writes entries in one transaction. A nil transactor records nothing.
func record(tx txn.Transactor, entries ...txn.Entry) error {
	if tx == nil || len(entries) == 0 {
		return nil
	}
	return tx.WithTransaction(context.Background(), func(t txn.Tx) error {
		for _, e := range entries {
			t.Record(e)
		}
		return nil
	})
}
