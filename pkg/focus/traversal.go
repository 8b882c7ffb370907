package focus

import (
	"math"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/graphics"
)

// Direction is a geometric traversal direction.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	default:
		return "right"
	}
}

// Edge is the side of the target a move in d arrives from.
func (d Direction) Edge() core.Edge {
	switch d {
	case DirectionUp:
		return core.EdgeBottom
	case DirectionDown:
		return core.EdgeTop
	case DirectionLeft:
		return core.EdgeRight
	default:
		return core.EdgeLeft
	}
}

// Focusable returns the visible focusable nodes of the tree in tree order.
func (s *State) Focusable() []*core.Node {
	return s.root.FindAll(func(n *core.Node) bool {
		return n.Config().Focusable && n.IsVisible()
	})
}

// MoveFocus moves focus delta positions through the focusable nodes in tree
// order, wrapping at either end. It reports whether focus moved.
func (s *State) MoveFocus(delta int) bool {
	nodes := s.Focusable()
	if len(nodes) == 0 || delta == 0 {
		return false
	}
	current := -1
	cur := s.Current()
	for i, n := range nodes {
		if n == cur {
			current = i
			break
		}
	}
	if current < 0 && delta < 0 {
		current = 0
	}
	next := wrapIndex(current+delta, len(nodes))
	if nodes[next] == cur {
		return false
	}
	edge := core.EdgeTop
	if delta < 0 {
		edge = core.EdgeBottom
	}
	s.SetFocus(nodes[next], core.FocusContext{Trigger: core.TriggerKey, Edge: edge})
	return true
}

// FocusInDirection moves focus to the nearest focusable node in direction,
// preferring nodes aligned with the current one. Without usable geometry it
// falls back to linear traversal.
func (s *State) FocusInDirection(d Direction) bool {
	cur := s.Current()
	from := cur.Rect().Value()
	if from.IsEmpty() {
		return s.MoveFocus(linearDelta(d))
	}

	var best *core.Node
	bestScore := math.MaxFloat64
	for _, n := range s.Focusable() {
		if n == cur || cur.Contains(n) {
			continue
		}
		to := n.Rect().Value()
		if to.IsEmpty() || !isInDirection(from, to, d) {
			continue
		}
		if score := directionalScore(from, to, d); score < bestScore {
			bestScore = score
			best = n
		}
	}
	if best == nil {
		return s.MoveFocus(linearDelta(d))
	}
	s.SetFocus(best, core.FocusContext{Trigger: core.TriggerKey, Edge: d.Edge()})
	return true
}

func linearDelta(d Direction) int {
	if d == DirectionUp || d == DirectionLeft {
		return -1
	}
	return 1
}

func isInDirection(source, target graphics.Rect, d Direction) bool {
	sc, tc := source.Center(), target.Center()
	switch d {
	case DirectionUp:
		return tc.Y < sc.Y
	case DirectionDown:
		return tc.Y > sc.Y
	case DirectionLeft:
		return tc.X < sc.X
	case DirectionRight:
		return tc.X > sc.X
	}
	return false
}

// directionalScore is lower for closer targets; cross-axis distance weighs
// double so aligned targets win.
func directionalScore(source, target graphics.Rect, d Direction) float64 {
	sc, tc := source.Center(), target.Center()
	var primary, cross float64
	switch d {
	case DirectionUp, DirectionDown:
		primary = math.Abs(tc.Y - sc.Y)
		cross = math.Abs(tc.X - sc.X)
	case DirectionLeft, DirectionRight:
		primary = math.Abs(tc.X - sc.X)
		cross = math.Abs(tc.Y - sc.Y)
	}
	return primary + cross*2
}

func wrapIndex(index, count int) int {
	index %= count
	if index < 0 {
		index += count
	}
	return index
}
