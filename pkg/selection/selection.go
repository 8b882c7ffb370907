// Package selection tracks the set of selected nodes.
//
// Selecting a node deselects its descendants, so the selection never holds
// both a node and something inside it. Destroyed nodes drop out on their own.
package selection

import (
	"slices"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/lifecycle"
	"github.com/go-drift/plane/pkg/reactive"
)

// State is the selection of one tree.
type State struct {
	// Nodes is the selection in insertion order.
	Nodes  *reactive.CellList[*core.Node]
	origin lifecycle.Weak[*core.Node]
	hooks  map[*core.Node]func()
}

// New returns an empty selection.
func New() *State {
	return &State{
		Nodes: reactive.NewList[*core.Node](),
		hooks: map[*core.Node]func(){},
	}
}

// Size returns the number of selected nodes.
func (s *State) Size() int {
	return s.Nodes.Len()
}

// Contains reports whether n is selected.
func (s *State) Contains(n *core.Node) bool {
	return s.index(n) >= 0
}

func (s *State) index(n *core.Node) int {
	return s.Nodes.IndexFunc(func(x *core.Node) bool { return x == n })
}

// Origin returns the anchor of range selection, if it is still alive.
func (s *State) Origin() *core.Node {
	return s.origin.Get()
}

// SetOrigin sets the anchor of range selection.
func (s *State) SetOrigin(n *core.Node) {
	s.origin.Set(n)
}

// AddSelect adds nodes to the selection.
func (s *State) AddSelect(nodes ...*core.Node) {
	for _, n := range nodes {
		if !n.Alive() {
			continue
		}
		if !s.Contains(n) {
			s.Nodes.Append(n)
			s.hooks[n] = n.OnCleanup(func() { s.forget(n) })
		}
		n.SetSelected(true)
		s.DeSelect(n.Children()...)
	}
}

// DeSelect removes nodes and their descendants from the selection.
func (s *State) DeSelect(nodes ...*core.Node) {
	for _, n := range nodes {
		s.drop(n)
		if n.Alive() {
			n.SetSelected(false)
			s.DeSelect(n.Children()...)
		}
	}
}

// SetSelect replaces the selection with nodes. The first node becomes the
// range origin.
func (s *State) SetSelect(nodes ...*core.Node) {
	s.Clear()
	s.AddSelect(nodes...)
	if len(nodes) > 0 {
		s.origin.Set(nodes[0])
	}
}

// ToggleSelect flips the membership of each node, leaving the rest of the
// selection alone.
func (s *State) ToggleSelect(nodes ...*core.Node) {
	for _, n := range nodes {
		if s.Contains(n) {
			s.DeSelect(n)
			continue
		}
		s.AddSelect(n)
		s.origin.Set(n)
	}
}

// Clear empties the selection.
func (s *State) Clear() {
	s.DeSelect(s.Nodes.Value()...)
	s.origin.Clear()
}

// SelectRange selects the contiguous run from the origin to target. Without
// an origin, target alone is selected and becomes the origin.
func (s *State) SelectRange(target *core.Node) []*core.Node {
	origin := s.Origin()
	if origin == nil {
		s.SetSelect(target)
		return []*core.Node{target}
	}
	nodes := ComputeRange(origin, target)
	s.Clear()
	s.AddSelect(nodes...)
	s.origin.Set(origin)
	return nodes
}

func (s *State) drop(n *core.Node) {
	if i := s.index(n); i >= 0 {
		s.Nodes.Remove(i)
	}
	if cancel, ok := s.hooks[n]; ok {
		delete(s.hooks, n)
		cancel()
	}
}

// forget runs while n is being destroyed.
func (s *State) forget(n *core.Node) {
	delete(s.hooks, n)
	if i := s.index(n); i >= 0 {
		s.Nodes.Remove(i)
	}
}

// ComputeRange returns the nodes between a and b: the node itself when they
// are equal, the outer node when one contains the other, and otherwise the
// run of siblings, in index order, between the ancestors of a and b that
// share a parent. The result does not depend on argument order.
func ComputeRange(a, b *core.Node) []*core.Node {
	switch {
	case a == b:
		return []*core.Node{a}
	case a.Contains(b):
		return []*core.Node{a}
	case b.Contains(a):
		return []*core.Node{b}
	}
	x, y, ok := a.LowestCommonSiblingAncestors(b)
	if !ok {
		return nil
	}
	return slices.Clone(core.SiblingsBetween(x, y))
}
