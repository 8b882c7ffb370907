package core

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-drift/plane/pkg/errors"
	"github.com/go-drift/plane/pkg/reactive"
)

// slot is one child declaration of a node.
type slot interface {
	// nodes materializes the declaration and returns its live children.
	nodes() []*Node
	// release drops ownership of every child built so far.
	release()
}

func (n *Node) declare(s slot) {
	n.Validate("declare")
	n.slots = append(n.slots, s)
	n.OnCleanup(s.release)
}

func own(parent *Node, name string, child Nodal) *Node {
	c := child.CoreNode()
	if c.up != parent {
		panic(&errors.InvalidStateError{
			Op:     "core.own",
			Reason: fmt.Sprintf("%s was built for a different parent than %s", c, parent),
		})
	}
	c.RegisterReferent(parent, name)
	c.announce()
	return c
}

// Child is a memoized single owned child. The builder runs on first access;
// later accesses return the same instance until the parent is destroyed.
type Child[T Nodal] struct {
	parent *Node
	name   string
	build  func(parent *Node) T
	value  T
	loaded bool
}

// NewChild declares a child of parent named name.
func NewChild[T Nodal](parent *Node, name string, build func(parent *Node) T) *Child[T] {
	c := &Child[T]{parent: parent, name: name, build: build}
	parent.declare(c)
	return c
}

// Get returns the child, building it on first access.
func (c *Child[T]) Get() T {
	c.parent.Validate(c.name)
	if !c.loaded {
		v := c.build(c.parent)
		own(c.parent, c.name, v)
		c.value = v
		c.loaded = true
	}
	return c.value
}

// Loaded reports whether the builder has run.
func (c *Child[T]) Loaded() bool {
	return c.loaded
}

func (c *Child[T]) nodes() []*Node {
	return []*Node{c.Get().CoreNode()}
}

func (c *Child[T]) release() {
	if !c.loaded {
		return
	}
	c.loaded = false
	v := c.value
	var zero T
	c.value = zero
	Release(c.parent, c.name, v)
}

// List projects a reactive list onto owned children, one per source item.
// Items added to the source get a freshly built child at the same index;
// removed items destroy theirs; moved items keep their child.
type List[S any, T Nodal] struct {
	parent  *Node
	name    string
	source  *reactive.CellList[S]
	build   func(parent *Node, item S, index int) T
	items   []T
	loaded  bool
	dispose reactive.Disposer
}

// NewList declares a list projection of source on parent. Children are built
// lazily on first access.
func NewList[S any, T Nodal](parent *Node, name string, source *reactive.CellList[S], build func(parent *Node, item S, index int) T) *List[S, T] {
	l := &List[S, T]{parent: parent, name: name, source: source, build: build}
	parent.declare(l)
	return l
}

func (l *List[S, T]) load() {
	l.parent.Validate(l.name)
	if l.loaded {
		return
	}
	l.loaded = true
	l.dispose = l.source.SubscribeItems(l.apply, true)
}

func (l *List[S, T]) apply(ev reactive.ListEvent[S]) {
	switch ev.Op {
	case reactive.OpAdd:
		v := l.build(l.parent, ev.Item, ev.Index)
		own(l.parent, l.name, v)
		l.items = slices.Insert(l.items, ev.Index, v)
	case reactive.OpRemove:
		v := l.items[ev.Index]
		l.items = slices.Delete(l.items, ev.Index, ev.Index+1)
		Release(l.parent, l.name, v)
	case reactive.OpMove:
		v := l.items[ev.Index]
		l.items = slices.Delete(l.items, ev.Index, ev.Index+1)
		l.items = slices.Insert(l.items, ev.NewIndex, v)
	}
}

// Items returns the current children in source order.
func (l *List[S, T]) Items() []T {
	l.load()
	return slices.Clone(l.items)
}

// Len returns the number of children.
func (l *List[S, T]) Len() int {
	l.load()
	return len(l.items)
}

// At returns the child at i.
func (l *List[S, T]) At(i int) T {
	l.load()
	return l.items[i]
}

func (l *List[S, T]) nodes() []*Node {
	l.load()
	out := make([]*Node, len(l.items))
	for i, v := range l.items {
		out[i] = v.CoreNode()
	}
	return out
}

func (l *List[S, T]) release() {
	if !l.loaded {
		return
	}
	l.loaded = false
	l.dispose()
	items := l.items
	l.items = nil
	for i := len(items) - 1; i >= 0; i-- {
		Release(l.parent, l.name, items[i])
	}
}

// Conditional projects a precursor value onto zero or one owned child. When
// the precursor changes to a different value, build decides whether a child
// exists. The new child is owned before the old one is released, and a build
// that returns the current child keeps it.
type Conditional[P any, T Nodal] struct {
	parent    *Node
	name      string
	precursor reactive.Reader[P]
	build     func(parent *Node, value P) (T, bool)
	last      P
	value     T
	present   bool
	loaded    bool
	dispose   reactive.Disposer
}

// NewConditional declares a conditional child of parent driven by precursor.
func NewConditional[P any, T Nodal](parent *Node, name string, precursor reactive.Reader[P], build func(parent *Node, value P) (T, bool)) *Conditional[P, T] {
	c := &Conditional[P, T]{parent: parent, name: name, precursor: precursor, build: build}
	parent.declare(c)
	return c
}

func (c *Conditional[P, T]) load() {
	c.parent.Validate(c.name)
	if c.loaded {
		return
	}
	c.loaded = true
	c.swap(c.precursor.Value())
	c.dispose = c.precursor.Subscribe(func(v P, _ reactive.Change) {
		if sameValue(c.last, v) {
			return
		}
		c.swap(v)
	})
}

func (c *Conditional[P, T]) swap(v P) {
	c.last = v
	old, had := c.value, c.present
	child, ok := c.build(c.parent, v)
	if ok && had && child.CoreNode() == old.CoreNode() {
		return
	}
	if ok {
		own(c.parent, c.name, child)
		c.value, c.present = child, true
	} else {
		var zero T
		c.value, c.present = zero, false
	}
	if had {
		Release(c.parent, c.name, old)
	}
}

func (c *Conditional[P, T]) drop() {
	if !c.present {
		return
	}
	v := c.value
	var zero T
	c.value = zero
	c.present = false
	Release(c.parent, c.name, v)
}

// sameValue reports whether a and b are equal comparable values. Values that
// cannot be compared are never the same.
func sameValue(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	return va.Type() == vb.Type() && va.Comparable() && vb.Comparable() && va.Equal(vb)
}

// Get returns the current child, if any.
func (c *Conditional[P, T]) Get() (T, bool) {
	c.load()
	return c.value, c.present
}

func (c *Conditional[P, T]) nodes() []*Node {
	c.load()
	if !c.present {
		return nil
	}
	return []*Node{c.value.CoreNode()}
}

func (c *Conditional[P, T]) release() {
	if !c.loaded {
		return
	}
	c.loaded = false
	c.dispose()
	c.drop()
}

// adopted holds children handed to Adopt outside any declaration.
type adopted struct {
	parent *Node
	owned  []adoptedChild
}

type adoptedChild struct {
	name string
	node *Node
}

func (a *adopted) nodes() []*Node {
	out := make([]*Node, 0, len(a.owned))
	for _, c := range a.owned {
		if c.node.Alive() {
			out = append(out, c.node)
		}
	}
	return out
}

func (a *adopted) remove(name string, n *Node) bool {
	i := slices.IndexFunc(a.owned, func(c adoptedChild) bool { return c.node == n && c.name == name })
	if i < 0 {
		return false
	}
	a.owned = slices.Delete(a.owned, i, i+1)
	return true
}

func (a *adopted) release() {
	owned := a.owned
	a.owned = nil
	for i := len(owned) - 1; i >= 0; i-- {
		owned[i].node.DeregisterReferent(a.parent, owned[i].name)
	}
}

func (n *Node) adoptedSlot() *adopted {
	for _, s := range n.slots {
		if a, ok := s.(*adopted); ok {
			return a
		}
	}
	a := &adopted{parent: n}
	n.declare(a)
	return a
}

// Children returns the node's live children in declaration order,
// materializing every declaration.
func (n *Node) Children() []*Node {
	n.Validate("Children")
	var out []*Node
	for _, s := range slices.Clone(n.slots) {
		out = append(out, s.nodes()...)
	}
	return out
}
