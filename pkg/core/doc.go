// Package core provides the node tree that the rest of plane is built on.
//
// A Node is a long-lived stateful object with reference-counted ownership.
// Parents strongly own their children; every other edge (child to parent,
// hover and focus targets, override holders) is weak. A node is destroyed
// exactly once, when its owner releases it, and destruction cascades to the
// children it owns.
//
// # Declaring Children
//
// Domain types embed *Node and declare their children in the constructor.
// A declared child is built on first access and memoized until the parent
// is destroyed:
//
//	type Card struct {
//	    *core.Node
//	    title *core.Child[*Field]
//	}
//
//	func NewCard(parent *core.Node) *Card {
//	    c := &Card{}
//	    c.Node = core.NewNode(parent, c, core.Config{Label: "card", Focusable: true})
//	    c.title = core.NewChild(c.Node, "title", func(p *core.Node) *Field {
//	        return NewField(p)
//	    })
//	    return c
//	}
//
// Data-driven children use NewList, which keeps one child per element of a
// reactive.CellList and preserves child identity across moves, and
// NewConditional, which holds at most one child derived from a precursor.
//
// # Reactive State
//
// Each node exposes reactive cells for its bounding rect, clip region,
// z-order, visibility, focus mark, selection and hover. Presentation code
// subscribes to them; the hit tester and behaviors read them.
//
// # Behaviors
//
// A Behavior is a capability table: for each input.Kind it either returns a
// HandlerFunc or nil. Behaviors attach to nodes as local (seen only when the
// origin is that node) or heritable (seen by every descendant). The
// dispatcher walks Node.Behaviors from the origin outward and interprets the
// returned Status.
package core
