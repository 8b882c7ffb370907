package core

import "github.com/go-drift/plane/pkg/graphics"

// Mark describes a node's relation to the focus or hover target.
type Mark uint8

const (
	Unmarked Mark = iota
	// Leaf marks the target itself.
	Leaf
	// Branch marks an ancestor of the target.
	Branch
)

func (m Mark) String() string {
	switch m {
	case Leaf:
		return "leaf"
	case Branch:
		return "branch"
	default:
		return "none"
	}
}

// Trigger is what caused a focus change.
type Trigger uint8

const (
	TriggerProgrammatic Trigger = iota
	TriggerPointer
	TriggerKey
)

func (t Trigger) String() string {
	switch t {
	case TriggerPointer:
		return "pointer"
	case TriggerKey:
		return "key"
	default:
		return "programmatic"
	}
}

// Edge is the side from which keyboard navigation entered a node.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// CaretEnd places a caret after the last character.
const CaretEnd = -1

// FocusContext tells a newly focused node why and where it was focused, so a
// text field entered by arrow key can land its caret at the matching end.
type FocusContext struct {
	Trigger Trigger
	// Created is set when the node is focused as part of being created.
	Created bool
	// SelectionStart and SelectionEnd are caret offsets; CaretEnd means the
	// end of the content.
	SelectionStart int
	SelectionEnd   int
	// HasSelection reports whether the caret offsets are meaningful.
	HasSelection bool
	Edge         Edge
	// Position is the pointer position for pointer-triggered focus.
	Position    graphics.Offset
	HasPosition bool
	// Selecting is set when focus moves as part of extending a selection.
	Selecting bool
}

// MarkFocused makes n the focus leaf and marks its ancestors as branches.
// Ancestors already marked branch are not notified again.
func (n *Node) MarkFocused(ctx FocusContext) {
	n.Validate("MarkFocused")
	prev := n.focused.Value()
	n.focused.Set(Leaf)
	if n.cfg.OnFocus != nil {
		n.cfg.OnFocus(Leaf, ctx, prev)
	}
	if n.element != nil {
		if n.cfg.ApplyFocus != nil {
			n.cfg.ApplyFocus(ctx)
		}
	} else {
		n.pendingFocus = &ctx
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		prev := p.focused.Value()
		if prev == Branch {
			continue
		}
		p.focused.Set(Branch)
		if p.cfg.OnFocus != nil {
			p.cfg.OnFocus(Branch, ctx, prev)
		}
	}
}

// MarkBlurred clears the focus mark of n and its ancestors, stopping before
// stopAt. A nil stopAt clears through the root. Dying nodes are skipped.
func (n *Node) MarkBlurred(stopAt *Node) {
	for cur := n; cur != nil; cur = cur.up {
		if cur == stopAt {
			return
		}
		if !cur.Alive() {
			continue
		}
		prev := cur.focused.Value()
		cur.focused.Set(Unmarked)
		cur.pendingFocus = nil
		if prev != Unmarked && cur.cfg.OnBlur != nil {
			cur.cfg.OnBlur(prev)
		}
	}
}

// PendingFocus reports whether focus arrived before the node was bound.
func (n *Node) PendingFocus() (FocusContext, bool) {
	if n.pendingFocus == nil {
		return FocusContext{}, false
	}
	return *n.pendingFocus, true
}
