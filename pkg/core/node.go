package core

import (
	"github.com/go-drift/plane/pkg/errors"
	"github.com/go-drift/plane/pkg/graphics"
	"github.com/go-drift/plane/pkg/lifecycle"
	"github.com/go-drift/plane/pkg/reactive"
)

// Nodal is implemented by *Node and by every type embedding it.
type Nodal interface {
	CoreNode() *Node
}

// Element is the presentation-side object a node is bound to.
type Element interface {
	// Bounds returns the element's bounding rect in screen coordinates.
	Bounds() graphics.Rect
}

// Config holds the static properties of a node.
type Config struct {
	// Label names the node in traces and test finders.
	Label string
	// Focusable nodes can hold focus and receive re-homed focus.
	Focusable bool
	// Selectable nodes can join the selection.
	Selectable bool
	// Draggable nodes can be moved by pointer drags.
	Draggable bool
	// Resizable nodes expose a resize handle.
	Resizable bool
	// Transparent nodes are never hit themselves but their children are.
	Transparent bool
	// Opaque nodes stop hit testing from descending into their children.
	Opaque bool
	// IgnorePointer removes the node and its subtree from pointer hit testing.
	IgnorePointer bool
	// Overflow lets children be hit outside the node's own rect.
	Overflow bool
	// IterateChildrenForwards gives earlier siblings priority over later
	// ones with the same z-index during hit testing.
	IterateChildrenForwards bool
	// Behaviors are local behaviors, seen only when this node is the origin.
	Behaviors []Behavior
	// Heritable behaviors are seen by this node and all its descendants.
	Heritable []Behavior
	// OnFocus is called when the node's focus mark changes to leaf or branch.
	OnFocus func(mark Mark, ctx FocusContext, prev Mark)
	// OnBlur is called when the node loses its focus mark.
	OnBlur func(prev Mark)
	// ApplyFocus receives the focus context once the node is bound, e.g. to
	// place a caret.
	ApplyFocus func(ctx FocusContext)
}

// Node is an element of the tree. The zero value is not usable; construct
// nodes with NewRoot or NewNode.
type Node struct {
	lifecycle.Base

	ctx    *Context
	self   any
	parent lifecycle.Weak[*Node]
	// up is the raw parent link, used only to walk past dying ancestors.
	up    *Node
	cfg   Config
	slots []slot

	element      Element
	pendingFocus *FocusContext
	announced    bool

	rect     *reactive.Cell[graphics.Rect]
	clip     *reactive.Cell[*graphics.Rect]
	zIndex   *reactive.Cell[int]
	visible  *reactive.Cell[bool]
	focused  *reactive.Cell[Mark]
	selected *reactive.Cell[bool]
	hover    *reactive.Cell[Mark]
}

// NewRoot creates the root of a tree. Nothing owns a root; its creator calls
// Destroy to tear the tree down. self is the embedding domain object, or nil.
func NewRoot(ctx *Context, self any, cfg Config) *Node {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	n := newNode(ctx, nil, self, cfg)
	n.announce()
	return n
}

// NewNode creates a node under parent. The node becomes owned when it is
// returned from the builder of a Child, List or Conditional declared on
// parent, or passed to Adopt.
func NewNode(parent *Node, self any, cfg Config) *Node {
	if parent == nil {
		panic(&errors.InvalidStateError{Op: "core.NewNode", Reason: "nil parent; use NewRoot"})
	}
	parent.Validate("NewNode")
	return newNode(parent.ctx, parent, self, cfg)
}

func newNode(ctx *Context, parent *Node, self any, cfg Config) *Node {
	n := &Node{
		ctx:      ctx,
		cfg:      cfg,
		rect:     reactive.NewComparable(graphics.Rect{}),
		clip:     reactive.NewComparable[*graphics.Rect](nil),
		zIndex:   reactive.NewComparable(0),
		visible:  reactive.NewComparable(true),
		focused:  reactive.NewComparable(Unmarked),
		selected: reactive.NewComparable(false),
		hover:    reactive.NewComparable(Unmarked),
	}
	n.self = self
	if self == nil {
		n.self = n
	}
	if parent != nil {
		n.parent = lifecycle.WeakOf(parent)
		n.up = parent
	}
	n.Init(n.self)
	n.OnCleanup(n.teardown)
	return n
}

func (n *Node) announce() {
	if n.announced {
		return
	}
	n.announced = true
	n.ctx.created(n)
}

// teardown is the first cleanup registered, so it runs last: after every
// declared child has been released.
func (n *Node) teardown() {
	if n.announced {
		n.ctx.destroyed(n)
	}
	n.element = nil
	n.pendingFocus = nil
	n.rect.Close()
	n.clip.Close()
	n.zIndex.Close()
	n.visible.Close()
	n.focused.Close()
	n.selected.Close()
	n.hover.Close()
}

// Adopt makes parent the owner of child under name. Declared children are
// adopted automatically; Adopt is for children created outside declarations.
func Adopt(parent *Node, name string, child Nodal) {
	c := own(parent, name, child)
	a := parent.adoptedSlot()
	a.owned = append(a.owned, adoptedChild{name: name, node: c})
}

// Release drops parent's ownership of child under name, destroying it if
// nothing else owns it.
func Release(parent *Node, name string, child Nodal) {
	c := child.CoreNode()
	for _, s := range parent.slots {
		if a, ok := s.(*adopted); ok {
			a.remove(name, c)
		}
	}
	c.DeregisterReferent(parent, name)
}

// CoreNode implements Nodal.
func (n *Node) CoreNode() *Node {
	return n
}

// Self returns the domain object embedding this node.
func (n *Node) Self() any {
	return n.self
}

// Context returns the tree context.
func (n *Node) Context() *Context {
	return n.ctx
}

// Config returns the node's static configuration.
func (n *Node) Config() Config {
	return n.cfg
}

// Label returns the configured label.
func (n *Node) Label() string {
	return n.cfg.Label
}

func (n *Node) String() string {
	if n.cfg.Label != "" {
		return n.cfg.Label
	}
	return n.TypeName()
}

// Parent returns the parent while it is alive.
func (n *Node) Parent() *Node {
	return n.parent.Get()
}

// ParentRef returns the weak parent reference.
func (n *Node) ParentRef() lifecycle.Weak[*Node] {
	return n.parent
}

// Bind associates the node with a presentation element and measures it.
// Rebinding the same element only re-measures.
func (n *Node) Bind(el Element) {
	n.Validate("Bind")
	if el == nil {
		return
	}
	first := n.element != el
	n.element = el
	n.Measure()
	if !first {
		return
	}
	n.ctx.bound(n)
	if ctx := n.pendingFocus; ctx != nil && n.focused.Value() == Leaf {
		n.pendingFocus = nil
		if n.cfg.ApplyFocus != nil {
			n.cfg.ApplyFocus(*ctx)
		}
	}
}

// Unbind detaches the presentation element.
func (n *Node) Unbind() {
	n.element = nil
}

// Element returns the bound element, or nil.
func (n *Node) Element() Element {
	return n.element
}

// Measure refreshes Rect from the bound element.
func (n *Node) Measure() {
	n.Validate("Measure")
	if n.element != nil {
		n.rect.Set(n.element.Bounds())
	}
}

// Rect is the node's bounding rect in screen coordinates.
func (n *Node) Rect() *reactive.Cell[graphics.Rect] {
	n.Validate("Rect")
	return n.rect
}

// Clip is an optional clip region; nil means unclipped.
func (n *Node) Clip() *reactive.Cell[*graphics.Rect] {
	n.Validate("Clip")
	return n.clip
}

// ZIndex orders siblings for hit testing; higher is on top.
func (n *Node) ZIndex() *reactive.Cell[int] {
	n.Validate("ZIndex")
	return n.zIndex
}

// Visible hides the node and its subtree from hit testing when false.
func (n *Node) Visible() *reactive.Cell[bool] {
	n.Validate("Visible")
	return n.visible
}

// Focused reports whether the node is the focus leaf, an ancestor of it
// (branch) or neither.
func (n *Node) Focused() reactive.Reader[Mark] {
	return n.focused
}

// Selected reports selection membership.
func (n *Node) Selected() reactive.Reader[bool] {
	return n.selected
}

// SetSelected is called by the selection state.
func (n *Node) SetSelected(v bool) {
	n.Validate("SetSelected")
	if n.Alive() {
		n.selected.Set(v)
	}
}

// Hover reports whether the pointer is over the node (leaf) or one of its
// descendants (branch).
func (n *Node) Hover() reactive.Reader[Mark] {
	return n.hover
}

// SetHover updates the hover mark.
func (n *Node) SetHover(m Mark) {
	n.Validate("SetHover")
	if n.Alive() {
		n.hover.Set(m)
	}
}

// IsVisible reports whether the node and all its ancestors are visible.
func (n *Node) IsVisible() bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if !cur.visible.Value() {
			return false
		}
	}
	return true
}

// AddBehavior attaches a local behavior.
func (n *Node) AddBehavior(b Behavior) {
	n.Validate("AddBehavior")
	n.cfg.Behaviors = append(n.cfg.Behaviors, b)
}

// AddHeritableBehavior attaches a behavior inherited by all descendants.
func (n *Node) AddHeritableBehavior(b Behavior) {
	n.Validate("AddHeritableBehavior")
	n.cfg.Heritable = append(n.cfg.Heritable, b)
}

// Behaviors returns the node's dispatch chain: its local behaviors, then its
// heritable behaviors, then the heritable behaviors of each ancestor out to
// the root. A behavior appears once, at its first position.
func (n *Node) Behaviors() []Behavior {
	n.Validate("Behaviors")
	var out []Behavior
	seen := map[Behavior]bool{}
	add := func(bs []Behavior) {
		for _, b := range bs {
			if b == nil || seen[b] {
				continue
			}
			seen[b] = true
			out = append(out, b)
		}
	}
	add(n.cfg.Behaviors)
	for cur := n; cur != nil; cur = cur.Parent() {
		add(cur.cfg.Heritable)
	}
	return out
}

// Observe subscribes fn to r for the lifetime of the node.
func Observe[T any](n *Node, r reactive.Reader[T], fn func(T, reactive.Change)) {
	n.Validate("Observe")
	n.OnCleanup(r.Subscribe(fn))
}

// Watch subscribes fn to src for the lifetime of the node.
func (n *Node) Watch(src reactive.Source, fn func(reactive.Change)) {
	n.Validate("Watch")
	n.OnCleanup(src.Watch(fn))
}
