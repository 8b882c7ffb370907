package core

import "slices"

// Root returns the topmost live ancestor, or n itself.
func (n *Node) Root() *Node {
	cur := n
	for p := cur.Parent(); p != nil; p = cur.Parent() {
		cur = p
	}
	return cur
}

// Path returns the ancestors of n from the root down to its parent.
func (n *Node) Path() []*Node {
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	slices.Reverse(out)
	return out
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// Index returns the position of n among its parent's children, or -1 for a
// root.
func (n *Node) Index() int {
	p := n.Parent()
	if p == nil {
		return -1
	}
	return slices.Index(p.Children(), n)
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}

// LowestCommonAncestor returns the deepest node containing both n and other,
// which may be either of them. It returns nil for nodes of different trees.
func (n *Node) LowestCommonAncestor(other *Node) *Node {
	if other == nil {
		return nil
	}
	a, b := n, other
	da, db := a.Depth(), b.Depth()
	for da > db {
		a = a.Parent()
		da--
	}
	for db > da {
		b = b.Parent()
		db--
	}
	for a != b {
		a, b = a.Parent(), b.Parent()
		if a == nil || b == nil {
			return nil
		}
	}
	return a
}

// LowestCommonSiblingAncestors returns the ancestors-or-self of n and other
// that are children of their lowest common ancestor. ok is false when one
// node contains the other or they share no tree.
func (n *Node) LowestCommonSiblingAncestors(other *Node) (a, b *Node, ok bool) {
	lca := n.LowestCommonAncestor(other)
	if lca == nil || lca == n || lca == other {
		return nil, nil, false
	}
	a, b = n, other
	for a.Parent() != lca {
		a = a.Parent()
	}
	for b.Parent() != lca {
		b = b.Parent()
	}
	return a, b, true
}

// SiblingsBetween returns the children of a common parent from a to b
// inclusive, in tree order whichever of the two comes first.
func SiblingsBetween(a, b *Node) []*Node {
	p := a.Parent()
	if p == nil || p != b.Parent() {
		return nil
	}
	children := p.Children()
	i, j := slices.Index(children, a), slices.Index(children, b)
	if i < 0 || j < 0 {
		return nil
	}
	if i > j {
		i, j = j, i
	}
	return slices.Clone(children[i : j+1])
}

// PrevSibling returns the sibling before n, or nil.
func (n *Node) PrevSibling() *Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	children := p.Children()
	if i := slices.Index(children, n); i > 0 {
		return children[i-1]
	}
	return nil
}

// NextSibling returns the sibling after n, or nil.
func (n *Node) NextSibling() *Node {
	p := n.Parent()
	if p == nil {
		return nil
	}
	children := p.Children()
	if i := slices.Index(children, n); i >= 0 && i+1 < len(children) {
		return children[i+1]
	}
	return nil
}

// FindClosest returns the nearest of n and its ancestors matching pred.
func (n *Node) FindClosest(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// ClosestInstance returns the domain object of the nearest node, n included,
// whose embedding type is T.
func ClosestInstance[T any](n *Node) (T, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if v, ok := cur.self.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// ClosestLiving walks from n toward the root through dying ancestors and
// returns the first live node matching pred. It is meant for cleanup hooks,
// where n and some of its ancestors may already be on their way out.
func (n *Node) ClosestLiving(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.up {
		if cur.Alive() && (pred == nil || pred(cur)) {
			return cur
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the node's subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(visit)
	}
}

// FindChild returns the first descendant, excluding n, matching pred in
// pre-order.
func (n *Node) FindChild(pred func(*Node) bool) *Node {
	for _, c := range n.Children() {
		if pred(c) {
			return c
		}
		if found := c.FindChild(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns n and every descendant matching pred in pre-order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FindDeepestChild returns the last matching node, n included, in a
// pre-order walk that only descends into matching nodes.
func (n *Node) FindDeepestChild(pred func(*Node) bool) *Node {
	if !pred(n) {
		return nil
	}
	deepest := n
	for _, c := range n.Children() {
		if d := c.FindDeepestChild(pred); d != nil {
			deepest = d
		}
	}
	return deepest
}

// FindSucceedingNode returns the first node after n in tree order, outside
// n's subtree, that matches pred or contains a match; the match itself is
// returned.
func (n *Node) FindSucceedingNode(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		for sib := cur.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if pred(sib) {
				return sib
			}
			if found := sib.FindChild(pred); found != nil {
				return found
			}
		}
	}
	return nil
}

// FindPrecedingNode returns the closest node before n in tree order,
// outside n's ancestors, matching pred.
func (n *Node) FindPrecedingNode(pred func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		for sib := cur.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
			if last := lastMatch(sib, pred); last != nil {
				return last
			}
		}
	}
	return nil
}

func lastMatch(n *Node, pred func(*Node) bool) *Node {
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if found := lastMatch(children[i], pred); found != nil {
			return found
		}
	}
	if pred(n) {
		return n
	}
	return nil
}
