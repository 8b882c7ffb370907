package core

import (
	"slices"

	"github.com/go-drift/plane/pkg/graphics"
)

// NodeAt returns the deepest node under p. Children with a higher z-index
// are tested first; among equal z-indexes later siblings win unless the
// parent iterates children forwards. With pointer set, nodes configured with
// IgnorePointer are skipped together with their subtrees.
func (n *Node) NodeAt(p graphics.Offset, pointer bool) *Node {
	if !n.Alive() {
		return nil
	}
	if pointer && n.cfg.IgnorePointer {
		return nil
	}
	if !n.visible.Value() {
		return nil
	}
	if clip := n.clip.Value(); clip != nil && !clip.Contains(p) {
		return nil
	}
	hit := n.rect.Value().Contains(p)
	if (hit || n.cfg.Overflow) && !n.cfg.Opaque {
		for _, c := range n.hitOrder() {
			if found := c.NodeAt(p, pointer); found != nil {
				return found
			}
		}
	}
	if hit && !n.cfg.Transparent {
		return n
	}
	return nil
}

// NodesInRect returns every hittable node whose rect overlaps r, outermost
// first.
func (n *Node) NodesInRect(r graphics.Rect) []*Node {
	var out []*Node
	n.collectInRect(r, &out)
	return out
}

func (n *Node) collectInRect(r graphics.Rect, out *[]*Node) {
	if !n.Alive() || !n.visible.Value() || n.cfg.IgnorePointer {
		return
	}
	area := r
	if clip := n.clip.Value(); clip != nil {
		area = area.Intersect(*clip)
		if area.IsEmpty() {
			return
		}
	}
	hit := n.rect.Value().Overlaps(area)
	if hit && !n.cfg.Transparent {
		*out = append(*out, n)
	}
	if (hit || n.cfg.Overflow) && !n.cfg.Opaque {
		for _, c := range n.hitOrder() {
			c.collectInRect(area, out)
		}
	}
}

// hitOrder returns the children in the order hit testing visits them.
func (n *Node) hitOrder() []*Node {
	children := n.Children()
	if !n.cfg.IterateChildrenForwards {
		slices.Reverse(children)
	}
	slices.SortStableFunc(children, func(a, b *Node) int {
		return b.zIndex.Value() - a.zIndex.Value()
	})
	return children
}
