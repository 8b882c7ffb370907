package testing

import (
	"fmt"

	"github.com/go-drift/plane/pkg/core"
)

// Finder locates nodes in a tree.
type Finder interface {
	// Evaluate returns all matching nodes under root, root included, in
	// pre-order.
	Evaluate(root *core.Node) []*core.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*core.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *core.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *core.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *core.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*core.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists reports whether at least one node matched.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates f against the tester's root.
func (t *Tester) Find(f Finder) FinderResult {
	return FinderResult{nodes: f.Evaluate(t.Root), finder: f}
}

type predicateFinder struct {
	desc string
	pred func(*core.Node) bool
}

func (f *predicateFinder) Evaluate(root *core.Node) []*core.Node {
	return root.FindAll(f.pred)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByLabel matches nodes whose label equals label.
func ByLabel(label string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByLabel(%q)", label),
		pred: func(n *core.Node) bool { return n.Label() == label },
	}
}

// ByPredicate matches nodes for which fn returns true. desc names the finder
// in failure messages.
func ByPredicate(desc string, fn func(*core.Node) bool) Finder {
	return &predicateFinder{desc: fmt.Sprintf("ByPredicate(%s)", desc), pred: fn}
}

// BySelf matches nodes whose domain object is a T.
func BySelf[T any]() Finder {
	var zero T
	return &predicateFinder{
		desc: fmt.Sprintf("BySelf(%T)", zero),
		pred: func(n *core.Node) bool {
			_, ok := n.Self().(T)
			return ok
		},
	}
}

type descendantFinder struct {
	of, matching Finder
}

func (f *descendantFinder) Evaluate(root *core.Node) []*core.Node {
	var out []*core.Node
	seen := map[*core.Node]bool{}
	for _, anc := range f.of.Evaluate(root) {
		for _, n := range f.matching.Evaluate(anc) {
			if n != anc && !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant matches nodes found by matching strictly below any node found
// by of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}
