// Package focus tracks which node holds keyboard focus.
//
// Focus is never empty: before anything is focused, after Blur, and after the
// focused node is destroyed, the current focus is a living focusable ancestor
// of the old target or the root.
package focus

import (
	"log/slog"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/reactive"
)

// Matcher picks the node a pending focus should land on. It is called with
// each newly created or bound node and returns the node to focus, usually
// the candidate itself, or nil when the candidate does not match.
type Matcher func(candidate *core.Node) *core.Node

// Pending is a focus request for a node that does not exist yet.
type Pending struct {
	Match   Matcher
	Context core.FocusContext
}

// State is the focus state machine of one tree.
type State struct {
	root    *core.Node
	logger  *slog.Logger
	current *reactive.Cell[*core.Node]
	pending *Pending
	// release cancels the cleanup hook on the current target.
	release func()
	detach  func()
}

// New returns a focus state for the tree under root. Root starts focused.
func New(root *core.Node) *State {
	s := &State{
		root:    root,
		logger:  root.Context().Logger(),
		current: reactive.NewComparable(root),
		release: func() {},
	}
	s.detach = root.Context().AddObserver(core.ObserverFuncs{
		Created: func(n *core.Node) { s.CheckPendingFocus(n) },
		Bound:   func(n *core.Node) { s.CheckPendingFocus(n) },
	})
	root.OnCleanup(s.Close)
	return s
}

// Close detaches the state from the tree context.
func (s *State) Close() {
	s.detach()
	s.release()
	s.release = func() {}
	s.pending = nil
}

// Root returns the fallback focus target.
func (s *State) Root() *core.Node {
	return s.root
}

// Current returns the focused node. It is never nil.
func (s *State) Current() *core.Node {
	return s.current.Value()
}

// Changes notifies subscribers with each new focus target.
func (s *State) Changes() reactive.Reader[*core.Node] {
	return s.current
}

// SetFocus moves focus to target. The previous target and its ancestors are
// blurred up to, not including, their lowest common ancestor with target, so
// shared ancestors keep their branch mark without flicker. A target that is
// being destroyed is ignored.
func (s *State) SetFocus(target *core.Node, ctx core.FocusContext) {
	target.Validate("SetFocus")
	if !target.Alive() {
		s.logger.Debug("focus target is being destroyed", "target", target.String())
		return
	}
	prev := s.current.Value()
	s.logger.Debug("focus", "target", target.String(), "trigger", ctx.Trigger.String())

	s.release()
	s.release = target.OnCleanup(func() { s.rehome(target, ctx) })
	s.current.Set(target)

	if prev != nil && prev != target && prev.Alive() && !prev.Contains(target) {
		prev.MarkBlurred(prev.LowestCommonAncestor(target))
	}
	target.MarkFocused(ctx)
}

// rehome runs while target is being destroyed.
func (s *State) rehome(target *core.Node, ctx core.FocusContext) {
	s.release = func() {}
	target.MarkBlurred(nil)
	if s.current.Value() != target {
		return
	}
	next := target.ClosestLiving(func(n *core.Node) bool { return n.Config().Focusable })
	if next == nil {
		next = s.root
	}
	if !next.Alive() {
		s.current.Set(s.root)
		return
	}
	s.logger.Debug("focus rehomed", "from", target.String(), "to", next.String())
	ctx.Trigger = core.TriggerProgrammatic
	s.SetFocus(next, ctx)
}

// Blur clears every focus mark and re-homes focus to the root.
func (s *State) Blur() {
	cur := s.current.Value()
	if cur != nil && cur.Alive() {
		cur.MarkBlurred(nil)
	}
	s.release()
	s.release = func() {}
	s.current.Set(s.root)
}

// SetPendingFocus records an intent to focus a node that will be created
// later. It replaces any earlier pending request.
func (s *State) SetPendingFocus(match Matcher, ctx core.FocusContext) {
	s.logger.Debug("pending focus set")
	s.pending = &Pending{Match: match, Context: ctx}
}

// PendingFocus returns the outstanding request, if any.
func (s *State) PendingFocus() (Pending, bool) {
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

// CheckPendingFocus resolves the pending request against n. It reports
// whether focus moved.
func (s *State) CheckPendingFocus(n *core.Node) bool {
	p := s.pending
	if p == nil || !n.Alive() {
		return false
	}
	target := p.Match(n)
	if target == nil {
		return false
	}
	s.pending = nil
	s.logger.Debug("pending focus matched", "node", target.String())
	s.SetFocus(target, p.Context)
	return true
}

// Is matches exactly n.
func Is(n *core.Node) Matcher {
	return func(c *core.Node) *core.Node {
		if c == n {
			return c
		}
		return nil
	}
}

// ByLabel matches the first node carrying label.
func ByLabel(label string) Matcher {
	return func(c *core.Node) *core.Node {
		if c.Label() == label {
			return c
		}
		return nil
	}
}

// Where matches nodes satisfying pred.
func Where(pred func(*core.Node) bool) Matcher {
	return func(c *core.Node) *core.Node {
		if pred(c) {
			return c
		}
		return nil
	}
}
