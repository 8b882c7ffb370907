package dispatch

import (
	"slices"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/input"
	"github.com/go-drift/plane/pkg/lifecycle"
)

// SetGlobalBehaviorOverrides implements core.Dispatcher. A kind already held
// by another behavior stays with its holder; the result is false if any
// requested kind was refused. Claiming a kind b already holds updates its
// active node.
func (n *Navigator) SetGlobalBehaviorOverrides(b core.Behavior, active *core.Node, kinds ...input.Kind) bool {
	if n.closed {
		return false
	}
	granted := true
	for _, kind := range kinds {
		if cur, ok := n.overrides[kind]; ok && cur.behavior != b {
			n.logger.Debug("override refused",
				"behavior", core.BehaviorName(b), "kind", kind.String(), "holder", core.BehaviorName(cur.behavior))
			granted = false
			continue
		}
		o := &override{behavior: b}
		if active != nil {
			o.active = lifecycle.WeakOf(active)
		}
		n.overrides[kind] = o
	}
	n.logger.Debug("override set", "behavior", core.BehaviorName(b), "kinds", kindNames(kinds))
	n.metrics.overrides.Set(float64(len(n.overrides)))
	return granted
}

// UnsetGlobalBehaviorOverrides implements core.Dispatcher. Kinds held by
// other behaviors are left alone.
func (n *Navigator) UnsetGlobalBehaviorOverrides(b core.Behavior, kinds ...input.Kind) {
	for kind, o := range n.overrides {
		if o.behavior != b {
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, kind) {
			continue
		}
		delete(n.overrides, kind)
	}
	n.logger.Debug("override unset", "behavior", core.BehaviorName(b), "kinds", kindNames(kinds))
	n.metrics.overrides.Set(float64(len(n.overrides)))
}

// Override returns the behavior holding kind.
func (n *Navigator) Override(kind input.Kind) (core.Behavior, bool) {
	o, ok := n.overrides[kind]
	if !ok {
		return nil, false
	}
	return o.behavior, true
}

// Overrides returns the held kinds in kind order.
func (n *Navigator) Overrides() []input.Kind {
	kinds := make([]input.Kind, 0, len(n.overrides))
	for k := range n.overrides {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// ActiveNode returns the live node the override on kind is working on.
func (n *Navigator) ActiveNode(kind input.Kind) *core.Node {
	if o, ok := n.overrides[kind]; ok {
		return o.active.Get()
	}
	return nil
}

func kindNames(kinds []input.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}
