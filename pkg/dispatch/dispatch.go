package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/plane/pkg/core"
	"github.com/go-drift/plane/pkg/errors"
	"github.com/go-drift/plane/pkg/input"
)

// Result is the outcome of one dispatched event.
type Result struct {
	// Status is the status that ended the chain, or otherwise the strongest
	// of Continue, Decline and Ignore that was returned.
	Status core.Status
	// Prevented reports whether the host default action was suppressed.
	Prevented bool
	// Handled reports whether a chain ran at all.
	Handled bool
	Trace   []TraceEntry
}

// Dispatch runs the behavior chain of origin for ev. It returns an error
// when called from inside a handler, when origin is not alive, or when a
// handler panics; a panic aborts the rest of the chain.
func (n *Navigator) Dispatch(ev *input.Event, origin *core.Node) (Result, error) {
	if n.dispatching {
		return Result{}, &errors.PlaneError{
			Op:   "dispatch." + ev.Kind.String(),
			Kind: errors.KindDispatch,
			Err:  errors.ErrReentrantDispatch,
		}
	}
	if n.closed {
		return Result{}, nil
	}
	if origin == nil || !origin.Alive() {
		return Result{}, &errors.PlaneError{
			Op:   "dispatch." + ev.Kind.String(),
			Kind: errors.KindInvalidState,
			Err:  fmt.Errorf("origin %v is not alive", origin),
		}
	}
	return n.run(ev, origin, origin.Behaviors())
}

// dispatchOverrideOnly delivers ev to the override holding its kind, at the
// override's active node. It is used for pointer events that hit nothing.
func (n *Navigator) dispatchOverrideOnly(ev *input.Event) (Result, error) {
	o, ok := n.overrides[ev.Kind]
	if !ok {
		return Result{}, nil
	}
	active := o.active.Get()
	if active == nil {
		return Result{}, nil
	}
	return n.run(ev, active, nil)
}

func (n *Navigator) run(ev *input.Event, origin *core.Node, chain []core.Behavior) (res Result, err error) {
	start := n.clock.Now()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = start
	}
	n.dispatching = true
	res.Handled = true

	var priority core.Behavior
	done, native := false, false
	seen := core.Ignore

	record := func(b core.Behavior, st core.Status, isOverride bool) {
		if st != core.Ignore {
			res.Trace = append(res.Trace, TraceEntry{Behavior: core.BehaviorName(b), Status: st, Override: isOverride})
		}
		if st > seen {
			seen = st
		}
		if st.Ends() {
			done = true
			native = st == core.Native
			res.Status = st
		}
	}

	if o, ok := n.overrides[ev.Kind]; ok {
		priority = o.behavior
		if h := priority.Handler(ev.Kind); h != nil {
			st, perr := n.call(h, ev, origin, priority)
			if perr != nil {
				err = perr
				done = true
			} else {
				record(priority, st, true)
			}
		}
	}
	for _, b := range chain {
		if b == priority {
			continue
		}
		h := b.Handler(ev.Kind)
		if h == nil {
			continue
		}
		if done {
			res.Trace = append(res.Trace, TraceEntry{Behavior: core.BehaviorName(b), Skipped: true})
			continue
		}
		st, perr := n.call(h, ev, origin, b)
		if perr != nil {
			err = perr
			done = true
			continue
		}
		record(b, st, false)
	}
	if !done {
		res.Status = seen
	}

	n.down.Prune()
	if done && err == nil && ev.Kind == input.KeyDown && !n.down.Manipulating() {
		n.down.Clear()
	}
	if ev.Kind == input.Wheel && ev.Ctrl() {
		ev.PreventDefault()
	}
	if !native {
		ev.PreventDefault()
	}
	res.Prevented = ev.DefaultPrevented()
	n.dispatching = false

	elapsed := n.clock.Now().Sub(start)
	n.finish(ev, origin, res, elapsed, err)
	n.flushDeferred()
	return res, err
}

// call runs one handler, converting a panic into an error.
func (n *Navigator) call(h core.HandlerFunc, ev *input.Event, origin *core.Node, b core.Behavior) (st core.Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			n.metrics.panics.WithLabelValues(ev.Kind.String()).Inc()
			err = errors.CapturePanic(fmt.Sprintf("dispatch.%s[%s]", ev.Kind, core.BehaviorName(b)), r)
		}
	}()
	return h(n, ev, origin), nil
}

func (n *Navigator) finish(ev *input.Event, origin *core.Node, res Result, elapsed time.Duration, err error) {
	kind := ev.Kind.String()
	n.metrics.dispatches.WithLabelValues(kind, res.Status.String()).Inc()
	n.metrics.duration.WithLabelValues(kind).Observe(elapsed.Seconds())

	rec := Record{
		Time:      ev.Timestamp,
		Kind:      ev.Kind,
		Origin:    origin.String(),
		Status:    res.Status,
		Prevented: res.Prevented,
		Duration:  elapsed,
		Entries:   res.Trace,
	}
	if err != nil {
		rec.Err = err.Error()
	}
	n.trace.Add(rec)

	if n.tracePattern != nil && !n.tracePattern.MatchString(kind) && !n.tracePattern.MatchString(rec.Origin) {
		return
	}
	ctx := context.Background()
	if !n.logger.Enabled(ctx, n.traceLevel) {
		return
	}
	attrs := []any{
		"kind", kind,
		"origin", rec.Origin,
		"status", res.Status.String(),
		"prevented", res.Prevented,
		"chain", rec.chain(),
		"down", n.down.String(),
	}
	if err != nil {
		attrs = append(attrs, "err", err)
	}
	n.logger.Log(ctx, n.traceLevel, "dispatch", attrs...)
}

func (n *Navigator) flushDeferred() {
	for len(n.deferred) > 0 {
		fn := n.deferred[0]
		n.deferred = n.deferred[1:]
		n.runDeferred(fn)
	}
}

func (n *Navigator) runDeferred(fn func()) {
	defer errors.Recover("dispatch.Defer")
	fn()
}
