package reactive

import "github.com/go-drift/plane/pkg/lifecycle"

// Derived is a read-only container whose value is recomputed from its
// sources. It exposes the same subscribe contract as Cell, so derived
// containers compose. Destroying it detaches it from its sources.
type Derived[T any] struct {
	lifecycle.Base
	cell       Cell[T]
	compute    func() T
	recomputes int
}

// Computed returns a container holding fn's result. fn runs once immediately
// and once more for every change announced by any of sources.
func Computed[T any](fn func() T, sources ...Source) *Derived[T] {
	d := &Derived[T]{compute: fn}
	d.Init(d)
	d.cell.value = fn()
	for _, src := range sources {
		if src == nil {
			continue
		}
		d.OnCleanup(src.Watch(d.recompute))
	}
	d.OnCleanup(d.cell.Close)
	return d
}

// ComputedComparable is Computed with notifications suppressed when the
// recomputed value is unchanged.
func ComputedComparable[T comparable](fn func() T, sources ...Source) *Derived[T] {
	d := Computed(fn, sources...)
	d.cell.equal = func(a, b T) bool { return a == b }
	return d
}

// Map derives a container by applying fn to src's value.
func Map[S, T any](src Reader[S], fn func(S) T) *Derived[T] {
	return Computed(func() T { return fn(src.Value()) }, src)
}

func (d *Derived[T]) recompute(ch Change) {
	if !d.Alive() {
		return
	}
	d.recomputes++
	d.cell.SetWith(d.compute(), ch)
}

// Value returns the most recently computed value.
func (d *Derived[T]) Value() T {
	d.Validate("Derived.Value")
	return d.cell.value
}

// Subscribe calls fn after every recompute that changes the value.
func (d *Derived[T]) Subscribe(fn func(T, Change)) Disposer {
	d.Validate("Derived.Subscribe")
	return d.cell.Subscribe(fn)
}

// Watch implements Source.
func (d *Derived[T]) Watch(fn func(Change)) Disposer {
	d.Validate("Derived.Watch")
	return d.cell.Watch(fn)
}

// Recomputes returns how many times the value was recomputed after creation.
func (d *Derived[T]) Recomputes() int {
	return d.recomputes
}

// Effect runs a side effect whenever one of its sources changes.
type Effect struct {
	lifecycle.Base
	fn func(Change)
}

// ForEach calls fn once immediately and again on every change of sources.
// Destroy the returned Effect to stop it.
func ForEach(fn func(Change), sources ...Source) *Effect {
	e := &Effect{fn: fn}
	e.Init(e)
	for _, src := range sources {
		if src == nil {
			continue
		}
		e.OnCleanup(src.Watch(func(ch Change) {
			if e.Alive() {
				e.fn(ch)
			}
		}))
	}
	fn(Change{Origin: OriginSystem})
	return e
}
