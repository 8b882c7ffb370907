package lifecycle

// Weak is a non-owning reference. It never keeps its target alive and
// yields nothing once the target has started destruction.
type Weak[T Object] struct {
	target T
	set    bool
}

// WeakOf returns a weak reference to target.
func WeakOf[T Object](target T) Weak[T] {
	return Weak[T]{target: target, set: true}
}

// Upgrade returns the target if it is still alive.
func (w Weak[T]) Upgrade() (T, bool) {
	if w.set && w.target.Alive() {
		return w.target, true
	}
	var zero T
	return zero, false
}

// Get returns the live target or the zero value.
func (w Weak[T]) Get() T {
	t, _ := w.Upgrade()
	return t
}

// Is reports whether w refers to target, alive or not.
func (w Weak[T]) Is(target T) bool {
	return w.set && any(w.target) == any(target)
}

// Set points w at target.
func (w *Weak[T]) Set(target T) {
	w.target = target
	w.set = true
}

// Clear drops the reference.
func (w *Weak[T]) Clear() {
	var zero T
	w.target = zero
	w.set = false
}
