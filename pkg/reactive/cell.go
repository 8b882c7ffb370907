package reactive

// Cell is an observable value.
type Cell[T any] struct {
	value    T
	previous T
	equal    func(a, b T) bool
	subs     subscribers[func(T, Change)]
}

// New returns a Cell that notifies on every Set.
func New[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// NewComparable returns a Cell that skips notification when the new value
// equals the current one.
func NewComparable[T comparable](value T) *Cell[T] {
	return &Cell[T]{value: value, equal: func(a, b T) bool { return a == b }}
}

// SetEqual installs the equality used to suppress redundant notifications.
// Nil notifies on every Set.
func (c *Cell[T]) SetEqual(eq func(a, b T) bool) {
	c.equal = eq
}

// Value returns the current value.
func (c *Cell[T]) Value() T {
	return c.value
}

// Previous returns the value replaced by the most recent Set.
func (c *Cell[T]) Previous() T {
	return c.previous
}

// Set stores value and notifies subscribers.
func (c *Cell[T]) Set(value T) {
	c.SetWith(value, Change{})
}

// SetWith stores value and notifies subscribers with ch.
func (c *Cell[T]) SetWith(value T, ch Change) {
	changed := c.equal == nil || !c.equal(c.value, value)
	c.previous = c.value
	c.value = value
	if changed || ch.Force {
		c.notify(ch)
	}
}

// SetQuiet stores value without notifying.
func (c *Cell[T]) SetQuiet(value T) {
	c.previous = c.value
	c.value = value
}

// Update replaces the value with fn applied to it.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.value))
}

// Subscribe calls fn after every change.
func (c *Cell[T]) Subscribe(fn func(T, Change)) Disposer {
	return c.subs.add(fn)
}

// SubscribeNow calls fn with the current value, then after every change.
func (c *Cell[T]) SubscribeNow(fn func(T, Change)) Disposer {
	fn(c.value, Change{Origin: OriginSystem})
	return c.subs.add(fn)
}

// Watch implements Source.
func (c *Cell[T]) Watch(fn func(Change)) Disposer {
	return c.subs.add(func(_ T, ch Change) { fn(ch) })
}

// SubscriberCount returns the number of active subscriptions.
func (c *Cell[T]) SubscriberCount() int {
	return c.subs.len()
}

func (c *Cell[T]) notify(ch Change) {
	v := c.value
	c.subs.each(func(fn func(T, Change)) { fn(v, ch) })
}

// Close drops every subscription.
func (c *Cell[T]) Close() {
	c.subs.clear()
}
