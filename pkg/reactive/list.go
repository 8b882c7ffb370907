package reactive

import (
	"fmt"
	"iter"
	"slices"
)

// ListOp is the kind of per-item list notification.
type ListOp uint8

const (
	OpAdd ListOp = iota
	OpRemove
	OpMove
)

func (op ListOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	default:
		return fmt.Sprintf("ListOp(%d)", uint8(op))
	}
}

// ListEvent describes one item mutation. Index is the item's offset before a
// move or removal and after an insertion; NewIndex is set for moves.
type ListEvent[T any] struct {
	Op       ListOp
	Item     T
	Index    int
	NewIndex int
	Change   Change
}

// CellList is an observable ordered sequence. Item listeners receive one
// event per added, removed or moved element; change listeners then receive
// the whole list once per mutating call.
type CellList[T any] struct {
	items   []T
	itemSub subscribers[func(ListEvent[T])]
	subs    subscribers[func([]T, Change)]
}

// NewList returns a list holding a copy of items.
func NewList[T any](items ...T) *CellList[T] {
	return &CellList[T]{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *CellList[T]) Len() int {
	return len(l.items)
}

// At returns the item at i.
func (l *CellList[T]) At(i int) T {
	return l.items[i]
}

// Value returns a copy of the items.
func (l *CellList[T]) Value() []T {
	return slices.Clone(l.items)
}

// All iterates over a snapshot of the items.
func (l *CellList[T]) All() iter.Seq2[int, T] {
	snapshot := l.items
	return func(yield func(int, T) bool) {
		for i, v := range snapshot {
			if !yield(i, v) {
				return
			}
		}
	}
}

// IndexFunc returns the first index whose item satisfies pred, or -1.
func (l *CellList[T]) IndexFunc(pred func(T) bool) int {
	return slices.IndexFunc(l.items, pred)
}

// Insert places v at index i.
func (l *CellList[T]) Insert(i int, v T, ch ...Change) {
	if i < 0 || i > len(l.items) {
		panic(fmt.Sprintf("reactive: insert index %d out of range [0,%d]", i, len(l.items)))
	}
	l.items = slices.Insert(slices.Clip(l.items), i, v)
	c := changeArg(ch)
	l.fireItem(ListEvent[T]{Op: OpAdd, Item: v, Index: i, NewIndex: i, Change: c})
	l.fireChange(c)
}

// Append adds v at the end.
func (l *CellList[T]) Append(v T, ch ...Change) {
	l.Insert(len(l.items), v, ch...)
}

// Remove deletes and returns the item at i.
func (l *CellList[T]) Remove(i int, ch ...Change) T {
	v := l.items[i]
	l.items = slices.Delete(slices.Clone(l.items), i, i+1)
	c := changeArg(ch)
	l.fireItem(ListEvent[T]{Op: OpRemove, Item: v, Index: i, NewIndex: -1, Change: c})
	l.fireChange(c)
	return v
}

// RemoveFunc removes the first item satisfying pred and reports whether one
// was found.
func (l *CellList[T]) RemoveFunc(pred func(T) bool, ch ...Change) bool {
	i := l.IndexFunc(pred)
	if i < 0 {
		return false
	}
	l.Remove(i, ch...)
	return true
}

// Move relocates the item at from so that it ends up at index to. Item
// identity is preserved; listeners receive a single OpMove.
func (l *CellList[T]) Move(from, to int, ch ...Change) {
	if from == to {
		return
	}
	if to < 0 || to >= len(l.items) {
		panic(fmt.Sprintf("reactive: move index %d out of range [0,%d)", to, len(l.items)))
	}
	v := l.items[from]
	next := slices.Delete(slices.Clone(l.items), from, from+1)
	l.items = slices.Insert(next, to, v)
	c := changeArg(ch)
	l.fireItem(ListEvent[T]{Op: OpMove, Item: v, Index: from, NewIndex: to, Change: c})
	l.fireChange(c)
}

// Replace swaps the whole contents. Existing items are removed from the tail
// first, then the new items are added in order.
func (l *CellList[T]) Replace(items []T, ch ...Change) {
	c := changeArg(ch)
	old := l.items
	l.items = nil
	for i := len(old) - 1; i >= 0; i-- {
		l.fireItem(ListEvent[T]{Op: OpRemove, Item: old[i], Index: i, NewIndex: -1, Change: c})
	}
	l.items = slices.Clone(items)
	for i, v := range l.items {
		l.fireItem(ListEvent[T]{Op: OpAdd, Item: v, Index: i, NewIndex: i, Change: c})
	}
	l.fireChange(c)
}

// Clear removes every item.
func (l *CellList[T]) Clear(ch ...Change) {
	if len(l.items) == 0 {
		return
	}
	l.Replace(nil, ch...)
}

// SubscribeItems calls fn for every item event. With replay, fn first receives
// an OpAdd for each existing item.
func (l *CellList[T]) SubscribeItems(fn func(ListEvent[T]), replay bool) Disposer {
	if replay {
		for i, v := range l.items {
			fn(ListEvent[T]{Op: OpAdd, Item: v, Index: i, NewIndex: i, Change: Change{Origin: OriginSystem}})
		}
	}
	return l.itemSub.add(fn)
}

// Subscribe calls fn with the list contents after every mutation.
func (l *CellList[T]) Subscribe(fn func([]T, Change)) Disposer {
	return l.subs.add(fn)
}

// Watch implements Source.
func (l *CellList[T]) Watch(fn func(Change)) Disposer {
	return l.subs.add(func(_ []T, ch Change) { fn(ch) })
}

// SubscriberCount returns the number of item and change subscriptions.
func (l *CellList[T]) SubscriberCount() int {
	return l.itemSub.len() + l.subs.len()
}

func (l *CellList[T]) fireItem(ev ListEvent[T]) {
	l.itemSub.each(func(fn func(ListEvent[T])) { fn(ev) })
}

func (l *CellList[T]) fireChange(ch Change) {
	items := l.items
	l.subs.each(func(fn func([]T, Change)) { fn(items, ch) })
}

// Close drops every subscription.
func (l *CellList[T]) Close() {
	l.itemSub.clear()
	l.subs.clear()
}
