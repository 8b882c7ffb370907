// Package reactive provides observable values and lists.
//
// A Cell holds one value; a CellList holds an ordered sequence with per-item
// add, remove and move notifications. Derived containers (Computed, Map) and
// effects (ForEach) subscribe to one or more sources and recompute whenever
// any source fires.
//
// Delivery is synchronous: every subscriber of a change has been called, in
// subscription order, before the mutating call returns. Subscribers removed
// during a notification are not called for the remainder of it; subscribers
// added during a notification first see the next change.
//
// Containers are not safe for concurrent use.
package reactive
