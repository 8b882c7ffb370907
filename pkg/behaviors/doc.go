// Package behaviors holds the stock behaviors of a plane surface: panning
// and zooming, dragging and resizing nodes, click and keyboard selection,
// keyboard focus, shortcuts and the clipboard.
//
// Every behavior is a pointer type built around a core.HandlerTable, so it
// can sit in a node's chain and also claim global overrides for itself while
// a gesture is in progress.
package behaviors
