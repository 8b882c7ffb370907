// Package input defines the raw input vocabulary consumed by the dispatcher:
// event kinds, the Event value, modifier state, the set of currently pressed
// keys with platform chord mappings, click-count tracking and wheel device
// classification.
package input
