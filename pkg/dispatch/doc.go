// Package dispatch routes raw input events through behavior chains.
//
// A Navigator is the single collector for one tree. For each event it finds
// the origin node, by hit test for pointer events and from the focus state
// for keyboard, text and clipboard events, then runs the chain:
//
//  1. the global override holding the event kind, if any,
//  2. the origin's local behaviors,
//  3. heritable behaviors from the origin out to the root.
//
// The chain stops at the first Stop or Native. Decline, Continue and Ignore
// pass the event on. Unless some behavior answered Native, the event's host
// default action is prevented.
//
// Overrides model temporary exclusive capture such as a drag: a behavior
// claims event kinds with SetGlobalBehaviorOverrides and must release them
// with UnsetGlobalBehaviorOverrides on every exit path. Claims bound to an
// active node are also released when that node is destroyed.
//
// Handlers must not dispatch synchronously; Dispatch returns
// errors.ErrReentrantDispatch when they try. Follow-up work goes through
// Defer and runs once the current event has been fully processed.
package dispatch
