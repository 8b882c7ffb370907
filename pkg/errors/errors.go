// Package errors provides structured error handling for plane.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindUseAfterDestroy indicates a method call on a destroyed object.
	KindUseAfterDestroy
	// KindInvalidState indicates an operation invoked without its required prior state.
	KindInvalidState
	// KindDispatch indicates an event dispatch failure.
	KindDispatch
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates a configuration load or validation error.
	KindConfig
	// KindTransaction indicates a failed transaction commit.
	KindTransaction
)

func (k ErrorKind) String() string {
	switch k {
	case KindUseAfterDestroy:
		return "use-after-destroy"
	case KindInvalidState:
		return "invalid-state"
	case KindDispatch:
		return "dispatch"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// ErrReentrantDispatch is returned when Dispatch is called from inside a handler.
var ErrReentrantDispatch = stderrors.New("dispatch: re-entrant dispatch")

// PlaneError represents a structured error reported by plane.
type PlaneError struct {
	// Op is the operation that failed (e.g., "dispatch.Navigator.Dispatch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *PlaneError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *PlaneError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "behavior Drag.PointerMove").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// UseAfterDestroyError is raised when a destroyed object is used.
// It carries both the offending call site and the site that destroyed the object.
type UseAfterDestroyError struct {
	// Type is the dynamic type name of the destroyed object.
	Type string
	// Key is the identity key of the destroyed object.
	Key string
	// Op names the method that was invoked.
	Op string
	// CallSite is the stack of the invalid call.
	CallSite string
	// DestroyedAt is the stack captured when the object was destroyed.
	DestroyedAt string
}

func (e *UseAfterDestroyError) Error() string {
	return fmt.Sprintf("use of destroyed %s (%s) in %s\ncalled at:\n%s\ndestroyed at:\n%s",
		e.Type, e.Key, e.Op, e.CallSite, e.DestroyedAt)
}

// InvalidStateError reports a programmer error such as dragging without a drag origin.
type InvalidStateError struct {
	// Op is the operation that detected the state.
	Op string
	// Reason describes what was missing or wrong.
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: invalid state: %s", e.Op, e.Reason)
}

// Is, As and New mirror the standard library so callers need a single import.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)

// ErrorHandler receives errors reported by plane.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *PlaneError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
