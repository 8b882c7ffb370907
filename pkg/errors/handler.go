package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerBox lets an interface value live in an atomic.Pointer.
type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: &LogHandler{}})
}

// Handler returns the handler errors and panics are reported to.
func Handler() ErrorHandler {
	return current.Load().h
}

// SetHandler replaces the handler and returns the previous one. Nil restores
// a LogHandler writing to slog.Default.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Report sends err to the handler, stamping the time and the reporting
// call site when they are missing.
func Report(err *PlaneError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if err.StackTrace == "" {
		err.StackTrace = stack(3)
	}
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the handler.
func ReportPanic(err *PanicError) {
	if err != nil {
		Handler().HandlePanic(err)
	}
}

// Recover reports a panic in progress. It must be deferred directly:
//
//	defer errors.Recover("dispatch.Defer")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(newPanic(op, r))
	}
}

// RecoverWithCallback is Recover followed by callback(r).
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		ReportPanic(newPanic(op, r))
		if callback != nil {
			callback(r)
		}
	}
}

// CapturePanic turns r, the value of recover(), into a reported PanicError
// so the caller can return it. A nil r yields nil.
func CapturePanic(op string, r any) *PanicError {
	if r == nil {
		return nil
	}
	perr := newPanic(op, r)
	ReportPanic(perr)
	return perr
}

func newPanic(op string, r any) *PanicError {
	return &PanicError{Op: op, Value: r, StackTrace: stack(4), Timestamp: time.Now()}
}

// CaptureStack returns the stack of its caller, one "function\n\tfile:line"
// entry per frame.
func CaptureStack() string {
	return stack(3)
}

// stack formats up to 32 frames, skipping skip frames as runtime.Callers
// does.
func stack(skip int) string {
	pcs := make([]uintptr, 32)
	pcs = pcs[:runtime.Callers(skip, pcs)]
	if len(pcs) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
