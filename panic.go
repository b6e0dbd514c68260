package pacer

import (
	"fmt"
	"runtime"
)

// PanicError wraps a value recovered from a panicking sink or action
// together with the goroutine stack trace captured at the point of the panic.
//
// The dispatcher recovers the panic so that later emissions still get
// delivered; the *PanicError is logged, counted in [Stats.Panics] and handed
// to the hook registered with [WithOnPanic].
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

// Error returns a human-readable representation of the panic,
// including the value and the full stack trace.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns the panic value when it is an error, nil otherwise.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// newPanicError is called from the recover in dispatcher.deliver, still on
// the delivery goroutine, so the captured stack shows the sink frames and
// the emission that triggered them. Traces longer than the buffer are cut.
func newPanicError(v any) *PanicError {
	buf := make([]byte, 8<<10)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}
