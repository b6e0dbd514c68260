package pacer

import (
	"context"
	"sync"
	"time"
)

// invocation pairs an action with the arguments it will be called with.
type invocation[A any] struct {
	fn   func(A)
	args A
}

func invoke[A any](inv invocation[A]) {
	inv.fn(inv.args)
}

// DebouncedFunc gates calls to an action with the temporal rules of
// [Debouncer]: N calls inside a window followed by quiet result in one
// invocation with the Nth arguments.
//
// Use struct{} as A for actions that take no arguments.
type DebouncedFunc[A any] struct {
	d *Debouncer[invocation[A]]

	mu sync.Mutex
	fn func(A)
}

// NewDebouncedFunc creates a debounced wrapper around fn. Options are the
// same as for [NewDebouncer].
func NewDebouncedFunc[A any](fn func(A), delay time.Duration, opts ...Option) (*DebouncedFunc[A], error) {
	var sink func(invocation[A])
	if fn != nil {
		sink = invoke[A]
	}
	d, err := NewDebouncer(delay, sink, opts...)
	if err != nil {
		return nil, err
	}
	return &DebouncedFunc[A]{d: d, fn: fn}, nil
}

// Call requests an invocation with args.
func (f *DebouncedFunc[A]) Call(args A) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()

	f.d.Feed(invocation[A]{fn: fn, args: args})
}

// CallWith replaces the action and requests an invocation with args.
// Whatever fires next runs the most recently supplied action. A nil fn
// keeps the current action.
func (f *DebouncedFunc[A]) CallWith(fn func(A), args A) {
	f.mu.Lock()
	if fn != nil {
		f.fn = fn
	}
	fn = f.fn
	f.mu.Unlock()

	f.d.Feed(invocation[A]{fn: fn, args: args})
}

// Flush runs the pending invocation now, if there is one.
func (f *DebouncedFunc[A]) Flush() { f.d.Flush() }

// Pending reports whether an invocation is still scheduled.
func (f *DebouncedFunc[A]) Pending() bool { return f.d.Pending() }

// Close flushes the pending invocation, waits for it to run, then disposes.
func (f *DebouncedFunc[A]) Close(ctx context.Context) error { return f.d.Close(ctx) }

// Dispose cancels any scheduled invocation. Idempotent.
func (f *DebouncedFunc[A]) Dispose() { f.d.Dispose() }

// Stats returns a snapshot of the underlying debouncer's counters.
func (f *DebouncedFunc[A]) Stats() Stats { return f.d.Stats() }
