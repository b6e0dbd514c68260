package pacer

import (
	"context"
	"sync"
	"time"
)

// ThrottledFunc gates calls to an action with the cadence of [Throttler]:
// the first call runs immediately, then at most one invocation per
// interval, with a single deferred invocation carrying the latest
// arguments if more calls arrived inside the window.
type ThrottledFunc[A any] struct {
	t *Throttler[invocation[A]]

	mu sync.Mutex
	fn func(A)
}

// NewThrottledFunc creates a throttled wrapper around fn. Options are the
// same as for [NewThrottler].
func NewThrottledFunc[A any](fn func(A), interval time.Duration, opts ...Option) (*ThrottledFunc[A], error) {
	var sink func(invocation[A])
	if fn != nil {
		sink = invoke[A]
	}
	t, err := NewThrottler(interval, sink, opts...)
	if err != nil {
		return nil, err
	}
	return &ThrottledFunc[A]{t: t, fn: fn}, nil
}

// Call requests an invocation with args.
func (f *ThrottledFunc[A]) Call(args A) {
	f.mu.Lock()
	fn := f.fn
	f.mu.Unlock()

	f.t.Feed(invocation[A]{fn: fn, args: args})
}

// CallWith replaces the action and requests an invocation with args.
// A nil fn keeps the current action.
func (f *ThrottledFunc[A]) CallWith(fn func(A), args A) {
	f.mu.Lock()
	if fn != nil {
		f.fn = fn
	}
	fn = f.fn
	f.mu.Unlock()

	f.t.Feed(invocation[A]{fn: fn, args: args})
}

// Pending reports whether a deferred invocation is scheduled.
func (f *ThrottledFunc[A]) Pending() bool { return f.t.Pending() }

// Close waits for the deferred invocation, if any, then disposes.
func (f *ThrottledFunc[A]) Close(ctx context.Context) error { return f.t.Close(ctx) }

// Dispose cancels the deferred invocation. Idempotent.
func (f *ThrottledFunc[A]) Dispose() { f.t.Dispose() }

// Stats returns a snapshot of the underlying throttler's counters.
func (f *ThrottledFunc[A]) Stats() Stats { return f.t.Stats() }
