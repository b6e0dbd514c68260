package chanx

import "context"

// Send sends v to ch, unblocking early if ctx is canceled.
// It returns nil on successful send, or the context error if canceled.
func Send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv receives a value from ch, unblocking early if ctx is canceled.
// It returns the value, a boolean indicating whether the channel is still
// open (false means ch was closed), and any context error.
func Recv[T any](ctx context.Context, ch <-chan T) (T, bool, error) {
	select {
	case v, ok := <-ch:
		return v, ok, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

// scheduler is the part of pacer.Debouncer and pacer.Throttler that pump
// drives.
type scheduler[T any] interface {
	Feed(v T)
	Close(ctx context.Context) error
	Dispose()
}

// pump feeds s from in until in is closed or ctx is done, then closes out.
// A closed input gets a graceful Close so the last value still goes out;
// a cancelled ctx disposes s and drops whatever is pending.
func pump[T any](ctx context.Context, in <-chan T, out *Closable[T], s scheduler[T]) {
	defer out.Close()

	if in == nil {
		s.Dispose()
		return
	}
	for {
		v, ok, err := Recv(ctx, in)
		if err != nil {
			s.Dispose()
			return
		}
		if !ok {
			_ = s.Close(ctx)
			return
		}
		s.Feed(v)
	}
}
