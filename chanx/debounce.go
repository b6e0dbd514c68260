package chanx

import (
	"context"
	"time"

	"github.com/baxromumarov/pacer"
)

// Debounce emits the last value received from in once in has been quiet
// for delay. Options are the same as for [pacer.NewDebouncer], so leading
// emission and a max wait ceiling are available too.
//
// The output channel is unbuffered; the debouncer waits for the consumer.
// When in is closed the pending value is flushed before out is closed.
// If in is nil, out is closed immediately.
func Debounce[T any](ctx context.Context, in <-chan T, delay time.Duration, opts ...pacer.Option) (<-chan T, error) {
	out := NewClosable[T](0)
	d, err := pacer.NewDebouncer(delay, func(v T) {
		_ = out.Send(ctx, v)
	}, opts...)
	if err != nil {
		return nil, err
	}

	go pump(ctx, in, out, d)
	return out.Chan(), nil
}
