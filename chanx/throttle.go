package chanx

import (
	"context"
	"time"

	"github.com/baxromumarov/pacer"
)

// Throttle passes values from in at most once per interval. The first
// value of an open window goes out at once; later values inside the
// window collapse into one trailing emission carrying the latest.
// Options are the same as for [pacer.NewThrottler].
//
// When in is closed, out is closed after the trailing emission, which
// still honours the interval. If in is nil, out is closed immediately.
func Throttle[T any](ctx context.Context, in <-chan T, interval time.Duration, opts ...pacer.Option) (<-chan T, error) {
	out := NewClosable[T](0)
	th, err := pacer.NewThrottler(interval, func(v T) {
		_ = out.Send(ctx, v)
	}, opts...)
	if err != nil {
		return nil, err
	}

	go pump(ctx, in, out, th)
	return out.Chan(), nil
}
