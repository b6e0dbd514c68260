// Package chanx adapts pacer's schedulers to channel pipelines.
//
// [Debounce] and [Throttle] read values from an input channel, pace them
// with a [pacer.Debouncer] or [pacer.Throttler], and deliver the
// emissions on an output channel:
//
//	out, err := chanx.Debounce(ctx, keystrokes, 300*time.Millisecond)
//	if err != nil {
//		return err
//	}
//	for q := range out {
//		search(q)
//	}
//
// The output channel is closed when the input is closed, after the
// pending value has been flushed (debounce) or its trailing window has
// elapsed (throttle), or when ctx is cancelled, in which case the pending
// value is dropped.
//
// The package also carries the small context-aware building blocks the
// adapters are made of: [Send], [Recv] and [Closable].
package chanx
