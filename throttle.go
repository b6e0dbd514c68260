package pacer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Throttler emits fed values at most once per interval.
//
// A value arriving in an open window (the first value ever, or one at
// least interval after the previous emission) is emitted right away.
// Values arriving inside the window replace each other, and the latest one
// is emitted when the window ends, so the final value of a burst is never
// lost. [WithLeading](false) defers the opening value to the end of its
// window as well; [WithTrailing](false) drops values that arrive inside a
// window.
//
// Emissions are delivered on the throttler's own goroutine, never inside
// Feed, one at a time and in order.
type Throttler[T any] struct {
	core[T]

	interval time.Duration
	trailing *timerSlot

	pending      T
	hasPending   bool
	pendingSince time.Time

	emitted       bool
	lastEmittedAt time.Time

	// settled is closed when the trailing timer resolves during Close.
	settled chan struct{}
}

// NewThrottler creates a throttler that delivers to sink. It returns a
// [*ConfigError] if interval is negative, sink is nil, both edges are
// disabled, or [WithMaxWait] is given.
func NewThrottler[T any](interval time.Duration, sink func(T), opts ...Option) (*Throttler[T], error) {
	cfg, err := buildConfig(kindThrottle, true, interval, sink != nil, opts)
	if err != nil {
		return nil, err
	}

	t := &Throttler[T]{interval: interval}
	t.init(cfg, sink)
	t.trailing = newTimerSlot(cfg.clock, &t.mu)
	t.watch(t.Dispose)

	cfg.logger.Debug("throttler created",
		zap.Duration("interval", interval),
		zap.Bool("leading", cfg.leading),
		zap.Bool("trailing", cfg.trailing),
	)
	return t, nil
}

// Feed supplies a new value. It never blocks. Values fed after Close or
// Dispose are ignored.
func (t *Throttler[T]) Feed(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed || t.closing {
		t.ignore()
		return
	}
	t.stats.fed.Add(1)

	now := t.cfg.clock.Now()
	t.trailing.expire(now)
	elapsed := now.Sub(t.lastEmittedAt)
	open := !t.emitted || elapsed >= t.interval

	// An armed trailing timer means a window is already running.
	if open && !t.trailing.armed() {
		if t.cfg.leading {
			t.emitted = true
			t.lastEmittedAt = now
			t.emit(v, EdgeLeading, now, now)
			return
		}
		t.store(v, now)
		t.trailing.arm(t.interval, t.fire)
		return
	}

	if !t.cfg.trailing {
		t.stats.dropped.Add(1)
		return
	}
	t.store(v, now)
	if !t.trailing.armed() {
		t.trailing.arm(t.interval-elapsed, t.fire)
	}
}

func (t *Throttler[T]) store(v T, now time.Time) {
	if t.hasPending {
		t.stats.superseded.Add(1)
	} else {
		t.pendingSince = now
	}
	t.pending = v
	t.hasPending = true
}

func (t *Throttler[T]) fire(at time.Time) {
	if t.hasPending {
		v := t.pending
		var zero T
		t.pending = zero
		t.hasPending = false

		t.emitted = true
		t.lastEmittedAt = at
		t.emit(v, EdgeTrailing, at, t.pendingSince)
	}
	t.release()
}

// release wakes a Close waiting for the trailing timer. Called with mu held.
func (t *Throttler[T]) release() {
	if t.settled != nil {
		close(t.settled)
		t.settled = nil
	}
}

// Pending reports whether a trailing emission is scheduled.
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasPending && t.trailing.armed()
}

// Close stops accepting input, waits for the scheduled trailing emission
// (still honouring the interval) and for every queued emission to reach
// the sink, then disposes the throttler. If ctx ends first, whatever is
// left is dropped and ctx.Err() is returned.
//
// Close must not be called from inside the sink.
func (t *Throttler[T]) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return nil
	}
	t.closing = true

	var settled chan struct{}
	if t.hasPending && t.trailing.armed() {
		if t.settled == nil {
			t.settled = make(chan struct{})
		}
		settled = t.settled
	}
	t.mu.Unlock()

	if settled != nil {
		select {
		case <-settled:
		case <-ctx.Done():
			t.Dispose()
			return ctx.Err()
		}
	}

	err := t.disp.wait(ctx)
	t.Dispose()
	return err
}

// Dispose cancels the trailing timer and discards the pending value. No
// emission starts after Dispose returns; one already running in the sink
// completes. Dispose is idempotent and safe to call from the sink.
func (t *Throttler[T]) Dispose() {
	t.dispose(func() bool {
		t.trailing.cancel()
		t.release()

		dropped := t.hasPending
		var zero T
		t.pending = zero
		t.hasPending = false
		return dropped
	})
}

// Stats returns a snapshot of the throttler's counters.
func (t *Throttler[T]) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot(t.hasPending && t.trailing.armed())
}
