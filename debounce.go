package pacer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Debouncer emits the latest fed value once input has been quiet for the
// configured delay.
//
// With [WithLeading] the first value of a burst is emitted right away; a
// trailing emission then follows only if more input arrived after it. With
// [WithMaxWait] a burst of continuous input still emits at least once per
// max wait. When the delay timer and the max wait timer expire at the same
// instant, a single [EdgeMaxWait] emission happens.
//
// Emissions are delivered on the debouncer's own goroutine, never inside
// Feed, one at a time and in order.
type Debouncer[T any] struct {
	core[T]

	delay    time.Duration
	trailing *timerSlot
	maxWait  *timerSlot

	pending      T
	hasPending   bool
	leadingFired bool
	burstStart   time.Time
}

// NewDebouncer creates a debouncer that delivers to sink. It returns a
// [*ConfigError] if delay is negative, sink is nil, or both edges are
// disabled.
func NewDebouncer[T any](delay time.Duration, sink func(T), opts ...Option) (*Debouncer[T], error) {
	cfg, err := buildConfig(kindDebounce, false, delay, sink != nil, opts)
	if err != nil {
		return nil, err
	}

	d := &Debouncer[T]{delay: delay}
	d.init(cfg, sink)
	d.trailing = newTimerSlot(cfg.clock, &d.mu)
	d.maxWait = newTimerSlot(cfg.clock, &d.mu)
	d.watch(d.Dispose)

	cfg.logger.Debug("debouncer created",
		zap.Duration("delay", delay),
		zap.Bool("leading", cfg.leading),
		zap.Bool("trailing", cfg.trailing),
		zap.Duration("max_wait", cfg.maxWait),
	)
	return d, nil
}

// Feed supplies a new value. It never blocks. Values fed after Close or
// Dispose are ignored.
func (d *Debouncer[T]) Feed(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disposed || d.closing {
		d.ignore()
		return
	}
	d.stats.fed.Add(1)

	now := d.cfg.clock.Now()
	d.catchUp(now)
	quiet := !d.trailing.armed() && !d.maxWait.armed()
	if quiet {
		d.burstStart = now
	}

	if d.hasPending {
		d.stats.superseded.Add(1)
	}
	d.pending = v
	d.hasPending = true

	if d.cfg.leading && quiet && !d.leadingFired {
		d.leadingFired = true
		d.take(EdgeLeading, now)
	}
	if d.cfg.hasMax && !d.maxWait.armed() {
		d.maxWait.arm(d.cfg.maxWait, d.fireMaxWait)
	}
	// Armed even without a trailing edge: it marks the end of the burst.
	d.trailing.arm(d.delay, d.fireTrailing)
}

// take emits the pending value. Called with mu held.
func (d *Debouncer[T]) take(edge Edge, at time.Time) {
	v := d.pending
	var zero T
	d.pending = zero
	d.hasPending = false
	d.emit(v, edge, at, d.burstStart)
}

// catchUp resolves a timer whose deadline has passed but whose callback
// has not run yet, earliest deadline first. Called with mu held.
func (d *Debouncer[T]) catchUp(now time.Time) {
	tr, trOK := d.trailing.when()
	mw, mwOK := d.maxWait.when()
	if trOK && (!mwOK || tr.Before(mw)) {
		d.trailing.expire(now)
		return
	}
	if mwOK {
		d.maxWait.expire(now)
	}
}

func (d *Debouncer[T]) fireTrailing(at time.Time) {
	edge := EdgeTrailing
	if mw, ok := d.maxWait.when(); ok && !mw.After(at) {
		edge, at = EdgeMaxWait, mw
	}
	d.settle(edge, at)
}

func (d *Debouncer[T]) fireMaxWait(at time.Time) {
	d.settle(EdgeMaxWait, at)
}

// settle ends the current burst. Called with mu held.
func (d *Debouncer[T]) settle(edge Edge, at time.Time) {
	d.trailing.cancel()
	d.maxWait.cancel()
	d.leadingFired = false

	if !d.hasPending {
		return
	}
	if edge == EdgeTrailing && !d.cfg.trailing {
		var zero T
		d.pending = zero
		d.hasPending = false
		d.stats.dropped.Add(1)
		return
	}
	d.take(edge, at)
}

// Flush emits the pending value now, if there is one, and ends the
// current burst.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.disposed {
		return
	}
	now := d.cfg.clock.Now()
	d.catchUp(now)
	d.settle(EdgeFlush, now)
}

// Pending reports whether an emission is still scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isPending()
}

func (d *Debouncer[T]) isPending() bool {
	if !d.hasPending {
		return false
	}
	return d.maxWait.armed() || (d.cfg.trailing && d.trailing.armed())
}

// Close stops accepting input, flushes the pending value, waits until
// every queued emission has reached the sink, then disposes the
// debouncer. If ctx ends first, the remaining emissions are dropped and
// ctx.Err() is returned.
//
// Close must not be called from inside the sink.
func (d *Debouncer[T]) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return nil
	}
	d.closing = true
	now := d.cfg.clock.Now()
	d.catchUp(now)
	d.settle(EdgeFlush, now)
	d.mu.Unlock()

	err := d.disp.wait(ctx)
	d.Dispose()
	return err
}

// Dispose cancels both timers and drops anything not yet delivered. No
// emission starts after Dispose returns; one already running in the sink
// completes. Dispose is idempotent and safe to call from the sink.
func (d *Debouncer[T]) Dispose() {
	d.dispose(func() bool {
		d.trailing.cancel()
		d.maxWait.cancel()

		dropped := d.hasPending
		var zero T
		d.pending = zero
		d.hasPending = false
		return dropped
	})
}

// Stats returns a snapshot of the debouncer's counters.
func (d *Debouncer[T]) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(d.isPending())
}
