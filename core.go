package pacer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	kindDebounce = "debounce"
	kindThrottle = "throttle"
)

// core holds what every scheduler shares: configuration, the mutex that
// guards scheduler state and its timer slots, the delivery goroutine and
// the lifecycle flags.
type core[T any] struct {
	cfg  config
	sink func(T)

	mu       sync.Mutex
	disposed bool
	closing  bool
	disp     *dispatcher
	stats    counters
	stopCtx  func() bool

	// ignoredLog samples the "fed after dispose" debug line.
	ignoredLog rate.Sometimes
}

func (c *core[T]) init(cfg config, sink func(T)) {
	c.cfg = cfg
	c.sink = sink
	c.disp = newDispatcher(cfg.logger, cfg.onPanic)
	c.ignoredLog = rate.Sometimes{Interval: time.Second}
}

// watch disposes the scheduler through teardown once the configured
// context is done.
func (c *core[T]) watch(teardown func()) {
	if c.cfg.ctx == nil {
		return
	}
	c.mu.Lock()
	c.stopCtx = context.AfterFunc(c.cfg.ctx, teardown)
	c.mu.Unlock()
}

// emit hands v to the delivery goroutine. Called with mu held.
func (c *core[T]) emit(v T, edge Edge, at, since time.Time) {
	c.stats.edge(edge)

	info := EmitInfo{
		Name:    c.cfg.name,
		Edge:    edge,
		At:      at,
		Latency: at.Sub(since),
	}
	onEmit, sink := c.cfg.onEmit, c.sink
	c.disp.submit(func() {
		if onEmit != nil {
			onEmit(info)
		}
		sink(v)
	})
}

// ignore records input that arrived after Close or Dispose. Called with mu held.
func (c *core[T]) ignore() {
	c.stats.ignored.Add(1)
	c.ignoredLog.Do(func() {
		c.cfg.logger.Debug("input ignored, scheduler is shut down",
			zap.Bool("disposed", c.disposed),
			zap.Bool("closing", c.closing),
		)
	})
}

// dispose runs release under mu exactly once, then drops queued
// deliveries. release cancels the scheduler's timers and reports whether
// an undelivered input was discarded.
func (c *core[T]) dispose(release func() bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true

	if release() {
		c.stats.dropped.Add(1)
	}
	if n := c.disp.close(); n > 0 {
		c.stats.dropped.Add(int64(n))
	}
	if c.stopCtx != nil {
		c.stopCtx()
	}
	c.cfg.logger.Debug("disposed")
}

func (c *core[T]) snapshot(pending bool) Stats {
	s := c.stats.snapshot()
	s.Name = c.cfg.name
	s.Emitted = c.disp.delivered.Load()
	s.Panics = c.disp.panicked.Load()
	s.Queued = c.disp.depth()
	s.Pending = pending
	s.Disposed = c.disposed
	return s
}
