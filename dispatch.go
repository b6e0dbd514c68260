package pacer

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// dispatcher delivers emissions one at a time, in submission order, on a
// single goroutine owned by one scheduler. Schedulers submit while holding
// their own mutex, so delivery order is the order in which the state
// machine decided to emit, and a sink is never entered twice at once.
//
// The queue is unbounded: submit never blocks, whatever the sink does.
type dispatcher struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}

	// outstanding counts queued plus running deliveries; idle is closed
	// whenever it is zero.
	outstanding int
	idle        chan struct{}
	closed      bool
	done        chan struct{}

	// claimed is set while a delivery has left the queue but has not
	// passed the start gate yet. close drops a claimed delivery.
	claimed bool
	// beforeStart runs between claim and start gate. Tests only.
	beforeStart func()

	logger  *zap.Logger
	onPanic func(*PanicError)

	delivered atomic.Int64
	panicked  atomic.Int64
}

func newDispatcher(logger *zap.Logger, onPanic func(*PanicError)) *dispatcher {
	idle := make(chan struct{})
	close(idle)

	d := &dispatcher{
		wake:    make(chan struct{}, 1),
		idle:    idle,
		done:    make(chan struct{}),
		logger:  logger,
		onPanic: onPanic,
	}
	go d.run()
	return d
}

// submit queues fn for delivery. It reports false once the dispatcher
// has been closed.
func (d *dispatcher) submit(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	if d.outstanding == 0 {
		d.idle = make(chan struct{})
	}
	d.outstanding++
	d.queue = append(d.queue, fn)

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *dispatcher) run() {
	defer close(d.done)
	for range d.wake {
		for {
			fn, ok := d.claim()
			if !ok {
				break
			}
			if d.beforeStart != nil {
				d.beforeStart()
			}
			if d.start() {
				d.deliver(fn)
			}
			d.finish()
		}
	}
}

// claim takes the next delivery off the queue.
func (d *dispatcher) claim() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.queue) == 0 {
		return nil, false
	}
	fn := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	d.claimed = true
	return fn, true
}

// start is the gate a claimed delivery passes right before the sink runs.
// It serializes with close: once close has returned, no claimed delivery
// gets through.
func (d *dispatcher) start() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.claimed = false
	if d.closed {
		return false
	}
	d.delivered.Add(1)
	return true
}

func (d *dispatcher) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.outstanding--
	if d.outstanding == 0 {
		close(d.idle)
	}
}

func (d *dispatcher) deliver(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			d.panicked.Add(1)
			d.logger.Error("sink panicked",
				zap.Any("panic", pe.Value),
				zap.String("stack", pe.Stack),
			)
			if d.onPanic != nil {
				d.onPanic(pe)
			}
		}
	}()
	fn()
}

// wait blocks until nothing is queued or running, or ctx is done.
func (d *dispatcher) wait(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drops every queued delivery, and the claimed one if it has not
// started, then stops the delivery goroutine once the running delivery,
// if any, returns. It reports how many deliveries were dropped. Safe to
// call multiple times.
func (d *dispatcher) close() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}
	d.closed = true

	queued := len(d.queue)
	d.queue = nil
	d.outstanding -= queued
	if queued > 0 && d.outstanding == 0 {
		close(d.idle)
	}
	close(d.wake)

	dropped := queued
	if d.claimed {
		// finish settles outstanding for it.
		dropped++
	}
	return dropped
}

func (d *dispatcher) depth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
