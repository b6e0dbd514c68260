package pacer

import "sync/atomic"

// Stats provides a point-in-time snapshot of scheduler activity.
type Stats struct {
	Name string

	Fed        int64 // inputs accepted by Feed or Call
	Emitted    int64 // emissions handed to the sink
	Leading    int64 // leading-edge emissions decided
	Trailing   int64 // trailing-edge emissions decided
	MaxWait    int64 // emissions forced by the max wait ceiling
	Flushed    int64 // emissions forced by Flush or Close
	Superseded int64 // pending inputs replaced by newer input before emission
	Dropped    int64 // inputs or queued emissions discarded without reaching the sink
	Ignored    int64 // inputs fed after Close or Dispose
	Panics     int64 // sink panics recovered

	Queued   int  // emissions waiting for the delivery goroutine
	Pending  bool // an emission is still scheduled
	Disposed bool
}

type counters struct {
	fed        atomic.Int64
	leading    atomic.Int64
	trailing   atomic.Int64
	maxWait    atomic.Int64
	flushed    atomic.Int64
	superseded atomic.Int64
	dropped    atomic.Int64
	ignored    atomic.Int64
}

func (c *counters) edge(e Edge) {
	switch e {
	case EdgeLeading:
		c.leading.Add(1)
	case EdgeTrailing:
		c.trailing.Add(1)
	case EdgeMaxWait:
		c.maxWait.Add(1)
	case EdgeFlush:
		c.flushed.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Fed:        c.fed.Load(),
		Leading:    c.leading.Load(),
		Trailing:   c.trailing.Load(),
		MaxWait:    c.maxWait.Load(),
		Flushed:    c.flushed.Load(),
		Superseded: c.superseded.Load(),
		Dropped:    c.dropped.Load(),
		Ignored:    c.ignored.Load(),
	}
}
