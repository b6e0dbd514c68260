package pacer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// timerSlot is a single re-armable one-shot timer.
//
// A slot shares the mutex of the scheduler that owns it: arm and cancel
// must be called with mu held, and the fire callback takes mu before it
// runs. Every arm bumps the generation, so a clock callback that was already
// queued when the slot was cancelled or re-armed finds a stale generation
// and returns without calling onFire.
type timerSlot struct {
	clk clock.Clock
	mu  sync.Locker

	t        *clock.Timer
	gen      uint64
	armedAt  time.Time
	deadline time.Time
	onFire   func(at time.Time)
}

func newTimerSlot(clk clock.Clock, mu sync.Locker) *timerSlot {
	return &timerSlot{clk: clk, mu: mu}
}

// arm schedules onFire to run once, d from now, replacing any outstanding
// timer. onFire receives the deadline the timer was armed for and runs with
// the owner's mutex held.
func (s *timerSlot) arm(d time.Duration, onFire func(at time.Time)) {
	s.cancel()

	gen := s.gen
	s.armedAt = s.clk.Now()
	deadline := s.armedAt.Add(d)
	s.deadline = deadline
	s.onFire = onFire
	s.t = s.clk.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.gen != gen || s.t == nil {
			return
		}
		s.t = nil
		s.onFire = nil
		onFire(deadline)
	})
}

// expire runs the outstanding timer's onFire right away if its deadline
// is not after now and the clock has moved since it was armed, and
// reports whether it did. The clock callback that would have run it later
// becomes stale. A zero-length timer armed at now is left for the next tick.
func (s *timerSlot) expire(now time.Time) bool {
	if s.t == nil || s.deadline.After(now) || !now.After(s.armedAt) {
		return false
	}
	onFire, deadline := s.onFire, s.deadline
	s.cancel()
	onFire(deadline)
	return true
}

// cancel stops the outstanding timer, if any. Safe to call on a slot that
// already fired or was already cancelled.
func (s *timerSlot) cancel() {
	if s.t != nil {
		s.t.Stop()
		s.t = nil
	}
	s.onFire = nil
	s.gen++
}

func (s *timerSlot) armed() bool {
	return s.t != nil
}

// when returns the deadline of the outstanding timer.
func (s *timerSlot) when() (time.Time, bool) {
	if s.t == nil {
		return time.Time{}, false
	}
	return s.deadline, true
}
