// Package pacer provides debounce and throttle schedulers for taming
// high-frequency input before it reaches an expensive consumer.
//
// Each scheduler owns its timers, its state and one delivery goroutine.
// Input goes in through Feed (or Call for the function variants), which
// never blocks; emissions come out through the sink supplied at
// construction, on the delivery goroutine, one at a time and in the order
// the scheduler decided them.
//
// # Debounce
//
// [Debouncer] emits the latest value once input has been quiet for a
// delay:
//
//	d, err := pacer.NewDebouncer(300*time.Millisecond, func(q string) {
//	    search(q)
//	})
//	if err != nil {
//	    return err
//	}
//	defer d.Dispose()
//
//	d.Feed("a")
//	d.Feed("ab")
//	d.Feed("abc") // search("abc") runs 300ms later
//
// [WithLeading] also emits the first value of a burst immediately.
// [WithMaxWait] caps how long continuous input may postpone an emission.
// [DebouncedFunc] applies the same rules to calls of an action and always
// invokes the most recent action with the most recent arguments.
//
// # Throttle
//
// [Throttler] emits at most once per interval. The first value in an open
// window goes out right away; the last value fed inside a window goes out
// when the window ends, so the final update of a burst is never lost.
// [ThrottledFunc] is the function counterpart.
//
// # Configuration
//
// Schedulers are configured with options. Invalid configurations (a
// negative duration, a nil sink, both edges disabled) are rejected by the
// constructor with a [*ConfigError]; every problem found is reported and
// matches its sentinel ([ErrNegativeDuration], [ErrNoEdge], [ErrNilSink],
// [ErrUnsupportedOption]) through errors.Is.
//
// # Time
//
// All timers run on a [github.com/benbjohnson/clock.Clock]. The default is
// the wall clock; [WithClock] accepts a mock clock so tests can advance
// logical time deterministically.
//
// # Teardown
//
// [Debouncer.Dispose] and [Throttler.Dispose] cancel every timer and drop
// anything not yet delivered; no emission starts after they return. They
// are idempotent. [WithContext] disposes the scheduler when a context
// ends. Close is the graceful variant: it stops accepting input, lets the
// pending emission out, waits for delivery, then disposes.
//
// # Observability
//
//   - [WithLogger]: a zap logger for lifecycle and panic logs.
//   - [WithOnEmit]: a hook receiving [EmitInfo] before each emission.
//   - [WithOnPanic]: a hook receiving sink panics as [*PanicError].
//   - Stats: counters for fed, emitted, superseded and dropped input.
//
// The [github.com/baxromumarov/pacer/promstats] subpackage exports Stats
// to Prometheus, and [github.com/baxromumarov/pacer/chanx] wraps the
// schedulers around channels.
package pacer
