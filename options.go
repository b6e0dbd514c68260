package pacer

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Edge identifies what caused an emission.
type Edge int

const (
	// EdgeLeading is an emission triggered by the first input of a burst
	// (debounce) or by input arriving in an open window (throttle).
	EdgeLeading Edge = iota

	// EdgeTrailing is an emission triggered after a burst settles
	// (debounce) or at the end of a throttle window.
	EdgeTrailing

	// EdgeMaxWait is a debounce emission forced by the max wait ceiling.
	EdgeMaxWait

	// EdgeFlush is an emission forced by Flush or Close.
	EdgeFlush
)

func (e Edge) String() string {
	switch e {
	case EdgeLeading:
		return "leading"
	case EdgeTrailing:
		return "trailing"
	case EdgeMaxWait:
		return "max-wait"
	case EdgeFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// EmitInfo describes a single emission. It is passed to the hook
// registered via [WithOnEmit] right before the sink runs.
type EmitInfo struct {
	Name string
	Edge Edge
	// At is the logical time of the emission: the timer deadline for
	// timer-driven edges, the clock's current time otherwise.
	At time.Time
	// Latency is how long the emitted input waited, measured from the
	// first input of the burst (debounce) or from its own arrival (throttle).
	Latency time.Duration
}

type config struct {
	name     string
	leading  bool
	trailing bool
	maxWait  time.Duration
	hasMax   bool
	clock    clock.Clock
	logger   *zap.Logger
	ctx      context.Context
	onEmit   func(EmitInfo)
	onPanic  func(*PanicError)
}

// Option configures a scheduler.
type Option func(*config)

func defaultConfig(kind string, leading bool) config {
	return config{
		name:     kind,
		leading:  leading,
		trailing: true,
		clock:    clock.New(),
		logger:   zap.NewNop(),
	}
}

// WithName sets the name used in logs, [EmitInfo] and metrics.
// Defaults to the scheduler kind ("debounce" or "throttle").
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLeading enables or disables emission on the leading edge.
// Debouncers default to false, throttlers to true.
func WithLeading(on bool) Option {
	return func(c *config) {
		c.leading = on
	}
}

// WithTrailing enables or disables emission on the trailing edge.
// Defaults to true.
func WithTrailing(on bool) Option {
	return func(c *config) {
		c.trailing = on
	}
}

// WithMaxWait bounds how long a debouncer may defer an emission under
// continuous input. A value below the debounce delay is raised to the delay.
// Throttlers reject this option.
func WithMaxWait(d time.Duration) Option {
	return func(c *config) {
		c.maxWait = d
		c.hasMax = true
	}
}

// WithClock sets the clock that drives every timer of the scheduler.
// Tests pass a [clock.Mock]; the default is the wall clock.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithContext ties the scheduler to ctx: when ctx is done the scheduler
// is disposed as if Dispose had been called.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithOnEmit registers a hook invoked on the delivery goroutine right
// before each emission reaches the sink.
func WithOnEmit(fn func(EmitInfo)) Option {
	return func(c *config) {
		c.onEmit = fn
	}
}

// WithOnPanic registers a hook receiving every panic recovered from the
// sink. The hook runs on the delivery goroutine.
func WithOnPanic(fn func(*PanicError)) Option {
	return func(c *config) {
		c.onPanic = fn
	}
}

// buildConfig applies opts over the defaults for kind and validates the
// result together with the scheduler's main duration.
func buildConfig(kind string, leading bool, d time.Duration, hasSink bool, opts []Option) (config, error) {
	cfg := defaultConfig(kind, leading)
	for _, opt := range opts {
		opt(&cfg)
	}

	var err error
	if d < 0 {
		err = multierr.Append(err, ErrNegativeDuration)
	}
	if cfg.hasMax {
		switch {
		case kind == kindThrottle:
			err = multierr.Append(err, ErrUnsupportedOption)
		case cfg.maxWait < 0:
			err = multierr.Append(err, ErrNegativeDuration)
		case cfg.maxWait < d:
			cfg.maxWait = d
		}
	}
	if !cfg.leading && !cfg.trailing {
		err = multierr.Append(err, ErrNoEdge)
	}
	if !hasSink {
		err = multierr.Append(err, ErrNilSink)
	}
	if err != nil {
		return cfg, &ConfigError{Scheduler: kind, Err: err}
	}

	cfg.logger = cfg.logger.With(zap.String("scheduler", cfg.name))
	return cfg, nil
}
