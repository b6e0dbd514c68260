package pacer

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeDuration is reported when a delay, interval or max wait
	// is below zero.
	ErrNegativeDuration = errors.New("pacer: duration must be non-negative")

	// ErrNoEdge is reported when both the leading and the trailing edge
	// are disabled, which would make the scheduler never emit.
	ErrNoEdge = errors.New("pacer: at least one of leading or trailing must be enabled")

	// ErrNilSink is reported when a scheduler is created without a sink
	// or action to deliver to.
	ErrNilSink = errors.New("pacer: sink must not be nil")

	// ErrUnsupportedOption is reported when an option does not apply to
	// the scheduler kind, such as WithMaxWait on a throttler.
	ErrUnsupportedOption = errors.New("pacer: option not supported by this scheduler")
)

// ConfigError is returned by every scheduler constructor when the supplied
// configuration cannot produce a working scheduler. Err holds every problem
// found, combined with multierr, so errors.Is matches each sentinel that
// applies.
type ConfigError struct {
	Scheduler string
	Err       error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pacer: invalid %s configuration: %v", e.Scheduler, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err (or any error in its chain) is a
// [*ConfigError].
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	return errors.As(err, &ce)
}
