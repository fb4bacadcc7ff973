package session

import (
	"math/rand"
	"time"

	"github.com/okian/binsight/internal/bus"
	"github.com/okian/binsight/pkg/logger"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock. Tests use this to drive transitions
// deterministically.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithBus sets the event bus used to publish snapshots.
func WithBus(b *bus.Bus) Option {
	return func(c *Controller) {
		c.events = b
	}
}

// WithCapture sets the capture device boundary.
func WithCapture(capture Capture) Option {
	return func(c *Controller) {
		if capture != nil {
			c.capture = capture
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRecordingTicks sets the countdown length. Values below 1 are ignored.
func WithRecordingTicks(ticks int) Option {
	return func(c *Controller) {
		if ticks > 0 {
			c.totalTicks = ticks
		}
	}
}

// WithTickInterval sets the countdown tick interval. Non-positive values
// are ignored.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithSteps replaces the processing pipeline. Empty slices are ignored.
func WithSteps(steps []Step) Option {
	return func(c *Controller) {
		if len(steps) > 0 {
			c.steps = steps
		}
	}
}

// WithResultDelay sets how long the verdict stays on display before the
// session returns to idle. Non-positive values are ignored.
func WithResultDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.resultDelay = d
		}
	}
}

// WithRandSource seeds record id generation, for reproducible tests.
func WithRandSource(src rand.Source) Option {
	return func(c *Controller) {
		if src != nil {
			c.rng = rand.New(src) //nolint:gosec // deterministic ids for tests
		}
	}
}
