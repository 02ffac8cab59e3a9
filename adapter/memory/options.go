package memory

import (
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger injects a custom xlog logger.
func WithLogger(l *xlog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithClock injects a custom xclock clock.
func WithClock(clk xclock.Clock) Option {
	return func(c *Coordinator) { c.clock = clk }
}

// WithScheduler hands delivery passes to the host's own task loop instead of
// the internal TaskQueue.
func WithScheduler(s Scheduler) Option {
	return func(c *Coordinator) { c.scheduler = s }
}
