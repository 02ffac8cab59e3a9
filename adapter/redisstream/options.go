package redisstream

import (
	"github.com/redis/go-redis/v9"
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"
)

// Option configures a Sink.
type Option func(*Sink)

// WithLogger injects a custom xlog logger.
func WithLogger(l *xlog.Logger) Option {
	return func(s *Sink) { s.logger = l }
}

// WithClock injects a custom xclock clock.
func WithClock(c xclock.Clock) Option {
	return func(s *Sink) { s.clock = c }
}

// WithClient reuses an existing client instead of dialing Config.Addr.
// The sink does not close a client it did not create.
func WithClient(c *redis.Client) Option {
	return func(s *Sink) { s.client = c }
}
