package scheduler

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/framecast/core/session"
)

const (
	// DefaultInterval is the frame period, roughly 30 frames per second.
	DefaultInterval = 33 * time.Millisecond

	// DefaultShutdownTimeout bounds how long Run waits for sessions after the loop stops.
	DefaultShutdownTimeout = 5 * time.Second
)

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the frame period.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithFPS sets the frame period from a target rate.
func WithFPS(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithShutdownTimeout bounds how long Run waits for sessions to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.shutdownTimeout = d
		}
	}
}

// WithLogger sets the logger. Sessions inherit it unless overridden by WithSessionOptions.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSessionOptions appends options applied to every session the loop starts.
func WithSessionOptions(opts ...session.Option) Option {
	return func(l *Loop) {
		l.sessionOpts = append(l.sessionOpts, opts...)
	}
}
