package session

import (
	"log/slog"
	"time"
)

const (
	// DefaultWriteTimeout bounds a single payload write.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultReadLimit caps inbound message size. Peers have nothing large to say.
	DefaultReadLimit = 4 << 10
)

// Option configures a Session.
type Option func(*Session)

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWriteTimeout bounds each outbound write. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.writeTimeout = d
		}
	}
}

// WithReadLimit caps inbound message size in bytes.
func WithReadLimit(n int64) Option {
	return func(s *Session) {
		if n > 0 {
			s.readLimit = n
		}
	}
}

// WithIdleTimeout drops peers silent for d. Zero disables idle detection.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}
