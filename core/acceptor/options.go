package acceptor

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures an Acceptor.
type Option func(*Acceptor)

// WithReadBuffer sets the upgrader read buffer size. Non-positive values are ignored.
func WithReadBuffer(size int) Option {
	return func(a *Acceptor) {
		if size > 0 {
			a.upgrader.ReadBufferSize = size
		}
	}
}

// WithWriteBuffer sets the upgrader write buffer size. Non-positive values are ignored.
func WithWriteBuffer(size int) Option {
	return func(a *Acceptor) {
		if size > 0 {
			a.upgrader.WriteBufferSize = size
		}
	}
}

// WithHandshakeTimeout bounds the upgrade handshake. Non-positive values are ignored.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(a *Acceptor) {
		if timeout > 0 {
			a.upgrader.HandshakeTimeout = timeout
		}
	}
}

// WithOriginCheck sets a custom Origin validator.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(a *Acceptor) {
		a.upgrader.CheckOrigin = fn
	}
}

// WithAllowAnyOrigin disables the same-origin check.
func WithAllowAnyOrigin() Option {
	return func(a *Acceptor) {
		a.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// WithMaxConns caps concurrently held connections. Zero or negative means unlimited.
func WithMaxConns(n int) Option {
	return func(a *Acceptor) {
		if n > 0 {
			a.maxConns = int64(n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Acceptor) {
		if logger != nil {
			a.logger = logger
		}
	}
}
