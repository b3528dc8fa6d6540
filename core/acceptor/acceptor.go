package acceptor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/framecast/core/logger"
)

// ErrClosed is returned by Accept after Close.
var ErrClosed = errors.New("acceptor closed")

// DefaultHandshakeTimeout bounds the WebSocket upgrade.
const DefaultHandshakeTimeout = 10 * time.Second

// Acceptor upgrades HTTP requests to WebSocket connections and queues them for Accept.
type Acceptor struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	conns     chan *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once

	maxConns int64
	active   atomic.Int64
	refused  atomic.Uint64
}

// New creates an Acceptor.
func New(opts ...Option) *Acceptor {
	a := &Acceptor{
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		logger: logger.Nop(),
		conns:  make(chan *websocket.Conn),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ServeHTTP performs the upgrade and waits until the connection is accepted.
func (a *Acceptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}

	if a.isClosed() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	if !a.reserve() {
		a.refused.Add(1)
		a.logger.WarnContext(r.Context(), "subscriber limit reached",
			logger.Component("acceptor"),
			logger.RemoteAddr(r.RemoteAddr),
			logger.Count("max_conns", int(a.maxConns)))
		http.Error(w, "subscriber limit reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		a.Release()
		a.logger.DebugContext(r.Context(), "websocket upgrade failed",
			logger.Component("acceptor"),
			logger.RemoteAddr(r.RemoteAddr),
			logger.Error(err))
		return
	}

	select {
	case a.conns <- conn:
	case <-a.done:
		a.Release()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
}

// Accept blocks until a connection is upgraded, the acceptor is closed or ctx ends.
func (a *Acceptor) Accept(ctx context.Context) (*websocket.Conn, error) {
	select {
	case conn := <-a.conns:
		return conn, nil
	case <-a.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Conns exposes the hand-off channel for consumers that select over several sources.
func (a *Acceptor) Conns() <-chan *websocket.Conn {
	return a.conns
}

// Done is closed when the acceptor is closed.
func (a *Acceptor) Done() <-chan struct{} {
	return a.done
}

// Release frees the slot held by an accepted connection.
func (a *Acceptor) Release() {
	a.active.Add(-1)
}

// Active returns the number of connections holding a slot.
func (a *Acceptor) Active() int {
	return int(a.active.Load())
}

// Refused returns how many upgrades were rejected by the connection cap.
func (a *Acceptor) Refused() uint64 {
	return a.refused.Load()
}

// Close stops handing out connections. Safe to call multiple times.
func (a *Acceptor) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
	})
}

func (a *Acceptor) isClosed() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

func (a *Acceptor) reserve() bool {
	if a.maxConns <= 0 {
		a.active.Add(1)
		return true
	}
	for {
		cur := a.active.Load()
		if cur >= a.maxConns {
			return false
		}
		if a.active.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}
