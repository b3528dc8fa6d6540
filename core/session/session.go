package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/framecast/core/logger"
	"github.com/dmitrymomot/framecast/pkg/broadcast"
)

const controlTimeout = time.Second

// Session relays payloads from one subscriber to one WebSocket peer.
type Session struct {
	id     string
	conn   *websocket.Conn
	sub    *broadcast.Subscriber[[]byte]
	logger *slog.Logger

	writeTimeout time.Duration
	idleTimeout  time.Duration
	readLimit    int64

	started  atomic.Bool
	state    atomic.Int32
	sent     atomic.Uint64
	bytesOut atomic.Int64
}

// New creates a session for conn fed by sub. The session takes ownership of both.
func New(conn *websocket.Conn, sub *broadcast.Subscriber[[]byte], opts ...Option) *Session {
	s := &Session{
		id:           uuid.New().String(),
		conn:         conn,
		sub:          sub,
		logger:       logger.Nop(),
		writeTimeout: DefaultWriteTimeout,
		readLimit:    DefaultReadLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle stage.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Sent returns the number of payloads written to the peer.
func (s *Session) Sent() uint64 {
	return s.sent.Load()
}

// RemoteAddr returns the peer address.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Run relays payloads until either direction stops or ctx is cancelled, then releases
// the connection and the subscriber. It blocks until both directions have exited.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once  sync.Once
		cause error
	)
	terminate := func(err error) {
		once.Do(func() {
			cause = err
			s.state.CompareAndSwap(int32(StateActive), int32(StateTerminating))
			cancel()
		})
	}

	start := time.Now()
	s.logger.InfoContext(ctx, "websocket connection established",
		logger.Component("session"),
		logger.SessionID(s.id),
		logger.RemoteAddr(s.RemoteAddr()))

	s.conn.SetReadLimit(s.readLimit)
	if s.idleTimeout > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		s.conn.SetPongHandler(func(string) error {
			return s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		terminate(s.relay(ctx))
	}()
	go func() {
		defer wg.Done()
		terminate(s.receive(ctx))
	}()
	if s.idleTimeout > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			terminate(s.keepalive(ctx))
		}()
	}

	<-ctx.Done()
	terminate(ctx.Err())

	// Closing the connection unblocks a reader parked in ReadMessage.
	_ = s.conn.Close()
	wg.Wait()
	s.sub.Close()
	s.state.Store(int32(StateClosed))

	attrs := []any{
		logger.Component("session"),
		logger.SessionID(s.id),
		logger.Delivered(s.sent.Load()),
		logger.Lagged(s.sub.Lagged()),
		logger.BytesOut(s.bytesOut.Load()),
		logger.Duration(time.Since(start)),
	}

	if isOrderly(cause) {
		s.logger.InfoContext(context.Background(), "session closed",
			append(attrs, slog.String("reason", cause.Error()))...)
		return nil
	}

	s.logger.WarnContext(context.Background(), "session terminated",
		append(attrs, logger.Error(cause))...)
	return cause
}

func (s *Session) relay(ctx context.Context) error {
	for {
		payload, err := s.sub.Next(ctx)
		if err != nil {
			if errors.Is(err, broadcast.ErrClosed) {
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"),
					time.Now().Add(controlTimeout))
				return errStreamEnded
			}
			return err
		}

		if s.writeTimeout > 0 {
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if err := s.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
			return fmt.Errorf("%w: %w", ErrSend, err)
		}

		s.sent.Add(1)
		s.bytesOut.Add(int64(len(payload)))
	}
}

func (s *Session) receive(ctx context.Context) error {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				return errPeerClosed
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %w", ErrReceive, err)
		}

		if s.idleTimeout > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}

		if msgType == websocket.TextMessage {
			s.logger.InfoContext(ctx, "received message",
				logger.Component("session"),
				logger.SessionID(s.id),
				logger.Message(string(data)))
		}
	}
}

func (s *Session) keepalive(ctx context.Context) error {
	ticker := time.NewTicker(s.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(controlTimeout)); err != nil {
				return fmt.Errorf("%w: ping: %w", ErrSend, err)
			}
		}
	}
}

func isOrderly(err error) bool {
	return errors.Is(err, errPeerClosed) ||
		errors.Is(err, errStreamEnded) ||
		errors.Is(err, broadcast.ErrSubscriberClosed) ||
		errors.Is(err, context.Canceled)
}
