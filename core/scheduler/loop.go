package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/framecast/core/acceptor"
	"github.com/dmitrymomot/framecast/core/logger"
	"github.com/dmitrymomot/framecast/core/session"
	"github.com/dmitrymomot/framecast/pkg/broadcast"
)

// Producer yields one delivery-ready payload per call.
type Producer interface {
	Produce(ctx context.Context) ([]byte, error)
	Close() error
}

// Loop is the single-threaded broadcast scheduler.
type Loop struct {
	producer Producer
	ring     *broadcast.Ring[[]byte]
	acceptor *acceptor.Acceptor

	interval        time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	sessionOpts     []session.Option

	mu      sync.Mutex
	started bool
	stopped chan struct{}
	running atomic.Bool

	// Sessions outlive the loop context; cancelling this forces stragglers out.
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	sessions      sync.WaitGroup

	framesProduced  atomic.Uint64
	sessionsStarted atomic.Uint64
	sessionsActive  atomic.Int64
}

// Stats provides observability counters for the loop.
type Stats struct {
	FramesProduced  uint64 // payloads published to the ring
	SessionsStarted uint64 // connections turned into sessions
	SessionsActive  int64  // sessions still running
	Subscribers     int    // ring subscribers not yet released
	IsRunning       bool   // whether the loop is currently ticking
}

// New creates a loop that publishes payloads from producer into ring and serves
// connections handed off by acc.
func New(producer Producer, ring *broadcast.Ring[[]byte], acc *acceptor.Acceptor, opts ...Option) *Loop {
	sessionCtx, sessionCancel := context.WithCancel(context.Background())

	l := &Loop{
		producer:        producer,
		ring:            ring,
		acceptor:        acc,
		interval:        DefaultInterval,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          logger.Nop(),
		stopped:         make(chan struct{}),
		sessionCtx:      sessionCtx,
		sessionCancel:   sessionCancel,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Start runs the loop until ctx is cancelled or the producer fails.
// It returns nil on cancellation and an error wrapping ErrSourceFailed on producer failure.
// In both cases the source is released and the ring and acceptor are closed before return.
// On cancellation sessions drain retained frames; on failure the ring is aborted and
// sessions end without further deliveries.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	l.started = true
	l.mu.Unlock()

	l.running.Store(true)
	defer close(l.stopped)
	defer l.shutdown()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.InfoContext(ctx, "scheduler started",
		logger.Component("scheduler"),
		logger.Interval(l.interval),
		logger.Count("buffer", l.ring.Capacity()))

	// First frame goes out without waiting a full interval.
	if err := l.tick(ctx); err != nil {
		return l.fail(ctx, err)
	}

	for {
		select {
		case <-ctx.Done():
			l.logger.InfoContext(context.Background(), "scheduler stopping",
				logger.Component("scheduler"),
				logger.Count("frames", int(l.framesProduced.Load())))
			return nil

		case <-ticker.C:
			if err := l.tick(ctx); err != nil {
				return l.fail(ctx, err)
			}

		case conn := <-l.acceptor.Conns():
			l.spawn(ctx, conn)
		}
	}
}

// Run adapts Start for errgroup: it runs the loop, then waits for sessions to finish.
func (l *Loop) Run(ctx context.Context) func() error {
	return func() error {
		err := l.Start(ctx)
		if werr := l.Wait(l.shutdownTimeout); werr != nil {
			l.logger.WarnContext(context.Background(), "sessions abandoned on shutdown",
				logger.Component("scheduler"),
				logger.Error(werr))
		}
		return err
	}
}

// Wait blocks until the loop has stopped and every session has ended.
// After timeout the remaining sessions are cancelled and ErrShutdownTimeout is returned.
func (l *Loop) Wait(timeout time.Duration) error {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if !started {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case <-l.stopped:
	case <-deadline.C:
		return fmt.Errorf("%w: loop still running after %s", ErrShutdownTimeout, timeout)
	}

	done := make(chan struct{})
	go func() {
		l.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.sessionCancel()
		return nil
	case <-deadline.C:
		l.sessionCancel()
		<-done
		return fmt.Errorf("%w: after %s", ErrShutdownTimeout, timeout)
	}
}

// Running reports whether the loop is ticking.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Latest returns the most recently published payload.
func (l *Loop) Latest() ([]byte, bool) {
	payload, _, ok := l.ring.Latest()
	return payload, ok
}

// Stats returns current counters.
func (l *Loop) Stats() Stats {
	return Stats{
		FramesProduced:  l.framesProduced.Load(),
		SessionsStarted: l.sessionsStarted.Load(),
		SessionsActive:  l.sessionsActive.Load(),
		Subscribers:     l.ring.Stats().Subscribers,
		IsRunning:       l.running.Load(),
	}
}

func (l *Loop) tick(ctx context.Context) error {
	payload, err := l.producer.Produce(ctx)
	if err != nil {
		return err
	}

	seq := l.ring.Publish(payload)
	l.framesProduced.Add(1)

	l.logger.DebugContext(ctx, "frame published",
		logger.Component("scheduler"),
		logger.Sequence(seq),
		logger.BytesOut(int64(len(payload))))

	return nil
}

func (l *Loop) fail(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// Cancelled mid-capture; that is a stop, not a failure.
		return nil
	}

	l.logger.ErrorContext(context.Background(), "frame source failed, stopping broadcast",
		logger.Component("scheduler"),
		logger.Error(err))

	// Nothing buffered before the failure reaches a peer.
	l.ring.Abort()

	return fmt.Errorf("%w: %w", ErrSourceFailed, err)
}

func (l *Loop) spawn(ctx context.Context, conn *websocket.Conn) {
	// Subscribed here, the peer sees only frames published from now on.
	sub := l.ring.Subscribe()

	opts := append([]session.Option{session.WithLogger(l.logger)}, l.sessionOpts...)
	s := session.New(conn, sub, opts...)

	l.sessionsStarted.Add(1)
	l.sessionsActive.Add(1)
	l.sessions.Add(1)

	l.logger.DebugContext(ctx, "session started",
		logger.Component("scheduler"),
		logger.SessionID(s.ID()),
		logger.Count("active", int(l.sessionsActive.Load())))

	go func() {
		defer l.sessions.Done()
		defer l.sessionsActive.Add(-1)
		defer l.acceptor.Release()

		// Session logs its own outcome.
		_ = s.Run(l.sessionCtx)
	}()
}

func (l *Loop) shutdown() {
	l.running.Store(false)

	if err := l.producer.Close(); err != nil {
		l.logger.WarnContext(context.Background(), "failed to release frame source",
			logger.Component("scheduler"),
			logger.Error(err))
	}

	l.ring.Close()
	l.acceptor.Close()

	l.logger.InfoContext(context.Background(), "scheduler stopped",
		logger.Component("scheduler"),
		logger.Count("frames", int(l.framesProduced.Load())),
		logger.Count("sessions", int(l.sessionsStarted.Load())))
}
