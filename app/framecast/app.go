package framecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/framecast/core/acceptor"
	"github.com/dmitrymomot/framecast/core/logger"
	"github.com/dmitrymomot/framecast/core/scheduler"
	"github.com/dmitrymomot/framecast/core/server"
	"github.com/dmitrymomot/framecast/core/session"
	"github.com/dmitrymomot/framecast/core/source"
	"github.com/dmitrymomot/framecast/pkg/broadcast"
)

// ErrNotRunning is reported by the readiness check while the loop is stopped.
var ErrNotRunning = errors.New("broadcast loop not running")

// App wires the frame source, broadcast ring, scheduler loop and HTTP server.
type App struct {
	config   Config
	logger   *slog.Logger
	producer scheduler.Producer
	ring     *broadcast.Ring[[]byte]
	acceptor *acceptor.Acceptor
	loop     *scheduler.Loop
	server   *server.Server
	handler  http.Handler
}

// AppOption customizes App construction.
type AppOption func(*App) error

// NewApp validates cfg and builds every component. Opening the frame source happens
// here, so a source that cannot start is reported before anything binds.
func NewApp(cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.producer == nil {
		p, err := newProducer(cfg)
		if err != nil {
			return nil, err
		}
		app.producer = p
	}

	app.ring = broadcast.NewRing[[]byte](cfg.Buffer)

	accOpts := []acceptor.Option{
		acceptor.WithMaxConns(cfg.MaxSubscribers),
		acceptor.WithReadBuffer(cfg.WSReadBuffer),
		acceptor.WithWriteBuffer(cfg.WSWriteBuffer),
		acceptor.WithHandshakeTimeout(cfg.HandshakeTimeout),
		acceptor.WithLogger(app.logger),
	}
	if len(cfg.AllowedOrigins) == 0 {
		accOpts = append(accOpts, acceptor.WithAllowAnyOrigin())
	} else {
		accOpts = append(accOpts, acceptor.WithOriginCheck(func(r *http.Request) bool {
			return slices.Contains(cfg.AllowedOrigins, r.Header.Get("Origin"))
		}))
	}
	app.acceptor = acceptor.New(accOpts...)

	app.loop = scheduler.New(app.producer, app.ring, app.acceptor,
		scheduler.WithInterval(cfg.Interval()),
		scheduler.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		scheduler.WithLogger(app.logger),
		scheduler.WithSessionOptions(session.WithIdleTimeout(cfg.IdleTimeout)),
	)

	if app.server == nil {
		srv, err := server.NewFromConfig(cfg.URL, cfg.Server, server.WithLogger(app.logger))
		if err != nil {
			_ = app.producer.Close()
			return nil, err
		}
		app.server = srv
	}

	app.handler = app.routes()

	return app, nil
}

// WithLogger sets the logger shared by every component.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithProducer replaces the configured frame source.
func WithProducer(p scheduler.Producer) AppOption {
	return func(app *App) error {
		if p == nil {
			return errors.New("producer cannot be nil")
		}
		app.producer = p
		return nil
	}
}

// WithServer replaces the HTTP server built from Config.
func WithServer(srv *server.Server) AppOption {
	return func(app *App) error {
		if srv == nil {
			return errors.New("server cannot be nil")
		}
		app.server = srv
		return nil
	}
}

// Handler returns the HTTP routes.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Addr returns the listen address, resolved once the server is bound.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Loop exposes the scheduler for stats and readiness.
func (a *App) Loop() *scheduler.Loop {
	return a.loop
}

// Run binds the listen address, then runs the loop and the server until ctx is
// cancelled or either fails. A bind failure is returned before the loop starts.
func (a *App) Run(ctx context.Context) error {
	if err := a.server.Listen(); err != nil {
		_ = a.producer.Close()
		return err
	}

	a.logger.InfoContext(ctx, "broadcasting",
		logger.Addr(a.server.Addr()),
		slog.Int("frame_height", a.config.FrameHeight),
		logger.Interval(a.config.Interval()),
		logger.Count("buffer", a.config.Buffer),
		slog.String("source", a.config.Source))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.loop.Run(ctx))
	g.Go(a.server.Run(ctx, a.handler))

	if err := g.Wait(); err != nil {
		return fmt.Errorf("framecast: %w", err)
	}
	return nil
}

func (a *App) ready(context.Context) error {
	if !a.loop.Running() {
		return ErrNotRunning
	}
	return nil
}

func newProducer(cfg Config) (*source.Producer, error) {
	var src source.Source
	switch cfg.Source {
	case SourceDir:
		d, err := source.NewDir(cfg.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("open frame source: %w", err)
		}
		src = d
	default:
		src = source.NewPattern()
	}

	return source.NewProducer(src, source.Encoder{
		Height:  cfg.FrameHeight,
		Quality: cfg.JPEGQuality,
	}), nil
}
