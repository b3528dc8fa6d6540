package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/framecast/app/framecast"
	"github.com/dmitrymomot/framecast/core/logger"
)

// flagValues holds command-line overrides; only flags the operator set are applied.
type flagValues struct {
	configPath  string
	url         string
	frameHeight int
	fps         int
	source      string
	sourceDir   string
	idleTimeout time.Duration
	maxSubs     int
}

func newRootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "framecast",
		Short: "Broadcast live frames to WebSocket viewers",
		Long: "framecast captures a frame on every tick, scales it to a fixed height, encodes it as JPEG\n" +
			"and fans it out to every connected WebSocket client. Slow clients skip frames instead of\n" +
			"slowing the broadcast down.\n\n" +
			"Stop with Ctrl+C, SIGTERM, or by typing q (or ESC) followed by Enter.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, fv)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fv.configPath, "config", framecast.DefaultConfigFile, "config file (json, yaml or toml)")
	f.StringVar(&fv.url, "url", "", "listen address, host:port")
	f.IntVar(&fv.frameHeight, "frame-height", 0, "output frame height in pixels")
	f.IntVar(&fv.fps, "fps", 0, "frames per second")
	f.StringVar(&fv.source, "source", "", "frame source: pattern or dir")
	f.StringVar(&fv.sourceDir, "source-dir", "", "directory of images for the dir source")
	f.DurationVar(&fv.idleTimeout, "idle-timeout", 0, "drop viewers silent for this long (0 disables)")
	f.IntVar(&fv.maxSubs, "max-subscribers", 0, "maximum concurrent viewers (0 is unlimited)")

	return cmd
}

func run(cmd *cobra.Command, fv flagValues) error {
	bootLog := logger.New(logger.WithOutput(cmd.ErrOrStderr()))

	cfg := framecast.LoadConfig(fv.configPath, bootLog)
	applyFlags(cmd, fv, &cfg)

	log := newLogger(cfg, cmd)
	logger.SetAsDefault(log)

	app, err := framecast.NewApp(cfg, framecast.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go watchKeys(cmd.InOrStdin(), cancel)

	if err := app.Run(ctx); err != nil {
		log.Error("broadcast stopped", logger.Error(err))
		return err
	}

	log.Info("broadcast stopped")
	return nil
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cmd *cobra.Command, fv flagValues, cfg *framecast.Config) {
	f := cmd.Flags()
	if f.Changed("url") {
		cfg.URL = fv.url
	}
	if f.Changed("frame-height") {
		cfg.FrameHeight = fv.frameHeight
	}
	if f.Changed("fps") {
		cfg.FPS = fv.fps
	}
	if f.Changed("source") {
		cfg.Source = fv.source
	}
	if f.Changed("source-dir") {
		cfg.SourceDir = fv.sourceDir
	}
	if f.Changed("idle-timeout") {
		cfg.IdleTimeout = fv.idleTimeout
	}
	if f.Changed("max-subscribers") {
		cfg.MaxSubscribers = fv.maxSubs
	}
}

func newLogger(cfg framecast.Config, cmd *cobra.Command) *slog.Logger {
	opts := []logger.Option{
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	}
	if cfg.Env == "production" {
		opts = append(opts, logger.WithProduction("framecast"))
	} else {
		opts = append(opts, logger.WithDevelopment("framecast"))
	}
	return logger.New(opts...)
}
