package framecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/framecast/core/acceptor"
	"github.com/dmitrymomot/framecast/core/config"
	"github.com/dmitrymomot/framecast/core/logger"
	"github.com/dmitrymomot/framecast/core/server"
)

// DefaultConfigFile is read when no other path is given.
const DefaultConfigFile = "config.json"

// Source kinds.
const (
	SourcePattern = "pattern"
	SourceDir     = "dir"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the broadcaster settings. File keys use mapstructure tags, environment
// overrides use env tags. Defaults live in DefaultConfig, not in tags, so the layers
// stack: defaults, then file, then environment, then command-line flags.
type Config struct {
	URL         string `mapstructure:"url" env:"FRAMECAST_URL" validate:"required,listen_addr"`
	FrameHeight int    `mapstructure:"frame_height" env:"FRAMECAST_FRAME_HEIGHT" validate:"gte=16,lte=4320"`
	FPS         int    `mapstructure:"fps" env:"FRAMECAST_FPS" validate:"gte=1,lte=120"`
	Buffer      int    `mapstructure:"buffer" env:"FRAMECAST_BUFFER" validate:"gte=1,lte=1024"`
	JPEGQuality int    `mapstructure:"jpeg_quality" env:"FRAMECAST_JPEG_QUALITY" validate:"gte=1,lte=100"`

	Source    string `mapstructure:"source" env:"FRAMECAST_SOURCE" validate:"oneof=pattern dir"`
	SourceDir string `mapstructure:"source_dir" env:"FRAMECAST_SOURCE_DIR" validate:"required_if=Source dir"`

	MaxSubscribers int           `mapstructure:"max_subscribers" env:"FRAMECAST_MAX_SUBSCRIBERS" validate:"gte=0"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" env:"FRAMECAST_IDLE_TIMEOUT" validate:"gte=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" env:"FRAMECAST_ALLOWED_ORIGINS" envSeparator:","`

	WSReadBuffer     int           `mapstructure:"ws_read_buffer" env:"FRAMECAST_WS_READ_BUFFER" validate:"gte=0"`
	WSWriteBuffer    int           `mapstructure:"ws_write_buffer" env:"FRAMECAST_WS_WRITE_BUFFER" validate:"gte=0"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout" env:"FRAMECAST_HANDSHAKE_TIMEOUT" validate:"gte=0"`

	LogLevel string `mapstructure:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Env      string `mapstructure:"env" env:"APP_ENV" validate:"oneof=development production"`

	Server server.Config `mapstructure:"server"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		URL:         "127.0.0.1:8082",
		FrameHeight: 540,
		FPS:         30,
		Buffer:      10,
		JPEGQuality: 80,
		Source:      SourcePattern,

		WSReadBuffer:     1024,
		WSWriteBuffer:    64 << 10,
		HandshakeTimeout: acceptor.DefaultHandshakeTimeout,

		LogLevel: "info",
		Env:      "development",
		Server:   server.DefaultConfig(),
	}
}

// Interval returns the frame period for FPS.
func (c Config) Interval() time.Duration {
	if c.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.FPS)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// hostname_port rejects port 0, which is handy for tests and ephemeral binds.
	_ = v.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		_, port, err := net.SplitHostPort(fl.Field().String())
		if err != nil {
			return false
		}
		n, err := strconv.Atoi(port)
		return err == nil && n >= 0 && n <= 65535
	})
	return v
}

// Validate checks field ranges and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig layers the config file at path and the process environment over
// DefaultConfig. Problems are never fatal: a missing or malformed file is skipped, and a
// result that fails validation is replaced by DefaultConfig. Each problem is logged.
func LoadConfig(path string, log *slog.Logger) Config {
	return loadConfig(path, config.Load, log)
}

// LoadConfigEnviron is LoadConfig with an explicit environment instead of the process one.
func LoadConfigEnviron(path string, environ map[string]string, log *slog.Logger) Config {
	return loadConfig(path, func(cfg any) error {
		return config.LoadEnviron(cfg, environ)
	}, log)
}

func loadConfig(path string, loadEnv func(any) error, log *slog.Logger) Config {
	if log == nil {
		log = logger.Nop()
	}
	ctx := context.Background()

	cfg := DefaultConfig()

	if path != "" {
		fileCfg := cfg
		switch err := config.FromFile(path, &fileCfg); {
		case err == nil:
			cfg = fileCfg
		case errors.Is(err, config.ErrFileNotFound):
			log.WarnContext(ctx, "config file not found, using defaults",
				logger.Component("config"),
				slog.String("path", path))
		default:
			log.WarnContext(ctx, "config file unreadable, using defaults",
				logger.Component("config"),
				slog.String("path", path),
				logger.Error(err))
		}
	}

	envCfg := cfg
	if err := loadEnv(&envCfg); err != nil {
		log.WarnContext(ctx, "ignoring environment overrides",
			logger.Component("config"),
			logger.Error(err))
	} else {
		cfg = envCfg
	}

	if err := cfg.Validate(); err != nil {
		log.WarnContext(ctx, "configuration rejected, using defaults",
			logger.Component("config"),
			logger.Error(err))
		return DefaultConfig()
	}

	return cfg
}
