package server

import (
	"fmt"
	"time"
)

// Config holds server configuration with environment variable support.
// Defaults come from DefaultConfig so file and environment layers can be stacked.
type Config struct {
	// Timeouts
	ReadTimeout     time.Duration `mapstructure:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`

	// Header limits
	MaxHeaderBytes int `mapstructure:"max_header_bytes" env:"SERVER_MAX_HEADER_BYTES"`

	// TLS Configuration (optional)
	TLSCertFile string `mapstructure:"tls_cert_file" env:"SERVER_TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"tls_key_file" env:"SERVER_TLS_KEY_FILE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// NewFromConfig creates a Server listening on addr from configuration.
// Additional options can override config values.
func NewFromConfig(addr string, cfg Config, opts ...Option) (*Server, error) {
	if addr == "" {
		return nil, ErrMissingAddress
	}

	// Option functions ignore zero values, so unset fields keep the defaults.
	configOpts := []Option{
		WithReadTimeout(cfg.ReadTimeout),
		WithWriteTimeout(cfg.WriteTimeout),
		WithIdleTimeout(cfg.IdleTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithMaxHeaderBytes(cfg.MaxHeaderBytes),
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		tlsConfig, err := LoadTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS configuration from files %s, %s: %w",
				cfg.TLSCertFile, cfg.TLSKeyFile, err)
		}
		configOpts = append(configOpts, WithTLS(tlsConfig))
	}

	configOpts = append(configOpts, opts...)

	return New(addr, configOpts...), nil
}
