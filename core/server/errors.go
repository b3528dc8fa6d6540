package server

import "errors"

var (
	// ErrMissingAddress is returned when server address is not provided.
	ErrMissingAddress = errors.New("server address is required")

	// ErrServerAlreadyRunning is returned by Listen or Start on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrBind is returned when the listening socket cannot be opened.
	ErrBind = errors.New("failed to bind address")

	// ErrFailedLoadCert is returned when TLS certificate files cannot be loaded.
	ErrFailedLoadCert = errors.New("failed to load certificate")
)
