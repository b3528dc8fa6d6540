package config

import "errors"

var (
	// ErrFileNotFound is returned by FromFile when the path does not exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrMalformed is returned by FromFile when the file cannot be read or decoded.
	ErrMalformed = errors.New("config file malformed")

	// ErrEnv is returned when environment variables cannot be parsed into the target.
	ErrEnv = errors.New("failed to parse environment")
)
