package scheduler

import "errors"

var (
	// ErrSourceFailed wraps the error that stopped frame production.
	ErrSourceFailed = errors.New("frame source failed")
	// ErrAlreadyStarted is returned when Start is called on a running or finished loop.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrShutdownTimeout is returned by Wait when sessions outlive the timeout.
	ErrShutdownTimeout = errors.New("scheduler shutdown timeout exceeded")
)
