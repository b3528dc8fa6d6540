package broadcast

import "errors"

var (
	// ErrClosed is returned by Next once the ring is closed and the subscriber has
	// consumed every retained value newer than its cursor.
	ErrClosed = errors.New("broadcast: ring closed")

	// ErrSubscriberClosed is returned by Next after the subscriber was closed.
	ErrSubscriberClosed = errors.New("broadcast: subscriber closed")
)
