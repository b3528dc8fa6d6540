package session

import "errors"

var (
	// ErrSend is returned when writing a payload or control frame to the peer fails.
	ErrSend = errors.New("session: send failed")
	// ErrReceive is returned when reading from the peer fails for a reason other than a close frame.
	ErrReceive = errors.New("session: receive failed")
	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("session: already started")

	errPeerClosed  = errors.New("peer closed connection")
	errStreamEnded = errors.New("stream ended")
)
