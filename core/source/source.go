package source

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrSourceClosed is returned by Capture after Close.
	ErrSourceClosed = errors.New("source closed")

	// ErrNoFrames is returned when a directory source has nothing to play.
	ErrNoFrames = errors.New("no frames available")

	// ErrInvalidDimensions is returned when an image or target size is not positive.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrDeviceLost is returned by a Pattern source configured to fail.
	ErrDeviceLost = errors.New("capture device lost")
)

// Source captures one raw frame per call.
type Source interface {
	Capture(ctx context.Context) (image.Image, error)
	Close() error
}
