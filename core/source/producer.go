package source

import (
	"context"
	"fmt"
)

// Producer captures a frame and turns it into a delivery-ready payload.
type Producer struct {
	src Source
	enc Encoder
}

// NewProducer binds a source to an encoder.
func NewProducer(src Source, enc Encoder) *Producer {
	return &Producer{src: src, enc: enc}
}

// Produce captures, scales and encodes one frame.
func (p *Producer) Produce(ctx context.Context) ([]byte, error) {
	img, err := p.src.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	data, err := p.enc.ResizeAndEncode(img)
	if err != nil {
		return nil, fmt.Errorf("resize and encode: %w", err)
	}
	return data, nil
}

// Close releases the underlying source.
func (p *Producer) Close() error {
	return p.src.Close()
}
