package source

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

const (
	defaultPatternWidth  = 1280
	defaultPatternHeight = 720
	barWidth             = 48
	barStep              = 12
)

var (
	patternBackground = color.RGBA{R: 24, G: 26, B: 33, A: 255}
	patternBar        = color.RGBA{R: 230, G: 120, B: 40, A: 255}
)

// Pattern is a synthetic camera. Each capture renders a moving bar and a QR code
// with the frame number and the capture timestamp.
type Pattern struct {
	mu        sync.Mutex
	width     int
	height    int
	failAfter int
	frames    int
	closed    bool
	now       func() time.Time
}

// PatternOption configures a Pattern source.
type PatternOption func(*Pattern)

// WithPatternSize sets the raw frame size. Non-positive values are ignored.
func WithPatternSize(width, height int) PatternOption {
	return func(p *Pattern) {
		if width > 0 && height > 0 {
			p.width = width
			p.height = height
		}
	}
}

// WithFailAfter makes every capture after the first n return ErrDeviceLost.
func WithFailAfter(n int) PatternOption {
	return func(p *Pattern) {
		if n >= 0 {
			p.failAfter = n
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) PatternOption {
	return func(p *Pattern) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPattern creates a 1280x720 test card unless configured otherwise.
func NewPattern(opts ...PatternOption) *Pattern {
	p := &Pattern{
		width:     defaultPatternWidth,
		height:    defaultPatternHeight,
		failAfter: -1,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Capture renders the next frame.
func (p *Pattern) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrSourceClosed
	}
	if p.failAfter >= 0 && p.frames >= p.failAfter {
		p.mu.Unlock()
		return nil, ErrDeviceLost
	}
	p.frames++
	n := p.frames
	p.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(patternBackground), image.Point{}, draw.Src)

	x := (n * barStep) % p.width
	bar := image.Rect(x, 0, min(x+barWidth, p.width), p.height)
	draw.Draw(img, bar, image.NewUniform(patternBar), image.Point{}, draw.Src)

	label := fmt.Sprintf("framecast #%d %s", n, p.now().UTC().Format(time.RFC3339Nano))
	qr, err := qrcode.New(label, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	size := min(p.width, p.height) / 2
	code := qr.Image(size)
	origin := image.Pt((p.width-size)/2, (p.height-size)/2)
	draw.Draw(img, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}, code, code.Bounds().Min, draw.Src)

	return img, nil
}

// Frames returns how many frames were captured successfully.
func (p *Pattern) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Close stops the source. Further captures return ErrSourceClosed.
func (p *Pattern) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
