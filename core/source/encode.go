package source

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// DefaultQuality is the JPEG quality used when Encoder.Quality is not set.
const DefaultQuality = 80

// TargetWidth returns the width that keeps the srcW:srcH aspect ratio at targetH.
// The result is truncated toward zero, never rounded: 1000x999 at 540 gives 540, not 541.
// 0 is returned for non-positive input.
func TargetWidth(srcW, srcH, targetH int) int {
	if srcW <= 0 || srcH <= 0 || targetH <= 0 {
		return 0
	}
	return int(int64(targetH) * int64(srcW) / int64(srcH))
}

// Encoder scales frames to Height pixels and encodes them as JPEG.
// A zero Height keeps the source size.
type Encoder struct {
	Height  int
	Quality int
}

// Size returns the output dimensions for a source of srcW x srcH.
func (e Encoder) Size(srcW, srcH int) (int, int) {
	if e.Height <= 0 {
		return srcW, srcH
	}
	return TargetWidth(srcW, srcH, e.Height), e.Height
}

// ResizeAndEncode scales img and returns the JPEG bytes.
func (e Encoder) ResizeAndEncode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrInvalidDimensions
	}

	b := img.Bounds()
	w, h := e.Size(b.Dx(), b.Dy())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d -> height %d", ErrInvalidDimensions, b.Dx(), b.Dy(), e.Height)
	}

	out := img
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		out = dst
	}

	quality := e.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
