package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dir replays the images of a directory in lexical order, looping forever.
type Dir struct {
	mu     sync.Mutex
	files  []string
	next   int
	closed bool
}

// NewDir lists the .jpg, .jpeg and .png files in path.
// Returns ErrNoFrames if there are none.
func NewDir(path string) (*Dir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, path)
	}

	return &Dir{files: files}, nil
}

// Capture decodes the next file.
func (d *Dir) Capture(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrSourceClosed
	}
	name := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", name, err)
	}
	return img, nil
}

// Len returns the number of frames in the loop.
func (d *Dir) Len() int {
	return len(d.files)
}

// Close stops the source.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
