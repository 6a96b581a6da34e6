// Package export writes captured frames to disk.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	mandel "github.com/marben/mandel_explorer"
)

const (
	DefaultDir     = "images"
	DefaultPattern = "mandelbrot_%d.png"
)

// PNG writes every frame to Dir/Pattern, where Pattern takes the frame
// index, e.g. images/mandelbrot_0.png.
type PNG struct {
	Dir     string
	Pattern string
	// Size, when non-zero, rescales every frame so a recording has a
	// uniform frame size even if the window was resized.
	Size image.Point
	// Annotate stamps the view parameters into the bottom-left corner.
	Annotate bool
}

var _ mandel.Exporter = PNG{}

// Path returns the file name for a frame index.
func (e PNG) Path(index int) string {
	dir, pattern := e.Dir, e.Pattern
	if dir == "" {
		dir = DefaultDir
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	return filepath.Join(dir, fmt.Sprintf(pattern, index))
}

func (e PNG) Export(frame mandel.CapturedFrame, index int) (err error) {
	if frame.Image == nil {
		return fmt.Errorf("frame %d has no image", index)
	}

	var img image.Image = frame.Image
	if e.Size.X > 0 && e.Size.Y > 0 && frame.Image.Bounds().Size() != e.Size {
		img = Scale(frame.Image, e.Size)
	}
	if e.Annotate {
		img = Annotate(img, Label(frame))
	}

	path := e.Path(index)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return nil
}
