// Package render evaluates frames on the CPU, optionally sharing the tiles
// of a frame with remote renderers.
package render

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	mandel "github.com/marben/mandel_explorer"
)

// DefaultTileSize is the edge of the square tiles a frame is split into.
const DefaultTileSize = 64

// CPU renders frames with a pool of goroutines, one tile at a time.
// Render returns only after every tile is done, so a frame never leaks
// past the tick that asked for it.
type CPU struct {
	Palette mandel.Palette
	// Workers defaults to runtime.NumCPU().
	Workers int
	// TileSize defaults to DefaultTileSize.
	TileSize int
	// Banded selects the integer-count colouring instead of smooth colouring.
	Banded bool
}

var _ mandel.Renderer = CPU{}

func (c CPU) Render(dst *image.RGBA, p mandel.Params) error {
	want, err := frameBounds(dst, p)
	if err != nil {
		return err
	}

	ts := newTileScheduler(want, c.tileSize())
	wg := sync.WaitGroup{}
	c.startWorkers(&wg, ts, dst, p)
	wg.Wait()

	mandel.Logger().Debug("frame rendered",
		"size", p.Screen, "zoom", p.Zoom, "iterations", p.MaxIterations,
		"mode", p.Precision, "finished", ts.finished())
	return nil
}

var _ TileRenderer = CPU{}

// RenderTile renders tile of the frame p into dst, which only has to cover
// the tile.
func (c CPU) RenderTile(dst *image.RGBA, p mandel.Params, tile image.Rectangle) error {
	if tile.Empty() || !tile.In(dst.Bounds()) {
		return fmt.Errorf("tile %v outside destination %v", tile, dst.Bounds())
	}
	c.renderTile(dst, p, tile)
	return nil
}

func (c CPU) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c CPU) tileSize() int {
	if c.TileSize <= 0 {
		return DefaultTileSize
	}
	return c.TileSize
}

// startWorkers drains ts on c.workers() goroutines.
func (c CPU) startWorkers(wg *sync.WaitGroup, ts *tileScheduler, dst *image.RGBA, p mandel.Params) {
	wg.Add(c.workers())
	for range c.workers() {
		go func() {
			defer wg.Done()
			for {
				tile, found := ts.popTile()
				if !found {
					return
				}
				c.renderTile(dst, p, tile)
				ts.tileFinished(tile)
			}
		}()
	}
}

// frameBounds checks that dst matches the screen of p.
func frameBounds(dst *image.RGBA, p mandel.Params) (image.Rectangle, error) {
	want := image.Rect(0, 0, p.Screen.X, p.Screen.Y)
	if p.Screen.X <= 0 || p.Screen.Y <= 0 {
		return want, fmt.Errorf("%w: %dx%d", mandel.ErrInvalidViewport, p.Screen.X, p.Screen.Y)
	}
	if dst.Bounds() != want {
		return want, fmt.Errorf("destination is %v, want %v", dst.Bounds(), want)
	}
	return want, nil
}

// renderTile writes one tile. Tiles never overlap, so workers share dst
// without locking.
func (c CPU) renderTile(dst *image.RGBA, p mandel.Params, tile image.Rectangle) {
	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		for px := tile.Min.X; px < tile.Max.X; px++ {
			rec := mandel.EvaluateMode(p.Plane(px, py), p.MaxIterations, p.Precision)
			if c.Banded {
				dst.SetRGBA(px, py, c.Palette.Banded(rec, p.MaxIterations))
			} else {
				dst.SetRGBA(px, py, c.Palette.Color(rec, p.MaxIterations))
			}
		}
	}
}
