package render

import (
	"image"
	"sync"
)

// tileScheduler hands out the tiles of one frame to a pool of workers.
type tileScheduler struct {
	unstarted []image.Rectangle

	totalPixels    int
	finishedPixels int
	m              sync.Mutex
}

func newTileScheduler(bounds image.Rectangle, tileSize int) *tileScheduler {
	return &tileScheduler{
		unstarted:   SplitRect(bounds, tileSize, tileSize),
		totalPixels: bounds.Dx() * bounds.Dy(),
	}
}

func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if len(ts.unstarted) == 0 {
		return image.Rectangle{}, false
	}
	tile = ts.unstarted[len(ts.unstarted)-1]
	ts.unstarted = ts.unstarted[:len(ts.unstarted)-1]
	return tile, true
}

// requeue puts back a tile whose renderer failed.
func (ts *tileScheduler) requeue(tile image.Rectangle) {
	ts.m.Lock()
	defer ts.m.Unlock()
	ts.unstarted = append(ts.unstarted, tile)
}

func (ts *tileScheduler) tileFinished(tile image.Rectangle) {
	ts.m.Lock()
	defer ts.m.Unlock()
	ts.finishedPixels += tile.Dx() * tile.Dy()
}

func (ts *tileScheduler) finished() float32 {
	ts.m.Lock()
	defer ts.m.Unlock()
	if ts.totalPixels == 0 {
		return 1
	}
	return float32(ts.finishedPixels) / float32(ts.totalPixels)
}

// SplitRect splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func SplitRect(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
