package render

import (
	"image"
	"sync"

	mandel "github.com/marben/mandel_explorer"
)

// TileRenderer renders a single tile of the frame p into dst.
// dst only has to cover tile; implementations must not write outside it.
type TileRenderer interface {
	RenderTile(dst *image.RGBA, p mandel.Params, tile image.Rectangle) error
}

// DefaultRemoteCalls is the number of tiles kept in flight per remote.
const DefaultRemoteCalls = 4

// Pool renders frames on the local CPU together with any remote tile
// renderers added to it. A remote that fails a tile is dropped from the
// pool and the tile goes back to the queue, so a frame always completes.
// Pool is safe for concurrent use.
type Pool struct {
	Local CPU
	// RemoteCalls defaults to DefaultRemoteCalls.
	RemoteCalls int

	m       sync.Mutex
	remotes map[TileRenderer]string
}

var _ mandel.Renderer = (*Pool)(nil)

func NewPool(local CPU) *Pool {
	return &Pool{Local: local, remotes: make(map[TileRenderer]string)}
}

// Add registers r under name until it fails or is removed.
func (pl *Pool) Add(name string, r TileRenderer) {
	pl.m.Lock()
	pl.remotes[r] = name
	n := len(pl.remotes)
	pl.m.Unlock()
	mandel.Logger().Info("remote renderer added", "name", name, "remotes", n)
}

// Remove drops r. Tiles it is rendering right now still count.
func (pl *Pool) Remove(r TileRenderer) {
	pl.m.Lock()
	name, found := pl.remotes[r]
	delete(pl.remotes, r)
	n := len(pl.remotes)
	pl.m.Unlock()
	if found {
		mandel.Logger().Info("remote renderer removed", "name", name, "remotes", n)
	}
}

// Len returns the number of remote renderers.
func (pl *Pool) Len() int {
	pl.m.Lock()
	defer pl.m.Unlock()
	return len(pl.remotes)
}

func (pl *Pool) has(r TileRenderer) bool {
	pl.m.Lock()
	defer pl.m.Unlock()
	_, found := pl.remotes[r]
	return found
}

func (pl *Pool) snapshot() map[TileRenderer]string {
	pl.m.Lock()
	defer pl.m.Unlock()
	remotes := make(map[TileRenderer]string, len(pl.remotes))
	for r, name := range pl.remotes {
		remotes[r] = name
	}
	return remotes
}

func (pl *Pool) Render(dst *image.RGBA, p mandel.Params) error {
	want, err := frameBounds(dst, p)
	if err != nil {
		return err
	}

	calls := pl.RemoteCalls
	if calls <= 0 {
		calls = DefaultRemoteCalls
	}

	ts := newTileScheduler(want, pl.Local.tileSize())
	wg := sync.WaitGroup{}
	pl.Local.startWorkers(&wg, ts, dst, p)
	for r, name := range pl.snapshot() {
		wg.Add(calls)
		for range calls {
			go func() {
				defer wg.Done()
				pl.drain(r, name, ts, dst, p)
			}()
		}
	}
	wg.Wait()

	// Tiles requeued after the local workers ran dry.
	for tile, found := ts.popTile(); found; tile, found = ts.popTile() {
		pl.Local.renderTile(dst, p, tile)
		ts.tileFinished(tile)
	}

	mandel.Logger().Debug("frame rendered",
		"size", p.Screen, "zoom", p.Zoom, "iterations", p.MaxIterations,
		"mode", p.Precision, "finished", ts.finished())
	return nil
}

// drain feeds tiles to r until the queue is empty or r fails.
func (pl *Pool) drain(r TileRenderer, name string, ts *tileScheduler, dst *image.RGBA, p mandel.Params) {
	for pl.has(r) {
		tile, found := ts.popTile()
		if !found {
			return
		}
		if err := r.RenderTile(dst, p, tile); err != nil {
			ts.requeue(tile)
			mandel.Logger().Warn("remote tile failed", "name", name, "tile", tile, "err", err)
			pl.Remove(r)
			return
		}
		ts.tileFinished(tile)
	}
}
