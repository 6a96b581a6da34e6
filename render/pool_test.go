package render

import (
	"bytes"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	mandel "github.com/marben/mandel_explorer"
)

// countingTiles renders through a CPU and fails once calls exceeds failAfter.
type countingTiles struct {
	cpu       CPU
	failAfter int64
	calls     atomic.Int64
}

func (c *countingTiles) RenderTile(dst *image.RGBA, p mandel.Params, tile image.Rectangle) error {
	if c.calls.Add(1) > c.failAfter {
		return errors.New("connection lost")
	}
	return c.cpu.RenderTile(dst, p, tile)
}

func reference(t *testing.T, p mandel.Params) []byte {
	t.Helper()
	dst := image.NewRGBA(image.Rect(0, 0, p.Screen.X, p.Screen.Y))
	if err := (CPU{Palette: mandel.DefaultPalette}).Render(dst, p); err != nil {
		t.Fatal(err)
	}
	return dst.Pix
}

func TestPoolMatchesCPU(t *testing.T) {
	p := testParams(90, 70)
	want := reference(t, p)

	pool := NewPool(CPU{Palette: mandel.DefaultPalette, Workers: 1, TileSize: 8})
	good := &countingTiles{cpu: CPU{Palette: mandel.DefaultPalette}, failAfter: 1 << 30}
	pool.Add("good", good)

	dst := image.NewRGBA(image.Rect(0, 0, 90, 70))
	if err := pool.Render(dst, p); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, dst.Pix) {
		t.Error("pool output differs from CPU output")
	}
	if good.calls.Load() == 0 {
		t.Error("remote renderer was never used")
	}
	if pool.Len() != 1 {
		t.Errorf("Len = %d, want 1", pool.Len())
	}
}

func TestPoolDropsFailingRemote(t *testing.T) {
	p := testParams(64, 64)
	want := reference(t, p)

	pool := NewPool(CPU{Palette: mandel.DefaultPalette, Workers: 1, TileSize: 4})
	failing := &countingTiles{cpu: CPU{Palette: mandel.DefaultPalette}, failAfter: 3}
	broken := &countingTiles{failAfter: 0}
	pool.Add("failing", failing)
	pool.Add("broken", broken)

	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if err := pool.Render(dst, p); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, dst.Pix) {
		t.Error("pool output differs from CPU output after remote failures")
	}
	for _, r := range []*countingTiles{failing, broken} {
		if r.calls.Load() > r.failAfter && pool.has(r) {
			t.Errorf("remote failed after %d calls but is still pooled", r.calls.Load())
		}
	}
}

func TestDrainRequeuesFailedTile(t *testing.T) {
	p := testParams(16, 16)
	pool := NewPool(CPU{Palette: mandel.DefaultPalette})
	broken := &countingTiles{failAfter: 1}
	pool.Add("broken", broken)

	ts := newTileScheduler(image.Rect(0, 0, 16, 16), 8)
	dst := image.NewRGBA(image.Rect(0, 0, 16, 16))
	pool.drain(broken, "broken", ts, dst, p)

	if got := broken.calls.Load(); got != 2 {
		t.Errorf("remote called %d times, want 2", got)
	}
	if pool.Len() != 0 {
		t.Errorf("Len = %d, want failed remote dropped", pool.Len())
	}
	if f := ts.finished(); f != 0.25 {
		t.Errorf("finished = %g, want 0.25", f)
	}
	left := 0
	for _, found := ts.popTile(); found; _, found = ts.popTile() {
		left++
	}
	if left != 3 {
		t.Errorf("%d tiles left in queue, want 3 including the failed one", left)
	}

	// A dropped remote is not used again.
	pool.drain(broken, "broken", newTileScheduler(image.Rect(0, 0, 16, 16), 8), dst, p)
	if got := broken.calls.Load(); got != 2 {
		t.Errorf("dropped remote called again, %d calls", got)
	}
}

func TestPoolRemove(t *testing.T) {
	pool := NewPool(CPU{Palette: mandel.DefaultPalette})
	r := &countingTiles{}
	pool.Add("a", r)
	pool.Remove(r)
	pool.Remove(r)
	if pool.Len() != 0 {
		t.Errorf("Len = %d, want 0", pool.Len())
	}
}

func TestPoolRejectsMismatchedDestination(t *testing.T) {
	pool := NewPool(CPU{Palette: mandel.DefaultPalette})
	err := pool.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), testParams(0, 4))
	if !errors.Is(err, mandel.ErrInvalidViewport) {
		t.Errorf("err = %v, want ErrInvalidViewport", err)
	}
}

func TestCPURenderTileBounds(t *testing.T) {
	p := testParams(32, 32)
	tile := image.Rect(8, 16, 20, 24)
	dst := image.NewRGBA(tile)
	if err := (CPU{Palette: mandel.DefaultPalette}).RenderTile(dst, p, tile); err != nil {
		t.Fatal(err)
	}
	full := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := (CPU{Palette: mandel.DefaultPalette}).Render(full, p); err != nil {
		t.Fatal(err)
	}
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			if dst.RGBAAt(x, y) != full.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs from full render", x, y)
			}
		}
	}

	if err := (CPU{}).RenderTile(dst, p, image.Rect(0, 0, 8, 8)); err == nil {
		t.Error("tile outside destination accepted")
	}
}
