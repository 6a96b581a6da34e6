package remote

import (
	"context"
	"fmt"
	"image"
	"time"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/render"
)

// DefaultTimeout bounds a single remote tile.
const DefaultTimeout = 10 * time.Second

// Tiles renders tiles for a render.Pool on a remote TileRenderer, colouring
// them with Palette.
type Tiles struct {
	Remote  TileRenderer
	Palette mandel.Palette
	Banded  bool
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

var _ render.TileRenderer = (*Tiles)(nil)

func (t *Tiles) RenderTile(dst *image.RGBA, p mandel.Params, tile image.Rectangle) error {
	if tile.Empty() || !tile.In(dst.Bounds()) {
		return fmt.Errorf("tile %v outside destination %v", tile, dst.Bounds())
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pix, err := t.Remote.RenderTile(ctx, TileRequest{Params: p, Tile: tile, Palette: t.Palette, Banded: t.Banded})
	if err != nil {
		return fmt.Errorf("remote tile %v: %w", tile, err)
	}
	row := 4 * tile.Dx()
	if len(pix) != row*tile.Dy() {
		return fmt.Errorf("remote tile %v: got %d bytes, want %d", tile, len(pix), row*tile.Dy())
	}
	for y := range tile.Dy() {
		off := dst.PixOffset(tile.Min.X, tile.Min.Y+y)
		copy(dst.Pix[off:off+row], pix[y*row:(y+1)*row])
	}
	return nil
}
