// Package remote shares the tiles of a frame with worker processes over
// irpc. A worker serves TileService; the rendering side wraps a Client in
// Tiles and adds it to a render.Pool.
package remote

import (
	"context"
	"fmt"
	"image"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/render"
)

// MaxTilePixels bounds the tiles a Worker agrees to render.
const MaxTilePixels = 1 << 20

// TileRequest is one tile of a frame together with the colouring to use.
type TileRequest struct {
	Params  mandel.Params
	Tile    image.Rectangle
	Palette mandel.Palette
	Banded  bool
}

// TileRenderer returns the RGBA pixels of a tile, row by row from the top.
type TileRenderer interface {
	RenderTile(ctx context.Context, req TileRequest) ([]byte, error)
}

// Worker renders requests on the local CPU.
type Worker struct{}

var _ TileRenderer = Worker{}

func (Worker) RenderTile(ctx context.Context, req TileRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	screen := image.Rect(0, 0, req.Params.Screen.X, req.Params.Screen.Y)
	if req.Tile.Empty() || !req.Tile.In(screen) {
		return nil, fmt.Errorf("tile %v outside screen %v", req.Tile, screen)
	}
	if n := req.Tile.Dx() * req.Tile.Dy(); n > MaxTilePixels {
		return nil, fmt.Errorf("tile %v has %d pixels, limit is %d", req.Tile, n, MaxTilePixels)
	}

	img := image.NewRGBA(req.Tile)
	cpu := render.CPU{Palette: req.Palette, Banded: req.Banded}
	if err := cpu.RenderTile(img, req.Params, req.Tile); err != nil {
		return nil, err
	}
	return img.Pix, nil
}
