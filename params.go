package mandel

import "image"

// Params is everything a renderer needs for one frame. It is the typed form
// of the shader uniform set.
type Params struct {
	Screen   image.Point
	Position Point
	// PositionLo is the low-order part of the view centre. Position plus
	// PositionLo is the exact centre the ExtendedPair regime renders.
	PositionLo    Point
	Zoom          float64
	MaxIterations int
	// Time is the elapsed session time in seconds.
	Time      float64
	Precision PrecisionMode
}

// Uniforms returns the Kage uniform values for p and pal. Positions are
// split into float32 high and low parts for the pair shader.
func (p Params) Uniforms(pal Palette) map[string]any {
	hx, lx := splitFloat32(p.Position.X, p.PositionLo.X)
	hy, ly := splitFloat32(p.Position.Y, p.PositionLo.Y)
	return map[string]any{
		"ScreenSize":    []float32{float32(p.Screen.X), float32(p.Screen.Y)},
		"Position":      []float32{hx, hy},
		"PositionLo":    []float32{lx, ly},
		"Zoom":          float32(p.Zoom),
		"MaxIterations": int32(p.MaxIterations),
		"Time":          float32(p.Time),
		"Palette":       []float32{float32(pal.Base[0]), float32(pal.Base[1]), float32(pal.Base[2])},
		"Brightness":    float32(pal.Brightness),
	}
}

// splitFloat32 returns hi = float32(v) and the float32 closest to the rest
// of v+lo.
func splitFloat32(v, lo float64) (float32, float32) {
	hi := float32(v)
	return hi, float32((v - float64(hi)) + lo)
}

// Center is the exact view centre as a pair.
func (p Params) Center() PairPoint {
	return PairPoint{
		X: Pair{Hi: p.Position.X, Lo: p.PositionLo.X},
		Y: Pair{Hi: p.Position.Y, Lo: p.PositionLo.Y},
	}
}

// Plane maps the image cell (col, row) to the plane for p's view.
func (p Params) Plane(col, row int) PairPoint {
	pixel := PixelCenter(col, row, p.Screen)
	if p.Precision == ExtendedPair {
		return ToPlanePair(pixel, p.Screen, p.Center(), p.Zoom)
	}
	return PairPointOf(ToPlane(pixel, p.Screen, p.Position, p.Zoom))
}
