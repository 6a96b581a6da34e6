package mandel

import "image"

// ToPlane maps a pixel position to the complex plane.
//
// Both axes are scaled by the screen height so the view keeps its aspect
// ratio; 1/zoom is the half-height of the viewport in plane units. The pixel
// y axis points up. A zero screen height yields NaN or Inf, callers reject
// empty viewports before mapping.
func ToPlane(pixel Point, screen image.Point, position Point, zoom float64) Point {
	dx, dy := planeOffset(pixel, screen, zoom)
	return Point{X: dx + position.X, Y: dy + position.Y}
}

// ToPlanePair is ToPlane for the ExtendedPair regime. The view centre is a
// pair and the offset is added to it without rounding, so neighbouring
// pixels stay distinct when the offset is far below a float64 ulp of the
// position.
func ToPlanePair(pixel Point, screen image.Point, position PairPoint, zoom float64) PairPoint {
	dx, dy := planeOffset(pixel, screen, zoom)
	return PairPoint{X: position.X.Add(PairOf(dx)), Y: position.Y.Add(PairOf(dy))}
}

func planeOffset(pixel Point, screen image.Point, zoom float64) (float64, float64) {
	w, h := float64(screen.X), float64(screen.Y)
	scale := 1 / zoom
	return ((2*pixel.X - w) / h) * scale, ((2*pixel.Y - h) / h) * scale
}

// PixelCenter returns the centre of the image cell (col, row) in the
// y-up pixel space ToPlane expects. Row 0 is the top of the image.
func PixelCenter(col, row int, screen image.Point) Point {
	return Point{X: float64(col) + 0.5, Y: float64(screen.Y-row) - 0.5}
}
