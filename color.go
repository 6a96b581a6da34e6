package mandel

import (
	"image/color"
	"math"
)

// Palette maps escape records to colours.
type Palette struct {
	// Base is the RGB direction of the gradient, each channel in [0, 1].
	Base [3]float64
	// Brightness scales the gradient before channels are clamped.
	Brightness float64
	// Background is used for points that never escaped.
	Background color.RGBA
}

// DefaultPalette is a red gradient with green and blue at half strength.
var DefaultPalette = Palette{
	Base:       [3]float64{1, 0.5, 0.5},
	Brightness: 4,
	Background: color.RGBA{A: 255},
}

// Color returns the smooth-coloured pixel for rec.
func (p Palette) Color(rec EscapeRecord, maxIterations int) color.RGBA {
	if !rec.Escaped || maxIterations <= 0 {
		return p.Background
	}
	smooth, ok := SmoothIterations(rec)
	if !ok {
		return p.Banded(rec, maxIterations)
	}
	t := clamp01(smooth / float64(maxIterations))
	return color.RGBA{
		R: channel(t * p.Base[0] * p.Brightness),
		G: channel(t * p.Base[1] * p.Brightness),
		B: channel(t * p.Base[2] * p.Brightness),
		A: 255,
	}
}

// Banded colours by the integer escape count: red is it/max, green and blue
// are half of it.
func (p Palette) Banded(rec EscapeRecord, maxIterations int) color.RGBA {
	if !rec.Escaped || maxIterations <= 0 {
		return p.Background
	}
	t := clamp01(float64(rec.Iterations) / float64(maxIterations))
	return color.RGBA{R: channel(t), G: channel(t / 2), B: channel(t / 2), A: 255}
}

// SmoothIterations returns the fractional escape count
// it + 1 - log2(log2(|z|)). ok is false when the estimate is not finite.
func SmoothIterations(rec EscapeRecord) (smooth float64, ok bool) {
	mod := math.Sqrt(rec.ModulusSq)
	nu := math.Log(math.Log(mod)/math.Ln2) / math.Ln2
	smooth = float64(rec.Iterations) + 1 - nu
	if math.IsNaN(smooth) || math.IsInf(smooth, 0) {
		return 0, false
	}
	return smooth, true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
