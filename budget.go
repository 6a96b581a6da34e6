package mandel

import "math"

// Budget derives the iteration cap from the zoom depth.
type Budget struct {
	Min, Max int
	// Scale multiplies log10(zoom).
	Scale float64
}

// DefaultBudget is clamp(round(1000*log10(zoom)), 400, 60000).
var DefaultBudget = Budget{Min: 400, Max: 60000, Scale: 1000}

// IterationsFor returns the cap for zoom. It never decreases as zoom grows.
// Zoom values at or below 1, and invalid ones, give Min.
func (b Budget) IterationsFor(zoom float64) int {
	if !(zoom > 0) {
		return b.Min
	}
	n := math.Round(b.Scale * math.Log10(zoom))
	switch {
	case n < float64(b.Min):
		return b.Min
	case n > float64(b.Max):
		return b.Max
	}
	return int(n)
}

// clamp clamps a manual floor to [1, Max].
func (b Budget) clamp(n int) int {
	return min(max(n, 1), b.Max)
}

// RevealCap is the loop bound maxIterations*floor(t), clamped to
// maxIterations. The frame stays blank for the first second of a session.
func RevealCap(maxIterations int, t float64) int {
	if !(t >= 1) {
		return 0
	}
	return maxIterations
}
