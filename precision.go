package mandel

import (
	"image"
	"math"
)

// PrecisionMode selects the arithmetic used by the escape-time iteration.
type PrecisionMode int

const (
	// Single iterates in native floating point.
	Single PrecisionMode = iota
	// ExtendedPair iterates in double-float pairs, about twice as slow.
	ExtendedPair
)

func (m PrecisionMode) String() string {
	switch m {
	case Single:
		return "single"
	case ExtendedPair:
		return "pair"
	default:
		return "unknown"
	}
}

// PrecisionPolicy decides when native precision stops resolving pixels.
//
// ExtendedPair is selected once a pixel's plane footprint, 2/(zoom*h), drops
// below Epsilon*max(|x|,|y|,1)*Headroom: the coordinate ulp scaled by the
// number of sub-pixel steps still wanted.
type PrecisionPolicy struct {
	// Epsilon is the machine epsilon of the native coordinate type.
	Epsilon float64
	// Headroom is how many ulps a pixel must span to stay in Single mode.
	Headroom float64
}

var (
	// CPUPrecision is the policy for float64 evaluation.
	CPUPrecision = PrecisionPolicy{Epsilon: 0x1p-52, Headroom: 0x1p10}
	// GPUPrecision is the policy for float32 shader evaluation.
	GPUPrecision = PrecisionPolicy{Epsilon: 0x1p-23, Headroom: 0x1p4}
)

// Threshold returns the zoom at which the policy switches to ExtendedPair
// for the given screen and view centre.
func (pp PrecisionPolicy) Threshold(screen image.Point, position Point) float64 {
	if screen.Y <= 0 || pp.Epsilon <= 0 || pp.Headroom <= 0 {
		return math.Inf(1)
	}
	mag := math.Max(1, math.Max(math.Abs(position.X), math.Abs(position.Y)))
	return 2 / (float64(screen.Y) * pp.Epsilon * mag * pp.Headroom)
}

// Mode returns the precision mode for a view.
func (pp PrecisionPolicy) Mode(view ViewState, screen image.Point) PrecisionMode {
	if view.Zoom >= pp.Threshold(screen, view.Position) {
		return ExtendedPair
	}
	return Single
}
