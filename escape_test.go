package mandel

import (
	"image"
	"testing"
)

func TestEvaluateOrigin(t *testing.T) {
	for _, max := range []int{1, 2, 100, 5000} {
		rec := Evaluate(Point{}, max)
		if rec.Escaped || rec.Iterations != max || rec.ModulusSq != 0 {
			t.Errorf("Evaluate(0, %d) = %+v", max, rec)
		}
	}
}

func TestEvaluateTraces(t *testing.T) {
	// Reference traces in float64:
	//  c=2: z = 0, 2, 6 - |2|² = 4 does not escape, |6|² does.
	//  c=3: z = 0, 3 - escapes right after the first step.
	//  c=-2: z = 0, -2, 2, 2, ... stays on the boundary forever.
	tests := []struct {
		c    Point
		max  int
		want EscapeRecord
	}{
		{Point{2, 0}, 1000, EscapeRecord{Iterations: 2, ModulusSq: 36, Escaped: true}},
		{Point{2, 0}, 3, EscapeRecord{Iterations: 2, ModulusSq: 36, Escaped: true}},
		{Point{2, 0}, 2, EscapeRecord{Iterations: 2, ModulusSq: 36, Escaped: false}},
		{Point{3, 0}, 2, EscapeRecord{Iterations: 1, ModulusSq: 9, Escaped: true}},
		{Point{3, 0}, 1000, EscapeRecord{Iterations: 1, ModulusSq: 9, Escaped: true}},
		{Point{-2, 0}, 50, EscapeRecord{Iterations: 50, ModulusSq: 4, Escaped: false}},
		{Point{0, 1}, 100, EscapeRecord{Iterations: 100, ModulusSq: 2, Escaped: false}},
		{Point{1, 1}, 100, EscapeRecord{Iterations: 2, ModulusSq: 10, Escaped: true}},
	}
	for _, tt := range tests {
		got := Evaluate(tt.c, tt.max)
		if got != tt.want {
			t.Errorf("Evaluate(%v, %d) = %+v, want %+v", tt.c, tt.max, got, tt.want)
		}
	}
}

func TestEvaluateZeroCap(t *testing.T) {
	for _, max := range []int{0, -5} {
		rec := Evaluate(Point{3, 0}, max)
		if rec != (EscapeRecord{}) {
			t.Errorf("Evaluate with cap %d = %+v, want zero record", max, rec)
		}
		if rec := EvaluatePair(PairPointOf(Point{3, 0}), max); rec != (EscapeRecord{}) {
			t.Errorf("EvaluatePair with cap %d = %+v, want zero record", max, rec)
		}
	}
}

func TestEvaluatePairMatchesShallow(t *testing.T) {
	points := []Point{{2, 0}, {3, 0}, {0, 0}, {-2, 0}, {1, 1}, {-0.75, 0.1}, {0.3, 0}, {-1, 0}, {0.5, 0.5}}
	for _, c := range points {
		single := Evaluate(c, 500)
		pair := EvaluatePair(PairPointOf(c), 500)
		if single.Iterations != pair.Iterations || single.Escaped != pair.Escaped {
			t.Errorf("c=%v: single %+v, pair %+v", c, single, pair)
		}
	}
}

func TestEvaluateModeDispatch(t *testing.T) {
	c := TwoSum(0.3, 1e-30)
	pp := PairPoint{X: c}
	if got, want := EvaluateMode(pp, 100, Single), Evaluate(pp.Point(), 100); got != want {
		t.Errorf("Single = %+v, want %+v", got, want)
	}
	if got, want := EvaluateMode(pp, 100, ExtendedPair), EvaluatePair(pp, 100); got != want {
		t.Errorf("ExtendedPair = %+v, want %+v", got, want)
	}
}

// Just below the switch threshold both modes resolve every pixel, so their
// escape counts must agree up to rounding at the escape boundary.
func TestModesAgreeBelowThreshold(t *testing.T) {
	screen := image.Pt(16, 16)
	pos := Point{X: 0.3, Y: 0}
	zoom := 0.99 * CPUPrecision.Threshold(screen, pos)
	if CPUPrecision.Mode(ViewState{Position: pos, Zoom: zoom}, screen) != Single {
		t.Fatalf("zoom %g is not below the threshold", zoom)
	}

	const max = 1000
	for row := range screen.Y {
		for col := range screen.X {
			pixel := PixelCenter(col, row, screen)
			single := Evaluate(ToPlane(pixel, screen, pos, zoom), max)
			pair := EvaluatePair(ToPlanePair(pixel, screen, PairPointOf(pos), zoom), max)
			if d := single.Iterations - pair.Iterations; d < -1 || d > 1 {
				t.Errorf("pixel (%d,%d): single %d, pair %d", col, row, single.Iterations, pair.Iterations)
			}
		}
	}
}
