package mandel

import (
	"image/color"
	"math"
	"testing"
)

func TestColorBackground(t *testing.T) {
	pal := DefaultPalette
	tests := []struct {
		name string
		rec  EscapeRecord
		max  int
	}{
		{"inside", EscapeRecord{Iterations: 100, ModulusSq: 0.5}, 100},
		{"zero cap", EscapeRecord{Iterations: 0, Escaped: true, ModulusSq: 9}, 0},
	}
	for _, tt := range tests {
		if got := pal.Color(tt.rec, tt.max); got != pal.Background {
			t.Errorf("%s: Color = %v, want background", tt.name, got)
		}
		if got := pal.Banded(tt.rec, tt.max); got != pal.Background {
			t.Errorf("%s: Banded = %v, want background", tt.name, got)
		}
	}
}

func TestSmoothIterations(t *testing.T) {
	// |z| = 4: log2(log2(4)) = 1, so smooth == iterations.
	got, ok := SmoothIterations(EscapeRecord{Iterations: 7, ModulusSq: 16, Escaped: true})
	if !ok || math.Abs(got-7) > 1e-12 {
		t.Errorf("SmoothIterations(|z|=4) = %g, %t, want 7", got, ok)
	}

	// |z| = 1 makes log2|z| zero and the estimate infinite.
	if _, ok := SmoothIterations(EscapeRecord{Iterations: 3, ModulusSq: 1, Escaped: true}); ok {
		t.Errorf("SmoothIterations(|z|=1) reported finite")
	}
}

func TestColorFallsBackToBanded(t *testing.T) {
	pal := DefaultPalette
	rec := EscapeRecord{Iterations: 50, ModulusSq: 1, Escaped: true}
	if got, want := pal.Color(rec, 100), pal.Banded(rec, 100); got != want {
		t.Errorf("Color = %v, want banded %v", got, want)
	}
}

func TestBanded(t *testing.T) {
	var pal Palette
	got := pal.Banded(EscapeRecord{Iterations: 50, Escaped: true}, 100)
	if want := (color.RGBA{R: 128, G: 64, B: 64, A: 255}); got != want {
		t.Errorf("Banded(50/100) = %v, want %v", got, want)
	}
}

func TestColorGradient(t *testing.T) {
	pal := Palette{Base: [3]float64{1, 0.5, 0.5}, Brightness: 1}
	const max = 100
	prev := -1
	for it := 1; it < max; it += 7 {
		c := pal.Color(EscapeRecord{Iterations: it, ModulusSq: 16, Escaped: true}, max)
		if c.A != 255 {
			t.Fatalf("alpha %d", c.A)
		}
		if int(c.R) < prev {
			t.Errorf("red channel decreased at %d iterations: %d < %d", it, c.R, prev)
		}
		if d := int(c.R) - 2*int(c.G); d < -1 || d > 1 {
			t.Errorf("green %d is not half of red %d", c.G, c.R)
		}
		prev = int(c.R)
	}
}

func TestColorBrightnessSaturates(t *testing.T) {
	pal := Palette{Base: [3]float64{1, 0.5, 0.5}, Brightness: 1000}
	got := pal.Color(EscapeRecord{Iterations: 10, ModulusSq: 16, Escaped: true}, 100)
	if want := (color.RGBA{255, 255, 255, 255}); got != want {
		t.Errorf("Color = %v, want saturated %v", got, want)
	}
}
