package render

import (
	"bytes"
	"errors"
	"image"
	"testing"

	mandel "github.com/marben/mandel_explorer"
)

func testParams(w, h int) mandel.Params {
	return mandel.Params{
		Screen:        image.Pt(w, h),
		Position:      mandel.Point{X: -0.5},
		Zoom:          0.8,
		MaxIterations: 200,
	}
}

func TestCPURender(t *testing.T) {
	p := testParams(32, 32)
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	r := CPU{Palette: mandel.Palette{Base: [3]float64{1, 0.5, 0.5}, Brightness: 1000, Background: mandel.DefaultPalette.Background}}
	if err := r.Render(dst, p); err != nil {
		t.Fatal(err)
	}

	// The corner lies far outside the set, the centre (-0.5, 0) inside it.
	if c := dst.RGBAAt(0, 0); c == mandel.DefaultPalette.Background {
		t.Errorf("corner pixel is background")
	}
	if c := dst.RGBAAt(16, 16); c != mandel.DefaultPalette.Background {
		t.Errorf("centre pixel %v, want background", c)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		if dst.Pix[i] != 255 {
			t.Fatalf("pixel %d not opaque", i/4)
		}
	}
}

func TestCPURenderDeterministic(t *testing.T) {
	p := testParams(50, 37)
	var ref []byte
	for _, r := range []CPU{
		{Palette: mandel.DefaultPalette, Workers: 1, TileSize: 64},
		{Palette: mandel.DefaultPalette, Workers: 4, TileSize: 7},
		{Palette: mandel.DefaultPalette, Workers: 16, TileSize: 1},
		{Palette: mandel.DefaultPalette},
	} {
		dst := image.NewRGBA(image.Rect(0, 0, 50, 37))
		if err := r.Render(dst, p); err != nil {
			t.Fatal(err)
		}
		if ref == nil {
			ref = dst.Pix
			continue
		}
		if !bytes.Equal(ref, dst.Pix) {
			t.Errorf("workers %d tile %d: output differs", r.Workers, r.TileSize)
		}
	}
}

func TestCPURenderModesAgreeShallow(t *testing.T) {
	p := testParams(20, 20)
	single := image.NewRGBA(image.Rect(0, 0, 20, 20))
	pair := image.NewRGBA(image.Rect(0, 0, 20, 20))
	r := CPU{Palette: mandel.DefaultPalette, Banded: true}
	if err := r.Render(single, p); err != nil {
		t.Fatal(err)
	}
	p.Precision = mandel.ExtendedPair
	if err := r.Render(pair, p); err != nil {
		t.Fatal(err)
	}
	// Orbits right at the boundary may still land one band apart.
	diff := 0
	for i := 0; i < len(single.Pix); i += 4 {
		if !bytes.Equal(single.Pix[i:i+4], pair.Pix[i:i+4]) {
			diff++
		}
	}
	if diff > 8 {
		t.Errorf("%d of 400 pixels differ between single and pair at zoom %g", diff, p.Zoom)
	}
}

func TestCPURenderRejects(t *testing.T) {
	r := CPU{Palette: mandel.DefaultPalette}
	err := r.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), testParams(0, 4))
	if !errors.Is(err, mandel.ErrInvalidViewport) {
		t.Errorf("empty screen: %v", err)
	}
	if err := r.Render(image.NewRGBA(image.Rect(0, 0, 4, 4)), testParams(5, 4)); err == nil {
		t.Errorf("mismatched destination accepted")
	}
	if err := r.Render(image.NewRGBA(image.Rect(1, 1, 5, 5)), testParams(4, 4)); err == nil {
		t.Errorf("offset destination accepted")
	}
}
