package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/mandel_explorer"
)

func testFrame(w, h int) mandel.CapturedFrame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetRGBA(0, 0, color.RGBA{R: 200, A: 255})
	return mandel.CapturedFrame{
		Image:      img,
		View:       mandel.ViewState{Position: mandel.Point{X: -0.75, Y: 0.1}, Zoom: 20},
		Iterations: 1301,
		Mode:       mandel.Single,
		Index:      3,
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestPath(t *testing.T) {
	tests := []struct {
		e     PNG
		index int
		want  string
	}{
		{PNG{}, 0, filepath.Join("images", "mandelbrot_0.png")},
		{PNG{}, 17, filepath.Join("images", "mandelbrot_17.png")},
		{PNG{Dir: "out", Pattern: "f%04d.png"}, 5, filepath.Join("out", "f0005.png")},
	}
	for _, tt := range tests {
		if got := tt.e.Path(tt.index); got != tt.want {
			t.Errorf("Path(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	e := PNG{Dir: dir}
	frame := testFrame(12, 8)
	if err := e.Export(frame, 3); err != nil {
		t.Fatal(err)
	}

	img := decode(t, filepath.Join(dir, "mandelbrot_3.png"))
	if img.Bounds().Size() != image.Pt(12, 8) {
		t.Errorf("size %v", img.Bounds())
	}
	r, g, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 200 || g != 0 {
		t.Errorf("pixel (0,0) = %v", img.At(0, 0))
	}
}

func TestExportScaled(t *testing.T) {
	dir := t.TempDir()
	e := PNG{Dir: dir, Size: image.Pt(6, 4)}
	if err := e.Export(testFrame(12, 8), 0); err != nil {
		t.Fatal(err)
	}
	if got := decode(t, e.Path(0)).Bounds().Size(); got != image.Pt(6, 4) {
		t.Errorf("scaled size %v, want 6x4", got)
	}
}

func TestExportAnnotated(t *testing.T) {
	dir := t.TempDir()
	e := PNG{Dir: dir, Annotate: true}
	frame := testFrame(300, 40)
	if err := e.Export(frame, 1); err != nil {
		t.Fatal(err)
	}
	img := decode(t, e.Path(1))

	// The band darkens the white bottom rows; the top row is untouched.
	r, _, _, _ := img.At(290, 39).RGBA()
	if r>>8 >= 255 {
		t.Errorf("bottom right not darkened: %v", img.At(290, 39))
	}
	if r, _, _, _ := img.At(150, 0).RGBA(); r>>8 != 255 {
		t.Errorf("top row changed: %v", img.At(150, 0))
	}
}

func TestExportErrors(t *testing.T) {
	if err := (PNG{Dir: t.TempDir()}).Export(mandel.CapturedFrame{}, 0); err == nil {
		t.Errorf("frame without image exported")
	}

	// A file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (PNG{Dir: blocker}).Export(testFrame(2, 2), 0); err == nil {
		t.Errorf("export into a file path succeeded")
	}
}

func TestLabel(t *testing.T) {
	got := Label(testFrame(1, 1))
	want := "#3 x=-0.75 y=0.10000000000000001 zoom=20 iter=1301 single"
	if got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
}

func TestAnnotateKeepsSource(t *testing.T) {
	frame := testFrame(100, 30)
	out := Annotate(frame.Image, "x")
	if out == frame.Image {
		t.Fatal("Annotate returned its input")
	}
	if c := frame.Image.RGBAAt(50, 29); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("source modified: %v", c)
	}
}
