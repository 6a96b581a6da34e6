package export

import (
	"fmt"
	"image"
	"image/color"

	mandel "github.com/marben/mandel_explorer"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label describes a frame's view in one line.
func Label(f mandel.CapturedFrame) string {
	return fmt.Sprintf("#%d x=%.17g y=%.17g zoom=%.6g iter=%d %s",
		f.Index, f.View.Position.X, f.View.Position.Y, f.View.Zoom, f.Iterations, f.Mode)
}

// Annotate returns a copy of src with text drawn on a dark band along the
// bottom edge.
func Annotate(src image.Image, text string) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)

	face := basicfont.Face7x13
	bandH := face.Metrics().Height.Ceil() + 4
	band := image.Rect(b.Min.X, b.Max.Y-bandH, b.Max.X, b.Max.Y).Intersect(b)
	draw.Draw(dst, band, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(b.Min.X+4, b.Max.Y-4-face.Metrics().Descent.Ceil()),
	}
	d.DrawString(text)
	return dst
}

// Scale resizes src to size with Catmull-Rom filtering.
func Scale(src *image.RGBA, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
