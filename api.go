package mandel

import (
	"image"
)

// Renderer fills dst with the view described by p.
// dst bounds must match p.Screen.
type Renderer interface {
	Render(dst *image.RGBA, p Params) error
}

// Exporter writes one captured frame. index is the frame's position in the
// capture sequence.
type Exporter interface {
	Export(frame CapturedFrame, index int) error
}

// ExportFunc adapts a plain function to Exporter.
type ExportFunc func(frame CapturedFrame, index int) error

func (f ExportFunc) Export(frame CapturedFrame, index int) error {
	return f(frame, index)
}
