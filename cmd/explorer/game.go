package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/render"
	"github.com/marben/mandel_explorer/shader"
)

// game adapts a mandel.Session to ebiten's Update/Draw loop. All frame work
// happens in Update into an offscreen image; Draw only presents it.
type game struct {
	session *mandel.Session
	palette mandel.Palette
	gpu     bool
	program *shader.Program

	screen    image.Point
	offscreen *ebiten.Image
	pixels    []byte
	last      time.Time

	tick    mandel.Tick
	hasTick bool
}

func newGame(setup cli.Setup) (*game, error) {
	c := setup.Config
	opts, err := setup.SessionOptions(c.Window.GPU)
	if err != nil {
		return nil, err
	}
	palette := c.Palette()
	if !c.Window.GPU {
		opts.Renderer = render.CPU{Palette: palette, Banded: c.Color.Banded}
	}
	opts.Pipeline = c.Pipeline(c.Exporter())

	return &game{
		session: mandel.NewSession(opts),
		palette: palette,
		gpu:     c.Window.GPU,
		screen:  image.Pt(c.Window.Width, c.Window.Height),
	}, nil
}

func (g *game) Update() error {
	now := time.Now()
	dt := 0.0
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	t, err := g.session.Advance(readInput(), dt, g.screen)
	if errors.Is(err, mandel.ErrInvalidViewport) {
		// Minimised or zero-sized window: skip the frame.
		if t.Step.Quit {
			return ebiten.Termination
		}
		return nil
	}
	if err != nil {
		return err
	}

	frame, err := g.renderFrame(t)
	if err != nil {
		return err
	}
	if err := g.session.Commit(t, frame); err != nil {
		// Export failures are reported, never fatal.
		log.Printf("capture: %v", err)
	}

	g.tick, g.hasTick = t, true
	if t.Step.Quit {
		return ebiten.Termination
	}
	return nil
}

// renderFrame draws t into the offscreen image. It returns the pixels as an
// RGBA image when the tick captures, nil otherwise.
func (g *game) renderFrame(t mandel.Tick) (*image.RGBA, error) {
	size := t.Params.Screen
	if g.offscreen == nil || g.offscreen.Bounds().Size() != size {
		if g.offscreen != nil {
			g.offscreen.Deallocate()
		}
		g.offscreen = ebiten.NewImage(size.X, size.Y)
		g.pixels = make([]byte, 4*size.X*size.Y)
	}

	if !g.gpu {
		img, err := g.session.Render(t)
		if err != nil {
			return nil, err
		}
		g.offscreen.WritePixels(img.Pix)
		return img, nil
	}

	if g.program == nil {
		p, err := shader.New()
		if err != nil {
			return nil, err
		}
		g.program = p
	}
	g.program.Draw(g.offscreen, t.Params, g.palette)
	if !t.Step.Capture {
		return nil, nil
	}
	g.offscreen.ReadPixels(g.pixels)
	return &image.RGBA{Pix: g.pixels, Stride: 4 * size.X, Rect: image.Rectangle{Max: size}}, nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.offscreen != nil {
		screen.DrawImage(g.offscreen, nil)
	}
	if g.hasTick {
		ebitenutil.DebugPrint(screen, g.hud())
	}
}

func (g *game) hud() string {
	v := g.tick.Step.View
	p := g.tick.Params
	rec := ""
	if v.Recording {
		rec = fmt.Sprintf("  REC queued=%d", g.session.Pipeline().Len())
	}
	return fmt.Sprintf("TPS %.0f  FPS %.0f\nx=%.17g\ny=%.17g\nzoom=%.6g iter=%d floor=%d %s%s",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		v.Position.X, v.Position.Y, v.Zoom, p.MaxIterations, g.session.IterationFloor(), p.Precision, rec)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screen = image.Pt(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// close drains anything still queued when the window was closed without
// a quit key.
func (g *game) close() error {
	if g.program != nil {
		g.program.Deallocate()
	}
	if err := g.session.Pipeline().Drain(); err != nil {
		return fmt.Errorf("final drain: %w", err)
	}
	return nil
}
