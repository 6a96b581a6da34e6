package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/internal/keys"
	"github.com/marben/mandel_explorer/render"
)

type viewer struct {
	screen  tcell.Screen
	session *mandel.Session
	keys    keys.Tracker
	tick    time.Duration
}

func newViewer(setup cli.Setup) (*viewer, error) {
	c := setup.Config
	opts, err := setup.SessionOptions(false)
	if err != nil {
		return nil, err
	}
	opts.Renderer = render.CPU{Palette: c.Palette(), Banded: c.Color.Banded}
	opts.Pipeline = c.Pipeline(c.Exporter())

	tps := c.Window.TPS
	if tps <= 0 || tps > 30 {
		tps = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &viewer{
		screen:  screen,
		session: mandel.NewSession(opts),
		tick:    time.Second / time.Duration(tps),
	}, nil
}

func (v *viewer) run(ctx context.Context) error {
	defer v.screen.Fini()

	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				// screen finalised
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return v.session.Pipeline().Drain()

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a, ok := keyAction(ev); ok {
					v.keys.Press(a, time.Now())
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			quit, err := v.frame(now, dt)
			if err != nil {
				return err
			}
			if quit {
				return v.session.Pipeline().Drain()
			}
		}
	}
}

// frame advances the session by one tick and paints the result. The bottom
// row is kept for the status line.
func (v *viewer) frame(now time.Time, dt float64) (quit bool, err error) {
	cols, rows := v.screen.Size()
	size := image.Pt(cols, 2*(rows-1))

	t, img, err := v.session.Frame(v.keys.Input(now), dt, size)
	switch {
	case t.Step.Quit:
		if err != nil {
			log.Printf("last frame: %v", err)
		}
		return true, nil
	case img == nil && err != nil:
		// Terminal too small to draw into; wait for a resize.
		return false, nil
	case err != nil:
		log.Printf("capture: %v", err)
	}

	paint(v.screen, img, status(v.session, t))
	v.screen.Show()
	return false, nil
}

func status(s *mandel.Session, t mandel.Tick) string {
	view := t.Step.View
	rec := ""
	if view.Recording {
		rec = fmt.Sprintf(" REC %d", s.Pipeline().Len())
	}
	return fmt.Sprintf("x=%.15g y=%.15g zoom=%.4g iter=%d %s%s",
		view.Position.X, view.Position.Y, view.Zoom, t.Params.MaxIterations, t.Params.Precision, rec)
}

// paint draws img two pixel rows per cell row and writes line on the row
// below it.
func paint(s tcell.Screen, img *image.RGBA, line string) {
	s.Clear()
	b := img.Bounds()
	for y := 0; 2*y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			top := cellColor(img, x, 2*y)
			bottom := top
			if 2*y+1 < b.Dy() {
				bottom = cellColor(img, x, 2*y+1)
			}
			s.SetContent(x, y, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}

	row := (b.Dy() + 1) / 2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range []rune(line) {
		s.SetContent(i, row, r, nil, style)
	}
}

func cellColor(img *image.RGBA, x, y int) tcell.Color {
	c := img.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func keyAction(ev *tcell.EventKey) (keys.Action, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return keys.Quit, true
	case tcell.KeyLeft:
		return keys.Left, true
	case tcell.KeyRight:
		return keys.Right, true
	case tcell.KeyUp:
		return keys.Up, true
	case tcell.KeyDown:
		return keys.Down, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keys.Reset, true
	case tcell.KeyRune:
	default:
		return 0, false
	}

	switch ev.Rune() {
	case 'a', 'A':
		return keys.Left, true
	case 'd', 'D':
		return keys.Right, true
	case 'w', 'W':
		return keys.Up, true
	case 's', 'S':
		return keys.Down, true
	case 'e', 'E':
		return keys.ZoomIn, true
	case 'q', 'Q':
		return keys.ZoomOut, true
	case 'r', 'R':
		return keys.ToggleRecord, true
	case ' ':
		return keys.Capture, true
	case '=', '+':
		return keys.IterUp, true
	case '-', '_':
		return keys.IterDown, true
	}
	return 0, false
}
