package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/marben/mandel_explorer/internal/keys"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want keys.Action
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), keys.Quit, true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), keys.Quit, true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), keys.Left, true},
		{tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), keys.Right, true},
		{tcell.NewEventKey(tcell.KeyRune, 'E', tcell.ModNone), keys.ZoomIn, true},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), keys.ZoomOut, true},
		{tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), keys.ToggleRecord, true},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), keys.Capture, true},
		{tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), keys.IterUp, true},
		{tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone), keys.IterDown, true},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), keys.Reset, true},
		{tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), 0, false},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), 0, false},
	}
	for _, tt := range tests {
		got, ok := keyAction(tt.ev)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("keyAction(%s) = %v, %t, want %v, %t", tt.ev.Name(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestPaintHalfBlocks(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(2, 2)

	// 2x2 pixels fill the top cell row; the second row is the status line.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(1, 1, color.RGBA{0, 255, 0, 255})

	paint(s, img, "ok")

	r, _, style, _ := s.GetContent(0, 0)
	if r != '▀' {
		t.Fatalf("cell (0,0) = %q, want half block", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("cell (0,0) fg %v bg %v, want red over blue", fg, bg)
	}

	if r, _, _, _ := s.GetContent(0, 1); r != 'o' {
		t.Errorf("status row starts with %q, want 'o'", r)
	}
}

func TestPaintOddHeight(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(1, 3)

	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.SetRGBA(0, 2, color.RGBA{10, 20, 30, 255})
	paint(s, img, "")

	_, _, style, _ := s.GetContent(0, 1)
	fg, bg, _ := style.Decompose()
	want := tcell.NewRGBColor(10, 20, 30)
	if fg != want || bg != want {
		t.Errorf("last half row fg %v bg %v, want both %v", fg, bg, want)
	}
}
