package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	mandel "github.com/marben/mandel_explorer"
)

func anyPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// readInput polls the keyboard for one tick.
func readInput() mandel.Input {
	return mandel.Input{
		Left:    anyPressed(ebiten.KeyA, ebiten.KeyArrowLeft),
		Right:   anyPressed(ebiten.KeyD, ebiten.KeyArrowRight),
		Up:      anyPressed(ebiten.KeyW, ebiten.KeyArrowUp),
		Down:    anyPressed(ebiten.KeyS, ebiten.KeyArrowDown),
		ZoomIn:  anyPressed(ebiten.KeyE),
		ZoomOut: anyPressed(ebiten.KeyQ),

		ToggleRecord: inpututil.IsKeyJustPressed(ebiten.KeyR),
		Capture:      inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Quit:         inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		IterUp:       inpututil.IsKeyJustPressed(ebiten.KeyEqual),
		IterDown:     inpututil.IsKeyJustPressed(ebiten.KeyMinus),
		Reset:        inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
	}
}
