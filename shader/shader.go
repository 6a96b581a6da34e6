// Package shader evaluates frames on the GPU with Kage programs, one per
// precision mode.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	mandel "github.com/marben/mandel_explorer"
)

var (
	//go:embed single.kage
	singleSrc []byte

	//go:embed pair.kage
	pairSrc []byte
)

// Program holds the compiled shaders for both precision modes.
type Program struct {
	single *ebiten.Shader
	pair   *ebiten.Shader
}

// New compiles both shaders. It must be called after the game loop has
// started or from within it.
func New() (*Program, error) {
	single, err := ebiten.NewShader(singleSrc)
	if err != nil {
		return nil, fmt.Errorf("compile single shader: %w", err)
	}
	pair, err := ebiten.NewShader(pairSrc)
	if err != nil {
		single.Deallocate()
		return nil, fmt.Errorf("compile pair shader: %w", err)
	}
	return &Program{single: single, pair: pair}, nil
}

// Draw renders p over the whole of dst with the shader matching
// p.Precision.
func (pr *Program) Draw(dst *ebiten.Image, p mandel.Params, pal mandel.Palette) {
	s := pr.single
	if p.Precision == mandel.ExtendedPair {
		s = pr.pair
	}
	op := &ebiten.DrawRectShaderOptions{}
	op.Uniforms = p.Uniforms(pal)
	dst.DrawRectShader(p.Screen.X, p.Screen.Y, s, op)
}

// Deallocate releases the GPU programs.
func (pr *Program) Deallocate() {
	pr.single.Deallocate()
	pr.pair.Deallocate()
}
