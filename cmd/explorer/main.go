// explorer is the windowed Mandelbrot explorer.
// The GPU path evaluates pixels in a Kage shader; --cpu uses the tile renderer.
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/spf13/cobra"
)

func mainCmd() *cobra.Command {
	var flags cli.Flags
	var cpu bool

	cmd := &cobra.Command{
		Use:   "explorer [iterations]",
		Short: "Explore the Mandelbrot set in a window",
		Long: `Keys: A/D/W/S or arrows pan, E zooms in, Q zooms out, Space captures a frame,
R toggles recording, = and - change the iteration floor, Backspace resets, Esc quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true

			setup, err := flags.Load(args)
			if err != nil {
				return err
			}
			if cpu {
				setup.Config.Window.GPU = false
			}
			return run(setup)
		},
	}
	flags.Register(cmd)
	cmd.Flags().BoolVar(&cpu, "cpu", false, "render on the CPU instead of the GPU")
	return cmd
}

func run(setup cli.Setup) error {
	w := setup.Config.Window
	g, err := newGame(setup)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.TPS)

	log.Printf("starting explorer %dx%d, gpu=%t, iterations=%d", w.Width, w.Height, w.GPU, setup.Iterations)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.close()
}

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, mainCmd())
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
