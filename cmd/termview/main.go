// termview explores the Mandelbrot set in a terminal. Each character cell
// shows two pixels with a half block glyph.

package main

import (
	"context"
	"log"
	"os"

	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/spf13/cobra"
)

func mainCmd() *cobra.Command {
	var flags cli.Flags
	var logFile string

	cmd := &cobra.Command{
		Use:   "termview [iterations]",
		Short: "Explore the Mandelbrot set in the terminal",
		Long: `Keys: a/d/w/s or arrows pan, e zooms in, q zooms out, space captures a frame,
r toggles recording, = and - change the iteration floor, backspace resets, esc or ctrl-c quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true

			// The screen owns stderr while running.
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				log.SetOutput(f)
				os.Stderr = f
			}

			setup, err := flags.Load(args)
			if err != nil {
				return err
			}
			v, err := newViewer(setup)
			if err != nil {
				return err
			}
			return v.run(cmd.Context())
		},
	}
	flags.Register(cmd)
	cmd.Flags().StringVar(&logFile, "log", "termview.log", "log file; empty logs to stderr")
	return cmd
}

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, mainCmd())
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
