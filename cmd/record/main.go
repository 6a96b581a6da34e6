// record runs one recording session without a window and exports every
// frame as a PNG. It starts at the configured view (or --x/--y/--zoom) and
// stops when the recording ends on its own.
package main

import (
	"context"
	"image"
	"log"
	"os"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/render"
	"github.com/spf13/cobra"
)

func mainCmd() *cobra.Command {
	var (
		flags    cli.Flags
		x, y     float64
		zoom     float64
		maxTicks int
		tps      int
	)

	cmd := &cobra.Command{
		Use:   "record [iterations]",
		Short: "Record a zoom sequence to PNG files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true

			setup, err := flags.Load(args)
			if err != nil {
				return err
			}
			c := setup.Config
			opts, err := setup.SessionOptions(false)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("x") {
				opts.Start.Position.X = x
			}
			if f.Changed("y") {
				opts.Start.Position.Y = y
			}
			if f.Changed("zoom") {
				opts.Start.Zoom = zoom
			}
			opts.Renderer = render.CPU{Palette: c.Palette(), Banded: c.Color.Banded}
			opts.Pipeline = c.Pipeline(c.Exporter())

			r := recorder{
				session:  mandel.NewSession(opts),
				size:     image.Pt(c.Window.Width, c.Window.Height),
				dt:       1 / float64(max(tps, 1)),
				maxTicks: maxTicks,
			}
			log.Printf("recording from x=%g y=%g zoom=%g at %dx%d into %s",
				opts.Start.Position.X, opts.Start.Position.Y, opts.Start.Zoom, r.size.X, r.size.Y, c.Capture.Dir)
			res, err := r.run(cmd.Context())
			log.Printf("%d ticks, %d frames exported, %d failed, stopped: %s", res.ticks, res.exported, res.failed, res.reason)
			return err
		},
	}
	flags.Register(cmd)
	cmd.Flags().Float64Var(&x, "x", 0, "start x (overrides config)")
	cmd.Flags().Float64Var(&y, "y", 0, "start y (overrides config)")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "start zoom (overrides config)")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 10000, "give up after this many ticks")
	cmd.Flags().IntVar(&tps, "tps", 60, "simulated ticks per second")
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
