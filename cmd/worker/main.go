// worker renders tiles for an explorer server started with --worker-addr.
// It dials the server and renders whatever tiles the server hands it on
// the local CPUs, reconnecting when the connection drops.

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/marben/irpc"
	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/remote"
	"github.com/spf13/cobra"
)

func mainCmd() *cobra.Command {
	var verbose bool
	var retry time.Duration

	cmd := &cobra.Command{
		Use:   "worker [server address]",
		Short: "Render tiles for a remote explorer server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true

			cli.InstallLogger(verbose)
			addr := "localhost:8081"
			if len(args) == 1 {
				addr = args[0]
			}
			return run(cmd.Context(), addr, retry)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every tile")
	cmd.Flags().DurationVar(&retry, "retry", 2*time.Second, "delay before reconnecting; 0 exits on disconnect")
	return cmd
}

func run(ctx context.Context, addr string, retry time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		err := serve(ctx, addr)
		if ctx.Err() != nil {
			return nil
		}
		if retry <= 0 {
			return err
		}
		log.Printf("%v; reconnecting in %s", err, retry)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}

// serve renders tiles for the server at addr until the connection ends or
// ctx is done.
func serve(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	ep := irpc.NewEndpoint(conn,
		irpc.WithEndpointServices(remote.NewTileService(tracedWorker{})),
		irpc.WithParallelWorkers(runtime.NumCPU()),
		irpc.WithLocalAddress(conn.LocalAddr()),
		irpc.WithRemoteAddress(conn.RemoteAddr()),
	)
	log.Printf("rendering tiles for %s", addr)

	select {
	case <-ctx.Done():
		ep.Close()
		return ctx.Err()
	case <-ep.Context().Done():
		return fmt.Errorf("server %s: %w", addr, context.Cause(ep.Context()))
	}
}

// tracedWorker logs each tile before rendering it.
type tracedWorker struct {
	remote.Worker
}

func (w tracedWorker) RenderTile(ctx context.Context, req remote.TileRequest) ([]byte, error) {
	mandel.Logger().Debug("rendering tile", "tile", req.Tile, "zoom", req.Params.Zoom, "mode", req.Params.Precision)
	return w.Worker.RenderTile(ctx, req)
}

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, mainCmd())
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
