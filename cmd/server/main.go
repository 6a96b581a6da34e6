// server streams the Mandelbrot explorer to browsers over websockets.
// Every connection gets its own view; frames are rendered on the server's
// CPUs, shared with any connected render workers, and sent as PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/render"
	"github.com/spf13/cobra"
)

func mainCmd() *cobra.Command {
	var flags cli.Flags
	var addr, workerAddr string
	var origins []string

	cmd := &cobra.Command{
		Use:   "server [iterations]",
		Short: "Serve the explorer to web browsers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true

			setup, err := flags.Load(args)
			if err != nil {
				return err
			}
			if addr != "" {
				setup.Config.Server.Addr = addr
			}
			if workerAddr != "" {
				setup.Config.Server.WorkerAddr = workerAddr
			}
			return run(cmd.Context(), &webServer{setup: setup, origins: origins})
		},
	}
	flags.Register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&workerAddr, "worker-addr", "", "accept remote render workers on this address (overrides config)")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "extra websocket origin patterns to accept")
	return cmd
}

func run(ctx context.Context, ws *webServer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)
	if addr := ws.setup.Config.Server.WorkerAddr; addr != "" {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("worker listener: %w", err)
		}
		c := ws.setup.Config
		ws.pool = render.NewPool(render.CPU{Palette: c.Palette(), Banded: c.Color.Banded})
		go func() {
			errc <- ws.serveWorkers(ctx, l, ws.pool)
		}()
	}

	srv := ws.httpServer(ws.setup.Config.Server.Addr)
	go func() {
		log.Printf("listening on http://%s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, mainCmd())
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
