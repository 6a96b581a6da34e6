package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/marben/irpc"
	"github.com/marben/mandel_explorer/remote"
	"github.com/marben/mandel_explorer/render"
)

// serveWorkers accepts render workers on l until ctx ends. Each worker
// renders tiles for pool while its connection lasts.
func (ws *webServer) serveWorkers(ctx context.Context, l net.Listener, pool *render.Pool) error {
	c := ws.setup.Config
	irpcServer := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		name := fmt.Sprint(ep.RemoteAddr())
		client, err := remote.NewClient(ep)
		if err != nil {
			log.Printf("worker %s: %v", name, err)
			ep.Close()
			return
		}

		tiles := &remote.Tiles{Remote: client, Palette: c.Palette(), Banded: c.Color.Banded}
		log.Printf("worker %s: connected", name)
		pool.Add(name, tiles)
		<-ep.Context().Done()
		pool.Remove(tiles)
		log.Printf("worker %s: %v", name, context.Cause(ep.Context()))
	}))

	errc := make(chan error, 1)
	go func() {
		log.Printf("accepting workers on %s", l.Addr())
		errc <- irpcServer.Serve(l)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	irpcServer.Close()
	if err := <-errc; !errors.Is(err, irpc.ErrServerClosed) {
		return err
	}
	return nil
}
