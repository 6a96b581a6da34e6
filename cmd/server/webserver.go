package main

import (
	"embed"
	"fmt"
	"image/png"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/cli"
	"github.com/marben/mandel_explorer/render"
)

//go:embed static
var staticFiles embed.FS

// webServer serves the browser client and runs one explorer session per
// websocket connection.
type webServer struct {
	setup   cli.Setup
	origins []string
	// sessions numbers connections; each one captures into its own folder.
	sessions atomic.Int64
	// pool is set when remote workers may connect. All sessions share it.
	pool *render.Pool
}

func (ws *webServer) handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.websocketHandler)
	mux.Handle("/", http.FileServerFS(static))
	return mux
}

func (ws *webServer) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           ws.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// websocketHandler upgrades the request and serves the session until the
// browser goes away or asks to quit.
func (ws *webServer) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: ws.origins,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	id := ws.sessions.Add(1)
	v, err := ws.newViewer(id)
	if err != nil {
		log.Printf("session %d: %v", id, err)
		c.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	log.Printf("session %d: connected from %s", id, r.RemoteAddr)
	err = v.serve(r.Context(), c)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Printf("session %d: closed", id)
	default:
		if err != nil {
			log.Printf("session %d: %v", id, err)
		}
	}
}

func (ws *webServer) newViewer(id int64) (*viewer, error) {
	c := ws.setup.Config
	opts, err := ws.setup.SessionOptions(false)
	if err != nil {
		return nil, err
	}
	if ws.pool != nil {
		opts.Renderer = ws.pool
	} else {
		opts.Renderer = render.CPU{Palette: c.Palette(), Banded: c.Color.Banded}
	}

	exp := c.Exporter()
	exp.Dir = filepath.Join(exp.Dir, fmt.Sprintf("session-%d", id))
	opts.Pipeline = c.Pipeline(exp)

	return &viewer{
		session: mandel.NewSession(opts),
		maxSize: maxSize(c.Server.MaxWidth, c.Server.MaxHeight),
		tick:    time.Second / time.Duration(c.Server.FPS),
		enc:     png.Encoder{CompressionLevel: png.BestSpeed},
	}, nil
}
