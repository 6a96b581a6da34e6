package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/internal/keys"
)

// clientMessage is what the browser sends whenever its canvas size or
// keyboard state changes. Held lists the keys currently down; Pressed lists
// one-shot actions since the last message.
type clientMessage struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Held    []string `json:"held"`
	Pressed []string `json:"pressed"`
}

// status follows every binary frame.
type status struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Zoom       float64 `json:"zoom"`
	Iterations int     `json:"iterations"`
	Precision  string  `json:"precision"`
	Recording  bool    `json:"recording"`
	Queued     int     `json:"queued"`
	Exported   int     `json:"exported"`
}

type viewer struct {
	session *mandel.Session
	maxSize image.Point
	tick    time.Duration

	m       sync.Mutex
	size    image.Point
	held    []keys.Action
	pending []keys.Action

	enc png.Encoder
	buf bytes.Buffer
}

func maxSize(w, h int) image.Point {
	if w <= 0 || h <= 0 {
		return image.Pt(1<<12, 1<<12)
	}
	return image.Pt(w, h)
}

// serve runs the tick loop until ctx ends, the connection fails or the
// client quits. Queued captures are always exported before it returns.
func (v *viewer) serve(ctx context.Context, c *websocket.Conn) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	go func() {
		for {
			var msg clientMessage
			if err := wsjson.Read(ctx, c, &msg); err != nil {
				cancel(err)
				return
			}
			v.apply(msg)
		}
	}()

	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if err := v.session.Pipeline().Drain(); err != nil {
				log.Printf("drain: %v", err)
			}
			return context.Cause(ctx)

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			quit, err := v.frame(ctx, c, dt)
			if err != nil {
				return err
			}
			if quit {
				if err := v.session.Pipeline().Drain(); err != nil {
					log.Printf("drain: %v", err)
				}
				return c.Close(websocket.StatusNormalClosure, "quit")
			}
		}
	}
}

// frame runs one tick and sends the picture followed by its status.
// Nothing is sent until the client has reported a canvas size.
func (v *viewer) frame(ctx context.Context, c *websocket.Conn, dt float64) (quit bool, err error) {
	in, size := v.input()
	t, img, err := v.session.Frame(in, dt, size)
	switch {
	case t.Step.Quit:
		if err != nil {
			log.Printf("last frame: %v", err)
		}
		return true, nil
	case errors.Is(err, mandel.ErrInvalidViewport):
		return false, nil
	case img == nil:
		return false, err
	case err != nil:
		log.Printf("capture: %v", err)
	}

	v.buf.Reset()
	if err := v.enc.Encode(&v.buf, img); err != nil {
		return false, fmt.Errorf("encode frame: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, v.buf.Bytes()); err != nil {
		return false, err
	}

	p := v.session.Pipeline()
	exported, _, _ := p.Stats()
	view := t.Step.View
	return false, wsjson.Write(ctx, c, status{
		X:          view.Position.X,
		Y:          view.Position.Y,
		Zoom:       view.Zoom,
		Iterations: t.Params.MaxIterations,
		Precision:  t.Params.Precision.String(),
		Recording:  view.Recording,
		Queued:     p.Len(),
		Exported:   exported,
	})
}

// apply records a client message. Sizes are clamped to maxSize; unknown
// action names are ignored.
func (v *viewer) apply(msg clientMessage) {
	v.m.Lock()
	defer v.m.Unlock()

	v.size = image.Pt(min(max(msg.Width, 0), v.maxSize.X), min(max(msg.Height, 0), v.maxSize.Y))
	v.held = v.held[:0]
	for _, name := range msg.Held {
		if a, ok := keys.Parse(name); ok && a.Held() {
			v.held = append(v.held, a)
		}
	}
	for _, name := range msg.Pressed {
		if a, ok := keys.Parse(name); ok {
			v.pending = append(v.pending, a)
		}
	}
}

// input returns the input for one tick and consumes pending one-shots.
func (v *viewer) input() (mandel.Input, image.Point) {
	v.m.Lock()
	defer v.m.Unlock()

	in := keys.Input(v.held...)
	for _, a := range v.pending {
		keys.Apply(&in, a)
	}
	v.pending = v.pending[:0]
	return in, v.size
}
