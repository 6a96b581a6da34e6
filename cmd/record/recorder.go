package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	mandel "github.com/marben/mandel_explorer"
)

// recorder drives a session with synthetic input: toggle record on the
// first tick, then idle until the recording stops.
type recorder struct {
	session  *mandel.Session
	size     image.Point
	dt       float64
	maxTicks int
}

type result struct {
	ticks    int
	exported int
	failed   int
	reason   mandel.StopReason
}

var errTooManyTicks = errors.New("recording did not stop")

func (r recorder) run(ctx context.Context) (res result, err error) {
	var exportErrs []error
	defer func() {
		res.exported, res.failed, _ = r.session.Pipeline().Stats()
	}()

	in := mandel.Input{ToggleRecord: true}
	for res.ticks = 0; res.ticks < r.maxTicks; res.ticks++ {
		if ctx.Err() != nil {
			// Cancelled: quit stops the recording and drains what was captured.
			in = mandel.Input{Quit: true}
		}
		t, _, err := r.session.Frame(in, r.dt, r.size)
		if errors.Is(err, mandel.ErrInvalidViewport) {
			return res, err
		}
		if err != nil {
			log.Printf("tick %d: %v", res.ticks, err)
			exportErrs = append(exportErrs, err)
		}
		in = mandel.Input{}

		if t.Step.Stopped != mandel.StopNone {
			res.ticks++
			res.reason = t.Step.Stopped
			return res, errors.Join(append(exportErrs, ctx.Err())...)
		}
		if t.Step.Quit {
			res.ticks++
			return res, ctx.Err()
		}
	}

	// Out of ticks: quit so the queue is still exported.
	if _, _, err := r.session.Frame(mandel.Input{Quit: true}, r.dt, r.size); err != nil {
		exportErrs = append(exportErrs, err)
	}
	res.reason = mandel.StopQuit
	return res, errors.Join(append(exportErrs, fmt.Errorf("%w after %d ticks", errTooManyTicks, r.maxTicks))...)
}
