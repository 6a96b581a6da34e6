package mandel

import (
	"errors"
	"fmt"
	"image"
)

// CapturedFrame is an owned snapshot of one rendered tick.
type CapturedFrame struct {
	Image      *image.RGBA
	View       ViewState
	Iterations int
	Mode       PrecisionMode
	// Index is the frame's position in the capture sequence.
	Index int
}

// OverflowPolicy decides what Capture does when the queue is full.
type OverflowPolicy int

const (
	// OverflowStream exports the oldest queued frame to make room.
	OverflowStream OverflowPolicy = iota
	// OverflowDrop refuses the new frame.
	OverflowDrop
)

func (o OverflowPolicy) String() string {
	if o == OverflowDrop {
		return "drop"
	}
	return "stream"
}

// Pipeline queues captured frames and exports them in capture order.
//
// Indices start at 0 with the first frame captured by the pipeline and grow
// by one per accepted frame, across recording sessions, so a later session
// never overwrites an earlier one. A failed export leaves a gap; it does not
// shift later indices.
type Pipeline struct {
	capacity int
	overflow OverflowPolicy
	exporter Exporter

	queue    []CapturedFrame
	next     int
	exported int
	failed   int
	dropped  int
}

// NewPipeline returns a pipeline holding at most capacity frames.
// A non-positive capacity means unbounded.
func NewPipeline(capacity int, overflow OverflowPolicy, exporter Exporter) *Pipeline {
	return &Pipeline{
		capacity: capacity,
		overflow: overflow,
		exporter: exporter,
	}
}

// Capture copies img into the queue. With OverflowDrop and a full queue the
// frame is counted as dropped and ErrQueueFull is returned. With
// OverflowStream the oldest frame is exported first; an export failure is
// returned but the new frame is still queued.
func (p *Pipeline) Capture(img *image.RGBA, view ViewState, iterations int, mode PrecisionMode) error {
	if img == nil {
		return errors.New("capture: nil frame")
	}

	var err error
	if p.capacity > 0 && len(p.queue) >= p.capacity {
		if p.overflow == OverflowDrop {
			p.dropped++
			Logger().Warn("capture queue full, frame dropped", "capacity", p.capacity, "dropped", p.dropped)
			return ErrQueueFull
		}
		err = p.exportOldest()
	}

	p.queue = append(p.queue, CapturedFrame{
		Image:      cloneRGBA(img),
		View:       view,
		Iterations: iterations,
		Mode:       mode,
		Index:      p.next,
	})
	p.next++
	return err
}

// Drain exports every queued frame in capture order and empties the queue.
// Failures are logged and joined; they do not stop the drain.
func (p *Pipeline) Drain() error {
	var errs []error
	for len(p.queue) > 0 {
		if err := p.exportOldest(); err != nil {
			errs = append(errs, err)
		}
	}
	p.queue = nil
	return errors.Join(errs...)
}

func (p *Pipeline) exportOldest() error {
	f := p.queue[0]
	p.queue[0] = CapturedFrame{}
	p.queue = p.queue[1:]

	if p.exporter == nil {
		p.failed++
		return fmt.Errorf("frame %d: %w", f.Index, ErrNoExporter)
	}
	if err := p.exporter.Export(f, f.Index); err != nil {
		p.failed++
		Logger().Error("frame export failed", "index", f.Index, "err", err)
		return fmt.Errorf("frame %d: %w", f.Index, err)
	}
	p.exported++
	Logger().Debug("frame exported", "index", f.Index, "zoom", f.View.Zoom)
	return nil
}

// Len is the number of queued frames.
func (p *Pipeline) Len() int { return len(p.queue) }

// Next is the index the next captured frame will get.
func (p *Pipeline) Next() int { return p.next }

// Stats returns how many frames were exported, failed and dropped so far.
func (p *Pipeline) Stats() (exported, failed, dropped int) {
	return p.exported, p.failed, p.dropped
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}
