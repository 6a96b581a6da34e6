package mandel

import (
	"errors"
	"fmt"
	"image"
)

// DefaultIterations is the manual iteration floor when none is given.
const DefaultIterations = 1000

// SessionOptions configures a Session. Zero fields take the package
// defaults, except Renderer and Pipeline.
type SessionOptions struct {
	Start     ViewState
	Motion    Motion
	Budget    Budget
	Precision PrecisionPolicy
	// Iterations is the manual floor under the adaptive budget.
	Iterations int
	// Reveal holds back iterations during the first second (see RevealCap).
	Reveal bool

	// Renderer is used by Render and Frame. GPU frontends may leave it nil
	// and hand their own pixels to Commit.
	Renderer Renderer
	Pipeline *Pipeline
}

// Tick is the outcome of Session.Advance: the navigation step and the
// parameters to render it with.
type Tick struct {
	Step   Step
	Params Params
}

// Session runs the per-tick loop: navigate, pick a budget and precision,
// render, capture and export. It is not safe for concurrent use; one
// goroutine owns it.
type Session struct {
	nav       *Navigator
	budget    Budget
	precision PrecisionPolicy
	floor     int
	reveal    bool
	renderer  Renderer
	pipeline  *Pipeline

	elapsed  float64
	lastMode PrecisionMode
	frame    *image.RGBA
}

func NewSession(opts SessionOptions) *Session {
	if opts.Motion == (Motion{}) {
		opts.Motion = DefaultMotion
	}
	if opts.Budget == (Budget{}) {
		opts.Budget = DefaultBudget
	}
	if opts.Precision == (PrecisionPolicy{}) {
		opts.Precision = CPUPrecision
	}
	if opts.Start.Zoom == 0 {
		opts.Start = Home
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Pipeline == nil {
		opts.Pipeline = NewPipeline(0, OverflowStream, nil)
	}
	return &Session{
		nav:       NewNavigator(opts.Start, opts.Motion),
		budget:    opts.Budget,
		precision: opts.Precision,
		floor:     opts.Budget.clamp(opts.Iterations),
		reveal:    opts.Reveal,
		renderer:  opts.Renderer,
		pipeline:  opts.Pipeline,
	}
}

func (s *Session) View() ViewState     { return s.nav.View() }
func (s *Session) State() State        { return s.nav.State() }
func (s *Session) Pipeline() *Pipeline { return s.pipeline }

// IterationFloor is the manual iteration cap the adaptive budget cannot go
// below.
func (s *Session) IterationFloor() int { return s.floor }

// Iterations returns the cap used for a zoom level.
func (s *Session) Iterations(zoom float64) int {
	return max(s.floor, s.budget.IterationsFor(zoom))
}

// Advance moves the session forward by dt seconds for a screen of the given
// size. An empty screen returns ErrInvalidViewport; navigation is paused for
// that tick but a quit request is still reported.
func (s *Session) Advance(in Input, dt float64, screen image.Point) (Tick, error) {
	if screen.X <= 0 || screen.Y <= 0 {
		return Tick{Step: Step{View: s.nav.View(), Quit: in.Quit}}, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, screen.X, screen.Y)
	}

	switch {
	case in.IterUp:
		s.floor = s.budget.clamp(s.floor * 2)
		Logger().Info("iteration floor raised", "floor", s.floor)
	case in.IterDown:
		s.floor = s.budget.clamp(s.floor / 2)
		Logger().Info("iteration floor lowered", "floor", s.floor)
	}

	step := s.nav.Advance(in, dt)
	s.elapsed += dt

	iterations := s.Iterations(step.View.Zoom)
	if s.reveal {
		iterations = RevealCap(iterations, s.elapsed)
	}
	mode := s.precision.Mode(step.View, screen)
	if mode != s.lastMode {
		Logger().Info("precision mode switched", "mode", mode, "zoom", step.View.Zoom)
		s.lastMode = mode
	}

	if step.Started {
		Logger().Info("recording started", "zoom", step.View.Zoom, "next_index", s.pipeline.Next())
	}
	if step.Stopped != StopNone {
		Logger().Info("recording stopped", "reason", step.Stopped, "queued", s.pipeline.Len())
	}

	return Tick{
		Step: step,
		Params: Params{
			Screen:        screen,
			Position:      step.View.Position,
			PositionLo:    Point{X: step.Center.X.Lo, Y: step.Center.Y.Lo},
			Zoom:          step.View.Zoom,
			MaxIterations: iterations,
			Time:          s.elapsed,
			Precision:     mode,
		},
	}, nil
}

// Render draws t with the session's renderer into a buffer reused across
// ticks. The returned image is only valid until the next Render.
func (s *Session) Render(t Tick) (*image.RGBA, error) {
	if s.renderer == nil {
		return nil, errors.New("session has no renderer")
	}
	rect := image.Rect(0, 0, t.Params.Screen.X, t.Params.Screen.Y)
	if s.frame == nil || s.frame.Rect != rect {
		s.frame = image.NewRGBA(rect)
	}
	if err := s.renderer.Render(s.frame, t.Params); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return s.frame, nil
}

// Commit captures frame if the tick asked for it and drains the queue when
// a recording ended or a single frame was captured outside a recording.
// frame may be nil when the tick captures nothing.
func (s *Session) Commit(t Tick, frame *image.RGBA) error {
	var errs []error
	captured := false
	if t.Step.Capture && frame != nil {
		if err := s.pipeline.Capture(frame, t.Step.View, t.Params.MaxIterations, t.Params.Precision); err != nil {
			errs = append(errs, err)
		}
		captured = true
	}
	if t.Step.Drain || (captured && !t.Step.View.Recording) {
		if err := s.pipeline.Drain(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Frame runs Advance, Render and Commit for one tick. Export errors are
// returned together with the tick and the rendered frame; they are not
// fatal to the session.
func (s *Session) Frame(in Input, dt float64, screen image.Point) (Tick, *image.RGBA, error) {
	t, err := s.Advance(in, dt, screen)
	if err != nil {
		return t, nil, err
	}
	img, err := s.Render(t)
	if err != nil {
		return t, nil, err
	}
	return t, img, s.Commit(t, img)
}
