package mandel

import "math"

// ViewState is the navigable view. 1/Zoom is the viewport half-height in
// plane units; Zoom is always positive. Position is the view centre rounded
// to float64; Navigator.Center holds it exactly.
type ViewState struct {
	Position  Point
	Zoom      float64
	Recording bool
}

// Input is one tick's worth of user intent. The pan and zoom fields are
// held keys; the remaining fields are edges, true only on the tick the key
// went down.
type Input struct {
	Left, Right, Up, Down bool
	ZoomIn, ZoomOut       bool

	ToggleRecord bool
	Capture      bool
	Quit         bool
	IterUp       bool
	IterDown     bool
	Reset        bool
}

// State of the navigation state machine.
type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// StopReason tells why a recording session ended on a tick.
type StopReason int

const (
	StopNone StopReason = iota
	// StopThreshold: zoom fell below Motion.StopZoom while recording.
	StopThreshold
	// StopCancelled: record was toggled off.
	StopCancelled
	// StopQuit: quit arrived while recording.
	StopQuit
)

func (r StopReason) String() string {
	switch r {
	case StopThreshold:
		return "threshold"
	case StopCancelled:
		return "cancelled"
	case StopQuit:
		return "quit"
	default:
		return "none"
	}
}

// Motion holds the navigation constants.
type Motion struct {
	// BaseSpeed is the pan speed in viewport half-heights per second.
	BaseSpeed float64
	// ZoomRate is the exponential zoom rate per second.
	ZoomRate float64
	// AutoZoomRate shrinks zoom by this fraction every recording tick.
	// It is per tick, not per second.
	AutoZoomRate float64
	// StopZoom ends a recording once zoom drops below it.
	StopZoom float64
	// MinZoom replaces any zoom that would become smaller.
	MinZoom float64
}

var DefaultMotion = Motion{
	BaseSpeed:    0.55,
	ZoomRate:     0.5,
	AutoZoomRate: 0.05,
	StopZoom:     0.9,
	MinZoom:      1e-12,
}

// Step reports what a tick did.
type Step struct {
	View ViewState
	// Center is the exact view centre; View.Position is its high part.
	Center PairPoint
	// Capture asks for this tick's frame to be captured.
	Capture bool
	// Drain asks for the capture queue to be exported after this tick.
	Drain bool
	// Started is set on the tick a recording began.
	Started bool
	Stopped StopReason
	Quit    bool
}

// Navigator owns the view and advances it once per tick.
//
// The centre is kept as a pair: at deep zoom a pan step is far below the
// float64 ulp of the position and would otherwise be lost.
type Navigator struct {
	motion  Motion
	view    ViewState
	center  PairPoint
	initial ViewState
}

func NewNavigator(start ViewState, m Motion) *Navigator {
	n := &Navigator{motion: m}
	start.Recording = false
	n.view = start
	n.center = PairPointOf(start.Position)
	n.setZoom(start.Zoom)
	n.initial = n.view
	return n
}

func (n *Navigator) View() ViewState {
	return n.view
}

// Center returns the exact view centre.
func (n *Navigator) Center() PairPoint {
	return n.center
}

func (n *Navigator) pan(dx, dy float64) {
	n.center = PairPoint{X: n.center.X.Add(PairOf(dx)), Y: n.center.Y.Add(PairOf(dy))}
	n.view.Position = Point{X: n.center.X.Hi, Y: n.center.Y.Hi}
}

func (n *Navigator) State() State {
	if n.view.Recording {
		return Recording
	}
	return Idle
}

// Advance applies one tick of input over dt seconds.
//
// Order within a tick: quit and record toggles, reset, panning, user zoom,
// the per-tick recording zoom, then the recording stop check. The tick on
// which recording stops at the threshold is still captured.
func (n *Navigator) Advance(in Input, dt float64) Step {
	var st Step
	started := false

	switch {
	case in.Quit:
		st.Quit = true
		if n.view.Recording {
			n.view.Recording = false
			st.Stopped = StopQuit
			st.Drain = true
		}
	case in.ToggleRecord && n.view.Recording:
		n.view.Recording = false
		st.Stopped = StopCancelled
		st.Drain = true
	case in.ToggleRecord:
		n.view.Recording = true
		started = true
		st.Started = true
	}

	if in.Reset && !n.view.Recording {
		n.center = PairPointOf(n.initial.Position)
		n.view.Position = n.initial.Position
		n.view.Zoom = n.initial.Zoom
	}

	speed := (n.motion.BaseSpeed / n.view.Zoom) * dt
	var dx, dy float64
	if in.Left {
		dx -= speed
	}
	if in.Right {
		dx += speed
	}
	if in.Up {
		dy += speed
	}
	if in.Down {
		dy -= speed
	}
	if dx != 0 || dy != 0 {
		n.pan(dx, dy)
	}

	if in.ZoomIn {
		n.setZoom(n.view.Zoom * (1 + n.motion.ZoomRate*dt))
	}
	if in.ZoomOut {
		n.setZoom(n.view.Zoom * (1 - n.motion.ZoomRate*dt))
	}

	if n.view.Recording {
		if !started {
			n.setZoom(n.view.Zoom * (1 - n.motion.AutoZoomRate))
		}
		st.Capture = true
		if n.view.Zoom < n.motion.StopZoom {
			n.view.Recording = false
			st.Stopped = StopThreshold
			st.Drain = true
		}
	}
	if in.Capture && !st.Quit {
		st.Capture = true
	}

	st.View = n.view
	st.Center = n.center
	return st
}

// setZoom keeps zoom positive; NaN and anything below MinZoom become MinZoom.
func (n *Navigator) setZoom(z float64) {
	floor := n.motion.MinZoom
	if !(floor > 0) {
		floor = math.SmallestNonzeroFloat64
	}
	if !(z >= floor) {
		z = floor
	}
	n.view.Zoom = z
}
