// Package keys maps named actions to navigation input for frontends that
// only see key presses, such as terminals and browsers.
package keys

import (
	"time"

	mandel "github.com/marben/mandel_explorer"
)

type Action int

const (
	Left Action = iota
	Right
	Up
	Down
	ZoomIn
	ZoomOut
	ToggleRecord
	Capture
	Quit
	IterUp
	IterDown
	Reset

	numActions
)

var names = [numActions]string{
	Left:         "left",
	Right:        "right",
	Up:           "up",
	Down:         "down",
	ZoomIn:       "zoom_in",
	ZoomOut:      "zoom_out",
	ToggleRecord: "record",
	Capture:      "capture",
	Quit:         "quit",
	IterUp:       "iter_up",
	IterDown:     "iter_down",
	Reset:        "reset",
}

func (a Action) String() string {
	if a < 0 || a >= numActions {
		return "unknown"
	}
	return names[a]
}

// Parse returns the action with the given name.
func Parse(name string) (Action, bool) {
	for a, n := range names {
		if n == name {
			return Action(a), true
		}
	}
	return 0, false
}

// Held reports whether a is a continuous action (pan or zoom) rather than
// a one-shot.
func (a Action) Held() bool { return a >= Left && a <= ZoomOut }

// Apply sets the field of in that a controls.
func Apply(in *mandel.Input, a Action) {
	switch a {
	case Left:
		in.Left = true
	case Right:
		in.Right = true
	case Up:
		in.Up = true
	case Down:
		in.Down = true
	case ZoomIn:
		in.ZoomIn = true
	case ZoomOut:
		in.ZoomOut = true
	case ToggleRecord:
		in.ToggleRecord = true
	case Capture:
		in.Capture = true
	case Quit:
		in.Quit = true
	case IterUp:
		in.IterUp = true
	case IterDown:
		in.IterDown = true
	case Reset:
		in.Reset = true
	}
}

// Input builds the input with every action in as set.
func Input(as ...Action) mandel.Input {
	var in mandel.Input
	for _, a := range as {
		Apply(&in, a)
	}
	return in
}

// Tracker turns a stream of key presses into per-tick input. A continuous
// action stays held for Window after its last press, which covers the gap
// between keyboard auto-repeat events. One-shot actions are reported once.
type Tracker struct {
	Window time.Duration

	last    [numActions]time.Time
	pending [numActions]bool
}

// DefaultWindow is a little longer than typical auto-repeat intervals.
const DefaultWindow = 150 * time.Millisecond

func (t *Tracker) Press(a Action, now time.Time) {
	if a < 0 || a >= numActions {
		return
	}
	if a.Held() {
		t.last[a] = now
		return
	}
	t.pending[a] = true
}

// Input returns the input for the tick at now and consumes pending
// one-shots.
func (t *Tracker) Input(now time.Time) mandel.Input {
	window := t.Window
	if window <= 0 {
		window = DefaultWindow
	}
	var in mandel.Input
	for a := Action(0); a < numActions; a++ {
		switch {
		case a.Held():
			if !t.last[a].IsZero() && now.Sub(t.last[a]) < window {
				Apply(&in, a)
			}
		case t.pending[a]:
			Apply(&in, a)
			t.pending[a] = false
		}
	}
	return in
}
