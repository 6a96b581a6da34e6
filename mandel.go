package mandel

import (
	"fmt"
	"sort"
)

// Point is a position in the complex plane, or a pixel position when used
// with ToPlane.
type Point struct {
	X, Y float64
}

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// View returns a view centred on the region whose vertical extent matches
// the region's height. The horizontal extent follows the screen aspect.
func (r Region) View() ViewState {
	h := r.Ymax - r.Ymin
	zoom := 1.0
	if h > 0 {
		zoom = 2 / h
	}
	return ViewState{
		Position: Point{X: (r.Xmin + r.Xmax) / 2, Y: (r.Ymin + r.Ymax) / 2},
		Zoom:     zoom,
	}
}

// Home is the starting view: the origin at zoom 1.
var Home = ViewState{Zoom: 1}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: 0.25,
		Xmax: 0.35,
		Ymin: -0.05,
		Ymax: 0.05,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var landmarks = map[string]Region{
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"minibrot":      MinibrotInMiniSpiral,
}

// Landmark returns the starting view for a named landmark. "home" and the
// empty name select Home.
func Landmark(name string) (ViewState, error) {
	if name == "" || name == "home" {
		return Home, nil
	}
	r, ok := landmarks[name]
	if !ok {
		return ViewState{}, fmt.Errorf("unknown landmark %q (known: %v)", name, LandmarkNames())
	}
	return r.View(), nil
}

// LandmarkNames lists the names accepted by Landmark, sorted.
func LandmarkNames() []string {
	names := make([]string, 0, len(landmarks)+1)
	names = append(names, "home")
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
