// Package config loads explorer settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	mandel "github.com/marben/mandel_explorer"
	"github.com/marben/mandel_explorer/export"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Window     Window     `yaml:"window"`
	Start      Start      `yaml:"start"`
	Navigation Navigation `yaml:"navigation"`
	Iterations Iterations `yaml:"iterations"`
	Precision  Precision  `yaml:"precision"`
	Color      Color      `yaml:"color"`
	Capture    Capture    `yaml:"capture"`
	Server     Server     `yaml:"server"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// GPU renders with the Kage shaders instead of the CPU renderer.
	GPU bool `yaml:"gpu"`
	TPS int  `yaml:"tps"`
}

// Start is the initial view. A landmark name wins over the coordinates.
type Start struct {
	Landmark string  `yaml:"landmark"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Zoom     float64 `yaml:"zoom"`
}

type Navigation struct {
	BaseSpeed    float64 `yaml:"base_speed"`
	ZoomRate     float64 `yaml:"zoom_rate"`
	AutoZoomRate float64 `yaml:"auto_zoom_rate"`
	StopZoom     float64 `yaml:"stop_zoom"`
	MinZoom      float64 `yaml:"min_zoom"`
}

type Iterations struct {
	Min   int     `yaml:"min"`
	Max   int     `yaml:"max"`
	Scale float64 `yaml:"scale"`
	// Initial is the manual floor; the positional argument overrides it.
	Initial int  `yaml:"initial"`
	Reveal  bool `yaml:"reveal"`
}

type Precision struct {
	Headroom    float64 `yaml:"headroom"`
	GPUHeadroom float64 `yaml:"gpu_headroom"`
}

type Color struct {
	Palette    [3]float64 `yaml:"palette"`
	Brightness float64    `yaml:"brightness"`
	Banded     bool       `yaml:"banded"`
}

type Capture struct {
	Dir      string `yaml:"dir"`
	Pattern  string `yaml:"pattern"`
	Capacity int    `yaml:"capacity"`
	// Overflow is "stream" or "drop".
	Overflow string `yaml:"overflow"`
	Annotate bool   `yaml:"annotate"`
	// Width and Height, when set, rescale every exported frame.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Server struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
	// MaxWidth and MaxHeight cap the frame size a browser may ask for.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
	// WorkerAddr is where remote render workers connect. Empty renders
	// on the server alone.
	WorkerAddr string `yaml:"worker_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "mandelbrot-set", GPU: true, TPS: 60},
		Start:  Start{Landmark: "home", Zoom: 1},
		Navigation: Navigation{
			BaseSpeed:    mandel.DefaultMotion.BaseSpeed,
			ZoomRate:     mandel.DefaultMotion.ZoomRate,
			AutoZoomRate: mandel.DefaultMotion.AutoZoomRate,
			StopZoom:     mandel.DefaultMotion.StopZoom,
			MinZoom:      mandel.DefaultMotion.MinZoom,
		},
		Iterations: Iterations{
			Min:     mandel.DefaultBudget.Min,
			Max:     mandel.DefaultBudget.Max,
			Scale:   mandel.DefaultBudget.Scale,
			Initial: mandel.DefaultIterations,
		},
		Precision: Precision{
			Headroom:    mandel.CPUPrecision.Headroom,
			GPUHeadroom: mandel.GPUPrecision.Headroom,
		},
		Color: Color{
			Palette:    mandel.DefaultPalette.Base,
			Brightness: mandel.DefaultPalette.Brightness,
		},
		Capture: Capture{
			Dir:      export.DefaultDir,
			Pattern:  export.DefaultPattern,
			Capacity: 120,
			Overflow: "stream",
		},
		Server: Server{Addr: ":8080", FPS: 15, MaxWidth: 960, MaxHeight: 540},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r on top of the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Start.Zoom > 0, "start.zoom %g must be positive", c.Start.Zoom)
	if c.Start.Landmark != "" {
		_, err := mandel.Landmark(c.Start.Landmark)
		check(err == nil, "start.landmark: %v", err)
	}
	check(c.Navigation.MinZoom > 0, "navigation.min_zoom %g must be positive", c.Navigation.MinZoom)
	check(c.Navigation.AutoZoomRate >= 0 && c.Navigation.AutoZoomRate < 1, "navigation.auto_zoom_rate %g not in [0, 1)", c.Navigation.AutoZoomRate)
	check(c.Iterations.Min > 0 && c.Iterations.Min <= c.Iterations.Max, "iterations min %d max %d", c.Iterations.Min, c.Iterations.Max)
	check(c.Iterations.Scale >= 0, "iterations.scale %g must not be negative", c.Iterations.Scale)
	check(c.Precision.Headroom > 0 && c.Precision.GPUHeadroom > 0, "precision headroom must be positive")
	check(c.Color.Brightness > 0, "color.brightness %g must be positive", c.Color.Brightness)
	_, err := c.Capture.overflow()
	check(err == nil, "%v", err)
	check(c.Server.FPS > 0, "server.fps %d must be positive", c.Server.FPS)
	return errors.Join(errs...)
}

// StartView resolves the initial view.
func (c Config) StartView() (mandel.ViewState, error) {
	if c.Start.Landmark != "" && c.Start.Landmark != "home" {
		return mandel.Landmark(c.Start.Landmark)
	}
	return mandel.ViewState{Position: mandel.Point{X: c.Start.X, Y: c.Start.Y}, Zoom: c.Start.Zoom}, nil
}

func (c Config) Motion() mandel.Motion {
	n := c.Navigation
	return mandel.Motion{
		BaseSpeed:    n.BaseSpeed,
		ZoomRate:     n.ZoomRate,
		AutoZoomRate: n.AutoZoomRate,
		StopZoom:     n.StopZoom,
		MinZoom:      n.MinZoom,
	}
}

func (c Config) Budget() mandel.Budget {
	return mandel.Budget{Min: c.Iterations.Min, Max: c.Iterations.Max, Scale: c.Iterations.Scale}
}

func (c Config) Palette() mandel.Palette {
	p := mandel.DefaultPalette
	p.Base = c.Color.Palette
	p.Brightness = c.Color.Brightness
	return p
}

// PrecisionPolicy returns the policy for the CPU or the GPU path.
func (c Config) PrecisionPolicy(gpu bool) mandel.PrecisionPolicy {
	if gpu {
		p := mandel.GPUPrecision
		p.Headroom = c.Precision.GPUHeadroom
		return p
	}
	p := mandel.CPUPrecision
	p.Headroom = c.Precision.Headroom
	return p
}

// Exporter returns the PNG exporter for captured frames.
func (c Config) Exporter() export.PNG {
	return export.PNG{
		Dir:      c.Capture.Dir,
		Pattern:  c.Capture.Pattern,
		Size:     image.Pt(c.Capture.Width, c.Capture.Height),
		Annotate: c.Capture.Annotate,
	}
}

// Pipeline returns a capture pipeline exporting through exp.
func (c Config) Pipeline(exp mandel.Exporter) *mandel.Pipeline {
	overflow, _ := c.Capture.overflow()
	return mandel.NewPipeline(c.Capture.Capacity, overflow, exp)
}

func (c Capture) overflow() (mandel.OverflowPolicy, error) {
	switch c.Overflow {
	case "", "stream":
		return mandel.OverflowStream, nil
	case "drop":
		return mandel.OverflowDrop, nil
	default:
		return 0, fmt.Errorf("capture.overflow %q is not stream or drop", c.Overflow)
	}
}

// ParseIterations reads the optional positional iteration cap. A missing or
// unparsable argument gives def.
func ParseIterations(args []string, def int) int {
	if len(args) == 0 {
		return def
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return def
	}
	return n
}
