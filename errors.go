package mandel

import "errors"

var (
	// ErrInvalidViewport is returned for a tick whose screen has no area.
	// The tick is skipped; it is not fatal.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrQueueFull is returned when a frame is dropped by OverflowDrop.
	ErrQueueFull = errors.New("capture queue full")
	// ErrNoExporter is returned when frames are drained without an exporter.
	ErrNoExporter = errors.New("no exporter configured")
)
