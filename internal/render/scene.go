package render

import (
	"image"

	"colorbook/internal/geom"
	"colorbook/internal/state"
	"colorbook/internal/viewport"
)

// Scene is an immutable snapshot of everything on the drawing stage.
type Scene struct {
	Width, Height int

	// Background is the line art, drawn into BackgroundRect (canvas space).
	Background     image.Image
	BackgroundRect geom.Rect

	// Strokes in commit order; later strokes paint over earlier ones.
	Strokes []state.Stroke

	View viewport.State

	// Rev identifies the state the scene was taken from.
	Rev uint64
}

// Canvas returns the canvas rect of the scene.
func (s Scene) Canvas() geom.Rect {
	return geom.NewRect(float64(s.Width), float64(s.Height))
}
