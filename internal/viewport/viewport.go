// Package viewport tracks the zoom scale and pan offset of the drawing stage.
package viewport

import (
	"golang.org/x/image/math/f64"

	"colorbook/internal/geom"
)

const (
	DefaultMinScale = 0.5
	DefaultMaxScale = 3.0

	// ZoomStep is the increment used by the zoom buttons.
	ZoomStep = 0.1
)

// Viewport is the stage transform: view = canvas*scale + offset.
// It is not safe for concurrent use.
type Viewport struct {
	minScale, maxScale float64
	scale              float64
	offset             geom.Point
	canvas             geom.Rect

	// two-finger gesture baseline, valid while pinching is true
	pinching   bool
	baseDist   float64
	lastCenter geom.Point
}

// New returns a viewport at scale 1 over canvas. Bounds that are not
// positive or are inverted fall back to the defaults.
func New(minScale, maxScale float64, canvas geom.Rect) *Viewport {
	if minScale <= 0 || maxScale < minScale {
		minScale, maxScale = DefaultMinScale, DefaultMaxScale
	}
	return &Viewport{
		minScale: minScale,
		maxScale: maxScale,
		scale:    geom.Clamp(1, minScale, maxScale),
		canvas:   canvas,
	}
}

func (v *Viewport) Scale() float64     { return v.scale }
func (v *Viewport) Offset() geom.Point { return v.offset }
func (v *Viewport) Canvas() geom.Rect  { return v.canvas }

// Bounds returns the configured [min, max] scale range.
func (v *Viewport) Bounds() (float64, float64) { return v.minScale, v.maxScale }

// PinchUpdate consumes one frame of a two-finger gesture. The first frame
// only records the baseline; each later frame multiplies the scale by the
// ratio of finger distances since the previous frame and pans by the motion
// of their midpoint.
func (v *Viewport) PinchUpdate(a, b geom.Point) {
	dist := geom.Distance(a, b)
	center := geom.Midpoint(a, b)
	if !v.pinching || v.baseDist == 0 {
		v.pinching = true
		v.baseDist = dist
		v.lastCenter = center
		return
	}

	v.scale = geom.Clamp(v.scale*(dist/v.baseDist), v.minScale, v.maxScale)
	v.offset = v.offset.Add(center.Sub(v.lastCenter))
	v.baseDist = dist
	v.lastCenter = center
}

// PinchEnd forgets the gesture baseline; the next PinchUpdate starts over.
func (v *Viewport) PinchEnd() {
	v.pinching = false
	v.baseDist = 0
}

// Pinching reports whether a two-finger gesture is in progress.
func (v *Viewport) Pinching() bool { return v.pinching }

// DragEnd sets the translation directly, as reported at the end of a
// single-pointer pan.
func (v *Viewport) DragEnd(offset geom.Point) { v.offset = offset }

// PanBy moves the translation by d.
func (v *Viewport) PanBy(d geom.Point) { v.offset = v.offset.Add(d) }

// ZoomBy multiplies the scale by factor, clamped to the bounds.
func (v *Viewport) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	v.scale = geom.Clamp(v.scale*factor, v.minScale, v.maxScale)
}

func (v *Viewport) ZoomIn() {
	v.scale = geom.Clamp(v.scale+ZoomStep, v.minScale, v.maxScale)
}

func (v *Viewport) ZoomOut() {
	v.scale = geom.Clamp(v.scale-ZoomStep, v.minScale, v.maxScale)
}

// SetScaleAt sets the scale, clamped to the bounds, keeping the canvas point
// under the view point anchor in place.
func (v *Viewport) SetScaleAt(scale float64, anchor geom.Point) {
	q := v.ToCanvas(anchor)
	v.scale = geom.Clamp(scale, v.minScale, v.maxScale)
	v.offset = anchor.Sub(q.Mul(v.scale))
}

// Reset returns to scale 1 with no offset.
func (v *Viewport) Reset() {
	v.scale = geom.Clamp(1, v.minScale, v.maxScale)
	v.offset = geom.Point{}
	v.PinchEnd()
}

// ProjectStrokePoint scales a stored canvas-space point about the canvas
// center by inverseScale. Strokes are kept in pre-zoom coordinates while the
// stage applies its own scale; drawing them through this counter-scale keeps
// them anchored to the unscaled background.
func (v *Viewport) ProjectStrokePoint(p geom.Point, inverseScale float64) geom.Point {
	return geom.ScaleAbout(p, v.canvas.Center(), inverseScale)
}

// ToView maps a canvas-space point through the stage transform.
func (v *Viewport) ToView(p geom.Point) geom.Point {
	return p.Mul(v.scale).Add(v.offset)
}

// ToCanvas is the inverse of ToView.
func (v *Viewport) ToCanvas(p geom.Point) geom.Point {
	return p.Sub(v.offset).Mul(1 / v.scale)
}

// StageTransform returns the stage transform as an affine matrix.
func (v *Viewport) StageTransform() f64.Aff3 {
	return f64.Aff3{
		v.scale, 0, v.offset.X,
		0, v.scale, v.offset.Y,
	}
}

// State is a copy of the viewport for renderers.
type State struct {
	Scale  float64
	Offset geom.Point
	Canvas geom.Rect
}

func (v *Viewport) State() State {
	return State{Scale: v.scale, Offset: v.offset, Canvas: v.canvas}
}
