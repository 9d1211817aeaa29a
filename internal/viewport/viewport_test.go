package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/math/f64"

	"colorbook/internal/geom"
)

func newTestViewport() *Viewport {
	return New(DefaultMinScale, DefaultMaxScale, geom.NewRect(200, 100))
}

func TestPinchOutClampsAtFloor(t *testing.T) {
	v := newTestViewport()
	v.PinchUpdate(geom.Pt(0, 0), geom.Pt(100, 0))
	assert.Equal(t, 1.0, v.Scale(), "first frame only records the baseline")

	v.PinchUpdate(geom.Pt(25, 0), geom.Pt(75, 0))
	assert.Equal(t, 0.5, v.Scale())

	v.PinchUpdate(geom.Pt(40, 0), geom.Pt(60, 0))
	assert.Equal(t, 0.5, v.Scale(), "never below the floor")
}

func TestPinchHugeDeltaClampsAtCeiling(t *testing.T) {
	v := newTestViewport()
	v.PinchUpdate(geom.Pt(0, 0), geom.Pt(1, 0))
	v.PinchUpdate(geom.Pt(0, 0), geom.Pt(100, 0))
	assert.Equal(t, 3.0, v.Scale())
}

func TestPinchScaleAlwaysInBounds(t *testing.T) {
	v := newTestViewport()
	dists := []float64{10, 1000, 1, 5000, 0.01, 0, 300, 2}
	for _, d := range dists {
		v.PinchUpdate(geom.Pt(0, 0), geom.Pt(d, 0))
		assert.GreaterOrEqual(t, v.Scale(), DefaultMinScale)
		assert.LessOrEqual(t, v.Scale(), DefaultMaxScale)
	}
}

func TestPinchPansByMidpointDelta(t *testing.T) {
	v := newTestViewport()
	v.PinchUpdate(geom.Pt(0, 0), geom.Pt(100, 0))
	v.PinchUpdate(geom.Pt(10, 20), geom.Pt(110, 20))
	assert.Equal(t, 1.0, v.Scale())
	assert.Equal(t, geom.Pt(10, 20), v.Offset())

	v.PinchEnd()
	assert.False(t, v.Pinching())
	// a new gesture starts from a fresh baseline
	v.PinchUpdate(geom.Pt(500, 500), geom.Pt(700, 500))
	assert.Equal(t, geom.Pt(10, 20), v.Offset())
	assert.Equal(t, 1.0, v.Scale())
}

func TestDragAndPan(t *testing.T) {
	v := newTestViewport()
	v.PanBy(geom.Pt(5, -5))
	v.PanBy(geom.Pt(1, 1))
	assert.Equal(t, geom.Pt(6, -4), v.Offset())
	v.DragEnd(geom.Pt(40, 30))
	assert.Equal(t, geom.Pt(40, 30), v.Offset())
}

func TestZoomSteps(t *testing.T) {
	v := newTestViewport()
	for i := 0; i < 50; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, 3.0, v.Scale())
	for i := 0; i < 50; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, 0.5, v.Scale())

	v.Reset()
	v.ZoomBy(1.2)
	assert.InDelta(t, 1.2, v.Scale(), 1e-9)
	v.ZoomBy(-1)
	assert.InDelta(t, 1.2, v.Scale(), 1e-9)
}

func TestSetScaleAtKeepsAnchor(t *testing.T) {
	v := newTestViewport()
	c := v.Canvas().Center()
	v.SetScaleAt(2, c)
	assert.Equal(t, 2.0, v.Scale())
	assert.Equal(t, geom.Pt(-100, -50), v.Offset())
	assert.Equal(t, c, v.ToCanvas(c))

	v.SetScaleAt(10, c)
	assert.Equal(t, 3.0, v.Scale())
	assert.Equal(t, geom.Pt(-200, -100), v.Offset())

	// anchoring off-center after a pan keeps that point fixed too
	v.Reset()
	v.PanBy(geom.Pt(20, 0))
	v.SetScaleAt(0.5, geom.Pt(20, 0))
	assert.Equal(t, geom.Pt(0, 0), v.ToCanvas(geom.Pt(20, 0)))
}

func TestProjectStrokePoint(t *testing.T) {
	v := newTestViewport()
	center := geom.Pt(100, 50)
	assert.Equal(t, center, v.ProjectStrokePoint(center, 0.5))
	assert.Equal(t, geom.Pt(150, 50), v.ProjectStrokePoint(geom.Pt(200, 50), 0.5))
	assert.Equal(t, geom.Pt(0, 0), v.ProjectStrokePoint(geom.Pt(50, 25), 2))
}

func TestStageTransformRoundTrip(t *testing.T) {
	v := newTestViewport()
	v.ZoomBy(2)
	v.DragEnd(geom.Pt(10, 20))
	assert.Equal(t, f64.Aff3{2, 0, 10, 0, 2, 20}, v.StageTransform())

	p := geom.Pt(30, 40)
	view := v.ToView(p)
	assert.Equal(t, geom.Pt(70, 100), view)
	assert.Equal(t, p, v.ToCanvas(view))
}

func TestNewFallsBackOnBadBounds(t *testing.T) {
	v := New(2, 1, geom.NewRect(10, 10))
	lo, hi := v.Bounds()
	assert.Equal(t, DefaultMinScale, lo)
	assert.Equal(t, DefaultMaxScale, hi)
}
