package editor

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"

	xdraw "golang.org/x/image/draw"

	"colorbook/internal/geom"
	"colorbook/internal/svgfill"
	"colorbook/internal/viewport"
)

// FillSession colors a vector document region by region: a tap resolves
// the shape under the pointer and fills it with the current color.
type FillSession struct {
	mu     sync.Mutex
	doc    *svgfill.Document
	width  int
	height int
	color  string
	view   *viewport.Viewport
	open   []svgfill.RegionID

	cacheRev uint64
	cache    *image.RGBA
}

// NewFillSession parses the document in r and normalizes its regions for a
// w x h canvas.
func NewFillSession(r io.Reader, w, h int, color string) (*FillSession, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("fill session: invalid canvas size %dx%d", w, h)
	}
	doc, err := svgfill.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("fill session: %w", err)
	}
	doc.Normalize()
	f := &FillSession{
		doc:    doc,
		width:  w,
		height: h,
		color:  color,
		view:   viewport.New(viewport.DefaultMinScale, viewport.DefaultMaxScale, geom.NewRect(float64(w), float64(h))),
		open:   doc.OpenPaths(),
	}
	if len(f.open) > 0 {
		log.Printf("[SVG] %d unclosed paths, fills may leak", len(f.open))
	}
	return f, nil
}

func (f *FillSession) Document() *svgfill.Document { return f.doc }

// OpenPaths lists the paths that are not closed, for a warning banner.
func (f *FillSession) OpenPaths() []svgfill.RegionID {
	return append([]svgfill.RegionID(nil), f.open...)
}

func (f *FillSession) SetColor(c string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.color = c
}

func (f *FillSession) Color() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.color
}

// Tap fills the region under p, given in view coordinates. It reports the
// region filled; taps on nothing or on shapes that cannot be colored are
// ignored.
func (f *FillSession) Tap(p geom.Point) (svgfill.RegionID, bool, error) {
	f.mu.Lock()
	q := f.view.ToCanvas(p)
	c := f.color
	f.mu.Unlock()

	region, ok := f.doc.HitTest(q.X, q.Y, f.width, f.height)
	if !ok {
		return "", false, nil
	}
	if err := f.doc.ApplyFill(region, c); err != nil {
		return "", false, err
	}
	return region.ID, true, nil
}

func (f *FillSession) Undo() bool { return f.doc.Undo() }
func (f *FillSession) Redo() bool { return f.doc.Redo() }

// ZoomIn and ZoomOut step the scale about the canvas center.
func (f *FillSession) ZoomIn() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.SetScaleAt(f.view.Scale()+viewport.ZoomStep, f.view.Canvas().Center())
}

func (f *FillSession) ZoomOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.SetScaleAt(f.view.Scale()-viewport.ZoomStep, f.view.Canvas().Center())
}

// Handle consumes touch input. Two fingers pinch and pan the page; lifting
// a finger ends the gesture. Single taps go through Tap.
func (f *FillSession) Handle(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch ev.Kind {
	case TouchStart, TouchMove:
		if len(ev.Points) >= 2 {
			f.view.PinchUpdate(ev.Points[0], ev.Points[1])
			return
		}
		f.view.PinchEnd()
	case TouchEnd:
		f.view.PinchEnd()
	}
}

func (f *FillSession) ResetView() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view.Reset()
}

func (f *FillSession) View() viewport.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view.State()
}

// Painting rasterizes the document at canvas size.
func (f *FillSession) Painting() (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.painting()
}

func (f *FillSession) painting() (*image.RGBA, error) {
	rev := f.doc.Rev()
	if f.cache != nil && f.cacheRev == rev {
		return f.cache, nil
	}
	img, err := f.doc.Rasterize(f.width, f.height)
	if err != nil {
		return nil, err
	}
	f.cache, f.cacheRev = img, rev
	return img, nil
}

// Render draws the document through the viewport into a w x h image on
// paper.
func (f *FillSession) Render(w, h int, paper color.Color) (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src, err := f.painting()
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(paper), image.Point{}, xdraw.Src)
	xdraw.ApproxBiLinear.Transform(dst, f.view.StageTransform(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

// Save writes the colored document.
func (f *FillSession) Save(w io.Writer) error {
	_, err := f.doc.WriteTo(w)
	return err
}
