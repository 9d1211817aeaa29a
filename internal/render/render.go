// Package render rasterizes a Scene: the background line art, then every
// committed stroke in order on a layer of its own.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"colorbook/internal/geom"
	"colorbook/internal/paint"
	"colorbook/internal/state"
	"colorbook/internal/viewport"
)

// Options tune how strokes look.
type Options struct {
	// BrushOpacity is applied to the brush tool as a whole stroke.
	BrushOpacity float64
	// Tension of the spline drawn through stroke points; 0 draws polylines.
	Tension float64
	// Paper shows through wherever neither background nor ink covers the view.
	Paper color.Color
}

func DefaultOptions() Options {
	return Options{BrushOpacity: 0.5, Tension: 0.5, Paper: color.White}
}

// Renderer draws scenes. View results are cached per scene revision, size
// and viewport, so the returned images must not be modified.
type Renderer struct {
	opts Options

	mu        sync.Mutex
	cacheKey  viewKey
	cacheView *image.RGBA
}

type viewKey struct {
	rev  uint64
	w, h int
	view viewport.State
}

func New(opts Options) *Renderer {
	if opts.Paper == nil {
		opts.Paper = color.White
	}
	return &Renderer{opts: opts}
}

// Canvas renders the scene in canvas space without the viewport. Pixels
// nothing was drawn on stay transparent, so the result can seed a boundary
// mask; use Flatten before exporting.
func (r *Renderer) Canvas(s Scene) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	identity := f64.Aff3{1, 0, 0, 0, 1, 0}
	drawBackground(dst, s, identity)

	layer := r.strokeLayer(s.Width, s.Height, s.Strokes, func(p geom.Point) geom.Point { return p }, 1)
	draw.Draw(dst, dst.Bounds(), layer, image.Point{}, draw.Over)
	return dst
}

// View renders what the stage shows in a w x h area. The background goes
// through the stage transform; stroke points are first counter-scaled about
// the canvas center so they stay anchored to the unscaled background.
func (r *Renderer) View(s Scene, w, h int) *image.RGBA {
	key := viewKey{rev: s.Rev, w: w, h: h, view: s.View}
	r.mu.Lock()
	if r.cacheView != nil && r.cacheKey == key {
		img := r.cacheView
		r.mu.Unlock()
		return img
	}
	r.mu.Unlock()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.opts.Paper), image.Point{}, draw.Src)

	scale := s.View.Scale
	if scale <= 0 {
		scale = 1
	}
	stage := f64.Aff3{scale, 0, s.View.Offset.X, 0, scale, s.View.Offset.Y}
	drawBackground(dst, s, stage)

	center := s.View.Canvas.Center()
	project := func(p geom.Point) geom.Point {
		q := geom.ScaleAbout(p, center, 1/scale)
		return q.Mul(scale).Add(s.View.Offset)
	}
	// widths are divided by the scale and multiplied back by the stage
	layer := r.strokeLayer(w, h, s.Strokes, project, 1)
	draw.Draw(dst, dst.Bounds(), layer, image.Point{}, draw.Over)

	r.mu.Lock()
	r.cacheKey = key
	r.cacheView = dst
	r.mu.Unlock()
	return dst
}

// Flatten composites img over an opaque paper color.
func Flatten(img image.Image, paper color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func drawBackground(dst draw.Image, s Scene, stage f64.Aff3) {
	if s.Background == nil {
		return
	}
	sb := s.Background.Bounds()
	if sb.Empty() || s.BackgroundRect.Width <= 0 || s.BackgroundRect.Height <= 0 {
		return
	}
	sx := s.BackgroundRect.Width / float64(sb.Dx())
	sy := s.BackgroundRect.Height / float64(sb.Dy())
	place := f64.Aff3{
		sx, 0, s.BackgroundRect.X - float64(sb.Min.X)*sx,
		0, sy, s.BackgroundRect.Y - float64(sb.Min.Y)*sy,
	}
	xdraw.ApproxBiLinear.Transform(dst, mul(stage, place), s.Background, sb, xdraw.Over, nil)
}

// mul returns a*b, applying b first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func (r *Renderer) strokeLayer(w, h int, strokes []state.Stroke, project func(geom.Point) geom.Point, widthScale float64) *image.RGBA {
	bounds := image.Rect(0, 0, w, h)
	layer := image.NewRGBA(bounds)
	if len(strokes) == 0 || bounds.Empty() {
		return layer
	}

	cov := image.NewAlpha(bounds)
	scanner := rasterx.NewScannerGV(w, h, cov, bounds)
	dasher := rasterx.NewDasher(w, h, scanner)
	filler := rasterx.NewFiller(w, h, scanner)

	for _, st := range strokes {
		if st.Len() == 0 {
			continue
		}
		pts := make([]geom.Point, st.Len())
		for i := range pts {
			pts[i] = project(st.Point(i))
		}
		width := st.Width * widthScale
		if width <= 0 {
			width = 1
		}

		area := bounds
		if box, ok := geom.Bounds(pts); ok {
			box = box.Inset(width)
			area = image.Rect(int(box.X)-1, int(box.Y)-1, int(box.X+box.Width)+2, int(box.Y+box.Height)+2).Intersect(bounds)
		}
		if area.Empty() {
			continue
		}
		clearAlpha(cov, area)

		if len(pts) == 1 {
			filler.Clear()
			rasterx.AddCircle(pts[0].X, pts[0].Y, width/2, filler)
			filler.SetColor(color.Opaque)
			filler.Draw()
		} else {
			dasher.Clear()
			dasher.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, nil, 0)
			trace(dasher, pts, r.opts.Tension)
			dasher.SetColor(color.Opaque)
			dasher.Draw()
		}

		r.composite(layer, cov, area, st)
	}
	return layer
}

func trace(a rasterx.Adder, pts []geom.Point, tension float64) {
	a.Start(toFixed(pts[0]))
	for _, seg := range Smooth(pts, tension) {
		switch seg.Kind {
		case SegLine:
			a.Line(toFixed(seg.To))
		case SegQuad:
			a.QuadBezier(toFixed(seg.C1), toFixed(seg.To))
		case SegCubic:
			a.CubeBezier(toFixed(seg.C1), toFixed(seg.C2), toFixed(seg.To))
		}
	}
	a.Stop(false)
}

func (r *Renderer) composite(layer *image.RGBA, cov *image.Alpha, area image.Rectangle, st state.Stroke) {
	switch st.Tool {
	case state.ToolEraser:
		eraseUnder(layer, cov, area)
	case state.ToolBrush:
		c := paint.WithOpacity(paint.MustParse(st.Color), r.opts.BrushOpacity)
		draw.DrawMask(layer, area, image.NewUniform(c), image.Point{}, cov, area.Min, draw.Over)
	default:
		draw.DrawMask(layer, area, image.NewUniform(paint.MustParse(st.Color)), image.Point{}, cov, area.Min, draw.Over)
	}
}

// eraseUnder is destination-out: each layer pixel keeps 1-coverage of its
// ink. The background is on another image and is never touched.
func eraseUnder(layer *image.RGBA, cov *image.Alpha, area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			a := uint32(cov.AlphaAt(x, y).A)
			if a == 0 {
				continue
			}
			keep := 0xff - a
			i := layer.PixOffset(x, y)
			px := layer.Pix[i : i+4 : i+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*keep + 0x7f) / 0xff)
			}
		}
	}
}

func clearAlpha(img *image.Alpha, area image.Rectangle) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := img.Pix[img.PixOffset(area.Min.X, y):img.PixOffset(area.Max.X, y)]
		for i := range row {
			row[i] = 0
		}
	}
}

func toFixed(p geom.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X, p.Y)
}
