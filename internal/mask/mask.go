// Package mask holds the boundary mask used for "color within the lines":
// a read-only alpha raster snapshotted from line art.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/disintegration/imaging"
)

var ErrEmptySource = errors.New("mask: empty source image")

// Options control how source pixels become boundary pixels.
type Options struct {
	// Threshold is the alpha a pixel must exceed to count as a line.
	Threshold uint8
	// Luminance treats dark pixels as lines, for opaque line art with a
	// white background. Alpha is still honored.
	Luminance bool
}

// Mask is immutable once built. The zero value and a nil *Mask report no
// boundary anywhere.
type Mask struct {
	width, height int
	alpha         []uint8
	threshold     uint8
}

// Build rasterizes src into an alpha buffer of width x height pixels,
// resizing it first when the dimensions differ.
func Build(src image.Image, width, height int, opts Options) (*Mask, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("mask: invalid canvas size %dx%d", width, height)
	}

	var img image.Image = src
	if b := src.Bounds(); b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(src, width, height, imaging.Linear)
	}

	m := &Mask{
		width:     width,
		height:    height,
		alpha:     make([]uint8, width*height),
		threshold: opts.Threshold,
	}
	b := img.Bounds()
	lines := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			a := c.A
			if opts.Luminance {
				gray := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray)
				a = uint8(math.Round(float64(0xff-gray.Y) * float64(c.A) / 0xff))
			}
			m.alpha[y*width+x] = a
			if a > m.threshold {
				lines++
			}
		}
	}
	log.Printf("[MASK] built %dx%d mask, %d boundary pixels", width, height, lines)
	return m, nil
}

// IsBoundary reports whether a line is drawn at (x, y). Coordinates outside
// the mask are never boundary.
func (m *Mask) IsBoundary(x, y float64) bool {
	if m == nil || len(m.alpha) == 0 {
		return false
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	ix, iy := int(math.Floor(x)), int(math.Floor(y))
	if ix < 0 || iy < 0 || ix >= m.width || iy >= m.height {
		return false
	}
	return m.alpha[iy*m.width+ix] > m.threshold
}

// Size returns the mask dimensions in pixels.
func (m *Mask) Size() (int, int) {
	if m == nil {
		return 0, 0
	}
	return m.width, m.height
}

// Empty reports whether the mask was never built.
func (m *Mask) Empty() bool { return m == nil || len(m.alpha) == 0 }
