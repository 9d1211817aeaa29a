// Package paint resolves the color strings carried by strokes and SVG fills.
package paint

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var ErrEmptyColor = errors.New("empty color")

// Parse accepts "#rgb", "#rrggbb", CSS color names and "none"/"transparent".
func Parse(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, ErrEmptyColor
	}
	low := strings.ToLower(s)
	if low == "none" || low == "transparent" {
		return color.NRGBA{}, nil
	}
	if strings.HasPrefix(low, "#") {
		c, err := colorful.Hex(low)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if c, ok := colornames.Map[low]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

// MustParse is Parse for literals; it falls back to black on error.
func MustParse(s string) color.NRGBA {
	c, err := Parse(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// WithOpacity scales the alpha of c by k in [0,1].
func WithOpacity(c color.NRGBA, k float64) color.NRGBA {
	if k < 0 {
		k = 0
	} else if k > 1 {
		k = 1
	}
	c.A = uint8(float64(c.A)*k + 0.5)
	return c
}

// Harmonious returns a row of swatches built from base: base itself, its two
// analogous hues at +30 and -30 degrees, then its complement darkened and a
// paler, lighter complement.
func Harmonious(base string) ([]string, error) {
	n, err := Parse(base)
	if err != nil {
		return nil, err
	}
	c := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	h, s, l := c.Hsl()
	hsl := func(h, s, l float64) string {
		return colorful.Hsl(math.Mod(h, 360), clamp01(s), clamp01(l)).Clamped().Hex()
	}
	return []string{
		Hex(n),
		hsl(h+30, s, l),
		hsl(h-30+360, s, l),
		hsl(h+180, s, l*0.8),
		hsl(h+180, s*0.7, l*1.2),
	}, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
