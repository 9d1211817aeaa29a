package svgfill

import (
	"encoding/xml"
	"fmt"
	"log"

	"github.com/tdewolff/parse/v2/strconv"

	"colorbook/internal/geom"
)

// fitViewBox gives a document without a usable viewBox or size one that
// covers its shapes. Transforms are not applied, so the box is a best guess
// for pages drawn in user space.
func (d *Document) fitViewBox() {
	if _, ok := d.root.Get("viewBox"); ok {
		return
	}
	var (
		box   geom.Rect
		found bool
	)
	for _, n := range d.shapes {
		r, ok := shapeBounds(n)
		if !ok {
			continue
		}
		if !found {
			box, found = r, true
			continue
		}
		box = box.Union(r)
	}
	if !found || box.Width <= 0 || box.Height <= 0 {
		log.Printf("[SVG] page has no viewBox, size or shape bounds; regions cannot be located")
		return
	}
	d.root.Set("viewBox", fmt.Sprintf("%g %g %g %g", box.X, box.Y, box.Width, box.Height))
	log.Printf("[SVG] no viewBox, fitted to shapes: %g %g %g %g", box.X, box.Y, box.Width, box.Height)
}

// hoistViewBox moves the viewBox ahead of a width or height that is not a
// plain number. oksvg stops reading the root's attributes at the first one
// it cannot parse, so a viewBox after "100%" would be lost.
func hoistViewBox(root *Node) {
	bad := false
	for _, name := range []string{"width", "height"} {
		if v, ok := root.Get(name); ok {
			if _, ok := parseNumber(v); !ok {
				bad = true
			}
		}
	}
	if !bad {
		return
	}
	for i, a := range root.Attr {
		if a.Name.Space == "" && a.Name.Local == "viewBox" {
			attrs := append([]xml.Attr{a}, root.Attr[:i]...)
			root.Attr = append(attrs, root.Attr[i+1:]...)
			return
		}
	}
}

// shapeBounds returns the untransformed geometry bounds of a shape, without
// its stroke. Curves count by their end points.
func shapeBounds(n *Node) (geom.Rect, bool) {
	num := func(name string) float64 {
		v, _ := n.Get(name)
		f, _ := parseNumber(v)
		return f
	}
	switch n.Tag() {
	case "rect":
		return geom.Rect{X: num("x"), Y: num("y"), Width: num("width"), Height: num("height")}, true
	case "circle":
		r := num("r")
		return geom.Rect{X: num("cx") - r, Y: num("cy") - r, Width: 2 * r, Height: 2 * r}, true
	case "ellipse":
		rx, ry := num("rx"), num("ry")
		return geom.Rect{X: num("cx") - rx, Y: num("cy") - ry, Width: 2 * rx, Height: 2 * ry}, true
	case "line":
		return geom.Bounds([]geom.Point{geom.Pt(num("x1"), num("y1")), geom.Pt(num("x2"), num("y2"))})
	case "polyline", "polygon":
		v, _ := n.Get("points")
		return geom.Bounds(pointList(v))
	case "path":
		v, _ := n.Get("d")
		pts, _, err := pathPoints(v)
		if err != nil {
			return geom.Rect{}, false
		}
		return geom.Bounds(pts)
	}
	return geom.Rect{}, false
}

// parseNumber reads a whole attribute as a number; a "px" unit is allowed.
func parseNumber(s string) (float64, bool) {
	b := []byte(s)
	f, n := strconv.ParseFloat(b)
	if n == 0 {
		return 0, false
	}
	rest := string(b[n:])
	return f, rest == "" || rest == "px"
}

// pointList parses a points attribute: numbers separated by commas or
// whitespace, taken in pairs.
func pointList(s string) []geom.Point {
	var nums []float64
	b := []byte(s)
	for i := 0; i < len(b); {
		switch b[i] {
		case ' ', ',', '\t', '\n', '\r':
			i++
			continue
		}
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			break
		}
		nums = append(nums, f)
		i += n
	}
	pts := make([]geom.Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, geom.Pt(nums[i], nums[i+1]))
	}
	return pts
}
