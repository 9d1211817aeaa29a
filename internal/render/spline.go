package render

import (
	"math"

	"colorbook/internal/geom"
)

// SegKind is the kind of a path segment.
type SegKind int

const (
	SegLine SegKind = iota
	SegQuad
	SegCubic
)

// Segment continues a path from the previous segment's end point. Unused
// control points are zero.
type Segment struct {
	Kind   SegKind
	C1, C2 geom.Point
	To     geom.Point
}

// Smooth turns a polyline into a cardinal spline through every point. With
// tension 0 or fewer than three points it returns straight segments.
func Smooth(pts []geom.Point, tension float64) []Segment {
	if len(pts) < 2 {
		return nil
	}
	if tension == 0 || len(pts) < 3 {
		segs := make([]Segment, 0, len(pts)-1)
		for _, p := range pts[1:] {
			segs = append(segs, Segment{Kind: SegLine, To: p})
		}
		return segs
	}

	// control points around each interior point: before, point, after
	type knot struct{ before, at, after geom.Point }
	knots := make([]knot, 0, len(pts)-2)
	for i := 1; i < len(pts)-1; i++ {
		b, a, ok := controlPoints(pts[i-1], pts[i], pts[i+1], tension)
		if !ok {
			continue
		}
		knots = append(knots, knot{b, pts[i], a})
	}
	last := pts[len(pts)-1]
	if len(knots) == 0 {
		return []Segment{{Kind: SegLine, To: last}}
	}

	segs := make([]Segment, 0, len(knots)+1)
	segs = append(segs, Segment{Kind: SegQuad, C1: knots[0].before, To: knots[0].at})
	for i := 1; i < len(knots); i++ {
		segs = append(segs, Segment{
			Kind: SegCubic,
			C1:   knots[i-1].after,
			C2:   knots[i].before,
			To:   knots[i].at,
		})
	}
	segs = append(segs, Segment{Kind: SegQuad, C1: knots[len(knots)-1].after, To: last})
	return segs
}

func controlPoints(p0, p1, p2 geom.Point, t float64) (before, after geom.Point, ok bool) {
	d01 := geom.Distance(p0, p1)
	d12 := geom.Distance(p1, p2)
	sum := d01 + d12
	if sum == 0 || math.IsNaN(sum) {
		return geom.Point{}, geom.Point{}, false
	}
	fa := t * d01 / sum
	fb := t * d12 / sum
	span := p2.Sub(p0)
	return p1.Sub(span.Mul(fa)), p1.Add(span.Mul(fb)), true
}
