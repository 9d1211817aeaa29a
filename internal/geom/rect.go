package geom

// Rect represents a rectangular area on the canvas
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(w, h float64) Rect {
	return Rect{Width: w, Height: h}
}

// Center returns the middle of the rect.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Clamp moves p to the nearest point inside r.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: Clamp(p.X, r.X, r.X+r.Width),
		Y: Clamp(p.Y, r.Y, r.Y+r.Height),
	}
}

// Union returns the smallest rect covering both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := r.X
	if o.X < minX {
		minX = o.X
	}
	minY := r.Y
	if o.Y < minY {
		minY = o.Y
	}
	maxX := r.X + r.Width
	if o.X+o.Width > maxX {
		maxX = o.X + o.Width
	}
	maxY := r.Y + r.Height
	if o.Y+o.Height > maxY {
		maxY = o.Y + o.Height
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset grows r by pad on every side (shrinks for negative pad).
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Bounds calculates the bounding box of points. ok is false for an empty slice.
func Bounds(points []Point) (r Rect, ok bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Fit returns the largest rect with the aspect ratio of src that fits
// inside dst, centered in it.
func Fit(srcW, srcH float64, dst Rect) Rect {
	if srcW <= 0 || srcH <= 0 {
		return dst
	}
	aspect := srcW / srcH
	w := dst.Width
	h := dst.Width / aspect
	if h > dst.Height {
		h = dst.Height
		w = dst.Height * aspect
	}
	return Rect{
		X:      dst.X + (dst.Width-w)/2,
		Y:      dst.Y + (dst.Height-h)/2,
		Width:  w,
		Height: h,
	}
}
