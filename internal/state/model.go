package state

import (
	"fmt"

	"colorbook/internal/geom"
)

// Tool is the drawing tool a stroke was made with.
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// ParseTool accepts the lower-case tool names.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case ToolBrush, ToolPen, ToolEraser:
		return t, nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// Stroke is one pointer-down to pointer-up drawing action. Points is a flat
// coordinate list, consumed in (x, y) pairs.
type Stroke struct {
	ID     string    `json:"id"`
	Points []float64 `json:"points"`
	Color  string    `json:"color"`
	Tool   Tool      `json:"tool"`
	Width  float64   `json:"width"`
	Rev    uint64    `json:"rev"`
}

// Len returns the number of points in the stroke.
func (s Stroke) Len() int { return len(s.Points) / 2 }

// Point returns the i-th point.
func (s Stroke) Point(i int) geom.Point {
	return geom.Point{X: s.Points[2*i], Y: s.Points[2*i+1]}
}

// PointList expands the flat coordinate list.
func (s Stroke) PointList() []geom.Point {
	pts := make([]geom.Point, s.Len())
	for i := range pts {
		pts[i] = s.Point(i)
	}
	return pts
}

func (s Stroke) clone() Stroke {
	c := s
	c.Points = append([]float64(nil), s.Points...)
	return c
}

// Mode is the editor session's interaction mode. Drawing and panning are
// mutually exclusive.
type Mode int

const (
	ModeDraw Mode = iota
	ModeMove
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeMove:
		return "move"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "draw":
		return ModeDraw, nil
	case "move":
		return ModeMove, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}
