package editor

import "colorbook/internal/geom"

// EventKind enumerates the input events the session consumes.
type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
	PointerLeave
	TouchStart
	TouchMove
	TouchEnd
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case PointerLeave:
		return "pointer-leave"
	case TouchStart:
		return "touch-start"
	case TouchMove:
		return "touch-move"
	case TouchEnd:
		return "touch-end"
	}
	return "unknown"
}

// Event is one input event in canvas-relative coordinates. Pointer events
// carry one point; touch events carry every touch still on the surface.
type Event struct {
	Kind   EventKind
	Points []geom.Point
}

func Pointer(kind EventKind, x, y float64) Event {
	return Event{Kind: kind, Points: []geom.Point{{X: x, Y: y}}}
}

func Touch(kind EventKind, touches ...geom.Point) Event {
	return Event{Kind: kind, Points: touches}
}

func (e Event) point() (geom.Point, bool) {
	if len(e.Points) == 0 {
		return geom.Point{}, false
	}
	return e.Points[0], true
}
