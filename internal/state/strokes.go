package state

import (
	"github.com/google/uuid"

	"colorbook/internal/geom"
)

// StrokeModel is the ordered list of committed strokes plus the strokes
// popped off it by Undo. It is not safe for concurrent use; the editor
// session serializes access to it.
type StrokeModel struct {
	history History[*Stroke]
	open    *Stroke
	clock   *Clock
}

// NewStrokeModel creates an empty model. Revisions are taken from clock,
// which may be shared with other state owned by the same session.
func NewStrokeModel(clock *Clock) *StrokeModel {
	if clock == nil {
		clock = &Clock{}
	}
	return &StrokeModel{clock: clock}
}

// BeginStroke starts a new stroke at p and commits it immediately, so it
// renders while being drawn. Any redo history is discarded.
func (m *StrokeModel) BeginStroke(p geom.Point, color string, tool Tool, width float64) Stroke {
	s := &Stroke{
		ID:     uuid.NewString(),
		Points: []float64{p.X, p.Y},
		Color:  color,
		Tool:   tool,
		Width:  width,
		Rev:    m.clock.Tick(),
	}
	m.history.Push(s)
	m.open = s
	return s.clone()
}

// ExtendStroke appends p to the open stroke. It reports false, and does
// nothing, when no stroke is open.
func (m *StrokeModel) ExtendStroke(p geom.Point) bool {
	if m.open == nil {
		return false
	}
	m.open.Points = append(m.open.Points, p.X, p.Y)
	m.open.Rev = m.clock.Tick()
	return true
}

// EndStroke closes the open stroke, if any.
func (m *StrokeModel) EndStroke() {
	m.open = nil
}

// IsOpen reports whether a stroke is currently accepting points.
func (m *StrokeModel) IsOpen() bool { return m.open != nil }

// Undo moves the last committed stroke to the redo list. An open stroke is
// closed first.
func (m *StrokeModel) Undo() bool {
	m.open = nil
	if _, ok := m.history.Undo(); !ok {
		return false
	}
	m.clock.Tick()
	return true
}

// Redo appends the most recently undone stroke back onto the committed list.
func (m *StrokeModel) Redo() bool {
	m.open = nil
	if _, ok := m.history.Redo(); !ok {
		return false
	}
	m.clock.Tick()
	return true
}

// Clear drops every stroke, committed or undone.
func (m *StrokeModel) Clear() {
	m.open = nil
	m.history.Clear()
	m.clock.Tick()
}

// Strokes returns copies of the committed strokes in draw order.
func (m *StrokeModel) Strokes() []Stroke {
	return cloneAll(m.history.Done())
}

// Redoable returns copies of the undone strokes; the last one is what Redo
// would restore.
func (m *StrokeModel) Redoable() []Stroke {
	return cloneAll(m.history.Undone())
}

func (m *StrokeModel) Len() int { return len(m.history.done) }

func (m *StrokeModel) CanUndo() bool { return m.history.CanUndo() }
func (m *StrokeModel) CanRedo() bool { return m.history.CanRedo() }

func cloneAll(src []*Stroke) []Stroke {
	out := make([]Stroke, len(src))
	for i, s := range src {
		out[i] = s.clone()
	}
	return out
}
