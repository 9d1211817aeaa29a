// Package editor ties the stroke model, boundary mask and viewport into one
// editing session driven by pointer and touch events.
package editor

import (
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"colorbook/internal/export"
	"colorbook/internal/geom"
	"colorbook/internal/mask"
	"colorbook/internal/paint"
	"colorbook/internal/render"
	"colorbook/internal/state"
	"colorbook/internal/viewport"
)

// Options configure a session.
type Options struct {
	Width, Height      int
	MinScale, MaxScale float64
	// Widths holds the width each tool starts with when selected.
	Widths map[state.Tool]float64
	Color  string
	Tool   state.Tool
	Mask   mask.Options
	Render render.Options
}

func DefaultOptions() Options {
	return Options{
		Width:    800,
		Height:   600,
		MinScale: viewport.DefaultMinScale,
		MaxScale: viewport.DefaultMaxScale,
		Widths: map[state.Tool]float64{
			state.ToolBrush:  20,
			state.ToolPen:    5,
			state.ToolEraser: 20,
		},
		Color:  "#000000",
		Tool:   state.ToolPen,
		Render: render.DefaultOptions(),
	}
}

// Session is one editor: the strokes, the line art and its mask, the
// viewport and the current tool settings. Every mutation happens under one
// lock, so a change and the scene that reflects it are seen together.
type Session struct {
	mu sync.RWMutex

	id     string
	opts   Options
	canvas geom.Rect

	mode        state.Mode
	tool        state.Tool
	color       string
	width       float64
	constrained bool

	// pending is set between pointer-down and the first accepted point
	pressed bool
	pending bool

	// single-pointer pan in move mode
	dragging   bool
	dragOrigin geom.Point
	dragOffset geom.Point

	clock    *state.Clock
	strokes  *state.StrokeModel
	view     *viewport.Viewport
	mask     *mask.Mask
	lineArt  image.Image
	artRect  geom.Rect
	renderer *render.Renderer
}

func NewSession(opts Options) *Session {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.Widths == nil {
		opts.Widths = def.Widths
	}
	if opts.Color == "" {
		opts.Color = def.Color
	}
	if opts.Tool == "" {
		opts.Tool = def.Tool
	}
	if opts.Render == (render.Options{}) {
		opts.Render = def.Render
	}

	canvas := geom.NewRect(float64(opts.Width), float64(opts.Height))
	clock := &state.Clock{}
	s := &Session{
		id:       uuid.NewString(),
		opts:     opts,
		canvas:   canvas,
		mode:     state.ModeDraw,
		tool:     opts.Tool,
		color:    opts.Color,
		width:    opts.Widths[opts.Tool],
		clock:    clock,
		strokes:  state.NewStrokeModel(clock),
		view:     viewport.New(opts.MinScale, opts.MaxScale, canvas),
		renderer: render.New(opts.Render),
	}
	log.Printf("[EDITOR] session %s started, canvas %dx%d", s.id, opts.Width, opts.Height)
	return s
}

func (s *Session) ID() string { return s.id }

// Size returns the canvas size in pixels.
func (s *Session) Size() (int, int) { return s.opts.Width, s.opts.Height }

func (s *Session) Mode() state.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches between drawing and panning. Switching ends any stroke
// or gesture in progress.
func (s *Session) SetMode(m state.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == m {
		return
	}
	s.endStroke()
	s.dragging = false
	s.view.PinchEnd()
	s.mode = m
	s.clock.Tick()
	log.Printf("[EDITOR] mode -> %s", m)
}

// Tool returns the active tool and width.
func (s *Session) Tool() (state.Tool, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool, s.width
}

// SetTool selects a tool along with its default width.
func (s *Session) SetTool(t state.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = t
	s.width = s.opts.Widths[t]
	log.Printf("[EDITOR] tool -> %s (width %.0f)", t, s.width)
}

func (s *Session) SetWidth(w float64) {
	if w <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = w
}

func (s *Session) Color() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

// SetColor picks the ink color. Picking a color while erasing switches to
// the brush at pen width.
func (s *Session) SetColor(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
	if s.tool == state.ToolEraser {
		s.tool = state.ToolBrush
		s.width = s.opts.Widths[state.ToolPen]
	}
}

// Handle consumes one input event.
func (s *Session) Handle(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case PointerDown, PointerMove, PointerUp, PointerLeave:
		s.drawGesture(s.mode, ev.Kind, ev)
		s.panGesture(s.mode, ev.Kind, ev)
	case TouchStart, TouchMove, TouchEnd:
		if len(ev.Points) >= 2 {
			// two fingers never ink
			s.endStroke()
			s.pinchGesture(s.mode, ev)
			return
		}
		if ev.Kind == TouchEnd || s.view.Pinching() {
			s.view.PinchEnd()
			s.endStroke()
			s.dragging = false
			return
		}
		kind := PointerDown
		if ev.Kind == TouchMove {
			kind = PointerMove
		}
		s.drawGesture(s.mode, kind, ev)
		s.panGesture(s.mode, kind, ev)
	}
}

// drawGesture runs the stroke state machine: idle -> open on down,
// appending on move, idle on up or leave.
func (s *Session) drawGesture(mode state.Mode, kind EventKind, ev Event) {
	if mode != state.ModeDraw {
		return
	}
	switch kind {
	case PointerDown:
		s.endStroke()
		s.pressed = true
		s.pending = true
		if p, ok := ev.point(); ok {
			s.addPoint(p)
		}
	case PointerMove:
		if !s.pressed {
			return
		}
		if p, ok := ev.point(); ok {
			s.addPoint(p)
		}
	case PointerUp, PointerLeave:
		s.endStroke()
	}
}

// addPoint clamps p to the canvas, drops it when constrained coloring puts
// it on a line, and otherwise opens or extends the stroke.
func (s *Session) addPoint(p geom.Point) {
	p = s.canvas.Clamp(p)
	if s.constrained && s.mask.IsBoundary(p.X, p.Y) {
		return
	}
	if s.pending {
		s.pending = false
		s.strokes.BeginStroke(p, s.color, s.tool, s.width)
		return
	}
	s.strokes.ExtendStroke(p)
}

func (s *Session) endStroke() {
	s.pressed = false
	s.pending = false
	s.strokes.EndStroke()
}

func (s *Session) panGesture(mode state.Mode, kind EventKind, ev Event) {
	if mode != state.ModeMove {
		return
	}
	p, ok := ev.point()
	switch kind {
	case PointerDown:
		if !ok {
			return
		}
		s.dragging = true
		s.dragOrigin = p
		s.dragOffset = s.view.Offset()
	case PointerMove:
		if !s.dragging || !ok {
			return
		}
		s.view.DragEnd(s.dragOffset.Add(p.Sub(s.dragOrigin)))
		s.clock.Tick()
	case PointerUp, PointerLeave:
		if !s.dragging {
			return
		}
		s.dragging = false
		if ok {
			s.view.DragEnd(s.dragOffset.Add(p.Sub(s.dragOrigin)))
		}
		s.clock.Tick()
	}
}

func (s *Session) pinchGesture(mode state.Mode, ev Event) {
	if mode != state.ModeMove {
		return
	}
	s.dragging = false
	switch ev.Kind {
	case TouchStart, TouchMove:
		s.view.PinchUpdate(ev.Points[0], ev.Points[1])
		s.clock.Tick()
	case TouchEnd:
		s.view.PinchEnd()
	}
}

// Scroll zooms by factor around the stage origin; a gesture, so only in
// move mode.
func (s *Session) Scroll(factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != state.ModeMove {
		return
	}
	s.view.ZoomBy(factor)
	s.clock.Tick()
}

func (s *Session) ZoomIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ZoomIn()
	s.clock.Tick()
}

func (s *Session) ZoomOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.ZoomOut()
	s.clock.Tick()
}

func (s *Session) ResetView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Reset()
	s.clock.Tick()
}

// View returns a copy of the viewport state.
func (s *Session) View() viewport.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.State()
}

func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed, s.pending = false, false
	ok := s.strokes.Undo()
	if ok {
		log.Printf("[EDITOR] undo, %d strokes left", s.strokes.Len())
	}
	return ok
}

func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed, s.pending = false, false
	ok := s.strokes.Redo()
	if ok {
		log.Printf("[EDITOR] redo, %d strokes", s.strokes.Len())
	}
	return ok
}

func (s *Session) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strokes.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strokes.CanRedo()
}

// Strokes returns the committed strokes in draw order.
func (s *Session) Strokes() []state.Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strokes.Strokes()
}

// Redoable returns the strokes Redo can restore, last first to come back.
func (s *Session) Redoable() []state.Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strokes.Redoable()
}

// Scene snapshots everything the renderer needs.
func (s *Session) Scene() render.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene()
}

func (s *Session) scene() render.Scene {
	return render.Scene{
		Width:          s.opts.Width,
		Height:         s.opts.Height,
		Background:     s.lineArt,
		BackgroundRect: s.artRect,
		Strokes:        s.strokes.Strokes(),
		View:           s.view.State(),
		Rev:            s.clock.Now(),
	}
}

// Render draws the stage as seen through the viewport at w x h.
func (s *Session) Render(w, h int) *image.RGBA {
	return s.renderer.View(s.Scene(), w, h)
}

// WriteStrokesPDF writes the committed strokes as vector paths on a page the
// size of the canvas. Line art is not included.
func (s *Session) WriteStrokesPDF(w io.Writer) error {
	strokes := s.Strokes()
	paper := "white"
	if s.opts.Render.Paper != nil {
		paper = paint.Hex(s.opts.Render.Paper)
	}
	return export.StrokesPDF(w, strokes, float64(s.opts.Width), float64(s.opts.Height), paper, s.opts.Render.BrushOpacity)
}

// Painting renders the canvas without the viewport on white paper.
func (s *Session) Painting() *image.RGBA {
	return render.Flatten(s.renderer.Canvas(s.Scene()), s.opts.Render.Paper)
}

// LoadBackground decodes line art from r, fits it to the canvas and builds
// the boundary mask from it. On a decode failure the session is left as it
// was: line art loaded earlier stays, along with its mask and the lines
// constraint, and a session without art keeps coloring unconstrained.
func (s *Session) LoadBackground(r io.Reader) error {
	img, err := mask.DecodeImage(r)
	if err != nil {
		s.mu.RLock()
		kept := s.lineArt != nil
		s.mu.RUnlock()
		if kept {
			log.Printf("[EDITOR] background not reloaded, keeping previous line art: %v", err)
		} else {
			log.Printf("[EDITOR] background not loaded, coloring unconstrained: %v", err)
		}
		return fmt.Errorf("load background: %w", err)
	}
	s.SetBackground(img)
	return nil
}

// SetBackground replaces the line art and rebuilds the mask from it.
func (s *Session) SetBackground(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineArt = img
	s.artRect = geom.Rect{}
	if img != nil {
		b := img.Bounds()
		s.artRect = geom.Fit(float64(b.Dx()), float64(b.Dy()), s.canvas)
	}
	s.rebuildMask(false)
	s.clock.Tick()
}

// ResetImage drops every stroke and snapshots the mask from the line art
// alone.
func (s *Session) ResetImage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endStroke()
	s.strokes.Clear()
	s.rebuildMask(false)
	log.Printf("[EDITOR] image reset")
}

func (s *Session) Constrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.constrained
}

// SetConstrained toggles coloring within the lines. Turning it on
// re-snapshots the mask from the current canvas, so strokes drawn so far
// become boundaries too. If no mask can be built the session stays
// unconstrained.
func (s *Session) SetConstrained(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !on {
		s.constrained = false
		log.Printf("[EDITOR] unconstrained")
		return
	}
	s.constrained = s.rebuildMask(true)
	if s.constrained {
		log.Printf("[EDITOR] constrained to lines")
	}
}

// rebuildMask requires s.mu to be held. It reports whether a mask exists
// afterwards.
func (s *Session) rebuildMask(withStrokes bool) bool {
	sc := s.scene()
	if !withStrokes {
		sc.Strokes = nil
	}
	if sc.Background == nil && len(sc.Strokes) == 0 {
		s.mask = nil
		return false
	}
	m, err := mask.Build(s.renderer.Canvas(sc), s.opts.Width, s.opts.Height, s.opts.Mask)
	if err != nil {
		log.Printf("[EDITOR] mask build failed, coloring unconstrained: %v", err)
		s.mask = nil
		return false
	}
	s.mask = m
	return true
}

// IsBoundary reports whether the current mask has a line at (x, y).
func (s *Session) IsBoundary(x, y float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask.IsBoundary(x, y)
}

// Snapshot is the painting handed to whatever stores it.
type Snapshot struct {
	SessionID string `json:"sessionId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Strokes   int    `json:"strokes"`
	// Image is a PNG data URI.
	Image string `json:"image"`
}

// Snapshot renders the painting on paper and encodes it for submission.
func (s *Session) Snapshot() (Snapshot, error) {
	sc := s.Scene()
	uri, err := export.DataURI(render.Flatten(s.renderer.Canvas(sc), s.opts.Render.Paper))
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return Snapshot{
		SessionID: s.id,
		Width:     sc.Width,
		Height:    sc.Height,
		Strokes:   len(sc.Strokes),
		Image:     uri,
	}, nil
}
