package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"colorbook/internal/editor"
)

// wheelStep is the zoom factor per mouse wheel notch.
const wheelStep = 1.2

// Board shows a drawing session and feeds it mouse input.
type Board struct {
	widget.BaseWidget
	session *editor.Session
	raster  *canvas.Raster

	mu        sync.Mutex
	pxPerUnit float64
	pressed   bool

	// OnChange runs after any event that may have changed the session.
	OnChange func()
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)

func NewBoard(s *editor.Session) *Board {
	b := &Board{session: s, pxPerUnit: 1}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	return b
}

func (b *Board) Session() *editor.Session { return b.session }

// draw runs on the render thread with the raster size in pixels.
func (b *Board) draw(w, h int) image.Image {
	if size := b.Size(); size.Width > 0 {
		b.mu.Lock()
		b.pxPerUnit = float64(w) / float64(size.Width)
		b.mu.Unlock()
	}
	return b.session.Render(w, h)
}

// toCanvas converts a widget position to raster pixels.
func (b *Board) toCanvas(pos fyne.Position) (float64, float64) {
	b.mu.Lock()
	k := b.pxPerUnit
	b.mu.Unlock()
	return float64(pos.X) * k, float64(pos.Y) * k
}

func (b *Board) send(kind editor.EventKind, pos fyne.Position) {
	x, y := b.toCanvas(pos)
	b.session.Handle(editor.Pointer(kind, x, y))
	b.changed()
}

func (b *Board) changed() {
	b.raster.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pressed = true
	b.send(editor.PointerDown, e.Position)
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.send(editor.PointerUp, e.Position)
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		return
	}
	b.send(editor.PointerMove, e.Position)
}

func (b *Board) DragEnd() {}

func (b *Board) MouseIn(*desktop.MouseEvent) {}

func (b *Board) MouseMoved(*desktop.MouseEvent) {}

func (b *Board) MouseOut() {
	if !b.pressed {
		return
	}
	b.pressed = false
	b.session.Handle(editor.Event{Kind: editor.PointerLeave})
	b.changed()
}

// Scrolled zooms with the wheel while the session is in move mode.
func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY > 0 {
		b.session.Scroll(wheelStep)
	} else if e.Scrolled.DY < 0 {
		b.session.Scroll(1 / wheelStep)
	}
	b.changed()
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

func (b *Board) MinSize() fyne.Size {
	b.ExtendBaseWidget(b)
	return fyne.NewSize(300, 300)
}
