package ui

import (
	"image"
	"image/color"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"colorbook/internal/editor"
	"colorbook/internal/geom"
)

// FillBoard shows a vector page and fills the region under each tap.
type FillBoard struct {
	widget.BaseWidget
	session *editor.FillSession
	raster  *canvas.Raster

	mu        sync.Mutex
	pxPerUnit float64

	OnChange func()
}

var _ fyne.Tappable = (*FillBoard)(nil)
var _ fyne.Scrollable = (*FillBoard)(nil)

func NewFillBoard(s *editor.FillSession) *FillBoard {
	b := &FillBoard{session: s, pxPerUnit: 1}
	b.raster = canvas.NewRaster(b.draw)
	b.ExtendBaseWidget(b)
	return b
}

func (b *FillBoard) Session() *editor.FillSession { return b.session }

func (b *FillBoard) draw(w, h int) image.Image {
	if size := b.Size(); size.Width > 0 {
		b.mu.Lock()
		b.pxPerUnit = float64(w) / float64(size.Width)
		b.mu.Unlock()
	}
	img, err := b.session.Render(w, h, color.White)
	if err != nil {
		log.Printf("[UI] render page: %v", err)
		return image.NewUniform(color.White)
	}
	return img
}

func (b *FillBoard) Tapped(e *fyne.PointEvent) {
	b.mu.Lock()
	k := b.pxPerUnit
	b.mu.Unlock()
	p := geom.Pt(float64(e.Position.X)*k, float64(e.Position.Y)*k)
	if _, ok, err := b.session.Tap(p); err != nil {
		log.Printf("[UI] fill: %v", err)
	} else if ok {
		b.Refresh()
	}
}

// Scrolled steps the zoom about the page center, one step per notch.
func (b *FillBoard) Scrolled(e *fyne.ScrollEvent) {
	switch {
	case e.Scrolled.DY > 0:
		b.session.ZoomIn()
	case e.Scrolled.DY < 0:
		b.session.ZoomOut()
	default:
		return
	}
	b.Refresh()
}

func (b *FillBoard) Refresh() {
	b.raster.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *FillBoard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

func (b *FillBoard) MinSize() fyne.Size {
	b.ExtendBaseWidget(b)
	return fyne.NewSize(300, 300)
}
