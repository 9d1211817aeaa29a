package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"colorbook/internal/paint"
	"colorbook/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Value    string
	OnTapped func(string)
}

func newColorSwatch(value string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Value: value, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(paint.MustParse(s.Value))
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Value)
	}
}

func palette(colors []string, tapped func(string)) *fyne.Container {
	box := container.NewHBox()
	for _, c := range colors {
		box.Add(newColorSwatch(c, tapped))
	}
	return box
}

// colorChooser keeps a row of harmonious swatches in step with the current
// color and opens the free color picker.
type colorChooser struct {
	harmony *fyne.Container
	set     func(string)
}

func newColorChooser(current string, set func(string)) *colorChooser {
	c := &colorChooser{harmony: container.NewHBox(), set: set}
	c.rebuild(current)
	return c
}

// choose applies a color picked from any source.
func (c *colorChooser) choose(value string) {
	c.set(value)
	c.rebuild(value)
}

func (c *colorChooser) rebuild(base string) {
	row, err := paint.Harmonious(base)
	if err != nil {
		log.Printf("[UI] no harmony for %q: %v", base, err)
		return
	}
	c.harmony.RemoveAll()
	for _, v := range row {
		c.harmony.Add(newColorSwatch(v, c.choose))
	}
	c.harmony.Refresh()
}

func (c *colorChooser) pickerButton(win fyne.Window) *widget.Button {
	return widget.NewButtonWithIcon("", theme.ColorChromaticIcon(), func() {
		d := dialog.NewColorPicker("Pick a color", "", func(picked color.Color) {
			c.choose(paint.Hex(picked))
		}, win)
		d.Advanced = true
		d.Show()
	})
}

// colorControls lays out the fixed palette, the harmony row and, with a
// window to host the dialog, the picker button.
func (c *colorChooser) colorControls(colors []string, win fyne.Window) fyne.CanvasObject {
	row := container.NewHBox(palette(colors, c.choose), widget.NewSeparator(), c.harmony)
	if win != nil {
		row.Add(c.pickerButton(win))
	}
	return row
}

// Actions are the toolbar commands that need the window.
type Actions struct {
	Window     fyne.Window
	Save       func()
	SaveVector func()
	Favorite   func()
	ResetImage func()
}

// NewToolbar builds the drawing controls for board.
func NewToolbar(board *Board, colors []string, act Actions) fyne.CanvasObject {
	s := board.Session()

	// --- Stroke Width Slider ---
	slider := widget.NewSlider(1, 60)
	_, width := s.Tool()
	slider.SetValue(width)
	slider.OnChanged = func(v float64) {
		s.SetWidth(v)
	}
	syncWidth := func() {
		_, w := s.Tool()
		slider.SetValue(w)
	}
	selectTool := func(t state.Tool) func() {
		return func() {
			s.SetTool(t)
			syncWidth()
		}
	}

	undo := widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
		s.Undo()
		board.changed()
	})
	redo := widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
		s.Redo()
		board.changed()
	})
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ColorPaletteIcon(), selectTool(state.ToolBrush)),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), selectTool(state.ToolPen)),
		widget.NewToolbarAction(theme.DeleteIcon(), selectTool(state.ToolEraser)),
		widget.NewToolbarSeparator(),
		undo,
		redo,
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { s.ZoomIn(); board.changed() }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { s.ZoomOut(); board.changed() }),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { s.ResetView(); board.changed() }),
	)
	if act.ResetImage != nil {
		tb.Append(widget.NewToolbarAction(theme.ViewRefreshIcon(), act.ResetImage))
	}
	if act.Save != nil {
		tb.Append(widget.NewToolbarAction(theme.DocumentSaveIcon(), act.Save))
	}
	if act.SaveVector != nil {
		tb.Append(widget.NewToolbarAction(theme.DocumentPrintIcon(), act.SaveVector))
	}
	if act.Favorite != nil {
		tb.Append(widget.NewToolbarAction(theme.ConfirmIcon(), act.Favorite))
	}

	// --- Color Palette ---
	chooser := newColorChooser(s.Color(), func(c string) {
		s.SetColor(c)
		syncWidth()
	})

	mode := widget.NewRadioGroup([]string{state.ModeDraw.String(), state.ModeMove.String()}, func(v string) {
		m, err := state.ParseMode(v)
		if err != nil {
			return
		}
		s.SetMode(m)
	})
	mode.Horizontal = true
	mode.Required = true
	mode.SetSelected(s.Mode().String())

	var lock *widget.Check
	lock = widget.NewCheck("Within lines", func(on bool) {
		s.SetConstrained(on)
		if on && !s.Constrained() {
			log.Printf("[UI] no line art to color within")
			lock.SetChecked(false)
		}
	})

	// --- Assemble everything ---
	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		chooser.colorControls(colors, act.Window),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), slider),
		widget.NewSeparator(),
		mode,
		lock,
		layout.NewSpacer(),
	)
}

// NewFillToolbar builds the controls for a fill board. Only the Window and
// Save actions apply.
func NewFillToolbar(board *FillBoard, colors []string, act Actions) fyne.CanvasObject {
	s := board.Session()
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
			if s.Undo() {
				board.Refresh()
			}
		}),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
			if s.Redo() {
				board.Refresh()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { s.ZoomIn(); board.Refresh() }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { s.ZoomOut(); board.Refresh() }),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { s.ResetView(); board.Refresh() }),
	)
	if act.Save != nil {
		tb.Append(widget.NewToolbarAction(theme.DocumentSaveIcon(), act.Save))
	}
	chooser := newColorChooser(s.Color(), s.SetColor)
	return container.NewHBox(tb, widget.NewSeparator(), chooser.colorControls(colors, act.Window), layout.NewSpacer())
}
