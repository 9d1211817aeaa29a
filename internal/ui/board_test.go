package ui

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorbook/internal/editor"
	"colorbook/internal/paint"
	"colorbook/internal/state"
)

func press(pos fyne.Position) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: pos}, Button: desktop.MouseButtonPrimary}
}

func newTestBoard(t *testing.T) *Board {
	test.NewTempApp(t)
	opts := editor.DefaultOptions()
	opts.Width, opts.Height = 200, 200
	return NewBoard(editor.NewSession(opts))
}

func TestBoardDrawsStroke(t *testing.T) {
	b := newTestBoard(t)
	changes := 0
	b.OnChange = func() { changes++ }

	b.MouseDown(press(fyne.NewPos(10, 10)))
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 20)}})
	b.MouseUp(press(fyne.NewPos(40, 20)))

	strokes := b.Session().Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, []float64{10, 10, 40, 20}, strokes[0].Points)
	assert.Equal(t, 3, changes)
}

func TestBoardIgnoresSecondaryButton(t *testing.T) {
	b := newTestBoard(t)
	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)}, Button: desktop.MouseButtonSecondary})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 20)}})
	assert.Empty(t, b.Session().Strokes())
}

func TestBoardMouseOutEndsStroke(t *testing.T) {
	b := newTestBoard(t)
	b.MouseDown(press(fyne.NewPos(10, 10)))
	b.MouseOut()
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 20)}})
	assert.Equal(t, []float64{10, 10}, b.Session().Strokes()[0].Points)
}

func TestBoardWheelZoomsInMoveMode(t *testing.T) {
	b := newTestBoard(t)
	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	assert.Equal(t, 1.0, b.Session().View().Scale)

	b.Session().SetMode(state.ModeMove)
	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	assert.InDelta(t, 1.2, b.Session().View().Scale, 1e-9)
}

func TestToolbarPalette(t *testing.T) {
	b := newTestBoard(t)
	b.Session().SetTool(state.ToolEraser)
	bar := NewToolbar(b, []string{"#ff0000"}, Actions{})
	w := test.NewWindow(bar)
	defer w.Close()

	rows := swatchRows(bar)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 1)
	test.Tap(rows[0][0])

	tool, _ := b.Session().Tool()
	assert.Equal(t, state.ToolBrush, tool)
	assert.Equal(t, "#ff0000", b.Session().Color())
}

// swatchRows returns the swatches of every container holding them, in
// layout order.
func swatchRows(o fyne.CanvasObject) [][]*colorSwatch {
	box, ok := o.(*fyne.Container)
	if !ok {
		return nil
	}
	var (
		rows [][]*colorSwatch
		row  []*colorSwatch
	)
	for _, child := range box.Objects {
		if s, ok := child.(*colorSwatch); ok {
			row = append(row, s)
			continue
		}
		rows = append(rows, swatchRows(child)...)
	}
	if len(row) > 0 {
		rows = append([][]*colorSwatch{row}, rows...)
	}
	return rows
}

func swatchValues(row []*colorSwatch) []string {
	out := make([]string, len(row))
	for i, s := range row {
		out[i] = s.Value
	}
	return out
}

func TestToolbarHarmonyFollowsColor(t *testing.T) {
	b := newTestBoard(t)
	bar := NewToolbar(b, []string{"#ff0000", "#0000ff"}, Actions{})
	w := test.NewWindow(bar)
	defer w.Close()

	rows := swatchRows(bar)
	require.Len(t, rows, 2)
	want, err := paint.Harmonious(b.Session().Color())
	require.NoError(t, err)
	assert.Equal(t, want, swatchValues(rows[1]))

	test.Tap(rows[0][1])
	assert.Equal(t, "#0000ff", b.Session().Color())
	rows = swatchRows(bar)
	want, err = paint.Harmonious("#0000ff")
	require.NoError(t, err)
	assert.Equal(t, want, swatchValues(rows[1]))

	// a harmony swatch becomes the current color and reseeds the row
	pick := rows[1][3].Value
	test.Tap(rows[1][3])
	assert.Equal(t, pick, b.Session().Color())
	want, err = paint.Harmonious(pick)
	require.NoError(t, err)
	assert.Equal(t, want, swatchValues(swatchRows(bar)[1]))
}

const page = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><rect id="box" x="0" y="0" width="100" height="100"/></svg>`

func TestFillBoardTap(t *testing.T) {
	test.NewTempApp(t)
	s, err := editor.NewFillSession(strings.NewReader(page), 100, 100, "#00ff00")
	require.NoError(t, err)
	b := NewFillBoard(s)

	b.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 50)})
	fill, _ := s.Document().Fill("box")
	assert.Equal(t, "#00ff00", fill)
}

func TestFillBoardWheelZoomsAboutCenter(t *testing.T) {
	test.NewTempApp(t)
	s, err := editor.NewFillSession(strings.NewReader(page), 100, 100, "#00ff00")
	require.NoError(t, err)
	b := NewFillBoard(s)

	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	assert.InDelta(t, 1.1, s.View().Scale, 1e-9)
	assert.InDelta(t, -5, s.View().Offset.X, 1e-9)

	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -1)})
	assert.InDelta(t, 1.0, s.View().Scale, 1e-9)
}

func TestFillToolbarHarmony(t *testing.T) {
	test.NewTempApp(t)
	s, err := editor.NewFillSession(strings.NewReader(page), 100, 100, "#00ff00")
	require.NoError(t, err)
	bar := NewFillToolbar(NewFillBoard(s), []string{"#ff0000"}, Actions{})

	rows := swatchRows(bar)
	require.Len(t, rows, 2)
	want, err := paint.Harmonious("#00ff00")
	require.NoError(t, err)
	assert.Equal(t, want, swatchValues(rows[1]))

	test.Tap(rows[1][1])
	assert.Equal(t, want[1], s.Color())
}
