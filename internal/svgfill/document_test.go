package svgfill

import (
	"bytes"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flower = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100 100">
  <!-- petals -->
  <defs><rect id="ghost" x="0" y="0" width="5" height="5"/></defs>
  <rect id="bg" x="0" y="0" width="100" height="100" fill="#eeeeee"/>
  <g transform="translate(10,10)">
    <circle cx="40" cy="40" r="20"/>
    <ellipse cx="80" cy="10" rx="5" ry="5"/>
  </g>
  <path id="stem" d="M50 70 L50 95" stroke="green"/>
  <path d="M0,0 L10,0 L10,10 Z" stroke-width="2"/>
  <text x="1" y="1">a &amp; b</text>
</svg>`

func parseFlower(t *testing.T) *Document {
	t.Helper()
	d, err := ParseString(flower)
	require.NoError(t, err)
	return d
}

func TestParseIndexesRegions(t *testing.T) {
	d := parseFlower(t)
	regions := d.Regions()
	ids := make([]RegionID, len(regions))
	for i, r := range regions {
		ids[i] = r.ID
	}
	// the rect inside <defs> is never painted, so it is not a region
	assert.Equal(t, []RegionID{"bg", "region-1", "stem", "region-3"}, ids)
	assert.Equal(t, "circle", regions[1].Kind)
	assert.Len(t, d.Shapes(), 5, "ellipse is a shape but not a region")
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString(`<html></html>`)
	assert.ErrorIs(t, err, ErrNoRoot)
	_, err = ParseString(``)
	assert.ErrorIs(t, err, ErrNoRoot)
	_, err = ParseString(`<svg><rect></svg`)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	d := parseFlower(t)
	d.Normalize()

	fill, ok := d.Fill("bg")
	require.True(t, ok)
	assert.Equal(t, "#eeeeee", fill, "explicit fill kept")
	fill, _ = d.Fill("region-1")
	assert.Equal(t, DefaultFill, fill)

	stem, _ := d.Region("stem")
	stroke, _ := stem.Node().Get("stroke")
	assert.Equal(t, "green", stroke, "explicit stroke kept")
	circle, _ := d.Region("region-1")
	stroke, _ = circle.Node().Get("stroke")
	assert.Equal(t, DefaultStroke, stroke)

	out := d.String()
	assert.Contains(t, out, `<circle cx="40" cy="40" r="20" stroke="black" fill="white"/>`)
	assert.Contains(t, out, `<ellipse cx="80" cy="10" rx="5" ry="5"/>`, "ellipse untouched")
}

func TestRoundTripKeepsPrefixesAndText(t *testing.T) {
	d := parseFlower(t)
	out := d.String()
	assert.Contains(t, out, `xmlns:xlink="http://www.w3.org/1999/xlink"`)
	assert.Contains(t, out, `<!-- petals -->`)
	assert.Contains(t, out, `a &amp; b`)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"?>`))

	again, err := ParseString(out)
	require.NoError(t, err)
	assert.Equal(t, out, again.String())
}

func TestResolveTarget(t *testing.T) {
	d := parseFlower(t)
	shapes := d.Shapes()

	r, ok := d.ResolveTarget(shapes[1])
	require.True(t, ok)
	assert.Equal(t, RegionID("region-1"), r.ID)

	_, ok = d.ResolveTarget(shapes[2])
	assert.False(t, ok, "ellipse is not colorable")
	_, ok = d.ResolveTarget(d.Root())
	assert.False(t, ok)
	_, ok = d.ResolveTarget(nil)
	assert.False(t, ok)
}

func TestApplyFillUndoRedo(t *testing.T) {
	d := parseFlower(t)
	d.Normalize()
	circle, _ := d.Region("region-1")
	stem, _ := d.Region("stem")

	require.NoError(t, d.ApplyFill(circle, "#ff0000"))
	require.NoError(t, d.ApplyFill(stem, "#00ff00"))
	fill, _ := d.Fill("region-1")
	assert.Equal(t, "#ff0000", fill)
	assert.Contains(t, d.String(), `fill="#ff0000"`)

	assert.True(t, d.Undo())
	fill, _ = d.Fill("stem")
	assert.Equal(t, DefaultFill, fill)
	assert.True(t, d.Undo())
	fill, _ = d.Fill("region-1")
	assert.Equal(t, DefaultFill, fill)
	assert.False(t, d.Undo())

	assert.True(t, d.Redo())
	fill, _ = d.Fill("region-1")
	assert.Equal(t, "#ff0000", fill)

	// a new fill branches the history
	require.NoError(t, d.ApplyFill(circle, "blue"))
	assert.False(t, d.Redo())
	assert.False(t, d.CanRedo())
}

func TestApplyFillWithoutPriorFill(t *testing.T) {
	d := parseFlower(t)
	circle, _ := d.Region("region-1")
	_, ok := d.Fill("region-1")
	require.False(t, ok)

	rev := d.Rev()
	require.NoError(t, d.ApplyFill(circle, "red"))
	assert.Greater(t, d.Rev(), rev)
	d.Undo()
	_, ok = d.Fill("region-1")
	assert.False(t, ok, "undo restores the missing fill")
	assert.NotContains(t, d.String(), `r="20" fill=`)
}

func TestApplyFillErrors(t *testing.T) {
	d := parseFlower(t)
	assert.ErrorIs(t, d.ApplyFill(nil, "red"), ErrNotColorable)
	assert.ErrorIs(t, d.ApplyFill(&Region{ID: "nope"}, "red"), ErrNoRegion)

	bg, _ := d.Region("bg")
	require.NoError(t, d.ApplyFill(bg, "#eeeeee"))
	assert.False(t, d.CanUndo(), "same color is not an edit")
}

func TestAllClosed(t *testing.T) {
	d := parseFlower(t)
	assert.False(t, d.AllClosed())
	assert.Equal(t, []RegionID{"stem"}, d.OpenPaths())

	closed, err := ParseString(`<svg viewBox="0 0 10 10"><path d="M0,0 L10,0 L10,10 Z"/><circle r="1"/></svg>`)
	require.NoError(t, err)
	assert.True(t, closed.AllClosed())
}

func TestViewBoxFromSize(t *testing.T) {
	d, err := ParseString(`<svg width="200px" height="100"><rect width="1" height="1"/></svg>`)
	require.NoError(t, err)
	vb, ok := d.Root().Get("viewBox")
	require.True(t, ok)
	assert.Equal(t, "0 0 200 100", vb)
}

func TestViewBoxFromShapes(t *testing.T) {
	d, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%">
  <rect id="page" x="0" y="0" width="100" height="100"/>
  <polygon points="10,10 120,20 30,40"/>
  <path id="wave" d="M0 0 L20 130"/>
</svg>`)
	require.NoError(t, err)
	vb, ok := d.Root().Get("viewBox")
	require.True(t, ok)
	assert.Equal(t, "0 0 120 130", vb)

	r, ok := d.HitTest(5, 5, 120, 130)
	require.True(t, ok)
	assert.Equal(t, RegionID("page"), r.ID)
}

func TestPercentSizeWithViewBox(t *testing.T) {
	d, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="0 0 50 50">
  <rect id="page" x="0" y="0" width="50" height="50"/>
</svg>`)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(d.String(), `<svg viewBox="0 0 50 50" xmlns=`))

	r, ok := d.HitTest(40, 40, 100, 100)
	require.True(t, ok)
	assert.Equal(t, RegionID("page"), r.ID)
}

func TestViewBoxUnknownWithoutShapes(t *testing.T) {
	d, err := ParseString(`<svg width="100%"><text>hi</text></svg>`)
	require.NoError(t, err)
	_, ok := d.Root().Get("viewBox")
	assert.False(t, ok)
}

const squares = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect id="left" x="0" y="0" width="50" height="100" fill="white"/>
  <rect id="right" x="50" y="0" width="50" height="100" fill="white"/>
  <g transform="translate(50,50)"><circle id="dot" cx="0" cy="0" r="10" fill="white"/></g>
  <ellipse cx="10" cy="90" rx="8" ry="8" fill="white"/>
</svg>`

func TestHitTest(t *testing.T) {
	d, err := ParseString(squares)
	require.NoError(t, err)

	r, ok := d.HitTest(20, 20, 100, 100)
	require.True(t, ok)
	assert.Equal(t, RegionID("left"), r.ID)

	r, ok = d.HitTest(80, 20, 100, 100)
	require.True(t, ok)
	assert.Equal(t, RegionID("right"), r.ID)

	// the circle is drawn last and sits on top, through its group transform
	r, ok = d.HitTest(52, 50, 100, 100)
	require.True(t, ok)
	assert.Equal(t, RegionID("dot"), r.ID)

	// ellipse is on top but is not colorable
	_, ok = d.HitTest(10, 90, 100, 100)
	assert.False(t, ok)

	_, ok = d.HitTest(-5, 20, 100, 100)
	assert.False(t, ok)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, ok = d.HitTest(bad, 5, 10, 10)
		assert.False(t, ok)
		_, ok = d.HitTest(5, bad, 10, 10)
		assert.False(t, ok)
	}

	// display size scales the hit map
	r, ok = d.HitTest(160, 40, 200, 200)
	require.True(t, ok)
	assert.Equal(t, RegionID("right"), r.ID)
}

func TestRasterize(t *testing.T) {
	d, err := ParseString(squares)
	require.NoError(t, err)
	left, _ := d.Region("left")
	require.NoError(t, d.ApplyFill(left, "#ff0000"))

	img, err := d.Rasterize(100, 100)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(80, 20))

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `id="left" x="0" y="0" width="50" height="100" fill="#ff0000"`)
}
