package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineArt returns a transparent w x h image with a vertical line at x = col.
func lineArt(w, h, col int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		img.SetNRGBA(col, y, color.NRGBA{A: 0xff})
	}
	return img
}

func TestEmptyMaskIsNeverBoundary(t *testing.T) {
	var m *Mask
	assert.True(t, m.Empty())
	for _, p := range [][2]float64{{0, 0}, {5, 5}, {-1, 3}, {1e9, 1e9}} {
		assert.False(t, m.IsBoundary(p[0], p[1]))
	}
	assert.False(t, (&Mask{}).IsBoundary(0, 0))
}

func TestBuildAndQuery(t *testing.T) {
	m, err := Build(lineArt(10, 10, 4), 10, 10, Options{})
	require.NoError(t, err)

	w, h := m.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)

	assert.True(t, m.IsBoundary(4, 0))
	assert.True(t, m.IsBoundary(4.9, 9.5))
	assert.False(t, m.IsBoundary(3, 5))
	assert.False(t, m.IsBoundary(5, 5))
	// out of range is not a boundary
	assert.False(t, m.IsBoundary(4, -1))
	assert.False(t, m.IsBoundary(4, 10))
}

func TestThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 10})
	img.SetNRGBA(1, 0, color.NRGBA{A: 200})

	m, err := Build(img, 2, 1, Options{})
	require.NoError(t, err)
	assert.True(t, m.IsBoundary(0, 0))

	m, err = Build(img, 2, 1, Options{Threshold: 100})
	require.NoError(t, err)
	assert.False(t, m.IsBoundary(0, 0))
	assert.True(t, m.IsBoundary(1, 0))
}

func TestLuminance(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{A: 255})

	m, err := Build(img, 2, 1, Options{Luminance: true, Threshold: 16})
	require.NoError(t, err)
	assert.False(t, m.IsBoundary(0, 0))
	assert.True(t, m.IsBoundary(1, 0))
}

func TestBuildResizes(t *testing.T) {
	m, err := Build(lineArt(4, 4, 0), 8, 8, Options{})
	require.NoError(t, err)
	w, h := m.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)
	assert.True(t, m.IsBoundary(0, 4))
	assert.False(t, m.IsBoundary(7, 4))
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, 10, 10, Options{})
	assert.ErrorIs(t, err, ErrEmptySource)
	_, err = Build(lineArt(2, 2, 0), 0, 10, Options{})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, lineArt(6, 6, 2)))

	m, err := Decode(&buf, 6, 6, Options{})
	require.NoError(t, err)
	assert.True(t, m.IsBoundary(2, 3))

	_, err = Decode(strings.NewReader("not an image"), 6, 6, Options{})
	assert.Error(t, err)
}
