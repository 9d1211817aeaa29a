package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colorbook/internal/state"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts := cfg.EditorOptions()
	assert.Equal(t, 800, opts.Width)
	assert.Equal(t, state.ToolPen, opts.Tool)
	assert.Equal(t, 20.0, opts.Widths[state.ToolBrush])
	assert.Equal(t, 5.0, opts.Widths[state.ToolPen])
	assert.Equal(t, 20.0, opts.Widths[state.ToolEraser])
	assert.Equal(t, 0.5, opts.MinScale)
	assert.Equal(t, 3.0, opts.MaxScale)
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "cb.toml", `
color = "#ff0000"

[canvas]
width = 1024
height = 768

[zoom]
max = 4.0

[tools]
default = "brush"
brush = 30

[mask]
threshold = 16
luminance = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 4.0, cfg.Zoom.Max)
	assert.Equal(t, 0.5, cfg.Zoom.Min)
	assert.Equal(t, 30.0, cfg.Tools.Brush)
	assert.Equal(t, 5.0, cfg.Tools.Pen)
	assert.Equal(t, uint8(16), cfg.Mask.Threshold)
	assert.True(t, cfg.Mask.Luminance)
	assert.Equal(t, state.ToolBrush, cfg.EditorOptions().Tool)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "cb.yml", `
canvas:
  width: 640
  height: 480
palette: ["red", "#00f"]
render:
  brush_opacity: 0.25
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Canvas.Width)
	assert.Equal(t, []string{"red", "#00f"}, cfg.Palette)
	assert.Equal(t, 0.25, cfg.Render.BrushOpacity)
	assert.Equal(t, "white", cfg.Render.Paper)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(write(t, "cb.json", `{}`))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(write(t, "bad.yaml", "zoom:\n  min: 2\n  max: 1\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "typo.yaml", "colour: red\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "broken.toml", "canvas = ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"inverted zoom":  func(c *Config) { c.Zoom.Min, c.Zoom.Max = 3, 0.5 },
		"zero zoom":      func(c *Config) { c.Zoom.Min = 0 },
		"zero width":     func(c *Config) { c.Tools.Pen = 0 },
		"bad canvas":     func(c *Config) { c.Canvas.Height = -1 },
		"bad tool":       func(c *Config) { c.Tools.Default = "crayon" },
		"bad color":      func(c *Config) { c.Color = "#zzz" },
		"bad palette":    func(c *Config) { c.Palette = append(c.Palette, "notacolor") },
		"opacity":        func(c *Config) { c.Render.BrushOpacity = 1.5 },
		"transparent ok": nil,
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			if mutate == nil {
				cfg.Render.Paper = "transparent"
				assert.NoError(t, cfg.Validate())
				return
			}
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
