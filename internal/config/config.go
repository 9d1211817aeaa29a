// Package config loads editor settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"colorbook/internal/editor"
	"colorbook/internal/mask"
	"colorbook/internal/paint"
	"colorbook/internal/render"
	"colorbook/internal/state"
	"colorbook/internal/viewport"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

var ErrUnknownFormat = errors.New("config: unknown file format")

type Canvas struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

type Zoom struct {
	Min float64 `toml:"min" yaml:"min"`
	Max float64 `toml:"max" yaml:"max"`
}

// Tools holds the width each tool starts with and the tool selected at
// startup.
type Tools struct {
	Default string  `toml:"default" yaml:"default"`
	Brush   float64 `toml:"brush" yaml:"brush"`
	Pen     float64 `toml:"pen" yaml:"pen"`
	Eraser  float64 `toml:"eraser" yaml:"eraser"`
}

type Mask struct {
	Threshold uint8 `toml:"threshold" yaml:"threshold"`
	Luminance bool  `toml:"luminance" yaml:"luminance"`
}

type Render struct {
	BrushOpacity float64 `toml:"brush_opacity" yaml:"brush_opacity"`
	Tension      float64 `toml:"tension" yaml:"tension"`
	Paper        string  `toml:"paper" yaml:"paper"`
}

type Config struct {
	Canvas  Canvas   `toml:"canvas" yaml:"canvas"`
	Zoom    Zoom     `toml:"zoom" yaml:"zoom"`
	Tools   Tools    `toml:"tools" yaml:"tools"`
	Color   string   `toml:"color" yaml:"color"`
	Palette []string `toml:"palette" yaml:"palette"`
	Mask    Mask     `toml:"mask" yaml:"mask"`
	Render  Render   `toml:"render" yaml:"render"`
}

func Default() Config {
	return Config{
		Canvas: Canvas{Width: DefaultWidth, Height: DefaultHeight},
		Zoom:   Zoom{Min: viewport.DefaultMinScale, Max: viewport.DefaultMaxScale},
		Tools:  Tools{Default: string(state.ToolPen), Brush: 20, Pen: 5, Eraser: 20},
		Color:  "#000000",
		Palette: []string{
			"#000000", "#ff0000", "#ff9800", "#ffeb3b", "#4caf50",
			"#2196f3", "#3f51b5", "#9c27b0", "#795548", "#ffffff",
		},
		Render: Render{BrushOpacity: 0.5, Tension: 0.5, Paper: "white"},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			log.Printf("[CONFIG] ignoring unknown keys in %s: %v", path, undec)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("load config %s: %w", path, ErrUnknownFormat)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	log.Printf("[CONFIG] loaded %s", path)
	return cfg, nil
}

// Validate rejects settings the editor cannot run with.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Zoom.Min <= 0 || c.Zoom.Min > c.Zoom.Max {
		return fmt.Errorf("zoom bounds [%g, %g] are invalid", c.Zoom.Min, c.Zoom.Max)
	}
	if c.Tools.Brush <= 0 || c.Tools.Pen <= 0 || c.Tools.Eraser <= 0 {
		return fmt.Errorf("tool widths must be positive")
	}
	if _, err := state.ParseTool(c.Tools.Default); err != nil {
		return err
	}
	if _, err := paint.Parse(c.Color); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	for _, p := range c.Palette {
		if _, err := paint.Parse(p); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}
	if c.Render.BrushOpacity < 0 || c.Render.BrushOpacity > 1 {
		return fmt.Errorf("brush opacity %g is outside [0, 1]", c.Render.BrushOpacity)
	}
	if _, err := paint.Parse(c.Render.Paper); err != nil {
		return fmt.Errorf("paper: %w", err)
	}
	return nil
}

// EditorOptions converts the settings for a drawing session. c should be
// valid.
func (c Config) EditorOptions() editor.Options {
	tool, _ := state.ParseTool(c.Tools.Default)
	return editor.Options{
		Width:    c.Canvas.Width,
		Height:   c.Canvas.Height,
		MinScale: c.Zoom.Min,
		MaxScale: c.Zoom.Max,
		Widths: map[state.Tool]float64{
			state.ToolBrush:  c.Tools.Brush,
			state.ToolPen:    c.Tools.Pen,
			state.ToolEraser: c.Tools.Eraser,
		},
		Color: c.Color,
		Tool:  tool,
		Mask:  mask.Options{Threshold: c.Mask.Threshold, Luminance: c.Mask.Luminance},
		Render: render.Options{
			BrushOpacity: c.Render.BrushOpacity,
			Tension:      c.Render.Tension,
			Paper:        paint.MustParse(c.Render.Paper),
		},
	}
}
