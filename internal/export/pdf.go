package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"colorbook/internal/paint"
	"colorbook/internal/state"
)

func newPage(w, h float64, title string) *gofpdf.Fpdf {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	if title != "" {
		p.SetTitle(title, true)
	}
	p.SetCreator("colorbook", true)
	p.AddPage()
	return p
}

// PDF writes img as a single page sized to the image, one point per pixel.
func PDF(w io.Writer, img image.Image, title string) error {
	b := img.Bounds()
	if b.Empty() {
		return ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode page image: %w", err)
	}

	p := newPage(float64(b.Dx()), float64(b.Dy()), title)
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("painting", opt, &buf)
	p.ImageOptions("painting", 0, 0, float64(b.Dx()), float64(b.Dy()), false, opt, 0, "")
	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// StrokesPDF writes the strokes as vector paths on a w x h page. Eraser
// strokes are painted in the paper color since PDF has no
// destination-out blending.
func StrokesPDF(out io.Writer, strokes []state.Stroke, w, h float64, paper string, brushOpacity float64) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("strokes pdf: invalid page size %gx%g", w, h)
	}
	p := newPage(w, h, "")
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, st := range strokes {
		if st.Len() == 0 {
			continue
		}
		ink := st.Color
		alpha := 1.0
		switch st.Tool {
		case state.ToolEraser:
			ink = paper
		case state.ToolBrush:
			alpha = brushOpacity
		}
		c := paint.MustParse(ink)
		p.SetAlpha(alpha, "Normal")
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetFillColor(int(c.R), int(c.G), int(c.B))
		p.SetLineWidth(st.Width)

		first := st.Point(0)
		if st.Len() == 1 {
			p.Circle(first.X, first.Y, st.Width/2, "F")
			continue
		}
		p.MoveTo(first.X, first.Y)
		for i := 1; i < st.Len(); i++ {
			pt := st.Point(i)
			p.LineTo(pt.X, pt.Y)
		}
		p.DrawPath("D")
	}
	p.SetAlpha(1, "Normal")
	if err := p.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
