package svgfill

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterize renders the document, current fills applied, into a w x h image
// mapped onto the document's viewBox.
func (d *Document) Rasterize(w, h int) (*image.RGBA, error) {
	d.mu.RLock()
	src := d.serialize()
	d.mu.RUnlock()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := drawSVG(img, src.Bytes()); err != nil {
		return nil, fmt.Errorf("rasterize svg: %w", err)
	}
	return img, nil
}

func drawSVG(dst draw.Image, src []byte) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(src), oksvg.IgnoreErrorMode)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	icon.SetTarget(0, 0, float64(b.Dx()), float64(b.Dy()))
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), scanner), 1)
	return nil
}

// hitMap holds, per pixel, 1 + the index of the topmost shape covering it.
type hitMap struct {
	w, h  int
	index []int32
}

// ElementAt returns the topmost rendered shape under (x, y) when the
// document is displayed at w x h. Shapes are tested by their painted area,
// fill and stroke alike.
func (d *Document) ElementAt(x, y float64, w, h int) (*Node, error) {
	hm, err := d.hits(w, h)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return nil, nil
	}
	ix, iy := int(x), int(y)
	if x < 0 || y < 0 || ix < 0 || iy < 0 || ix >= hm.w || iy >= hm.h {
		return nil, nil
	}
	i := hm.index[iy*hm.w+ix]
	if i == 0 {
		return nil, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.shapes[i-1], nil
}

// HitTest resolves a pointer position to a colorable region.
func (d *Document) HitTest(x, y float64, w, h int) (*Region, bool) {
	el, err := d.ElementAt(x, y, w, h)
	if err != nil || el == nil {
		return nil, false
	}
	return d.ResolveTarget(el)
}

func (d *Document) hits(w, h int) (*hitMap, error) {
	d.hitMu.Lock()
	defer d.hitMu.Unlock()
	if d.hitCache != nil && d.hitCache.w == w && d.hitCache.h == h {
		return d.hitCache, nil
	}

	hm := &hitMap{w: w, h: h, index: make([]int32, w*h)}
	cov := image.NewRGBA(image.Rect(0, 0, w, h))
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i, n := range d.shapes {
		for p := range cov.Pix {
			cov.Pix[p] = 0
		}
		if err := drawSVG(cov, d.isolate(n)); err != nil {
			return nil, fmt.Errorf("hit map for <%s>: %w", n.Tag(), err)
		}
		for p := 0; p < w*h; p++ {
			if cov.Pix[p*4+3] >= 0x80 {
				hm.index[p] = int32(i + 1)
			}
		}
	}
	d.hitCache = hm
	return hm, nil
}

// isolate builds a document that paints only n, solid, under the same
// viewport and ancestor transforms as in the full document. The whole shape
// is hittable whatever its current fill.
func (d *Document) isolate(n *Node) []byte {
	var chain []*Node
	for p := n.Parent; p != nil && p != d.root; p = p.Parent {
		chain = append(chain, p)
	}

	var buf bytes.Buffer
	writeStart(&buf, d.root.Name, d.root.Attr, false)
	for i := len(chain) - 1; i >= 0; i-- {
		g := &Node{Kind: ElementNode, Name: chainName(d.root)}
		if t, ok := chain[i].Get("transform"); ok {
			g.Set("transform", t)
		}
		writeStart(&buf, g.Name, g.Attr, false)
	}

	solid := &Node{Kind: ElementNode, Name: n.Name}
	for _, a := range n.Attr {
		switch a.Name.Local {
		case "fill", "stroke", "style", "class", "opacity", "fill-opacity", "stroke-opacity":
			continue
		}
		solid.Attr = append(solid.Attr, a)
	}
	solid.Set("fill", "#000000")
	solid.Set("stroke", "#000000")
	writeStart(&buf, solid.Name, solid.Attr, true)

	for range chain {
		buf.WriteString("</")
		writeName(&buf, chainName(d.root))
		buf.WriteByte('>')
	}
	buf.WriteString("</")
	writeName(&buf, d.root.Name)
	buf.WriteByte('>')
	return buf.Bytes()
}

// chainName is a <g> carrying the root's prefix.
func chainName(root *Node) xml.Name {
	return xml.Name{Space: root.Name.Space, Local: "g"}
}
