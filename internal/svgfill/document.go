// Package svgfill implements SVG coloring: a parsed document whose
// colorable shapes are regions with an explicit, undoable fill map.
package svgfill

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"colorbook/internal/state"
)

var (
	ErrNoRoot       = errors.New("svg: document has no root element")
	ErrNotColorable = errors.New("svg: element is not colorable")
	ErrNoRegion     = errors.New("svg: no such region")
)

// NodeKind tells element nodes apart from the text-like nodes kept for
// round-tripping.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Node is one node of the document tree. Names keep their raw prefix
// ("xlink:href" has Space "xlink"), so the tree serializes back unchanged.
type Node struct {
	Kind     NodeKind
	Name     xml.Name
	Attr     []xml.Attr
	Children []*Node
	Parent   *Node
	Data     string
}

// Tag returns the element name without prefix.
func (n *Node) Tag() string { return n.Name.Local }

// Get returns the value of the unprefixed attribute name.
func (n *Node) Get(name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Set replaces or appends the unprefixed attribute name.
func (n *Node) Set(name, value string) {
	for i, a := range n.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Document is a parsed SVG ready for coloring. It is safe for concurrent use.
type Document struct {
	mu sync.RWMutex

	nodes   []*Node // top level: prolog, root element, trailing comments
	root    *Node
	shapes  []*Node // rendered shape elements in paint order
	regions []*Region
	byID    map[RegionID]*Region
	byNode  map[*Node]*Region

	fills   map[RegionID]string
	history state.History[FillEdit]
	clock   state.Clock

	// shape geometry never changes, so hit maps are kept per display size
	hitMu    sync.Mutex
	hitCache *hitMap
}

// Parse reads an SVG document.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	d := &Document{}

	var cur *Node
	appendNode := func(n *Node) {
		if cur == nil {
			d.nodes = append(d.nodes, n)
			return
		}
		n.Parent = cur
		cur.Children = append(cur.Children, n)
	}
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		switch t := xml.CopyToken(tok).(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: t.Name, Attr: t.Attr}
			appendNode(n)
			if cur == nil && d.root == nil {
				d.root = n
			}
			cur = n
		case xml.EndElement:
			if cur == nil {
				return nil, fmt.Errorf("parse svg: unexpected </%s>", t.Name.Local)
			}
			cur = cur.Parent
		case xml.CharData:
			if cur == nil && len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			appendNode(&Node{Kind: TextNode, Data: string(t)})
		case xml.Comment:
			appendNode(&Node{Kind: CommentNode, Data: string(t)})
		case xml.ProcInst:
			appendNode(&Node{Kind: ProcInstNode, Name: xml.Name{Local: t.Target}, Data: string(t.Inst)})
		case xml.Directive:
			appendNode(&Node{Kind: DirectiveNode, Data: string(t)})
		}
	}
	if d.root == nil || d.root.Tag() != "svg" {
		return nil, ErrNoRoot
	}
	ensureViewBox(d.root)
	d.index()
	d.fitViewBox()
	hoistViewBox(d.root)
	return d, nil
}

// ParseString is Parse for in-memory documents.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ensureViewBox derives a viewBox from numeric width and height, so the
// document can be scaled to any display size.
func ensureViewBox(root *Node) {
	if _, ok := root.Get("viewBox"); ok {
		return
	}
	w, okW := root.Get("width")
	h, okH := root.Get("height")
	if !okW || !okH {
		return
	}
	fw, okW := parseNumber(w)
	fh, okH := parseNumber(h)
	if !okW || !okH || fw <= 0 || fh <= 0 {
		return
	}
	root.Set("viewBox", fmt.Sprintf("0 0 %g %g", fw, fh))
}

// hidden elements hold shapes that are only referenced, never painted.
var hidden = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true,
	"pattern": true, "marker": true, "linearGradient": true, "radialGradient": true,
}

var shapeTags = map[string]bool{
	"path": true, "circle": true, "rect": true,
	"ellipse": true, "line": true, "polyline": true, "polygon": true,
}

// colorable is the set of shapes a pointer hit may fill.
var colorable = map[string]bool{"path": true, "circle": true, "rect": true}

func (d *Document) index() {
	d.shapes = nil
	d.regions = nil
	d.byID = make(map[RegionID]*Region)
	d.byNode = make(map[*Node]*Region)
	d.fills = make(map[RegionID]string)

	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind != ElementNode || hidden[n.Tag()] {
			return
		}
		if shapeTags[n.Tag()] {
			d.shapes = append(d.shapes, n)
			if colorable[n.Tag()] {
				d.addRegion(n)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(d.root)
}

func (d *Document) addRegion(n *Node) {
	id := RegionID(fmt.Sprintf("region-%d", len(d.regions)))
	if v, ok := n.Get("id"); ok && v != "" {
		if _, dup := d.byID[RegionID(v)]; !dup {
			id = RegionID(v)
		}
	}
	r := &Region{ID: id, Kind: n.Tag(), node: n}
	d.regions = append(d.regions, r)
	d.byID[id] = r
	d.byNode[n] = r
	if fill, ok := n.Get("fill"); ok {
		d.fills[id] = fill
	}
}

// Root returns the <svg> element.
func (d *Document) Root() *Node { return d.root }

// Shapes returns the rendered shape elements in paint order.
func (d *Document) Shapes() []*Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Node(nil), d.shapes...)
}

// Rev changes whenever a fill changes.
func (d *Document) Rev() uint64 { return d.clock.Now() }

// WriteTo serializes the document with the current fills applied.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.RLock()
	buf := d.serialize()
	d.mu.RUnlock()
	return buf.WriteTo(w)
}

// serialize requires d.mu to be held.
func (d *Document) serialize() *bytes.Buffer {
	var buf bytes.Buffer
	for _, n := range d.nodes {
		d.writeNode(&buf, n)
	}
	return &buf
}

// String returns the serialized document.
func (d *Document) String() string {
	var sb strings.Builder
	d.WriteTo(&sb)
	return sb.String()
}

func (d *Document) writeNode(buf *bytes.Buffer, n *Node) {
	switch n.Kind {
	case TextNode:
		xml.EscapeText(buf, []byte(n.Data))
	case CommentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")
	case ProcInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.Name.Local)
		if n.Data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Data)
		}
		buf.WriteString("?>")
	case DirectiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.Data)
		buf.WriteByte('>')
	case ElementNode:
		attrs := n.Attr
		if r, ok := d.byNode[n]; ok {
			attrs = withFill(attrs, d.fills, r.ID)
		}
		writeStart(buf, n.Name, attrs, len(n.Children) == 0)
		if len(n.Children) == 0 {
			return
		}
		for _, c := range n.Children {
			d.writeNode(buf, c)
		}
		buf.WriteString("</")
		writeName(buf, n.Name)
		buf.WriteByte('>')
	}
}

func withFill(attrs []xml.Attr, fills map[RegionID]string, id RegionID) []xml.Attr {
	fill, ok := fills[id]
	out := make([]xml.Attr, 0, len(attrs)+1)
	found := false
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == "fill" {
			found = true
			if !ok {
				continue
			}
			a.Value = fill
		}
		out = append(out, a)
	}
	if ok && !found {
		out = append(out, xml.Attr{Name: xml.Name{Local: "fill"}, Value: fill})
	}
	return out
}

func writeStart(buf *bytes.Buffer, name xml.Name, attrs []xml.Attr, selfClose bool) {
	buf.WriteByte('<')
	writeName(buf, name)
	for _, a := range attrs {
		buf.WriteByte(' ')
		writeName(buf, a.Name)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if selfClose {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
}

func writeName(buf *bytes.Buffer, name xml.Name) {
	if name.Space != "" {
		buf.WriteString(name.Space)
		buf.WriteByte(':')
	}
	buf.WriteString(name.Local)
}
