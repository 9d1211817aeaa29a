package svgfill

import (
	"fmt"
	"log"

	"github.com/tdewolff/parse/v2/strconv"

	"colorbook/internal/geom"
)

// args per command; curves and arcs are only followed to their end point
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'Z': 0,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7,
}

// PathClosed reports whether path data d is closed: its last command is a
// close-path, or its last computed point equals its first. Move, line,
// horizontal and vertical commands are interpreted; curves and arcs move the
// current point to their end point as if they were lines.
func PathClosed(d string) (bool, error) {
	pts, z, err := pathPoints(d)
	if err != nil {
		return false, err
	}
	if z {
		return true, nil
	}
	if len(pts) < 2 {
		return false, nil
	}
	return pts[0] == pts[len(pts)-1], nil
}

// pathPoints walks path data and returns every end point it reaches, and
// whether the last command is a close-path.
func pathPoints(d string) ([]geom.Point, bool, error) {
	var (
		pts     []geom.Point
		cur     geom.Point
		start   geom.Point
		cmd     byte
		lastCmd byte
		args    []float64
	)
	b := []byte(d)

	flush := func() error {
		up := upper(cmd)
		n := argCount[up]
		if n == 0 {
			if len(args) != 0 {
				return fmt.Errorf("path %q: unexpected number after %c", d, cmd)
			}
			return nil
		}
		if len(args) == 0 || len(args)%n != 0 {
			return fmt.Errorf("path %q: %c wants %d numbers, got %d", d, cmd, n, len(args))
		}
		rel := cmd != up
		for i := 0; i < len(args); i += n {
			a := args[i : i+n]
			base := cur
			if !rel {
				base = geom.Point{}
			}
			switch up {
			case 'M', 'L', 'T':
				cur = geom.Pt(base.X+a[0], base.Y+a[1])
			case 'H':
				cur.X = a[0]
				if rel {
					cur.X += base.X
				}
			case 'V':
				cur.Y = a[0]
				if rel {
					cur.Y += base.Y
				}
			case 'C':
				cur = geom.Pt(base.X+a[4], base.Y+a[5])
			case 'S', 'Q':
				cur = geom.Pt(base.X+a[2], base.Y+a[3])
			case 'A':
				cur = geom.Pt(base.X+a[5], base.Y+a[6])
			}
			// the first pair of a moveto starts a subpath
			if up == 'M' && i == 0 {
				start = cur
			}
			pts = append(pts, cur)
		}
		args = args[:0]
		return nil
	}

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case isCommand(c):
			if cmd != 0 {
				if err := flush(); err != nil {
					return nil, false, err
				}
			} else if upper(c) != 'M' {
				return nil, false, fmt.Errorf("path %q: must start with a moveto", d)
			}
			if upper(c) == 'Z' {
				cur = start
			}
			cmd = c
			lastCmd = c
			i++
		default:
			if cmd == 0 {
				return nil, false, fmt.Errorf("path %q: number before command", d)
			}
			f, n := strconv.ParseFloat(b[i:])
			if n == 0 {
				return nil, false, fmt.Errorf("path %q: bad character %q at %d", d, c, i)
			}
			args = append(args, f)
			i += n
		}
	}
	if cmd != 0 {
		if err := flush(); err != nil {
			return nil, false, err
		}
	}

	return pts, upper(lastCmd) == 'Z', nil
}

func isCommand(c byte) bool {
	_, ok := argCount[upper(c)]
	return ok && ((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'))
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// AllClosed reports whether every path element's data is closed. Unparsable
// data counts as open. The result is a warning for the user; coloring works
// on open paths too.
func (d *Document) AllClosed() bool {
	return len(d.OpenPaths()) == 0
}

// OpenPaths lists the paths whose data is not closed, in document order.
func (d *Document) OpenPaths() []RegionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var open []RegionID
	for _, r := range d.regions {
		if r.Kind != "path" {
			continue
		}
		data, ok := r.node.Get("d")
		if !ok || data == "" {
			continue
		}
		closed, err := PathClosed(data)
		if err != nil {
			log.Printf("[SVG] %s: %v", r.ID, err)
		}
		if !closed {
			log.Printf("[SVG] found unclosed path %s: %s", r.ID, data)
			open = append(open, r.ID)
		}
	}
	return open
}
