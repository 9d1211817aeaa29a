package svgfill

import (
	"fmt"
	"log"
)

// RegionID names a colorable shape: its id attribute when present and
// unique, "region-N" in document order otherwise.
type RegionID string

// Region is one colorable shape (path, circle or rect).
type Region struct {
	ID   RegionID
	Kind string
	node *Node
}

// Node returns the element behind the region.
func (r *Region) Node() *Node { return r.node }

// FillEdit is one undoable fill change.
type FillEdit struct {
	Region  RegionID
	Prev    string
	HadPrev bool
	Next    string
}

const (
	DefaultFill   = "white"
	DefaultStroke = "black"
)

// Normalize gives every colorable element without a fill a white fill and
// without a stroke a black stroke, so unstyled shapes are visible and
// clickable. It is preprocessing, not an edit, and is not undoable.
func (d *Document) Normalize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.regions {
		if _, ok := d.fills[r.ID]; !ok {
			d.fills[r.ID] = DefaultFill
		}
		if _, ok := r.node.Get("stroke"); !ok {
			r.node.Set("stroke", DefaultStroke)
		}
	}
	d.clock.Tick()
}

// Regions returns every colorable region in document order.
func (d *Document) Regions() []*Region {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]*Region(nil), d.regions...)
}

// Region looks a region up by id.
func (d *Document) Region(id RegionID) (*Region, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byID[id]
	return r, ok
}

// ResolveTarget returns the region for the element under a pointer hit, or
// false when the element is not one of the colorable kinds.
func (d *Document) ResolveTarget(el *Node) (*Region, bool) {
	if el == nil || el.Kind != ElementNode || !colorable[el.Tag()] {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.byNode[el]
	return r, ok
}

// Fill returns the current fill of a region.
func (d *Document) Fill(id RegionID) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.fills[id]
	return f, ok
}

// ApplyFill sets the fill of target to color. The change is recorded for
// undo and clears any redo history. Refilling with the same color is a no-op.
func (d *Document) ApplyFill(target *Region, color string) error {
	if target == nil {
		return ErrNotColorable
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[target.ID]; !ok {
		return fmt.Errorf("apply fill %s: %w", target.ID, ErrNoRegion)
	}
	prev, had := d.fills[target.ID]
	if had && prev == color {
		return nil
	}
	d.history.Push(FillEdit{Region: target.ID, Prev: prev, HadPrev: had, Next: color})
	d.fills[target.ID] = color
	d.clock.Tick()
	log.Printf("[SVG] fill %s: %q -> %q", target.ID, prev, color)
	return nil
}

// Undo reverts the most recent fill.
func (d *Document) Undo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.history.Undo()
	if !ok {
		return false
	}
	if e.HadPrev {
		d.fills[e.Region] = e.Prev
	} else {
		delete(d.fills, e.Region)
	}
	d.clock.Tick()
	return true
}

// Redo re-applies the most recently undone fill.
func (d *Document) Redo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.history.Redo()
	if !ok {
		return false
	}
	d.fills[e.Region] = e.Next
	d.clock.Tick()
	return true
}

func (d *Document) CanUndo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.CanUndo()
}

func (d *Document) CanRedo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.history.CanRedo()
}
