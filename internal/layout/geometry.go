package layout

import (
	"github.com/gompdf/gomlayout/internal/css/values"
)

// Size is a width and height in px.
type Size struct {
	Width, Height float64
}

// Rect is a positioned rectangle in CSS px.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// ExpandedBy returns r grown outward by the given edges.
func (r Rect) ExpandedBy(e EdgeSizes) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Edge returns the coordinate of one side of r.
func (r Rect) Edge(side values.Side) float64 {
	switch side {
	case values.Top:
		return r.Y
	case values.Right:
		return r.X + r.Width
	case values.Bottom:
		return r.Y + r.Height
	}
	return r.X
}

// setExtent places r along the axis of start so that its start side sits at
// coordinate edge and it measures size along that axis. For right and
// bottom start sides the rectangle grows toward the origin.
func (r *Rect) setExtent(start values.Side, edge, size float64) {
	switch start {
	case values.Top:
		r.Y, r.Height = edge, size
	case values.Bottom:
		r.Y, r.Height = edge-size, size
	case values.Left:
		r.X, r.Width = edge, size
	case values.Right:
		r.X, r.Width = edge-size, size
	}
}

// progression is +1 when moving away from the start side increases the
// coordinate, -1 otherwise.
func progression(start values.Side) float64 {
	if start == values.Right || start == values.Bottom {
		return -1
	}
	return 1
}

// EdgeSizes holds per-side thicknesses of margins, borders or padding.
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// Get returns the thickness of one side.
func (e EdgeSizes) Get(side values.Side) float64 {
	switch side {
	case values.Top:
		return e.Top
	case values.Right:
		return e.Right
	case values.Bottom:
		return e.Bottom
	}
	return e.Left
}

// Set sets the thickness of one side.
func (e *EdgeSizes) Set(side values.Side, v float64) {
	switch side {
	case values.Top:
		e.Top = v
	case values.Right:
		e.Right = v
	case values.Bottom:
		e.Bottom = v
	default:
		e.Left = v
	}
}

// Logical returns the thickness of a flow-relative side.
func (e EdgeSizes) Logical(f Flow, s LogicalSide) float64 { return e.Get(f.Physical(s)) }

// SetLogical sets the thickness of a flow-relative side.
func (e *EdgeSizes) SetLogical(f Flow, s LogicalSide, v float64) { e.Set(f.Physical(s), v) }

// Dimensions is the physical geometry of a box. The content rectangle is
// the truth; the other boxes are derived by expanding it.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// PaddingBox is the content box expanded by padding.
func (d *Dimensions) PaddingBox() Rect { return d.Content.ExpandedBy(d.Padding) }

// BorderBox is the padding box expanded by borders.
func (d *Dimensions) BorderBox() Rect { return d.PaddingBox().ExpandedBy(d.Border) }

// MarginBox is the border box expanded by margins.
func (d *Dimensions) MarginBox() Rect { return d.BorderBox().ExpandedBy(d.Margin) }

// InlineSize returns the content size along the inline axis of f.
func (d *Dimensions) InlineSize(f Flow) float64 {
	if f.WritingMode.IsVertical() {
		return d.Content.Height
	}
	return d.Content.Width
}

// BlockSize returns the content size along the block axis of f.
func (d *Dimensions) BlockSize(f Flow) float64 {
	if f.WritingMode.IsVertical() {
		return d.Content.Width
	}
	return d.Content.Height
}

// marginBlockSize is the extent of the margin box along the block axis.
func (d *Dimensions) marginBlockSize(f Flow) float64 {
	mb := d.MarginBox()
	if f.WritingMode.IsVertical() {
		return mb.Width
	}
	return mb.Height
}

// LogicalSide is a flow-relative side.
type LogicalSide uint8

const (
	BlockStart LogicalSide = iota
	BlockEnd
	InlineStart
	InlineEnd
)

func (s LogicalSide) String() string {
	switch s {
	case BlockStart:
		return "block-start"
	case BlockEnd:
		return "block-end"
	case InlineStart:
		return "inline-start"
	}
	return "inline-end"
}

// Flow is a writing mode together with an inline base direction.
type Flow struct {
	WritingMode values.WritingMode
	Direction   values.Direction
}

// Physical maps a flow-relative side onto a physical one.
func (f Flow) Physical(s LogicalSide) values.Side {
	switch s {
	case BlockStart:
		return f.blockStart()
	case BlockEnd:
		return f.blockStart().Opposite()
	case InlineStart:
		return f.inlineStart()
	}
	return f.inlineStart().Opposite()
}

func (f Flow) blockStart() values.Side {
	switch f.WritingMode {
	case values.VerticalRL, values.SidewaysRL:
		return values.Right
	case values.VerticalLR, values.SidewaysLR:
		return values.Left
	}
	return values.Top
}

func (f Flow) inlineStart() values.Side {
	rtl := f.Direction == values.RTL
	switch f.WritingMode {
	case values.HorizontalTB:
		if rtl {
			return values.Right
		}
		return values.Left
	case values.SidewaysLR:
		if rtl {
			return values.Top
		}
		return values.Bottom
	}
	if rtl {
		return values.Bottom
	}
	return values.Top
}

// inlineSize is the size of r along the inline axis of f.
func (f Flow) inlineSize(r Rect) float64 {
	if f.WritingMode.IsVertical() {
		return r.Height
	}
	return r.Width
}

// sameBlockFlow reports whether boxes in g stack along the same axis and in
// the same direction as boxes in f.
func (f Flow) sameBlockFlow(g Flow) bool {
	return f.blockStart() == g.blockStart()
}
