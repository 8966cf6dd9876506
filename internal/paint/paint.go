// Package paint turns a laid-out box tree into a flat list of filled
// rectangles, the only paint primitive the box model needs. Renderers in
// internal/render replay the list onto a concrete surface.
package paint

import (
	"image/color"

	"github.com/gompdf/gomlayout/internal/css/values"
	"github.com/gompdf/gomlayout/internal/layout"
	"github.com/gompdf/gomlayout/internal/style"
)

// Command fills Rect with Color. Coordinates are CSS px.
type Command struct {
	Rect  layout.Rect
	Color color.NRGBA
}

// DisplayList is the paint commands of a document in painting order.
type DisplayList struct {
	Canvas   layout.Size
	Commands []Command
}

// BuildDisplayList walks root in document order. The root background
// covers the whole canvas; when the root's is transparent, a body
// element's background is used instead and body paints none of its own.
// Every other box paints its background over the border box, followed by
// its four border sides.
func BuildDisplayList(root layout.Box, canvas layout.Size) *DisplayList {
	dl := &DisplayList{Canvas: canvas}
	canvasOwner := canvasBackground(root)
	if canvasOwner != nil {
		dl.fill(layout.Rect{Width: canvas.Width, Height: canvas.Height}, canvasOwner.Style().BackgroundColor)
	}

	layout.Walk(root, func(b layout.Box, _ int) bool {
		cv := b.Style()
		if b != canvasOwner && !b.IsRoot() {
			dl.fill(b.Dimensions().BorderBox(), cv.BackgroundColor)
		}
		dl.borders(b.Dimensions(), cv)
		return true
	})
	return dl
}

func canvasBackground(root layout.Box) layout.Box {
	if !root.IsRoot() {
		return nil
	}
	if !root.Style().BackgroundColor.IsTransparent() {
		return root
	}
	for _, c := range root.Children() {
		if n := c.Node(); n != nil && n.IsElement() && n.LocalName() == "body" {
			if !c.Style().BackgroundColor.IsTransparent() {
				return c
			}
			break
		}
	}
	return root
}

func (dl *DisplayList) fill(r layout.Rect, c values.Color) {
	if c.IsTransparent() || r.Width <= 0 || r.Height <= 0 {
		return
	}
	dl.Commands = append(dl.Commands, Command{Rect: r, Color: c.RGBA})
}

// borders paints the sides top, right, bottom, left. Horizontal sides span
// the full border box; vertical sides fit between them.
func (dl *DisplayList) borders(d *layout.Dimensions, cv *style.ComputedValues) {
	bb := d.BorderBox()
	w := d.Border
	inner := bb.Height - w.Top - w.Bottom
	rects := [4]layout.Rect{
		values.Top:    {X: bb.X, Y: bb.Y, Width: bb.Width, Height: w.Top},
		values.Right:  {X: bb.X + bb.Width - w.Right, Y: bb.Y + w.Top, Width: w.Right, Height: inner},
		values.Bottom: {X: bb.X, Y: bb.Y + bb.Height - w.Bottom, Width: bb.Width, Height: w.Bottom},
		values.Left:   {X: bb.X, Y: bb.Y + w.Top, Width: w.Left, Height: inner},
	}
	for _, side := range values.Sides {
		if !cv.BorderStyle[side].Visible() {
			continue
		}
		dl.fill(rects[side], cv.BorderColor[side].Resolve(cv.Color))
	}
}
