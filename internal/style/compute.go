package style

import (
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/assert"
	"github.com/gompdf/gomlayout/internal/css/properties"
	"github.com/gompdf/gomlayout/internal/css/values"
	"github.com/gompdf/gomlayout/internal/parser/html"
)

// ComputedValues holds one computed value per supported longhand. Lengths
// are absolute px; percentages stay percentages until layout supplies a
// basis. Per-side values are indexed by values.Side.
type ComputedValues struct {
	BackgroundColor values.Color
	BorderColor     [4]values.Color
	BorderStyle     [4]values.BorderStyle
	BorderWidth     [4]float64
	BoxSizing       values.BoxSizing
	Color           values.Color
	Direction       values.Direction
	Display         values.Display
	FontSize        float64
	Height          values.Size
	Margin          [4]values.Size
	Padding         [4]values.Size
	Width           values.Size
	WritingMode     values.WritingMode
}

// InitialValues returns the values of an element with no declarations and
// no parent.
func InitialValues() *ComputedValues {
	return resolve(nil, values.DefaultFontSize, nil)
}

// AnonymousValues returns the style of a box that has no element: inherited
// properties come from parent, everything else is initial.
func AnonymousValues(parent *ComputedValues) *ComputedValues {
	return resolve(nil, values.DefaultFontSize, parent)
}

// AnonymousValues is the engine form of the package function, so the engine
// can serve as the box builder's style source.
func (e *StyleEngine) AnonymousValues(parent *ComputedValues) *ComputedValues {
	return AnonymousValues(parent)
}

// Computed returns the computed values of n, or nil before
// CascadeAndCompute has visited it.
func (e *StyleEngine) Computed(n *html.Node) *ComputedValues {
	return e.computed[n]
}

// CascadeAndCompute resolves computed values for every element under root,
// parents before children.
func (e *StyleEngine) CascadeAndCompute(root *html.Node) {
	rootFontSize := float64(values.DefaultFontSize)
	if de := documentElement(root); de != nil {
		if cv, ok := e.computed[de]; ok && de != root {
			rootFontSize = cv.FontSize
		}
	}

	var visit func(n *html.Node, parent *ComputedValues)
	visit = func(n *html.Node, parent *ComputedValues) {
		if n.IsElement() {
			if parent == nil && !n.IsRoot() {
				parent = e.computed[n.ParentElement()]
			}
			cv := e.compute(n, parent, rootFontSize)
			if n.IsRoot() {
				rootFontSize = cv.FontSize
			}
			parent = cv
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, parent)
		}
	}
	visit(root, nil)
	e.log.Debug("Computed styles", zap.Int("elements", len(e.computed)))
}

func documentElement(n *html.Node) *html.Node {
	for ; n != nil; n = n.Parent {
		if n.IsRoot() {
			return n
		}
	}
	return nil
}

func (e *StyleEngine) compute(n *html.Node, parent *ComputedValues, rootFontSize float64) *ComputedValues {
	decls := e.sorted(n)
	var winners [properties.Count]*ContextualDeclaration
	for i := range decls {
		winners[decls[i].ID] = &decls[i]
	}

	var specified [properties.Count]values.Specified
	for id, w := range winners {
		if w != nil {
			specified[id] = w.Value
		}
	}

	if e.prune {
		kept := decls[:0:0]
		for i := range decls {
			if winners[decls[i].ID] == &decls[i] {
				kept = append(kept, decls[i])
			}
		}
		e.decls[n] = kept
	}

	cv := resolve(&specified, rootFontSize, parent)
	e.computed[n] = cv
	return cv
}

// resolve computes values from the winning specified values. A nil
// specified array means no declarations at all. rootFontSize is the root
// element's font-size, which rem refers to; the root element itself uses
// the initial font-size for that.
func resolve(specified *[properties.Count]values.Specified, rootFontSize float64, parent *ComputedValues) *ComputedValues {
	r := resolver{
		parent:       parent,
		rootFontSize: rootFontSize,
		cv:           &ComputedValues{},
	}
	if specified != nil {
		r.specified = *specified
	}

	// font-size first: em units everywhere else refer to it. color second:
	// currentcolor refers to it.
	r.property(properties.FontSize)
	if parent == nil {
		r.rootFontSize = r.cv.FontSize
	}
	r.property(properties.Color)
	for _, id := range properties.All() {
		if id != properties.FontSize && id != properties.Color {
			r.property(id)
		}
	}

	for _, side := range values.Sides {
		if !r.cv.BorderStyle[side].Visible() {
			r.cv.BorderWidth[side] = 0
		}
	}
	return r.cv
}

type resolver struct {
	parent       *ComputedValues
	rootFontSize float64
	specified    [properties.Count]values.Specified
	cv           *ComputedValues
}

// property resolves one longhand: the winning value, else inheritance for
// inherited properties, else the initial value.
func (r *resolver) property(id properties.ID) {
	v := r.specified[id]
	inherit := false
	switch w := v.(type) {
	case nil:
		inherit = id.Inherited()
	case values.CSSWide:
		switch w {
		case values.Inherit:
			inherit = true
		case values.Unset:
			inherit = id.Inherited()
		}
		v = nil
	}
	if inherit && r.parent != nil {
		r.inherit(id)
		return
	}
	if v == nil {
		v = id.Initial()
	}
	r.set(id, v)
}

func (r *resolver) inherit(id properties.ID) {
	p, cv := r.parent, r.cv
	switch id {
	case properties.BackgroundColor:
		cv.BackgroundColor = p.BackgroundColor
	case properties.BorderTopColor, properties.BorderRightColor, properties.BorderBottomColor, properties.BorderLeftColor:
		side := values.Side(id - properties.BorderTopColor)
		cv.BorderColor[side] = p.BorderColor[side]
	case properties.BorderTopStyle, properties.BorderRightStyle, properties.BorderBottomStyle, properties.BorderLeftStyle:
		side := values.Side(id - properties.BorderTopStyle)
		cv.BorderStyle[side] = p.BorderStyle[side]
	case properties.BorderTopWidth, properties.BorderRightWidth, properties.BorderBottomWidth, properties.BorderLeftWidth:
		side := values.Side(id - properties.BorderTopWidth)
		cv.BorderWidth[side] = p.BorderWidth[side]
	case properties.BoxSizing:
		cv.BoxSizing = p.BoxSizing
	case properties.Color:
		cv.Color = p.Color
	case properties.Direction:
		cv.Direction = p.Direction
	case properties.Display:
		cv.Display = p.Display
	case properties.FontSize:
		cv.FontSize = p.FontSize
	case properties.Height:
		cv.Height = p.Height
	case properties.MarginTop, properties.MarginRight, properties.MarginBottom, properties.MarginLeft:
		side := values.Side(id - properties.MarginTop)
		cv.Margin[side] = p.Margin[side]
	case properties.PaddingTop, properties.PaddingRight, properties.PaddingBottom, properties.PaddingLeft:
		side := values.Side(id - properties.PaddingTop)
		cv.Padding[side] = p.Padding[side]
	case properties.Width:
		cv.Width = p.Width
	case properties.WritingMode:
		cv.WritingMode = p.WritingMode
	}
}

// set computes a specified value that is not a CSS-wide keyword.
func (r *resolver) set(id properties.ID, v values.Specified) {
	cv := r.cv
	ok := true
	switch id {
	case properties.BackgroundColor:
		cv.BackgroundColor, ok = r.color(v)
	case properties.BorderTopColor, properties.BorderRightColor, properties.BorderBottomColor, properties.BorderLeftColor:
		cv.BorderColor[id-properties.BorderTopColor], ok = r.color(v)
	case properties.BorderTopStyle, properties.BorderRightStyle, properties.BorderBottomStyle, properties.BorderLeftStyle:
		cv.BorderStyle[id-properties.BorderTopStyle], ok = v.(values.BorderStyle)
	case properties.BorderTopWidth, properties.BorderRightWidth, properties.BorderBottomWidth, properties.BorderLeftWidth:
		cv.BorderWidth[id-properties.BorderTopWidth], ok = r.borderWidth(v)
	case properties.BoxSizing:
		cv.BoxSizing, ok = v.(values.BoxSizing)
	case properties.Color:
		if c, isColor := v.(values.Color); isColor && c.Current {
			// color: currentcolor means the inherited color.
			if r.parent != nil {
				cv.Color = r.parent.Color
			} else {
				cv.Color = values.Black
			}
			break
		}
		cv.Color, ok = r.color(v)
	case properties.Direction:
		cv.Direction, ok = v.(values.Direction)
	case properties.Display:
		cv.Display, ok = v.(values.Display)
	case properties.FontSize:
		cv.FontSize, ok = r.fontSize(v)
	case properties.Height:
		cv.Height, ok = r.size(v, true)
	case properties.MarginTop, properties.MarginRight, properties.MarginBottom, properties.MarginLeft:
		cv.Margin[id-properties.MarginTop], ok = r.size(v, true)
	case properties.PaddingTop, properties.PaddingRight, properties.PaddingBottom, properties.PaddingLeft:
		cv.Padding[id-properties.PaddingTop], ok = r.size(v, false)
	case properties.Width:
		cv.Width, ok = r.size(v, true)
	case properties.WritingMode:
		cv.WritingMode, ok = v.(values.WritingMode)
	}
	assert.Invariant(ok, "%s cannot take the value %s", id, v)
}

func (r *resolver) parentFontSize() float64 {
	if r.parent == nil {
		return values.DefaultFontSize
	}
	return r.parent.FontSize
}

func (r *resolver) fontSize(v values.Specified) (float64, bool) {
	base := r.parentFontSize()
	switch v := v.(type) {
	case values.Keyword:
		switch v {
		case values.Larger:
			return base * values.FontSizeScale, true
		case values.Smaller:
			return base / values.FontSizeScale, true
		}
		return v.FontSize()
	case values.Length:
		if v.IsPercent() {
			return base * v.Value / 100, true
		}
		rem := r.rootFontSize
		if r.parent == nil {
			rem = values.DefaultFontSize
		}
		return v.ToPx(base, rem)
	}
	return 0, false
}

func (r *resolver) color(v values.Specified) (values.Color, bool) {
	c, ok := v.(values.Color)
	if !ok {
		return values.Color{}, false
	}
	return c.Resolve(r.cv.Color), true
}

func (r *resolver) borderWidth(v values.Specified) (float64, bool) {
	switch v := v.(type) {
	case values.Keyword:
		return v.BorderWidth()
	case values.Length:
		return v.ToPx(r.cv.FontSize, r.rootFontSize)
	}
	return 0, false
}

func (r *resolver) size(v values.Specified, allowAuto bool) (values.Size, bool) {
	switch v := v.(type) {
	case values.Keyword:
		if allowAuto && v == values.Auto {
			return values.AutoSize(), true
		}
	case values.Length:
		if v.IsPercent() {
			return values.PercentSize(v.Value), true
		}
		px, ok := v.ToPx(r.cv.FontSize, r.rootFontSize)
		return values.PxSize(px), ok
	}
	return values.Size{}, false
}
