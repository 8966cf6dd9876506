package layout

import (
	"math"

	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/assert"
	"github.com/gompdf/gomlayout/internal/css/values"
	"github.com/gompdf/gomlayout/internal/style"
)

// ContainingBlock is the rectangle and flow a box is laid out against.
// Rect spans the full inline size of the containing content box; along the
// block axis it covers only the space consumed by earlier siblings,
// measured from the block-start edge, so its block-end edge is where the
// next box starts.
type ContainingBlock struct {
	Rect Rect
	Flow Flow
	// BlockSize is the size percentages of block sizes resolve against,
	// valid only when Definite is set.
	BlockSize float64
	Definite  bool
}

// InlineSize is the size percentages of inline sizes, margins and padding
// resolve against.
func (cb ContainingBlock) InlineSize() float64 { return cb.Flow.inlineSize(cb.Rect) }

// initialContainingBlock is the viewport in CSS px, flowing in the root
// box's writing mode and direction.
func initialContainingBlock(viewport Size, scale float64, f Flow) ContainingBlock {
	full := Rect{Width: viewport.Width / scale, Height: viewport.Height / scale}
	start := f.Physical(BlockStart)
	r := full
	r.setExtent(start, full.Edge(start), 0)
	blockSize := full.Height
	if f.WritingMode.IsVertical() {
		blockSize = full.Width
	}
	return ContainingBlock{Rect: r, Flow: f, BlockSize: blockSize, Definite: true}
}

// Engine handles the layout process
type Engine struct {
	log *zap.Logger
}

// NewEngine creates a new layout engine
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.Named("layout")}
}

// Layout lays out the box tree for a viewport given in device pixels. All
// resulting geometry is in CSS px, that is device pixels divided by scale.
// Dimensions are updated in place.
func (e *Engine) Layout(root Box, viewport Size, scale float64) {
	assert.Invariant(scale > 0 && finite(scale), "device scale must be positive, got %v", scale)
	assert.Invariant(finite(viewport.Width) && finite(viewport.Height), "viewport must be finite, got %vx%v", viewport.Width, viewport.Height)

	cv := root.Style()
	cb := initialContainingBlock(viewport, scale, Flow{WritingMode: cv.WritingMode, Direction: cv.Direction})
	e.log.Debug("Layout",
		zap.Float64("width", cb.Rect.Width),
		zap.Float64("height", cb.Rect.Height),
		zap.Stringer("writing-mode", cb.Flow.WritingMode),
		zap.Stringer("direction", cb.Flow.Direction))

	p := &pass{log: e.log}
	root.layout(cb, p)
	e.log.Debug("Layout done", zap.Int("boxes", p.boxes))
}

// Layout lays out root without logging.
func Layout(root Box, viewport Size, scale float64) {
	NewEngine(nil).Layout(root, viewport, scale)
}

// pass holds the state of one layout run.
type pass struct {
	log   *zap.Logger
	boxes int
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// layout places a block box and its descendants. The inline axis is solved
// first, then children stack along the block axis, then the block size is
// fixed. Content is anchored at its block-start edge, so for writing modes
// whose block axis runs toward the origin the content rectangle moves as it
// grows and children already placed stay put.
func (b *BlockBox) layout(cb ContainingBlock, p *pass) {
	assert.Invariant(finite(cb.InlineSize()), "containing block inline size is %v", cb.InlineSize())
	p.boxes++
	f := cb.Flow
	d := &b.dims
	cbInline := cb.InlineSize()

	inlineSize := b.solveInline(cb)
	b.solveBlockEdges(cb)

	bs, is := f.Physical(BlockStart), f.Physical(InlineStart)
	blockAnchor := cb.Rect.Edge(bs.Opposite()) + progression(bs)*(d.Margin.Get(bs)+d.Border.Get(bs)+d.Padding.Get(bs))
	inlineAnchor := cb.Rect.Edge(is) + progression(is)*(d.Margin.Get(is)+d.Border.Get(is)+d.Padding.Get(is))
	d.Content.setExtent(is, inlineAnchor, inlineSize)
	d.Content.setExtent(bs, blockAnchor, 0)

	specified, definite := b.specifiedBlockSize(cb)
	inner := ContainingBlock{
		Flow:      b.childFlow(cb, p),
		BlockSize: specified,
		Definite:  definite,
	}
	consumed := 0.0
	for _, child := range b.children {
		inner.Rect = d.Content
		child.layout(inner, p)
		consumed += child.Dimensions().marginBlockSize(f)
		d.Content.setExtent(bs, blockAnchor, consumed)
	}

	blockSize := consumed
	if definite {
		blockSize = specified
	}
	d.Content.setExtent(bs, blockAnchor, blockSize)

	if b.style.BoxSizing == values.BorderBox {
		b.applyBorderBoxSizing(cb, cbInline, is, bs, inlineAnchor, blockAnchor)
	}
}

// childFlow is the flow children are laid out in: this box's writing mode
// and direction. A writing mode whose block axis differs from the
// containing block's is not supported and falls back to the containing
// block's writing mode.
func (b *BlockBox) childFlow(cb ContainingBlock, p *pass) Flow {
	f := Flow{WritingMode: b.style.WritingMode, Direction: b.style.Direction}
	if !cb.Flow.sameBlockFlow(f) {
		p.log.Debug("Unsupported writing-mode change, using the containing block's",
			zap.Stringer("writing-mode", f.WritingMode),
			zap.Stringer("containing", cb.Flow.WritingMode))
		f.WritingMode = cb.Flow.WritingMode
	}
	return f
}

// inlineSizeProperty and blockSizeProperty map width and height onto the
// axes of f.
func inlineSizeProperty(cv *style.ComputedValues, f Flow) values.Size {
	if f.WritingMode.IsVertical() {
		return cv.Height
	}
	return cv.Width
}

func blockSizeProperty(cv *style.ComputedValues, f Flow) values.Size {
	if f.WritingMode.IsVertical() {
		return cv.Width
	}
	return cv.Height
}

// solveInline solves
//
//	margin-start + border-start + padding-start + inline-size +
//	padding-end + border-end + margin-end = containing block inline size
//
// and stores the edges. It returns the content inline size.
func (b *BlockBox) solveInline(cb ContainingBlock) float64 {
	f, cv, d := cb.Flow, b.style, &b.dims
	cbInline := cb.InlineSize()
	is, ie := f.Physical(InlineStart), f.Physical(InlineEnd)

	marginStart, startAuto := resolveAuto(cv.Margin[is], cbInline)
	marginEnd, endAuto := resolveAuto(cv.Margin[ie], cbInline)
	size, sizeAuto := resolveAuto(inlineSizeProperty(cv, f), cbInline)
	paddingStart, _ := cv.Padding[is].Resolve(cbInline)
	paddingEnd, _ := cv.Padding[ie].Resolve(cbInline)
	borderStart, borderEnd := cv.BorderWidth[is], cv.BorderWidth[ie]

	total := marginStart + borderStart + paddingStart + size + paddingEnd + borderEnd + marginEnd

	// A box already wider than its containing block gets no auto margins.
	if !sizeAuto && total > cbInline {
		startAuto, endAuto = false, false
	}

	underflow := cbInline - total
	switch {
	case !sizeAuto && !startAuto && !endAuto:
		// Over-constrained: the inline-end margin gives way, which is
		// margin-left under rtl (CSS 2.1 section 10.3.3).
		marginEnd += underflow
	case !sizeAuto && !startAuto && endAuto:
		marginEnd = underflow
	case !sizeAuto && startAuto && !endAuto:
		marginStart = underflow
	case sizeAuto:
		if underflow >= 0 {
			size = underflow
		} else {
			size = 0
			marginEnd += underflow
		}
	default:
		marginStart = underflow / 2
		marginEnd = underflow / 2
	}

	d.Margin.Set(is, marginStart)
	d.Margin.Set(ie, marginEnd)
	d.Padding.Set(is, paddingStart)
	d.Padding.Set(ie, paddingEnd)
	d.Border.Set(is, borderStart)
	d.Border.Set(ie, borderEnd)
	return size
}

// solveBlockEdges resolves the block-axis margins, borders and padding.
// Auto margins are zero.
func (b *BlockBox) solveBlockEdges(cb ContainingBlock) {
	f, cv, d := cb.Flow, b.style, &b.dims
	cbInline := cb.InlineSize()
	for _, side := range []values.Side{f.Physical(BlockStart), f.Physical(BlockEnd)} {
		m, _ := resolveAuto(cv.Margin[side], cbInline)
		pad, _ := cv.Padding[side].Resolve(cbInline)
		d.Margin.Set(side, m)
		d.Padding.Set(side, pad)
		d.Border.Set(side, cv.BorderWidth[side])
	}
}

// specifiedBlockSize resolves the block size property. Percentages need a
// definite containing block; otherwise the size is auto.
func (b *BlockBox) specifiedBlockSize(cb ContainingBlock) (float64, bool) {
	s := blockSizeProperty(b.style, cb.Flow)
	switch s.Kind {
	case values.SizeLength:
		return s.Value, true
	case values.SizePercent:
		if cb.Definite {
			return s.Value * cb.BlockSize / 100, true
		}
	}
	return 0, false
}

// applyBorderBoxSizing reinterprets explicit sizes as border-box sizes once
// the geometry is solved. Margins are not re-solved.
func (b *BlockBox) applyBorderBoxSizing(cb ContainingBlock, cbInline float64, is, bs values.Side, inlineAnchor, blockAnchor float64) {
	f, cv, d := cb.Flow, b.style, &b.dims
	if size, ok := inlineSizeProperty(cv, f).Resolve(cbInline); ok {
		inner := size - d.Padding.Get(is) - d.Padding.Get(is.Opposite()) - d.Border.Get(is) - d.Border.Get(is.Opposite())
		d.Content.setExtent(is, inlineAnchor, math.Max(0, inner))
	}
	if size, ok := b.specifiedBlockSize(cb); ok {
		inner := size - d.Padding.Get(bs) - d.Padding.Get(bs.Opposite()) - d.Border.Get(bs) - d.Border.Get(bs.Opposite())
		d.Content.setExtent(bs, blockAnchor, math.Max(0, inner))
	}
}

// resolveAuto resolves a size against basis, reporting auto as (0, true).
func resolveAuto(s values.Size, basis float64) (float64, bool) {
	v, ok := s.Resolve(basis)
	return v, !ok
}

// layout places an inline box as an empty box where the next line would
// start. Its descendants are placed the same way.
func (b *InlineBox) layout(cb ContainingBlock, p *pass) {
	p.boxes++
	f := cb.Flow
	b.dims = Dimensions{}
	bs, is := f.Physical(BlockStart), f.Physical(InlineStart)
	b.dims.Content.setExtent(bs, cb.Rect.Edge(bs.Opposite()), 0)
	b.dims.Content.setExtent(is, cb.Rect.Edge(is), 0)
	for _, child := range b.children {
		child.layout(cb, p)
	}
}
