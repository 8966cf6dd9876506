package layout

import (
	"github.com/gompdf/gomlayout/internal/parser/html"
	"github.com/gompdf/gomlayout/internal/style"
)

// FormattingContext is the kind of context a box lays its children out in.
type FormattingContext uint8

const (
	BlockFormattingContext FormattingContext = iota
	InlineFormattingContext
)

func (fc FormattingContext) String() string {
	if fc == InlineFormattingContext {
		return "inline"
	}
	return "block"
}

// Box is a node of the box tree. The set of implementations is closed:
// *BlockBox, *AnonymousBox and *InlineBox.
type Box interface {
	// Name is the box kind as shown in layout dumps.
	Name() string
	// Node is the originating markup node, nil for anonymous boxes. The box
	// does not own it.
	Node() *html.Node
	Style() *style.ComputedValues
	Dimensions() *Dimensions
	Children() []Box
	FormattingContext() FormattingContext
	// IsRoot reports whether the box was generated by the document element.
	IsRoot() bool

	layout(cb ContainingBlock, p *pass)
	isBlockLevel() bool
}

// BlockBox represents a block container box in the layout
type BlockBox struct {
	node     *html.Node
	style    *style.ComputedValues
	dims     Dimensions
	children []Box
	root     bool
}

// NewBlockBox creates a new block box for an element
func NewBlockBox(node *html.Node, cv *style.ComputedValues) *BlockBox {
	return &BlockBox{node: node, style: cv}
}

func (b *BlockBox) Name() string { return "BlockContainerBox" }
func (b *BlockBox) Node() *html.Node { return b.node }
func (b *BlockBox) Style() *style.ComputedValues { return b.style }
func (b *BlockBox) Dimensions() *Dimensions { return &b.dims }
func (b *BlockBox) Children() []Box { return b.children }
func (b *BlockBox) IsRoot() bool { return b.root }
func (b *BlockBox) isBlockLevel() bool { return true }
func (b *BlockBox) AppendChild(child Box) { b.children = append(b.children, child) }

// FormattingContext is inline when every child is inline-level.
func (b *BlockBox) FormattingContext() FormattingContext {
	if len(b.children) == 0 {
		return BlockFormattingContext
	}
	for _, c := range b.children {
		if c.isBlockLevel() {
			return BlockFormattingContext
		}
	}
	return InlineFormattingContext
}

// AnonymousBox is a block box without an originating element, inserted to
// hold runs of inline-level content between block-level siblings. Every
// behavior comes from the embedded base box.
type AnonymousBox struct {
	*BlockBox
}

func newAnonymousBox(cv *style.ComputedValues, children []Box) *AnonymousBox {
	return &AnonymousBox{BlockBox: &BlockBox{style: cv, children: children}}
}

func (a *AnonymousBox) Name() string { return "AnonymousBlockBox" }
func (a *AnonymousBox) Node() *html.Node { return nil }
func (a *AnonymousBox) IsRoot() bool { return false }

// InlineBox represents an inline-level element or a run of text. Inline
// layout is not performed: inline boxes occupy no space and sit at the
// position where their line would start.
type InlineBox struct {
	node     *html.Node
	style    *style.ComputedValues
	dims     Dimensions
	children []Box
}

func (b *InlineBox) Name() string { return "InlineBox" }
func (b *InlineBox) Node() *html.Node { return b.node }
func (b *InlineBox) Style() *style.ComputedValues { return b.style }
func (b *InlineBox) Dimensions() *Dimensions { return &b.dims }
func (b *InlineBox) Children() []Box { return b.children }
func (b *InlineBox) IsRoot() bool { return false }
func (b *InlineBox) isBlockLevel() bool { return false }
func (b *InlineBox) FormattingContext() FormattingContext { return InlineFormattingContext }

// IsText reports whether the box holds a text run.
func (b *InlineBox) IsText() bool { return b.node != nil && b.node.Type == textNode }

// Walk visits box and its descendants in document order. Returning false
// from fn skips the box's subtree.
func Walk(box Box, fn func(b Box, depth int) bool) {
	walk(box, 0, fn)
}

func walk(box Box, depth int, fn func(Box, int) bool) {
	if box == nil || !fn(box, depth) {
		return
	}
	for _, c := range box.Children() {
		walk(c, depth+1, fn)
	}
}
