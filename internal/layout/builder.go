package layout

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"

	"github.com/gompdf/gomlayout/internal/assert"
	"github.com/gompdf/gomlayout/internal/css/values"
	"github.com/gompdf/gomlayout/internal/parser/html"
	"github.com/gompdf/gomlayout/internal/style"
)

const textNode = xhtml.TextNode

// ErrNoRoot is returned when the document has no element that generates a
// box.
var ErrNoRoot = errors.New("layout: document has no root box")

// StyleSource supplies computed values to the box-tree builder.
type StyleSource interface {
	Computed(n *html.Node) *style.ComputedValues
	AnonymousValues(parent *style.ComputedValues) *style.ComputedValues
}

type builder struct {
	log    *zap.Logger
	styles StyleSource
	boxes  int
}

// Build creates the box tree for the document containing root. The root
// element is blockified; display:none subtrees generate nothing.
func (e *Engine) Build(root *html.Node, styles StyleSource) (*BlockBox, error) {
	de := documentElement(root)
	if de == nil {
		return nil, ErrNoRoot
	}
	cv := styles.Computed(de)
	assert.Invariant(cv != nil, "<%s> has no computed values; run the cascade first", de.LocalName())
	if cv.Display == values.DisplayNone {
		return nil, ErrNoRoot
	}
	if d := cv.Display.Blockify(); d != cv.Display {
		blockified := *cv
		blockified.Display = d
		cv = &blockified
	}

	b := &builder{log: e.log, styles: styles}
	box := NewBlockBox(de, cv)
	box.root = true
	b.blockChildren(box)
	e.log.Debug("Built box tree", zap.String("root", de.LocalName()), zap.Int("boxes", b.boxes+1))
	return box, nil
}

// documentElement finds the root element for a document or element node.
func documentElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	if n.IsElement() {
		for p := n.ParentElement(); p != nil; p = n.ParentElement() {
			n = p
		}
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

// blockChildren builds the children of a block container. When block-level
// and inline-level children are mixed, each run of inline-level children is
// wrapped in an anonymous block box.
func (b *builder) blockChildren(parent *BlockBox) {
	boxes := b.childBoxes(parent.node, parent.style)
	if len(boxes) == 0 {
		return
	}

	mixed := false
	for _, c := range boxes {
		if c.isBlockLevel() {
			mixed = true
			break
		}
	}
	if !mixed {
		if !whitespaceOnly(boxes) {
			parent.children = boxes
		}
		return
	}

	var run []Box
	flush := func() {
		if len(run) > 0 && !whitespaceOnly(run) {
			anon := newAnonymousBox(b.anonymousStyle(parent.style), run)
			parent.children = append(parent.children, anon)
			b.boxes++
		}
		run = nil
	}
	for _, c := range boxes {
		if c.isBlockLevel() {
			flush()
			parent.children = append(parent.children, c)
			continue
		}
		run = append(run, c)
	}
	flush()
}

func (b *builder) anonymousStyle(parent *style.ComputedValues) *style.ComputedValues {
	cv := b.styles.AnonymousValues(parent)
	cv.Display = values.DisplayBlock
	return cv
}

// childBoxes creates the boxes for the children of n in document order.
func (b *builder) childBoxes(n *html.Node, parentStyle *style.ComputedValues) []Box {
	var out []Box
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.IsElement():
			cv := b.styles.Computed(c)
			assert.Invariant(cv != nil, "<%s> has no computed values", c.LocalName())
			switch {
			case cv.Display == values.DisplayNone:
				continue
			case cv.Display.IsBlockLevel():
				box := NewBlockBox(c, cv)
				b.blockChildren(box)
				out = append(out, box)
			default:
				box := &InlineBox{node: c, style: cv}
				box.children = b.inlineChildren(box)
				out = append(out, box)
			}
			b.boxes++
		case c.Type == textNode:
			out = append(out, &InlineBox{node: c, style: b.styles.AnonymousValues(parentStyle)})
			b.boxes++
		}
	}
	return out
}

// inlineChildren builds the content of an inline box. Block-level
// descendants of inline elements would split the inline box; that is not
// modeled, so they stay inline-level here.
func (b *builder) inlineChildren(parent *InlineBox) []Box {
	boxes := b.childBoxes(parent.node, parent.style)
	for i, c := range boxes {
		if bb, ok := c.(*BlockBox); ok {
			b.log.Debug("Block inside inline treated as inline",
				zap.String("element", bb.node.LocalName()),
				zap.String("parent", parent.node.LocalName()))
			boxes[i] = &InlineBox{node: bb.node, style: bb.style, children: bb.children}
		}
	}
	return boxes
}

func whitespaceOnly(boxes []Box) bool {
	for _, c := range boxes {
		ib, ok := c.(*InlineBox)
		if !ok || !ib.IsText() || strings.TrimSpace(ib.node.Data) != "" {
			return false
		}
	}
	return true
}
