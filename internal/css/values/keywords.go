package values

// Display is the subset of display values the box-tree builder knows.
type Display uint8

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayListItem
	DisplayFlowRoot
	DisplayNone
)

var displayNames = []string{"inline", "block", "inline-block", "list-item", "flow-root", "none"}

func (d Display) String() string { return name(displayNames, int(d), "Display") }

func (Display) specified() {}

// ParseDisplay parses a display keyword.
func ParseDisplay(s string) (Display, bool) {
	i, ok := lookup(displayNames, s)
	return Display(i), ok
}

// IsBlockLevel reports whether an element with this display generates a
// block-level box.
func (d Display) IsBlockLevel() bool {
	return d == DisplayBlock || d == DisplayListItem || d == DisplayFlowRoot
}

// Blockify returns the block-level equivalent used for the root element.
func (d Display) Blockify() Display {
	switch d {
	case DisplayInline, DisplayInlineBlock:
		return DisplayBlock
	}
	return d
}

// Direction is the inline base direction.
type Direction uint8

const (
	LTR Direction = iota
	RTL
)

var directionNames = []string{"ltr", "rtl"}

func (d Direction) String() string { return name(directionNames, int(d), "Direction") }

func (Direction) specified() {}

// ParseDirection parses ltr or rtl.
func ParseDirection(s string) (Direction, bool) {
	i, ok := lookup(directionNames, s)
	return Direction(i), ok
}

// WritingMode selects the block flow direction and line orientation.
type WritingMode uint8

const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
	SidewaysRL
	SidewaysLR
)

var writingModeNames = []string{"horizontal-tb", "vertical-rl", "vertical-lr", "sideways-rl", "sideways-lr"}

func (m WritingMode) String() string { return name(writingModeNames, int(m), "WritingMode") }

func (WritingMode) specified() {}

// ParseWritingMode parses a writing-mode keyword.
func ParseWritingMode(s string) (WritingMode, bool) {
	i, ok := lookup(writingModeNames, s)
	return WritingMode(i), ok
}

// IsVertical reports whether lines run vertically, that is whether the
// block axis is horizontal.
func (m WritingMode) IsVertical() bool { return m != HorizontalTB }

// BorderStyle is a border-*-style keyword.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderHidden
	BorderDotted
	BorderDashed
	BorderSolid
	BorderDouble
	BorderGroove
	BorderRidge
	BorderInset
	BorderOutset
)

var borderStyleNames = []string{"none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset"}

func (s BorderStyle) String() string { return name(borderStyleNames, int(s), "BorderStyle") }

func (BorderStyle) specified() {}

// ParseBorderStyle parses a border style keyword.
func ParseBorderStyle(s string) (BorderStyle, bool) {
	i, ok := lookup(borderStyleNames, s)
	return BorderStyle(i), ok
}

// Visible reports whether the style draws a border at all; none and
// hidden force the computed width to zero.
func (s BorderStyle) Visible() bool { return s != BorderNone && s != BorderHidden }

// BoxSizing selects which box width and height measure.
type BoxSizing uint8

const (
	ContentBox BoxSizing = iota
	BorderBox
)

var boxSizingNames = []string{"content-box", "border-box"}

func (b BoxSizing) String() string { return name(boxSizingNames, int(b), "BoxSizing") }

func (BoxSizing) specified() {}

// ParseBoxSizing parses content-box or border-box.
func ParseBoxSizing(s string) (BoxSizing, bool) {
	i, ok := lookup(boxSizingNames, s)
	return BoxSizing(i), ok
}

// Side is a physical box side. The order matches the margin and padding
// shorthands.
type Side uint8

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Sides lists the physical sides in shorthand order.
var Sides = [4]Side{Top, Right, Bottom, Left}

var sideNames = []string{"top", "right", "bottom", "left"}

func (s Side) String() string { return name(sideNames, int(s), "Side") }

// Opposite returns the side across the box.
func (s Side) Opposite() Side { return (s + 2) % 4 }
