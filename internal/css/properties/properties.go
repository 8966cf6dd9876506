// Package properties is the registry of supported CSS properties: one entry
// per longhand with its name, inheritance flag, initial value and value
// parser, plus the shorthands that expand into them.
package properties

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"github.com/gompdf/gomlayout/internal/css/values"
)

var (
	// ErrUnknownProperty is returned for property names outside the
	// supported subset.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrInvalidValue is returned when a value does not fit the grammar of
	// its property.
	ErrInvalidValue = errors.New("invalid value")
)

// ID identifies a longhand property.
type ID uint8

const (
	BackgroundColor ID = iota
	BorderTopColor
	BorderRightColor
	BorderBottomColor
	BorderLeftColor
	BorderTopStyle
	BorderRightStyle
	BorderBottomStyle
	BorderLeftStyle
	BorderTopWidth
	BorderRightWidth
	BorderBottomWidth
	BorderLeftWidth
	BoxSizing
	Color
	Direction
	Display
	FontSize
	Height
	MarginTop
	MarginRight
	MarginBottom
	MarginLeft
	PaddingTop
	PaddingRight
	PaddingBottom
	PaddingLeft
	Width
	WritingMode

	// Count is the number of longhands.
	Count
)

// BorderColor returns the border-*-color longhand of side.
func BorderColor(side values.Side) ID { return BorderTopColor + ID(side) }

// BorderStyle returns the border-*-style longhand of side.
func BorderStyle(side values.Side) ID { return BorderTopStyle + ID(side) }

// BorderWidth returns the border-*-width longhand of side.
func BorderWidth(side values.Side) ID { return BorderTopWidth + ID(side) }

// Margin returns the margin-* longhand of side.
func Margin(side values.Side) ID { return MarginTop + ID(side) }

// Padding returns the padding-* longhand of side.
func Padding(side values.Side) ID { return PaddingTop + ID(side) }

type longhand struct {
	name      string
	inherited bool
	initial   values.Specified
	parse     func([]component) (values.Specified, bool)
}

var longhands = [Count]longhand{
	BackgroundColor:   {"background-color", false, values.Transparent, parseColor},
	BorderTopColor:    {"border-top-color", false, values.CurrentColor, parseColor},
	BorderRightColor:  {"border-right-color", false, values.CurrentColor, parseColor},
	BorderBottomColor: {"border-bottom-color", false, values.CurrentColor, parseColor},
	BorderLeftColor:   {"border-left-color", false, values.CurrentColor, parseColor},
	BorderTopStyle:    {"border-top-style", false, values.BorderNone, parseBorderStyle},
	BorderRightStyle:  {"border-right-style", false, values.BorderNone, parseBorderStyle},
	BorderBottomStyle: {"border-bottom-style", false, values.BorderNone, parseBorderStyle},
	BorderLeftStyle:   {"border-left-style", false, values.BorderNone, parseBorderStyle},
	BorderTopWidth:    {"border-top-width", false, values.Medium, parseBorderWidth},
	BorderRightWidth:  {"border-right-width", false, values.Medium, parseBorderWidth},
	BorderBottomWidth: {"border-bottom-width", false, values.Medium, parseBorderWidth},
	BorderLeftWidth:   {"border-left-width", false, values.Medium, parseBorderWidth},
	BoxSizing:         {"box-sizing", false, values.ContentBox, parseBoxSizing},
	Color:             {"color", true, values.Black, parseColor},
	Direction:         {"direction", true, values.LTR, parseDirection},
	Display:           {"display", false, values.DisplayInline, parseDisplay},
	FontSize:          {"font-size", true, values.Medium, parseFontSize},
	Height:            {"height", false, values.Auto, parseSize},
	MarginTop:         {"margin-top", false, values.Pixels(0), parseMargin},
	MarginRight:       {"margin-right", false, values.Pixels(0), parseMargin},
	MarginBottom:      {"margin-bottom", false, values.Pixels(0), parseMargin},
	MarginLeft:        {"margin-left", false, values.Pixels(0), parseMargin},
	PaddingTop:        {"padding-top", false, values.Pixels(0), parsePadding},
	PaddingRight:      {"padding-right", false, values.Pixels(0), parsePadding},
	PaddingBottom:     {"padding-bottom", false, values.Pixels(0), parsePadding},
	PaddingLeft:       {"padding-left", false, values.Pixels(0), parsePadding},
	Width:             {"width", false, values.Auto, parseSize},
	WritingMode:       {"writing-mode", true, values.HorizontalTB, parseWritingMode},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, Count)
	for id := ID(0); id < Count; id++ {
		m[longhands[id].name] = id
	}
	return m
}()

func (id ID) String() string {
	if id < Count {
		return longhands[id].name
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}

// Inherited reports whether the property inherits by default.
func (id ID) Inherited() bool { return longhands[id].inherited }

// Initial returns the property's initial value in specified form.
func (id ID) Initial() values.Specified { return longhands[id].initial }

// Lookup finds a longhand by name.
func Lookup(name string) (ID, bool) {
	id, ok := byName[strings.ToLower(name)]
	return id, ok
}

// All returns every longhand in ID order.
func All() []ID {
	ids := make([]ID, Count)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// Declaration is one longhand with its specified value.
type Declaration struct {
	ID    ID
	Value values.Specified
}

func (d Declaration) String() string {
	return d.ID.String() + ": " + d.Value.String()
}

// Parse turns a property name and its value tokens into longhand
// declarations. Shorthands expand to all of their longhands, with omitted
// components reset to their initial values.
func Parse(name string, tokens []css.Token) ([]Declaration, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	id, isLonghand := byName[name]
	sh, isShorthand := shorthands[name]
	if !isLonghand && !isShorthand {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}

	comps, ok := split(tokens)
	if !ok || len(comps) == 0 {
		return nil, invalid(name, tokens)
	}

	if w, ok := wideKeyword(comps); ok {
		if isLonghand {
			return []Declaration{{ID: id, Value: w}}, nil
		}
		decls := make([]Declaration, 0, len(sh.longhands))
		for _, lh := range sh.longhands {
			decls = append(decls, Declaration{ID: lh, Value: w})
		}
		return decls, nil
	}

	if isLonghand {
		v, ok := longhands[id].parse(comps)
		if !ok {
			return nil, invalid(name, tokens)
		}
		return []Declaration{{ID: id, Value: v}}, nil
	}

	decls, ok := sh.expand(comps)
	if !ok {
		return nil, invalid(name, tokens)
	}
	return decls, nil
}

func invalid(name string, tokens []css.Token) error {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return fmt.Errorf("%w for %s: %q", ErrInvalidValue, name, strings.TrimSpace(sb.String()))
}

func wideKeyword(comps []component) (values.CSSWide, bool) {
	if len(comps) != 1 || comps[0].tok.TokenType != css.IdentToken {
		return 0, false
	}
	return values.ParseCSSWide(string(comps[0].tok.Data))
}
