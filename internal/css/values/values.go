// Package values defines the value types shared by the property registry,
// the cascade and the layout engine: specified values as they come out of a
// stylesheet and the resolved forms the computed-value pass produces.
package values

import (
	"strconv"
	"strings"
)

// Specified is a declared value as written in a stylesheet, after token
// parsing. The set of implementations is closed and lives in this package.
type Specified interface {
	String() string
	specified()
}

// CSSWide is one of the keywords every property accepts.
type CSSWide uint8

const (
	Initial CSSWide = iota + 1
	Inherit
	Unset
)

func (w CSSWide) String() string {
	switch w {
	case Initial:
		return "initial"
	case Inherit:
		return "inherit"
	case Unset:
		return "unset"
	}
	return "CSSWide(" + strconv.Itoa(int(w)) + ")"
}

func (CSSWide) specified() {}

// ParseCSSWide recognizes initial, inherit and unset.
func ParseCSSWide(s string) (CSSWide, bool) {
	switch strings.ToLower(s) {
	case "initial":
		return Initial, true
	case "inherit":
		return Inherit, true
	case "unset":
		return Unset, true
	}
	return 0, false
}

// Keyword is an identifier value whose meaning depends on the property,
// for example auto, thin or x-large.
type Keyword string

const (
	Auto    Keyword = "auto"
	Thin    Keyword = "thin"
	Medium  Keyword = "medium"
	Thick   Keyword = "thick"
	Larger  Keyword = "larger"
	Smaller Keyword = "smaller"
)

func (k Keyword) String() string { return string(k) }

func (Keyword) specified() {}

// BorderWidth returns the px width of thin, medium and thick.
func (k Keyword) BorderWidth() (float64, bool) {
	switch k {
	case Thin:
		return 1, true
	case Medium:
		return 3, true
	case Thick:
		return 5, true
	}
	return 0, false
}

// Absolute font-size keywords, in px at the default medium size.
var fontSizes = map[Keyword]float64{
	"xx-small":  9,
	"x-small":   10,
	"small":     13,
	Medium:      16,
	"large":     18,
	"x-large":   24,
	"xx-large":  32,
	"xxx-large": 48,
}

// FontSizeScale is the ratio applied by the relative keywords larger and
// smaller.
const FontSizeScale = 1.2

// DefaultFontSize is the initial value of font-size in px.
const DefaultFontSize = 16

// FontSize returns the px value of an absolute font-size keyword.
func (k Keyword) FontSize() (float64, bool) {
	v, ok := fontSizes[k]
	return v, ok
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lookup(names []string, s string) (int, bool) {
	s = strings.ToLower(s)
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

func name(names []string, i int, kind string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return kind + "(" + strconv.Itoa(i) + ")"
}
