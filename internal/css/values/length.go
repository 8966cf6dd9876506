package values

import "strings"

// Unit is the unit of a Length.
type Unit uint8

const (
	Px Unit = iota
	Em
	Rem
	Percent
	Pt
	Pc
	In
	Cm
	Mm
	Q
)

var unitNames = []string{"px", "em", "rem", "%", "pt", "pc", "in", "cm", "mm", "q"}

func (u Unit) String() string {
	if u == Q {
		return "Q"
	}
	return name(unitNames, int(u), "Unit")
}

// ParseUnit matches a unit suffix case-insensitively.
func ParseUnit(s string) (Unit, bool) {
	i, ok := lookup(unitNames, s)
	return Unit(i), ok
}

// PxPerUnit returns the size of one unit in px for absolute units.
func (u Unit) PxPerUnit() (float64, bool) {
	switch u {
	case Px:
		return 1, true
	case Pt:
		return 96.0 / 72.0, true
	case Pc:
		return 16, true
	case In:
		return 96, true
	case Cm:
		return 96 / 2.54, true
	case Mm:
		return 96 / 25.4, true
	case Q:
		return 96 / 101.6, true
	}
	return 0, false
}

// Length is a dimension or a percentage.
type Length struct {
	Value float64
	Unit  Unit
}

// Pixels is a shorthand for a px Length.
func Pixels(v float64) Length { return Length{Value: v, Unit: Px} }

func (l Length) String() string { return formatFloat(l.Value) + l.Unit.String() }

func (Length) specified() {}

// IsPercent reports whether l is a percentage.
func (l Length) IsPercent() bool { return l.Unit == Percent }

// ToPx converts l to px. Font-relative units use fontSize (em) and
// rootFontSize (rem). Percentages cannot be converted without a basis and
// report false.
func (l Length) ToPx(fontSize, rootFontSize float64) (float64, bool) {
	switch l.Unit {
	case Percent:
		return 0, false
	case Em:
		return l.Value * fontSize, true
	case Rem:
		return l.Value * rootFontSize, true
	}
	f, _ := l.Unit.PxPerUnit()
	return l.Value * f, true
}

// ParseDimension splits a dimension token such as "1.5em" into a Length.
func ParseDimension(s string) (Length, bool) {
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		if (c == 'e' || c == 'E') && end+1 < len(s) && (s[end+1] >= '0' && s[end+1] <= '9') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return Length{}, false
	}
	v, ok := parseNumber(s[:end])
	if !ok {
		return Length{}, false
	}
	u, ok := ParseUnit(strings.TrimSpace(s[end:]))
	if !ok {
		return Length{}, false
	}
	return Length{Value: v, Unit: u}, true
}

// SizeKind discriminates Size.
type SizeKind uint8

const (
	SizeAuto SizeKind = iota
	SizeLength
	SizePercent
)

// Size is a computed size-like value: auto, an absolute length in px or a
// percentage still waiting for its basis.
type Size struct {
	Kind  SizeKind
	Value float64
}

// AutoSize returns the auto Size.
func AutoSize() Size { return Size{Kind: SizeAuto} }

// PxSize returns an absolute Size.
func PxSize(v float64) Size { return Size{Kind: SizeLength, Value: v} }

// PercentSize returns a percentage Size.
func PercentSize(v float64) Size { return Size{Kind: SizePercent, Value: v} }

// IsAuto reports whether s is auto.
func (s Size) IsAuto() bool { return s.Kind == SizeAuto }

// Resolve returns the used px value of s against basis. Auto reports false.
func (s Size) Resolve(basis float64) (float64, bool) {
	switch s.Kind {
	case SizeLength:
		return s.Value, true
	case SizePercent:
		return s.Value * basis / 100, true
	}
	return 0, false
}

func (s Size) String() string {
	switch s.Kind {
	case SizeLength:
		return formatFloat(s.Value) + "px"
	case SizePercent:
		return formatFloat(s.Value) + "%"
	}
	return "auto"
}
