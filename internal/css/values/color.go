package values

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is a non-premultiplied sRGB color or the currentcolor keyword.
// Computed colors never carry Current.
type Color struct {
	RGBA    color.NRGBA
	Current bool
}

var (
	Transparent  = Color{}
	Black        = Color{RGBA: color.NRGBA{A: 0xff}}
	White        = Color{RGBA: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}
	CurrentColor = Color{Current: true}
)

// RGBA builds an opaque-or-translucent color from 8-bit channels and an
// alpha in [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	return Color{RGBA: color.NRGBA{R: r, G: g, B: b, A: clampByte(alpha * 255)}}
}

func (Color) specified() {}

// IsTransparent reports whether c paints nothing.
func (c Color) IsTransparent() bool { return !c.Current && c.RGBA.A == 0 }

// Resolve substitutes current for currentcolor.
func (c Color) Resolve(current Color) Color {
	if c.Current {
		return current
	}
	return c
}

func (c Color) String() string {
	if c.Current {
		return "currentcolor"
	}
	if c.RGBA.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.RGBA.R, c.RGBA.G, c.RGBA.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.RGBA.R, c.RGBA.G, c.RGBA.B,
		strconv.FormatFloat(float64(c.RGBA.A)/255, 'f', 3, 64))
}

// NamedColor resolves a color keyword: the CSS named colors, transparent
// and currentcolor.
func NamedColor(s string) (Color, bool) {
	s = strings.ToLower(s)
	switch s {
	case "transparent":
		return Transparent, true
	case "currentcolor":
		return CurrentColor, true
	}
	c, ok := colornames.Map[s]
	if !ok {
		return Color{}, false
	}
	return Color{RGBA: color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}}, true
}

// ParseHex parses the digits of a hash color (#rgb, #rgba, #rrggbb,
// #rrggbbaa) with or without the leading '#'.
func ParseHex(s string) (Color, bool) {
	s = strings.TrimPrefix(s, "#")
	var digits [8]uint8
	for i := 0; i < len(s); i++ {
		if i >= len(digits) {
			return Color{}, false
		}
		d, ok := hexDigit(s[i])
		if !ok {
			return Color{}, false
		}
		digits[i] = d
	}
	switch len(s) {
	case 3, 4:
		c := color.NRGBA{R: digits[0] * 17, G: digits[1] * 17, B: digits[2] * 17, A: 0xff}
		if len(s) == 4 {
			c.A = digits[3] * 17
		}
		return Color{RGBA: c}, true
	case 6, 8:
		c := color.NRGBA{R: digits[0]<<4 | digits[1], G: digits[2]<<4 | digits[3], B: digits[4]<<4 | digits[5], A: 0xff}
		if len(s) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
		return Color{RGBA: c}, true
	}
	return Color{}, false
}

// ParseColor accepts a keyword or a hash color.
func ParseColor(s string) (Color, bool) {
	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}
	return NamedColor(s)
}

// ChannelValue converts one rgb() argument, a number in [0, 255] or a
// percentage, to a byte.
func ChannelValue(v float64, percent bool) uint8 {
	if percent {
		v = v * 255 / 100
	}
	return clampByte(v)
}

// AlphaValue converts an rgba() alpha argument, a number in [0, 1] or a
// percentage, to [0, 1].
func AlphaValue(v float64, percent bool) float64 {
	if percent {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseNumber parses a CSS number token.
func ParseNumber(s string) (float64, bool) { return parseNumber(s) }
