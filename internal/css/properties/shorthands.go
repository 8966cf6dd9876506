package properties

import (
	"github.com/gompdf/gomlayout/internal/css/values"
)

type shorthand struct {
	longhands []ID
	expand    func([]component) ([]Declaration, bool)
}

var shorthands = map[string]shorthand{
	"margin":        sidesShorthand(Margin, parseMargin),
	"padding":       sidesShorthand(Padding, parsePadding),
	"border-width":  sidesShorthand(BorderWidth, parseBorderWidth),
	"border-style":  sidesShorthand(BorderStyle, parseBorderStyle),
	"border-color":  sidesShorthand(BorderColor, parseColor),
	"border-top":    borderShorthand(values.Top),
	"border-right":  borderShorthand(values.Right),
	"border-bottom": borderShorthand(values.Bottom),
	"border-left":   borderShorthand(values.Left),
	"border":        borderShorthand(values.Sides[:]...),
	"background":    {longhands: []ID{BackgroundColor}, expand: expandBackground},
}

// IsShorthand reports whether name is a supported shorthand.
func IsShorthand(name string) bool {
	_, ok := shorthands[name]
	return ok
}

// sidesShorthand handles the one-to-four value box shorthands
// (top, right, bottom, left).
func sidesShorthand(side func(values.Side) ID, parse func([]component) (values.Specified, bool)) shorthand {
	ids := make([]ID, 0, 4)
	for _, s := range values.Sides {
		ids = append(ids, side(s))
	}
	return shorthand{
		longhands: ids,
		expand: func(comps []component) ([]Declaration, bool) {
			if len(comps) < 1 || len(comps) > 4 {
				return nil, false
			}
			vals := make([]values.Specified, len(comps))
			for i, c := range comps {
				v, ok := parse([]component{c})
				if !ok {
					return nil, false
				}
				vals[i] = v
			}
			t, r, b, l := expandSides(vals)
			return []Declaration{
				{ID: side(values.Top), Value: t},
				{ID: side(values.Right), Value: r},
				{ID: side(values.Bottom), Value: b},
				{ID: side(values.Left), Value: l},
			}, true
		},
	}
}

func expandSides[T any](v []T) (t, r, b, l T) {
	switch len(v) {
	case 1:
		return v[0], v[0], v[0], v[0]
	case 2:
		return v[0], v[1], v[0], v[1]
	case 3:
		return v[0], v[1], v[2], v[1]
	default:
		return v[0], v[1], v[2], v[3]
	}
}

// borderShorthand handles border and border-<side>: width, style and color
// in any order, each at most once, omitted parts reset to initial.
func borderShorthand(sides ...values.Side) shorthand {
	var ids []ID
	for _, s := range sides {
		ids = append(ids, BorderWidth(s), BorderStyle(s), BorderColor(s))
	}
	return shorthand{
		longhands: ids,
		expand: func(comps []component) ([]Declaration, bool) {
			if len(comps) > 3 {
				return nil, false
			}
			var width, style, col values.Specified
			for _, c := range comps {
				one := []component{c}
				if v, ok := parseBorderWidth(one); ok && width == nil {
					width = v
				} else if v, ok := parseBorderStyle(one); ok && style == nil {
					style = v
				} else if v, ok := parseColor(one); ok && col == nil {
					col = v
				} else {
					return nil, false
				}
			}
			decls := make([]Declaration, 0, len(ids))
			for _, s := range sides {
				decls = append(decls,
					Declaration{ID: BorderWidth(s), Value: orInitial(width, BorderWidth(s))},
					Declaration{ID: BorderStyle(s), Value: orInitial(style, BorderStyle(s))},
					Declaration{ID: BorderColor(s), Value: orInitial(col, BorderColor(s))},
				)
			}
			return decls, true
		},
	}
}

// expandBackground keeps the color layer of the background shorthand; the
// only other component accepted is an image of none.
func expandBackground(comps []component) ([]Declaration, bool) {
	var col values.Specified
	for _, c := range comps {
		if id, ok := c.ident(); ok && id == "none" {
			continue
		}
		v, ok := parseColor([]component{c})
		if !ok || col != nil {
			return nil, false
		}
		col = v
	}
	return []Declaration{{ID: BackgroundColor, Value: orInitial(col, BackgroundColor)}}, true
}

func orInitial(v values.Specified, id ID) values.Specified {
	if v == nil {
		return id.Initial()
	}
	return v
}
