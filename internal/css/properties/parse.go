package properties

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"

	"github.com/gompdf/gomlayout/internal/css/values"
)

// component is one whitespace-separated piece of a value: a single token
// or a function token with the tokens of its argument list.
type component struct {
	tok  css.Token
	args []css.Token
}

func (c component) ident() (string, bool) {
	if c.tok.TokenType != css.IdentToken {
		return "", false
	}
	return strings.ToLower(string(c.tok.Data)), true
}

// split groups value tokens into components, dropping whitespace and
// comments. Unbalanced parentheses fail the whole value.
func split(tokens []css.Token) ([]component, bool) {
	var (
		out   []component
		depth int
	)
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		if depth > 0 {
			switch t.TokenType {
			case css.FunctionToken, css.LeftParenthesisToken:
				depth++
			case css.RightParenthesisToken:
				depth--
				if depth == 0 {
					continue
				}
			}
			last := &out[len(out)-1]
			last.args = append(last.args, t)
			continue
		}
		switch t.TokenType {
		case css.FunctionToken:
			depth = 1
		case css.RightParenthesisToken, css.LeftParenthesisToken:
			return nil, false
		}
		out = append(out, component{tok: t})
	}
	return out, depth == 0
}

func single(comps []component) (component, bool) {
	if len(comps) != 1 {
		return component{}, false
	}
	return comps[0], true
}

// lengthPercentage parses a dimension, a unitless zero or, when allowed, a
// percentage.
func lengthPercentage(c component, percent, negative bool) (values.Length, bool) {
	var l values.Length
	switch c.tok.TokenType {
	case css.DimensionToken:
		v, ok := values.ParseDimension(string(c.tok.Data))
		if !ok {
			return l, false
		}
		l = v
	case css.NumberToken:
		v, ok := values.ParseNumber(string(c.tok.Data))
		if !ok || v != 0 {
			return l, false
		}
		l = values.Pixels(0)
	case css.PercentageToken:
		if !percent {
			return l, false
		}
		v, ok := values.ParseNumber(strings.TrimSuffix(string(c.tok.Data), "%"))
		if !ok {
			return l, false
		}
		l = values.Length{Value: v, Unit: values.Percent}
	default:
		return l, false
	}
	if !negative && l.Value < 0 {
		return l, false
	}
	return l, true
}

func parseSize(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	if id, ok := c.ident(); ok {
		if id == string(values.Auto) {
			return values.Auto, true
		}
		return nil, false
	}
	l, ok := lengthPercentage(c, true, false)
	return l, ok
}

func parseMargin(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	if id, ok := c.ident(); ok {
		if id == string(values.Auto) {
			return values.Auto, true
		}
		return nil, false
	}
	l, ok := lengthPercentage(c, true, true)
	return l, ok
}

func parsePadding(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	l, ok := lengthPercentage(c, true, false)
	return l, ok
}

func parseBorderWidth(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	if id, ok := c.ident(); ok {
		k := values.Keyword(id)
		if _, ok := k.BorderWidth(); ok {
			return k, true
		}
		return nil, false
	}
	l, ok := lengthPercentage(c, false, false)
	return l, ok
}

func parseFontSize(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	if id, ok := c.ident(); ok {
		k := values.Keyword(id)
		if _, ok := k.FontSize(); ok || k == values.Larger || k == values.Smaller {
			return k, true
		}
		return nil, false
	}
	l, ok := lengthPercentage(c, true, false)
	return l, ok
}

func parseBorderStyle(comps []component) (values.Specified, bool) {
	return keyword(comps, values.ParseBorderStyle)
}

func parseBoxSizing(comps []component) (values.Specified, bool) {
	return keyword(comps, values.ParseBoxSizing)
}

func parseDirection(comps []component) (values.Specified, bool) {
	return keyword(comps, values.ParseDirection)
}

func parseDisplay(comps []component) (values.Specified, bool) {
	return keyword(comps, values.ParseDisplay)
}

func parseWritingMode(comps []component) (values.Specified, bool) {
	return keyword(comps, values.ParseWritingMode)
}

func keyword[T values.Specified](comps []component, parse func(string) (T, bool)) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	id, ok := c.ident()
	if !ok {
		return nil, false
	}
	v, ok := parse(id)
	if !ok {
		return nil, false
	}
	return v, true
}

func parseColor(comps []component) (values.Specified, bool) {
	c, ok := single(comps)
	if !ok {
		return nil, false
	}
	col, ok := color(c)
	return col, ok
}

func color(c component) (values.Color, bool) {
	switch c.tok.TokenType {
	case css.IdentToken:
		return values.NamedColor(string(c.tok.Data))
	case css.HashToken:
		return values.ParseHex(string(c.tok.Data))
	case css.FunctionToken:
		fn := strings.ToLower(strings.TrimSuffix(string(c.tok.Data), "("))
		if fn == "rgb" || fn == "rgba" {
			return rgbFunction(c.args)
		}
	}
	return values.Color{}, false
}

// rgbFunction accepts both the legacy comma form and the space form with
// an optional "/ alpha".
func rgbFunction(args []css.Token) (values.Color, bool) {
	type arg struct {
		v       float64
		percent bool
	}
	var nums []arg
	for _, t := range args {
		switch t.TokenType {
		case css.CommaToken:
			continue
		case css.DelimToken:
			if string(t.Data) == "/" {
				continue
			}
			return values.Color{}, false
		case css.NumberToken:
			v, ok := values.ParseNumber(string(t.Data))
			if !ok {
				return values.Color{}, false
			}
			nums = append(nums, arg{v: v})
		case css.PercentageToken:
			v, ok := values.ParseNumber(strings.TrimSuffix(string(t.Data), "%"))
			if !ok {
				return values.Color{}, false
			}
			nums = append(nums, arg{v: v, percent: true})
		default:
			return values.Color{}, false
		}
	}
	if len(nums) != 3 && len(nums) != 4 {
		return values.Color{}, false
	}
	alpha := 1.0
	if len(nums) == 4 {
		alpha = values.AlphaValue(nums[3].v, nums[3].percent)
	}
	return values.RGBA(
		values.ChannelValue(nums[0].v, nums[0].percent),
		values.ChannelValue(nums[1].v, nums[1].percent),
		values.ChannelValue(nums[2].v, nums[2].percent),
		alpha,
	), true
}
