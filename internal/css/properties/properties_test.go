package properties_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/gompdf/gomlayout/internal/css/properties"
	"github.com/gompdf/gomlayout/internal/css/values"
)

func lex(s string) []css.Token {
	l := css.NewLexer(parse.NewInputString(s))
	var out []css.Token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return out
		}
		out = append(out, css.Token{TokenType: tt, Data: append([]byte(nil), data...)})
	}
}

func mustParse(t *testing.T, name, value string) []properties.Declaration {
	t.Helper()
	decls, err := properties.Parse(name, lex(value))
	require.NoError(t, err)
	return decls
}

func TestLonghands(t *testing.T) {
	tests := []struct {
		name, value string
		want        properties.Declaration
	}{
		{"width", "auto", properties.Declaration{ID: properties.Width, Value: values.Auto}},
		{"WIDTH", "50%", properties.Declaration{ID: properties.Width, Value: values.Length{Value: 50, Unit: values.Percent}}},
		{"height", "0", properties.Declaration{ID: properties.Height, Value: values.Pixels(0)}},
		{"margin-left", "-1.5em", properties.Declaration{ID: properties.MarginLeft, Value: values.Length{Value: -1.5, Unit: values.Em}}},
		{"padding-top", "2pt", properties.Declaration{ID: properties.PaddingTop, Value: values.Length{Value: 2, Unit: values.Pt}}},
		{"border-top-width", "thick", properties.Declaration{ID: properties.BorderTopWidth, Value: values.Thick}},
		{"border-left-style", "dashed", properties.Declaration{ID: properties.BorderLeftStyle, Value: values.BorderDashed}},
		{"color", "rgb(255, 0, 0)", properties.Declaration{ID: properties.Color, Value: values.RGBA(255, 0, 0, 1)}},
		{"color", "rgba(0 0 255 / 50%)", properties.Declaration{ID: properties.Color, Value: values.RGBA(0, 0, 255, 0.5)}},
		{"background-color", "#fff", properties.Declaration{ID: properties.BackgroundColor, Value: values.White}},
		{"font-size", "x-large", properties.Declaration{ID: properties.FontSize, Value: values.Keyword("x-large")}},
		{"font-size", "larger", properties.Declaration{ID: properties.FontSize, Value: values.Larger}},
		{"writing-mode", "vertical-rl", properties.Declaration{ID: properties.WritingMode, Value: values.VerticalRL}},
		{"direction", "rtl", properties.Declaration{ID: properties.Direction, Value: values.RTL}},
		{"display", "none", properties.Declaration{ID: properties.Display, Value: values.DisplayNone}},
		{"box-sizing", "border-box", properties.Declaration{ID: properties.BoxSizing, Value: values.BorderBox}},
		{"margin-top", "inherit", properties.Declaration{ID: properties.MarginTop, Value: values.Inherit}},
	}
	for _, tt := range tests {
		t.Run(tt.name+":"+tt.value, func(t *testing.T) {
			decls := mustParse(t, tt.name, tt.value)
			require.Len(t, decls, 1)
			assert.Equal(t, tt.want, decls[0])
		})
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct{ name, value string }{
		{"width", "-10px"},
		{"width", "10"},
		{"padding-left", "auto"},
		{"border-top-width", "10%"},
		{"display", "grid"},
		{"color", "rgb(1, 2)"},
		{"color", "red blue"},
		{"margin", "1px 2px 3px 4px 5px"},
		{"border", "1px 2px"},
		{"background", "url(x.png)"},
	}
	for _, tt := range tests {
		t.Run(tt.name+":"+tt.value, func(t *testing.T) {
			_, err := properties.Parse(tt.name, lex(tt.value))
			require.Error(t, err)
			assert.True(t, errors.Is(err, properties.ErrInvalidValue), err.Error())
		})
	}
}

func TestUnknownProperty(t *testing.T) {
	_, err := properties.Parse("float", lex("left"))
	require.ErrorIs(t, err, properties.ErrUnknownProperty)
}

func TestBoxShorthands(t *testing.T) {
	px := func(v float64) values.Specified { return values.Pixels(v) }
	tests := []struct {
		value      string
		t, r, b, l values.Specified
	}{
		{"1px", px(1), px(1), px(1), px(1)},
		{"1px 2px", px(1), px(2), px(1), px(2)},
		{"1px auto 3px", px(1), values.Auto, px(3), values.Auto},
		{"1px 2px 3px 4px", px(1), px(2), px(3), px(4)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := mustParse(t, "margin", tt.value)
			want := []properties.Declaration{
				{ID: properties.MarginTop, Value: tt.t},
				{ID: properties.MarginRight, Value: tt.r},
				{ID: properties.MarginBottom, Value: tt.b},
				{ID: properties.MarginLeft, Value: tt.l},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("margin %q mismatch (-want +got):\n%s", tt.value, diff)
			}
		})
	}
}

func TestBorderShorthand(t *testing.T) {
	got := mustParse(t, "border-left", "solid 2px")
	want := []properties.Declaration{
		{ID: properties.BorderLeftWidth, Value: values.Pixels(2)},
		{ID: properties.BorderLeftStyle, Value: values.BorderSolid},
		{ID: properties.BorderLeftColor, Value: values.CurrentColor},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("border-left mismatch (-want +got):\n%s", diff)
	}

	all := mustParse(t, "border", "1px dotted green")
	require.Len(t, all, 12)
	for _, s := range values.Sides {
		assert.Contains(t, all, properties.Declaration{ID: properties.BorderStyle(s), Value: values.BorderDotted})
	}
}

func TestShorthandWideKeyword(t *testing.T) {
	got := mustParse(t, "padding", "initial")
	require.Len(t, got, 4)
	for _, d := range got {
		assert.Equal(t, values.Initial, d.Value)
	}
}

func TestBackgroundShorthand(t *testing.T) {
	got := mustParse(t, "background", "none red")
	require.Len(t, got, 1)
	assert.Equal(t, "background-color: #ff0000", got[0].String())

	got = mustParse(t, "background", "none")
	assert.Equal(t, values.Transparent, got[0].Value)
}

func TestRegistry(t *testing.T) {
	id, ok := properties.Lookup("Font-Size")
	require.True(t, ok)
	assert.Equal(t, properties.FontSize, id)

	var inherited []string
	for _, id := range properties.All() {
		if id.Inherited() {
			inherited = append(inherited, id.String())
		}
	}
	assert.Equal(t, []string{"color", "direction", "font-size", "writing-mode"}, inherited)
	assert.Equal(t, values.Medium, properties.BorderTopWidth.Initial())
	assert.True(t, properties.IsShorthand("border"))
	assert.False(t, properties.IsShorthand("border-top-width"))
	assert.Equal(t, properties.PaddingRight, properties.Padding(values.Right))
}
