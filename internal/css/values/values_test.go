package values_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/gomlayout/internal/css/values"
)

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want values.Length
		ok   bool
	}{
		{"10px", values.Length{Value: 10, Unit: values.Px}, true},
		{"1.5em", values.Length{Value: 1.5, Unit: values.Em}, true},
		{"-2rem", values.Length{Value: -2, Unit: values.Rem}, true},
		{"12PT", values.Length{Value: 12, Unit: values.Pt}, true},
		{"4Q", values.Length{Value: 4, Unit: values.Q}, true},
		{"1e1px", values.Length{Value: 10, Unit: values.Px}, true},
		{"3vw", values.Length{}, false},
		{"px", values.Length{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := values.ParseDimension(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLengthToPx(t *testing.T) {
	tests := []struct {
		l    values.Length
		want float64
	}{
		{values.Length{Value: 12, Unit: values.Pt}, 16},
		{values.Length{Value: 1, Unit: values.Pc}, 16},
		{values.Length{Value: 1, Unit: values.In}, 96},
		{values.Length{Value: 2.54, Unit: values.Cm}, 96},
		{values.Length{Value: 25.4, Unit: values.Mm}, 96},
		{values.Length{Value: 101.6, Unit: values.Q}, 96},
		{values.Length{Value: 2, Unit: values.Em}, 40},
		{values.Length{Value: 2, Unit: values.Rem}, 32},
	}
	for _, tt := range tests {
		t.Run(tt.l.String(), func(t *testing.T) {
			got, ok := tt.l.ToPx(20, 16)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok := values.Length{Value: 50, Unit: values.Percent}.ToPx(20, 16)
	assert.False(t, ok, "percentages need a basis")
}

func TestSizeResolve(t *testing.T) {
	v, ok := values.PercentSize(25).Resolve(800)
	require.True(t, ok)
	assert.Equal(t, 200.0, v)

	v, ok = values.PxSize(30).Resolve(800)
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	_, ok = values.AutoSize().Resolve(800)
	assert.False(t, ok)

	assert.Equal(t, "auto", values.AutoSize().String())
	assert.Equal(t, "12.5%", values.PercentSize(12.5).String())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want values.Color
	}{
		{"red", values.Color{RGBA: color.NRGBA{R: 255, A: 255}}},
		{"CornflowerBlue", values.Color{RGBA: color.NRGBA{R: 100, G: 149, B: 237, A: 255}}},
		{"#0f0", values.Color{RGBA: color.NRGBA{G: 255, A: 255}}},
		{"#0f08", values.Color{RGBA: color.NRGBA{G: 255, A: 0x88}}},
		{"#102030", values.Color{RGBA: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}}},
		{"#10203040", values.Color{RGBA: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}}},
		{"transparent", values.Transparent},
		{"currentColor", values.CurrentColor},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := values.ParseColor(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"#12", "#12345", "#ggg", "notacolor"} {
		_, ok := values.ParseColor(bad)
		assert.False(t, ok, bad)
	}
}

func TestColorResolveAndString(t *testing.T) {
	red, _ := values.ParseColor("red")
	assert.Equal(t, red, values.CurrentColor.Resolve(red))
	assert.Equal(t, values.Black, values.Black.Resolve(red))
	assert.Equal(t, "#ff0000", red.String())
	assert.Equal(t, "currentcolor", values.CurrentColor.String())
	assert.Equal(t, "rgba(0, 0, 255, 0.502)", values.RGBA(0, 0, 255, 0.5).String())
	assert.True(t, values.Transparent.IsTransparent())
	assert.False(t, values.CurrentColor.IsTransparent())
}

func TestKeywords(t *testing.T) {
	d, ok := values.ParseDisplay("Inline-Block")
	require.True(t, ok)
	assert.Equal(t, values.DisplayInlineBlock, d)
	assert.Equal(t, values.DisplayBlock, d.Blockify())
	assert.False(t, d.IsBlockLevel())
	assert.True(t, values.DisplayListItem.IsBlockLevel())

	m, ok := values.ParseWritingMode("sideways-lr")
	require.True(t, ok)
	assert.True(t, m.IsVertical())
	assert.False(t, values.HorizontalTB.IsVertical())

	_, ok = values.ParseBorderStyle("wavy")
	assert.False(t, ok)
	assert.False(t, values.BorderHidden.Visible())
	assert.True(t, values.BorderDashed.Visible())

	w, ok := values.Medium.BorderWidth()
	require.True(t, ok)
	assert.Equal(t, 3.0, w)

	fs, ok := values.Keyword("xxx-large").FontSize()
	require.True(t, ok)
	assert.Equal(t, 48.0, fs)

	assert.Equal(t, values.Left, values.Right.Opposite())
	assert.Equal(t, values.Bottom, values.Top.Opposite())
}
