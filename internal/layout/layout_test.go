package layout_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gassert "github.com/gompdf/gomlayout/internal/assert"
	"github.com/gompdf/gomlayout/internal/css/values"
	"github.com/gompdf/gomlayout/internal/layout"
	"github.com/gompdf/gomlayout/internal/parser/css"
	"github.com/gompdf/gomlayout/internal/parser/html"
	"github.com/gompdf/gomlayout/internal/style"
)

const base = `html, body, div, p { display: block } head { display: none } `

var viewport = layout.Size{Width: 800, Height: 600}

func build(t *testing.T, markup, sheet string) *layout.BlockBox {
	t.Helper()
	doc, err := html.NewParser().ParseString(markup)
	require.NoError(t, err)
	ss, err := css.NewParser(nil).ParseString(sheet, "test.css")
	require.NoError(t, err)
	require.Empty(t, ss.Warnings)

	e := style.NewStyleEngine(nil)
	e.ApplyStyles(doc.Root, nil, nil, nil, []*css.Stylesheet{ss})
	e.CascadeAndCompute(doc.Root)

	root, err := layout.NewEngine(nil).Build(doc.Root, e)
	require.NoError(t, err)
	return root
}

func lay(t *testing.T, markup, sheet string) *layout.BlockBox {
	t.Helper()
	root := build(t, markup, sheet)
	layout.Layout(root, viewport, 1)
	return root
}

func find(t *testing.T, root layout.Box, id string) layout.Box {
	t.Helper()
	var found layout.Box
	layout.Walk(root, func(b layout.Box, _ int) bool {
		if n := b.Node(); found == nil && n != nil && n.IsElement() && n.ID() == id {
			found = b
		}
		return found == nil
	})
	require.NotNil(t, found, "no box for #%s", id)
	return found
}

const single = `<html><body><div id="a"></div></body></html>`

func TestAutoWidthFillsContainingBlock(t *testing.T) {
	root := lay(t, single, base)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 800.0, d.Content.Width)
	assert.Equal(t, layout.EdgeSizes{}, d.Margin)
	assert.Equal(t, layout.Rect{Width: 800}, d.Content)
}

func TestAutoMarginsCenter(t *testing.T) {
	root := lay(t, single, base+`#a { width: 400px; margin-left: auto; margin-right: auto }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 200.0, d.Margin.Left)
	assert.Equal(t, 200.0, d.Margin.Right)
	assert.Equal(t, 200.0, d.Content.X)
	assert.Equal(t, 400.0, d.Content.Width)
}

func TestOverConstrainedLTR(t *testing.T) {
	root := lay(t, single, base+`#a { width: 300px; margin-left: 100px; margin-right: 100px }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 100.0, d.Margin.Left)
	assert.Equal(t, 400.0, d.Margin.Right)
	assert.Equal(t, 100.0, d.Content.X)
	assert.Equal(t, 800.0, d.MarginBox().Width)
}

func TestOverConstrainedRTL(t *testing.T) {
	root := lay(t, single, base+`body { direction: rtl } #a { width: 300px; margin-left: 100px; margin-right: 100px }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 400.0, d.Margin.Left)
	assert.Equal(t, 100.0, d.Margin.Right)
	assert.Equal(t, 400.0, d.Content.X)
}

func TestOneAutoMargin(t *testing.T) {
	root := lay(t, single, base+`#a { width: 300px; margin-left: auto; margin-right: 50px }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 450.0, d.Margin.Left)
	assert.Equal(t, 450.0, d.Content.X)
}

func TestWideBoxDropsAutoMargins(t *testing.T) {
	root := lay(t, single, base+`#a { width: 900px; margin-left: auto; margin-right: auto }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 0.0, d.Margin.Left)
	assert.Equal(t, -100.0, d.Margin.Right)
}

func TestAutoWidthWithNegativeRemainder(t *testing.T) {
	root := lay(t, single, base+`#a { padding-left: 500px; margin-left: 400px }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 0.0, d.Content.Width)
	assert.Equal(t, -100.0, d.Margin.Right)
}

func TestPercentagesResolveAgainstInlineSize(t *testing.T) {
	root := lay(t, single, base+`body { width: 400px } #a { width: 50%; padding-top: 10%; margin-left: 25% }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, 200.0, d.Content.Width)
	assert.Equal(t, 40.0, d.Padding.Top)
	assert.Equal(t, 100.0, d.Margin.Left)
}

func TestBlocksStack(t *testing.T) {
	markup := `<html><body><div id="a"></div><div id="b"></div></body></html>`
	root := lay(t, markup, base+`#a { height: 50px; margin: 10px } #b { height: 20px }`)

	a := find(t, root, "a").Dimensions()
	assert.Equal(t, layout.Rect{X: 10, Y: 10, Width: 780, Height: 50}, a.Content)
	b := find(t, root, "b").Dimensions()
	assert.Equal(t, layout.Rect{X: 0, Y: 70, Width: 800, Height: 20}, b.Content)

	assert.Equal(t, 90.0, root.Dimensions().Content.Height)
}

func TestPercentageBlockSize(t *testing.T) {
	markup := `<html><body><div id="a"></div></body></html>`
	root := lay(t, markup, base+`html { height: 50% } body { height: 50% } #a { height: 50% }`)
	assert.Equal(t, 300.0, root.Dimensions().Content.Height)
	assert.Equal(t, 75.0, find(t, root, "a").Dimensions().Content.Height)

	root = lay(t, markup, base+`html { height: 50% } #a { height: 50% }`)
	assert.Equal(t, 300.0, root.Dimensions().Content.Height)
	assert.Equal(t, 0.0, find(t, root, "a").Dimensions().Content.Height, "auto-sized parent is not definite")
}

func TestVerticalRLRootIsPlacedFromTheRight(t *testing.T) {
	root := lay(t, single, base+`html { writing-mode: vertical-rl; width: 100px }`)
	d := root.Dimensions()
	assert.Equal(t, layout.Rect{X: 700, Y: 0, Width: 100, Height: 600}, d.Content)
	assert.Equal(t, 800.0, d.BorderBox().X+d.BorderBox().Width, "block-start edge is the viewport's right edge")
}

func TestVerticalRLStacksLeftward(t *testing.T) {
	markup := `<html><body><div id="a"></div><div id="b"></div></body></html>`
	root := lay(t, markup, base+`html { writing-mode: vertical-rl } #a { width: 30px; margin-right: 5px } #b { width: 20px; height: 100px }`)

	a := find(t, root, "a").Dimensions()
	assert.Equal(t, layout.Rect{X: 765, Y: 0, Width: 30, Height: 600}, a.Content)
	b := find(t, root, "b").Dimensions()
	assert.Equal(t, layout.Rect{X: 745, Y: 0, Width: 20, Height: 100}, b.Content)
	assert.Equal(t, 500.0, b.Margin.Bottom, "over-constrained inline-end margin is the bottom one")

	rd := root.Dimensions()
	assert.Equal(t, layout.Rect{X: 745, Y: 0, Width: 55, Height: 600}, rd.Content)
}

func TestVerticalLRStacksRightward(t *testing.T) {
	markup := `<html><body><div id="a"></div><div id="b"></div></body></html>`
	root := lay(t, markup, base+`html { writing-mode: vertical-lr; direction: rtl } #a { width: 30px } #b { width: 20px; height: 100px }`)

	a := find(t, root, "a").Dimensions()
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 30, Height: 600}, a.Content)
	b := find(t, root, "b").Dimensions()
	assert.Equal(t, layout.Rect{X: 30, Y: 500, Width: 20, Height: 100}, b.Content, "rtl inline-start is the bottom")
	assert.Equal(t, 500.0, b.Margin.Top)
}

func TestOrthogonalWritingModeFallsBack(t *testing.T) {
	markup := `<html><body><div id="a"><div id="b"></div></div></body></html>`
	root := lay(t, markup, base+`#a { writing-mode: vertical-rl; height: 40px } #b { height: 10px }`)
	a := find(t, root, "a").Dimensions()
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 800, Height: 40}, a.Content)
	b := find(t, root, "b").Dimensions()
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 800, Height: 10}, b.Content)
}

func TestBorderBoxSizingAppliedLast(t *testing.T) {
	root := lay(t, single, base+`#a { box-sizing: border-box; width: 200px; height: 100px; padding: 10px; border: 5px solid }`)
	d := find(t, root, "a").Dimensions()
	assert.Equal(t, layout.Rect{X: 15, Y: 15, Width: 170, Height: 70}, d.Content)
	assert.Equal(t, 200.0, d.BorderBox().Width)
	assert.Equal(t, 100.0, d.BorderBox().Height)
	assert.Equal(t, 570.0, d.Margin.Right, "margins keep the content-box solution")
}

func TestDeviceScale(t *testing.T) {
	root := build(t, single, base)
	layout.Layout(root, layout.Size{Width: 1600, Height: 1200}, 2)
	assert.Equal(t, 800.0, root.Dimensions().Content.Width)
}

func TestBoxGeometryComposes(t *testing.T) {
	markup := `<html><body><div id="a">x<p>y</p></div><div id="b"></div></body></html>`
	sheets := []string{
		base + `body { margin: 8px; padding: 3px 4px } #a { border: 2px solid; padding: 5% 1px; margin: 7px auto; width: 50% } p { border-left: 9px solid; margin: 1px 2px 3px 4px }`,
		base + `html { writing-mode: vertical-rl; direction: rtl } body { margin: 8px 1px; border: thin solid } #a { padding: 3px; margin-top: 11px; width: 40px }`,
		base + `html { writing-mode: sideways-lr } #a { border: medium dashed; padding: 2px 4px; height: 30% }`,
	}
	for _, sheet := range sheets {
		root := lay(t, markup, sheet)
		layout.Walk(root, func(b layout.Box, _ int) bool {
			d := b.Dimensions()
			c, p, br, m := d.Content, d.Padding, d.Border, d.Margin
			want := layout.Rect{
				X:      c.X - p.Left - br.Left,
				Y:      c.Y - p.Top - br.Top,
				Width:  c.Width + p.Left + p.Right + br.Left + br.Right,
				Height: c.Height + p.Top + p.Bottom + br.Top + br.Bottom,
			}
			assert.InDeltaMapValues(t, rectMap(want), rectMap(d.BorderBox()), 1e-9, b.Name())
			wantMargin := layout.Rect{
				X:      want.X - m.Left,
				Y:      want.Y - m.Top,
				Width:  want.Width + m.Left + m.Right,
				Height: want.Height + m.Top + m.Bottom,
			}
			assert.InDeltaMapValues(t, rectMap(wantMargin), rectMap(d.MarginBox()), 1e-9, b.Name())
			assert.Equal(t, d.BorderBox(), d.PaddingBox().ExpandedBy(d.Border))
			return true
		})
	}
}

func rectMap(r layout.Rect) map[string]float64 {
	return map[string]float64{"x": r.X, "y": r.Y, "w": r.Width, "h": r.Height}
}

func TestInlineBoxesTakeNoSpace(t *testing.T) {
	markup := `<html><body><div id="a"></div><span id="s">text</span></body></html>`
	root := lay(t, markup, base+`#a { height: 30px }`)
	s := find(t, root, "s")
	assert.Equal(t, layout.Rect{X: 0, Y: 30}, s.Dimensions().Content)
	assert.Equal(t, 30.0, root.Dimensions().Content.Height)
}

func TestLayoutRejectsNonFiniteInput(t *testing.T) {
	root := build(t, single, base)
	assert.PanicsWithValue(t, gassert.Violation{Message: "viewport must be finite, got NaNx600"}, func() {
		layout.Layout(root, layout.Size{Width: math.NaN(), Height: 600}, 1)
	})
	assert.Panics(t, func() { layout.Layout(root, viewport, 0) })
	assert.Panics(t, func() { layout.Layout(root, layout.Size{Width: math.Inf(1), Height: 600}, 1) })
}

func TestFlowPhysicalSides(t *testing.T) {
	tests := []struct {
		wm       values.WritingMode
		dir      values.Direction
		bs, is   values.Side
		vertical bool
	}{
		{values.HorizontalTB, values.LTR, values.Top, values.Left, false},
		{values.HorizontalTB, values.RTL, values.Top, values.Right, false},
		{values.VerticalRL, values.LTR, values.Right, values.Top, true},
		{values.VerticalRL, values.RTL, values.Right, values.Bottom, true},
		{values.SidewaysRL, values.LTR, values.Right, values.Top, true},
		{values.VerticalLR, values.LTR, values.Left, values.Top, true},
		{values.VerticalLR, values.RTL, values.Left, values.Bottom, true},
		{values.SidewaysLR, values.LTR, values.Left, values.Bottom, true},
		{values.SidewaysLR, values.RTL, values.Left, values.Top, true},
	}
	for _, tt := range tests {
		t.Run(tt.wm.String()+"/"+tt.dir.String(), func(t *testing.T) {
			f := layout.Flow{WritingMode: tt.wm, Direction: tt.dir}
			assert.Equal(t, tt.bs, f.Physical(layout.BlockStart))
			assert.Equal(t, tt.bs.Opposite(), f.Physical(layout.BlockEnd))
			assert.Equal(t, tt.is, f.Physical(layout.InlineStart))
			assert.Equal(t, tt.is.Opposite(), f.Physical(layout.InlineEnd))

			d := layout.Dimensions{Content: layout.Rect{Width: 3, Height: 7}}
			if tt.vertical {
				assert.Equal(t, 7.0, d.InlineSize(f))
				assert.Equal(t, 3.0, d.BlockSize(f))
			} else {
				assert.Equal(t, 3.0, d.InlineSize(f))
				assert.Equal(t, 7.0, d.BlockSize(f))
			}

			var e layout.EdgeSizes
			e.SetLogical(f, layout.InlineStart, 4)
			assert.Equal(t, 4.0, e.Get(tt.is))
			assert.Equal(t, 4.0, e.Logical(f, layout.InlineStart))
		})
	}
}
