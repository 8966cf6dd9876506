package raster_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/gomlayout/internal/layout"
	"github.com/gompdf/gomlayout/internal/paint"
	"github.com/gompdf/gomlayout/internal/render/raster"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
)

func list() *paint.DisplayList {
	return &paint.DisplayList{
		Canvas: layout.Size{Width: 20, Height: 10},
		Commands: []paint.Command{
			{Rect: layout.Rect{X: 2, Y: 2, Width: 4, Height: 3}, Color: red},
			{Rect: layout.Rect{X: 10, Y: 0, Width: 0, Height: 10}, Color: red},
		},
	}
}

func TestRasterize(t *testing.T) {
	img := raster.NewRenderer(nil, 1).Rasterize(list())
	require.Equal(t, 20, img.Bounds().Dx())
	require.Equal(t, 10, img.Bounds().Dy())

	assert.Equal(t, red, img.NRGBAAt(2, 2))
	assert.Equal(t, red, img.NRGBAAt(5, 4))
	assert.Equal(t, white, img.NRGBAAt(6, 4))
	assert.Equal(t, white, img.NRGBAAt(1, 2))
	assert.Equal(t, white, img.NRGBAAt(10, 5), "empty rectangles paint nothing")
}

func TestRasterizeScales(t *testing.T) {
	img := raster.NewRenderer(nil, 2).Rasterize(list())
	require.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, red, img.NRGBAAt(4, 4))
	assert.Equal(t, red, img.NRGBAAt(11, 9))
	assert.Equal(t, white, img.NRGBAAt(12, 9))
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, raster.NewRenderer(nil, 1).Render(list(), &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	r, _, _, _ := img.At(3, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}
