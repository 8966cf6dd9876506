// Package raster paints a display list into a bitmap.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/paint"
)

// Renderer rasterizes display lists. Scale maps CSS px to device pixels.
type Renderer struct {
	log   *zap.Logger
	Scale float64
	// Background is painted under the display list.
	Background color.Color
}

func NewRenderer(log *zap.Logger, scale float64) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{log: log.Named("raster"), Scale: scale, Background: color.White}
}

// Rasterize paints dl onto a new image the size of the canvas in device
// pixels. Rectangle edges are rounded to the nearest pixel.
func (r *Renderer) Rasterize(dl *paint.DisplayList) *image.NRGBA {
	w := int(math.Round(dl.Canvas.Width * r.Scale))
	h := int(math.Round(dl.Canvas.Height * r.Scale))
	img := imaging.New(w, h, r.Background)

	for _, cmd := range dl.Commands {
		x0, y0 := r.device(cmd.Rect.X), r.device(cmd.Rect.Y)
		x1, y1 := r.device(cmd.Rect.X+cmd.Rect.Width), r.device(cmd.Rect.Y+cmd.Rect.Height)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		patch := imaging.New(x1-x0, y1-y0, cmd.Color)
		img = imaging.Overlay(img, patch, image.Pt(x0, y0), 1)
	}
	r.log.Debug("Rasterized display list", zap.Int("commands", len(dl.Commands)), zap.Int("width", w), zap.Int("height", h))
	return img
}

// Render writes dl as PNG.
func (r *Renderer) Render(dl *paint.DisplayList, w io.Writer) error {
	if err := imaging.Encode(w, r.Rasterize(dl), imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("unable to encode PNG: %w", err)
	}
	return nil
}

func (r *Renderer) device(v float64) int {
	return int(math.Round(v * r.Scale))
}
