package pdf_test

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/gomlayout/internal/layout"
	"github.com/gompdf/gomlayout/internal/paint"
	"github.com/gompdf/gomlayout/internal/render/pdf"
)

func sampleList() *paint.DisplayList {
	return &paint.DisplayList{
		Canvas: layout.Size{Width: 800, Height: 600},
		Commands: []paint.Command{
			{Rect: layout.Rect{Width: 800, Height: 600}, Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xee, A: 0xff}},
			{Rect: layout.Rect{X: 8, Y: 8, Width: 100, Height: 20}, Color: color.NRGBA{B: 0xff, A: 0x80}},
		},
	}
}

func TestRenderWritesSinglePage(t *testing.T) {
	r := pdf.NewRenderer(nil)
	r.Compress = false

	var buf bytes.Buffer
	require.NoError(t, r.Render(sampleList(), &buf, pdf.RenderOptions{Title: "sample"}))

	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, out, "6.00 444.00 75.00 -15.00 re f")
	assert.Contains(t, out, "/Count 1")
}

func TestRenderFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.pdf")
	require.NoError(t, pdf.NewRenderer(nil).RenderFile(sampleList(), path, pdf.RenderOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
