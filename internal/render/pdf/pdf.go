package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/paint"
)

// PointsPerPixel converts CSS px to PDF points.
const PointsPerPixel = 0.75

// Renderer handles rendering to PDF
type Renderer struct {
	log *zap.Logger
	// Compress controls stream compression of the page content.
	Compress bool
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("pdf"), Compress: true}
}

// Render writes dl as a single-page PDF whose page is the canvas.
func (r *Renderer) Render(dl *paint.DisplayList, w io.Writer, options RenderOptions) error {
	doc := r.document(dl, options)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// RenderFile is Render into a file, creating its directory when needed.
func (r *Renderer) RenderFile(dl *paint.DisplayList, outputPath string, options RenderOptions) error {
	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	doc := r.document(dl, options)
	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

func (r *Renderer) document(dl *paint.DisplayList, options RenderOptions) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size: fpdf.SizeType{
			Wd: dl.Canvas.Width * PointsPerPixel,
			Ht: dl.Canvas.Height * PointsPerPixel,
		},
	})
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)
	pdf.AddPage()

	r.log.Debug("Rendering display list",
		zap.Int("commands", len(dl.Commands)),
		zap.Float64("width", dl.Canvas.Width),
		zap.Float64("height", dl.Canvas.Height))

	for _, cmd := range dl.Commands {
		c := cmd.Color
		if c.A < 0xff {
			pdf.SetAlpha(float64(c.A)/0xff, "Normal")
		}
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(
			cmd.Rect.X*PointsPerPixel,
			cmd.Rect.Y*PointsPerPixel,
			cmd.Rect.Width*PointsPerPixel,
			cmd.Rect.Height*PointsPerPixel,
			"F")
		if c.A < 0xff {
			pdf.SetAlpha(1, "Normal")
		}
	}
	return pdf
}
