package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	xhtml "golang.org/x/net/html"

	"github.com/gompdf/gomlayout/internal/layout"
	"github.com/gompdf/gomlayout/internal/paint"
	"github.com/gompdf/gomlayout/internal/parser/css"
	"github.com/gompdf/gomlayout/internal/parser/html"
	"github.com/gompdf/gomlayout/internal/render/pdf"
	"github.com/gompdf/gomlayout/internal/render/raster"
	"github.com/gompdf/gomlayout/internal/res"
	"github.com/gompdf/gomlayout/internal/style"
)

// Converter runs documents through cascade, box construction and layout.
type Converter struct {
	options Options
	log     *zap.Logger
}

// Result is a laid-out document.
type Result struct {
	Document *html.Document
	Root     *layout.BlockBox
	Styles   *style.StyleEngine
	// Canvas is the viewport in CSS px.
	Canvas layout.Size
	// Warnings lists dropped CSS and stylesheets that failed to load.
	Warnings []string

	dump layout.DumpOptions
}

// New creates a converter with default options modified by opts
func New(opts ...Option) *Converter {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a converter with the specified options
func NewWithOptions(options Options) *Converter {
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{options: options, log: log.Named("api")}
}

// Options returns a copy of the converter's options.
func (c *Converter) Options() Options { return c.options }

// WithOption returns a new converter with the specified option set
func (c *Converter) WithOption(option Option) *Converter {
	newOptions := c.options
	newOptions.UserStylesheets = append([]string(nil), c.options.UserStylesheets...)
	newOptions.ResourcePaths = append([]string(nil), c.options.ResourcePaths...)
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// Layout lays out htmlContent. Relative references in the document resolve
// against baseURL, a file path or URL.
func (c *Converter) Layout(ctx context.Context, htmlContent, baseURL string) (*Result, error) {
	if c.options.Scale <= 0 {
		return nil, fmt.Errorf("invalid device scale %v", c.options.Scale)
	}
	if c.options.ViewportWidth < 0 || c.options.ViewportHeight < 0 {
		return nil, fmt.Errorf("invalid viewport %vx%v", c.options.ViewportWidth, c.options.ViewportHeight)
	}

	doc, err := html.NewParser().ParseString(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	loader := c.loader(baseURL)
	cssParser := css.NewParser(c.log)
	result := &Result{
		Document: doc,
		dump:     layout.DumpOptions{Verbose: c.options.VerboseDump, Indent: c.options.DumpIndent},
	}

	userAgent := style.DefaultUserAgentStylesheet(c.log)
	if c.options.UserAgentStylesheet != "" {
		sheet, err := cssParser.ParseString(c.options.UserAgentStylesheet, "user-agent")
		if err != nil {
			result.warn(err)
		}
		userAgent = sheet
	}

	var loadErrs error
	var user []*css.Stylesheet
	for _, ref := range c.options.UserStylesheets {
		sheet, err := c.loadStylesheet(ctx, loader, cssParser, ref)
		loadErrs = multierr.Append(loadErrs, err)
		if sheet != nil {
			user = append(user, sheet)
		}
	}

	links, embedded := c.documentStylesheets(doc.Root, cssParser)
	var author []*css.Stylesheet
	for _, ref := range links {
		sheet, err := c.loadStylesheet(ctx, loader, cssParser, ref)
		loadErrs = multierr.Append(loadErrs, err)
		if sheet != nil {
			author = append(author, sheet)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range multierr.Errors(loadErrs) {
		c.log.Warn("Stylesheet problem", zap.Error(err))
		result.warn(err)
	}
	for _, sheets := range [][]*css.Stylesheet{{userAgent}, user, author, embedded} {
		for _, s := range sheets {
			result.Warnings = append(result.Warnings, s.Warnings...)
		}
	}

	engine := style.NewStyleEngine(c.log,
		style.WithInlineStyles(c.options.InlineStyles),
		style.WithPruning(c.options.PruneDeclarations))
	engine.ApplyStyles(doc.Root, embedded, []*css.Stylesheet{userAgent}, user, author)
	engine.CascadeAndCompute(doc.Root)
	result.Styles = engine

	layoutEngine := layout.NewEngine(c.log)
	root, err := layoutEngine.Build(doc.Root, engine)
	if err != nil {
		return nil, err
	}
	viewport := layout.Size{Width: c.options.ViewportWidth, Height: c.options.ViewportHeight}
	layoutEngine.Layout(root, viewport, c.options.Scale)
	result.Root = root
	result.Canvas = layout.Size{Width: viewport.Width / c.options.Scale, Height: viewport.Height / c.options.Scale}

	c.log.Debug("Layout complete", zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// LayoutFile lays out the HTML file at path.
func (c *Converter) LayoutFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file: %w", err)
	}
	return c.Layout(ctx, string(content), path)
}

// LayoutURL loads a document through the resource loader and lays it out.
func (c *Converter) LayoutURL(ctx context.Context, url string) (*Result, error) {
	r, err := c.loader(url).LoadDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML from URL: %w", err)
	}
	return c.Layout(ctx, r.String(), r.URL)
}

func (c *Converter) loader(baseURL string) *res.Loader {
	l := res.NewLoader(baseURL, c.log)
	for _, path := range c.options.ResourcePaths {
		l.AddSearchPath(path)
	}
	return l
}

// loadStylesheet loads and parses ref. A sheet with parse errors is still
// returned with what could be parsed.
func (c *Converter) loadStylesheet(ctx context.Context, l *res.Loader, p *css.Parser, ref string) (*css.Stylesheet, error) {
	r, err := l.LoadStylesheet(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("stylesheet %s: %w", ref, err)
	}
	sheet, err := p.ParseString(r.String(), r.URL)
	if err != nil {
		return sheet, fmt.Errorf("stylesheet %s: %w", ref, err)
	}
	return sheet, nil
}

// documentStylesheets walks the document in order and returns the
// references of <link rel="stylesheet"> elements and the parsed contents
// of <style> elements.
func (c *Converter) documentStylesheets(root *html.Node, p *css.Parser) (links []string, embedded []*css.Stylesheet) {
	html.Walk(root, func(n *html.Node) bool {
		if !n.IsElement() {
			return true
		}
		switch n.LocalName() {
		case "link":
			rel, _ := n.Attribute("rel")
			href, ok := n.Attribute("href")
			if ok && href != "" && hasToken(rel, "stylesheet") {
				links = append(links, href)
			}
		case "style":
			var b strings.Builder
			for t := n.FirstChild; t != nil; t = t.NextSibling {
				if t.Type == xhtml.TextNode {
					b.WriteString(t.Data)
				}
			}
			sheet, err := p.ParseString(b.String(), "")
			if err != nil {
				c.log.Debug("Embedded stylesheet has errors", zap.Error(err))
				sheet.Warnings = append(sheet.Warnings, err.Error())
			}
			embedded = append(embedded, sheet)
		}
		return true
	})
	return links, embedded
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

func (r *Result) warn(err error) {
	r.Warnings = append(r.Warnings, err.Error())
}

// Dump writes the box tree.
func (r *Result) Dump(w io.Writer) error {
	return layout.Dump(w, r.Root, r.dump)
}

// DisplayList paints the laid-out tree.
func (r *Result) DisplayList() *paint.DisplayList {
	return paint.BuildDisplayList(r.Root, r.Canvas)
}

// RenderPDF writes the result as a one-page PDF.
func (c *Converter) RenderPDF(r *Result, w io.Writer) error {
	return c.pdfRenderer().Render(r.DisplayList(), w, c.renderOptions())
}

// RenderPDFFile writes the result as a one-page PDF file.
func (c *Converter) RenderPDFFile(r *Result, outputPath string) error {
	return c.pdfRenderer().RenderFile(r.DisplayList(), outputPath, c.renderOptions())
}

func (c *Converter) pdfRenderer() *pdf.Renderer {
	renderer := pdf.NewRenderer(c.log)
	renderer.Compress = c.options.Compress
	return renderer
}

// RenderPNG writes the result as a PNG at the device scale.
func (c *Converter) RenderPNG(r *Result, w io.Writer) error {
	return raster.NewRenderer(c.log, c.options.Scale).Render(r.DisplayList(), w)
}

func (c *Converter) renderOptions() pdf.RenderOptions {
	return pdf.RenderOptions{
		Title:    c.options.Title,
		Author:   c.options.Author,
		Subject:  c.options.Subject,
		Keywords: c.options.Keywords,
		Creator:  "gomlayout",
		Producer: "gomlayout",
	}
}
