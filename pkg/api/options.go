package api

import (
	"go.uber.org/zap"
)

// Options represents configuration options for the layout pipeline
type Options struct {
	// Viewport in device pixels.
	ViewportWidth  float64
	ViewportHeight float64
	// Scale is the number of device pixels per CSS px.
	Scale float64

	// UserAgentStylesheet is CSS text replacing the built-in defaults.
	UserAgentStylesheet string
	// UserStylesheets are references loaded through the resource loader.
	UserStylesheets []string
	ResourcePaths   []string

	// InlineStyles controls whether style attributes take part in the
	// cascade.
	InlineStyles bool
	// PruneDeclarations drops per-element declarations once computed.
	PruneDeclarations bool

	VerboseDump bool
	DumpIndent  int

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
	// Compress enables PDF stream compression.
	Compress bool

	Logger *zap.Logger
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		ViewportWidth:  800,
		ViewportHeight: 600,
		Scale:          1,
		InlineStyles:   true,
		Compress:       true,
	}
}

// WithViewport sets the viewport size in device pixels
func WithViewport(width, height float64) Option {
	return func(o *Options) {
		o.ViewportWidth = width
		o.ViewportHeight = height
	}
}

// WithScale sets the device scale factor
func WithScale(scale float64) Option {
	return func(o *Options) {
		o.Scale = scale
	}
}

// WithUserAgentStylesheet replaces the built-in user-agent stylesheet
func WithUserAgentStylesheet(stylesheet string) Option {
	return func(o *Options) {
		o.UserAgentStylesheet = stylesheet
	}
}

// WithUserStylesheets adds user-origin stylesheet references
func WithUserStylesheets(refs ...string) Option {
	return func(o *Options) {
		o.UserStylesheets = append(o.UserStylesheets, refs...)
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

func WithInlineStyles(enabled bool) Option {
	return func(o *Options) {
		o.InlineStyles = enabled
	}
}

func WithPruning(enabled bool) Option {
	return func(o *Options) {
		o.PruneDeclarations = enabled
	}
}

// WithVerboseDump makes box tree dumps include margins, borders and padding
func WithVerboseDump(verbose bool) Option {
	return func(o *Options) {
		o.VerboseDump = verbose
	}
}

func WithDumpIndent(indent int) Option {
	return func(o *Options) {
		o.DumpIndent = indent
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

func WithCompression(enabled bool) Option {
	return func(o *Options) {
		o.Compress = enabled
	}
}
