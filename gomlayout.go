package gomlayout

import (
	"github.com/gompdf/gomlayout/pkg/api"
)

type Converter = api.Converter
type Result = api.Result
type Options = api.Options
type Option = api.Option

func New(opts ...Option) *Converter             { return api.New(opts...) }
func NewWithOptions(options Options) *Converter { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithViewport            = api.WithViewport
	WithScale               = api.WithScale
	WithUserAgentStylesheet = api.WithUserAgentStylesheet
	WithUserStylesheets     = api.WithUserStylesheets
	WithResourcePath        = api.WithResourcePath
	WithLogger              = api.WithLogger
	WithInlineStyles        = api.WithInlineStyles
	WithPruning             = api.WithPruning
	WithVerboseDump         = api.WithVerboseDump
	WithDumpIndent          = api.WithDumpIndent
	WithTitle               = api.WithTitle
	WithAuthor              = api.WithAuthor
	WithSubject             = api.WithSubject
	WithKeywords            = api.WithKeywords
	WithCompression         = api.WithCompression
)
