package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/css/properties"
	"github.com/gompdf/gomlayout/internal/css/selector"
)

// Parser represents a CSS parser
type Parser struct {
	log *zap.Logger
}

// Location identifies a rule within its stylesheet.
type Location struct {
	Href  string
	Index int
}

func (l Location) String() string {
	href := l.Href
	if href == "" {
		href = "<inline>"
	}
	return fmt.Sprintf("%s#%d", href, l.Index)
}

// Rule represents a CSS style rule
type Rule struct {
	Selectors    selector.List
	Declarations []Declaration
	Location     Location
}

// Declaration represents a longhand declaration with its importance
type Declaration struct {
	properties.Declaration
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Declaration.String() + " !important"
	}
	return d.Declaration.String()
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Href     string
	Rules    []*Rule
	Warnings []string
}

// ParseError reports malformed CSS together with the input the parser had
// not consumed when it gave up on the construct.
type ParseError struct {
	Message   string
	Line      int
	Column    int
	Remaining string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css: %s at line %d, column %d", e.Message, e.Line, e.Column)
}

// NewParser creates a new CSS parser
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content, href string) (*Stylesheet, error) {
	r := newRun(p.log, content, &Stylesheet{Href: href})
	p.log.Debug("Parsing CSS", zap.String("source", href), zap.Int("bytes", len(content)))
	r.stylesheet(css.NewParser(r.input, false))
	if r.first != nil {
		return r.sheet, r.first
	}
	return r.sheet, nil
}

// Parse parses CSS from an io.Reader
func (p *Parser) Parse(rd io.Reader, href string) (*Stylesheet, error) {
	content, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return p.ParseString(string(content), href)
}

// ParseInline parses the body of a style attribute. Invalid declarations
// are dropped and reported as warnings.
func (p *Parser) ParseInline(content string) ([]Declaration, []string) {
	r := newRun(p.log, content, &Stylesheet{})
	decls, _ := r.declarations(css.NewParser(r.input, true), true)
	return decls, r.sheet.Warnings
}

// run carries the state of one parse.
type run struct {
	log     *zap.Logger
	content string
	input   *parse.Input
	sheet   *Stylesheet
	first   *ParseError
	// lastError is the input offset after the previous grammar error.
	lastError int
}

func newRun(log *zap.Logger, content string, sheet *Stylesheet) *run {
	return &run{
		log:       log,
		content:   content,
		input:     parse.NewInputString(content),
		sheet:     sheet,
		lastError: -1,
	}
}

func (r *run) warn(msg string, fields ...zap.Field) {
	r.sheet.Warnings = append(r.sheet.Warnings, msg)
	r.log.Debug(msg, fields...)
}

// failed handles an ErrorGrammar. The grammar parser has already skipped
// the malformed construct, so parsing goes on unless the input is exhausted
// or nothing was consumed since the previous error.
func (r *run) failed(cp *css.Parser) bool {
	err := cp.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	offset := r.input.Offset()
	stuck := offset == r.lastError
	r.lastError = offset
	var perr *parse.Error
	if errors.As(err, &perr) {
		pe := &ParseError{
			Message:   perr.Message,
			Line:      perr.Line,
			Column:    perr.Column,
			Remaining: r.content[offsetOf(r.content, perr.Line, perr.Column):],
		}
		if r.first == nil {
			r.first = pe
		}
		r.warn("CSS parse error", zap.Error(pe))
	} else {
		r.warn("CSS parse error", zap.Error(err))
	}
	return stuck
}

func (r *run) stylesheet(cp *css.Parser) {
	var prelude []string
	for {
		gt, _, data := cp.Next()
		if gt == css.ErrorGrammar {
			if r.failed(cp) {
				return
			}
			continue
		}

		switch gt {
		case css.QualifiedRuleGrammar:
			prelude = append(prelude, tokensText(data, cp.Values()))

		case css.BeginRulesetGrammar:
			prelude = append(prelude, tokensText(data, cp.Values()))
			text := strings.Join(prelude, ",")
			prelude = nil

			decls, eof := r.declarations(cp, false)
			sel, err := selector.Parse(text)
			if err != nil {
				r.warn("dropped rule: "+err.Error(), zap.String("selector", text))
			} else {
				r.sheet.Rules = append(r.sheet.Rules, &Rule{
					Selectors:    sel,
					Declarations: decls,
					Location:     Location{Href: r.sheet.Href, Index: len(r.sheet.Rules)},
				})
			}
			if eof {
				return
			}

		case css.BeginAtRuleGrammar:
			r.warn("unsupported at-rule "+string(data), zap.String("rule", string(data)))
			if r.skipBlock(cp) {
				return
			}

		case css.AtRuleGrammar:
			r.warn("unsupported at-rule "+string(data), zap.String("rule", string(data)))

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			r.warn("declaration outside of a rule: " + string(data))
		}
	}
}

// declarations consumes a declaration block up to its closing brace, or the
// whole input for style attributes. It reports whether input ran out.
func (r *run) declarations(cp *css.Parser, inline bool) ([]Declaration, bool) {
	var out []Declaration
	for {
		gt, _, data := cp.Next()
		switch gt {
		case css.ErrorGrammar:
			if r.failed(cp) {
				return out, true
			}
			continue
		case css.EndRulesetGrammar:
			if !inline {
				return out, false
			}
		case css.DeclarationGrammar:
			out = append(out, r.declaration(string(data), cp.Values())...)
		case css.CustomPropertyGrammar:
			r.log.Debug("Skipping custom property", zap.String("name", string(data)))
		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			r.warn("nested rule dropped")
			if r.skipBlock(cp) {
				return out, true
			}
		}
	}
}

func (r *run) declaration(name string, values []css.Token) []Declaration {
	values, important := splitImportant(values)
	decls, err := properties.Parse(name, values)
	if err != nil {
		r.warn("dropped declaration: "+err.Error(), zap.String("property", name))
		return nil
	}
	out := make([]Declaration, len(decls))
	for i, d := range decls {
		out[i] = Declaration{Declaration: d, Important: important}
	}
	return out
}

// skipBlock consumes grammar items until the block just opened is closed.
// It reports whether input ran out.
func (r *run) skipBlock(cp *css.Parser) bool {
	depth := 1
	for depth > 0 {
		gt, _, _ := cp.Next()
		switch gt {
		case css.ErrorGrammar:
			if r.failed(cp) {
				return true
			}
			continue
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return false
}

// splitImportant strips a trailing "!important" from declaration values.
func splitImportant(values []css.Token) ([]css.Token, bool) {
	end := len(values)
	skip := func() {
		for end > 0 && (values[end-1].TokenType == css.WhitespaceToken || values[end-1].TokenType == css.CommentToken) {
			end--
		}
	}
	skip()
	if end < 2 || values[end-1].TokenType != css.IdentToken || !strings.EqualFold(string(values[end-1].Data), "important") {
		return values[:end], false
	}
	i := end - 1
	for i > 0 && values[i-1].TokenType == css.WhitespaceToken {
		i--
	}
	if i == 0 || values[i-1].TokenType != css.DelimToken || string(values[i-1].Data) != "!" {
		return values[:end], false
	}
	end = i - 1
	skip()
	return values[:end], true
}

// tokensText rebuilds the source text of a rule prelude. The grammar item
// data is the block or list delimiter and is not part of the selector.
func tokensText(data []byte, values []css.Token) string {
	var sb bytes.Buffer
	if d := string(data); d != "{" && d != "," {
		sb.Write(data)
	}
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(sb.String())
}

// offsetOf converts a 1-based line and rune column into a byte offset.
func offsetOf(content string, line, col int) int {
	off := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(content[off:], '\n')
		if i < 0 {
			return len(content)
		}
		off += i + 1
	}
	for c := 1; c < col && off < len(content); c++ {
		if content[off] == '\n' {
			break
		}
		_, size := utf8.DecodeRuneInString(content[off:])
		off += size
	}
	return off
}
