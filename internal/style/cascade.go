package style

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/assert"
	"github.com/gompdf/gomlayout/internal/css/properties"
	"github.com/gompdf/gomlayout/internal/css/selector"
	"github.com/gompdf/gomlayout/internal/parser/css"
	"github.com/gompdf/gomlayout/internal/parser/html"
)

// CascadeOrigin is the cascade origin of a declaration.
type CascadeOrigin uint8

const (
	UserAgent CascadeOrigin = iota
	User
	Author
)

func (o CascadeOrigin) String() string {
	switch o {
	case UserAgent:
		return "user-agent"
	case User:
		return "user"
	case Author:
		return "author"
	}
	return fmt.Sprintf("CascadeOrigin(%d)", uint8(o))
}

// OriginKind tells where a rule came from.
type OriginKind uint8

const (
	// Sheet is a standalone stylesheet, named by its href.
	Sheet OriginKind = iota
	// Embedded is a <style> element of the document.
	Embedded
	// Inline is a style attribute.
	Inline
)

func (k OriginKind) String() string {
	switch k {
	case Sheet:
		return "sheet"
	case Embedded:
		return "embedded"
	case Inline:
		return "inline"
	}
	return fmt.Sprintf("OriginKind(%d)", uint8(k))
}

// Origin is the provenance stamped on every contextual declaration.
type Origin struct {
	Kind    OriginKind
	Name    string
	Cascade CascadeOrigin
}

func (o Origin) String() string {
	if o.Name == "" {
		return o.Kind.String() + "/" + o.Cascade.String()
	}
	return o.Kind.String() + "(" + o.Name + ")/" + o.Cascade.String()
}

// ContextualDeclaration is a declaration attached to one element together
// with everything the cascade needs to rank it.
type ContextualDeclaration struct {
	properties.Declaration
	Important   bool
	Origin      Origin
	Location    css.Location
	Specificity selector.Specificity
	// Order is the position of the declaration among all declarations
	// applied since the last Reset.
	Order int
}

func (d ContextualDeclaration) String() string {
	s := d.Declaration.String()
	if d.Important {
		s += " !important"
	}
	return fmt.Sprintf("%s [%s %s %s #%d]", s, d.Origin, d.Location, d.Specificity, d.Order)
}

// layer ranks origin and importance together:
// UA < user < author < author !important < user !important < UA !important.
func (d ContextualDeclaration) layer() int {
	switch d.Origin.Cascade {
	case UserAgent:
		if d.Important {
			return 5
		}
		return 0
	case User:
		if d.Important {
			return 4
		}
		return 1
	default:
		if d.Important {
			return 3
		}
		return 2
	}
}

// comparePrecedence orders declarations so that the winner sorts last.
func comparePrecedence(a, b ContextualDeclaration) int {
	if c := cmp.Compare(a.layer(), b.layer()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Specificity, b.Specificity); c != 0 {
		return c
	}
	return cmp.Compare(a.Order, b.Order)
}

// StyleEngine handles the CSS cascade and style computation. Per-node
// declarations and computed values live in the engine, keyed by node; the
// markup tree itself is never written to.
type StyleEngine struct {
	log          *zap.Logger
	parser       *css.Parser
	inlineStyles bool
	prune        bool

	order    int
	decls    map[*html.Node][]ContextualDeclaration
	computed map[*html.Node]*ComputedValues
}

// Option configures a StyleEngine.
type Option func(*StyleEngine)

// WithInlineStyles controls whether style attributes take part in the
// cascade. They do by default.
func WithInlineStyles(enabled bool) Option {
	return func(e *StyleEngine) { e.inlineStyles = enabled }
}

// WithPruning makes CascadeAndCompute drop every declaration that did not
// win for its property.
func WithPruning(enabled bool) Option {
	return func(e *StyleEngine) { e.prune = enabled }
}

// NewStyleEngine creates a new style engine
func NewStyleEngine(log *zap.Logger, opts ...Option) *StyleEngine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &StyleEngine{
		log:          log.Named("cascade"),
		parser:       css.NewParser(log),
		inlineStyles: true,
		decls:        make(map[*html.Node][]ContextualDeclaration),
		computed:     make(map[*html.Node]*ComputedValues),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyStyles attaches the declarations of every rule to the elements under
// root that the rule matches. Origins are processed in a fixed order:
// user-agent, user and author sheets, then embedded rules, then style
// attributes.
func (e *StyleEngine) ApplyStyles(root *html.Node, embedded, userAgent, user, author []*css.Stylesheet) {
	var elements []*html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n.IsElement() {
			elements = append(elements, n)
		}
		return true
	})

	for _, sheet := range userAgent {
		e.applySheet(elements, sheet, Origin{Kind: Sheet, Name: sheet.Href, Cascade: UserAgent})
	}
	for _, sheet := range user {
		e.applySheet(elements, sheet, Origin{Kind: Sheet, Name: sheet.Href, Cascade: User})
	}
	for _, sheet := range author {
		e.applySheet(elements, sheet, Origin{Kind: Sheet, Name: sheet.Href, Cascade: Author})
	}
	for _, sheet := range embedded {
		e.applySheet(elements, sheet, Origin{Kind: Embedded, Name: sheet.Href, Cascade: Author})
	}
	if e.inlineStyles {
		e.applyInlineStyles(elements)
	}
}

// applySheet applies styles from a stylesheet to the elements it matches.
func (e *StyleEngine) applySheet(elements []*html.Node, sheet *css.Stylesheet, origin Origin) {
	if sheet == nil {
		return
	}
	matched := 0
	for _, rule := range sheet.Rules {
		for _, n := range elements {
			if !rule.Selectors.Matches(n) {
				continue
			}
			best, ok := rule.Selectors.MostSpecificMatch(n)
			assert.Invariant(ok, "rule %s matched <%s> but has no matching selector", rule.Location, n.LocalName())
			e.attach(n, rule.Declarations, origin, rule.Location, best.Specificity())
			matched++
		}
	}
	e.log.Debug("Applied stylesheet",
		zap.Stringer("origin", origin),
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("matches", matched))
}

// applyInlineStyles parses style attributes and attaches them with a
// specificity above any selector.
func (e *StyleEngine) applyInlineStyles(elements []*html.Node) {
	for _, n := range elements {
		text, ok := n.Attribute("style")
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		decls, warnings := e.parser.ParseInline(text)
		for _, w := range warnings {
			e.log.Debug("Inline style", zap.String("element", n.LocalName()), zap.String("warning", w))
		}
		e.attach(n, decls, Origin{Kind: Inline, Cascade: Author}, css.Location{Index: -1}, selector.InlineStyle)
	}
}

func (e *StyleEngine) attach(n *html.Node, decls []css.Declaration, origin Origin, loc css.Location, spec selector.Specificity) {
	for _, d := range decls {
		e.decls[n] = append(e.decls[n], ContextualDeclaration{
			Declaration: d.Declaration,
			Important:   d.Important,
			Origin:      origin,
			Location:    loc,
			Specificity: spec,
			Order:       e.order,
		})
		e.order++
	}
}

// Declarations returns the declarations attached to n in attachment order,
// or in precedence order once CascadeAndCompute has pruned them.
func (e *StyleEngine) Declarations(n *html.Node) []ContextualDeclaration {
	return slices.Clone(e.decls[n])
}

// Reset forgets every attached declaration and computed value.
func (e *StyleEngine) Reset() {
	e.order = 0
	clear(e.decls)
	clear(e.computed)
}

// sorted returns n's declarations in ascending precedence.
func (e *StyleEngine) sorted(n *html.Node) []ContextualDeclaration {
	decls := slices.Clone(e.decls[n])
	slices.SortStableFunc(decls, comparePrecedence)
	return decls
}

// DefaultUserAgentStylesheet returns the built-in user agent stylesheet
func DefaultUserAgentStylesheet(log *zap.Logger) *css.Stylesheet {
	stylesheet, err := css.NewParser(log).ParseString(userAgentCSS, "user-agent.css")
	assert.Invariant(err == nil, "user agent stylesheet: %v", err)
	return stylesheet
}

const userAgentCSS = `
	html, body, div, p, address, article, aside, blockquote, center, dd, dl, dt,
	fieldset, figcaption, figure, footer, form, h1, h2, h3, h4, h5, h6, header,
	hgroup, hr, main, menu, nav, ol, pre, section, ul { display: block; }
	li { display: list-item; }
	head, link, meta, script, style, template, title, [hidden] { display: none; }
	body { margin: 8px; }
	h1 { font-size: 2em; margin: 0.67em 0; }
	h2 { font-size: 1.5em; margin: 0.75em 0; }
	h3 { font-size: 1.17em; margin: 0.83em 0; }
	h4 { margin: 1.12em 0; }
	h5 { font-size: 0.83em; margin: 1.5em 0; }
	h6 { font-size: 0.75em; margin: 1.67em 0; }
	p, dl, pre, figure { margin: 1em 0; }
	blockquote { margin: 1em 40px; }
	ul, ol, menu { margin: 1em 0; padding-left: 40px; }
	dd { margin-left: 40px; }
	hr { border: 1px inset; margin: 0.5em auto; }
	a:link { color: #0000EE; }
	a:visited { color: #551A8B; }
`
