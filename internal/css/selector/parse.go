package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalid is wrapped by every selector compilation error.
var ErrInvalid = errors.New("invalid selector")

type token struct {
	tt   css.TokenType
	data string
}

// Parse compiles a selector list. A single invalid selector invalidates the
// whole list.
func Parse(text string) (List, error) {
	var toks []token
	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.CommentToken {
			continue
		}
		toks = append(toks, token{tt: tt, data: string(data)})
	}
	p := &parser{toks: toks}
	list, err := p.list()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalid, strings.TrimSpace(text), err)
	}
	return list, nil
}

// MustParse is Parse for selectors known to be valid.
func MustParse(text string) List {
	l, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return l
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek(off int) token {
	if p.pos+off < len(p.toks) {
		return p.toks[p.pos+off]
	}
	return token{tt: css.ErrorToken}
}

func (p *parser) next() token {
	t := p.peek(0)
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) isDelim(off int, d string) bool {
	t := p.peek(off)
	return t.tt == css.DelimToken && t.data == d
}

func (p *parser) skipSpace() bool {
	skipped := false
	for p.peek(0).tt == css.WhitespaceToken {
		p.pos++
		skipped = true
	}
	return skipped
}

func (p *parser) text(from, to int) string {
	var sb strings.Builder
	for _, t := range p.toks[from:to] {
		if t.tt == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(t.data)
	}
	return strings.TrimSpace(sb.String())
}

func (p *parser) list() (List, error) {
	var out List
	for {
		c, err := p.complex()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if p.eof() {
			return out, nil
		}
		if t := p.next(); t.tt != css.CommaToken {
			return nil, fmt.Errorf("unexpected %q", t.data)
		}
	}
}

func (p *parser) complex() (*Complex, error) {
	p.skipSpace()
	start := p.pos
	c := &Complex{}
	for {
		comp, err := p.compound()
		if err != nil {
			return nil, err
		}
		c.Compounds = append(c.Compounds, comp)

		space := p.skipSpace()
		var comb Combinator
		switch {
		case p.isDelim(0, ">"):
			comb = Child
		case p.isDelim(0, "+"):
			comb = NextSibling
		case p.isDelim(0, "~"):
			comb = SubsequentSibling
		case p.eof() || p.peek(0).tt == css.CommaToken:
			c.text = p.text(start, p.pos)
			return c, nil
		case space:
			c.Combinators = append(c.Combinators, Descendant)
			continue
		default:
			return nil, fmt.Errorf("unexpected %q", p.peek(0).data)
		}
		p.pos++
		p.skipSpace()
		c.Combinators = append(c.Combinators, comb)
	}
}

func (p *parser) compound() (Compound, error) {
	var c Compound
	found := false

	if p.typeSelector(&c) {
		found = true
	}
	for {
		t := p.peek(0)
		switch {
		case t.tt == css.HashToken:
			p.pos++
			c.IDs = append(c.IDs, t.data[1:])
		case t.tt == css.DelimToken && t.data == ".":
			p.pos++
			name := p.next()
			if name.tt != css.IdentToken {
				return c, errors.New("expected class name after '.'")
			}
			c.Classes = append(c.Classes, name.data)
		case t.tt == css.LeftBracketToken:
			p.pos++
			a, err := p.attribute()
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, a)
		case t.tt == css.ColonToken:
			p.pos++
			ps, err := p.pseudo()
			if err != nil {
				return c, err
			}
			c.Pseudos = append(c.Pseudos, ps)
		default:
			if !found {
				if t.tt == css.ErrorToken {
					return c, errors.New("empty selector")
				}
				return c, fmt.Errorf("unexpected %q", t.data)
			}
			return c, nil
		}
		found = true
	}
}

// typeSelector consumes an optional [ns|](ident|*) prefix.
func (p *parser) typeSelector(c *Compound) bool {
	isName := func(off int) bool {
		return p.peek(off).tt == css.IdentToken || p.isDelim(off, "*")
	}
	switch {
	case isName(0) && p.isDelim(1, "|") && isName(2):
		ns := p.next().data
		p.pos++
		if ns != "*" {
			c.Namespace, c.HasNamespace = ns, true
		}
	case p.isDelim(0, "|") && isName(1):
		p.pos++
		c.HasNamespace = true
	}
	if !isName(0) {
		return false
	}
	c.Tag = p.next().data
	return true
}

func (p *parser) attribute() (Attribute, error) {
	var a Attribute
	p.skipSpace()
	if p.isDelim(0, "*") && p.isDelim(1, "|") {
		p.pos += 2
	} else if p.isDelim(0, "|") {
		p.pos++
	}
	name := p.next()
	if name.tt != css.IdentToken {
		return a, errors.New("expected attribute name")
	}
	a.Name = name.data
	p.skipSpace()

	op := p.next()
	switch {
	case op.tt == css.RightBracketToken:
		return a, nil
	case op.tt == css.DelimToken && op.data == "=":
		a.Op = AttrEquals
	case op.tt == css.IncludeMatchToken:
		a.Op = AttrIncludes
	case op.tt == css.DashMatchToken:
		a.Op = AttrDashMatch
	case op.tt == css.PrefixMatchToken:
		a.Op = AttrPrefix
	case op.tt == css.SuffixMatchToken:
		a.Op = AttrSuffix
	case op.tt == css.SubstringMatchToken:
		a.Op = AttrSubstring
	default:
		return a, fmt.Errorf("unexpected %q in attribute selector", op.data)
	}

	p.skipSpace()
	v := p.next()
	switch v.tt {
	case css.IdentToken:
		a.Value = v.data
	case css.StringToken:
		a.Value = unquote(v.data)
	default:
		return a, fmt.Errorf("unexpected %q as attribute value", v.data)
	}
	p.skipSpace()
	if t := p.peek(0); t.tt == css.IdentToken {
		switch strings.ToLower(t.data) {
		case "i":
			a.IgnoreCase = true
		case "s":
		default:
			return a, fmt.Errorf("unknown attribute modifier %q", t.data)
		}
		p.pos++
		p.skipSpace()
	}
	if p.next().tt != css.RightBracketToken {
		return a, errors.New("unterminated attribute selector")
	}
	return a, nil
}

var legacyPseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true, "first-letter": true,
}

func (p *parser) pseudo() (Pseudo, error) {
	t := p.next()
	switch t.tt {
	case css.ColonToken:
		return Pseudo{}, errors.New("pseudo-elements are not supported")
	case css.IdentToken:
		name := strings.ToLower(t.data)
		if legacyPseudoElements[name] {
			return Pseudo{}, errors.New("pseudo-elements are not supported")
		}
		pc, ok := pseudoNames[name]
		if !ok || pc == NthChild || pc == NthLastChild || pc == Not {
			return Pseudo{}, fmt.Errorf("unsupported pseudo-class :%s", name)
		}
		return Pseudo{Class: pc}, nil
	case css.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(t.data, "("))
		args, err := p.arguments()
		if err != nil {
			return Pseudo{}, err
		}
		switch name {
		case "not":
			sub := &parser{toks: args}
			list, err := sub.list()
			if err != nil {
				return Pseudo{}, err
			}
			return Pseudo{Class: Not, Arg: list}, nil
		case "nth-child", "nth-last-child":
			var sb strings.Builder
			for _, a := range args {
				if a.tt != css.WhitespaceToken {
					sb.WriteString(a.data)
				}
			}
			a, b, err := parseNth(sb.String())
			if err != nil {
				return Pseudo{}, err
			}
			return Pseudo{Class: pseudoNames[name], A: a, B: b}, nil
		}
		return Pseudo{}, fmt.Errorf("unsupported pseudo-class :%s()", name)
	}
	return Pseudo{}, fmt.Errorf("unexpected %q after ':'", t.data)
}

// arguments collects the tokens up to the parenthesis closing the current
// function.
func (p *parser) arguments() ([]token, error) {
	depth := 1
	start := p.pos
	for !p.eof() {
		t := p.next()
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
			if depth == 0 {
				return p.toks[start : p.pos-1], nil
			}
		}
	}
	return nil, errors.New("unterminated function")
}

// parseNth parses the an+b microsyntax with whitespace already removed.
func parseNth(s string) (a, b int, err error) {
	s = strings.ToLower(s)
	switch s {
	case "odd":
		return 2, 1, nil
	case "even":
		return 2, 0, nil
	}
	i := strings.IndexByte(s, 'n')
	if i < 0 {
		b, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("bad nth expression %q", s)
		}
		return 0, b, nil
	}
	switch coef := s[:i]; coef {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		if a, err = strconv.Atoi(coef); err != nil {
			return 0, 0, fmt.Errorf("bad nth expression %q", s)
		}
	}
	if rest := s[i+1:]; rest != "" {
		if rest[0] != '+' && rest[0] != '-' {
			return 0, 0, fmt.Errorf("bad nth expression %q", s)
		}
		if b, err = strconv.Atoi(rest); err != nil {
			return 0, 0, fmt.Errorf("bad nth expression %q", s)
		}
	}
	return a, b, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	} else if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	return strings.ReplaceAll(s, `\`, "")
}
