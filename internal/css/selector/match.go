package selector

import (
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/gompdf/gomlayout/internal/parser/html"
)

// Matches reports whether element n matches the complex selector c.
func Matches(n *html.Node, c *Complex) bool {
	if !n.IsElement() || c == nil || len(c.Compounds) == 0 {
		return false
	}
	return matchFrom(n, c, len(c.Compounds)-1)
}

// Matches reports whether any selector in the list matches n.
func (l List) Matches(n *html.Node) bool {
	for _, c := range l {
		if Matches(n, c) {
			return true
		}
	}
	return false
}

// MostSpecificMatch returns the matching selector with the greatest
// specificity. Ties keep the earliest selector in the list.
func (l List) MostSpecificMatch(n *html.Node) (*Complex, bool) {
	var (
		best  *Complex
		bestS Specificity
	)
	for _, c := range l {
		if !Matches(n, c) {
			continue
		}
		if s := c.Specificity(); best == nil || s > bestS {
			best, bestS = c, s
		}
	}
	return best, best != nil
}

// matchFrom matches compound i against n and then walks left through the
// combinators, backtracking over ancestors and siblings.
func matchFrom(n *html.Node, c *Complex, i int) bool {
	if !matchCompound(n, &c.Compounds[i]) {
		return false
	}
	if i == 0 {
		return true
	}
	switch c.Combinators[i-1] {
	case Descendant:
		for p := n.ParentElement(); p != nil; p = p.ParentElement() {
			if matchFrom(p, c, i-1) {
				return true
			}
		}
	case Child:
		if p := n.ParentElement(); p != nil {
			return matchFrom(p, c, i-1)
		}
	case NextSibling:
		if s := n.PrevElementSibling(); s != nil {
			return matchFrom(s, c, i-1)
		}
	case SubsequentSibling:
		for s := n.PrevElementSibling(); s != nil; s = s.PrevElementSibling() {
			if matchFrom(s, c, i-1) {
				return true
			}
		}
	}
	return false
}

func matchCompound(n *html.Node, c *Compound) bool {
	if c.HasNamespace && !namespaceMatches(n, c.Namespace) {
		return false
	}
	if c.Tag != "" && c.Tag != "*" && !tagMatches(n, c.Tag) {
		return false
	}
	for _, id := range c.IDs {
		if n.ID() != id {
			return false
		}
	}
	for _, cls := range c.Classes {
		if !n.HasClass(cls) {
			return false
		}
	}
	for i := range c.Attrs {
		if !matchAttribute(n, &c.Attrs[i]) {
			return false
		}
	}
	for i := range c.Pseudos {
		if !matchPseudo(n, &c.Pseudos[i]) {
			return false
		}
	}
	return true
}

func namespaceMatches(n *html.Node, ns string) bool {
	if ns == "html" {
		ns = ""
	}
	return n.Namespace == ns
}

func tagMatches(n *html.Node, tag string) bool {
	if n.Namespace == "" {
		return strings.EqualFold(n.Data, tag)
	}
	return n.Data == tag
}

func matchAttribute(n *html.Node, a *Attribute) bool {
	v, ok := n.Attribute(a.Name)
	if !ok {
		return false
	}
	want := a.Value
	if a.IgnoreCase {
		v, want = strings.ToLower(v), strings.ToLower(want)
	}
	switch a.Op {
	case AttrExists:
		return true
	case AttrEquals:
		return v == want
	case AttrIncludes:
		for _, f := range strings.Fields(v) {
			if f == want {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return v == want || strings.HasPrefix(v, want+"-")
	case AttrPrefix:
		return want != "" && strings.HasPrefix(v, want)
	case AttrSuffix:
		return want != "" && strings.HasSuffix(v, want)
	case AttrSubstring:
		return want != "" && strings.Contains(v, want)
	}
	return false
}

func matchPseudo(n *html.Node, p *Pseudo) bool {
	switch p.Class {
	case Link, AnyLink:
		return isLink(n)
	case Visited, Hover, Active, Focus, FocusWithin, FocusVisible, Target:
		// No interactive state is modeled.
		return false
	case Root:
		return n.IsRoot()
	case Empty:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.IsElement() || (c.Type == xhtml.TextNode && c.Data != "") {
				return false
			}
		}
		return true
	case FirstChild:
		return n.PrevElementSibling() == nil
	case LastChild:
		return n.NextElementSibling() == nil
	case OnlyChild:
		return n.PrevElementSibling() == nil && n.NextElementSibling() == nil
	case FirstOfType:
		return countSiblingsOfType(n, (*html.Node).PrevElementSibling) == 0
	case LastOfType:
		return countSiblingsOfType(n, (*html.Node).NextElementSibling) == 0
	case OnlyOfType:
		return countSiblingsOfType(n, (*html.Node).PrevElementSibling) == 0 &&
			countSiblingsOfType(n, (*html.Node).NextElementSibling) == 0
	case NthChild:
		return nthMatches(p.A, p.B, countSiblings(n, (*html.Node).PrevElementSibling)+1)
	case NthLastChild:
		return nthMatches(p.A, p.B, countSiblings(n, (*html.Node).NextElementSibling)+1)
	case Not:
		return !p.Arg.Matches(n)
	}
	return false
}

// isLink matches a, area and link elements carrying an href.
func isLink(n *html.Node) bool {
	if n.Namespace != "" {
		return false
	}
	switch n.LocalName() {
	case "a", "area", "link":
		_, ok := n.Attribute("href")
		return ok
	}
	return false
}

func countSiblings(n *html.Node, next func(*html.Node) *html.Node) int {
	count := 0
	for s := next(n); s != nil; s = next(s) {
		count++
	}
	return count
}

func countSiblingsOfType(n *html.Node, next func(*html.Node) *html.Node) int {
	count := 0
	for s := next(n); s != nil; s = next(s) {
		if s.Namespace == n.Namespace && s.LocalName() == n.LocalName() {
			count++
		}
	}
	return count
}

// nthMatches reports whether index (1-based) equals a*k+b for some k >= 0.
func nthMatches(a, b, index int) bool {
	if a == 0 {
		return index == b
	}
	d := index - b
	return d%a == 0 && d/a >= 0
}
