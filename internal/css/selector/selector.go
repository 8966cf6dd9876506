// Package selector compiles CSS selector lists and matches them against
// elements of the markup tree.
package selector

import (
	"fmt"
	"strings"
)

// Specificity packs the (a, b, c) triple into one totally ordered value:
// a<<20 | b<<10 | c, each component saturating at 1023.
type Specificity uint32

const (
	componentBits = 10
	componentMax  = 1<<componentBits - 1

	// InlineStyle ranks style attributes above every selector.
	InlineStyle Specificity = 1 << (3 * componentBits)
)

// NewSpecificity packs a triple.
func NewSpecificity(a, b, c int) Specificity {
	return Specificity(sat(a)<<(2*componentBits) | sat(b)<<componentBits | sat(c))
}

func sat(v int) uint32 {
	if v > componentMax {
		return componentMax
	}
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Components unpacks the triple.
func (s Specificity) Components() (a, b, c int) {
	return int(s>>(2*componentBits)) & componentMax, int(s>>componentBits) & componentMax, int(s) & componentMax
}

func (s Specificity) add(o Specificity) Specificity {
	a1, b1, c1 := s.Components()
	a2, b2, c2 := o.Components()
	return NewSpecificity(a1+a2, b1+b2, c1+c2)
}

func (s Specificity) String() string {
	if s == InlineStyle {
		return "inline"
	}
	a, b, c := s.Components()
	return fmt.Sprintf("(%d,%d,%d)", a, b, c)
}

// Combinator relates two compound selectors.
type Combinator uint8

const (
	Descendant Combinator = iota
	Child
	NextSibling
	SubsequentSibling
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case SubsequentSibling:
		return "~"
	}
	return " "
}

// AttrOp is the operator of an attribute selector.
type AttrOp uint8

const (
	AttrExists    AttrOp = iota // [a]
	AttrEquals                  // [a=v]
	AttrIncludes                // [a~=v]
	AttrDashMatch               // [a|=v]
	AttrPrefix                  // [a^=v]
	AttrSuffix                  // [a$=v]
	AttrSubstring               // [a*=v]
)

// Attribute is an attribute selector.
type Attribute struct {
	Name       string
	Op         AttrOp
	Value      string
	IgnoreCase bool
}

// PseudoClass enumerates the supported pseudo-classes.
type PseudoClass uint8

const (
	Link PseudoClass = iota
	AnyLink
	Visited
	Hover
	Active
	Focus
	FocusWithin
	FocusVisible
	Target
	Root
	Empty
	FirstChild
	LastChild
	OnlyChild
	FirstOfType
	LastOfType
	OnlyOfType
	NthChild
	NthLastChild
	Not
)

var pseudoNames = map[string]PseudoClass{
	"link":           Link,
	"any-link":       AnyLink,
	"visited":        Visited,
	"hover":          Hover,
	"active":         Active,
	"focus":          Focus,
	"focus-within":   FocusWithin,
	"focus-visible":  FocusVisible,
	"target":         Target,
	"root":           Root,
	"empty":          Empty,
	"first-child":    FirstChild,
	"last-child":     LastChild,
	"only-child":     OnlyChild,
	"first-of-type":  FirstOfType,
	"last-of-type":   LastOfType,
	"only-of-type":   OnlyOfType,
	"nth-child":      NthChild,
	"nth-last-child": NthLastChild,
	"not":            Not,
}

// Pseudo is a pseudo-class with its arguments. A and B hold the an+b
// coefficients of the nth-* classes; Arg holds the :not() list.
type Pseudo struct {
	Class PseudoClass
	A, B  int
	Arg   List
}

// Compound is a sequence of simple selectors without combinators.
type Compound struct {
	// Namespace constrains the element namespace when HasNamespace is set;
	// the empty string then means "no namespace".
	Namespace    string
	HasNamespace bool
	// Tag is the type selector; empty or "*" matches any element.
	Tag     string
	IDs     []string
	Classes []string
	Attrs   []Attribute
	Pseudos []Pseudo
}

func (c *Compound) specificity() Specificity {
	a, b, cc := len(c.IDs), len(c.Classes)+len(c.Attrs), 0
	if c.Tag != "" && c.Tag != "*" {
		cc++
	}
	s := NewSpecificity(a, b, cc)
	for _, p := range c.Pseudos {
		if p.Class == Not {
			s = s.add(p.Arg.maxSpecificity())
			continue
		}
		s = s.add(NewSpecificity(0, 1, 0))
	}
	return s
}

// Complex is a chain of compounds. Combinators[i] joins Compounds[i] and
// Compounds[i+1]; matching runs right to left.
type Complex struct {
	Compounds   []Compound
	Combinators []Combinator
	text        string
}

// Specificity returns the selector's specificity.
func (c *Complex) Specificity() Specificity {
	var s Specificity
	for i := range c.Compounds {
		s = s.add(c.Compounds[i].specificity())
	}
	return s
}

func (c *Complex) String() string { return c.text }

// List is a comma-separated selector list.
type List []*Complex

func (l List) String() string {
	parts := make([]string, len(l))
	for i, c := range l {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Specificities returns the specificity of every selector in the list.
func (l List) Specificities() []Specificity {
	out := make([]Specificity, len(l))
	for i, c := range l {
		out[i] = c.Specificity()
	}
	return out
}

func (l List) maxSpecificity() Specificity {
	var best Specificity
	for _, c := range l {
		if s := c.Specificity(); s > best {
			best = s
		}
	}
	return best
}
