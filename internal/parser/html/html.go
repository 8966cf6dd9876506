package html

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parser represents an HTML parser
type Parser struct{}

// Node represents an HTML node in the document tree
type Node struct {
	Type        html.NodeType
	Data        string
	Namespace   string
	Attr        []html.Attribute
	Parent      *Node
	FirstChild  *Node
	LastChild   *Node
	PrevSibling *Node
	NextSibling *Node
}

// Document represents a parsed HTML document
type Document struct {
	Root *Node
}

// NewParser creates a new HTML parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses HTML from a string
func (p *Parser) ParseString(content string) (*Document, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses HTML from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := convertNode(node, nil)
	return &Document{Root: root}, nil
}

// convertNode converts an html.Node to our Node structure
func convertNode(n *html.Node, parent *Node) *Node {
	if n == nil {
		return nil
	}

	node := &Node{
		Type:      n.Type,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      n.Attr,
		Parent:    parent,
	}

	var lastChild *Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		child := convertNode(c, node)
		if node.FirstChild == nil {
			node.FirstChild = child
		}
		if lastChild != nil {
			lastChild.NextSibling = child
			child.PrevSibling = lastChild
		}
		lastChild = child
	}
	node.LastChild = lastChild

	return node
}

// DocumentElement returns the root element (normally <html>).
func (d *Document) DocumentElement() *Node {
	if d == nil || d.Root == nil {
		return nil
	}
	if d.Root.IsElement() {
		return d.Root
	}
	for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

// Render renders the document back to HTML
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, toNetNode(d.Root)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toNetNode rebuilds the x/net/html tree for a node and its subtree.
func toNetNode(n *Node) *html.Node {
	if n == nil {
		return nil
	}
	out := &html.Node{
		Type:      n.Type,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      n.Attr,
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(toNetNode(c))
	}
	return out
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == html.ElementNode
}

// IsRoot reports whether n is the document element.
func (n *Node) IsRoot() bool {
	return n.IsElement() && (n.Parent == nil || n.Parent.Type == html.DocumentNode)
}

// LocalName returns the tag name. HTML elements are matched
// case-insensitively, so their names are folded to lower case.
func (n *Node) LocalName() string {
	if n.Namespace == "" {
		return strings.ToLower(n.Data)
	}
	return n.Data
}

// Attribute looks up an attribute by name.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.Attribute("id")
	return id
}

// Classes returns the whitespace-separated entries of the class attribute.
func (n *Node) Classes() []string {
	c, _ := n.Attribute("class")
	return strings.Fields(c)
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Node {
	if n.Parent.IsElement() {
		return n.Parent
	}
	return nil
}

// PrevElementSibling returns the closest preceding element sibling.
func (n *Node) PrevElementSibling() *Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

// NextElementSibling returns the closest following element sibling.
func (n *Node) NextElementSibling() *Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.IsElement() {
			return s
		}
	}
	return nil
}

// Walk visits n and its descendants in document order. Returning false
// from fn skips the node's subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	var sb strings.Builder
	Walk(n, func(c *Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}
