package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/gomlayout/internal/css/selector"
	"github.com/gompdf/gomlayout/internal/parser/html"
)

const page = `<!DOCTYPE html>
<html lang="en-US">
<body>
  <div id="main" class="container active">
    <p id="p1" class="lead">First</p>
    <p id="p2" data-value="example-test">Second</p>
    <span id="s1"></span>
    <p id="p3" class="Tail">Third</p>
  </div>
  <a id="link" href="/x">link</a>
  <a id="anchor">anchor</a>
  <div id="empty"><!-- c --></div>
  <div id="target" class="specific even-more-specific"></div>
  <ul id="list"><li id="l1"></li><li id="l2"></li><li id="l3"></li><li id="l4"></li><li id="l5"></li></ul>
</body>
</html>`

func parsePage(t *testing.T) *html.Document {
	t.Helper()
	doc, err := html.NewParser().ParseString(page)
	require.NoError(t, err)
	return doc
}

func byID(t *testing.T, doc *html.Document, id string) *html.Node {
	t.Helper()
	var found *html.Node
	html.Walk(doc.Root, func(n *html.Node) bool {
		if found == nil && n.IsElement() && n.ID() == id {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "no element #%s", id)
	return found
}

func TestSpecificityOrdering(t *testing.T) {
	list, err := selector.Parse(".example, :first-child, div")
	require.NoError(t, err)
	require.Len(t, list, 3)

	s := list.Specificities()
	assert.Equal(t, s[0], s[1])
	assert.Greater(t, s[0], s[2])
	assert.Greater(t, s[1], s[2])
	assert.Equal(t, selector.NewSpecificity(0, 1, 0), s[0])
	assert.Equal(t, selector.NewSpecificity(0, 0, 1), s[2])
}

func TestMostSpecificMatch(t *testing.T) {
	doc := parsePage(t)
	target := byID(t, doc, "target")

	list, err := selector.Parse("div, div.specific, div.specific.even-more-specific")
	require.NoError(t, err)

	best, ok := list.MostSpecificMatch(target)
	require.True(t, ok)
	assert.Equal(t, "div.specific.even-more-specific", best.String())
	assert.Equal(t, selector.Specificity(2049), best.Specificity())

	none, ok := list.MostSpecificMatch(byID(t, doc, "p1"))
	assert.False(t, ok)
	assert.Nil(t, none)
}

func TestMostSpecificMatchTieKeepsFirst(t *testing.T) {
	doc := parsePage(t)
	list := selector.MustParse(".lead, #p1 ~ p, p.lead")
	best, ok := list.MostSpecificMatch(byID(t, doc, "p1"))
	require.True(t, ok)
	assert.Equal(t, "p.lead", best.String())

	list = selector.MustParse("p:first-of-type, p.lead")
	best, ok = list.MostSpecificMatch(byID(t, doc, "p1"))
	require.True(t, ok)
	assert.Equal(t, "p:first-of-type", best.String())
}

func TestSpecificityValues(t *testing.T) {
	tests := []struct {
		sel     string
		a, b, c int
	}{
		{"*", 0, 0, 0},
		{"div", 0, 0, 1},
		{"#a", 1, 0, 0},
		{"#a#b", 2, 0, 0},
		{"div.a.b", 0, 2, 1},
		{"ul li:nth-child(2n+1)", 0, 1, 2},
		{"a[href]:not(#x, .y)", 1, 1, 1},
		{"svg|rect", 0, 0, 1},
		{"html > body div ~ p + span", 0, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			list, err := selector.Parse(tt.sel)
			require.NoError(t, err)
			a, b, c := list[0].Specificity().Components()
			assert.Equal(t, []int{tt.a, tt.b, tt.c}, []int{a, b, c})
		})
	}
}

func TestSpecificitySaturates(t *testing.T) {
	s := selector.NewSpecificity(5000, 1, 2)
	a, b, c := s.Components()
	assert.Equal(t, []int{1023, 1, 2}, []int{a, b, c})
	assert.Greater(t, selector.InlineStyle, s)
	assert.Equal(t, "(1023,1,2)", s.String())
}

func TestMatches(t *testing.T) {
	doc := parsePage(t)
	tests := []struct {
		sel, id string
		want    bool
	}{
		{"div", "main", true},
		{"DIV", "main", true},
		{"div.container.active", "main", true},
		{"div.container.missing", "main", false},
		{"#main > p", "p1", true},
		{"body > p", "p1", false},
		{"body p", "p1", true},
		{"html div p.lead", "p1", true},
		{"p + p", "p2", true},
		{"p + p", "p3", false},
		{"p ~ p", "p3", true},
		{"span ~ p", "p1", false},
		{"[data-value]", "p2", true},
		{"[data-value=example-test]", "p2", true},
		{`[data-value="example"]`, "p2", false},
		{"[data-value^=example]", "p2", true},
		{"[data-value$=test]", "p2", true},
		{"[data-value*='-']", "p2", true},
		{"[class~=active]", "main", true},
		{"[class~=act]", "main", false},
		{"html[lang|=en]", "", true},
		{"[class=tail i]", "p3", true},
		{"[class=tail]", "p3", false},
		{":link", "link", true},
		{":any-link", "anchor", false},
		{"a:visited", "link", false},
		{"a:hover", "link", false},
		{"p:focus", "p1", false},
		{":root", "", true},
		{":empty", "empty", true},
		{":empty", "main", false},
		{"p:first-child", "p1", true},
		{"p:last-child", "p3", true},
		{"p:first-of-type", "p1", true},
		{"p:last-of-type", "p3", true},
		{"span:only-of-type", "s1", true},
		{"p:only-child", "p1", false},
		{"li:nth-child(odd)", "l3", true},
		{"li:nth-child(even)", "l3", false},
		{"li:nth-child(2n)", "l4", true},
		{"li:nth-child(-n+2)", "l2", true},
		{"li:nth-child(-n+2)", "l3", false},
		{"li:nth-child(3)", "l3", true},
		{"li:nth-last-child(1)", "l5", true},
		{"li:nth-last-child(2n+1)", "l1", true},
		{"p:not(.lead)", "p2", true},
		{"p:not(.lead, [data-value])", "p2", false},
		{"*|p", "p1", true},
		{"|p", "p1", true},
		{"svg|p", "p1", false},
	}
	for _, tt := range tests {
		t.Run(tt.sel+"@"+tt.id, func(t *testing.T) {
			list, err := selector.Parse(tt.sel)
			require.NoError(t, err)
			var n *html.Node
			if tt.id == "" {
				n = doc.DocumentElement()
			} else {
				n = byID(t, doc, tt.id)
			}
			assert.Equal(t, tt.want, list.Matches(n))
		})
	}
}

func TestMatchesRejectsNonElements(t *testing.T) {
	doc := parsePage(t)
	list := selector.MustParse("*")
	assert.False(t, list.Matches(doc.Root))
	assert.False(t, list.Matches(byID(t, doc, "p1").FirstChild))
}

func TestParseErrors(t *testing.T) {
	for _, sel := range []string{
		"",
		"div,",
		"p::before",
		"p:before",
		"p:unknown",
		"a > > b",
		"[href",
		"[href=]",
		"li:nth-child(x)",
		"p:not(",
		".",
		"div {",
	} {
		t.Run(sel, func(t *testing.T) {
			_, err := selector.Parse(sel)
			require.ErrorIs(t, err, selector.ErrInvalid)
		})
	}
}
