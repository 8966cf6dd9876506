package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DumpOptions controls Dump output.
type DumpOptions struct {
	// Verbose adds margin, border and padding to every line.
	Verbose bool
	// Indent is the number of spaces before the root line.
	Indent int
}

// Dump writes one line per box in document order, indented two spaces per
// level:
//
//	BlockContainerBox <body> x=8 y=8 w=784 h=0
//
// Verbose lines add margin=[t r b l] border=[...] padding=[...].
func Dump(w io.Writer, root Box, opts DumpOptions) error {
	bw := bufio.NewWriter(w)
	writeTree(bw, root, opts)
	return bw.Flush()
}

// DumpString is Dump into a string.
func DumpString(root Box, opts DumpOptions) string {
	var sb strings.Builder
	writeTree(&sb, root, opts)
	return sb.String()
}

type lineWriter interface {
	io.StringWriter
	io.ByteWriter
}

// writeTree writes one line per box. Write errors are left to the caller's
// writer: bufio.Writer keeps the first one for Flush.
func writeTree(w lineWriter, root Box, opts DumpOptions) {
	Walk(root, func(b Box, depth int) bool {
		w.WriteString(strings.Repeat(" ", opts.Indent+2*depth))
		w.WriteString(describe(b, opts.Verbose))
		w.WriteByte('\n')
		return true
	})
}

func describe(b Box, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(b.Name())
	if n := b.Node(); n != nil {
		if n.IsElement() {
			sb.WriteString(" <" + n.LocalName() + ">")
		} else {
			sb.WriteString(" #text")
		}
	}
	d := b.Dimensions()
	fmt.Fprintf(&sb, " x=%s y=%s w=%s h=%s",
		FormatNumber(d.Content.X), FormatNumber(d.Content.Y),
		FormatNumber(d.Content.Width), FormatNumber(d.Content.Height))
	if verbose {
		fmt.Fprintf(&sb, " margin=%s border=%s padding=%s", edges(d.Margin), edges(d.Border), edges(d.Padding))
	}
	return sb.String()
}

func edges(e EdgeSizes) string {
	return "[" + FormatNumber(e.Top) + " " + FormatNumber(e.Right) + " " +
		FormatNumber(e.Bottom) + " " + FormatNumber(e.Left) + "]"
}

// FormatNumber formats v with two decimals, dropping trailing zeros and a
// trailing decimal point.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
