package latex

import (
	"strconv"
	"strings"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

// enumCounters are the counters LaTeX keeps per enumerate nesting level.
// enumerate nests at most four deep; deeper lists reuse the last counter.
var enumCounters = []string{"enumi", "enumii", "enumiii", "enumiv"}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// enumCounter names the counter of the innermost enumerate in f
func enumCounter(f frame) string {
	level := 0
	for _, ordered := range f.lists {
		if ordered {
			level++
		}
	}
	if level < 1 {
		level = 1
	}
	if level > len(enumCounters) {
		level = len(enumCounters)
	}
	return enumCounters[level-1]
}

// list opens one environment for l and closes it after the last item.
// Structural lines are indented two spaces per enclosing list; item
// content is never re-indented so verbatim payloads stay intact.
func (r *renderer) list(l *mdast.List, f frame) string {
	if len(l.Nodes) == 0 {
		r.report(Malformed, l, "list without items, omitted")
		return ""
	}

	env := "itemize"
	if l.Ordered {
		env = "enumerate"
	}
	pad := indent(len(f.lists))
	inner := f.pushList(l.Ordered)

	var b strings.Builder
	b.WriteString(pad + `\begin{` + env + "}\n")
	if l.Ordered && l.HasStart && l.Start != 1 {
		b.WriteString(indent(len(inner.lists)) + `\setcounter{` + enumCounter(inner) + "}{" + strconv.Itoa(l.Start-1) + "}\n")
	}
	for _, c := range l.Nodes {
		item, ok := c.(*mdast.ListItem)
		if !ok {
			r.report(Malformed, c, "list child is not an item, wrapped in one")
			item = &mdast.ListItem{Parent: mdast.Parent{Nodes: []mdast.Node{c}}}
		}
		b.WriteString(r.listItem(item, l.Tight, inner))
		b.WriteString("\n")
	}
	b.WriteString(pad + `\end{` + env + "}\n\n")
	return b.String()
}

func (r *renderer) listItem(item *mdast.ListItem, tight bool, f frame) string {
	head := indent(len(f.lists)) + `\item`
	if item.Task {
		r.need("amssymb")
		if item.Checked {
			head += `[$\boxtimes$]`
		} else {
			head += `[$\square$]`
		}
	}

	sep := "\n\n"
	if tight {
		sep = "\n"
	}

	var b strings.Builder
	b.WriteString(head)
	written := 0
	for _, c := range item.Nodes {
		s := strings.TrimRight(r.block(c, f), "\n")
		if s == "" {
			continue
		}
		switch {
		case written > 0:
			b.WriteString(sep)
		case c.Kind() == mdast.KindList:
			// A nested list carries its own indentation on a fresh line.
			b.WriteString("\n")
		case !item.Task && strings.HasPrefix(s, "["):
			// \item[ would read the text as an optional label.
			b.WriteString(" {}")
		default:
			b.WriteString(" ")
		}
		b.WriteString(s)
		written++
	}
	return b.String()
}
