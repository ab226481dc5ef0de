package latex

import (
	"strings"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

func columnSpec(a mdast.Align) string {
	switch a {
	case mdast.AlignCenter:
		return "c"
	case mdast.AlignRight:
		return "r"
	default:
		return "l"
	}
}

// table emits a tabular whose column count is the widest row. Short rows
// are padded with empty cells; the header row is followed by \hline.
func (r *renderer) table(t *mdast.Table, f frame) string {
	rows := make([]*mdast.TableRow, 0, len(t.Nodes))
	cols := 0
	for _, c := range t.Nodes {
		row, ok := c.(*mdast.TableRow)
		if !ok {
			r.report(Malformed, c, "table child is not a row, wrapped in one")
			row = &mdast.TableRow{Parent: mdast.Parent{Nodes: []mdast.Node{c}}}
		}
		rows = append(rows, row)
		if len(row.Nodes) > cols {
			cols = len(row.Nodes)
		}
	}
	if cols == 0 {
		r.report(Malformed, t, "table without cells, omitted")
		return ""
	}

	var spec strings.Builder
	for i := 0; i < cols; i++ {
		a := mdast.AlignNone
		if i < len(t.Align) {
			a = t.Align[i]
		}
		spec.WriteString(columnSpec(a))
	}

	cell := f
	cell.inCell = true

	var b strings.Builder
	b.WriteString(`\begin{tabular}{` + spec.String() + "}\n")
	for _, row := range rows {
		cells := make([]string, cols)
		for i, c := range row.Nodes {
			// Only blanks are trimmed: a trailing comment keeps the newline
			// that ends it.
			cells[i] = strings.Trim(r.inline(c, cell), " \t")
		}
		b.WriteString("  " + strings.Join(cells, " & ") + ` \\` + "\n")
		if row.Header {
			b.WriteString("  \\hline\n")
		}
	}
	b.WriteString("\\end{tabular}\n\n")
	return b.String()
}
