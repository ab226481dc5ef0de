package mdast

// Constructors for hand-built trees. The parser and the tests use them so
// that container nodes never hold nil children.

func compact(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func NewRoot(children ...Node) *Root {
	return &Root{Parent: Parent{Nodes: compact(children)}}
}

func NewParagraph(children ...Node) *Paragraph {
	return &Paragraph{Parent{Nodes: compact(children)}}
}

func NewHeading(depth int, children ...Node) *Heading {
	return &Heading{Parent: Parent{Nodes: compact(children)}, Depth: depth}
}

// NewList builds a tight list of the given items
func NewList(ordered bool, items ...*ListItem) *List {
	l := &List{Ordered: ordered, Tight: true}
	for _, it := range items {
		if it != nil {
			l.Nodes = append(l.Nodes, it)
		}
	}
	return l
}

func NewListItem(children ...Node) *ListItem {
	return &ListItem{Parent: Parent{Nodes: compact(children)}}
}

func NewText(s string) *Text { return &Text{Value: s} }

func NewCode(lang, value string) *Code { return &Code{Lang: lang, Value: value} }

func NewInlineCode(value string) *InlineCode { return &InlineCode{Value: value} }

func NewEmphasis(children ...Node) *Emphasis {
	return &Emphasis{Parent{Nodes: compact(children)}}
}

func NewStrong(children ...Node) *Strong {
	return &Strong{Parent{Nodes: compact(children)}}
}

func NewStrikethrough(children ...Node) *Strikethrough {
	return &Strikethrough{Parent{Nodes: compact(children)}}
}

func NewLink(url string, children ...Node) *Link {
	return &Link{Parent: Parent{Nodes: compact(children)}, URL: url}
}

func NewWikiLink(target, alias string) *WikiLink {
	return &WikiLink{Target: target, Alias: alias}
}

func NewBlockquote(children ...Node) *Blockquote {
	return &Blockquote{Parent{Nodes: compact(children)}}
}

func NewTable(align []Align, rows ...*TableRow) *Table {
	t := &Table{Align: align}
	for _, r := range rows {
		if r != nil {
			t.Nodes = append(t.Nodes, r)
		}
	}
	return t
}

// NewTableRow builds a row of single-text cells
func NewTableRow(header bool, cells ...string) *TableRow {
	r := &TableRow{Header: header}
	for _, c := range cells {
		cell := &TableCell{}
		if c != "" {
			cell.Nodes = []Node{NewText(c)}
		}
		r.Nodes = append(r.Nodes, cell)
	}
	return r
}
