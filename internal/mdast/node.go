// Package mdast is the typed document tree the LaTeX renderer consumes.
//
// The set of node variants is closed: every variant lives in this package
// and implements the unexported sealing method, so a type switch over
// Node can list every case. Constructs the parser cannot map land in
// Unknown.
package mdast

// Kind identifies a node variant
type Kind int

const (
	KindRoot Kind = iota
	KindParagraph
	KindHeading
	KindList
	KindListItem
	KindCode
	KindInlineCode
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindLink
	KindWikiLink
	KindImage
	KindTable
	KindTableRow
	KindTableCell
	KindText
	KindBreak
	KindThematicBreak
	KindBlockquote
	KindHTML
	KindUnknown
)

var kindNames = [...]string{
	KindRoot:          "root",
	KindParagraph:     "paragraph",
	KindHeading:       "heading",
	KindList:          "list",
	KindListItem:      "listItem",
	KindCode:          "code",
	KindInlineCode:    "inlineCode",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
	KindLink:          "link",
	KindWikiLink:      "wikiLink",
	KindImage:         "image",
	KindTable:         "table",
	KindTableRow:      "tableRow",
	KindTableCell:     "tableCell",
	KindText:          "text",
	KindBreak:         "break",
	KindThematicBreak: "thematicBreak",
	KindBlockquote:    "blockquote",
	KindHTML:          "html",
	KindUnknown:       "unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Node is one element of the document tree
type Node interface {
	Kind() Kind
	Children() []Node
	sealed()
}

// Parent holds the children of container variants
type Parent struct {
	Nodes []Node
}

// Children implements Node.
func (p *Parent) Children() []Node { return p.Nodes }

type leaf struct{}

func (leaf) Children() []Node { return nil }

// Meta is document metadata read from front matter
type Meta struct {
	Title  string
	Author string
	Date   string
	Tags   []string
}

// Root is the document node
type Root struct {
	Parent
	Meta Meta
}

type Paragraph struct{ Parent }

// Heading carries its depth starting at 1
type Heading struct {
	Parent
	Depth int
}

// List holds ListItem children. Start is the explicit start index of an
// ordered list; it is only meaningful when HasStart is set, since 0 is a
// valid start.
type List struct {
	Parent
	Ordered  bool
	Start    int
	HasStart bool
	Tight    bool
}

// ListItem is a list entry; Task marks GFM checkbox items
type ListItem struct {
	Parent
	Task    bool
	Checked bool
}

// Code is a fenced or indented code block
type Code struct {
	leaf
	Lang  string
	Value string
}

type InlineCode struct {
	leaf
	Value string
}

type Emphasis struct{ Parent }

type Strong struct{ Parent }

type Strikethrough struct{ Parent }

// Link children are its display content
type Link struct {
	Parent
	URL string
}

// WikiLink is an [[Target|Alias]] reference; Embed marks the ![[...]] form
type WikiLink struct {
	leaf
	Target string
	Alias  string
	Embed  bool
}

// Image keeps its description as plain text in Alt
type Image struct {
	leaf
	URL string
	Alt string
}

// Align is a table column alignment
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Table holds TableRow children; Align has one entry per declared column
type Table struct {
	Parent
	Align []Align
}

type TableRow struct {
	Parent
	Header bool
}

type TableCell struct{ Parent }

type Text struct {
	leaf
	Value string
}

// Break is a hard line break
type Break struct{ leaf }

type ThematicBreak struct{ leaf }

type Blockquote struct{ Parent }

// HTML is raw markup passed through by the parser
type HTML struct {
	leaf
	Value string
}

// Unknown stands in for any construct outside the variants above.
// Type names the original construct.
type Unknown struct {
	Parent
	Type string
}

func (*Root) Kind() Kind          { return KindRoot }
func (*Paragraph) Kind() Kind     { return KindParagraph }
func (*Heading) Kind() Kind       { return KindHeading }
func (*List) Kind() Kind          { return KindList }
func (*ListItem) Kind() Kind      { return KindListItem }
func (*Code) Kind() Kind          { return KindCode }
func (*InlineCode) Kind() Kind    { return KindInlineCode }
func (*Emphasis) Kind() Kind      { return KindEmphasis }
func (*Strong) Kind() Kind        { return KindStrong }
func (*Strikethrough) Kind() Kind { return KindStrikethrough }
func (*Link) Kind() Kind          { return KindLink }
func (*WikiLink) Kind() Kind      { return KindWikiLink }
func (*Image) Kind() Kind         { return KindImage }
func (*Table) Kind() Kind         { return KindTable }
func (*TableRow) Kind() Kind      { return KindTableRow }
func (*TableCell) Kind() Kind     { return KindTableCell }
func (*Text) Kind() Kind          { return KindText }
func (*Break) Kind() Kind         { return KindBreak }
func (*ThematicBreak) Kind() Kind { return KindThematicBreak }
func (*Blockquote) Kind() Kind    { return KindBlockquote }
func (*HTML) Kind() Kind          { return KindHTML }
func (*Unknown) Kind() Kind       { return KindUnknown }

func (*Root) sealed()          {}
func (*Paragraph) sealed()     {}
func (*Heading) sealed()       {}
func (*List) sealed()          {}
func (*ListItem) sealed()      {}
func (*Code) sealed()          {}
func (*InlineCode) sealed()    {}
func (*Emphasis) sealed()      {}
func (*Strong) sealed()        {}
func (*Strikethrough) sealed() {}
func (*Link) sealed()          {}
func (*WikiLink) sealed()      {}
func (*Image) sealed()         {}
func (*Table) sealed()         {}
func (*TableRow) sealed()      {}
func (*TableCell) sealed()     {}
func (*Text) sealed()          {}
func (*Break) sealed()         {}
func (*ThematicBreak) sealed() {}
func (*Blockquote) sealed()    {}
func (*HTML) sealed()          {}
func (*Unknown) sealed()       {}
