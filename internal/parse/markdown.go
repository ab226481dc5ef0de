// Package parse builds mdast trees from markdown or HTML source.
package parse

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

// markdown is safe for concurrent use; every Parse call gets its own
// parser context.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, WikiLinks),
)

// Markdown parses src, with optional YAML front matter, into a tree.
// The only error is malformed front matter.
func Markdown(src []byte) (*mdast.Root, error) {
	meta, body, err := SplitFrontMatter(string(src))
	if err != nil {
		return nil, err
	}

	source := []byte(body)
	doc := markdown.Parser().Parse(text.NewReader(source))

	b := &builder{source: source}
	root := mdast.NewRoot(b.children(doc)...)
	root.Meta = meta
	return root, nil
}

// HTML converts an HTML fragment to markdown and parses the result
func HTML(src []byte) (*mdast.Root, error) {
	md, err := htmltomarkdown.ConvertString(string(src))
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return Markdown([]byte(md))
}

// builder maps a goldmark AST onto mdast
type builder struct {
	source []byte
}

func (b *builder) children(n gast.Node) []mdast.Node {
	var out []mdast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, b.node(c)...)
	}
	return out
}

// node maps one goldmark node. Most map one to one; a text with a hard
// line break yields the text and a Break.
func (b *builder) node(n gast.Node) []mdast.Node {
	switch v := n.(type) {
	case *gast.Paragraph:
		return one(mdast.NewParagraph(b.children(v)...))
	case *gast.TextBlock:
		// Tight list items hold text blocks instead of paragraphs.
		return one(mdast.NewParagraph(b.children(v)...))
	case *gast.Heading:
		return one(mdast.NewHeading(v.Level, b.children(v)...))
	case *gast.ThematicBreak:
		return one(&mdast.ThematicBreak{})
	case *gast.CodeBlock:
		return one(mdast.NewCode("", b.lines(v)))
	case *gast.FencedCodeBlock:
		return one(mdast.NewCode(string(v.Language(b.source)), b.lines(v)))
	case *gast.Blockquote:
		return one(mdast.NewBlockquote(b.children(v)...))
	case *gast.List:
		l := &mdast.List{Ordered: v.IsOrdered(), Tight: v.IsTight}
		if l.Ordered {
			// goldmark ordered lists always carry the number they were written with
			l.Start, l.HasStart = v.Start, true
		}
		l.Nodes = b.children(v)
		return one(l)
	case *gast.ListItem:
		return one(b.listItem(v))
	case *gast.HTMLBlock:
		value := b.lines(v)
		if v.HasClosure() {
			value += string(v.ClosureLine.Value(b.source))
		}
		return one(&mdast.HTML{Value: value})

	case *gast.Text:
		return b.text(v)
	case *gast.String:
		return one(mdast.NewText(string(v.Value)))
	case *gast.CodeSpan:
		return one(mdast.NewInlineCode(b.codeSpan(v)))
	case *gast.Emphasis:
		if v.Level >= 2 {
			return one(mdast.NewStrong(b.children(v)...))
		}
		return one(mdast.NewEmphasis(b.children(v)...))
	case *gast.Link:
		return one(mdast.NewLink(unescape(v.Destination), b.children(v)...))
	case *gast.AutoLink:
		url := string(v.URL(b.source))
		if v.AutoLinkType == gast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower([]byte(url)), []byte("mailto:")) {
			url = "mailto:" + url
		}
		return one(mdast.NewLink(url, mdast.NewText(string(v.Label(b.source)))))
	case *gast.Image:
		alt := mdast.PlainText(mdast.NewParagraph(b.children(v)...))
		return one(&mdast.Image{URL: unescape(v.Destination), Alt: alt})
	case *gast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(b.source))
		}
		return one(&mdast.HTML{Value: buf.String()})

	case *east.Strikethrough:
		return one(mdast.NewStrikethrough(b.children(v)...))
	case *east.Table:
		return one(b.table(v))
	case *east.TableHeader:
		return one(&mdast.TableRow{Parent: mdast.Parent{Nodes: b.children(v)}, Header: true})
	case *east.TableRow:
		return one(&mdast.TableRow{Parent: mdast.Parent{Nodes: b.children(v)}})
	case *east.TableCell:
		return one(&mdast.TableCell{Parent: mdast.Parent{Nodes: b.children(v)}})
	case *east.TaskCheckBox:
		// Folded into the enclosing list item.
		return nil

	case *WikiLinkNode:
		return one(&mdast.WikiLink{Target: string(v.Target), Alias: string(v.Alias), Embed: v.Embed})

	default:
		return one(&mdast.Unknown{Parent: mdast.Parent{Nodes: b.children(n)}, Type: n.Kind().String()})
	}
}

func one(n mdast.Node) []mdast.Node {
	return []mdast.Node{n}
}

func (b *builder) listItem(n *gast.ListItem) *mdast.ListItem {
	item := &mdast.ListItem{}
	if first := n.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			item.Task = true
			item.Checked = box.IsChecked
		}
	}
	item.Nodes = b.children(n)
	return item
}

func (b *builder) table(n *east.Table) *mdast.Table {
	t := &mdast.Table{Align: make([]mdast.Align, len(n.Alignments))}
	for i, a := range n.Alignments {
		switch a {
		case east.AlignLeft:
			t.Align[i] = mdast.AlignLeft
		case east.AlignCenter:
			t.Align[i] = mdast.AlignCenter
		case east.AlignRight:
			t.Align[i] = mdast.AlignRight
		default:
			t.Align[i] = mdast.AlignNone
		}
	}
	t.Nodes = b.children(n)
	return t
}

func (b *builder) text(n *gast.Text) []mdast.Node {
	value := n.Segment.Value(b.source)
	s := string(value)
	if !n.IsRaw() {
		s = unescape(value)
	}

	var out []mdast.Node
	switch {
	case n.HardLineBreak():
		if s != "" {
			out = append(out, mdast.NewText(s))
		}
		return append(out, &mdast.Break{})
	case n.SoftLineBreak():
		s += "\n"
	}
	if s == "" {
		return nil
	}
	return one(mdast.NewText(s))
}

// codeSpan joins the raw text of a code span. Line endings inside the
// span read as spaces.
func (b *builder) codeSpan(n *gast.CodeSpan) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			value := t.Segment.Value(b.source)
			if bytes.HasSuffix(value, []byte("\n")) {
				buf.Write(value[:len(value)-1])
				buf.WriteByte(' ')
			} else {
				buf.Write(value)
			}
		case *gast.String:
			buf.Write(t.Value)
		}
	}
	return buf.String()
}

func (b *builder) lines(n gast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(b.source))
	}
	return buf.String()
}

// unescape resolves entity references and backslash escapes
func unescape(v []byte) string {
	v = util.ResolveEntityNames(v)
	v = util.ResolveNumericReferences(v)
	return string(util.UnescapePunctuations(v))
}
