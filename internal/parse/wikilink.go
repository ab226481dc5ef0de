package parse

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindWikiLink is the goldmark node kind of a [[wiki link]]
var KindWikiLink = gast.NewNodeKind("WikiLink")

// WikiLinkNode is the goldmark inline node for [[target|alias]] and
// ![[embed]]
type WikiLinkNode struct {
	gast.BaseInline
	Target []byte
	Alias  []byte
	Embed  bool
}

func (n *WikiLinkNode) Kind() gast.NodeKind {
	return KindWikiLink
}

func (n *WikiLinkNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Target": string(n.Target),
		"Alias":  string(n.Alias),
		"Embed":  fmt.Sprintf("%v", n.Embed),
	}, nil)
}

var (
	wikiOpen  = []byte("[[")
	wikiClose = []byte("]]")
)

type wikiLinkParser struct{}

func (p *wikiLinkParser) Trigger() []byte {
	return []byte{'!', '['}
}

// Parse consumes [[...]] on the current line. Anything else, including an
// unterminated or empty link, is left to the regular link parser.
func (p *wikiLinkParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()

	embed := false
	start := 0
	if len(line) > 0 && line[0] == '!' {
		embed = true
		start = 1
	}
	if !bytes.HasPrefix(line[start:], wikiOpen) {
		return nil
	}

	body := line[start+len(wikiOpen):]
	end := bytes.Index(body, wikiClose)
	if end < 0 {
		return nil
	}
	body = body[:end]
	if bytes.ContainsAny(body, "[]\n") {
		return nil
	}

	target, alias, _ := bytes.Cut(body, []byte("|"))
	target = bytes.TrimSpace(target)
	if len(target) == 0 {
		return nil
	}

	block.Advance(start + len(wikiOpen) + end + len(wikiClose))
	return &WikiLinkNode{
		Target: append([]byte(nil), target...),
		Alias:  append([]byte(nil), bytes.TrimSpace(alias)...),
		Embed:  embed,
	}
}

type wikiLinks struct{}

// WikiLinks is a goldmark extension recognizing [[wiki links]]. It has to
// run ahead of the link parser, which also triggers on '[' and '!'.
var WikiLinks goldmark.Extender = &wikiLinks{}

func (e *wikiLinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&wikiLinkParser{}, 199),
	))
}
