// Package latex renders an mdast tree as LaTeX source.
//
// Rendering is a pure function of the tree and Settings. Nothing is
// shared between calls, so concurrent conversions need no coordination.
// No tree makes rendering fail: constructs without a rule, or nodes
// missing a required attribute, are recovered in place and reported as
// Diagnostics.
package latex

import (
	"fmt"
	"strings"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

// DiagnosticKind classifies a recovered problem
type DiagnosticKind int

const (
	// Unsupported: the tree holds a construct with no rendering rule.
	// It is replaced by a LaTeX comment naming it.
	Unsupported DiagnosticKind = iota
	// Malformed: a node lacks a required attribute or sits where it
	// cannot; a documented fallback was rendered.
	Malformed
)

func (k DiagnosticKind) String() string {
	if k == Unsupported {
		return "unsupported"
	}
	return "malformed"
}

// Diagnostic describes one recovered node
type Diagnostic struct {
	Kind   DiagnosticKind
	Node   mdast.Kind
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Node, d.Detail)
}

// Result is the outcome of a conversion
type Result struct {
	Output      string
	Diagnostics []Diagnostic
	// Packages lists the LaTeX packages the output relies on, in
	// preamble order.
	Packages []string
}

// Render converts the tree rooted at root into LaTeX source.
func Render(root mdast.Node, s Settings) string {
	return Convert(root, s).Output
}

// Convert renders like Render and also reports diagnostics and required
// packages.
func Convert(root mdast.Node, s Settings) Result {
	r := &renderer{settings: s, packages: make(map[string]bool)}

	body := r.block(root, frame{})
	out := body
	if body != "" && s.Standalone {
		var meta mdast.Meta
		if doc, ok := root.(*mdast.Root); ok {
			meta = doc.Meta
		}
		out = r.document(body, meta)
	}

	return Result{
		Output:      out,
		Diagnostics: r.diags,
		Packages:    r.packageList(),
	}
}

// renderer holds the per-call bookkeeping; one is created per Convert
type renderer struct {
	settings Settings
	diags    []Diagnostic
	packages map[string]bool
}

// frame is the context threaded down the traversal
type frame struct {
	// lists holds the ordered flag of every enclosing list, outermost
	// first
	lists  []bool
	inCell bool
}

func (f frame) pushList(ordered bool) frame {
	lists := make([]bool, len(f.lists), len(f.lists)+1)
	copy(lists, f.lists)
	f.lists = append(lists, ordered)
	return f
}

func (r *renderer) need(pkg string) {
	r.packages[pkg] = true
}

func (r *renderer) report(kind DiagnosticKind, n mdast.Node, format string, args ...any) {
	r.diags = append(r.diags, Diagnostic{
		Kind:   kind,
		Node:   n.Kind(),
		Detail: fmt.Sprintf(format, args...),
	})
}

// sectioning lists the native heading commands, shallowest first.
// Deeper headings saturate at the last entry.
var sectioning = []string{`\section`, `\subsection`, `\subsubsection`}

func sectionCommand(depth int) string {
	if depth < 1 {
		depth = 1
	}
	if depth > len(sectioning) {
		depth = len(sectioning)
	}
	return sectioning[depth-1]
}

// block renders a block-level node. Every non-empty result ends with a
// blank line so siblings concatenate into separate paragraphs.
func (r *renderer) block(n mdast.Node, f frame) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *mdast.Root:
		return r.blocks(v.Nodes, f)
	case *mdast.Paragraph:
		text := r.inlines(v.Nodes, f)
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return text + "\n\n"
	case *mdast.Heading:
		if v.Depth < 1 {
			r.report(Malformed, v, "depth %d, rendered as depth 1", v.Depth)
		}
		return sectionCommand(v.Depth) + "{" + r.inlines(v.Nodes, f) + "}\n\n"
	case *mdast.List:
		return r.list(v, f)
	case *mdast.ListItem:
		r.report(Malformed, v, "item outside a list, wrapped in itemize")
		return r.list(&mdast.List{Parent: mdast.Parent{Nodes: []mdast.Node{v}}, Tight: true}, f)
	case *mdast.Code:
		return r.codeBlock(v)
	case *mdast.Blockquote:
		inner := strings.TrimRight(r.blocks(v.Nodes, f), "\n")
		return "\\begin{quote}\n" + inner + "\n\\end{quote}\n\n"
	case *mdast.Table:
		return r.table(v, f)
	case *mdast.TableRow:
		r.report(Malformed, v, "row outside a table, wrapped in tabular")
		return r.table(&mdast.Table{Parent: mdast.Parent{Nodes: []mdast.Node{v}}}, f)
	case *mdast.TableCell:
		r.report(Malformed, v, "cell outside a table, wrapped in tabular")
		row := &mdast.TableRow{Parent: mdast.Parent{Nodes: []mdast.Node{v}}}
		return r.table(&mdast.Table{Parent: mdast.Parent{Nodes: []mdast.Node{row}}}, f)
	case *mdast.ThematicBreak:
		return "\\noindent\\rule{\\textwidth}{0.4pt}\n\n"
	case *mdast.HTML:
		return comment(v.Value) + "\n"
	case *mdast.Unknown:
		return r.unsupported(v) + "\n"
	default:
		// Inline content at block level reads as its own paragraph.
		text := r.inline(n, f)
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return text + "\n\n"
	}
}

func (r *renderer) blocks(nodes []mdast.Node, f frame) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.block(n, f))
	}
	return b.String()
}

func (r *renderer) inlines(nodes []mdast.Node, f frame) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.inline(n, f))
	}
	return b.String()
}

// inline renders phrasing content. Only Text payloads pass through
// Escape; commands and delimiters are written as-is.
func (r *renderer) inline(n mdast.Node, f frame) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *mdast.Text:
		return Escape(v.Value)
	case *mdast.Emphasis:
		return `\emph{` + r.inlines(v.Nodes, f) + "}"
	case *mdast.Strong:
		return `\textbf{` + r.inlines(v.Nodes, f) + "}"
	case *mdast.Strikethrough:
		r.need("ulem")
		return `\sout{` + r.inlines(v.Nodes, f) + "}"
	case *mdast.InlineCode:
		return r.inlineCode(v)
	case *mdast.Link:
		return r.link(v, f)
	case *mdast.WikiLink:
		return r.wikiLink(v)
	case *mdast.Image:
		return r.image(v, v.URL, v.Alt)
	case *mdast.Break:
		if f.inCell {
			return " "
		}
		return "\\\\\n"
	case *mdast.HTML:
		// The comment swallows its line ending, so surrounding text joins
		// up as if the markup were absent.
		return comment(v.Value)
	case *mdast.Unknown:
		return r.unsupported(v)
	case *mdast.TableCell:
		return r.inlines(v.Nodes, f)
	default:
		// A block inside phrasing content; keep its text rather than drop it.
		r.report(Malformed, n, "block inside inline content")
		return strings.TrimSpace(r.block(n, f))
	}
}

func (r *renderer) unsupported(u *mdast.Unknown) string {
	name := u.Type
	if name == "" {
		name = "unknown"
	}
	r.report(Unsupported, u, "no rule for %q", name)
	return comment("unsupported: " + name)
}

func (r *renderer) link(l *mdast.Link, f frame) string {
	r.need("hyperref")
	url := l.URL
	if url == "" {
		r.report(Malformed, l, "link without target")
	}

	text := r.inlines(l.Nodes, f)
	if url != "" && (len(l.Nodes) == 0 || mdast.PlainText(l) == url) {
		return `\url{` + escapeURL(url) + "}"
	}
	return `\href{` + escapeURL(url) + "}{" + text + "}"
}

func (r *renderer) wikiLink(w *mdast.WikiLink) string {
	if w.Target == "" {
		r.report(Malformed, w, "wiki link without target")
	}
	if w.Embed && isImageFile(w.Target) {
		return r.image(w, w.Target, "")
	}

	display := w.Alias
	if display == "" {
		display = w.Target
	}
	r.need("hyperref")
	return `\href{` + escapeURL(w.Target) + "}{" + Escape(display) + "}"
}

// image falls back to the escaped description when there is no source
func (r *renderer) image(n mdast.Node, src, alt string) string {
	if src == "" {
		r.report(Malformed, n, "image without source")
		if alt != "" {
			return Escape(alt)
		}
	}
	r.need("graphicx")
	return `\includegraphics{` + src + "}"
}

// isImageFile checks if a filename has an image extension
func isImageFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".bmp", ".pdf", ".eps", ".tif", ".tiff"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
