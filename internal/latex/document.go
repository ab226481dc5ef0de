package latex

import (
	"strings"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

// preamble lists every package the renderer may require, in load order.
// hyperref goes last.
var preamble = []struct {
	name string
	line string
}{
	{"amssymb", `\usepackage{amssymb}`},
	{"graphicx", `\usepackage{graphicx}`},
	{"listings", `\usepackage{listings}`},
	{"minted", `\usepackage{minted}`},
	{"ulem", `\usepackage[normalem]{ulem}`},
	{"hyperref", `\usepackage{hyperref}`},
}

func (r *renderer) packageList() []string {
	var out []string
	for _, p := range preamble {
		if r.packages[p.name] {
			out = append(out, p.name)
		}
	}
	return out
}

// document wraps body in an article with the packages the body uses and
// a title block from front matter. Tags become the PDF keywords.
func (r *renderer) document(body string, meta mdast.Meta) string {
	keywords := pdfKeywords(meta.Tags)
	if keywords != "" {
		r.need("hyperref")
	}

	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	for _, p := range preamble {
		if r.packages[p.name] {
			b.WriteString(p.line + "\n")
		}
	}
	if keywords != "" {
		b.WriteString("\\hypersetup{pdfkeywords={" + keywords + "}}\n")
	}

	if meta.Title != "" {
		b.WriteString("\n\\title{" + Escape(meta.Title) + "}\n")
		b.WriteString("\\author{" + Escape(meta.Author) + "}\n")
		if meta.Date != "" {
			b.WriteString("\\date{" + Escape(meta.Date) + "}\n")
		}
	}

	b.WriteString("\n\\begin{document}\n\n")
	if meta.Title != "" {
		b.WriteString("\\maketitle\n\n")
	}
	b.WriteString(body)
	b.WriteString("\\end{document}\n")
	return b.String()
}

func pdfKeywords(tags []string) string {
	var kept []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, Escape(t))
		}
	}
	return strings.Join(kept, ", ")
}
