// Package diff compares a freshly rendered document with the .tex already on
// disk and renders markdown for the terminal.
package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/mdlatex/internal/convert"
)

// WordWrap is the column glamour wraps rendered output at
var WordWrap = 120

// Unified returns the unified diff turning before into after, or "" when
// they are equal
func Unified(fromName, toName, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(fromName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(fromName, toName, before, edits))
}

// Generate converts srcPath with c and diffs the existing texPath against
// the result. The .tex on disk is the old side. An empty string means the
// file is up to date.
func Generate(c *convert.Converter, srcPath, texPath string) (string, error) {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}

	existing, err := os.ReadFile(texPath)
	if err != nil {
		return "", fmt.Errorf("failed to read tex file: %w", err)
	}

	res, err := c.Convert(srcPath, src, convert.FormatOf(srcPath))
	if err != nil {
		return "", err
	}

	texName := filepath.Base(texPath)
	return Unified(texName, filepath.Base(srcPath)+" (rendered)", string(existing), res.Output), nil
}

// Render wraps a unified diff in a diff fence and renders it with glamour.
// The fenced text is returned as is when glamour fails.
func Render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	rendered, err := renderMarkdown(fenced)
	if err != nil {
		return fenced
	}
	return rendered
}

// Preview renders markdown source for the terminal
func Preview(src []byte) (string, error) {
	rendered, err := renderMarkdown(string(src))
	if err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return rendered, nil
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(WordWrap),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
