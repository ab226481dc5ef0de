// Package convert runs one source document through parsing, rendering
// and conversion logging.
package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/logger"
	"github.com/gerunddev/mdlatex/internal/mdast"
	"github.com/gerunddev/mdlatex/internal/parse"
)

// Format is the markup of a source document
type Format int

const (
	Markdown Format = iota
	HTML
)

func (f Format) String() string {
	if f == HTML {
		return "html"
	}
	return "markdown"
}

// FormatOf guesses the format from a file name; anything that is not
// .html or .htm is markdown
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return HTML
	default:
		return Markdown
	}
}

// Converter turns source documents into LaTeX with fixed settings
type Converter struct {
	Settings latex.Settings
	Log      *logger.Logger
}

// New creates a converter; a nil log discards
func New(s latex.Settings, log *logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{Settings: s, Log: log}
}

// Convert parses src as format and renders it. Debug logging dumps the
// input, tree and output of the run.
func (c *Converter) Convert(name string, src []byte, format Format) (latex.Result, error) {
	log := c.Log.Run()
	start := time.Now()
	log.ConversionStarted(name, len(src))
	log.Input(src)

	var root *mdast.Root
	var err error
	if format == HTML {
		root, err = parse.HTML(src)
	} else {
		root, err = parse.Markdown(src)
	}
	if err != nil {
		log.FileError(name, err)
		return latex.Result{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	log.Tree(root)

	res := latex.Convert(root, c.Settings)
	log.Diagnostics(res.Diagnostics)
	log.Output(res.Output)
	log.ConversionCompleted(res, time.Since(start))
	return res, nil
}
