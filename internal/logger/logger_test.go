package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/mdast"
)

func sampleTree() *mdast.Root {
	return mdast.NewRoot(
		mdast.NewHeading(1, mdast.NewText("Title")),
		mdast.NewParagraph(mdast.NewText("a"), mdast.NewEmphasis(mdast.NewText("b"))),
	)
}

func TestKindCounts(t *testing.T) {
	got := kindCounts(sampleTree())
	want := "root=1 paragraph=1 heading=1 emphasis=1 text=3"
	if got != want {
		t.Errorf("kindCounts() = %q, want %q", got, want)
	}
}

func TestRunTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf).Run()

	l.ConversionStarted("notes.md", 42)
	l.ConversionCompleted(latex.Result{Output: "x", Packages: []string{"hyperref"}}, time.Second)

	out := buf.String()
	if strings.Count(out, "run=") != 2 {
		t.Errorf("expected both entries tagged with a run id:\n%s", out)
	}
	for _, want := range []string{"conversion started", "source=notes.md", "bytes=42", "conversion completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugDumps(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.Input([]byte("# Title"))
	l.Tree(sampleTree())
	l.Output(`\section{Title}`)

	out := buf.String()
	for _, want := range []string{"input", "tree", "root=1 paragraph=1", "Title", "output"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugDumpsHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.InfoLevel)

	l.Input([]byte("# Title"))
	l.Tree(sampleTree())
	l.Output("x")

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got:\n%s", buf.String())
	}
}

func TestDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Diagnostics([]latex.Diagnostic{
		{Kind: latex.Unsupported, Node: mdast.KindUnknown, Detail: "no rule"},
		{Kind: latex.Malformed, Node: mdast.KindLink, Detail: "link without target"},
	})

	out := buf.String()
	if strings.Count(out, "node recovered") != 2 {
		t.Errorf("expected two warnings:\n%s", out)
	}
	if !strings.Contains(out, "unsupported") || !strings.Contains(out, "malformed") {
		t.Errorf("expected diagnostic kinds in output:\n%s", out)
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdlatex.log")

	l, cleanup, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger() failed: %v", err)
	}
	l.FileError("a.md", errors.New("boom"))
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "boom") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.BuildStarted("a", "b")
	l.BuildCompleted(1, 0, time.Millisecond)
}
