package logger

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/k0kubun/pp"

	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/mdast"
)

func init() {
	// Tree dumps end up in log files; keep them free of escape codes.
	pp.ColoringEnabled = false
}

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// Run returns a logger tagging every entry with a fresh conversion id
func (l *Logger) Run() *Logger {
	return &Logger{Logger: l.With("run", uuid.NewString())}
}

// ConversionStarted logs the start of a conversion
func (l *Logger) ConversionStarted(source string, size int) {
	l.Info("conversion started",
		"source", source,
		"bytes", size)
}

// Input dumps the raw source at debug level
func (l *Logger) Input(src []byte) {
	l.Debug("input", "text", string(src))
}

// Tree dumps the parsed tree at debug level
func (l *Logger) Tree(root mdast.Node) {
	if l.GetLevel() > log.DebugLevel {
		return
	}
	l.Debug("tree",
		"nodes", kindCounts(root),
		"dump", pp.Sprint(root))
}

// Output dumps the rendered LaTeX at debug level
func (l *Logger) Output(out string) {
	l.Debug("output", "text", out)
}

// Diagnostics logs every recovered node as a warning
func (l *Logger) Diagnostics(diags []latex.Diagnostic) {
	for _, d := range diags {
		l.Warn("node recovered",
			"kind", d.Kind,
			"node", d.Node,
			"detail", d.Detail)
	}
}

// ConversionCompleted logs the completion of a conversion
func (l *Logger) ConversionCompleted(res latex.Result, duration time.Duration) {
	l.Info("conversion completed",
		"bytes", len(res.Output),
		"diagnostics", len(res.Diagnostics),
		"packages", res.Packages,
		"duration", duration.Round(time.Millisecond))
}

// BuildStarted logs the start of a directory build
func (l *Logger) BuildStarted(srcDir, outDir string) {
	l.Info("build started",
		"src_dir", srcDir,
		"out_dir", outDir)
}

// BuildCompleted logs the completion of a directory build
func (l *Logger) BuildCompleted(filesProcessed int, errors int, duration time.Duration) {
	l.Info("build completed",
		"files_converted", filesProcessed,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// FileConverted logs a successful file conversion
func (l *Logger) FileConverted(source, dest, reason string) {
	l.Info("file converted",
		"source", source,
		"dest", dest,
		"reason", reason)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs the resolved settings
func (l *Logger) ConfigLoaded(path string, s latex.Settings) {
	l.Debug("config loaded",
		"path", path,
		"inline_delimiter", s.InlineDelimiter,
		"minted_listings", s.MintedListings,
		"standalone", s.Standalone)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// kindCounts renders node tallies in kind order, e.g. "root=1 text=4"
func kindCounts(root mdast.Node) string {
	counts := mdast.Count(root)
	var b strings.Builder
	for k := mdast.KindRoot; k <= mdast.KindUnknown; k++ {
		if counts[k] == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String() + "=" + strconv.Itoa(counts[k]))
	}
	return b.String()
}
