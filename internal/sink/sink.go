// Package sink delivers rendered LaTeX to where the user wants it:
// a stream, a file or the system clipboard.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard is returned when the platform offers no clipboard
// utility (xclip, xsel, wl-copy, pbcopy, ...).
var ErrNoClipboard = errors.New("no clipboard utility available")

// Sink receives the output of one conversion.
type Sink interface {
	Write(out string) error
	// String names the destination for status lines.
	String() string
}

// Stream writes to an io.Writer.
type Stream struct {
	W    io.Writer
	Name string
}

func (s *Stream) Write(out string) error {
	if _, err := io.WriteString(s.W, out); err != nil {
		return fmt.Errorf("writing to %s: %w", s.Name, err)
	}
	return nil
}

func (s *Stream) String() string { return s.Name }

// File writes to a path, creating parent directories.
type File struct {
	Path string
}

func (f *File) Write(out string) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(f.Path, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) String() string { return f.Path }

// Clipboard copies to the system clipboard.
type Clipboard struct {
	write       func(string) error
	unsupported bool
}

// NewClipboard creates a Clipboard backed by the platform utility.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

func (c *Clipboard) Write(out string) error {
	if c.unsupported {
		return ErrNoClipboard
	}
	if err := c.write(out); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

func (c *Clipboard) String() string { return "clipboard" }

// Multi writes to every sink, even after a failure, and joins the errors.
type Multi []Sink

func (m Multi) Write(out string) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(out); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) String() string {
	switch len(m) {
	case 0:
		return "nowhere"
	case 1:
		return m[0].String()
	}
	names := m[0].String()
	for _, s := range m[1:] {
		names += ", " + s.String()
	}
	return names
}
