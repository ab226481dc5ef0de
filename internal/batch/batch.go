package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gerunddev/mdlatex/internal/convert"
	"github.com/gerunddev/mdlatex/internal/logger"
	"github.com/gerunddev/mdlatex/internal/sink"
	"github.com/gerunddev/mdlatex/internal/state"
)

// SourceExts are the extensions picked up by a build
var SourceExts = []string{".md", ".markdown"}

// Builder converts a tree of markdown files into a mirrored tree of .tex
// files, skipping sources that have not changed since the last build
type Builder struct {
	SrcDir    string
	OutDir    string
	Converter *convert.Converter
	State     *state.State
	// StatePath is where state is saved after each build; empty keeps
	// state in memory only.
	StatePath string
	// Force reconverts every source.
	Force bool
	Log   *logger.Logger
}

// NewBuilder creates a builder with an empty state
func NewBuilder(srcDir, outDir string, c *convert.Converter, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{
		SrcDir:    srcDir,
		OutDir:    outDir,
		Converter: c,
		State:     state.NewState(),
		Log:       log,
	}
}

// BuildResult represents the result of a build
type BuildResult struct {
	FilesProcessed int
	Skipped        int
	Removed        []string
	Diagnostics    int
	BytesWritten   int
	Errors         []error
	StartTime      time.Time
	EndTime        time.Time
}

// Build performs one pass over SrcDir. Per-file failures are collected in
// the result; the returned error is reserved for failures of the whole
// pass (unreadable source dir, cancellation, state not saved).
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	result := &BuildResult{
		StartTime: time.Now(),
	}
	b.Log.BuildStarted(b.SrcDir, b.OutDir)

	sources, err := ScanDirectory(b.SrcDir, SourceExts...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", b.SrcDir, err)
	}

	// Outputs rendered with other settings are stale.
	fingerprint := fmt.Sprintf("%+v", b.Converter.Settings)
	force := b.Force || b.State.Settings != fingerprint
	b.State.Settings = fingerprint

	keep := make(map[string]bool, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		keep[src] = true

		out, err := OutputPath(b.SrcDir, b.OutDir, src)
		if err != nil {
			result.Errors = append(result.Errors, err)
			b.Log.FileError(src, err)
			continue
		}

		reason, err := b.needsBuild(src, out, force)
		if err != nil {
			result.Errors = append(result.Errors, err)
			b.Log.FileError(src, err)
			continue
		}
		if reason == "" {
			result.Skipped++
			b.Log.Skipped(src, "unchanged")
			continue
		}

		if err := b.convertFile(src, out, result); err != nil {
			result.Errors = append(result.Errors, err)
			b.Log.FileError(src, err)
			continue
		}
		result.FilesProcessed++
		b.Log.FileConverted(src, out, reason)
	}

	for _, src := range b.State.Prune(keep) {
		result.Removed = append(result.Removed, src)
		out, err := OutputPath(b.SrcDir, b.OutDir, src)
		if err != nil {
			continue
		}
		if err := os.Remove(out); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.Log.FileError(out, err)
		}
	}

	result.EndTime = time.Now()
	b.Log.BuildCompleted(result.FilesProcessed, len(result.Errors), result.EndTime.Sub(result.StartTime))

	if b.StatePath != "" {
		if err := b.State.Save(b.StatePath); err != nil {
			b.Log.StateError("save", err)
			return result, err
		}
	}
	return result, nil
}

// needsBuild returns why src must be converted, or "" to skip it
func (b *Builder) needsBuild(src, out string, force bool) (string, error) {
	if force {
		return "forced", nil
	}
	changed, err := b.State.HasChanged(src)
	if err != nil {
		return "", err
	}
	if changed {
		return "changed", nil
	}
	if _, err := os.Stat(out); errors.Is(err, fs.ErrNotExist) {
		return "output missing", nil
	}
	return "", nil
}

func (b *Builder) convertFile(src, out string, result *BuildResult) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	res, err := b.Converter.Convert(src, data, convert.Markdown)
	if err != nil {
		return err
	}
	result.Diagnostics += len(res.Diagnostics)

	f := &sink.File{Path: out}
	if err := f.Write(res.Output); err != nil {
		return err
	}
	result.BytesWritten += len(res.Output)

	return b.State.Update(src, out)
}

// Watch builds once, then again on every tick until ctx is cancelled.
// Each result is passed to report.
func (b *Builder) Watch(ctx context.Context, interval time.Duration, report func(*BuildResult, error)) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := b.Build(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if report != nil {
			report(result, err)
		}

		select {
		case <-ctx.Done():
			b.Log.Info("watch stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// ScanDirectory lists the files under dir with one of exts. Hidden
// directories (.git, .obsidian, ...) are skipped.
func ScanDirectory(dir string, exts ...string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range exts {
			if ext == e {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// OutputPath mirrors src, a file under srcDir, into outDir with a .tex
// extension
func OutputPath(srcDir, outDir, src string) (string, error) {
	rel, err := filepath.Rel(srcDir, src)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", src, srcDir)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".tex"), nil
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d converted, %d unchanged, %d removed, %d diagnostics, %d errors, %s written (took %v)",
		r.FilesProcessed,
		r.Skipped,
		len(r.Removed),
		r.Diagnostics,
		len(r.Errors),
		humanize.Bytes(uint64(r.BytesWritten)),
		duration.Round(time.Millisecond),
	)
}
