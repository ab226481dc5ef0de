package batch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/mdlatex/internal/convert"
	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/state"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// setupVault creates a source tree and returns src and out dirs
func setupVault(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "vault")
	writeFile(t, filepath.Join(src, "a.md"), "# A\n")
	writeFile(t, filepath.Join(src, "sub", "b.md"), "50% off\n")
	writeFile(t, filepath.Join(src, ".obsidian", "c.md"), "hidden\n")
	writeFile(t, filepath.Join(src, "notes.txt"), "not markdown\n")
	return src, filepath.Join(root, "out")
}

func newTestBuilder(src, out string, s latex.Settings) *Builder {
	return NewBuilder(src, out, convert.New(s, nil), nil)
}

func TestScanDirectory(t *testing.T) {
	src, _ := setupVault(t)

	files, err := ScanDirectory(src, SourceExts...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(src, "a.md"),
		filepath.Join(src, "sub", "b.md"),
	}, files)

	_, err = ScanDirectory(filepath.Join(src, "missing"), ".md")
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
		wantErr  bool
	}{
		{"top level", "/v/a.md", "/o/a.tex", false},
		{"nested", "/v/sub/b.markdown", "/o/sub/b.tex", false},
		{"outside", "/elsewhere/c.md", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath("/v", "/o", filepath.FromSlash(tt.src))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.expected), got)
		})
	}
}

func TestBuildConvertsAndSkips(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Empty(t, result.Errors)

	data, err := os.ReadFile(filepath.Join(out, "a.tex"))
	require.NoError(t, err)
	assert.Equal(t, "\\section{A}\n\n", string(data))

	data, err = os.ReadFile(filepath.Join(out, "sub", "b.tex"))
	require.NoError(t, err)
	assert.Equal(t, "50\\% off\n\n", string(data))

	assert.NoFileExists(t, filepath.Join(out, ".obsidian", "c.tex"))

	// Nothing changed
	result, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesProcessed)
	assert.Equal(t, 2, result.Skipped)
}

func TestBuildPicksUpChanges(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	a := filepath.Join(src, "a.md")
	writeFile(t, a, "# Changed\n")
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(a, later, later))

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.Equal(t, 1, result.Skipped)

	data, err := os.ReadFile(filepath.Join(out, "a.tex"))
	require.NoError(t, err)
	assert.Equal(t, "\\section{Changed}\n\n", string(data))
}

func TestBuildRestoresMissingOutput(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	_, err := b.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(out, "a.tex")))

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesProcessed)
	assert.FileExists(t, filepath.Join(out, "a.tex"))
}

func TestBuildRemovesDeletedSources(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(src, "sub", "b.md")))

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(src, "sub", "b.md")}, result.Removed)
	assert.NoFileExists(t, filepath.Join(out, "sub", "b.tex"))
	assert.FileExists(t, filepath.Join(out, "a.tex"))
}

func TestBuildForceAndSettingsChange(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	b.Force = true
	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesProcessed)

	b.Force = false
	b.Converter = convert.New(latex.Settings{Standalone: true}, nil)
	result, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesProcessed, "new settings make every output stale")

	data, err := os.ReadFile(filepath.Join(out, "a.tex"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\\documentclass{article}"))
}

func TestBuildCollectsFileErrors(t *testing.T) {
	src, out := setupVault(t)
	writeFile(t, filepath.Join(src, "broken.md"), "---\ntitle: [\n---\n")
	b := newTestBuilder(src, out, latex.Settings{})

	result, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesProcessed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "broken.md")
}

func TestBuildSavesState(t *testing.T) {
	src, out := setupVault(t)
	statePath := filepath.Join(t.TempDir(), "state.json")

	b := newTestBuilder(src, out, latex.Settings{})
	b.StatePath = statePath
	_, err := b.Build(context.Background())
	require.NoError(t, err)

	st, err := state.Load(statePath)
	require.NoError(t, err)
	assert.Len(t, st.Files, 2)
	assert.Equal(t, filepath.Join(out, "a.tex"), st.Files[filepath.Join(src, "a.md")].Output)

	// A fresh builder with the saved state skips everything.
	b2 := newTestBuilder(src, out, latex.Settings{})
	b2.State = st
	result, err := b2.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
}

func TestBuildCancelled(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatch(t *testing.T) {
	src, out := setupVault(t)
	b := newTestBuilder(src, out, latex.Settings{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var results []*BuildResult
	err := b.Watch(ctx, 10*time.Millisecond, func(r *BuildResult, err error) {
		require.NoError(t, err)
		results = append(results, r)
		if len(results) == 2 {
			cancel()
		}
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].FilesProcessed)
	assert.Equal(t, 2, results[1].Skipped)
}

func TestWatchRejectsBadInterval(t *testing.T) {
	b := newTestBuilder(t.TempDir(), t.TempDir(), latex.Settings{})
	assert.Error(t, b.Watch(context.Background(), 0, nil))
}

func TestBuildResultString(t *testing.T) {
	start := time.Now()
	r := &BuildResult{
		FilesProcessed: 3,
		Skipped:        1,
		BytesWritten:   2048,
		StartTime:      start,
		EndTime:        start.Add(1500 * time.Millisecond),
	}

	s := r.String()
	assert.Contains(t, s, "3 converted")
	assert.Contains(t, s, "1 unchanged")
	assert.Contains(t, s, "2.0 kB written")
	assert.Contains(t, s, "1.5s")
}
