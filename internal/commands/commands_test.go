package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/sink"
)

// withTempPaths points the config and state files into a temp dir
func withTempPaths(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	origConfig, origState := config.ConfigPath, config.StateFilePath
	config.ConfigPath = func() string { return filepath.Join(dir, "config.json") }
	config.StateFilePath = func() string { return filepath.Join(dir, "state.json") }
	t.Cleanup(func() {
		config.ConfigPath, config.StateFilePath = origConfig, origState
	})
	return dir
}

// run executes the command line and returns stdout and stderr
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd, a := newRootCmd()
	t.Cleanup(a.close)

	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestVersion(t *testing.T) {
	withTempPaths(t)

	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mdlatex v"+Version+"\n", out)
}

func TestConvertStdin(t *testing.T) {
	withTempPaths(t)

	tests := []struct {
		name     string
		stdin    string
		args     []string
		expected string
	}{
		{
			name:     "no file",
			stdin:    "# Hi\n",
			args:     []string{"convert"},
			expected: "\\section{Hi}\n\n",
		},
		{
			name:     "dash",
			stdin:    "use `x`\n",
			args:     []string{"convert", "-"},
			expected: "use \\lstinline{x}\n\n",
		},
		{
			name:     "delimiter flag",
			stdin:    "use `x`\n",
			args:     []string{"convert", "--inline-delimiter", "|"},
			expected: "use \\lstinline|x|\n\n",
		},
		{
			name:     "minted flag",
			stdin:    "```go\nx := 1\n```\n",
			args:     []string{"convert", "--minted"},
			expected: "\\begin{minted}{go}\nx := 1\n\\end{minted}\n\n",
		},
		{
			name:     "html flag",
			stdin:    "<p><strong>b</strong></p>",
			args:     []string{"convert", "--html"},
			expected: "\\textbf{b}\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestConvertToFile(t *testing.T) {
	dir := withTempPaths(t)
	src := filepath.Join(dir, "note.md")
	dst := filepath.Join(dir, "out", "note.tex")
	write(t, src, "50% done\n")

	out, errOut, err := run(t, "", "convert", src, "--out", dst)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Wrote")
	assert.Contains(t, errOut, dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "50\\% done\n\n", string(data))
}

func TestConvertToClipboard(t *testing.T) {
	withTempPaths(t)

	var copied bytes.Buffer
	orig := newClipboard
	newClipboard = func() sink.Sink { return &sink.Stream{W: &copied, Name: "clipboard"} }
	t.Cleanup(func() { newClipboard = orig })

	out, errOut, err := run(t, "*x*\n", "convert", "--clipboard")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "\\emph{x}\n\n", copied.String())
	assert.Contains(t, errOut, "clipboard")
}

func TestConvertReportsDiagnostics(t *testing.T) {
	withTempPaths(t)

	out, errOut, err := run(t, "[text]()\n", "convert")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, errOut, "link without target")
}

func TestConvertMissingFile(t *testing.T) {
	withTempPaths(t)

	_, _, err := run(t, "", "convert", "does-not-exist.md")
	assert.ErrorContains(t, err, "does-not-exist.md")
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	dir := withTempPaths(t)
	write(t, filepath.Join(dir, "config.json"), `{"standalone": true, "inline_delimiter": "!"}`)

	out, _, err := run(t, "`x`\n", "convert")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\\documentclass{article}"))
	assert.Contains(t, out, "\\lstinline!x!")

	out, _, err = run(t, "`x`\n", "convert", "--standalone=false")
	require.NoError(t, err)
	assert.Equal(t, "\\lstinline!x!\n\n", out)
}

func TestInvalidConfig(t *testing.T) {
	dir := withTempPaths(t)
	write(t, filepath.Join(dir, "config.json"), `{"inline_delimiter": "ab"}`)

	_, _, err := run(t, "x\n", "convert")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLogFile(t *testing.T) {
	dir := withTempPaths(t)
	logPath := filepath.Join(dir, "mdlatex.log")
	write(t, filepath.Join(dir, "config.json"), `{"log_file": "`+logPath+`"}`)

	_, errOut, err := run(t, "# Hi\n", "convert", "--log-output")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "conversion started")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "conversion started")
	assert.Contains(t, string(data), "tree")
}

func TestBuild(t *testing.T) {
	dir := withTempPaths(t)
	src := filepath.Join(dir, "notes")
	out := filepath.Join(dir, "tex")
	write(t, filepath.Join(src, "a.md"), "# A\n")
	write(t, filepath.Join(src, "deep", "b.md"), "b\n")

	_, errOut, err := run(t, "", "build", src, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, errOut, "2 converted")
	assert.FileExists(t, filepath.Join(out, "a.tex"))
	assert.FileExists(t, filepath.Join(out, "deep", "b.tex"))
	assert.FileExists(t, filepath.Join(dir, "state.json"))

	_, errOut, err = run(t, "", "build", src, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, errOut, "2 unchanged")

	_, errOut, err = run(t, "", "build", src, "--out", out, "--force")
	require.NoError(t, err)
	assert.Contains(t, errOut, "2 converted")
}

func TestBuildFailures(t *testing.T) {
	dir := withTempPaths(t)
	src := filepath.Join(dir, "notes")
	write(t, filepath.Join(src, "bad.md"), "---\ntitle: [\n---\n")

	_, _, err := run(t, "", "build", src)
	assert.ErrorContains(t, err, "--out")

	_, errOut, err := run(t, "", "build", src, "--out", filepath.Join(dir, "tex"))
	assert.ErrorContains(t, err, "1 file(s) failed")
	assert.Contains(t, errOut, "bad.md")
}

func TestDiff(t *testing.T) {
	dir := withTempPaths(t)
	src := filepath.Join(dir, "note.md")
	tex := filepath.Join(dir, "note.tex")
	write(t, src, "# New\n")
	write(t, tex, "\\section{Old}\n\n")

	out, _, err := run(t, "", "diff", src, tex, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "-\\section{Old}\n")
	assert.Contains(t, out, "+\\section{New}\n")

	write(t, tex, "\\section{New}\n\n")
	out, _, err = run(t, "", "diff", src, tex)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestPreview(t *testing.T) {
	dir := withTempPaths(t)
	src := filepath.Join(dir, "note.md")
	write(t, src, "# Heading\n\nbody\n")

	out, _, err := run(t, "", "preview", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
}

func TestConfigCommands(t *testing.T) {
	dir := withTempPaths(t)

	out, _, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json")+"\n", out)

	out, _, err = run(t, "", "config", "show")
	require.NoError(t, err)
	for _, o := range config.Options() {
		assert.Contains(t, out, o.Key)
	}
	assert.Contains(t, out, "inline_delimiter = {}")
}

func TestSettingsSavesFileValuesOnly(t *testing.T) {
	dir := withTempPaths(t)
	path := filepath.Join(dir, "config.json")
	write(t, path, `{"inline_delimiter": "|", "log_file": "~/mdlatex.log"}`)
	t.Setenv("MDLATEX_STANDALONE", "true")

	// ctrl+s saves and quits
	out, _, err := run(t, "\x13", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")

	saved, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, config.Config{InlineDelimiter: "|", LogFile: "~/mdlatex.log"}, *saved)
}

func TestUnknownCommand(t *testing.T) {
	withTempPaths(t)

	_, _, err := run(t, "", "frobnicate")
	assert.Error(t, err)
}
