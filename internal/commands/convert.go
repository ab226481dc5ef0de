package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gerunddev/mdlatex/internal/convert"
	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/sink"
	"github.com/gerunddev/mdlatex/internal/styles"
)

// newClipboard can be overridden for testing
var newClipboard = func() sink.Sink {
	return sink.NewClipboard()
}

func newConvertCmd(a *app) *cobra.Command {
	var (
		html      bool
		out       string
		clipboard bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert one document to LaTeX",
		Long: `Convert reads markdown from a file, or stdin when the file is absent or "-",
and writes LaTeX to stdout, a file, or the clipboard.

Examples:
  mdlatex convert note.md
  cat note.md | mdlatex convert --minted
  mdlatex convert page.html --out page.tex --clipboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}

			src, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			format := convert.FormatOf(name)
			if html {
				format = convert.HTML
			}

			res, err := a.converter().Convert(name, src, format)
			if err != nil {
				return err
			}
			reportDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

			var targets sink.Multi
			if out != "" {
				targets = append(targets, &sink.File{Path: out})
			}
			if clipboard {
				targets = append(targets, newClipboard())
			}
			if len(targets) == 0 {
				return (&sink.Stream{W: cmd.OutOrStdout(), Name: "stdout"}).Write(res.Output)
			}

			if err := targets.Write(res.Output); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Success(fmt.Sprintf("Wrote %s to %s",
				humanize.Bytes(uint64(len(res.Output))), targets)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Treat the input as HTML")
	cmd.Flags().Bool("minted", false, "Use minted for code blocks")
	cmd.Flags().String("inline-delimiter", latex.DefaultInlineDelimiter, "Delimiters around inline code")
	cmd.Flags().Bool("standalone", false, "Wrap the output in a complete document")
	cmd.Flags().Bool("log-output", false, "Log input, tree and output at debug level")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "Copy the output to the clipboard")

	return cmd
}

func readSource(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return src, nil
	}

	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return src, nil
}

func reportDiagnostics(w io.Writer, diags []latex.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, styles.Warning(d.String()))
	}
}
