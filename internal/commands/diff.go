package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdlatex/internal/diff"
	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/styles"
)

func newDiffCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "diff <file.md> <file.tex>",
		Short: "Show how a fresh conversion differs from an existing .tex",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unified, err := diff.Generate(a.converter(), args[0], args[1])
			if err != nil {
				return err
			}

			if unified == "" {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Success(args[1]+" is up to date"))
				return nil
			}
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), unified)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff.Render(unified))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the unified diff without styling")
	cmd.Flags().Bool("minted", false, "Use minted for code blocks")
	cmd.Flags().String("inline-delimiter", latex.DefaultInlineDelimiter, "Delimiters around inline code")
	cmd.Flags().Bool("standalone", false, "Wrap the output in a complete document")

	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file.md>",
		Short: "Render a markdown file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			rendered, err := diff.Preview(src)
			if err != nil {
				a.log.FileError(args[0], err)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
