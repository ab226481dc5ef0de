package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdlatex/internal/batch"
	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/state"
	"github.com/gerunddev/mdlatex/internal/styles"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		out       string
		watch     bool
		interval  time.Duration
		force     bool
		statePath string
	)

	cmd := &cobra.Command{
		Use:   "build <dir>",
		Short: "Convert every markdown file under a directory",
		Long: `Build mirrors every .md file under <dir> into a .tex file under --out.
Unchanged sources are skipped; outputs of deleted sources are removed.

Examples:
  mdlatex build notes/ --out tex/
  mdlatex build notes/ --out tex/ --watch --interval 5s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if statePath == "" {
				statePath = config.StateFilePath()
			}

			st, err := state.Load(statePath)
			if err != nil {
				a.log.StateError("load", err)
				return fmt.Errorf("failed to load state: %w", err)
			}

			b := batch.NewBuilder(args[0], out, a.converter(), a.log)
			b.State = st
			b.StatePath = statePath
			b.Force = force

			w := cmd.ErrOrStderr()
			if !watch {
				result, err := b.Build(cmd.Context())
				if err != nil {
					return err
				}
				printBuildResult(w, result)
				if len(result.Errors) > 0 {
					return fmt.Errorf("%d file(s) failed to convert", len(result.Errors))
				}
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(w, styles.DimStyle.Render(fmt.Sprintf("Watching %s every %v (ctrl+c to stop)", args[0], interval)))
			return b.Watch(ctx, interval, func(result *batch.BuildResult, err error) {
				if err != nil {
					fmt.Fprintln(w, styles.Failure(err.Error()))
					return
				}
				printBuildResult(w, result)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory for .tex files")
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild on an interval until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Polling interval in watch mode")
	cmd.Flags().BoolVar(&force, "force", false, "Convert every file even when unchanged")
	cmd.Flags().StringVar(&statePath, "state", "", "State file (default: "+config.StateFilePath()+")")
	cmd.Flags().Bool("minted", false, "Use minted for code blocks")
	cmd.Flags().String("inline-delimiter", latex.DefaultInlineDelimiter, "Delimiters around inline code")
	cmd.Flags().Bool("standalone", false, "Wrap each output in a complete document")

	return cmd
}

func printBuildResult(w io.Writer, r *batch.BuildResult) {
	for _, err := range r.Errors {
		fmt.Fprintln(w, styles.Failure(err.Error()))
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, styles.Warning(r.String()))
		return
	}
	if r.FilesProcessed == 0 && len(r.Removed) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render(r.String()))
		return
	}
	fmt.Fprintln(w, styles.Success(r.String()))
}
