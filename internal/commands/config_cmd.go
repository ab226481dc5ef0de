package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/styles"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styles.DimStyle.Render("# "+config.ConfigPath()))
			for _, o := range config.Options() {
				fmt.Fprintf(w, "%s = %v\n", styles.HighlightStyle.Render(o.Key), a.v.Get(o.Key))
				fmt.Fprintln(w, styles.DimStyle.Render("  # "+o.Comment))
			}
			return nil
		},
	})
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mdlatex v%s\n", Version)
			return nil
		},
	}
}
