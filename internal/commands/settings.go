package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/styles"
	"github.com/gerunddev/mdlatex/internal/tui"
)

func newSettingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit conversion settings interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// a.cfg has env, flags and path expansion merged in; edit what the file holds
			cfg, err := config.LoadFile()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			m := tui.NewSettingsModel(cfg, func(c *config.Config) error {
				return c.Save()
			})

			p := tea.NewProgram(m, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("failed to run settings editor: %w", err)
			}

			if sm, ok := final.(tui.SettingsModel); ok && sm.Saved() {
				fmt.Fprintln(cmd.OutOrStdout(), styles.Success("Saved "+styles.PathStyle.Render(config.ConfigPath())))
			}
			return nil
		},
	}
}
