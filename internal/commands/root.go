// Package commands implements the mdlatex command line.
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/convert"
	"github.com/gerunddev/mdlatex/internal/logger"
)

// Version is printed by the version command
var Version = "0.1.0"

// flagKeys maps command flags to the config keys they override
var flagKeys = map[string]string{
	"inline-delimiter": "inline_delimiter",
	"minted":           "minted_listings",
	"standalone":       "standalone",
	"log-output":       "log_output",
}

// app holds what every subcommand needs once configuration is loaded
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      *logger.Logger
	closeLog func()
}

func (a *app) converter() *convert.Converter {
	return convert.New(a.cfg.Settings(), a.log)
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
}

// Execute runs the command line and returns the first error
func Execute() error {
	cmd, a := newRootCmd()
	defer a.close()
	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "mdlatex",
		Short: "Convert markdown notes to LaTeX",
		Long: `mdlatex converts markdown (or HTML) into LaTeX source.

Examples:
  mdlatex convert note.md
  mdlatex convert note.md --standalone --out note.tex
  mdlatex build notes/ --out tex/ --watch
  mdlatex diff note.md note.tex`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newBuildCmd(a))
	cmd.AddCommand(newDiffCmd(a))
	cmd.AddCommand(newPreviewCmd(a))
	cmd.AddCommand(newSettingsCmd(a))
	cmd.AddCommand(newConfigCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd, a
}

// load reads the configuration, letting flags set on cmd override it, and
// sets up logging
func (a *app) load(cmd *cobra.Command) error {
	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.LoadViper(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.v = v
	a.cfg = cfg

	level := log.WarnLevel
	if cfg.LogOutput {
		level = log.DebugLevel
	}

	a.close()
	if cfg.LogFile != "" {
		if level > log.InfoLevel {
			level = log.InfoLevel
		}
		l, closeLog, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.log, a.closeLog = l, closeLog
	} else {
		a.log = logger.NewWithLevel(cmd.ErrOrStderr(), level)
	}

	a.log.ConfigLoaded(config.ConfigPath(), cfg.Settings())
	return nil
}
