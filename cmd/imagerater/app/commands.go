package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/imagerater/cmd/export"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/list"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/rate"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/serve"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/show"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/stats"
	"github.com/agentstation/imagerater/cmd/imagerater/cmd/tui"
	"github.com/agentstation/imagerater/internal/cmd/completion"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(rate.NewCommand(a))
	rootCmd.AddCommand(rate.NewUnrateCommand(a))
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(stats.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Interactive commands
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(tui.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("imagerater %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
