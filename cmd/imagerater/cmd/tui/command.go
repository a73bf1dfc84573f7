// Package tui provides the interactive terminal rater command.
package tui

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/completion"
	ui "github.com/agentstation/imagerater/internal/tui"
	"github.com/agentstation/imagerater/pkg/filter"
)

// NewCommand creates the tui command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tui",
		Aliases: []string{"ui"},
		GroupID: "interactive",
		Short:   "Rate images in an interactive terminal UI",
		Long: `Open a two-pane terminal UI: the filtered image list on the left and a
preview of the selected image on the right.

Keys:
  ↑/k ↓/j   move the selection        ←/p →/n   previous / next
  1-5       rate the selection        0/x       remove the rating
  f/tab     cycle the filter          a / u     all / unrated
  ?         toggle help               q         quit

Ratings are saved as they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := cmd.Flags().GetString("filter")
			if err != nil {
				return err
			}
			sel, err := filter.Parse(raw)
			if err != nil {
				return err
			}

			r, err := app.Rater()
			if err != nil {
				return err
			}
			r.SetFilter(sel)

			app.Logger().Debug().Str("filter", sel.String()).Msg("Starting terminal UI")
			return ui.Run(cmd.Context(), r)
		},
	}

	cmd.Flags().StringP("filter", "f", "all", "Initial filter: all, unrated, 1..5")
	_ = cmd.RegisterFlagCompletionFunc("filter", completion.Filters)

	return cmd
}
