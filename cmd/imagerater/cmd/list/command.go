// Package list provides the command that lists images and their ratings.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/completion"
	"github.com/agentstation/imagerater/internal/cmd/output"
	"github.com/agentstation/imagerater/pkg/filter"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		GroupID: "core",
		Short:   "List images with their ratings",
		Long: `List shows the images of the fixed list in their original order,
narrowed by a rating filter.

Filters:
  all       every image (default)
  unrated   images without a rating
  1..5      images rated exactly that many stars`,
		Example: `  imagerater list                  # Every image
  imagerater list --filter unrated # Images still to rate
  imagerater list --filter 5       # Five star images only
  imagerater list -o wide          # Include full identifiers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := filter.Parse(mustGetString(cmd, "filter"))
			if err != nil {
				return err
			}
			return run(cmd, app, sel)
		},
	}

	cmd.Flags().StringP("filter", "f", "all", "Rating filter: all, unrated, 1..5")
	_ = cmd.RegisterFlagCompletionFunc("filter", completion.Filters)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, sel filter.Selector) error {
	r, err := app.Rater()
	if err != nil {
		return err
	}

	entries := r.Entries(sel)
	app.Logger().Debug().
		Str("filter", sel.String()).
		Int("count", len(entries)).
		Msg("Listing images")

	return output.FormatEntries(cmd.OutOrStdout(), output.Format(app.OutputFormat()), entries)
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
