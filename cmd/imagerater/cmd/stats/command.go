// Package stats provides the command that summarizes rating progress.
package stats

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/output"
)

// NewCommand creates the stats command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Aliases: []string{"counts"},
		GroupID: "core",
		Short:   "Show rating counts and progress",
		Long: `Stats shows how many images are rated, how many are left, the number
of images per star value, and the overall progress percentage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := app.Rater()
			if err != nil {
				return err
			}
			return output.FormatCounts(cmd.OutOrStdout(), output.Format(app.OutputFormat()), r.Counts())
		},
	}
}
