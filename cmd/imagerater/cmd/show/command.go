// Package show provides the command that previews one image.
package show

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/completion"
	"github.com/agentstation/imagerater/internal/cmd/lookup"
	"github.com/agentstation/imagerater/internal/cmd/output"
	"github.com/agentstation/imagerater/pkg/filter"
)

// Preview is the structured form of the show output.
type Preview struct {
	imagerater.ViewEntry `yaml:",inline"`
	Label                string                `json:"label" yaml:"label"`
	Position             string                `json:"position" yaml:"position"`
	Navigation           imagerater.Navigation `json:"navigation" yaml:"navigation"`
}

// NewCommand creates the show command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <image>",
		Aliases: []string{"preview"},
		GroupID: "core",
		Short:   "Preview one image with its rating and list position",
		Long: `Show prints the preview of one image: its identifier, its position in
the list ("Image i of N"), and its rating.

With --filter, the position inside the filtered list is shown as well,
e.g. "Image 3 of 14 (2/5 in filter)".`,
		Example: `  imagerater show 3
  imagerater show sunset.jpg --filter 4`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.Images(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cmd.Flags().GetString("filter")
			if err != nil {
				return err
			}
			sel, err := filter.Parse(raw)
			if err != nil {
				return err
			}
			return run(cmd, app, args[0], sel)
		},
	}

	cmd.Flags().StringP("filter", "f", "all", "Rating filter the position is reported in: all, unrated, 1..5")
	_ = cmd.RegisterFlagCompletionFunc("filter", completion.Filters)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, ref string, sel filter.Selector) error {
	r, err := app.Rater()
	if err != nil {
		return err
	}

	id, err := lookup.Image(r, ref)
	if err != nil {
		return err
	}

	r.SetFilter(sel)
	r.Select(id)

	entry, err := r.Entry(r.IndexOf(id))
	if err != nil {
		return err
	}
	nav := r.Navigation()
	preview := Preview{
		ViewEntry:  entry,
		Label:      entry.Label(),
		Position:   nav.String(),
		Navigation: nav,
	}

	format := output.Format(app.OutputFormat())
	switch format {
	case output.FormatTable, output.FormatWide, "":
		return writeText(cmd.OutOrStdout(), preview)
	default:
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), preview)
	}
}

func writeText(w io.Writer, p Preview) error {
	stars := "-"
	if p.Rated() {
		stars = p.Rating.Stars()
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n  %s  %s\n", p.Name, p.ID, p.Position, stars, p.Label)
	return err
}
