// Package export provides the command that writes every rating to a file
// or stdout.
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/output"
	"github.com/agentstation/imagerater/pkg/constants"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// Document is the structured export.
type Document struct {
	Counts   filter.Counts          `json:"counts" yaml:"counts"`
	Progress int                    `json:"progress" yaml:"progress"`
	Ratings  ratings.Ratings        `json:"ratings" yaml:"ratings"`
	Images   []imagerater.ViewEntry `json:"images" yaml:"images"`
}

// NewCommand creates the export command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Export every image with its rating",
		Long: `Export writes the complete rating state: per-image ratings in list order,
the identifier to rating mapping, and the aggregate counts.

JSON is the default. Markdown produces a report with a summary table and a
ratings table.`,
		Example: `  imagerater export > ratings.json
  imagerater export -o yaml --file ratings.yaml
  imagerater export -o markdown --file RATINGS.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}
			return run(cmd, app, path)
		},
	}

	cmd.Flags().String("file", "", "Write to this file instead of stdout")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string) error {
	r, err := app.Rater()
	if err != nil {
		return err
	}

	format := output.Format(app.OutputFormat())
	if format == "" {
		format = output.FormatJSON
	}

	entries := r.Entries(filter.All())
	counts := r.Counts()

	var data any
	switch format {
	case output.FormatTable, output.FormatWide, output.FormatMarkdown:
		data = output.NewRatingsReport(entries, counts)
	default:
		data = Document{
			Counts:   counts,
			Progress: counts.Progress(),
			Ratings:  r.Ratings(),
			Images:   entries,
		}
	}

	if path == "" {
		if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), data); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
	} else if err := writeFile(path, format, data); err != nil {
		return err
	}

	app.Logger().Info().
		Str("format", string(format)).
		Str("file", path).
		Int("rated", counts.Rated).
		Msg("Exported ratings")
	return nil
}

func writeFile(path string, format output.Format, data any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	if err := output.NewFormatter(format).Format(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing export: %w", err)
	}
	return errors.WrapIO("close", path, f.Close())
}
