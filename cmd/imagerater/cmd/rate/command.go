// Package rate provides the commands that set and clear ratings.
package rate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/cmd/completion"
	"github.com/agentstation/imagerater/internal/cmd/emoji"
	"github.com/agentstation/imagerater/internal/cmd/lookup"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/images"
	"github.com/agentstation/imagerater/pkg/ratings"
)

// NewCommand creates the rate command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "rate <image> <stars>",
		GroupID: "core",
		Short:   "Rate an image with 1 to 5 stars",
		Long: `Rate sets the star rating of one image, replacing any previous rating.

The image may be given as its full identifier, its 1-based position in the
list, or its display name when that name is unique.`,
		Example: `  imagerater rate 3 5
  imagerater rate sunset.jpg 4
  imagerater rate https://example.com/photos/sunset.jpg 2`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completion.Images(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			stars, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.NewValidationError("stars", args[1], "must be a number from 1 to 5")
			}
			return runRate(cmd, app, args[0], ratings.Rating(stars))
		},
	}
}

// NewUnrateCommand creates the unrate command with app dependencies.
func NewUnrateCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "unrate <image>",
		Aliases: []string{"clear"},
		GroupID: "core",
		Short:   "Remove the rating of an image",
		Example: `  imagerater unrate 3
  imagerater unrate sunset.jpg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completion.Images(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnrate(cmd, app, args[0])
		},
	}
}

func runRate(cmd *cobra.Command, app application.Application, ref string, stars ratings.Rating) error {
	r, err := app.Rater()
	if err != nil {
		return err
	}

	id, err := lookup.Image(r, ref)
	if err != nil {
		return err
	}
	if err := r.Rate(id, stars); err != nil {
		return err
	}
	if err := r.Save(); err != nil {
		return fmt.Errorf("saving ratings: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s %s\n", emoji.Success, images.DisplayName(id), stars.Stars(), stars.Label())
	return err
}

func runUnrate(cmd *cobra.Command, app application.Application, ref string) error {
	r, err := app.Rater()
	if err != nil {
		return err
	}

	id, err := lookup.Image(r, ref)
	if err != nil {
		return err
	}
	if err := r.Unrate(id); err != nil {
		return err
	}
	if err := r.Save(); err != nil {
		return fmt.Errorf("saving ratings: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", emoji.Success, images.DisplayName(id), ratings.Unrated.Label())
	return err
}
