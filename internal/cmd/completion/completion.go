// Package completion provides shell completion for the imagerater CLI:
// script generation plus dynamic completion of image references and
// filter values.
package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/pkg/filter"
	"github.com/agentstation/imagerater/pkg/images"
)

// NewCommand creates the completion command with one subcommand per shell.
// It replaces Cobra's auto-generated completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for imagerater.

Examples:
  # Load bash completions in the current session
  source <(imagerater completion bash)

  # Install zsh completions
  imagerater completion zsh > "${fpath[1]}/_imagerater"

  # Fish
  imagerater completion fish > ~/.config/fish/completions/imagerater.fish`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newShellCommand("bash", func(c *cobra.Command) error {
			return c.Root().GenBashCompletionV2(c.OutOrStdout(), true)
		}),
		newShellCommand("zsh", func(c *cobra.Command) error {
			return c.Root().GenZshCompletion(c.OutOrStdout())
		}),
		newShellCommand("fish", func(c *cobra.Command) error {
			return c.Root().GenFishCompletion(c.OutOrStdout(), true)
		}),
		newShellCommand("powershell", func(c *cobra.Command) error {
			return c.Root().GenPowerShellCompletionWithDesc(c.OutOrStdout())
		}),
	)

	return cmd
}

func newShellCommand(shell string, gen func(*cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:                   shell,
		Short:                 "Generate " + shell + " completion script",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return gen(cmd)
		},
	}
}

// Images completes the first positional argument with image display names.
// Each candidate carries the image id as its description.
func Images(app application.Application) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		r, err := app.Rater()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var out []string
		for _, id := range r.Images() {
			name := images.DisplayName(id)
			if strings.HasPrefix(name, toComplete) {
				out = append(out, name+"\t"+id)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// Filters completes --filter values.
func Filters(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, s := range filter.Options() {
		if strings.HasPrefix(s.String(), toComplete) {
			out = append(out, s.String()+"\t"+s.Label())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
