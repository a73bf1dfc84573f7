package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/imagerater/internal/cmd/output"
)

// Execute runs the imagerater CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "imagerater",
		Short:   "Rate a fixed list of images with 1 to 5 stars",
		Version: a.version,
		Long: `Imagerater keeps 1 to 5 star ratings for a fixed list of images.

Ratings persist locally (file or SQLite storage) and can be browsed and
edited from the command line, an interactive terminal UI, or a JSON API
with live updates over WebSocket and Server-Sent Events.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "interactive",
		Title: "Interactive Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.imagerater.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, wide, json, yaml, markdown")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.ImagesFile, "images", a.config.ImagesFile, "image list file (text, json or yaml; default is the built-in list)")
	flags.StringVar(&a.config.StorageBackend, "storage", a.config.StorageBackend, "storage backend: file, sqlite, memory")
	flags.StringVar(&a.config.StoragePath, "storage-path", a.config.StoragePath, "storage directory (file) or database file (sqlite)")

	rootCmd.SetVersionTemplate("imagerater {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads configuration
// when --config was given and rebuilds the logger from the final settings.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		configFile := mustGetString(cmd, "config")
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.applyFlags(cmd, config)
		a.config = config
	}

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// applyFlags copies explicitly set persistent flags onto config so that
// flags keep precedence over the freshly loaded file.
func (a *App) applyFlags(cmd *cobra.Command, config *Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		config.Verbose = mustGetBool(cmd, "verbose")
	}
	if flags.Changed("quiet") {
		config.Quiet = mustGetBool(cmd, "quiet")
	}
	if flags.Changed("no-color") {
		config.NoColor = mustGetBool(cmd, "no-color")
	}
	for name, dst := range map[string]*string{
		"format":       &config.Format,
		"log-level":    &config.LogLevel,
		"images":       &config.ImagesFile,
		"storage":      &config.StorageBackend,
		"storage-path": &config.StoragePath,
	} {
		if flags.Changed(name) {
			*dst = mustGetString(cmd, name)
		}
	}
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
