package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/internal/config"
	"github.com/pypeek/pypeek/pkg/buildinfo"
	"github.com/pypeek/pypeek/pkg/registry/pypi"
)

// rootOpts holds the persistent command-line flags.
type rootOpts struct {
	verbose    bool   // enable debug-level logging
	configPath string // optional TOML config file
}

// Execute runs the pypeek CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The root command starts the interactive viewer; the show subcommand does a
// one-shot lookup. Logging defaults to info level on stderr and switches to
// debug level with --verbose (-v). The logger is attached to the context and
// accessible to all commands via loggerFromContext.
func Execute(ctx context.Context) error {
	var opts rootOpts

	root := &cobra.Command{
		Use:          "pypeek",
		Short:        "Pypeek browses PyPI package metadata from the terminal",
		Long:         `Pypeek fetches package metadata from the PyPI JSON API and shows the package name, its release versions, related links, and declared dependencies. Running it without arguments opens an interactive picker.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), &opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file (overrides the built-in picker list)")

	root.AddCommand(newShowCmd(&opts))

	return root.ExecuteContext(ctx)
}

// runViewer starts the interactive terminal viewer.
func runViewer(ctx context.Context, opts *rootOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	model := NewViewerModel(pypi.NewClient(cfg.Registry), loggerFromContext(ctx), cfg.Packages)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
