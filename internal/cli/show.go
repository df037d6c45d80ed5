package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pypeek/pypeek/internal/config"
	"github.com/pypeek/pypeek/pkg/registry"
	"github.com/pypeek/pypeek/pkg/registry/pypi"
)

// lookupError presents the user-facing message for a failed lookup while
// keeping the typed error chain intact, so a cancelled context still
// surfaces as context.Canceled to the exit-code handling in main.
type lookupError struct{ err error }

func (e *lookupError) Error() string { return registry.FormatError(e.err) }
func (e *lookupError) Unwrap() error { return e.err }

// newShowCmd creates the show command: a one-shot, non-interactive lookup
// that prints the same details the viewer renders. Useful for scripting.
func newShowCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <package>",
		Short: "Fetch and print metadata for one package",
		Long: `Fetch metadata for a single package from the registry and print its name,
release versions, related links, and declared dependencies.

Examples:
  pypeek show requests
  pypeek show pendulum --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, opts *rootOpts, name string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	client := pypi.NewClient(cfg.Registry)
	id := uuid.NewString()
	logger.Debug("fetch started", "package", name, "request_id", id)

	prog := newProgress(logger)
	info, err := client.FetchPackage(ctx, name)
	if err != nil {
		logger.Debug("fetch failed", "package", name, "request_id", id, "error", err)
		return &lookupError{err: err}
	}
	prog.done(fmt.Sprintf("Fetched %s", info.Name))

	printKeyValue("Package", info.Name)
	printNewline()

	printSection("Releases")
	for _, v := range info.Releases {
		printBullet(v)
	}
	printNewline()

	printSection("Related links")
	for _, u := range info.RelatedLinks {
		printBullet(u)
	}
	printNewline()

	printSection("Dependencies")
	if info.Dependencies == nil {
		fmt.Println("  " + StyleDim.Render("No dependencies"))
		return nil
	}
	for _, d := range info.Dependencies {
		printBullet(d)
	}
	return nil
}
