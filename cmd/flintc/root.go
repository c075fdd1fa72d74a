// Command flintc is the front-end CLI: it resolves a Flint project's
// dependency graph, parses it, and runs semantic analysis, reporting
// diagnostics without invoking a code generator (spec.md §1's stated
// boundary; code generation, linking, and on-disk caching are external).
package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/flint-lang/flintc/driver"
	"github.com/flint-lang/flintc/errors"
)

// newRootCmd builds the flintc command tree, adapted from
// cue/cmd/cue/cmd.New's shape: a silent-errors-and-usage root with one
// subcommand registered, following the teacher's convention of printing
// its own diagnostics rather than letting cobra render the error.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flintc",
		Short:         "flintc checks Flint source for compile errors",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newCheckCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		parallel    bool
		minimalTree bool
		maxDepth    uint64
		test        bool
		configPath  string
	)

	cmd := &cobra.Command{
		Use:   "check <root-file>",
		Short: "run the front end to completion and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("reading config %q: %w", configPath, err)
			}

			opts := driver.Options{
				Parallel:    cfg.Parallel || parallel,
				MinimalTree: cfg.MinimalTree || minimalTree,
				MaxDepth:    cfg.MaxDepth,
				Test:        cfg.Test || test,
				Logger:      slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)),
			}
			if maxDepth != 0 {
				opts.MaxDepth = maxDepth
			}

			_, errs := driver.Compile(args[0], opts)
			errors.Details(cmd.OutOrStdout(), errs)
			if len(errs) > 0 {
				return errPrinted
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&parallel, "parallel", false, "resolve, parse, and analyze files concurrently")
	flags.BoolVar(&minimalTree, "minimal-tree", false, "only recurse into aliased imports (LSP shortcut)")
	flags.Uint64Var(&maxDepth, "max-depth", 0, "cap dependency-graph rounds (0 = unbounded)")
	flags.BoolVar(&test, "test", false, "parse and retain test bodies")
	flags.StringVar(&configPath, "config", "", "optional flint.yaml providing default flag values")

	return cmd
}

// errPrinted signals that diagnostics were already written to stdout via
// errors.Details, so main should exit nonzero without printing err again.
var errPrinted = fmt.Errorf("flintc: reported errors")
