package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/pipeline"
)

// buildCommand creates the build command, which merges every page of a build
// directory into its layout and writes the result in place.
func (c *CLI) buildCommand() *cobra.Command {
	var flags siteFlags

	cmd := &cobra.Command{
		Use:   "build [build-dir]",
		Short: "Merge every page into the layout it extends",
		Long: `Merge every page into the layout it extends.

Layouts are read from the template directory inside the build directory.
Every other matching file below the build directory is a page. A page whose
first node is a <!--treeline:extends:NAME--> comment is merged into layout
NAME and overwritten with the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "number of pages rendered in parallel (default 8)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render every page without writing any file")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, w io.Writer, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s", opts.BuildDir))
	spinner.Start()
	result, err := c.newRunner().Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d pages", len(result.Pages)))

	if len(result.Pages) == 0 {
		printWarning(w, "No pages found in %s", opts.BuildDir)
		return nil
	}

	printSuccess(w, "Merged %d pages into %d layouts", len(result.Pages), result.Stats.Layouts)
	printStats(w, result.Stats.Layouts, result.Stats.Pages, result.Stats.Bytes, opts.DryRun)
	for _, p := range result.Pages {
		printFile(w, p.Path)
		if p.Indirect() {
			printDetail(w, "filled from layout %q; fragments of %q were not used", p.Source, p.Label)
		}
	}
	if opts.DryRun {
		printNextStep(w, "Write the pages", "treeline build "+opts.BuildDir)
	}
	return nil
}
