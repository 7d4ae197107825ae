package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/hierarchy"
	"github.com/matzehuels/treeline/pkg/pipeline"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string // output format: "dot" or "svg"
	output   string // output file path; stdout when empty
	detailed bool   // add gaps and fragments to node labels
}

// graphCommand creates the graph command, which draws the extends hierarchy
// of a build directory.
func (c *CLI) graphCommand() *cobra.Command {
	var flags siteFlags
	opts := graphOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "graph [build-dir]",
		Short: "Draw which pages and layouts extend which layouts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateGraphFormat(opts.format); err != nil {
				return err
			}
			popts, err := c.loadOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), popts, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show include gaps and content fragments")

	return cmd
}

func validateGraphFormat(f string) error {
	if f != formatDOT && f != formatSVG {
		return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", f)
	}
	return nil
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, popts pipeline.Options, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	site, err := c.newRunner().Discover(ctx, popts)
	if err != nil {
		return err
	}

	data := []byte(hierarchy.ToDOT(site, hierarchy.Options{Detailed: opts.detailed}))
	if opts.format == formatSVG {
		if data, err = hierarchy.RenderSVG(ctx, string(data)); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := afero.WriteFile(c.Fs, opts.output, data, 0644); err != nil {
		return err
	}
	logger.Debug("wrote hierarchy", "path", opts.output, "format", opts.format, "bytes", len(data))
	printSuccess(w, "Drew %d layouts and %d pages", site.Layouts.Len(), len(site.Pages))
	printKeyValue(w, "format", opts.format)
	printFile(w, opts.output)
	return nil
}
