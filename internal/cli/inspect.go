package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/matzehuels/treeline/pkg/document"
	"github.com/matzehuels/treeline/pkg/pipeline"
	"github.com/matzehuels/treeline/pkg/source"
)

// inspectCommand creates the inspect command, which prints how every page
// resolves to its layouts without rendering anything.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags siteFlags
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [build-dir]",
		Short: "Show the layout chain, fragments and gaps of every page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.loadOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), opts, interactive)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a single page from a list")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, opts pipeline.Options, interactive bool) error {
	site, err := c.newRunner().Discover(ctx, opts)
	if err != nil {
		return err
	}

	if !interactive {
		fmt.Fprint(w, siteTree(site).String())
		return nil
	}

	if len(site.Pages) == 0 {
		printWarning(w, "No pages found in %s", site.BuildDir)
		return nil
	}

	final, err := tea.NewProgram(NewPageListModel(site.Pages)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(PageListModel)
	if !ok || m.Selected == nil {
		printInfo(w, "No page selected")
		return nil
	}

	tree := treeprint.NewWithRoot(m.Selected.Path())
	addChain(tree, m.Selected)
	fmt.Fprint(w, tree.String())
	return nil
}

// siteTree lists every page with its layout chain, followed by every layout.
func siteTree(site *source.Site) treeprint.Tree {
	tree := treeprint.NewWithRoot(site.BuildDir)

	pages := tree.AddMetaBranch(len(site.Pages), "pages")
	for _, p := range site.Pages {
		addChain(pages.AddBranch(p.Path()), p)
	}

	layouts := tree.AddMetaBranch(site.Layouts.Len(), "layouts")
	for _, label := range site.Layouts.Labels() {
		l, _ := site.Layouts.Layout(label)
		b := layouts.AddMetaBranch(label, l.Path())
		addDetails(b, l)
	}
	return tree
}

// addChain adds the extends chain of d to branch. The root layout lists its
// include gaps and the document that fills them.
func addChain(branch treeprint.Tree, d *document.Document) {
	chain := d.Chain()
	labels := make([]string, len(chain))
	for i, doc := range chain {
		labels[i] = doc.Label()
	}
	branch.AddMetaNode("chain", strings.Join(labels, " "+iconArrow+" "))

	if names := d.FragmentNames(); len(names) > 0 {
		branch.AddMetaNode("fragments", strings.Join(names, ", "))
	}

	if len(chain) < 2 {
		return
	}
	root := chain[len(chain)-1]
	filler := chain[len(chain)-2]
	if gaps := root.DeclaredGaps(); len(gaps) > 0 {
		branch.AddMetaNode("gaps", strings.Join(gaps, ", "))
	}
	if filler != d {
		branch.AddMetaNode("filled by", filler.Label())
	}
}

func addDetails(branch treeprint.Tree, d *document.Document) {
	if parent, err := d.ParentLayout(); err == nil {
		branch.AddMetaNode("extends", parent.Label())
	}
	if gaps := d.DeclaredGaps(); len(gaps) > 0 {
		branch.AddMetaNode("gaps", strings.Join(gaps, ", "))
	}
	if names := d.FragmentNames(); len(names) > 0 {
		branch.AddMetaNode("fragments", strings.Join(names, ", "))
	}
}
