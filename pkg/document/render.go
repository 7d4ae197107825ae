package document

import (
	"slices"
	"strings"

	"github.com/matzehuels/treeline/pkg/errors"
)

// Render merges a page into its root layout. Call it on a page with an
// empty stack.
//
// While the current document has a parent layout it pushes itself onto
// stack and recurses into the parent. At the root layout the last pushed
// document becomes the content source; with an empty stack the root is its
// own content source. Every include gap of the root layout must have a
// content fragment of the same name on the content source. The merged
// markup becomes the content source's output, and the content source is
// returned.
func (d *Document) Render(stack []*Document) (*Document, error) {
	if slices.Contains(stack, d) {
		return nil, errors.New(errors.ErrCodeLayoutCycle,
			"layout '%s' extends itself through %s", d.Label(), chainLabels(append(slices.Clip(stack), d)))
	}
	if d.parent != nil {
		return d.parent.Render(append(slices.Clip(stack), d))
	}

	source := d
	if n := len(stack); n > 0 {
		source = stack[n-1]
	}

	tree := cloneTree(d.tree)
	gaps := discoverGaps(tree)

	for _, gap := range gaps.All() {
		fragment, ok := source.fragments[gap.Name]
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingContentFragment,
				"'%s' has no content fragment for include gap '%s' of layout '%s'", source.Label(), gap.Name, d.Label())
		}
		n := fragment.spliceAfter(gap.Anchor)
		d.logger.Debug("filled include gap", "layout", d.Label(), "source", source.Label(), "gap", gap.Name, "nodes", n)
	}

	out, err := render(tree)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize '%s' into '%s'", source.Label(), d.Label())
	}

	d.mu.Lock()
	d.gaps = gaps
	d.mu.Unlock()

	source.setOutput(out)
	return source, nil
}

func chainLabels(docs []*Document) string {
	labels := make([]string, len(docs))
	for i, doc := range docs {
		labels[i] = doc.Label()
	}
	return strings.Join(labels, " -> ")
}
