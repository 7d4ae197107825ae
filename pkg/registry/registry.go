// Package registry holds the layouts of a build, keyed by label.
//
// A [Registry] is built once from every layout document and never changes
// afterwards, so it can be shared by concurrent renders. Construction runs in
// two phases: all layouts are registered first, then each layout resolves its
// own parent against the full table. This lets layouts extend other layouts
// regardless of the order in which they were discovered.
package registry

import (
	"sort"

	"github.com/matzehuels/treeline/pkg/document"
	"github.com/matzehuels/treeline/pkg/errors"
)

// Registry maps layout labels to documents.
type Registry struct {
	layouts map[string]*document.Document
}

// New builds a registry from loaded but unresolved layout documents.
// Two layouts with the same label are rejected with DUPLICATE_LAYOUT.
func New(docs []*document.Document) (*Registry, error) {
	r := &Registry{layouts: make(map[string]*document.Document, len(docs))}

	for _, d := range docs {
		label := d.Label()
		if prev, ok := r.layouts[label]; ok {
			return nil, errors.New(errors.ErrCodeDuplicateLayout,
				"layout '%s' is defined by both '%s' and '%s'", label, prev.Path(), d.Path())
		}
		r.layouts[label] = d
	}

	for _, d := range docs {
		if err := d.Resolve(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Layout implements [document.Lookup].
func (r *Registry) Layout(label string) (*document.Document, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.layouts[label]
	return d, ok
}

// Labels returns all layout labels in sorted order.
func (r *Registry) Labels() []string {
	if r == nil {
		return nil
	}
	labels := make([]string, 0, len(r.layouts))
	for label := range r.layouts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of layouts.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.layouts)
}
