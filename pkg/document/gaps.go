package document

import (
	"golang.org/x/net/html"

	"github.com/matzehuels/treeline/pkg/directive"
)

// IncludeGap is a position in a layout's tree where content is spliced.
// The anchor is borrowed from the tree being rendered.
type IncludeGap struct {
	Name   string
	Anchor *html.Node
}

// IncludeGaps is an ordered set of include gaps keyed by name. Setting an
// existing name keeps its position and replaces its anchor.
type IncludeGaps struct {
	names []string
	gaps  map[string]*IncludeGap
}

func newIncludeGaps() *IncludeGaps {
	return &IncludeGaps{gaps: make(map[string]*IncludeGap)}
}

func (g *IncludeGaps) set(gap *IncludeGap) {
	if _, ok := g.gaps[gap.Name]; !ok {
		g.names = append(g.names, gap.Name)
	}
	g.gaps[gap.Name] = gap
}

// Get returns the gap with the given name.
func (g *IncludeGaps) Get(name string) (*IncludeGap, bool) {
	if g == nil {
		return nil, false
	}
	gap, ok := g.gaps[name]
	return gap, ok
}

// Names returns gap names in discovery order.
func (g *IncludeGaps) Names() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.names...)
}

// All returns the gaps in discovery order.
func (g *IncludeGaps) All() []*IncludeGap {
	if g == nil {
		return nil
	}
	all := make([]*IncludeGap, len(g.names))
	for i, name := range g.names {
		all[i] = g.gaps[name]
	}
	return all
}

// Len returns the number of distinct gap names.
func (g *IncludeGaps) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}

// discoverGaps walks root depth-first. A node that parses as an include gap
// is recorded and its children are not visited; every other node is descended.
func discoverGaps(root *html.Node) *IncludeGaps {
	gaps := newIncludeGaps()
	walk(root, func(n *html.Node) bool {
		d, err := directive.ParseIncludeGap(n)
		if err != nil {
			return true
		}
		gaps.set(&IncludeGap{Name: d.Value, Anchor: n})
		return false
	})
	return gaps
}
