// Package hierarchy draws the extends relationships of a site as a graph.
//
// Layouts appear as boxes and pages as notes. Every document that extends a
// layout gets an edge pointing at that layout, so the root layouts end up at
// the bottom of the drawing.
package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeline/pkg/document"
	"github.com/matzehuels/treeline/pkg/source"
)

// Options configures hierarchy rendering.
type Options struct {
	// Detailed adds include gaps and content fragment names to node labels.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts the site's layouts and pages to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(site *source.Site, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph treeline {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	addEdge := func(from *document.Document, fromID string) {
		parent, err := from.ParentLayout()
		if err != nil {
			return
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", fromID, layoutID(parent)))
	}

	for _, label := range site.Layouts.Labels() {
		l, _ := site.Layouts.Layout(label)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(l, opts.Detailed)),
			"shape=box", "style=filled", "fillcolor=lightgrey",
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", layoutID(l), strings.Join(attrs, ", "))
		addEdge(l, layoutID(l))
	}

	for _, p := range site.Pages {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(p, opts.Detailed)),
			"shape=note", "style=filled", "fillcolor=white",
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", pageID(p), strings.Join(attrs, ", "))
		addEdge(p, pageID(p))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func layoutID(d *document.Document) string { return "layout:" + d.Label() }

func pageID(d *document.Document) string { return "page:" + d.Path() }

func fmtLabel(d *document.Document, detailed bool) string {
	if !detailed {
		return d.Label()
	}

	parts := []string{d.Label()}
	if gaps := d.DeclaredGaps(); len(gaps) > 0 {
		parts = append(parts, "gaps: "+strings.Join(gaps, ", "))
	}
	if names := d.FragmentNames(); len(names) > 0 {
		parts = append(parts, "fragments: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the drawing scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
