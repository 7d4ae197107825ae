package document

import (
	"bytes"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseTree parses content as a whole document if it declares a doctype and
// as a template-context fragment otherwise. Fragment nodes are adopted by a
// synthetic document root so both shapes can be walked and rendered alike.
func parseTree(content []byte) (root *html.Node, isDocument bool, err error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, false, err
	}
	if hasDoctype(doc) {
		return doc, true, nil
	}

	context := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Template.String(),
		DataAtom: atom.Template,
	}
	nodes, err := html.ParseFragment(bytes.NewReader(content), context)
	if err != nil {
		return nil, false, err
	}

	root = &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, false, nil
}

func hasDoctype(doc *html.Node) bool {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			return true
		}
	}
	return false
}

// render serializes a whole tree. A document root renders its doctype and
// html element, a fragment root renders its children in order.
func render(root *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cloneTree returns a deep copy of n with no parent or siblings.
func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

// walk visits n and its descendants in pre-order. Children of a node are
// skipped when visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}
