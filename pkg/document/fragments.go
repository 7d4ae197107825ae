package document

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// ContentsAttr marks a top-level template element as a content fragment.
	ContentsAttr = "data-treeline-contents"

	// DefaultFragment is the name of a fragment whose marker attribute is empty.
	DefaultFragment = "default"
)

// ContentFragment is a named block of markup a document supplies to fill the
// include gap of the same name.
type ContentFragment struct {
	Name     string
	Template *html.Node // the template element; its children are the content
}

// spliceAfter inserts a copy of the fragment's content right after anchor.
// The anchor stays in place.
func (f *ContentFragment) spliceAfter(anchor *html.Node) int {
	parent, next := anchor.Parent, anchor.NextSibling
	n := 0
	for c := f.Template.FirstChild; c != nil; c = c.NextSibling {
		parent.InsertBefore(cloneTree(c), next)
		n++
	}
	return n
}

// scanFragments collects template elements carrying ContentsAttr among the
// direct children of root. A later fragment replaces an earlier one with the
// same name.
func scanFragments(root *html.Node) map[string]*ContentFragment {
	fragments := make(map[string]*ContentFragment)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Template {
			continue
		}
		name, ok := contentsName(c)
		if !ok {
			continue
		}
		fragments[name] = &ContentFragment{Name: name, Template: c}
	}
	return fragments
}

func contentsName(n *html.Node) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == ContentsAttr {
			if a.Val == "" {
				return DefaultFragment, true
			}
			return a.Val, true
		}
	}
	return "", false
}
