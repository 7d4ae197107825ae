package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Describe returns a short human-readable description of n for debug output.
func Describe(n *html.Node) string {
	if n == nil {
		return "None"
	}
	switch n.Type {
	case html.CommentNode:
		return fmt.Sprintf("Comment ('%s')", n.Data)
	case html.ElementNode:
		return fmt.Sprintf("Element (%s)", strings.ToLower(n.Data))
	case html.DoctypeNode:
		return fmt.Sprintf("Doctype ('%s')", n.Data)
	case html.TextNode:
		return fmt.Sprintf("Text (%d bytes)", len(n.Data))
	default:
		return fmt.Sprintf("NodeType %d", n.Type)
	}
}
