// Package directive parses treeline directive comments.
//
// A directive is an HTML comment of the form
//
//	<!-- treeline:<scenario>:<value> -->
//
// where scenario is one of [Extends], [Includes] or [Contents] and value is
// the remainder of the line. Only the first match in a comment counts, and
// anything after the value on the same line is part of the value.
//
// Parsing failures come in two flavours. A comment that does not look like a
// directive at all fails with NOT_TREELINE_COMMENT; a comment that has the
// directive shape but names an unknown scenario fails with INVALID_SCENARIO.
// [Detect] exposes the same distinction as a [Status] for callers that treat
// both as "no directive" but still want to report the difference.
package directive

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/treeline/pkg/errors"
)

// Scenario is the kind of a directive.
type Scenario string

const (
	// Extends names the layout a document is rendered into.
	Extends Scenario = "extends"

	// Includes marks an include gap inside a layout.
	Includes Scenario = "includes"

	// Contents is accepted by the parser but has no behavior attached.
	Contents Scenario = "contents"
)

// Scenarios lists every scenario the parser accepts.
var Scenarios = []Scenario{Extends, Includes, Contents}

// Valid reports whether s is a recognized scenario.
func (s Scenario) Valid() bool {
	for _, known := range Scenarios {
		if s == known {
			return true
		}
	}
	return false
}

func (s Scenario) String() string { return string(s) }

// Directive is a parsed treeline comment.
type Directive struct {
	Scenario Scenario
	Value    string
}

func (d Directive) String() string {
	return "treeline:" + string(d.Scenario) + ":" + d.Value
}

var directiveRe = regexp.MustCompile(`treeline:(\w+):(.+)`)

// Parse parses the raw text of a comment node.
func Parse(text string) (Directive, error) {
	m := directiveRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Directive{}, errors.New(errors.ErrCodeNotTreelineComment, "comment is not a treeline comment")
	}

	scenario := Scenario(m[1])
	if !scenario.Valid() {
		return Directive{}, errors.New(errors.ErrCodeInvalidScenario, "'%s' is not a valid treeline comment scenario", m[1])
	}

	return Directive{Scenario: scenario, Value: m[2]}, nil
}

// ParseNode parses n, which must be a comment node.
func ParseNode(n *html.Node) (Directive, error) {
	if n == nil || n.Type != html.CommentNode {
		return Directive{}, errors.New(errors.ErrCodeNotAComment, "node is not a comment")
	}
	return Parse(n.Data)
}

// ParseIncludeGap parses n as an include gap comment. Any directive other
// than [Includes] fails with INVALID_SCENARIO.
func ParseIncludeGap(n *html.Node) (Directive, error) {
	d, err := ParseNode(n)
	if err != nil {
		return Directive{}, err
	}
	if d.Scenario != Includes {
		return Directive{}, errors.New(errors.ErrCodeInvalidScenario, "'%s' is not an include gap scenario", d.Scenario)
	}
	return d, nil
}
