package directive

import (
	"golang.org/x/net/html"

	"github.com/matzehuels/treeline/pkg/errors"
)

// Status classifies the outcome of [Detect].
type Status int

const (
	// Absent means the node carries no directive: it is missing, is not a
	// comment, or is a comment without the directive shape.
	Absent Status = iota

	// Malformed means the comment has the directive shape but an unknown scenario.
	Malformed

	// Found means a valid directive was parsed.
	Found
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Malformed:
		return "malformed"
	case Found:
		return "found"
	default:
		return "unknown"
	}
}

// Detection is the result of looking for a directive on a single node.
type Detection struct {
	Status    Status
	Directive Directive // set when Status is Found
	Err       error     // parse error when Status is Malformed
}

// Ok reports whether a directive was found.
func (d Detection) Ok() bool { return d.Status == Found }

// Detect looks for a directive on n without failing.
func Detect(n *html.Node) Detection {
	d, err := ParseNode(n)
	switch {
	case err == nil:
		return Detection{Status: Found, Directive: d}
	case errors.Is(err, errors.ErrCodeInvalidScenario):
		return Detection{Status: Malformed, Err: err}
	default:
		return Detection{Status: Absent}
	}
}
