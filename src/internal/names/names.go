package names

import (
	"errors"
	"strings"
)

// ErrContributorShape is returned when a contributor carries neither a full
// name nor a complete first/last pair.
var ErrContributorShape = errors.New("names: contributor needs full_name or first_name and last_name")

// Kind tags how a contributor name was supplied.
type Kind int

const (
	// Discrete names carry separate first and last parts.
	Discrete Kind = iota + 1
	// Composed names only carry a single full-name string.
	Composed
)

func (k Kind) String() string {
	switch k {
	case Discrete:
		return "discrete"
	case Composed:
		return "composed"
	default:
		return "invalid"
	}
}

// Name is a contributor name in one of two shapes. The zero value is invalid;
// build one with Parse.
type Name struct {
	kind  Kind
	full  string
	first string
	last  string
}

// Parse builds a Name from the raw record fields. A complete first/last pair
// wins for file-as purposes even when a full name is also present; the full
// name is still used for display in that case.
func Parse(full, first, last string) (Name, error) {
	full = strings.TrimSpace(full)
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first != "" && last != "" {
		return Name{kind: Discrete, full: full, first: first, last: last}, nil
	}
	if full != "" {
		return Name{kind: Composed, full: full}, nil
	}
	return Name{}, ErrContributorShape
}

// Kind reports the shape the name was parsed from.
func (n Name) Kind() Kind { return n.kind }

// Display returns the name as it should be shown: the full name when one was
// given, else "First Last".
func (n Name) Display() string {
	if n.full != "" {
		return n.full
	}
	return n.first + " " + n.last
}

// FileAs renders "Last, First". Composed names are split on whitespace: the
// first token is the first name and the second token the last name, any
// further tokens are ignored. Single-word names are returned unchanged.
func (n Name) FileAs() string {
	if n.kind == Discrete {
		return n.last + ", " + n.first
	}
	tokens := strings.Fields(n.full)
	if len(tokens) < 2 {
		return strings.TrimSpace(n.full)
	}
	return tokens[1] + ", " + tokens[0]
}

// Heuristic reports whether FileAs had to guess the name parts.
func (n Name) Heuristic() bool { return n.kind == Composed }
