package catalog

import (
	"fmt"
	"strings"

	"github.com/akoval/topspin/internal/shared"
)

// Policy selects how normalized ranks are numbered.
type Policy int

const (
	// PolicyDefault preserves original spacing between ranks.
	PolicyDefault Policy = iota
	// PolicyCompact renumbers the sorted sequence densely from 1.
	PolicyCompact
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyCompact:
		return "compact"
	default:
		return ""
	}
}

// ParsePolicy interprets operator input as a policy. Single letters and full
// words are accepted, case-insensitively: "d"/"default" and "c"/"compact".
func ParsePolicy(input string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "d", "default":
		return PolicyDefault, nil
	case "c", "compact":
		return PolicyCompact, nil
	default:
		return PolicyDefault, fmt.Errorf("%w: unknown policy %q (expected default/compact or d/c)", shared.ErrInvalidInput, input)
	}
}
