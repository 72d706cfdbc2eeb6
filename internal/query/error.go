package query

import (
	"fmt"
	"strings"
)

// GrammarError reports the furthest offset the grammar reached and the
// rules it expected there.
type GrammarError struct {
	Offset    int
	Positives []Rule
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message(), e.Offset)
}

// Message returns "expected ..." built from the positive rule descriptions,
// or "unknown parsing error" when there are none.
func (e *GrammarError) Message() string {
	descs := make([]string, 0, len(e.Positives))
	seen := make(map[string]bool, len(e.Positives))
	for _, r := range e.Positives {
		d := r.Description()
		if seen[d] {
			continue
		}
		seen[d] = true
		descs = append(descs, d)
	}

	switch len(descs) {
	case 0:
		return "unknown parsing error"
	case 1:
		return "expected " + descs[0]
	case 2:
		return "expected " + descs[0] + " or " + descs[1]
	default:
		last := len(descs) - 1
		return "expected " + strings.Join(descs[:last], ", ") + ", or " + descs[last]
	}
}

// Expected returns the first positive rule, if any.
func (e *GrammarError) Expected() (Rule, bool) {
	if len(e.Positives) == 0 {
		return 0, false
	}
	return e.Positives[0], true
}

// Render draws the caret diagram for e against the query text it came from.
// It reports false if the offset does not fall inside input.
func (e *GrammarError) Render(input string) (string, bool) {
	return PositionDiagram(input, e.Offset, e.Message())
}
