package query

import (
	"fmt"
	"strings"
)

// Pair is a matched rule and the byte range [Start, End) of the input it
// covers.
type Pair struct {
	Rule     Rule
	Start    int
	End      int
	Children []Pair
}

// Text returns the slice of input covered by p.
func (p Pair) Text(input string) string {
	return input[p.Start:p.End]
}

// Child returns the first direct child matching r.
func (p Pair) Child(r Rule) (Pair, bool) {
	for _, c := range p.Children {
		if c.Rule == r {
			return c, true
		}
	}
	return Pair{}, false
}

// ChildrenOf returns all direct children matching r, in order.
func (p Pair) ChildrenOf(r Rule) []Pair {
	var out []Pair
	for _, c := range p.Children {
		if c.Rule == r {
			out = append(out, c)
		}
	}
	return out
}

func (p Pair) String() string {
	var sb strings.Builder
	p.write(&sb, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (p Pair) write(sb *strings.Builder, depth int) {
	fmt.Fprintf(sb, "%s%s(%d..%d)\n", strings.Repeat("  ", depth), p.Rule, p.Start, p.End)
	for _, c := range p.Children {
		c.write(sb, depth+1)
	}
}
