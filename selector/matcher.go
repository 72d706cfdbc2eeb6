package selector

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// MatcherKind is the kind of text test a Matcher performs.
type MatcherKind int

const (
	MatchAny     MatcherKind = iota // no matcher, or "*"
	MatchLiteral                    // case-insensitive substring
	MatchRegex                      // RE2 pattern search
)

func (k MatcherKind) String() string {
	switch k {
	case MatchAny:
		return "any"
	case MatchLiteral:
		return "literal"
	case MatchRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// Matcher tests a piece of node text. The zero value matches everything.
type Matcher struct {
	Kind MatcherKind

	// Text is the literal as written, after unescaping.
	Text        string
	AnchorStart bool
	AnchorEnd   bool

	// Regex already includes the anchors.
	Regex *regexp.Regexp
	// Replacement, if set, rewrites the first match. Only link and image
	// selectors accept it.
	Replacement *string
}

// Literal returns a matcher for the case-insensitive substring text.
func Literal(text string, anchorStart, anchorEnd bool) Matcher {
	return Matcher{Kind: MatchLiteral, Text: text, AnchorStart: anchorStart, AnchorEnd: anchorEnd}
}

// Regex compiles pattern into a matcher, wrapping it in the requested
// anchors.
func Regex(pattern string, anchorStart, anchorEnd bool) (Matcher, error) {
	expr := pattern
	if anchorStart {
		expr = "^(?:" + expr + ")"
	}
	if anchorEnd {
		expr = "(?:" + expr + ")$"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Matcher{}, err
	}
	return Matcher{Kind: MatchRegex, Text: pattern, AnchorStart: anchorStart, AnchorEnd: anchorEnd, Regex: re}, nil
}

// Matches reports whether s satisfies m.
func (m Matcher) Matches(s string) bool {
	switch m.Kind {
	case MatchLiteral:
		fold := cases.Fold()
		haystack, needle := fold.String(s), fold.String(m.Text)
		switch {
		case m.AnchorStart && m.AnchorEnd:
			return haystack == needle
		case m.AnchorStart:
			return strings.HasPrefix(haystack, needle)
		case m.AnchorEnd:
			return strings.HasSuffix(haystack, needle)
		default:
			return strings.Contains(haystack, needle)
		}
	case MatchRegex:
		return m.Regex.MatchString(s)
	default:
		return true
	}
}

// Replace applies the replacement template to the first match in s. It
// reports false if m has no replacement or does not match.
func (m Matcher) Replace(s string) (string, bool) {
	if m.Kind != MatchRegex || m.Replacement == nil {
		return s, false
	}
	loc := m.Regex.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, false
	}
	expanded := m.Regex.ExpandString(nil, *m.Replacement, s, loc)
	return s[:loc[0]] + string(expanded) + s[loc[1]:], true
}

// IsAny reports whether m accepts every input.
func (m Matcher) IsAny() bool {
	return m.Kind == MatchAny
}

func (m Matcher) String() string {
	switch m.Kind {
	case MatchLiteral:
		s := fmt.Sprintf("%q", m.Text)
		if m.AnchorStart {
			s = "^" + s
		}
		if m.AnchorEnd {
			s += "$"
		}
		return s
	case MatchRegex:
		s := "/" + m.Text + "/"
		if m.Replacement != nil {
			s = "!s" + s + *m.Replacement + "/"
		}
		if m.AnchorStart {
			s = "^" + s
		}
		if m.AnchorEnd {
			s += "$"
		}
		return s
	default:
		return "*"
	}
}
