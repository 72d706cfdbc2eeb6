package query

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const tabWidth = 8

// location is a resolved point in the query text.
type location struct {
	line      int
	column    int // 1-based, in runes
	lineStart int
	lineEnd   int
	text      string
}

// PositionDiagram renders a diagram pointing at offset:
//
//	 --> 1:3
//	  |
//	1 | # foo
//	  |   ^---
//	  |
//	  = expected string
//
// It reports false if offset is outside input or not on a rune boundary.
func PositionDiagram(input string, offset int, message string) (string, bool) {
	if !validOffset(input, offset) {
		return "", false
	}
	loc := locate(input, offset)
	return buildDiagram(loc, "^---", message), true
}

// SpanDiagram renders a diagram underlining input[start:end]. Spans that run
// past the end of their first line are cut there.
func SpanDiagram(input string, start, end int, message string) (string, bool) {
	if start > end || !validOffset(input, start) || !validOffset(input, end) {
		return "", false
	}
	loc := locate(input, start)
	if end > loc.lineEnd {
		end = loc.lineEnd
	}
	return buildDiagram(loc, underline(utf8.RuneCountInString(input[start:end])), message), true
}

func validOffset(input string, offset int) bool {
	if offset < 0 || offset > len(input) {
		return false
	}
	return offset == len(input) || utf8.RuneStart(input[offset])
}

func locate(input string, offset int) location {
	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := len(input)
	if i := strings.IndexByte(input[lineStart:], '\n'); i >= 0 {
		lineEnd = lineStart + i
	}
	return location{
		line:      strings.Count(input[:offset], "\n") + 1,
		column:    utf8.RuneCountInString(input[lineStart:offset]) + 1,
		lineStart: lineStart,
		lineEnd:   lineEnd,
		text:      strings.TrimSuffix(input[lineStart:lineEnd], "\r"),
	}
}

func underline(runes int) string {
	switch {
	case runes <= 1:
		return "^"
	case runes == 2:
		return "^^"
	default:
		return "^" + strings.Repeat("-", runes-2) + "^"
	}
}

func buildDiagram(loc location, marker, message string) string {
	maxLineNumWidth := calculateMaxLineNumWidth(loc.line)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s--> %d:%d\n", strings.Repeat(" ", maxLineNumWidth), loc.line, loc.column)
	fmt.Fprintf(&sb, "%s|\n", padding)
	fmt.Fprintf(&sb, "%*d | %s\n", maxLineNumWidth, loc.line, loc.text)
	fmt.Fprintf(&sb, "%s| %s%s\n", padding, strings.Repeat(" ", calculateVisualColumn(loc.text, loc.column)), marker)
	fmt.Fprintf(&sb, "%s|\n", padding)
	fmt.Fprintf(&sb, "%s= %s", padding, message)
	return sb.String()
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}

// calculateVisualColumn returns how many cells precede the 1-based rune
// column in line, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column <= 1 {
		return 0
	}
	visualColumn := 0
	runeIndex := 0
	for _, ch := range line {
		if runeIndex+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
		runeIndex++
	}
	// columns past the end of the line (e.g. end of input)
	return visualColumn + max(0, column-1-runeIndex)
}
