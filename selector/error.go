package selector

import (
	"fmt"

	"github.com/arfbllh/mdq/internal/query"
)

// DetachedSpan is a byte range of a query string that does not hold on to
// the string itself.
type DetachedSpan struct {
	Start int
	End   int
}

// ParseError is returned by Parse. It is either a grammar error, carrying
// the rules expected at the failure offset, or a semantic error with its
// own span and message. Rendering needs the query text the error came from.
type ParseError struct {
	grammar *query.GrammarError
	span    DetachedSpan
	message string
}

func grammarError(err *query.GrammarError) *ParseError {
	return &ParseError{
		grammar: err,
		span:    DetachedSpan{Start: err.Offset, End: err.Offset},
		message: err.Message(),
	}
}

func semanticError(start, end int, format string, args ...any) *ParseError {
	return &ParseError{
		span:    DetachedSpan{Start: start, End: end},
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ParseError) Error() string {
	if e.grammar != nil {
		return fmt.Sprintf("invalid query at offset %d: %s", e.span.Start, e.message)
	}
	return fmt.Sprintf("invalid query at %d..%d: %s", e.span.Start, e.span.End, e.message)
}

func (e *ParseError) Unwrap() error {
	if e.grammar == nil {
		return nil
	}
	return e.grammar
}

// Span is the failing range. Grammar errors have an empty span at the
// failure offset.
func (e *ParseError) Span() DetachedSpan { return e.span }

// Message is the diagnostic without any diagram.
func (e *ParseError) Message() string { return e.message }

// IsGrammar reports whether the query failed to match the grammar, as
// opposed to failing validation afterwards.
func (e *ParseError) IsGrammar() bool { return e.grammar != nil }

// Render draws the caret diagram for the error against text. If the span
// does not resolve against text, the bare message is returned.
func (e *ParseError) Render(text string) string {
	diagram, ok := e.diagram(text)
	if !ok {
		return e.message
	}
	return diagram
}

// RenderWithSuggestions renders like Render, then names the expected token
// when one can be identified, or appends the syntax cheat sheet when not.
func (e *ParseError) RenderWithSuggestions(text string) string {
	diagram, ok := e.diagram(text)
	if !ok {
		return e.message
	}
	if e.grammar != nil {
		if rule, ok := e.grammar.Expected(); ok && rule != query.RuleTop {
			return diagram + "\n\nExpected: `" + rule.Description() + "`"
		}
	}
	return diagram + "\n\n" + suggestions
}

func (e *ParseError) diagram(text string) (string, bool) {
	if e.grammar != nil {
		return query.PositionDiagram(text, e.span.Start, e.message)
	}
	return query.SpanDiagram(text, e.span.Start, e.span.End, e.message)
}

const suggestions = "Suggestions:" +
	"\n  • Use # for sections (e.g., '# My Section')" +
	"\n  • Use - for list items (e.g., '- List item')" +
	"\n  • Use [] for links (e.g., '[text](url)')" +
	"\n  • Use > for blockquotes (e.g., '> Quote text')" +
	"\n  • Use ``` for code blocks (e.g., '```rust code')" +
	"\n  • Use +++ for front matter (e.g., '+++ toml')" +
	"\n  • Use </> for HTML (e.g., '</> <div>')" +
	"\n  • Use P: for paragraphs (e.g., 'P: paragraph text')" +
	"\n  • Use :-: for tables (e.g., ':-: column | row')" +
	"\n  • Use | to separate multiple selectors (e.g., '# Section | - List item')"

// MatchError reports a chain that cannot be applied at all, as opposed to
// one that simply selects nothing.
type MatchError struct {
	Reason string
}

func (e *MatchError) Error() string {
	return "cannot apply selector chain: " + e.Reason
}
