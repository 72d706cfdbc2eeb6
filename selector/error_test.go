package selector

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arfbllh/mdq/internal/query"
)

var suggestionLines = []string{
	"Use # for sections",
	"Use - for list items",
	"Use [] for links",
	"Use > for blockquotes",
	"Use ``` for code blocks",
	"Use +++ for front matter",
	"Use </> for HTML",
	"Use P: for paragraphs",
	"Use :-: for tables",
	"Use | to separate multiple selectors",
}

func parseError(t *testing.T, text string) *ParseError {
	t.Helper()
	_, err := Parse(text)
	require.Error(t, err, "query %q should not parse", text)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	return perr
}

func TestRender_Baseline(t *testing.T) {
	t.Parallel()

	text := "$ ! invalid query string ! $"
	perr := parseError(t, text)
	assert.Equal(t, " --> 1:1\n"+
		"  |\n"+
		"1 | $ ! invalid query string ! $\n"+
		"  | ^---\n"+
		"  |\n"+
		"  = expected valid query", perr.Render(text))
}

func TestRenderWithSuggestions_Catalog(t *testing.T) {
	t.Parallel()

	queries := []string{
		"$ ! invalid query string ! $",
		"",
		"!invalid", "invalid#", "invalid-", "invalid[]", "invalid>",
		"invalid```", "invalid+++", "invalid</>", "invalidP:", "invalid:-:",
		"invalid|", "invalid*", "invalid^", "invalid$", "invalid?", "invalid+",
		"@invalid", "&invalid", "%invalid", "=invalid", "~invalid",
		"123invalid", "invalid123", "abc#def", "abc-123", "abc[123]",
		"abc>def", "abc```def", "abc+++def", "abc</>def", "xyz!abc",
		"abc@xyz", "xyz#abc", "abc$xyz", "xyz%abc", "abc^xyz", "xyz&abc",
		"abc*xyz", "xyz(abc", "abc)xyz", "xyz[abc", "abc]xyz", "xyz{abc",
		"abc}xyz", `xyz\abc`, "abc/xyz", "xyz|abc", "abc~xyz", "xyz`abc",
		"abc'xyz", `xyz"abc`, "abc;xyz", "xyz:abc", "abc,xyz", "xyz.abc",
		"abc<xyz", "xyz>abc", "abc=xyz", "xyz+abc", "abc-xyz", "xyz_abc",
	}

	for _, text := range queries {
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			perr := parseError(t, text)
			out := perr.RenderWithSuggestions(text)

			assert.True(t, strings.HasPrefix(out, perr.Render(text)))
			assert.Contains(t, out, "expected valid query")
			assert.Contains(t, out, "\n\nSuggestions:")
			for _, line := range suggestionLines {
				assert.Contains(t, out, "\n  • "+line)
			}
			assert.NotContains(t, out, "Expected: `")
		})
	}
}

func TestRenderWithSuggestions_CatalogIsFixed(t *testing.T) {
	t.Parallel()

	a := parseError(t, "!invalid").RenderWithSuggestions("!invalid")
	b := parseError(t, "xyz_abc").RenderWithSuggestions("xyz_abc")
	tail := func(s string) string { return s[strings.Index(s, "Suggestions:"):] }
	assert.Equal(t, tail(a), tail(b))
	assert.Equal(t, 10, strings.Count(tail(a), "\n  • "))
}

func TestRenderWithSuggestions_Expected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"# foo | ", "Expected: `selector`"},
		{"- [ab]", "Expected: `]`"},
		{"#foo", "Expected: `space`"},
		{"   ", "Expected: `selector`"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			perr := parseError(t, tt.text)
			out := perr.RenderWithSuggestions(tt.text)
			assert.Equal(t, perr.Render(tt.text)+"\n\n"+tt.want, out)
			assert.NotContains(t, out, "Suggestions:")
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		span    DetachedSpan
		message string
	}{
		{"unknown task state", "- [y] foo", DetachedSpan{2, 5}, "invalid task state [y]: expected [ ], [x] or [?]"},
		{"bad regex", "# /a(/", DetachedSpan{2, 6}, "invalid regex: "},
		{"replacement outside link", "# !s/a/b/", DetachedSpan{2, 9}, "regex replacement is only supported in link and image selectors"},
		{"bad unicode", `# "\u{110000}"`, DetachedSpan{3, 13}, "invalid unicode sequence: 110000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			perr := parseError(t, tt.text)
			assert.False(t, perr.IsGrammar())
			assert.Equal(t, tt.span, perr.Span())
			assert.True(t, strings.HasPrefix(perr.Message(), tt.message), perr.Message())

			rendered := perr.Render(tt.text)
			assert.Contains(t, rendered, " --> 1:")
			assert.Contains(t, rendered, "  = "+perr.Message())

			enhanced := perr.RenderWithSuggestions(tt.text)
			assert.Equal(t, rendered+"\n\n"+suggestions, enhanced)
		})
	}
}

func TestSemanticError_Diagram(t *testing.T) {
	t.Parallel()

	text := "- [y] foo"
	perr := parseError(t, text)
	assert.Equal(t, " --> 1:3\n"+
		"  |\n"+
		"1 | - [y] foo\n"+
		"  |   ^-^\n"+
		"  |\n"+
		"  = invalid task state [y]: expected [ ], [x] or [?]", perr.Render(text))
}

func TestRender_StaleSpan(t *testing.T) {
	t.Parallel()

	perr := parseError(t, "- [y] foo")

	// rendered against text that the span no longer fits
	assert.Equal(t, perr.Message(), perr.Render("- ["))
	assert.Equal(t, perr.Message(), perr.RenderWithSuggestions("- ["))

	gerr := parseError(t, "# foo | ")
	assert.Equal(t, gerr.Message(), gerr.Render("#"))
}

func TestParseError_Unwrap(t *testing.T) {
	t.Parallel()

	perr := parseError(t, "invalid")
	var gerr *query.GrammarError
	require.ErrorAs(t, perr, &gerr)
	assert.Equal(t, []query.Rule{query.RuleTop}, gerr.Positives)
	assert.Contains(t, perr.Error(), "expected valid query")

	sem := parseError(t, "- [y]")
	assert.Nil(t, sem.Unwrap())
}

func TestDetachedSpan_Comparable(t *testing.T) {
	t.Parallel()

	seen := map[DetachedSpan]int{}
	seen[DetachedSpan{1, 2}]++
	seen[DetachedSpan{1, 2}]++
	seen[DetachedSpan{2, 3}]++
	assert.Equal(t, 2, seen[DetachedSpan{1, 2}])
	assert.Len(t, seen, 2)
}
