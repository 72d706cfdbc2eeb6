package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseChain(t *testing.T, text string) Chain {
	t.Helper()
	chain, err := Parse(text)
	require.NoError(t, err, "parsing %q", text)
	return chain
}

func TestParse_Selectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Selector
	}{
		{"#", SectionSelector{}},
		{"# Usage", SectionSelector{Title: Literal("Usage", false, false)}},
		{"# ^Usage $", SectionSelector{Title: Literal("Usage", true, true)}},
		{`# "a | b"`, SectionSelector{Title: Literal("a | b", false, false)}},
		{`# 'tab\there'`, SectionSelector{Title: Literal("tab\there", false, false)}},
		{`# "\u{1F600}"`, SectionSelector{Title: Literal("😀", false, false)}},
		{"- *", ListItemSelector{}},
		{"1. step", ListItemSelector{Ordered: true, Text: Literal("step", false, false)}},
		{"- [x]", ListItemSelector{Task: TaskChecked}},
		{"- [ ] todo", ListItemSelector{Task: TaskUnchecked, Text: Literal("todo", false, false)}},
		{"1. [?]", ListItemSelector{Ordered: true, Task: TaskEither}},
		{"[docs]()", LinkSelector{Text: Literal("docs", false, false)}},
		{"![](example.com)", LinkSelector{Image: true, URL: Literal("example.com", false, false)}},
		{"> note", BlockQuoteSelector{Text: Literal("note", false, false)}},
		{"```rust", CodeBlockSelector{Language: Literal("rust", false, false)}},
		{"``` main", CodeBlockSelector{Contents: Literal("main", false, false)}},
		{"+++toml", FrontMatterSelector{Variant: Literal("toml", false, false)}},
		{"+++ title", FrontMatterSelector{Text: Literal("title", false, false)}},
		{"</> div", HTMLSelector{HTML: Literal("div", false, false)}},
		{"P: hello", ParagraphSelector{Text: Literal("hello", false, false)}},
		{":-: name", TableSelector{Column: Literal("name", false, false)}},
		{":-: * :-: bob", TableSelector{Row: Literal("bob", false, false)}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			chain := mustParseChain(t, tt.text)
			require.Len(t, chain, 1)
			assert.Equal(t, tt.want, chain[0])
		})
	}
}

func TestParse_Regex(t *testing.T) {
	t.Parallel()

	chain := mustParseChain(t, `# ^/v\d+\/x/$`)
	sel := chain[0].(SectionSelector)
	require.Equal(t, MatchRegex, sel.Title.Kind)
	assert.Equal(t, `v\d+/x`, sel.Title.Text)
	assert.True(t, sel.Title.Matches("v12/x"))
	assert.False(t, sel.Title.Matches("av12/x"))
	assert.False(t, sel.Title.Matches("v12/xy"))
}

func TestParse_Replacement(t *testing.T) {
	t.Parallel()

	chain := mustParseChain(t, `[!s/(\w+) docs/$1 guide/](!s/http:/https:/)`)
	sel := chain[0].(LinkSelector)

	require.NotNil(t, sel.Text.Replacement)
	out, ok := sel.Text.Replace("the api docs here")
	assert.True(t, ok)
	assert.Equal(t, "the api guide here", out)

	require.NotNil(t, sel.URL.Replacement)
	out, ok = sel.URL.Replace("http://x.io")
	assert.True(t, ok)
	assert.Equal(t, "https://x.io", out)
}

func TestParse_Chain(t *testing.T) {
	t.Parallel()

	chain := mustParseChain(t, "# second | - *")
	assert.Equal(t, Chain{
		SectionSelector{Title: Literal("second", false, false)},
		ListItemSelector{},
	}, chain)
	assert.Equal(t, `# "second" | -`, chain.String())
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()

	text := "# a | - [x] /b+/ | [c](d) | :-: e :-: f"
	first := mustParseChain(t, text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.String(), mustParseChain(t, text).String())
	}
}
