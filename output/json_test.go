package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ListItems(t *testing.T) {
	t.Parallel()

	nodes, ctx := selectNodes(t, sampleDoc, "# second | - *")
	var buf bytes.Buffer
	require.NoError(t, JSONWriter{}.Write(&buf, nodes, ctx))

	decoded, err := oj.ParseString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"items": []any{
			map[string]any{"list_item": map[string]any{"item": []any{map[string]any{"paragraph": "foo"}}}},
			map[string]any{"list_item": map[string]any{"item": []any{map[string]any{"paragraph": "bar"}}}},
		},
	}, decoded)
}

func TestJSON_Definitions(t *testing.T) {
	t.Parallel()

	nodes, ctx := selectNodes(t, linkDoc, "P: see")
	value := JSONWriter{}.Value(nodes, ctx)

	assert.Equal(t, []any{map[string]any{"paragraph": "See [docs][d] and [site]."}}, value["items"])
	assert.Equal(t, map[string]any{
		"d":    map[string]any{"url": "http://docs.io", "title": "Docs"},
		"site": map[string]any{"url": "http://site.io"},
	}, value["links"])
	assert.NotContains(t, value, "footnotes")

	nodes, ctx = selectNodes(t, "text[^n]\n\n[^n]: the note\n", "P: text")
	value = JSONWriter{}.Value(nodes, ctx)
	assert.Equal(t, map[string]any{"n": []any{map[string]any{"paragraph": "the note"}}}, value["footnotes"])
	assert.NotContains(t, value, "links")
}

func TestJSON_FrontMatterData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		path string
		want []any
	}{
		{"toml", "+++\ntitle = 'doc'\ncount = 3\n+++\n", "$.items[0].front_matter.data.title", []any{"doc"}},
		{"toml number", "+++\ntitle = 'doc'\ncount = 3\n+++\n", "$.items[0].front_matter.data.count", []any{int64(3)}},
		{"yaml list", "---\ntags: [a, b]\n---\n", "$.items[0].front_matter.data.tags[*]", []any{"a", "b"}},
		{"variant", "---\ntags: [a, b]\n---\n", "$.items[0].front_matter.variant", []any{"yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			nodes, ctx := selectNodes(t, tt.src, "+++")
			got, err := FilterJSON(JSONWriter{}.Value(nodes, ctx), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSON_MalformedFrontMatterKeepsBody(t *testing.T) {
	t.Parallel()

	nodes, ctx := selectNodes(t, "+++\nnot = = toml\n+++\n", "+++")
	got, err := FilterJSON(JSONWriter{}.Value(nodes, ctx), "$.items[0].front_matter")
	require.NoError(t, err)
	require.Len(t, got, 1)
	fm := got[0].(map[string]any)
	assert.Equal(t, "not = = toml", fm["body"])
	assert.NotContains(t, fm, "data")
}

func TestJSON_Blocks(t *testing.T) {
	t.Parallel()

	src := "```go\nx := 1\n```\n\n| a | b |\n|---|:-:|\n| 1 | 2 |\n\n- [x] done\n"
	value := JSONWriter{}.Value(nil, nil)
	assert.Equal(t, []any{}, value["items"])

	for _, tc := range []struct {
		query string
		path  string
		want  []any
	}{
		{"```", "$.items[0].code_block.language", []any{"go"}},
		{"```", "$.items[0].code_block.code", []any{"x := 1\n"}},
		{":-: *", "$.items[0].table.alignments[*]", []any{"none", "center"}},
		{":-: *", "$.items[0].table.rows[1][*]", []any{"1", "2"}},
		{"- *", "$.items[0].list_item.checked", []any{true}},
	} {
		nodes, ctx := selectNodes(t, src, tc.query)
		got, err := FilterJSON(JSONWriter{}.Value(nodes, ctx), tc.path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s", tc.query, tc.path)
	}
}

func TestFilterJSON_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := FilterJSON(map[string]any{}, "$.items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonpath")
}

func TestWriteJSON_SortedKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]any{"b": 1, "a": []any{"x"}}))
	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`))
}
