package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/run"
)

const sampleDoc = `# Title

- one
- two

> quoted
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newRepl(t *testing.T, input string) (*Repl, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	state := NewState(run.Options{Output: output.FormatMarkdown})
	return New(strings.NewReader(input), &out, state, nil, zaptest.NewLogger(t)), &out
}

func TestRun_Script(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "- one\n\n.exit\n- two\n")
	require.NoError(t, r.LoadContent(sampleDoc))
	require.NoError(t, r.Run())

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "mdq REPL - Interactive Markdown Query Tool\n"))
	assert.Contains(t, got, "mdq> - one\n")
	assert.NotContains(t, got, "- two", "input after .exit is not read")
	assert.True(t, strings.HasSuffix(got, "Goodbye!\n"))
	assert.Equal(t, []string{"- one", ".exit"}, r.History())
}

func TestRun_EndOfInput(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, ".info")
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "No document loaded\n")
	assert.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
}

func TestExecute_Query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"match", "> quoted", "> quoted\n"},
		{"no match", "# missing", "No elements matched the selector\n"},
		{"parse error", "- [y] foo", "Error parsing selector:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, out := newRepl(t, "")
			require.NoError(t, r.LoadContent(sampleDoc))
			assert.True(t, r.Execute(ParseCommand(tt.query)))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestExecute_ParseErrorHasSuggestions(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "")
	require.NoError(t, r.LoadContent(sampleDoc))
	r.Execute(ParseCommand("!invalid"))
	assert.Contains(t, out.String(), " --> 1:1")
	assert.Contains(t, out.String(), "Suggestions:")
}

func TestExecute_QueryWithoutDocument(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "")
	r.Execute(ParseCommand("# Title"))
	assert.Equal(t, "Error: No document loaded. Use .load <file> first.\n", out.String())
}

func TestExecute_Format(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "")
	require.NoError(t, r.LoadContent(sampleDoc))
	r.Execute(ParseCommand(".format json"))
	assert.Equal(t, "Output format set to: json\n", out.String())

	out.Reset()
	r.Execute(ParseCommand("> quoted"))
	assert.Contains(t, out.String(), `"items"`)
	assert.Contains(t, out.String(), `"block_quote"`)
}

func TestExecute_LoadReloadClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# A\n"), 0o644))

	r, out := newRepl(t, "")
	r.Execute(ParseCommand(".load " + path))
	assert.Contains(t, out.String(), "Document loaded successfully: "+path+"\n")

	require.NoError(t, os.WriteFile(path, []byte("# A\n\n# B\n"), 0o644))
	out.Reset()
	r.Execute(ParseCommand(".reload"))
	assert.Contains(t, out.String(), "Document reloaded successfully\n")

	out.Reset()
	r.Execute(ParseCommand(".info"))
	assert.Contains(t, out.String(), "Document loaded with 2 root elements\n")

	out.Reset()
	r.Execute(ParseCommand(".clear"))
	r.Execute(ParseCommand(".info"))
	assert.Equal(t, "Document cleared\nNo document loaded\n", out.String())

	out.Reset()
	r.Execute(ParseCommand(".load " + filepath.Join(t.TempDir(), "missing.md")))
	assert.Contains(t, out.String(), "Error loading document: ")

	out.Reset()
	r.Execute(ParseCommand(".reload"))
	assert.Contains(t, out.String(), "Error reloading document: ")
}

func TestExecute_Variables(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "")
	r.Execute(ParseCommand(".vars"))
	r.Execute(ParseCommand(".get x"))
	r.Execute(ParseCommand(".set x hello world"))
	r.Execute(ParseCommand(".get x"))
	r.Execute(ParseCommand(".vars"))

	want := "No variables set\n" +
		"Variable 'x' not found\n" +
		"Set variable 'x' = 'hello world'\n" +
		"x = hello world\n" +
		"Variables:\n  x = hello world\n"
	assert.Equal(t, want, out.String())
}

func TestExecute_HelpUnknownExit(t *testing.T) {
	t.Parallel()

	r, out := newRepl(t, "")
	assert.True(t, r.Execute(ParseCommand(".help")))
	assert.Contains(t, out.String(), ".load <file>")

	out.Reset()
	assert.True(t, r.Execute(ParseCommand(".bogus")))
	assert.Equal(t, "Unknown command: .bogus\nUse .help for available commands\n", out.String())

	assert.False(t, r.Execute(ParseCommand(".exit")))
}
