package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arfbllh/mdq/internal/config"
)

const sampleDoc = `## First section

- hello
- world

## Second section

- foo
- bar
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, env map[string]string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		stderr: &stderr,
		getenv: func(key string) string { return env[key] },
	}
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRoot_SelectFromStdin(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "# second | - *")
	require.NoError(t, res.err)
	assert.Equal(t, "- foo\n\n   -----\n\n- bar\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRoot_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no breaks", []string{"--no-br", "# second | - *"}, "- foo\n\n- bar\n"},
		{"br false", []string{"--br=false", "# second | - *"}, "- foo\n\n- bar\n"},
		{"plain", []string{"-o", "plain", "# second | - *"}, "foo\nbar\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := execute(t, sampleDoc, nil, tt.args...)
			require.NoError(t, res.err)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestRoot_Files(t *testing.T) {
	t.Parallel()

	first := writeFile(t, "first.md", "- one")
	second := writeFile(t, "second.md", "- two\n")

	res := execute(t, "", nil, "--no-br", "--", "- *", first, second)
	require.NoError(t, res.err)
	assert.Equal(t, "- one\n\n- two\n", res.stdout)
}

func TestRoot_NothingSelected(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "# missing")
	assert.ErrorIs(t, res.err, errNothingSelected)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRoot_QueryError(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "--enhanced-errors", "!invalid")
	assert.ErrorIs(t, res.err, errNothingSelected)
	assert.True(t, strings.HasPrefix(res.stderr, "error: Syntax error in select specifier:\n --> 1:1\n"))
	assert.Contains(t, res.stderr, "Suggestions:")
}

func TestRoot_MissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.md")
	res := execute(t, "", nil, "#", missing)
	assert.Error(t, res.err)
	assert.Contains(t, res.stderr, "error: reading "+missing+": ")
}

func TestRoot_Quiet(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "-q", "--", "- foo")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
}

func TestRoot_JSONPath(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "--json-path", "$.items[*].list_item", "# first | - *")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "["))

	res = execute(t, sampleDoc, nil, "--json-path", "$.items[", "# first")
	assert.Error(t, res.err)
	assert.Contains(t, res.stderr, "invalid jsonpath '$.items['")
}

func TestRoot_InvalidFlagValue(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "--link-format", "sometimes", "#")
	require.Error(t, res.err)
	assert.NotErrorIs(t, res.err, errNothingSelected)
}

func TestRoot_ConfigAndEnvPrecedence(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, config.DefaultPath, "output: json\nadd_breaks: false\n")

	res := execute(t, sampleDoc, nil, "--config", cfg, "# second | - *")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "{"), "config selects JSON")

	env := map[string]string{"MDQ_OUTPUT": "plain"}
	res = execute(t, sampleDoc, env, "--config", cfg, "# second | - *")
	require.NoError(t, res.err)
	assert.Equal(t, "foo\nbar\n", res.stdout, "environment overrides config")

	res = execute(t, sampleDoc, env, "--config", cfg, "-o", "md", "# second | - *")
	require.NoError(t, res.err)
	assert.Equal(t, "- foo\n\n- bar\n", res.stdout, "flags override environment")
}

func TestRoot_BadConfig(t *testing.T) {
	t.Parallel()

	cfg := writeFile(t, config.DefaultPath, "unknown_key: 1\n")
	res := execute(t, sampleDoc, nil, "--config", cfg, "#")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "loading config")
}

func TestRoot_NoArgsShowsHelp(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "mdq [flags] <selectors> [files...]")
}

func TestRoot_WatchNeedsFiles(t *testing.T) {
	t.Parallel()

	res := execute(t, sampleDoc, nil, "--watch", "# first")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--watch needs at least one input file")
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), config.DefaultPath)
	res := execute(t, "", nil, "--config", path, "init")
	require.NoError(t, res.err)
	assert.Equal(t, "Configuration file created/updated: "+path+"\n", res.stdout)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)
}

func TestRepl(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.md", sampleDoc)

	tests := []struct {
		name string
		args []string
	}{
		{"subcommand", []string{"repl", doc}},
		{"flag", []string{"--repl", doc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := execute(t, ".info\n.exit\n", nil, tt.args...)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, "Document loaded with 2 root elements\n")
			assert.Contains(t, res.stdout, "Goodbye!\n")
		})
	}
}

func TestRepl_OutputFlag(t *testing.T) {
	t.Parallel()

	doc := writeFile(t, "doc.md", sampleDoc)
	res := execute(t, "- foo\n", nil, "-o", "plain", "repl", doc)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "mdq> foo\n")
}

func TestRepl_MissingFile(t *testing.T) {
	t.Parallel()

	res := execute(t, "", nil, "repl", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "failed to load document")
}
