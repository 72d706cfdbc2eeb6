package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arfbllh/mdq/output"
	"github.com/arfbllh/mdq/run"
)

func TestSession(t *testing.T) {
	t.Parallel()

	var s Session
	assert.False(t, s.HasDocument())
	assert.Equal(t, "No document loaded", s.Info())
	_, err := s.Parse()
	assert.Error(t, err)
	assert.ErrorIs(t, s.Reload(), errNoReloadPath)

	s.LoadContent("# hi\n")
	assert.True(t, s.HasDocument())
	assert.Equal(t, "Document: stdin (5 bytes)", s.Info())
	doc, err := s.Parse()
	require.NoError(t, err)
	assert.Len(t, doc.Roots, 1)
	assert.ErrorIs(t, s.Reload(), errNoReloadPath, "stdin content cannot be reloaded")

	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))
	require.NoError(t, s.LoadFile(path))
	assert.Equal(t, "Document: "+path+" (4 bytes)", s.Info())

	require.NoError(t, os.WriteFile(path, []byte("one\n\ntwo\n"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, "Document: "+path+" (9 bytes)", s.Info())

	s.Clear()
	assert.False(t, s.HasDocument())
}

func TestSession_LoadMissingFile(t *testing.T) {
	t.Parallel()

	var s Session
	s.LoadContent("kept")
	err := s.LoadFile(filepath.Join(t.TempDir(), "missing.md"))

	var runErr *run.Error
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, run.ErrFileRead, runErr.Kind)
	assert.Equal(t, "Document: stdin (4 bytes)", s.Info(), "a failed load keeps the previous document")
}

func TestState(t *testing.T) {
	t.Parallel()

	s := NewState(run.Options{Output: output.FormatMarkdown})
	assert.Nil(t, s.Document())
	assert.Empty(t, s.VariableNames())

	s.SetFormat(output.FormatJSON)
	assert.Equal(t, output.FormatJSON, s.Options().Output)

	s.SetVariable("b", "2")
	s.SetVariable("a", "1")
	s.SetVariable("b", "3")
	assert.Equal(t, []string{"a", "b"}, s.VariableNames())
	v, ok := s.Variable("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = s.Variable("c")
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	h := NewHistory(3)
	for _, line := range []string{"a", "", "b", "b", "c", "d"} {
		h.Add(line)
	}
	assert.Equal(t, []string{"b", "c", "d"}, h.Entries())

	entries := h.Entries()
	entries[0] = "changed"
	assert.Equal(t, "b", h.Entries()[0])

	assert.Equal(t, DefaultHistorySize, NewHistory(0).max)
}
