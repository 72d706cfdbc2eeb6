package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Literal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matcher Matcher
		input   string
		want    bool
	}{
		{"any", Matcher{}, "whatever", true},
		{"substring", Literal("ell", false, false), "Hello", true},
		{"case folded", Literal("HELLO", false, false), "well hello there", true},
		{"unicode fold", Literal("ÉCOLE", false, false), "une école", true},
		{"missing", Literal("bye", false, false), "hello", false},
		{"anchor start", Literal("he", true, false), "hello", true},
		{"anchor start miss", Literal("lo", true, false), "hello", false},
		{"anchor end", Literal("LO", false, true), "hello", true},
		{"both anchors", Literal("hello", true, true), "HELLO", true},
		{"both anchors partial", Literal("hell", true, true), "hello", false},
		{"empty literal", Literal("", false, false), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.matcher.Matches(tt.input))
		})
	}
}

func TestMatcher_Regex(t *testing.T) {
	t.Parallel()

	m, err := Regex(`b+`, false, false)
	require.NoError(t, err)
	assert.True(t, m.Matches("abbbc"))
	assert.False(t, m.Matches("ac"))

	anchored, err := Regex(`a|b`, true, true)
	require.NoError(t, err)
	assert.True(t, anchored.Matches("a"))
	assert.True(t, anchored.Matches("b"))
	assert.False(t, anchored.Matches("ab"))

	_, err = Regex(`(`, false, false)
	assert.Error(t, err)
}

func TestMatcher_Replace(t *testing.T) {
	t.Parallel()

	m, err := Regex(`o`, false, false)
	require.NoError(t, err)

	_, ok := m.Replace("foo")
	assert.False(t, ok, "no replacement template")

	repl := "0"
	m.Replacement = &repl
	out, ok := m.Replace("foo")
	assert.True(t, ok)
	assert.Equal(t, "f0o", out, "only the first match is replaced")

	out, ok = m.Replace("bar")
	assert.False(t, ok)
	assert.Equal(t, "bar", out)

	_, ok = Literal("o", false, false).Replace("foo")
	assert.False(t, ok)
}

func TestMatcher_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*", Matcher{}.String())
	assert.Equal(t, `^"a"$`, Literal("a", true, true).String())
	m, err := Regex("x+", false, true)
	require.NoError(t, err)
	assert.Equal(t, "/x+/$", m.String())
}
