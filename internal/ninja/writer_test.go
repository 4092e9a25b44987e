package ninja

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "a$ b", EscapePath("a b"))
	assert.Equal(t, "c$:/x", EscapePath("c:/x"))
	assert.Equal(t, "$$$ x", EscapePath("$ x"))
	assert.Equal(t, "$builddir/a", EscapePath("$builddir/a"))
	assert.Equal(t, "$$HOME", Escape("$HOME"))
}

func TestWriter_Rule(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)

	require.NoError(t, w.Rule("cc", Rule{
		Command:     "cc -MD -MF $out.d -c -o $out $in",
		Description: "CC $out",
		Depfile:     "$out.d",
		Deps:        "gcc",
		Generator:   true,
		Restat:      true,
	}))
	require.NoError(t, w.Flush())

	expected := `rule cc
  command = cc -MD -MF $out.d -c -o $out $in
  description = CC $out
  depfile = $out.d
  generator = 1
  restat = 1
  deps = gcc
`
	assert.Equal(t, expected, buf.String())
}

func TestWriter_Build(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)

	require.NoError(t, w.Build(Build{
		Outputs:         []string{"a.o"},
		ImplicitOutputs: []string{"a.d"},
		Rule:            "cc",
		Inputs:          []string{"a c.c"},
		Implicit:        []string{"cc.h"},
		OrderOnly:       []string{"gen"},
		Pool:            "console",
		Variables:       map[string]string{"z": "last", "cflags": "-O2"},
	}))
	require.NoError(t, w.Flush())

	expected := `build a.o | a.d: cc a$ c.c | cc.h || gen
  pool = console
  cflags = -O2
  z = last
`
	assert.Equal(t, expected, buf.String())
}

func TestWriter_VariableAndPool(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 0)

	require.NoError(t, w.Variable("builddir", "_build", 0))
	require.NoError(t, w.Pool("link", 2))
	require.NoError(t, w.Newline())
	require.NoError(t, w.Default("all", "my dir/x"))
	require.NoError(t, w.Flush())

	assert.Equal(t, "builddir = _build\npool link\n  depth = 2\n\ndefault all my$ dir/x\n", buf.String())
}

func TestWriter_LineWrapping(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 20)

	require.NoError(t, w.Variable("x", "aaaa bbbb cccc dddd eeee", 0))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "x = aaaa bbbb $", lines[0])
	assert.Equal(t, "    cccc dddd eeee", lines[1])
}

func TestWriter_LineWrappingSkipsEscapedSpaces(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 16)

	require.NoError(t, w.Variable("v", "abc$ def$ ghi jkl", 0))
	require.NoError(t, w.Flush())

	assert.Equal(t, "v = $\n    abc$ def$ ghi $\n    jkl\n", buf.String())
}

func TestWriter_LongWordIsNotBroken(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 10)

	require.NoError(t, w.Variable("k", strings.Repeat("x", 30), 0))
	require.NoError(t, w.Flush())

	assert.Equal(t, "k = $\n    "+strings.Repeat("x", 30)+"\n", buf.String())
}

func TestWriter_Comment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 20)

	require.NoError(t, w.Comment("this comment is long enough to wrap"))
	require.NoError(t, w.Flush())

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.True(t, strings.HasPrefix(line, "# "), line)
		assert.LessOrEqual(t, len(line), 20, line)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_ErrorIsSticky(t *testing.T) {
	w := NewWriter(failingWriter{}, 0)

	require.NoError(t, w.Variable("a", "b", 0), "buffered write should not fail yet")
	require.EqualError(t, w.Flush(), "disk full")
	require.EqualError(t, w.Newline(), "disk full")
}

func TestWriter_MultiLineValue(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "lines become continuations",
			value:    "set -ex;\necho $out;\ntouch $out",
			expected: "  command = set -ex; $\n      echo $out; $\n      touch $out\n",
		},
		{
			name:     "blank and indented lines",
			value:    "\n  a \\\n\n\t  b\n\n",
			expected: "  command = a \\ $\n      b\n",
		},
		{
			name:     "existing continuation is not doubled",
			value:    "a $\nb",
			expected: "  command = a $\n      b\n",
		},
		{
			name:     "escaped dollar at line end is kept",
			value:    "echo $$\nb",
			expected: "  command = echo $$ $\n      b\n",
		},
		{
			name:     "only blank lines",
			value:    "\n \n",
			expected: "  command = \n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf, 0)
			require.NoError(t, w.Variable("command", tc.value, 1))
			require.NoError(t, w.Flush())
			assert.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestWriter_MultiLineValueWraps(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 20)

	require.NoError(t, w.Variable("x", "aaaa bbbb cccc dddd\neeee", 0))
	require.NoError(t, w.Flush())

	assert.Equal(t, "x = aaaa bbbb $\n    cccc dddd $\n    eeee\n", buf.String())
}
