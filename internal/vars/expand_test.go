package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	globals := map[string]string{"builddir": "_build", "name": "global"}

	testCases := []struct {
		name     string
		template string
		locals   map[string]string
		expected string
	}{
		{
			name:     "globals",
			template: "$builddir/out",
			expected: "_build/out",
		},
		{
			name:     "locals shadow globals",
			template: "$builddir/$name.o",
			locals:   map[string]string{"name": "main"},
			expected: "_build/main.o",
		},
		{
			name:     "braced reference",
			template: "${builddir}x/${name}",
			expected: "_buildx/global",
		},
		{
			name:     "escaped dollar",
			template: "cost $$5",
			expected: "cost $5",
		},
		{
			name:     "escaped space and colon",
			template: "my$ dir/a$:b",
			expected: "my dir/a:b",
		},
		{
			name:     "escaped space does not read a variable",
			template: "$ name",
			expected: " name",
		},
		{
			name:     "line continuation",
			template: "a $\n    $name",
			locals:   map[string]string{"name": "b"},
			expected: "a b",
		},
		{
			name:     "escaped dollar before a name",
			template: "$$name",
			expected: "$name",
		},
		{
			name:     "unknown variable expands to empty",
			template: "a$missing-b",
			expected: "a-b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Expand(tc.template, globals, tc.locals))
		})
	}
}

func TestExpandAll(t *testing.T) {
	got := ExpandAll([]string{"$a.c", "$a.h"}, nil, map[string]string{"a": "main"})
	assert.Equal(t, []string{"main.c", "main.h"}, got)
}

func TestDedent(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no indentation",
			input:    "cc -o $out $in",
			expected: "cc -o $out $in",
		},
		{
			name:     "common indentation removed",
			input:    "    set -e\n    cp $in $out\n      chmod +x $out\n",
			expected: "set -e\ncp $in $out\n  chmod +x $out\n",
		},
		{
			name:     "blank lines are ignored and emptied",
			input:    "\n\tone\n  \n\ttwo",
			expected: "\none\n\ntwo",
		},
		{
			name:     "mixed indentation keeps the shared part",
			input:    "  \ta\n  b",
			expected: "\ta\nb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Dedent(tc.input))
		})
	}
}
