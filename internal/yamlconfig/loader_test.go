package yamlconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/session"
)

const graphYAML = `
ninja_required_version: "1.10"
variables:
  - name: cflags
    value: -O2
  - name: jobs
    value: 4
  - name: libs
    value: [ssl, crypto]
rules:
  - name: cc
    command: cc $cflags -c -o $out $in
    outputs: $builddir/$name.o
    inputs: [$name.c]
    depfile: $out.d
    deps: gcc
    restat: true
builds:
  - rule: cc
    args:
      name: main
      level: 2
      debug: true
  - rule: phony
    outputs: all
    inputs:
      - $builddir/main.o
    order_only: [gen]
manifest: {}
`

func TestParse(t *testing.T) {
	model, err := Parse("graph.yaml", []byte(graphYAML))
	require.NoError(t, err)

	assert.Equal(t, "1.10", model.RequiredVersion)
	expectedVars := []*config.Variable{
		{Name: "cflags", Value: "-O2", Origin: "graph.yaml:variables[0]"},
		{Name: "jobs", Value: "4", Origin: "graph.yaml:variables[1]"},
		{Name: "libs", Value: "ssl crypto", Origin: "graph.yaml:variables[2]"},
	}
	if diff := cmp.Diff(expectedVars, model.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	expectedRule := &config.Rule{
		Name:    "cc",
		Command: "cc $cflags -c -o $out $in",
		Outputs: []string{"$builddir/$name.o"},
		Inputs:  []string{"$name.c"},
		Depfile: "$out.d",
		Deps:    "gcc",
		Restat:  true,
		Origin:  "graph.yaml:rules[0]",
	}
	require.Len(t, model.Rules, 1)
	if diff := cmp.Diff(expectedRule, model.Rules[0]); diff != "" {
		t.Errorf("rule mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, model.Builds, 2)
	assert.Equal(t, map[string]string{"name": "main", "level": "2", "debug": "true"}, model.Builds[0].Args)
	phony := model.Builds[1]
	assert.Equal(t, []string{"all"}, phony.Outputs)
	assert.Equal(t, []string{"$builddir/main.o"}, phony.Inputs)
	assert.Equal(t, []string{"gen"}, phony.OrderOnly)
	assert.Nil(t, phony.Args)

	require.NotNil(t, model.Manifest)
}

func TestParse_PoolsAndDefaults(t *testing.T) {
	src := `
pools:
  - name: link
    depth: 2
  - name: serial
    depth: 0
defaults: [all, docs]
`
	model, err := Parse("graph.yaml", []byte(src))
	require.NoError(t, err)

	expectedPools := []*config.Pool{
		{Name: "link", Depth: 2, Origin: "graph.yaml:pools[0]"},
		{Name: "serial", Depth: 0, Origin: "graph.yaml:pools[1]"},
	}
	if diff := cmp.Diff(expectedPools, model.Pools); diff != "" {
		t.Errorf("pools mismatch (-want +got):\n%s", diff)
	}
	expectedDefaults := []*config.Default{{Targets: []string{"all", "docs"}, Origin: "graph.yaml:defaults"}}
	if diff := cmp.Diff(expectedDefaults, model.Defaults); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		errMsg string
	}{
		{"unknown key", "rulez: []\n", "failed to unmarshal"},
		{"rule without command", "rules:\n  - name: cc\n", "rules[0]"},
		{"build without rule", "builds:\n  - outputs: a\n", "builds[0]"},
		{"variable without name", "variables:\n  - value: x\n", "variables[0]"},
		{"object value", "variables:\n  - name: a\n    value: {k: v}\n", "failed to unmarshal"},
		{"pool without depth", "pools:\n  - name: link\n", "pools[0]"},
		{"pool depth not a number", "pools:\n  - name: link\n    depth: many\n", "failed to unmarshal"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("graph.yaml", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoader_TracksFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("variables:\n  - name: a\n    value: x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("ninja_required_version: \"1.7\"\n"), 0o644))
	s, err := session.New(context.Background(), session.Options{Dir: dir, SelfDeps: []string{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Abort() })

	model, err := NewLoader().Load(context.Background(), s, "a.yaml", "b.yml")
	require.NoError(t, err)
	assert.Len(t, model.Variables, 1)
	assert.Equal(t, "1.7", model.RequiredVersion)
	assert.Equal(t, []string{"a.yaml", "b.yml"}, s.GeneratorDeps())

	_, err = NewLoader().Load(context.Background(), s, "missing.yaml")
	assert.Error(t, err)
}
