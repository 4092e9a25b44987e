package config

import (
	"fmt"
	"slices"
)

// Model is the unified representation of every loaded configuration file.
// Declarations keep their file order.
type Model struct {
	RequiredVersion string
	Variables       []*Variable
	Pools           []*Pool
	Rules           []*Rule
	Builds          []*Build
	Defaults        []*Default
	Manifest        *Manifest
}

// Pool is a `pool` declaration limiting the parallelism of its jobs.
type Pool struct {
	Name   string
	Depth  int
	Origin string
}

// Default names targets built when ninja is run without arguments.
type Default struct {
	Targets []string
	Origin  string
}

// Variable is a global variable of the graph.
type Variable struct {
	Name   string
	Value  string
	Origin string
}

// Rule is the format-agnostic representation of a `rule` block.
type Rule struct {
	Name        string
	Command     string
	Description string
	Outputs     []string
	Inputs      []string
	Implicit    []string
	OrderOnly   []string

	Depfile        string
	Deps           string
	Generator      bool
	Pool           string
	Restat         bool
	Rspfile        string
	RspfileContent string

	AllowNonIdenticalDuplicates bool
	Origin                      string
}

// Build is the format-agnostic representation of a `build` block. Rule is
// either a declared rule or one built into ninja such as phony.
type Build struct {
	Rule            string
	Outputs         []string
	Inputs          []string
	Implicit        []string
	OrderOnly       []string
	ImplicitOutputs []string
	Pool            string
	Dyndep          string
	Args            map[string]string
	Origin          string
}

// Manifest requests the ignore-list of every known target.
type Manifest struct {
	// Path is optional and defaults to <builddir>/.gitignore.
	Path string
}

// Merge appends the declarations of other to m.
func (m *Model) Merge(other *Model) error {
	if other == nil {
		return nil
	}
	if other.RequiredVersion != "" {
		if m.RequiredVersion != "" && m.RequiredVersion != other.RequiredVersion {
			return fmt.Errorf("conflicting ninja_required_version: %q and %q", m.RequiredVersion, other.RequiredVersion)
		}
		m.RequiredVersion = other.RequiredVersion
	}
	m.Variables = append(m.Variables, other.Variables...)
	m.Pools = append(m.Pools, other.Pools...)
	m.Rules = append(m.Rules, other.Rules...)
	m.Builds = append(m.Builds, other.Builds...)
	m.Defaults = append(m.Defaults, other.Defaults...)
	if other.Manifest != nil {
		if m.Manifest != nil && m.Manifest.Path != other.Manifest.Path {
			return fmt.Errorf("conflicting manifest paths: %q and %q", m.Manifest.Path, other.Manifest.Path)
		}
		m.Manifest = other.Manifest
	}
	return nil
}

// Rule returns the rule declared under name.
func (m *Model) Rule(name string) (*Rule, bool) {
	i := slices.IndexFunc(m.Rules, func(r *Rule) bool { return r.Name == name })
	if i < 0 {
		return nil, false
	}
	return m.Rules[i], true
}
