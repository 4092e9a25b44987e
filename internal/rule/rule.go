// Package rule declares reusable command templates and binds concrete
// arguments to them.
//
// A Rule knows the closed set of variables its command, input and output
// templates reference. Binding checks that the caller supplies exactly
// those that are not provided by the graph itself, expands the rule's path
// templates and emits the resulting build statement through the session.
package rule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/vars"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// OutputType converts an output path into a caller-defined value.
type OutputType func(path string) any

// Rule is a named, parameterized command template.
type Rule struct {
	Name        string
	Command     string
	Outputs     []string
	Inputs      []string
	OrderOnly   []string
	Implicit    []string
	Description string
	OutputTypes []OutputType

	// AllowNonIdenticalDuplicates keeps the first statement when a later,
	// different binding claims the same outputs.
	AllowNonIdenticalDuplicates bool

	// Vars is every variable referenced by Command, Inputs and Outputs.
	Vars vars.Set

	extra ninja.Rule
}

// Option configures a Rule.
type Option func(*Rule)

// WithOutputs sets output path templates appended to every binding.
func WithOutputs(templates ...string) Option {
	return func(r *Rule) { r.Outputs = templates }
}

// WithInputs sets input path templates appended to every binding.
func WithInputs(templates ...string) Option {
	return func(r *Rule) { r.Inputs = templates }
}

// WithOrderOnly sets order-only dependencies placed before the caller's.
func WithOrderOnly(paths ...string) Option {
	return func(r *Rule) { r.OrderOnly = paths }
}

// WithImplicit sets implicit dependency templates appended to every binding.
func WithImplicit(templates ...string) Option {
	return func(r *Rule) { r.Implicit = templates }
}

// WithDescription overrides the generated description.
func WithDescription(description string) Option {
	return func(r *Rule) { r.Description = description }
}

// WithOutputType wraps bound outputs. One constructor applies to a single
// output, several pair with the outputs by position.
func WithOutputType(types ...OutputType) Option {
	return func(r *Rule) { r.OutputTypes = types }
}

// AllowNonIdenticalDuplicates tolerates conflicting bindings.
func AllowNonIdenticalDuplicates() Option {
	return func(r *Rule) { r.AllowNonIdenticalDuplicates = true }
}

// WithDepfile names the depfile the command writes.
func WithDepfile(depfile string) Option {
	return func(r *Rule) { r.extra.Depfile = depfile }
}

// WithDeps selects the depfile format ninja reads, "gcc" or "msvc".
func WithDeps(deps string) Option {
	return func(r *Rule) { r.extra.Deps = deps }
}

// Generator marks the rule as one that regenerates the build file.
func Generator() Option {
	return func(r *Rule) { r.extra.Generator = true }
}

// WithPool runs the rule's builds in the named pool.
func WithPool(pool string) Option {
	return func(r *Rule) { r.extra.Pool = pool }
}

// Restat makes ninja re-stat the outputs after the command runs.
func Restat() Option {
	return func(r *Rule) { r.extra.Restat = true }
}

// WithRspfile writes content to file before the command runs.
func WithRspfile(file, content string) Option {
	return func(r *Rule) {
		r.extra.Rspfile = file
		r.extra.RspfileContent = content
	}
}

// New declares a rule. The command is dedented, and a placeholder syntax
// error in the command, path or implicit templates fails the declaration.
func New(name, command string, opts ...Option) (*Rule, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid rule name %q", name)
	}
	r := &Rule{Name: name, Command: normalizeCommand(command)}
	for _, opt := range opts {
		opt(r)
	}

	templates := append([]string{r.Command}, r.Inputs...)
	templates = append(templates, r.Outputs...)
	vs, err := vars.Extract(templates...)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", name, err)
	}
	r.Vars = vs

	// Implicit templates are expanded at bind time and never become
	// arguments, but their escapes still have to be valid.
	if _, err := vars.Extract(r.Implicit...); err != nil {
		return nil, fmt.Errorf("rule %s: implicit: %w", name, err)
	}

	if r.Description == "" {
		r.Description = defaultDescription(name, vs)
	}
	return r, nil
}

// MustNew is New for package-level declarations. It panics on error.
func MustNew(name, command string, opts ...Option) *Rule {
	r, err := New(name, command, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Definition returns the rule as it is written to the build file.
func (r *Rule) Definition() ninja.Rule {
	def := r.extra
	def.Command = r.Command
	def.Description = r.Description
	return def
}

// normalizeCommand dedents a command and drops its leading and trailing
// blank lines. The writer joins the remaining lines with spaces, so a shell
// line continuation at the end of a line is dropped too.
func normalizeCommand(command string) string {
	lines := strings.Split(vars.Dedent(command), "\n")
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines[:max(len(lines)-1, 0)] {
		line = strings.TrimRight(line, " \t")
		if trailing := len(line) - len(strings.TrimRight(line, `\`)); trailing%2 == 1 {
			line = strings.TrimRight(line[:len(line)-1], " \t")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func defaultDescription(name string, vs vars.Set) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs.Sorted() {
		parts = append(parts, fmt.Sprintf("%s=$%s", v, v))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
