package rule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/session"
	"github.com/specialistvlad/ninjagen/internal/vars"
)

// DigestVar is filled in automatically for rules that reference it.
const DigestVar = "_args_digest"

// builtins never need to be supplied by the caller.
var builtins = vars.NewSet("in", "out", DigestVar)

// Session is the part of *session.Session a binding needs.
type Session interface {
	DefineRule(name string, r ninja.Rule) error
	Globals() map[string]string
	Build(st session.Statement, allowNonIdenticalDuplicates bool) (session.Emission, error)
}

// Params are the concrete values of one binding.
type Params struct {
	Outputs         []string
	Inputs          []string
	Implicit        []string
	OrderOnly       []string
	ImplicitOutputs []string
	Pool            string
	Dyndep          string
	Args            map[string]string

	// Origin is recorded in the provenance comment of debug builds.
	Origin string
}

// Outputs are the results of a binding.
type Outputs struct {
	Paths   []string
	Values  []any
	Outcome session.Outcome
}

// ArgumentError reports a binding whose arguments do not match the rule.
type ArgumentError struct {
	Rule       string
	Missing    []string
	Unexpected []string
}

func (e *ArgumentError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing arguments to rule %s: %s", e.Rule, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("rule %s got unexpected arguments: %s", e.Rule, strings.Join(e.Unexpected, ", "))
}

// OutputTypeError reports a mismatch between output types and outputs.
type OutputTypeError struct {
	Rule  string
	Types int
	Paths int
}

func (e *OutputTypeError) Error() string {
	return fmt.Sprintf("rule %s has %d output types but produced %d outputs", e.Rule, e.Types, e.Paths)
}

// Bind emits one build statement of r.
func (r *Rule) Bind(s Session, p Params) (Outputs, error) {
	if err := s.DefineRule(r.Name, r.Definition()); err != nil {
		return Outputs{}, err
	}

	globals := s.Globals()
	supplied := vars.NewSet()
	for k := range p.Args {
		supplied.Add(k)
	}
	available := supplied.Union(builtins)
	for k := range globals {
		available.Add(k)
	}
	if missing := r.Vars.Minus(available); len(missing) > 0 {
		return Outputs{}, &ArgumentError{Rule: r.Name, Missing: missing.Sorted()}
	}
	if unexpected := supplied.Minus(r.Vars); len(unexpected) > 0 {
		return Outputs{}, &ArgumentError{Rule: r.Name, Unexpected: unexpected.Sorted()}
	}

	args := maps.Clone(p.Args)
	if args == nil {
		args = make(map[string]string)
	}
	if r.Vars.Has(DigestVar) {
		args[DigestVar] = Digest(r.Name, p.Args)
	}

	st := session.Statement{
		Outputs:         append(clone(p.Outputs), vars.ExpandAll(r.Outputs, globals, args)...),
		Rule:            r.Name,
		Inputs:          append(clone(p.Inputs), vars.ExpandAll(r.Inputs, globals, args)...),
		Implicit:        append(clone(p.Implicit), vars.ExpandAll(r.Implicit, globals, args)...),
		OrderOnly:       append(clone(r.OrderOnly), p.OrderOnly...),
		ImplicitOutputs: p.ImplicitOutputs,
		Pool:            p.Pool,
		Dyndep:          p.Dyndep,
		Variables:       args,
		Origin:          p.Origin,
	}
	em, err := s.Build(st, r.AllowNonIdenticalDuplicates)
	if err != nil {
		return Outputs{}, fmt.Errorf("rule %s: %w", r.Name, err)
	}

	out := Outputs{Paths: em.Outputs, Outcome: em.Outcome}
	values, err := r.wrap(em.Outputs)
	if err != nil {
		return Outputs{}, err
	}
	out.Values = values
	return out, nil
}

func (r *Rule) wrap(paths []string) ([]any, error) {
	switch len(r.OutputTypes) {
	case 0:
		return nil, nil
	case 1:
		if len(paths) != 1 {
			return nil, &OutputTypeError{Rule: r.Name, Types: 1, Paths: len(paths)}
		}
		return []any{r.OutputTypes[0](paths[0])}, nil
	}
	if len(paths) != len(r.OutputTypes) {
		return nil, &OutputTypeError{Rule: r.Name, Types: len(r.OutputTypes), Paths: len(paths)}
	}
	values := make([]any, len(paths))
	for i, p := range paths {
		values[i] = r.OutputTypes[i](p)
	}
	return values, nil
}

// Digest returns a short stable token derived from a rule name and its
// arguments.
func Digest(ruleName string, args map[string]string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "%q", ruleName)
	for _, k := range keys {
		fmt.Fprintf(h, ";%q=%q", k, args[k])
	}
	return hex.EncodeToString(h.Sum(nil))[:7]
}

// As returns the single typed output of a binding.
func As[T any](o Outputs) (T, error) {
	var zero T
	if len(o.Values) == 0 {
		if len(o.Paths) == 1 {
			if v, ok := any(o.Paths[0]).(T); ok {
				return v, nil
			}
		}
		return zero, fmt.Errorf("binding has %d untyped outputs, want one %T", len(o.Paths), zero)
	}
	if len(o.Values) != 1 {
		return zero, fmt.Errorf("binding has %d outputs, want one %T", len(o.Values), zero)
	}
	v, ok := o.Values[0].(T)
	if !ok {
		return zero, fmt.Errorf("output is %T, want %T", o.Values[0], zero)
	}
	return v, nil
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
