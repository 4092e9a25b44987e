package app

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/rule"
	"github.com/specialistvlad/ninjagen/internal/session"
)

// Stats counts the outcome of every build declaration of a model.
type Stats struct {
	Written    int
	Duplicates int
	Tolerated  int
}

func (st *Stats) record(o session.Outcome) {
	switch o {
	case session.Written:
		st.Written++
	case session.Duplicate:
		st.Duplicates++
	case session.Tolerated:
		st.Tolerated++
	}
}

// Apply declares the contents of model in s: the required version, the
// pools, the global variables in order, every build, then the defaults. Builds naming a declared
// rule are bound through it, any other rule name is passed to ninja as is.
func Apply(ctx context.Context, s *session.Session, model *config.Model) (Stats, error) {
	logger := ctxlog.FromContext(ctx)
	var stats Stats

	if model.RequiredVersion != "" {
		if err := s.RequireVersion(model.RequiredVersion); err != nil {
			return stats, err
		}
	}

	for _, p := range model.Pools {
		if err := s.Pool(p.Name, p.Depth); err != nil {
			return stats, fmt.Errorf("%s: %w", p.Origin, err)
		}
	}

	for _, v := range model.Variables {
		if err := s.Variable(v.Name, v.Value); err != nil {
			return stats, fmt.Errorf("%s: %w", v.Origin, err)
		}
	}

	rules, err := compileRules(model.Rules)
	if err != nil {
		return stats, err
	}

	for _, b := range model.Builds {
		outcome, err := applyBuild(s, rules, b)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", b.Origin, err)
		}
		logger.Debug("Build declared.", "rule", b.Rule, "origin", b.Origin, "outcome", outcome)
		stats.record(outcome)
	}

	for _, d := range model.Defaults {
		if err := s.Default(d.Targets...); err != nil {
			return stats, fmt.Errorf("%s: %w", d.Origin, err)
		}
	}
	return stats, nil
}

func applyBuild(s *session.Session, rules map[string]*rule.Rule, b *config.Build) (session.Outcome, error) {
	if r, ok := rules[b.Rule]; ok {
		out, err := r.Bind(s, rule.Params{
			Outputs:         b.Outputs,
			Inputs:          b.Inputs,
			Implicit:        b.Implicit,
			OrderOnly:       b.OrderOnly,
			ImplicitOutputs: b.ImplicitOutputs,
			Pool:            b.Pool,
			Dyndep:          b.Dyndep,
			Args:            b.Args,
			Origin:          b.Origin,
		})
		return out.Outcome, err
	}

	em, err := s.Build(session.Statement{
		Outputs:         b.Outputs,
		Rule:            b.Rule,
		Inputs:          b.Inputs,
		Implicit:        b.Implicit,
		OrderOnly:       b.OrderOnly,
		ImplicitOutputs: b.ImplicitOutputs,
		Pool:            b.Pool,
		Dyndep:          b.Dyndep,
		Variables:       b.Args,
		Origin:          b.Origin,
	}, false)
	return em.Outcome, err
}

// compileRules turns rule declarations into rules. A name declared twice
// must be declared identically.
func compileRules(decls []*config.Rule) (map[string]*rule.Rule, error) {
	seen := make(map[string]*config.Rule, len(decls))
	rules := make(map[string]*rule.Rule, len(decls))
	for _, d := range decls {
		if prev, ok := seen[d.Name]; ok {
			if !cmp.Equal(prev, d, cmpopts.IgnoreFields(config.Rule{}, "Origin"), cmpopts.EquateEmpty()) {
				return nil, fmt.Errorf("%s: rule %s already declared differently at %s", d.Origin, d.Name, prev.Origin)
			}
			continue
		}
		r, err := rule.New(d.Name, d.Command, ruleOptions(d)...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Origin, err)
		}
		seen[d.Name] = d
		rules[d.Name] = r
	}
	return rules, nil
}

func ruleOptions(d *config.Rule) []rule.Option {
	opts := []rule.Option{
		rule.WithOutputs(d.Outputs...),
		rule.WithInputs(d.Inputs...),
		rule.WithImplicit(d.Implicit...),
		rule.WithOrderOnly(d.OrderOnly...),
	}
	if d.Description != "" {
		opts = append(opts, rule.WithDescription(d.Description))
	}
	if d.Depfile != "" {
		opts = append(opts, rule.WithDepfile(d.Depfile))
	}
	if d.Deps != "" {
		opts = append(opts, rule.WithDeps(d.Deps))
	}
	if d.Pool != "" {
		opts = append(opts, rule.WithPool(d.Pool))
	}
	if d.Rspfile != "" {
		opts = append(opts, rule.WithRspfile(d.Rspfile, d.RspfileContent))
	}
	if d.Generator {
		opts = append(opts, rule.Generator())
	}
	if d.Restat {
		opts = append(opts, rule.Restat())
	}
	if d.AllowNonIdenticalDuplicates {
		opts = append(opts, rule.AllowNonIdenticalDuplicates())
	}
	return opts
}
