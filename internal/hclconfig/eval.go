package hclconfig

import (
	"fmt"
	"maps"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/ninjagen/internal/config"
)

// evaluator holds the evaluation state shared by every file of one load.
type evaluator struct {
	vars map[string]cty.Value
	ctx  *hcl.EvalContext
}

func newEvaluator(tracker config.Tracker) *evaluator {
	return &evaluator{
		vars: make(map[string]cty.Value),
		ctx: &hcl.EvalContext{
			Variables: map[string]cty.Value{"var": cty.EmptyObjectVal},
			Functions: functions(tracker),
		},
	}
}

// set binds var.<name>. The first declaration wins; redeclarations are
// reported when the model is applied to a session.
func (e *evaluator) set(name string, val cty.Value) {
	if _, ok := e.vars[name]; ok {
		return
	}
	e.vars[name] = val
	e.ctx.Variables["var"] = cty.ObjectVal(maps.Clone(e.vars))
}

func (e *evaluator) value(expr hcl.Expression) (cty.Value, error) {
	val, diags := expr.Value(e.ctx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}

func (e *evaluator) stringValue(expr hcl.Expression) (string, error) {
	val, err := e.value(expr)
	if err != nil {
		return "", err
	}
	s, err := toString(val)
	if err != nil {
		return "", fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return s, nil
}

func (e *evaluator) variables(model *config.Model, root *fileRoot) error {
	for _, v := range root.Variables {
		val, err := e.value(v.Value)
		if err != nil {
			return fmt.Errorf("variable %s: %w", v.Name, err)
		}
		s, err := toString(val)
		if err != nil {
			return fmt.Errorf("variable %s at %s: %w", v.Name, v.Value.Range(), err)
		}
		e.set(v.Name, val)
		model.Variables = append(model.Variables, &config.Variable{
			Name:   v.Name,
			Value:  s,
			Origin: origin(v.Value.Range()),
		})
	}
	return nil
}

func (e *evaluator) declarations(model *config.Model, root *fileRoot) error {
	version, err := e.stringValue(root.RequiredVersion)
	if err != nil {
		return fmt.Errorf("ninja_required_version: %w", err)
	}
	if err := model.Merge(&config.Model{RequiredVersion: version}); err != nil {
		return err
	}

	for _, pb := range root.Pools {
		var attrs poolAttrs
		if diags := gohcl.DecodeBody(pb.Body, e.ctx, &attrs); diags.HasErrors() {
			return fmt.Errorf("pool %s: %w", pb.Name, diags)
		}
		model.Pools = append(model.Pools, &config.Pool{
			Name:   pb.Name,
			Depth:  attrs.Depth,
			Origin: origin(pb.Body.MissingItemRange()),
		})
	}

	for _, rb := range root.Rules {
		var attrs ruleAttrs
		if diags := gohcl.DecodeBody(rb.Body, e.ctx, &attrs); diags.HasErrors() {
			return fmt.Errorf("rule %s: %w", rb.Name, diags)
		}
		model.Rules = append(model.Rules, &config.Rule{
			Name:                        rb.Name,
			Command:                     attrs.Command,
			Description:                 attrs.Description,
			Outputs:                     attrs.Outputs,
			Inputs:                      attrs.Inputs,
			Implicit:                    attrs.Implicit,
			OrderOnly:                   attrs.OrderOnly,
			Depfile:                     attrs.Depfile,
			Deps:                        attrs.Deps,
			Generator:                   attrs.Generator,
			Pool:                        attrs.Pool,
			Restat:                      attrs.Restat,
			Rspfile:                     attrs.Rspfile,
			RspfileContent:              attrs.RspfileContent,
			AllowNonIdenticalDuplicates: attrs.AllowNonIdenticalDuplicates,
			Origin:                      origin(rb.Body.MissingItemRange()),
		})
	}

	for _, bb := range root.Builds {
		var attrs buildAttrs
		if diags := gohcl.DecodeBody(bb.Body, e.ctx, &attrs); diags.HasErrors() {
			return fmt.Errorf("build %s: %w", bb.Rule, diags)
		}
		argsVal, err := e.value(attrs.Args)
		if err != nil {
			return fmt.Errorf("build %s: %w", bb.Rule, err)
		}
		args, err := toStringMap(argsVal)
		if err != nil {
			return fmt.Errorf("build %s at %s: %w", bb.Rule, attrs.Args.Range(), err)
		}
		model.Builds = append(model.Builds, &config.Build{
			Rule:            bb.Rule,
			Outputs:         attrs.Outputs,
			Inputs:          attrs.Inputs,
			Implicit:        attrs.Implicit,
			OrderOnly:       attrs.OrderOnly,
			ImplicitOutputs: attrs.ImplicitOutputs,
			Pool:            attrs.Pool,
			Dyndep:          attrs.Dyndep,
			Args:            args,
			Origin:          origin(bb.Body.MissingItemRange()),
		})
	}

	defaults, err := e.value(root.Defaults)
	if err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	targets, err := toStringList(defaults)
	if err != nil {
		return fmt.Errorf("defaults at %s: %w", root.Defaults.Range(), err)
	}
	if len(targets) > 0 {
		model.Defaults = append(model.Defaults, &config.Default{
			Targets: targets,
			Origin:  origin(root.Defaults.Range()),
		})
	}

	for _, mb := range root.Manifests {
		p, err := e.stringValue(mb.Path)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if err := model.Merge(&config.Model{Manifest: &config.Manifest{Path: p}}); err != nil {
			return err
		}
	}
	return nil
}

// origin formats a source range as file:line.
func origin(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}
