package hclconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level items of a file.
type fileRoot struct {
	RequiredVersion hcl.Expression   `hcl:"ninja_required_version,optional"`
	Defaults        hcl.Expression   `hcl:"defaults,optional"`
	Variables       []*variableBlock `hcl:"variable,block"`
	Pools           []*poolBlock     `hcl:"pool,block"`
	Rules           []*ruleBlock     `hcl:"rule,block"`
	Builds          []*buildBlock    `hcl:"build,block"`
	Manifests       []*manifestBlock `hcl:"manifest,block"`
}

type variableBlock struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}

type poolBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type poolAttrs struct {
	Depth int `hcl:"depth"`
}

type ruleBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// ruleAttrs is decoded from a rule body in the second pass.
type ruleAttrs struct {
	Command     string   `hcl:"command"`
	Description string   `hcl:"description,optional"`
	Outputs     []string `hcl:"outputs,optional"`
	Inputs      []string `hcl:"inputs,optional"`
	Implicit    []string `hcl:"implicit,optional"`
	OrderOnly   []string `hcl:"order_only,optional"`

	Depfile        string `hcl:"depfile,optional"`
	Deps           string `hcl:"deps,optional"`
	Generator      bool   `hcl:"generator,optional"`
	Pool           string `hcl:"pool,optional"`
	Restat         bool   `hcl:"restat,optional"`
	Rspfile        string `hcl:"rspfile,optional"`
	RspfileContent string `hcl:"rspfile_content,optional"`

	AllowNonIdenticalDuplicates bool `hcl:"allow_non_identical_duplicates,optional"`
}

type buildBlock struct {
	Rule string   `hcl:"rule,label"`
	Body hcl.Body `hcl:",remain"`
}

// buildAttrs is decoded from a build body in the second pass.
type buildAttrs struct {
	Outputs         []string       `hcl:"outputs,optional"`
	Inputs          []string       `hcl:"inputs,optional"`
	Implicit        []string       `hcl:"implicit,optional"`
	OrderOnly       []string       `hcl:"order_only,optional"`
	ImplicitOutputs []string       `hcl:"implicit_outputs,optional"`
	Pool            string         `hcl:"pool,optional"`
	Dyndep          string         `hcl:"dyndep,optional"`
	Args            hcl.Expression `hcl:"args,optional"`
}

type manifestBlock struct {
	Path hcl.Expression `hcl:"path,optional"`
}
