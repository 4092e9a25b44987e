// Package yamlconfig loads graph descriptions written in YAML. The document
// mirrors the HCL front end:
//
//	ninja_required_version: "1.10"
//	variables:
//	  - name: cflags
//	    value: -O2
//	pools:
//	  - name: link
//	    depth: 2
//	rules:
//	  - name: cc
//	    command: cc $cflags -c -o $out $in
//	builds:
//	  - rule: cc
//	    outputs: main.o
//	    inputs: main.c
//	defaults: main.o
//	manifest: {}
//
// Path lists accept a single string or a sequence, and scalar values of
// any kind are rendered as ninja text.
package yamlconfig

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// Extensions are the file extensions this loader reads.
var Extensions = []string{".yaml", ".yml"}

type document struct {
	RequiredVersion string     `yaml:"ninja_required_version"`
	Variables       []variable `yaml:"variables"`
	Pools           []pool     `yaml:"pools"`
	Rules           []rule     `yaml:"rules"`
	Builds          []build    `yaml:"builds"`
	Defaults        pathList   `yaml:"defaults"`
	Manifest        *manifest  `yaml:"manifest"`
}

type pool struct {
	Name  string `yaml:"name"`
	Depth *int   `yaml:"depth"`
}

type variable struct {
	Name  string `yaml:"name"`
	Value text   `yaml:"value"`
}

type rule struct {
	Name        string   `yaml:"name"`
	Command     string   `yaml:"command"`
	Description string   `yaml:"description"`
	Outputs     pathList `yaml:"outputs"`
	Inputs      pathList `yaml:"inputs"`
	Implicit    pathList `yaml:"implicit"`
	OrderOnly   pathList `yaml:"order_only"`

	Depfile        string `yaml:"depfile"`
	Deps           string `yaml:"deps"`
	Generator      bool   `yaml:"generator"`
	Pool           string `yaml:"pool"`
	Restat         bool   `yaml:"restat"`
	Rspfile        string `yaml:"rspfile"`
	RspfileContent string `yaml:"rspfile_content"`

	AllowNonIdenticalDuplicates bool `yaml:"allow_non_identical_duplicates"`
}

type build struct {
	Rule            string          `yaml:"rule"`
	Outputs         pathList        `yaml:"outputs"`
	Inputs          pathList        `yaml:"inputs"`
	Implicit        pathList        `yaml:"implicit"`
	OrderOnly       pathList        `yaml:"order_only"`
	ImplicitOutputs pathList        `yaml:"implicit_outputs"`
	Pool            string          `yaml:"pool"`
	Dyndep          string          `yaml:"dyndep"`
	Args            map[string]text `yaml:"args"`
}

type manifest struct {
	Path string `yaml:"path"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses each file in order and merges the results.
func (l *Loader) Load(ctx context.Context, tracker config.Tracker, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}
	for _, file := range files {
		data, err := tracker.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		m, err := Parse(file, data)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		logger.Debug("YAML file loaded.", "file", file, "rules", len(m.Rules), "builds", len(m.Builds))
	}
	return model, nil
}

// Parse translates one YAML document. Unknown keys are rejected.
func Parse(file string, data []byte) (*config.Model, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML file %s: %w", file, err)
	}

	model := &config.Model{RequiredVersion: doc.RequiredVersion}
	for i, v := range doc.Variables {
		if v.Name == "" {
			return nil, fmt.Errorf("%s: variables[%d]: name is required", file, i)
		}
		model.Variables = append(model.Variables, &config.Variable{
			Name:   v.Name,
			Value:  string(v.Value),
			Origin: fmt.Sprintf("%s:variables[%d]", file, i),
		})
	}
	for i, p := range doc.Pools {
		if p.Name == "" || p.Depth == nil {
			return nil, fmt.Errorf("%s: pools[%d]: name and depth are required", file, i)
		}
		model.Pools = append(model.Pools, &config.Pool{
			Name:   p.Name,
			Depth:  *p.Depth,
			Origin: fmt.Sprintf("%s:pools[%d]", file, i),
		})
	}
	for i, r := range doc.Rules {
		if r.Name == "" || r.Command == "" {
			return nil, fmt.Errorf("%s: rules[%d]: name and command are required", file, i)
		}
		model.Rules = append(model.Rules, &config.Rule{
			Name:                        r.Name,
			Command:                     r.Command,
			Description:                 r.Description,
			Outputs:                     r.Outputs,
			Inputs:                      r.Inputs,
			Implicit:                    r.Implicit,
			OrderOnly:                   r.OrderOnly,
			Depfile:                     r.Depfile,
			Deps:                        r.Deps,
			Generator:                   r.Generator,
			Pool:                        r.Pool,
			Restat:                      r.Restat,
			Rspfile:                     r.Rspfile,
			RspfileContent:              r.RspfileContent,
			AllowNonIdenticalDuplicates: r.AllowNonIdenticalDuplicates,
			Origin:                      fmt.Sprintf("%s:rules[%d]", file, i),
		})
	}
	for i, b := range doc.Builds {
		if b.Rule == "" {
			return nil, fmt.Errorf("%s: builds[%d]: rule is required", file, i)
		}
		var args map[string]string
		if b.Args != nil {
			args = make(map[string]string, len(b.Args))
			for k, v := range b.Args {
				args[k] = string(v)
			}
		}
		model.Builds = append(model.Builds, &config.Build{
			Rule:            b.Rule,
			Outputs:         b.Outputs,
			Inputs:          b.Inputs,
			Implicit:        b.Implicit,
			OrderOnly:       b.OrderOnly,
			ImplicitOutputs: b.ImplicitOutputs,
			Pool:            b.Pool,
			Dyndep:          b.Dyndep,
			Args:            args,
			Origin:          fmt.Sprintf("%s:builds[%d]", file, i),
		})
	}
	if len(doc.Defaults) > 0 {
		model.Defaults = append(model.Defaults, &config.Default{
			Targets: []string(doc.Defaults),
			Origin:  file + ":defaults",
		})
	}
	if doc.Manifest != nil {
		model.Manifest = &config.Manifest{Path: doc.Manifest.Path}
	}
	return model, nil
}
