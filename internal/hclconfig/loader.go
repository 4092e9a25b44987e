package hclconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// Extension is the file extension this loader reads.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every file, then evaluates variables of all files in order
// before rules, builds and the manifest, so those may refer to any variable.
func (l *Loader) Load(ctx context.Context, tracker config.Tracker, files ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file_count", len(files))

	parser := hclparse.NewParser()
	roots := make([]*fileRoot, 0, len(files))
	for _, file := range files {
		src, err := tracker.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	ev := newEvaluator(tracker)
	model := &config.Model{}
	for _, root := range roots {
		if err := ev.variables(model, root); err != nil {
			return nil, err
		}
	}
	for _, root := range roots {
		if err := ev.declarations(model, root); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "variables", len(model.Variables), "rules", len(model.Rules), "builds", len(model.Builds))
	return model, nil
}
