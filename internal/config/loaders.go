package config

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
)

// Loaders dispatches configuration files to a Loader by file extension
// (".hcl", ".yaml"). It is itself a Loader that also accepts directories.
type Loaders map[string]Loader

// Extensions returns the registered extensions in sorted order.
func (l Loaders) Extensions() []string {
	exts := make([]string, 0, len(l))
	for ext := range l {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load discovers the files under paths and hands each loader all of its
// files in a single call, so declarations in one format may refer to each
// other across files. Loaders run in the order their first file appears.
func (l Loaders) Load(ctx context.Context, tracker Tracker, paths ...string) (*Model, error) {
	files, err := Discover(ctx, tracker, l.Extensions(), paths...)
	if err != nil {
		return nil, err
	}

	var order []Loader
	groups := make(map[Loader][]string)
	for _, f := range files {
		loader := l[filepath.Ext(f)]
		if !slices.Contains(order, loader) {
			order = append(order, loader)
		}
		groups[loader] = append(groups[loader], f)
	}

	model := &Model{}
	for _, loader := range order {
		m, err := loader.Load(ctx, tracker, groups[loader]...)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(m); err != nil {
			return nil, err
		}
	}
	return model, nil
}
