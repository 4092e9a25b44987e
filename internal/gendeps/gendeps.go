// Package gendeps tracks the files whose contents influenced graph
// generation. The generated graph lists them as inputs of its own
// regeneration statement, so touching any of them makes the build executor
// rerun the generator.
package gendeps

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Set is a grow-only set of paths relative to a base directory.
type Set struct {
	base  string
	paths map[string]struct{}
}

// New returns an empty set whose paths are made relative to base.
func New(base string) *Set {
	return &Set{base: base, paths: make(map[string]struct{})}
}

// Normalize returns path relative to base. Relative paths are taken to be
// relative to base already.
func Normalize(base, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", fmt.Errorf("generator dependency %q: %w", path, err)
	}
	return rel, nil
}

// Add inserts path and returns its normalized form.
func (s *Set) Add(path string) (string, error) {
	rel, err := Normalize(s.base, path)
	if err != nil {
		return "", err
	}
	s.paths[rel] = struct{}{}
	return rel, nil
}

// Has reports whether path, once normalized, is in the set.
func (s *Set) Has(path string) bool {
	rel, err := Normalize(s.base, path)
	if err != nil {
		return false
	}
	_, ok := s.paths[rel]
	return ok
}

// Sorted returns the members in lexical order.
func (s *Set) Sorted() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.paths)
}
