package registry

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is returned for an empty target path.
var ErrInvalidTarget = errors.New("invalid target filename")

// Result classifies a declaration against what is already registered.
type Result int

const (
	// Fresh means the path has not been declared before.
	Fresh Result = iota
	// Identical means the path was declared by a statement with the same
	// fingerprint.
	Identical
	// Conflict means the path was declared by a different statement.
	Conflict
)

func (r Result) String() string {
	switch r {
	case Fresh:
		return "fresh"
	case Identical:
		return "identical"
	case Conflict:
		return "conflict"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Registry maps target paths to statement fingerprints. The empty
// fingerprint marks a target that was registered outside any statement.
type Registry struct {
	entries map[string]string
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// Check classifies path against the registry without modifying it.
func (r *Registry) Check(path, fingerprint string) (Result, error) {
	if path == "" {
		return Conflict, fmt.Errorf("%w %q", ErrInvalidTarget, path)
	}
	existing, ok := r.entries[path]
	switch {
	case !ok:
		return Fresh, nil
	case existing == fingerprint:
		return Identical, nil
	default:
		return Conflict, nil
	}
}

// Add registers path when it is fresh and reports the classification.
func (r *Registry) Add(path, fingerprint string) (Result, error) {
	res, err := r.Check(path, fingerprint)
	if err != nil || res != Fresh {
		return res, err
	}
	r.entries[path] = fingerprint
	r.order = append(r.order, path)
	return Fresh, nil
}

// CheckAll classifies the outputs of one statement as a unit. The result is
// Fresh or Identical only when every path agrees; otherwise it is Conflict
// and the first path that disagrees is returned with it.
func (r *Registry) CheckAll(paths []string, fingerprint string) (Result, string, error) {
	if len(paths) == 0 {
		return Conflict, "", fmt.Errorf("%w: no outputs", ErrInvalidTarget)
	}
	var overall Result
	for i, p := range paths {
		res, err := r.Check(p, fingerprint)
		if err != nil {
			return Conflict, p, err
		}
		if res == Conflict {
			return Conflict, p, nil
		}
		if i == 0 {
			overall = res
			continue
		}
		if res != overall {
			// Part of the output set is claimed by an identical statement
			// with a different set of outputs.
			if res == Identical {
				return Conflict, p, nil
			}
			return Conflict, paths[0], nil
		}
	}
	return overall, "", nil
}

// AddAll registers every path when the statement is fresh as a unit.
func (r *Registry) AddAll(paths []string, fingerprint string) (Result, string, error) {
	res, conflicting, err := r.CheckAll(paths, fingerprint)
	if err != nil || res != Fresh {
		return res, conflicting, err
	}
	for _, p := range paths {
		if _, ok := r.entries[p]; ok {
			// The same path listed twice in one statement.
			continue
		}
		r.entries[p] = fingerprint
		r.order = append(r.order, p)
	}
	return Fresh, "", nil
}

// Lookup returns the fingerprint registered for path.
func (r *Registry) Lookup(path string) (string, bool) {
	fp, ok := r.entries[path]
	return fp, ok
}

// Paths returns every registered path in registration order.
func (r *Registry) Paths() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	return len(r.order)
}
