package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/registry"
)

// ErrClosed is returned by declarations made after Close or Abort.
var ErrClosed = errors.New("session is closed")

// DuplicateTargetError reports a path declared by two different statements.
type DuplicateTargetError struct {
	Path string
	Rule string
}

func (e *DuplicateTargetError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("duplicate target %q", e.Path)
	}
	return fmt.Sprintf("duplicate target %q with different rule (declaring rule %s)", e.Path, e.Rule)
}

// InvalidTargetError reports an empty or missing output path.
type InvalidTargetError struct {
	Outputs []string
	Err     error
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target filename in outputs [%s]: %v", strings.Join(e.Outputs, ", "), e.Err)
}

func (e *InvalidTargetError) Unwrap() error { return e.Err }

func invalidTarget(outputs []string) error {
	return &InvalidTargetError{Outputs: outputs, Err: registry.ErrInvalidTarget}
}

// RedefinitionError reports a global variable, rule or pool declared again with
// different content.
type RedefinitionError struct {
	Kind     string // "variable", "rule" or "pool"
	Name     string
	Existing string
	New      string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("%s %s redefined: setting it to %s when it was already set to %s", e.Kind, e.Name, e.New, e.Existing)
}

// VersionError reports a feature that needs a newer ninja than the one the
// graph declares as required.
type VersionError struct {
	Feature  string
	Needs    string
	Required string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s needs ninja %s but ninja_required_version is %s", e.Feature, e.Needs, e.Required)
}

// UnknownPoolError reports a statement or rule using a pool that was never
// declared.
type UnknownPoolError struct {
	Pool string
	Rule string
}

func (e *UnknownPoolError) Error() string {
	return fmt.Sprintf("unknown pool %q used by rule %s", e.Pool, e.Rule)
}
