package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"runtime"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/registry"
)

// Statement is one build statement.
type Statement struct {
	Outputs         []string
	Rule            string
	Inputs          []string
	Implicit        []string
	OrderOnly       []string
	ImplicitOutputs []string
	Pool            string
	Dyndep          string
	Variables       map[string]string

	// Origin describes where the statement was declared. It is written in
	// the provenance comment and does not take part in the fingerprint.
	Origin string
}

// Outcome says what Build did with a statement.
type Outcome int

const (
	// Written means the statement was new and has been emitted.
	Written Outcome = iota
	// Duplicate means an identical statement had already been emitted.
	Duplicate
	// Tolerated means a different statement already produces the outputs
	// and the caller allowed the first one to stand.
	Tolerated
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Duplicate:
		return "duplicate"
	case Tolerated:
		return "tolerated"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Emission is the result of Build.
type Emission struct {
	Outputs []string
	Outcome Outcome
}

// feature gates for statement fields newer than ninja 1.0
var (
	implicitOutputsSince = semver.MustParse("1.7")
	dyndepSince          = semver.MustParse("1.10")
)

// Fingerprint identifies a statement by its rule, inputs and remaining
// fields. Outputs and Origin are not part of it.
func Fingerprint(st Statement) string {
	h := sha256.New()
	writeField(h, "rule", st.Rule)
	writeList(h, "inputs", st.Inputs)
	// The remaining fields in name order.
	writeField(h, "dyndep", st.Dyndep)
	writeList(h, "implicit", st.Implicit)
	writeList(h, "implicit_outputs", st.ImplicitOutputs)
	writeList(h, "order_only", st.OrderOnly)
	writeField(h, "pool", st.Pool)
	keys := make([]string, 0, len(st.Variables))
	for k := range st.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(h, "variables:%d;", len(keys))
	for _, k := range keys {
		fmt.Fprintf(h, "%q=%q;", k, st.Variables[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, name, value string) {
	fmt.Fprintf(h, "%s:%q;", name, value)
}

func writeList(h hash.Hash, name string, values []string) {
	fmt.Fprintf(h, "%s:%d;", name, len(values))
	for _, v := range values {
		fmt.Fprintf(h, "%q;", v)
	}
}

// Build declares a build statement. An identical redeclaration is a no-op.
// A statement whose outputs are already produced by a different statement
// is a *DuplicateTargetError, unless allowNonIdenticalDuplicates is set, in
// which case the first statement is kept.
func (s *Session) Build(st Statement, allowNonIdenticalDuplicates bool) (Emission, error) {
	if s.closed {
		return Emission{}, ErrClosed
	}
	if len(st.Outputs) == 0 {
		return Emission{}, invalidTarget(st.Outputs)
	}
	// Implicit outputs are written by the statement too, so they are
	// claimed together with the explicit ones.
	claimed := append(append([]string(nil), st.Outputs...), st.ImplicitOutputs...)
	for _, o := range claimed {
		if o == "" {
			return Emission{}, invalidTarget(claimed)
		}
	}
	if err := s.checkFeatures(st); err != nil {
		return Emission{}, err
	}
	if err := s.checkPool(st); err != nil {
		return Emission{}, err
	}

	fp := Fingerprint(st)
	res, conflicting, err := s.targets.CheckAll(claimed, fp)
	if err != nil {
		return Emission{}, invalidTarget(claimed)
	}
	switch res {
	case registry.Identical:
		s.logger.Debug("Identical build statement skipped.", "outputs", st.Outputs, "rule", st.Rule)
		return Emission{Outputs: st.Outputs, Outcome: Duplicate}, nil
	case registry.Conflict:
		if allowNonIdenticalDuplicates && !s.opts.StrictDuplicates {
			existing, _ := s.targets.Lookup(conflicting)
			s.logger.Warn("Conflicting build statement ignored, keeping the first declaration.",
				"target", conflicting, "rule", st.Rule, "fingerprint", fp, "existing_fingerprint", existing, "origin", st.Origin)
			return Emission{Outputs: st.Outputs, Outcome: Tolerated}, nil
		}
		return Emission{}, &DuplicateTargetError{Path: conflicting, Rule: st.Rule}
	}

	if _, _, err := s.targets.AddAll(claimed, fp); err != nil {
		return Emission{}, invalidTarget(claimed)
	}
	if s.opts.Debug {
		if err := s.provenance(st.Origin); err != nil {
			return Emission{}, err
		}
	}
	err = s.w.Build(ninja.Build{
		Outputs:         st.Outputs,
		Rule:            st.Rule,
		Inputs:          st.Inputs,
		Implicit:        st.Implicit,
		OrderOnly:       st.OrderOnly,
		ImplicitOutputs: st.ImplicitOutputs,
		Pool:            st.Pool,
		Dyndep:          st.Dyndep,
		Variables:       st.Variables,
	})
	if err != nil {
		return Emission{}, err
	}
	s.logger.Debug("Build statement written.", "outputs", st.Outputs, "rule", st.Rule)
	return Emission{Outputs: st.Outputs, Outcome: Written}, nil
}

// DefineRule registers a rule and writes it the first time it is seen.
// Redefining a rule with different content is a *RedefinitionError.
func (s *Session) DefineRule(name string, r ninja.Rule) error {
	if s.closed {
		return ErrClosed
	}
	if existing, ok := s.rules[name]; ok {
		if existing != r {
			return &RedefinitionError{
				Kind:     "rule",
				Name:     name,
				Existing: fmt.Sprintf("%+v", existing),
				New:      fmt.Sprintf("%+v", r),
			}
		}
		return nil
	}
	s.rules[name] = r
	if err := s.w.Newline(); err != nil {
		return err
	}
	if err := s.w.Rule(name, r); err != nil {
		return err
	}
	s.logger.Debug("Rule declared.", "rule", name)
	return s.w.Newline()
}

// AddTarget registers a path the graph produces outside any statement, so
// that no statement may claim it later.
func (s *Session) AddTarget(target string) error {
	if s.closed {
		return ErrClosed
	}
	res, err := s.targets.Add(target, "")
	if err != nil {
		return invalidTarget([]string{target})
	}
	if res == registry.Conflict {
		return &DuplicateTargetError{Path: target}
	}
	return nil
}

func (s *Session) checkFeatures(st Statement) error {
	if s.required == nil {
		return nil
	}
	gates := []struct {
		used    bool
		feature string
		since   *semver.Version
	}{
		{len(st.ImplicitOutputs) > 0, "implicit outputs", implicitOutputsSince},
		{st.Dyndep != "", "dyndep", dyndepSince},
	}
	for _, g := range gates {
		if g.used && s.required.LessThan(g.since) {
			return &VersionError{Feature: g.feature, Needs: g.since.Original(), Required: s.required.Original()}
		}
	}
	return nil
}

// provenance writes the "Generated by" comment. Without an explicit origin
// it lists the Go call stack of the declaring code.
func (s *Session) provenance(origin string) error {
	lines := []string{"Generated by:"}
	if origin != "" {
		lines = append(lines, "  "+origin)
	} else {
		lines = append(lines, callers()...)
	}
	for _, l := range lines {
		if err := s.w.Comment(l); err != nil {
			return err
		}
	}
	return nil
}

func callers() []string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	var out []string
	for {
		f, more := frames.Next()
		if strings.HasPrefix(f.Function, "runtime.") || strings.HasPrefix(f.Function, "testing.") {
			break
		}
		if !strings.Contains(f.Function, "/internal/session.(*Session).") {
			out = append(out, fmt.Sprintf("  %s:%d %s", f.File, f.Line, f.Function))
		}
		if !more {
			break
		}
	}
	return out
}
