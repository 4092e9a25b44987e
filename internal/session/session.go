package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/gendeps"
	"github.com/specialistvlad/ninjagen/internal/ninja"
	"github.com/specialistvlad/ninjagen/internal/registry"
)

const (
	// ForceTarget is a phony target that is always out of date.
	ForceTarget = ".FORCE"
	// ConfigureRule regenerates the build file. It exists only in
	// standalone sessions.
	ConfigureRule = "configure"
)

// Session is one generation run. See the package documentation for the
// lifecycle.
type Session struct {
	opts   Options
	logger *slog.Logger

	dir      string
	final    string
	temp     string
	file     *os.File
	w        GraphWriter
	closed   bool
	required *semver.Version

	globals map[string]string
	rules   map[string]ninja.Rule
	pools   map[string]int
	targets *registry.Registry
	deps    *gendeps.Set
}

// New opens the temporary build file and writes the preamble every graph
// carries: builddir, the .FORCE phony target and, for standalone sessions,
// the reconfigure machinery.
func New(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx).With("ninja_file", opts.NinjaFile)

	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:    opts,
		logger:  logger,
		dir:     dir,
		globals: make(map[string]string),
		rules:   make(map[string]ninja.Rule),
		pools:   make(map[string]int),
		targets: registry.New(),
		deps:    gendeps.New(dir),
	}
	s.final = s.abs(opts.NinjaFile)
	s.temp = s.final + "~"

	s.file, err = os.Create(s.temp)
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary build file: %w", err)
	}
	// The session owns the file; the writer only sees its Write method.
	s.w = opts.NewWriter(struct{ io.Writer }{s.file}, opts.Width)

	if err := s.preamble(); err != nil {
		_ = s.Abort()
		return nil, err
	}
	logger.Debug("Session opened.", "temp", s.temp, "standalone", opts.Standalone)
	return s, nil
}

func (s *Session) preamble() error {
	selfDeps := s.opts.SelfDeps
	if selfDeps == nil {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate generator executable: %w", err)
		}
		selfDeps = []string{exe}
	}
	for _, dep := range selfDeps {
		if err := s.AddGeneratorDep(dep); err != nil {
			return err
		}
	}

	if s.opts.RequiredVersion != "" {
		if err := s.RequireVersion(s.opts.RequiredVersion); err != nil {
			return err
		}
	}
	if err := s.Variable("builddir", s.opts.BuildDir); err != nil {
		return err
	}
	if _, err := s.Build(Statement{Outputs: []string{ForceTarget}, Rule: "phony"}, false); err != nil {
		return err
	}

	if s.opts.Standalone {
		if err := s.writeReconfigure(); err != nil {
			return err
		}
	}

	for _, name := range []string{".ninja_deps", ".ninja_log"} {
		if err := s.AddTarget(path.Join(s.opts.BuildDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Close emits the self-regeneration statement, flushes the writer and
// renames the temporary file over the build file. Calling Close again, or
// after Abort, does nothing.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	var err error
	if s.opts.Standalone {
		_, err = s.Build(Statement{
			Outputs: []string{s.opts.NinjaFile},
			Rule:    ConfigureRule,
			Inputs:  s.deps.Sorted(),
		}, false)
	}
	s.closed = true

	if werr := s.w.Close(); err == nil {
		err = werr
	}
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	if err != nil {
		_ = os.Remove(s.temp)
		return fmt.Errorf("failed to finish %s: %w", s.opts.NinjaFile, err)
	}

	if err := os.Rename(s.temp, s.final); err != nil {
		_ = os.Remove(s.temp)
		return fmt.Errorf("failed to commit %s: %w", s.opts.NinjaFile, err)
	}
	s.logger.Info("Build file written.", "path", s.final, "targets", s.targets.Len(), "rules", len(s.rules), "generator_deps", s.deps.Len())
	return nil
}

// Abort discards the temporary file, leaving any previously committed build
// file untouched. Calling Abort after Close does nothing.
func (s *Session) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.w.Close()
	_ = s.file.Close()
	if err := os.Remove(s.temp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.logger.Debug("Session aborted, temporary build file removed.", "temp", s.temp)
	return nil
}

// Closed reports whether Close or Abort has run.
func (s *Session) Closed() bool {
	return s.closed
}

// Variable sets a global variable. Setting it again to the same value is a
// no-op; a different value is a *RedefinitionError.
func (s *Session) Variable(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	if existing, ok := s.globals[key]; ok {
		if existing != value {
			return &RedefinitionError{Kind: "variable", Name: key, Existing: existing, New: value}
		}
		return nil
	}
	s.globals[key] = value
	s.logger.Debug("Global variable declared.", "name", key, "value", value)
	return s.w.Variable(key, value, 0)
}

// RequireVersion declares the minimum ninja version able to read the graph.
// Statements using features newer than v are rejected from then on.
func (s *Session) RequireVersion(v string) error {
	required, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("invalid ninja_required_version %q: %w", v, err)
	}
	if err := s.Variable("ninja_required_version", v); err != nil {
		return err
	}
	s.required = required
	return nil
}

// Global returns the value of a global variable.
func (s *Session) Global(key string) (string, bool) {
	v, ok := s.globals[key]
	return v, ok
}

// Globals returns a copy of the global variable table.
func (s *Session) Globals() map[string]string {
	return maps.Clone(s.globals)
}

// Targets returns every registered target path in registration order.
func (s *Session) Targets() []string {
	return s.targets.Paths()
}

// GeneratorDeps returns the generator dependencies in sorted order.
func (s *Session) GeneratorDeps() []string {
	return s.deps.Sorted()
}

// Rule returns the definition registered under name.
func (s *Session) Rule(name string) (ninja.Rule, bool) {
	r, ok := s.rules[name]
	return r, ok
}

// Rules returns a copy of the rule table.
func (s *Session) Rules() map[string]ninja.Rule {
	return maps.Clone(s.rules)
}

// OutputPath returns the absolute path of the build file.
func (s *Session) OutputPath() string {
	return s.final
}

// BuildDir returns the build directory as declared in the graph.
func (s *Session) BuildDir() string {
	return s.opts.BuildDir
}

// Dir returns the absolute working directory of the run.
func (s *Session) Dir() string {
	return s.dir
}

// abs resolves p against the session directory.
func (s *Session) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, filepath.FromSlash(p))
}
