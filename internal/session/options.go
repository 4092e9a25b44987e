package session

import (
	"io"

	"github.com/specialistvlad/ninjagen/internal/ninja"
)

// GraphWriter emits already-validated declarations in the build file
// syntax. *ninja.Writer is the production implementation.
type GraphWriter interface {
	Comment(text string) error
	Variable(key, value string, indent int) error
	Pool(name string, depth int) error
	Rule(name string, r ninja.Rule) error
	Build(b ninja.Build) error
	Default(paths ...string) error
	Newline() error
	Close() error
}

// Options configures a Session.
type Options struct {
	// NinjaFile is the build file to produce. Relative paths are resolved
	// against Dir.
	NinjaFile string
	// BuildDir is the value of the builddir variable and the home of the
	// reconfigure script and manifest.
	BuildDir string
	// Standalone makes the graph regenerate itself through a reconfigure
	// script whenever a generator dependency changes.
	Standalone bool
	// Debug writes a provenance comment above every build statement.
	Debug bool
	// StrictDuplicates rejects conflicting declarations even when the
	// caller asked for them to be tolerated.
	StrictDuplicates bool
	// RegenerateCommand is the argv the reconfigure script runs. Defaults
	// to os.Args.
	RegenerateCommand []string
	// SelfDeps are generator dependencies registered at construction.
	// Defaults to the running executable.
	SelfDeps []string
	// RequiredVersion, when set, is written as ninja_required_version.
	RequiredVersion string
	// Width is the line wrapping column.
	Width int
	// Dir is the working directory of the run. Defaults to the process
	// working directory.
	Dir string
	// NewWriter builds the graph writer on top of the temporary file.
	NewWriter func(w io.Writer, width int) GraphWriter
}

// DefaultOptions returns the options of a standalone build.ninja generated
// into _build.
func DefaultOptions() Options {
	return Options{
		NinjaFile:  "build.ninja",
		BuildDir:   "_build",
		Standalone: true,
		Width:      ninja.DefaultWidth,
	}
}

func (o Options) withDefaults() Options {
	if o.NinjaFile == "" {
		o.NinjaFile = "build.ninja"
	}
	if o.BuildDir == "" {
		o.BuildDir = "_build"
	}
	if o.Width <= 0 {
		o.Width = ninja.DefaultWidth
	}
	if o.NewWriter == nil {
		o.NewWriter = func(w io.Writer, width int) GraphWriter {
			return ninja.NewWriter(w, width)
		}
	}
	return o
}
