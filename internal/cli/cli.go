package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/ninjagen/internal/app"
)

// DefaultConfigPath is read when no configuration path is given.
const DefaultConfigPath = "ninjagen.hcl"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments, not including the program name.
// It returns a populated Config, a boolean indicating if the program should
// exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ninjagen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ninjagen - Generates ninja build files from declarative HCL or YAML graphs.

Usage:
  ninjagen [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    .hcl, .yaml or .yml files, or directories containing them.
    Defaults to `+DefaultConfigPath+`.

Options:
`)
		flagSet.PrintDefaults()
	}

	outFlag := flagSet.String("o", "build.ninja", "Path of the generated ninja file.")
	buildDirFlag := flagSet.String("builddir", "_build", "Value of the builddir variable.")
	standaloneFlag := flagSet.Bool("standalone", true, "Regenerate the ninja file when its inputs change.")
	debugFlag := flagSet.Bool("debug", false, "Annotate every build statement with where it was declared.")
	strictFlag := flagSet.Bool("strict", false, "Reject conflicting build statements even for tolerant rules.")
	gitignoreFlag := flagSet.Bool("gitignore", false, "Write <builddir>/.gitignore listing every generated file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := flagSet.Args()
	if len(paths) == 0 {
		paths = []string{DefaultConfigPath}
	}
	slog.Debug("Configuration paths determined.", "paths", paths)

	config, err := app.NewConfig(app.Config{
		ConfigPaths: paths,
		NinjaFile:   *outFlag,
		BuildDir:    *buildDirFlag,
		Standalone:  *standaloneFlag,
		Debug:       *debugFlag,
		Strict:      *strictFlag,
		Gitignore:   *gitignoreFlag,
		LogFormat:   strings.ToLower(*logFormatFlag),
		LogLevel:    strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		// Validation problems are usage errors too.
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
