package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // hcl/yaml files or directories

	NinjaFile  string
	BuildDir   string
	Standalone bool
	Debug      bool
	Strict     bool
	Gitignore  bool

	// RegenerateCommand is the argv the reconfigure script replays.
	RegenerateCommand []string
	// SelfDeps overrides the generator dependencies registered for the
	// generator itself. Nil means the running executable.
	SelfDeps []string
	// Dir is the working directory of the run. Empty means the process
	// working directory.
	Dir string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and reports every problem at once.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if len(cfg.ConfigPaths) == 0 {
		errs = append(errs, errors.New("at least one configuration path is required"))
	}
	if cfg.NinjaFile == "" {
		errs = append(errs, errors.New("the output ninja file cannot be empty"))
	}
	if cfg.BuildDir == "" {
		errs = append(errs, errors.New("the build directory cannot be empty"))
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", cfg.LogFormat))
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", cfg.LogLevel))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
