package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/ninjagen/internal/config"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
	"github.com/specialistvlad/ninjagen/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger writing to logW.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   logW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// sessionOptions maps the application configuration onto a session.
func (a *App) sessionOptions() session.Options {
	return session.Options{
		NinjaFile:         a.config.NinjaFile,
		BuildDir:          a.config.BuildDir,
		Standalone:        a.config.Standalone,
		Debug:             a.config.Debug,
		StrictDuplicates:  a.config.Strict,
		RegenerateCommand: a.config.RegenerateCommand,
		SelfDeps:          a.config.SelfDeps,
		Dir:               a.config.Dir,
	}
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
