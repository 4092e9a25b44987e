package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ninjagen/internal/session"
)

// Run generates the build file. Configuration is read through the session
// so every file it touches becomes a generator dependency. On any error the
// previous build file is left untouched.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "config_paths", a.config.ConfigPaths)

	s, err := session.New(ctx, a.sessionOptions())
	if err != nil {
		return fmt.Errorf("failed to start generation: %w", err)
	}
	defer s.Abort()

	model, err := a.loader.Load(ctx, s, a.config.ConfigPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded.", "variables", len(model.Variables), "rules", len(model.Rules), "builds", len(model.Builds))

	stats, err := Apply(ctx, s, model)
	if err != nil {
		return err
	}

	if model.Manifest != nil || a.config.Gitignore {
		var path string
		if model.Manifest != nil {
			path = model.Manifest.Path
		}
		if _, err := s.WriteManifest(path); err != nil {
			return err
		}
	}

	if err := s.Close(); err != nil {
		return err
	}
	a.logger.Info("Generation finished.",
		"output", s.OutputPath(),
		"written", stats.Written,
		"duplicates", stats.Duplicates,
		"tolerated", stats.Tolerated,
	)
	return nil
}
