package session

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/specialistvlad/ninjagen/internal/ninja"
)

// ReconfigurePath returns the reconfigure script location for a build file.
func ReconfigurePath(buildDir, ninjaFile string) string {
	return path.Join(buildDir, "reconfigure-"+filepath.Base(ninjaFile))
}

// writeReconfigure records the generation command in an executable script
// and declares the rule that runs it.
func (s *Session) writeReconfigure() error {
	script := ReconfigurePath(s.opts.BuildDir, s.opts.NinjaFile)
	if err := s.AddTarget(script); err != nil {
		return err
	}

	argv := s.opts.RegenerateCommand
	if len(argv) == 0 {
		argv = os.Args
	}
	argv = append([]string{s.commandPath(argv[0])}, argv[1:]...)

	body := fmt.Sprintf("#!/bin/sh\nexec %s\n", shellescape.QuoteCommand(argv))
	if err := writeFileAtomic(s.abs(script), []byte(body), 0o755); err != nil {
		return fmt.Errorf("failed to write reconfigure script: %w", err)
	}
	s.logger.Debug("Reconfigure script written.", "path", script, "argv", argv)

	return s.DefineRule(ConfigureRule, ninja.Rule{
		Command:     script,
		Description: "Regenerating " + s.opts.NinjaFile,
		Generator:   true,
	})
}

// commandPath makes a command given as a path relative to the session
// directory. Bare command names are left for PATH lookup, and paths outside
// the directory stay as given.
func (s *Session) commandPath(cmd string) string {
	if !strings.ContainsRune(cmd, filepath.Separator) && !strings.ContainsRune(cmd, '/') {
		return cmd
	}
	rel, err := filepath.Rel(s.dir, s.abs(cmd))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cmd
	}
	return "./" + filepath.ToSlash(rel)
}
