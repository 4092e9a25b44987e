package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// ErrNoFiles is returned when the given paths hold no configuration file.
var ErrNoFiles = errors.New("no configuration files found")

// Discover walks the given paths and returns a flat list of every file
// whose extension is in exts, in walk order. Walked directories become
// generator dependencies so that adding a file triggers regeneration. A
// path that does not exist is an error wrapping fs.ErrNotExist.
func Discover(ctx context.Context, tracker Tracker, exts []string, paths ...string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			files = append(files, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		ok, err := tracker.Exists(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !ok {
			return nil, fmt.Errorf("configuration path %s: %w", path, fs.ErrNotExist)
		}

		abs := path
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(tracker.Dir(), path)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if hasExt(path, exts) {
				add(path)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(abs, p)
			if err != nil {
				return err
			}
			shown := filepath.Join(path, rel)
			if d.IsDir() {
				return tracker.AddGeneratorDep(shown)
			}
			if hasExt(p, exts) {
				add(shown)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	logger.Debug("Discovered configuration files.", "count", len(files))
	return files, nil
}

func hasExt(p string, exts []string) bool {
	ext := filepath.Ext(p)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
