package session

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// AddGeneratorDep makes the graph regenerate itself when path changes.
func (s *Session) AddGeneratorDep(p string) error {
	rel, err := s.deps.Add(s.abs(p))
	if err != nil {
		return err
	}
	s.logger.Debug("Generator dependency added.", "path", rel)
	return nil
}

// Open opens path for reading and records it as a generator dependency. When
// path does not exist its directory is recorded instead, so that creating the
// file later triggers regeneration, and the not-found error is returned.
func (s *Session) Open(p string) (*os.File, error) {
	f, err := os.Open(s.abs(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if derr := s.AddGeneratorDep(filepath.Dir(s.abs(p))); derr != nil {
				return nil, errors.Join(err, derr)
			}
		}
		return nil, err
	}
	if err := s.AddGeneratorDep(p); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// ReadFile reads path with the same tracking as Open.
func (s *Session) ReadFile(p string) ([]byte, error) {
	f, err := s.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return buf.Bytes(), nil
}

// Exists reports whether path exists. The file is tracked when present and
// its directory when absent.
func (s *Session) Exists(p string) (bool, error) {
	_, err := os.Stat(s.abs(p))
	switch {
	case err == nil:
		return true, s.AddGeneratorDep(p)
	case errors.Is(err, fs.ErrNotExist):
		return false, s.AddGeneratorDep(filepath.Dir(s.abs(p)))
	default:
		return false, err
	}
}

// Create registers path as a target of the graph and opens it for writing.
func (s *Session) Create(p string) (*os.File, error) {
	if err := s.AddTarget(p); err != nil {
		return nil, err
	}
	return os.Create(s.abs(p))
}

// WriteManifest writes every known target, relative to the manifest's own
// directory, one per line. The default location is <builddir>/.gitignore.
// It returns the path written.
func (s *Session) WriteManifest(p string) (string, error) {
	if p == "" {
		p = path.Join(s.opts.BuildDir, ".gitignore")
	}
	if err := s.AddTarget(p); err != nil {
		return "", err
	}

	dir := filepath.Dir(s.abs(p))
	var buf bytes.Buffer
	for _, target := range s.targets.Paths() {
		rel, err := filepath.Rel(dir, s.abs(target))
		if err != nil {
			return "", fmt.Errorf("manifest entry %q: %w", target, err)
		}
		buf.WriteString(filepath.ToSlash(rel))
		buf.WriteByte('\n')
	}
	if err := writeFileAtomic(s.abs(p), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	s.logger.Info("Manifest written.", "path", p, "entries", s.targets.Len())
	return p, nil
}

// writeFileAtomic replaces name with data through a temporary sibling file.
func writeFileAtomic(name string, data []byte, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	tmp := name + "~"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// WriteFile does not apply perm to an existing file.
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
