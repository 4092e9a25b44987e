package config

import "context"

// Tracker resolves and reads files on behalf of a loader and records them
// as generator dependencies. *session.Session implements it.
type Tracker interface {
	// Dir is the directory relative paths are resolved against.
	Dir() string
	ReadFile(path string) ([]byte, error)
	Exists(path string) (bool, error)
	AddGeneratorDep(path string) error
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the given files and translates them into the
	// format-agnostic model. Every read goes through the tracker.
	Load(ctx context.Context, tracker Tracker, files ...string) (*Model, error)
}
