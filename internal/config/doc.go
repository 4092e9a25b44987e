// Package config defines the format-agnostic model of a graph description,
// along with the Loader interface that the HCL and YAML front ends
// implement.
//
// The `config.Model` is the single source of truth for the `app` package,
// which replays it against a generation session. Concrete loaders live in
// separate packages.
package config
