// Package registry records every path the generated graph claims to
// produce, together with the fingerprint of the statement that produces it.
//
// The registry is what keeps the graph consistent: a path may be declared
// again by an identical statement (the configuration logic derived the same
// thing twice), but never by a different one. Paths registered without a
// fingerprint, such as files the generator writes itself or the executor's
// private state files, conflict with every statement.
package registry
