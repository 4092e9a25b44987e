// Package ninja writes the Ninja build file syntax: variable assignments,
// pools, rules and build statements, with path escaping and `$`-continued
// line wrapping. It performs no validation; callers hand it data that has
// already been checked.
package ninja
