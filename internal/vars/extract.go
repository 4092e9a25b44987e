package vars

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	bareRef   = regexp.MustCompile(`\$([A-Za-z0-9_]+)`)
	bracedRef = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)
	badEscape = regexp.MustCompile(`\$[^_{0-9a-zA-Z]`)
)

// SyntaxError reports an unescaped dollar sign that does not start a
// variable reference.
type SyntaxError struct {
	Line   string
	Column int
}

// Error reproduces the offending line with a caret under the bad dollar.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bad $-escape (literal $ must be written as $$)\n%s\n%s^ near here",
		e.Line, strings.Repeat(" ", e.Column))
}

// Set is an unordered set of variable names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts names into the set.
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Union returns a new set with the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// Minus returns the members of s that are not in any of others.
func (s Set) Minus(others ...Set) Set {
	out := make(Set)
outer:
	for n := range s {
		for _, o := range others {
			if o.Has(n) {
				continue outer
			}
		}
		out[n] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Extract returns the names referenced by the templates. Escaped dollars
// are removed before scanning and never count as references.
func Extract(templates ...string) (Set, error) {
	out := make(Set)
	for _, text := range templates {
		for _, segment := range strings.Split(text, "$$") {
			for _, m := range bareRef.FindAllStringSubmatch(segment, -1) {
				out[m[1]] = struct{}{}
			}
			for _, m := range bracedRef.FindAllStringSubmatch(segment, -1) {
				out[m[1]] = struct{}{}
			}
			for _, line := range strings.Split(segment, "\n") {
				if loc := badEscape.FindStringIndex(line); loc != nil {
					return nil, &SyntaxError{
						Line:   line,
						Column: utf8.RuneCountInString(line[:loc[0]]),
					}
				}
			}
		}
	}
	return out, nil
}
