package vars

import (
	"regexp"
	"strings"
)

var expandRef = regexp.MustCompile(`\$(\$|[ :]|\n[ \t]*|\{[A-Za-z0-9_]+\}|[A-Za-z0-9_]*)`)

// Expand substitutes references in template the way ninja does when it
// loads the file: locals shadow globals and unknown names expand to "".
// The escapes $$, "$ " and $: stand for the character after the dollar, and
// a dollar before a newline joins the next line without its indentation.
func Expand(template string, globals, locals map[string]string) string {
	return expandRef.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1:]
		switch {
		case name == "$", name == " ", name == ":":
			return name
		case strings.HasPrefix(name, "\n"):
			return ""
		}
		name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
		if v, ok := locals[name]; ok {
			return v
		}
		return globals[name]
	})
}

// ExpandAll expands every template in order.
func ExpandAll(templates []string, globals, locals map[string]string) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, Expand(t, globals, locals))
	}
	return out
}

// Dedent removes the indentation shared by every non-blank line. Lines that
// hold only whitespace are emptied.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
