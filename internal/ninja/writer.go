package ninja

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// DefaultWidth is the column at which long lines are wrapped.
const DefaultWidth = 78

// Rule is the body of a rule declaration.
type Rule struct {
	Command        string
	Description    string
	Depfile        string
	Deps           string
	Generator      bool
	Pool           string
	Restat         bool
	Rspfile        string
	RspfileContent string
}

// Build is one build statement.
type Build struct {
	Outputs         []string
	Rule            string
	Inputs          []string
	Implicit        []string
	OrderOnly       []string
	ImplicitOutputs []string
	Pool            string
	Dyndep          string
	Variables       map[string]string
}

// Writer emits Ninja syntax to an underlying stream. The first write error
// is sticky and returned by every later call.
type Writer struct {
	out   io.Writer
	buf   *bufio.Writer
	width int
	err   error
}

// NewWriter returns a Writer wrapping lines at width columns. A width <= 0
// selects DefaultWidth.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Writer{out: w, buf: bufio.NewWriter(w), width: width}
}

// EscapePath escapes the characters that are significant in build lines.
func EscapePath(word string) string {
	word = strings.ReplaceAll(word, "$ ", "$$ ")
	word = strings.ReplaceAll(word, " ", "$ ")
	return strings.ReplaceAll(word, ":", "$:")
}

// Escape escapes every dollar sign so text is taken literally.
func Escape(text string) string {
	return strings.ReplaceAll(text, "$", "$$")
}

// Newline writes an empty separator line.
func (w *Writer) Newline() error {
	return w.write("\n")
}

// Comment writes text as `#` lines wrapped to the writer's width.
func (w *Writer) Comment(text string) error {
	wrapped := wordwrap.WrapString(text, uint(w.width-2))
	for _, line := range strings.Split(wrapped, "\n") {
		if err := w.write(strings.TrimRight("# "+line, " ") + "\n"); err != nil {
			return err
		}
	}
	return w.err
}

// Variable writes `key = value`, indented by indent levels. A value holding
// newlines is written as "$"-continued lines, which ninja reads back as the
// lines joined with spaces.
func (w *Writer) Variable(key, value string, indent int) error {
	if !strings.Contains(value, "\n") {
		return w.line(key+" = "+value, indent)
	}
	pieces := valueLines(value)
	if len(pieces) == 0 {
		return w.line(key+" = ", indent)
	}
	for i, piece := range pieces {
		text, depth := piece, indent+2
		if i == 0 {
			text, depth = key+" = "+piece, indent
		}
		lines := w.wrap(text, depth)
		if i < len(pieces)-1 {
			lines[len(lines)-1] += " $"
		}
		for _, l := range lines {
			if err := w.write(l + "\n"); err != nil {
				return err
			}
		}
	}
	return w.err
}

// Pool declares a pool with the given depth.
func (w *Writer) Pool(name string, depth int) error {
	if err := w.line("pool "+name, 0); err != nil {
		return err
	}
	return w.Variable("depth", fmt.Sprint(depth), 1)
}

// Rule declares a rule. Empty optional fields are omitted.
func (w *Writer) Rule(name string, r Rule) error {
	_ = w.line("rule "+name, 0)
	_ = w.Variable("command", r.Command, 1)
	optional := []struct{ key, value string }{
		{"description", r.Description},
		{"depfile", r.Depfile},
		{"generator", flag(r.Generator)},
		{"pool", r.Pool},
		{"restat", flag(r.Restat)},
		{"rspfile", r.Rspfile},
		{"rspfile_content", r.RspfileContent},
		{"deps", r.Deps},
	}
	for _, o := range optional {
		if o.value != "" {
			_ = w.Variable(o.key, o.value, 1)
		}
	}
	return w.err
}

// Build writes a build statement followed by its bound variables in key
// order.
func (w *Writer) Build(b Build) error {
	outs := escapeAll(b.Outputs)
	if len(b.ImplicitOutputs) > 0 {
		outs = append(outs, "|")
		outs = append(outs, escapeAll(b.ImplicitOutputs)...)
	}
	ins := append([]string{b.Rule}, escapeAll(b.Inputs)...)
	if len(b.Implicit) > 0 {
		ins = append(ins, "|")
		ins = append(ins, escapeAll(b.Implicit)...)
	}
	if len(b.OrderOnly) > 0 {
		ins = append(ins, "||")
		ins = append(ins, escapeAll(b.OrderOnly)...)
	}

	_ = w.line(fmt.Sprintf("build %s: %s", strings.Join(outs, " "), strings.Join(ins, " ")), 0)
	if b.Pool != "" {
		_ = w.Variable("pool", b.Pool, 1)
	}
	if b.Dyndep != "" {
		_ = w.Variable("dyndep", b.Dyndep, 1)
	}
	keys := make([]string, 0, len(b.Variables))
	for k := range b.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = w.Variable(k, b.Variables[k], 1)
	}
	return w.err
}

// Default writes a default statement.
func (w *Writer) Default(paths ...string) error {
	return w.line("default "+strings.Join(escapeAll(paths), " "), 0)
}

// Flush writes buffered output to the underlying stream.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.buf.Flush()
	return w.err
}

// Close flushes and, if the underlying stream is an io.Closer, closes it.
func (w *Writer) Close() error {
	err := w.Flush()
	if c, ok := w.out.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// line writes text, wrapping at spaces that are not escaped.
func (w *Writer) line(text string, indent int) error {
	for _, l := range w.wrap(text, indent) {
		if err := w.write(l + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// wrap splits text into physical lines no wider than the writer's width
// where possible. Every line but the last ends in a " $" continuation, and
// continuation lines are indented two levels deeper than the first.
func (w *Writer) wrap(text string, indent int) []string {
	var lines []string
	leading := strings.Repeat("  ", indent)
	for len(leading)+len(text) > w.width {
		available := w.width - len(leading) - len(" $")
		space := max(available, 0)
		for {
			space = strings.LastIndex(text[:space], " ")
			if space < 0 || dollarsBefore(text, space)%2 == 0 {
				break
			}
		}
		if space < 0 {
			space = max(available-1, -1)
			for {
				next := strings.Index(text[space+1:], " ")
				if next < 0 {
					space = -1
					break
				}
				space += 1 + next
				if dollarsBefore(text, space)%2 == 0 {
					break
				}
			}
		}
		if space < 0 {
			break
		}
		lines = append(lines, leading+text[:space]+" $")
		text = text[space+1:]
		leading = strings.Repeat("  ", indent+2)
	}
	return append(lines, leading+text)
}

// valueLines splits a multi-line value into the pieces ninja joins back with
// single spaces. Blank lines are dropped since a blank line after a "$"
// continuation would end the declaration. A piece already ending in an
// unescaped "$" loses it, the continuation is added by the writer.
func valueLines(value string) []string {
	var pieces []string
	for i, piece := range strings.Split(value, "\n") {
		piece = strings.TrimRight(piece, " \t\r")
		if i > 0 {
			piece = strings.TrimLeft(piece, " \t")
		}
		if dollarsBefore(piece, len(piece))%2 == 1 {
			piece = strings.TrimRight(piece[:len(piece)-1], " \t")
		}
		if piece != "" {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

func (w *Writer) write(s string) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.buf.WriteString(s)
	return w.err
}

func dollarsBefore(s string, i int) int {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '$'; j-- {
		n++
	}
	return n
}

func escapeAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, EscapePath(p))
	}
	return out
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return ""
}
