// Package shellcmd builds the shell-command lines that end up as Makefile
// recipe lines.
package shellcmd

import "regexp"

// Command is a sequence of literal shell-command strings plus an optional
// human-readable comment, rendered into Makefile recipe lines.
type Command struct {
	parts   []string
	comment string
}

// New builds a Command from one or more literal shell command-line strings.
func New(parts ...string) *Command {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return &Command{parts: cp}
}

// Empty returns a Command with no parts, i.e. a no-op.
func Empty() *Command {
	return New()
}

// WithComment sets the human-readable comment and returns the command for
// chaining.
func (c *Command) WithComment(comment string) *Command {
	c.comment = comment
	return c
}

// Comment returns the comment, or "" if none was set.
func (c *Command) Comment() string {
	return c.comment
}

// Parts returns the raw, unsilenced command-line strings.
func (c *Command) Parts() []string {
	return c.parts
}

// Actions renders the recipe lines for this command: each literal part
// prefixed with "@" unless noisy is true, with a leading "@echo '<comment>'"
// inserted when a comment is present.
func (c *Command) Actions(noisy bool) []string {
	parts := make([]string, len(c.parts))
	copy(parts, c.parts)
	if !noisy {
		for i, p := range parts {
			parts[i] = "@" + p
		}
	}
	if c.comment != "" {
		parts = append([]string{"@echo '" + c.comment + "'"}, parts...)
	}
	return parts
}

var shellEscapePattern = regexp.MustCompile(`[\s()\\]`)

// Escape escapes a string such that it can be passed as a single argument in
// a shell command: characters matching [\s()\\] are backslash-escaped.
func Escape(s string) string {
	return shellEscapePattern.ReplaceAllStringFunc(s, func(m string) string {
		return "\\" + m
	})
}

// EscapeAll escapes every string in the slice, returning a new slice.
func EscapeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Escape(s)
	}
	return out
}
