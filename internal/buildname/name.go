// Package buildname implements the segmented node identifier used throughout
// the build graph.
package buildname

import "strings"

// Name is an immutable, ordered sequence of string parts. Two names are equal
// iff their parts are equal, and they order lexicographically over parts.
type Name struct {
	parts []string
}

// Of builds a Name from the given parts.
func Of(parts ...string) Name {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return Name{parts: cp}
}

// Append returns a new name consisting of this name followed by the given parts.
func (n Name) Append(parts ...string) Name {
	out := make([]string, 0, len(n.parts)+len(parts))
	out = append(out, n.parts...)
	out = append(out, parts...)
	return Name{parts: out}
}

// Prepend returns a new name consisting of the given prefix followed by this name.
func (n Name) Prepend(prefix ...string) Name {
	out := make([]string, 0, len(prefix)+len(n.parts))
	out = append(out, prefix...)
	out = append(out, n.parts...)
	return Name{parts: out}
}

// Parts returns the parts making up this name.
func (n Name) Parts() []string {
	return n.parts
}

// LastPart returns the last part of the name, e.g. "c" for "a::b::c".
func (n Name) LastPart() string {
	if len(n.parts) == 0 {
		return ""
	}
	return n.parts[len(n.parts)-1]
}

// Equal reports whether two names have structurally identical parts.
func (n Name) Equal(other Name) bool {
	if len(n.parts) != len(other.parts) {
		return false
	}
	for i, p := range n.parts {
		if p != other.parts[i] {
			return false
		}
	}
	return true
}

// Compare orders names lexicographically over their parts, returning a value
// <0, 0, >0 as n is less than, equal to, or greater than other.
func (n Name) Compare(other Name) int {
	for i := 0; i < len(n.parts) && i < len(other.parts); i++ {
		if n.parts[i] != other.parts[i] {
			if n.parts[i] < other.parts[i] {
				return -1
			}
			return 1
		}
	}
	return len(n.parts) - len(other.parts)
}

// String renders the name as "a::b::c".
func (n Name) String() string {
	return strings.Join(n.parts, "::")
}
