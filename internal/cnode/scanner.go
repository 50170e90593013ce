// Package cnode implements the C/C++ toolset's node kinds: source files
// with a transitive textual include scanner, compiled objects, linked
// executables and shared libraries, and Windows message resources.
package cnode

import (
	"regexp"
	"sort"

	"github.com/goto10/mkmk/internal/vfs"
)

// includePattern is the more permissive of the two historical include-scan
// regexes (tolerating whitespace around the leading '#' and before
// 'include'), per the Open Question resolution.
var includePattern = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

// scanForIncludeNames reads h's lines and returns the sorted, deduplicated
// set of double-quoted include targets. It is the compute function passed
// to Handle.GetAttribute so results are cached sticky-by-mtime.
func scanForIncludeNames(h *vfs.Handle) (any, error) {
	lines, err := h.ReadLines()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, line := range lines {
		if m := includePattern.FindStringSubmatch(line); m != nil {
			seen[m[1]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// includeNames returns h's direct include-name list, consulting the sticky
// attribute cache keyed by (path, mtime). The cached value may arrive either
// as a native []string (computed this run) or as []interface{} (round-
// tripped through the persisted JSON cache), so both shapes are accepted.
func includeNames(h *vfs.Handle) ([]string, error) {
	v, err := h.GetAttribute("include names", scanForIncludeNames, true)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, e.(string))
		}
		return out, nil
	default:
		return nil, nil
	}
}
