package cnode

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// CSourceNode wraps a C/C++ source file. It has no command or output target
// of its own — CTools.GetObject is how a caller turns it into a build step —
// but it owns the include-path configuration and the transitive include
// scanner that ObjectNode's computed dependencies rely on.
type CSourceNode struct {
	graph.Base
	handle         *vfs.Handle
	isCpp          bool
	forceC         bool
	systemIncludes []string
	defines        [][2]string
	includeRoots   []*graph.Edge

	headers         []*vfs.Handle
	headersComputed bool
}

// NewCSourceNode wraps handle as a CSourceNode under full. isCpp is derived
// from the ".cc" filename suffix, matching the original tool's rule.
func NewCSourceNode(full buildname.Name, handle *vfs.Handle) *CSourceNode {
	return &CSourceNode{
		Base:  graph.NewBase(full),
		handle: handle,
		isCpp: strings.HasSuffix(handle.Path(), ".cc"),
	}
}

func (c *CSourceNode) GetInputFile() *vfs.Handle                        { return c.handle }
func (c *CSourceNode) OutputTarget() (string, bool)                     { return "", false }
func (c *CSourceNode) CommandLine(sys platform.System) *shellcmd.Command { return nil }
func (c *CSourceNode) IsPhony() bool                                    { return false }

// IsCpp reports whether this source file was recognized as C++.
func (c *CSourceNode) IsCpp() bool { return c.isCpp }

// SetForceC overrides language detection so the MSVC toolchain emits /Tc
// instead of /Tp even for a source file that looks like C++.
func (c *CSourceNode) SetForceC(v bool) { c.forceC = v }

// ForceC reports the force-C override set by SetForceC.
func (c *CSourceNode) ForceC() bool { return c.forceC }

// AddIncludeRoot adds a node whose input files contribute folders to the
// include search path. Groups are flattened when the path is resolved.
func (c *CSourceNode) AddIncludeRoot(n graph.Node) {
	c.includeRoots = append(c.includeRoots, graph.NewEdge(n, nil))
}

// AddSystemInclude records an absolute system-include path, contributed
// e.g. by ObjectNode.AddLibrary when a resolved library supplies -I flags.
func (c *CSourceNode) AddSystemInclude(path string) {
	c.systemIncludes = append(c.systemIncludes, path)
}

// SystemIncludes returns every system-include path added so far, in
// insertion order.
func (c *CSourceNode) SystemIncludes() []string { return c.systemIncludes }

// AddDefine appends a preprocessor define in insertion order.
func (c *CSourceNode) AddDefine(name, value string) {
	c.defines = append(c.defines, [2]string{name, value})
}

// Defines returns every define added so far, in insertion order.
func (c *CSourceNode) Defines() [][2]string { return c.defines }

// Includes returns the sorted, deduplicated list of local include-root
// folder handles.
func (c *CSourceNode) Includes() []*vfs.Handle {
	seen := map[string]bool{}
	var out []*vfs.Handle
	for _, e := range graph.Flatten(c.includeRoots) {
		f := e.Target.GetInputFile()
		if f == nil || seen[f.Path()] {
			continue
		}
		seen[f.Path()] = true
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// IncludedHeaders returns the transitive closure of headers included from
// this source file, resolved against [source's folder] + Includes(),
// memoized for the lifetime of the node (the closure itself is not sticky-
// cached, only each file's direct scan is — folder sets are context-
// dependent so the closure must be recomputed each process).
func (c *CSourceNode) IncludedHeaders() ([]*vfs.Handle, error) {
	if c.headersComputed {
		return c.headers, nil
	}
	folders := append([]*vfs.Handle{c.handle.Parent()}, c.Includes()...)
	filesScanned := map[string]bool{}
	namesSeen := map[string]bool{}
	headerSet := map[string]*vfs.Handle{}

	var scanFile func(h *vfs.Handle) error
	var resolveInclude func(name string) error

	scanFile = func(h *vfs.Handle) error {
		if !h.Exists() || filesScanned[h.Path()] {
			return nil
		}
		filesScanned[h.Path()] = true
		names, err := includeNames(h)
		if err != nil {
			return nil // scanner errors are non-fatal; best-effort by design
		}
		for _, name := range names {
			if err := resolveInclude(name); err != nil {
				return err
			}
		}
		return nil
	}

	resolveInclude = func(name string) error {
		if namesSeen[name] {
			return nil
		}
		namesSeen[name] = true
		for _, parent := range folders {
			candidate := parent.Child(name)
			if candidate.Exists() {
				if _, ok := headerSet[candidate.Path()]; !ok {
					headerSet[candidate.Path()] = candidate
					if err := scanFile(candidate); err != nil {
						return err
					}
				}
				return nil
			}
		}
		return nil // missing include: outside the project tree, ignored
	}

	if err := scanFile(c.handle); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(headerSet))
	for p := range headerSet {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	headers := make([]*vfs.Handle, 0, len(paths))
	for _, p := range paths {
		headers = append(headers, headerSet[p])
	}
	c.headers = headers
	c.headersComputed = true
	return headers, nil
}

// baseName returns the filename without its extension, e.g. "a.c" -> "a".
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
