// Package graph implements the build-graph primitives: nodes dispatched over
// a small capability set rather than deep inheritance, annotated edges,
// group flattening, per-dependency Nodespaces, and the top-level
// Environment that owns the global node registry and library descriptors.
package graph

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// Node is the capability set every build-graph node implements, regardless
// of what kind of artifact it represents. Concrete node kinds live in
// sibling packages (cnode, execnode, neutrino, testrunner, toc) and embed
// Base for the common bookkeeping.
type Node interface {
	Name() string
	FullName() buildname.Name
	Edges() []*Edge
	AddEdge(e *Edge)

	// GetInputFile returns the file this node presents to whatever depends
	// on it: for a FileNode, the wrapped file itself; for a node with an
	// output artifact, that artifact's file handle; for a node with neither
	// (a Group), nil.
	GetInputFile() *vfs.Handle

	// OutputTarget returns the Makefile target string for this node and
	// whether one should be emitted at all. Physical nodes return their
	// output file's path; virtual/alias nodes return their full name
	// joined with "::"; groups and plain file references return ("", false).
	OutputTarget() (string, bool)

	CommandLine(sys platform.System) *shellcmd.Command
	IsPhony() bool

	// ComputedDependencies returns extra input paths beyond those implied
	// by edges — e.g. an ObjectNode's transitively-resolved headers.
	ComputedDependencies() []*vfs.Handle
}

// Base holds the bookkeeping shared by every node kind: its local name, its
// full (nodespace-qualified) name, and its ordered outgoing edges. Concrete
// node kinds embed Base and implement the remaining Node methods themselves.
type Base struct {
	name  string
	full  buildname.Name
	edges []*Edge
}

// NewBase constructs the shared bookkeeping for a node named full.LastPart()
// under the given full name.
func NewBase(full buildname.Name) Base {
	return Base{name: full.LastPart(), full: full}
}

func (b *Base) Name() string             { return b.name }
func (b *Base) FullName() buildname.Name { return b.full }
func (b *Base) Edges() []*Edge           { return b.edges }
func (b *Base) AddEdge(e *Edge)          { b.edges = append(b.edges, e) }

// ComputedDependencies defaults to none; node kinds with extra dependencies
// (ObjectNode, with its source's transitive headers) override it.
func (b *Base) ComputedDependencies() []*vfs.Handle { return nil }

// EdgesByAnnotation returns the subset of edges whose annotations match
// query, per Edge.HasAnnotations.
func (b *Base) EdgesByAnnotation(query map[string]any) []*Edge {
	return Filter(b.edges, query)
}

func (b *Base) FlattenedInputFiles() []*vfs.Handle {
	var out []*vfs.Handle
	for _, e := range Flatten(b.edges) {
		if f := e.Target.GetInputFile(); f != nil {
			out = append(out, f)
		}
	}
	return out
}
