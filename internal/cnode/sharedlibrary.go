package cnode

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// SharedLibraryNode links a set of objects into a shared library. Unlike
// ExecutableNode it also carries its own set of prebuilt libraries to link
// against, added directly rather than gathered from its objects.
type SharedLibraryNode struct {
	graph.Base
	toolchain toolchain.Toolchain
	outDir    *vfs.Handle
	libs      []string
}

// NewSharedLibraryNode builds an empty SharedLibraryNode; objects are
// attached with AddObject and prebuilt libraries with AddLibrary.
func NewSharedLibraryNode(full buildname.Name, tc toolchain.Toolchain, outDir *vfs.Handle) *SharedLibraryNode {
	return &SharedLibraryNode{Base: graph.NewBase(full), toolchain: tc, outDir: outDir}
}

func (s *SharedLibraryNode) AddObject(n graph.Node) {
	s.AddEdge(graph.NewEdge(n, map[string]any{"obj": true}))
}

// AddLibrary records a prebuilt link-library name to pass to the linker.
func (s *SharedLibraryNode) AddLibrary(name string) {
	s.libs = append(s.libs, name)
}

func (s *SharedLibraryNode) objects() []*ObjectNode {
	var out []*ObjectNode
	for _, edge := range graph.Flatten(s.EdgesByAnnotation(map[string]any{"obj": true})) {
		if o, ok := edge.Target.(*ObjectNode); ok {
			out = append(out, o)
		}
	}
	return out
}

func (s *SharedLibraryNode) OutputFile() *vfs.Handle {
	name := s.Name()
	if ext := s.toolchain.SharedLibraryFileExt(); ext != "" {
		name = name + "." + ext
	}
	return s.outDir.Child(name)
}

func (s *SharedLibraryNode) GetInputFile() *vfs.Handle    { return s.OutputFile() }
func (s *SharedLibraryNode) OutputTarget() (string, bool) { return s.OutputFile().Path(), true }
func (s *SharedLibraryNode) IsPhony() bool                { return false }

func (s *SharedLibraryNode) CommandLine(sys platform.System) *shellcmd.Command {
	var paths []string
	for _, o := range s.objects() {
		paths = append(paths, o.OutputFile().Path())
	}
	return s.toolchain.SharedLibraryLinkCommand(s.OutputFile().Path(), paths, s.libs)
}
