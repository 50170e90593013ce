package cnode

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// MessageResourceNode compiles Windows message-table sources (.mc) into the
// object the linker embeds. On GCC this is a no-op placeholder (message
// resources are a Windows-only concept); on MSVC it runs the two-stage
// mc.exe/rc.exe pipeline. Both behaviors live entirely inside the Toolchain
// implementation, so this node just forwards its src=true inputs.
type MessageResourceNode struct {
	graph.Base
	toolchain toolchain.Toolchain
	outDir    *vfs.Handle
}

// NewMessageResourceNode builds an empty MessageResourceNode; sources are
// attached with AddSource.
func NewMessageResourceNode(full buildname.Name, tc toolchain.Toolchain, outDir *vfs.Handle) *MessageResourceNode {
	return &MessageResourceNode{Base: graph.NewBase(full), toolchain: tc, outDir: outDir}
}

func (m *MessageResourceNode) AddSource(n graph.Node) {
	m.AddEdge(graph.NewEdge(n, map[string]any{"src": true}))
}

func (m *MessageResourceNode) sources() []*vfs.Handle {
	var out []*vfs.Handle
	for _, edge := range graph.Flatten(m.EdgesByAnnotation(map[string]any{"src": true})) {
		if f := edge.Target.GetInputFile(); f != nil {
			out = append(out, f)
		}
	}
	return out
}

func (m *MessageResourceNode) OutputFile() *vfs.Handle {
	name := m.Name()
	if ext := m.toolchain.MessageResourceFileExt(); ext != "" {
		name = name + "." + ext
	}
	return m.outDir.Child(name)
}

func (m *MessageResourceNode) GetInputFile() *vfs.Handle    { return m.OutputFile() }
func (m *MessageResourceNode) OutputTarget() (string, bool) { return m.OutputFile().Path(), true }
func (m *MessageResourceNode) IsPhony() bool                { return false }

func (m *MessageResourceNode) CommandLine(sys platform.System) *shellcmd.Command {
	var paths []string
	for _, h := range m.sources() {
		paths = append(paths, h.Path())
	}
	return m.toolchain.MessageResourceCommand(m.OutputFile().Path(), paths)
}
