package cnode

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// ObjectNode represents a compiled object file built from exactly one
// CSourceNode.
type ObjectNode struct {
	graph.Base
	source    *CSourceNode
	toolchain toolchain.Toolchain
	settings  *settings.Settings
	outDir    *vfs.Handle
	libs      []string
}

// NewObjectNode builds an ObjectNode compiling source under outDir with tc,
// resolving cflags/warnings against s (may be nil).
func NewObjectNode(full buildname.Name, source *CSourceNode, tc toolchain.Toolchain, s *settings.Settings, outDir *vfs.Handle) *ObjectNode {
	o := &ObjectNode{Base: graph.NewBase(full), source: source, toolchain: tc, settings: s, outDir: outDir}
	o.AddEdge(graph.NewEdge(source, map[string]any{"src": true}))
	return o
}

// Source returns the CSourceNode this object compiles.
func (o *ObjectNode) Source() *CSourceNode { return o.source }

// Libs returns the link-library names this object's resolved libraries
// contributed, in resolution order.
func (o *ObjectNode) Libs() []string { return o.libs }

// OutputFile returns the output object handle, named "<sourceName>.<ext>"
// with the source's own extension kept (widget.c -> widget.c.o).
func (o *ObjectNode) OutputFile() *vfs.Handle {
	filename := o.source.Name() + "." + o.toolchain.ObjectFileExt()
	return o.outDir.Child(filename)
}

func (o *ObjectNode) GetInputFile() *vfs.Handle    { return o.OutputFile() }
func (o *ObjectNode) OutputTarget() (string, bool) { return o.OutputFile().Path(), true }
func (o *ObjectNode) IsPhony() bool                { return false }

// ComputedDependencies returns the source file's transitively-resolved
// headers, added to the Makefile target's input list beyond its edges.
func (o *ObjectNode) ComputedDependencies() []*vfs.Handle {
	headers, err := o.source.IncludedHeaders()
	if err != nil {
		return nil
	}
	return headers
}

// AddLibrary resolves name against env's library registry for the given OS
// and applies it: the resolved includes become system includes on the
// source file, and the resolved link-library names are added to this
// object's libs set.
func (o *ObjectNode) AddLibrary(env *graph.Environment, name, os string) error {
	li := env.GetOrCreateLibrary(name)
	inst, err := li.Resolve(os, env.PkgConfig)
	if err != nil {
		return err
	}
	for _, inc := range inst.Includes() {
		o.source.AddSystemInclude(inc)
	}
	o.libs = append(o.libs, inst.Libs()...)
	return nil
}

func (o *ObjectNode) CommandLine(sys platform.System) *shellcmd.Command {
	var includePaths []string
	for _, h := range o.source.Includes() {
		includePaths = append(includePaths, h.Path())
	}
	defines := map[string]string{}
	for _, kv := range o.source.Defines() {
		defines[kv[0]] = kv[1]
	}
	input := toolchain.CompileInput{
		Path:   o.source.GetInputFile().Path(),
		IsCpp:  o.source.IsCpp(),
		ForceC: o.source.ForceC(),
	}
	return o.toolchain.ObjectCompileCommand(o.OutputFile().Path(), input, includePaths, o.source.SystemIncludes(), defines, o.settings)
}
