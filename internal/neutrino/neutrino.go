// Package neutrino implements the node kinds for building Neutrino language
// artifacts: a thin source-file wrapper, and library/program binaries built
// by invoking a compiler executable with a structured option vector.
package neutrino

import (
	"fmt"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// CommandBuilderProvider is implemented by whatever node kind a binary's
// compiler=true dependency resolves to — a prebuilt tool (graph.FileNode) or
// one built from source (cnode.ExecutableNode) — letting NLibrary/NProgram
// extend its own command line with their option vector.
type CommandBuilderProvider interface {
	RunCommandBuilder(sys platform.System) platform.CommandBuilder
}

// SourceNode wraps a Neutrino source file with no command of its own.
type SourceNode struct {
	graph.Base
	handle *vfs.Handle
}

// NewSourceNode wraps handle as a Neutrino source under full.
func NewSourceNode(full buildname.Name, handle *vfs.Handle) *SourceNode {
	return &SourceNode{Base: graph.NewBase(full), handle: handle}
}

func (s *SourceNode) GetInputFile() *vfs.Handle                        { return s.handle }
func (s *SourceNode) OutputTarget() (string, bool)                     { return "", false }
func (s *SourceNode) CommandLine(sys platform.System) *shellcmd.Command { return nil }
func (s *SourceNode) IsPhony() bool                                    { return false }

// binary holds the bookkeeping shared by NLibrary and NProgram: an output
// extension, the compiler dependency, and manifest inputs.
type binary struct {
	graph.Base
	outDir *vfs.Handle
	ext    string
}

func newBinary(full buildname.Name, outDir *vfs.Handle, ext string) binary {
	return binary{Base: graph.NewBase(full), outDir: outDir, ext: ext}
}

func (b *binary) OutputFile() *vfs.Handle {
	return b.outDir.Child(fmt.Sprintf("%s.%s", b.Name(), b.ext))
}

func (b *binary) GetInputFile() *vfs.Handle    { return b.OutputFile() }
func (b *binary) OutputTarget() (string, bool) { return b.OutputFile().Path(), true }
func (b *binary) IsPhony() bool                { return false }

func (b *binary) compiler() CommandBuilderProvider {
	for _, e := range b.Edges() {
		if e.HasAnnotations(map[string]any{"compiler": true}) {
			if p, ok := e.Target.(CommandBuilderProvider); ok {
				return p
			}
		}
	}
	return nil
}

func (b *binary) manifestPaths() []string {
	var out []string
	for _, e := range graph.Flatten(b.EdgesByAnnotation(map[string]any{"manifest": true})) {
		if f := e.Target.GetInputFile(); f != nil {
			out = append(out, f.Path())
		}
	}
	return out
}

// NLibrary compiles a set of manifests into a Neutrino library (.nl).
type NLibrary struct {
	binary
}

// NewNLibrary builds an empty NLibrary; call SetCompiler and AddManifest
// before CommandLine is invoked.
func NewNLibrary(full buildname.Name, outDir *vfs.Handle) *NLibrary {
	return &NLibrary{binary: newBinary(full, outDir, "nl")}
}

// SetCompiler records the compiler dependency used to build this library.
func (l *NLibrary) SetCompiler(n graph.Node) *NLibrary {
	l.AddEdge(graph.NewEdge(n, map[string]any{"compiler": true}))
	return l
}

// AddManifest adds a module manifest to include in the library.
func (l *NLibrary) AddManifest(n graph.Node) *NLibrary {
	l.AddEdge(graph.NewEdge(n, map[string]any{"manifest": true}))
	return l
}

func (l *NLibrary) CommandLine(sys platform.System) *shellcmd.Command {
	compiler := l.compiler()
	if compiler == nil {
		return shellcmd.Empty()
	}
	builder := compiler.RunCommandBuilder(sys)
	args := append([]string{"--compile", "{", "--build_library", "{", "--out", quote(l.OutputFile().Path()),
		"--modules", "["}, quoteAll(l.manifestPaths())...)
	args = append(args, "]", "}", "}")
	return builder.AddArguments(args...).SetComment("Building " + l.FullName().String()).Build()
}

// NProgram compiles a single source file plus module dependencies into a
// Neutrino program (.np).
type NProgram struct {
	binary
}

// NewNProgram builds an empty NProgram; call SetCompiler, AddSource, and
// AddModule before CommandLine is invoked.
func NewNProgram(full buildname.Name, outDir *vfs.Handle) *NProgram {
	return &NProgram{binary: newBinary(full, outDir, "np")}
}

func (p *NProgram) SetCompiler(n graph.Node) *NProgram {
	p.AddEdge(graph.NewEdge(n, map[string]any{"compiler": true}))
	return p
}

// AddSource sets the single Neutrino source file this program is built from.
func (p *NProgram) AddSource(n graph.Node) *NProgram {
	p.AddEdge(graph.NewEdge(n, map[string]any{"src": true}))
	return p
}

// AddModule adds a module dependency compiled into this program.
func (p *NProgram) AddModule(n graph.Node) *NProgram {
	p.AddEdge(graph.NewEdge(n, map[string]any{"module": true}))
	return p
}

func (p *NProgram) sourcePaths() []string {
	var out []string
	for _, e := range graph.Flatten(p.EdgesByAnnotation(map[string]any{"src": true})) {
		if f := e.Target.GetInputFile(); f != nil {
			out = append(out, f.Path())
		}
	}
	return out
}

func (p *NProgram) modulePaths() []string {
	var out []string
	for _, e := range graph.Flatten(p.EdgesByAnnotation(map[string]any{"module": true})) {
		if f := e.Target.GetInputFile(); f != nil {
			out = append(out, f.Path())
		}
	}
	return out
}

func (p *NProgram) CommandLine(sys platform.System) *shellcmd.Command {
	compiler := p.compiler()
	if compiler == nil {
		return shellcmd.Empty()
	}
	builder := compiler.RunCommandBuilder(sys)
	args := []string{"--files["}
	args = append(args, quoteAll(p.sourcePaths())...)
	args = append(args, "]", "--compile{", "--modules[")
	args = append(args, quoteAll(p.modulePaths())...)
	args = append(args, "]", "}", "--out", quote(p.OutputFile().Path()))
	return builder.AddArguments(args...).SetComment("Building " + p.FullName().String()).Build()
}

func quote(s string) string { return fmt.Sprintf("%q", s) }

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = quote(s)
	}
	return out
}
