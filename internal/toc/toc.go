// Package toc implements the test table-of-contents generator node: it
// shells out to a generator executable over a set of test source files and
// redirects its stdout to the TOC output file.
package toc

import (
	"fmt"
	"strings"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// TocNode runs a generator executable over every test=true input and
// redirects its output to the TOC file.
type TocNode struct {
	graph.Base
	outDir *vfs.Handle
}

// NewTocNode builds an empty TocNode named full; set its generator and test
// inputs with SetGenerator/AddTest before CommandLine is invoked.
func NewTocNode(full buildname.Name, outDir *vfs.Handle) *TocNode {
	return &TocNode{Base: graph.NewBase(full), outDir: outDir}
}

// SetGenerator records the executable that produces the TOC from test files.
func (t *TocNode) SetGenerator(n graph.Node) *TocNode {
	t.AddEdge(graph.NewEdge(n, map[string]any{"generator": true}))
	return t
}

// AddTest adds a test source file to include in the TOC.
func (t *TocNode) AddTest(n graph.Node) *TocNode {
	t.AddEdge(graph.NewEdge(n, map[string]any{"test": true}))
	return t
}

func (t *TocNode) generator() *vfs.Handle {
	for _, e := range t.Edges() {
		if e.HasAnnotations(map[string]any{"generator": true}) {
			return e.Target.GetInputFile()
		}
	}
	return nil
}

func (t *TocNode) testPaths() []string {
	var out []string
	for _, e := range graph.Flatten(t.EdgesByAnnotation(map[string]any{"test": true})) {
		if f := e.Target.GetInputFile(); f != nil {
			out = append(out, f.Path())
		}
	}
	return out
}

func (t *TocNode) OutputFile() *vfs.Handle { return t.outDir.Child(t.Name()) }

func (t *TocNode) GetInputFile() *vfs.Handle    { return t.OutputFile() }
func (t *TocNode) OutputTarget() (string, bool) { return t.OutputFile().Path(), true }
func (t *TocNode) IsPhony() bool                { return false }

func (t *TocNode) CommandLine(sys platform.System) *shellcmd.Command {
	gen := t.generator()
	if gen == nil {
		return shellcmd.Empty()
	}
	infiles := strings.Join(shellcmd.EscapeAll(t.testPaths()), " ")
	line := fmt.Sprintf("%s %s > %s", shellcmd.Escape(gen.Path()), infiles, shellcmd.Escape(t.OutputFile().Path()))
	return shellcmd.New(line)
}
