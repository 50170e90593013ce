package cnode

import (
	"sort"
	"strings"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

var valgrindCommand = []string{"valgrind", "-q", "--leak-check=full", "--error-exitcode=1"}
var timeCommand = []string{"/usr/bin/time", "-f", "[Time: E%E U%U S%S]"}

// ExecutableNode links a set of objects (added via AddObject, obj=true
// edges, groups flattened) into an executable.
type ExecutableNode struct {
	graph.Base
	toolchain toolchain.Toolchain
	flags     toolchain.CustomFlags
	outDir    *vfs.Handle
}

// NewExecutableNode builds an empty ExecutableNode; objects are attached
// with AddObject.
func NewExecutableNode(full buildname.Name, tc toolchain.Toolchain, flags toolchain.CustomFlags, outDir *vfs.Handle) *ExecutableNode {
	return &ExecutableNode{Base: graph.NewBase(full), toolchain: tc, flags: flags, outDir: outDir}
}

// AddObject adds an object file (or a group of them) to be linked into this
// executable.
func (e *ExecutableNode) AddObject(n graph.Node) {
	e.AddEdge(graph.NewEdge(n, map[string]any{"obj": true}))
}

func (e *ExecutableNode) objects() []*ObjectNode {
	var out []*ObjectNode
	for _, edge := range graph.Flatten(e.EdgesByAnnotation(map[string]any{"obj": true})) {
		if o, ok := edge.Target.(*ObjectNode); ok {
			out = append(out, o)
		}
	}
	return out
}

func (e *ExecutableNode) OutputFile() *vfs.Handle {
	name := e.Name()
	if ext := e.toolchain.ExecutableFileExt(); ext != "" {
		name = name + "." + ext
	}
	return e.outDir.Child(name)
}

func (e *ExecutableNode) GetInputFile() *vfs.Handle    { return e.OutputFile() }
func (e *ExecutableNode) OutputTarget() (string, bool) { return e.OutputFile().Path(), true }
func (e *ExecutableNode) IsPhony() bool                { return false }

func (e *ExecutableNode) CommandLine(sys platform.System) *shellcmd.Command {
	objs := e.objects()
	pathSet := map[string]bool{}
	libSet := map[string]bool{}
	for _, o := range objs {
		pathSet[o.OutputFile().Path()] = true
		for _, l := range o.Libs() {
			libSet[l] = true
		}
	}
	paths := sortedKeys(pathSet)
	libs := sortedKeys(libSet)
	return e.toolchain.ExecutableLinkCommand(e.OutputFile().Path(), paths, libs)
}

// RunCommand builds the command line used to run this executable directly
// (e.g. as an ExecTestCaseNode's runner), optionally wrapped in valgrind
// and/or the timing wrapper.
func (e *ExecutableNode) RunCommand() *shellcmd.Command {
	args := []string{e.OutputFile().Path()}
	if e.flags.Valgrind {
		wrapped := append([]string{}, valgrindCommand...)
		for _, f := range e.flags.ValgrindFlags {
			wrapped = append(wrapped, "--"+f)
		}
		args = append(wrapped, args...)
	}
	if e.flags.Time {
		args = append(append([]string{}, timeCommand...), args...)
	}
	return shellcmd.New(strings.Join(shellcmd.EscapeAll(args), " "))
}

// RunCommandBuilder starts a CommandBuilder invoking this executable as a
// runner, for nodes (e.g. a built neutrino compiler) that take further
// arguments from a dependent node's own command line.
func (e *ExecutableNode) RunCommandBuilder(sys platform.System) platform.CommandBuilder {
	return sys.NewCommandBuilder().AddArguments(e.OutputFile().Path())
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
