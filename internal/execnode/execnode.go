// Package execnode implements the node kinds that run an arbitrary command:
// CustomExecNode wraps a runner dependency and an argument vector,
// SystemExecNode runs a fixed system command instead of a built runner, and
// CopyNode copies one file to another path.
package execnode

import (
	"fmt"
	"strings"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// Runnable is implemented by any node that can appear as a CustomExecNode's
// runner: it must be able to render its own path as a command-line token.
// FileNode, ExecutableNode and CustomExecNode itself all satisfy this.
type Runnable interface {
	graph.Node
}

// CustomExecNode runs an external command built from a runner dependency
// (runner=true edge) plus a fixed argument vector, optionally redirecting
// combined output to its output file via System.SafeTee.
type CustomExecNode struct {
	graph.Base
	outDir    *vfs.Handle
	subject   string
	args      []string
	env       []platform.EnvBinding
	title     string
	teeOutput bool
}

// NewCustomExecNode builds a CustomExecNode whose output file is named
// subject under outDir. The runner is set separately with SetRunner.
func NewCustomExecNode(full buildname.Name, subject string, outDir *vfs.Handle) *CustomExecNode {
	return &CustomExecNode{Base: graph.NewBase(full), subject: subject, outDir: outDir}
}

// SetRunner records the node whose run command line is invoked.
func (c *CustomExecNode) SetRunner(n graph.Node) *CustomExecNode {
	c.AddEdge(graph.NewEdge(n, map[string]any{"runner": true}))
	return c
}

// SetTitle overrides the default "Running <name>" comment.
func (c *CustomExecNode) SetTitle(title string) *CustomExecNode {
	c.title = title
	return c
}

// SetArguments sets the fixed argument vector passed to the runner.
func (c *CustomExecNode) SetArguments(args ...string) *CustomExecNode {
	c.args = args
	return c
}

// AddEnv appends a replace-mode environment binding applied to the command.
func (c *CustomExecNode) AddEnv(key, value string) *CustomExecNode {
	c.env = append(c.env, platform.EnvBinding{Name: key, Value: value, Mode: platform.EnvReplace})
	return c
}

// Arguments returns the argument vector set by SetArguments.
func (c *CustomExecNode) Arguments() []string { return c.args }

// ShouldTeeOutput reports whether successful output should be captured and
// echoed via the output file. testrunner.ExecTestCaseNode turns it on via
// SetTeeOutput.
func (c *CustomExecNode) ShouldTeeOutput() bool { return c.teeOutput }

// SetTeeOutput flips ShouldTeeOutput; exported so embedding node kinds (e.g.
// testrunner.ExecTestCaseNode) can turn it on at construction.
func (c *CustomExecNode) SetTeeOutput(v bool) { c.teeOutput = v }

func (c *CustomExecNode) runnerNode() graph.Node {
	for _, e := range c.Edges() {
		if e.HasAnnotations(map[string]any{"runner": true}) {
			return e.Target
		}
	}
	return nil
}

// RunnerCommand returns the command-line token invoking this node's runner.
// SystemExecNode overrides this with a fixed command string.
func (c *CustomExecNode) RunnerCommand(sys platform.System) string {
	runner := c.runnerNode()
	if runner == nil {
		return ""
	}
	if f := runner.GetInputFile(); f != nil {
		return f.Path()
	}
	return ""
}

func (c *CustomExecNode) OutputFile() *vfs.Handle { return c.outDir.Child(c.subject) }

func (c *CustomExecNode) GetInputFile() *vfs.Handle    { return c.OutputFile() }
func (c *CustomExecNode) OutputTarget() (string, bool) { return c.OutputFile().Path(), true }
func (c *CustomExecNode) IsPhony() bool                { return false }

// ComputedDependencies defaults to none; overridden where a node kind has
// extra implicit dependencies.
func (c *CustomExecNode) ComputedDependencies() []*vfs.Handle { return nil }

func (c *CustomExecNode) CommandLine(sys platform.System) *shellcmd.Command {
	return c.commandLine(sys, c.RunnerCommand(sys), c.OutputFile().Path())
}

func (c *CustomExecNode) commandLine(sys platform.System, runner, outputPath string) *shellcmd.Command {
	args := strings.Join(shellcmd.EscapeAll(c.args), " ")
	line := strings.TrimSpace(fmt.Sprintf("%s %s", runner, args))
	if len(c.env) > 0 {
		line = sys.RunWithEnvironment(line, c.env)
	}

	var cmd *shellcmd.Command
	if c.teeOutput {
		cmd = sys.SafeTee(line, outputPath)
	} else {
		cmd = shellcmd.New(line)
	}

	title := c.title
	if title == "" {
		title = "Running " + c.FullName().String()
	}
	return cmd.WithComment(title)
}

// CommandLineForOutput renders this node's command line against an
// explicit output path rather than OutputFile(), for node kinds
// (testrunner.ExecTestCaseNode) that override where their output lands.
func (c *CustomExecNode) CommandLineForOutput(sys platform.System, outputPath string) *shellcmd.Command {
	return c.commandLine(sys, c.RunnerCommand(sys), outputPath)
}

// SystemExecNode runs a fixed command string rather than a built runner
// dependency's output.
type SystemExecNode struct {
	CustomExecNode
	command string
}

// NewSystemExecNode builds a SystemExecNode that runs command.
func NewSystemExecNode(full buildname.Name, subject, command string, outDir *vfs.Handle) *SystemExecNode {
	return &SystemExecNode{CustomExecNode: *NewCustomExecNode(full, subject, outDir), command: command}
}

func (s *SystemExecNode) RunnerCommand(sys platform.System) string { return s.command }

func (s *SystemExecNode) CommandLine(sys platform.System) *shellcmd.Command {
	return s.commandLine(sys, s.RunnerCommand(sys), s.OutputFile().Path())
}

// CopyNode copies a single source=true dependency's output file to a fixed
// target path.
type CopyNode struct {
	graph.Base
	target *vfs.Handle
}

// NewCopyNode builds a CopyNode copying source to target.
func NewCopyNode(full buildname.Name, source graph.Node, target *vfs.Handle) *CopyNode {
	n := &CopyNode{Base: graph.NewBase(full), target: target}
	n.AddEdge(graph.NewEdge(source, map[string]any{"source": true}))
	return n
}

func (c *CopyNode) sourceFile() *vfs.Handle {
	for _, e := range c.Edges() {
		if e.HasAnnotations(map[string]any{"source": true}) {
			return e.Target.GetInputFile()
		}
	}
	return nil
}

func (c *CopyNode) GetInputFile() *vfs.Handle    { return c.target }
func (c *CopyNode) OutputTarget() (string, bool) { return c.target.Path(), true }
func (c *CopyNode) IsPhony() bool                { return false }

func (c *CopyNode) CommandLine(sys platform.System) *shellcmd.Command {
	src := c.sourceFile()
	if src == nil {
		return shellcmd.Empty()
	}
	return sys.Copy(src.Path(), c.target.Path())
}
