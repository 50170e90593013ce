// Package testrunner implements the node kind that runs a built test
// executable as a build step, capturing and replaying its output via the
// safe-tee wrapper so a test failure fails the build.
package testrunner

import (
	"path/filepath"
	"strings"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/execnode"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// ExecTestCaseNode runs subject (its runner, set with SetRunner) as a test
// case. Its output file is "<subject without extension>.run", and unlike a
// plain CustomExecNode it always tees its output so a passing run's output
// is visible and a failing run fails the Makefile target.
type ExecTestCaseNode struct {
	execnode.CustomExecNode
	outDir  *vfs.Handle
	subject string
}

// NewExecTestCaseNode builds an ExecTestCaseNode for subject (the runner's
// own output filename, extension-stripped to name the .run marker file).
func NewExecTestCaseNode(full buildname.Name, subject string, outDir *vfs.Handle) *ExecTestCaseNode {
	n := &ExecTestCaseNode{
		CustomExecNode: *execnode.NewCustomExecNode(full, subject, outDir),
		outDir:         outDir,
		subject:        subject,
	}
	n.SetTeeOutput(true)
	return n
}

func (n *ExecTestCaseNode) OutputFile() *vfs.Handle {
	base := strings.TrimSuffix(n.subject, filepath.Ext(n.subject))
	return n.outDir.Child(base + ".run")
}

func (n *ExecTestCaseNode) GetInputFile() *vfs.Handle    { return n.OutputFile() }
func (n *ExecTestCaseNode) OutputTarget() (string, bool) { return n.OutputFile().Path(), true }

func (n *ExecTestCaseNode) CommandLine(sys platform.System) *shellcmd.Command {
	return n.CommandLineForOutput(sys, n.OutputFile().Path())
}

var _ graph.Node = (*ExecTestCaseNode)(nil)
