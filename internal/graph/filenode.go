package graph

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// FileNode wraps a pre-existing file: it has no command, no output target
// of its own, and passes its wrapped handle straight through to whatever
// depends on it.
type FileNode struct {
	Base
	handle *vfs.Handle
}

// NewFileNode builds a FileNode over an existing file handle.
func NewFileNode(full buildname.Name, handle *vfs.Handle) *FileNode {
	return &FileNode{Base: NewBase(full), handle: handle}
}

func (f *FileNode) GetInputFile() *vfs.Handle                        { return f.handle }
func (f *FileNode) OutputTarget() (string, bool)                     { return "", false }
func (f *FileNode) CommandLine(sys platform.System) *shellcmd.Command { return nil }
func (f *FileNode) IsPhony() bool                                    { return false }

// RunCommandBuilder starts a CommandBuilder invoking this file as a runner,
// for nodes (prebuilt compilers, tools) that take further arguments from a
// dependent node's own command line.
func (f *FileNode) RunCommandBuilder(sys platform.System) platform.CommandBuilder {
	return sys.NewCommandBuilder().AddArguments(f.handle.Path())
}
