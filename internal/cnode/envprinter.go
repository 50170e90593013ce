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

// EnvPrinterNode is a phony diagnostic node whose command echoes the
// resolved compile flags for the active toolchain and settings scope.
type EnvPrinterNode struct {
	graph.Base
	toolchain toolchain.Toolchain
	settings  *settings.Settings
	outDir    *vfs.Handle
}

// NewEnvPrinterNode builds an EnvPrinterNode named full.
func NewEnvPrinterNode(full buildname.Name, tc toolchain.Toolchain, s *settings.Settings, outDir *vfs.Handle) *EnvPrinterNode {
	return &EnvPrinterNode{Base: graph.NewBase(full), toolchain: tc, settings: s, outDir: outDir}
}

func (e *EnvPrinterNode) OutputFile() *vfs.Handle { return e.outDir.Child(e.Name()) }

func (e *EnvPrinterNode) GetInputFile() *vfs.Handle    { return e.OutputFile() }
func (e *EnvPrinterNode) OutputTarget() (string, bool) { return "", false }
func (e *EnvPrinterNode) IsPhony() bool                { return true }

func (e *EnvPrinterNode) CommandLine(sys platform.System) *shellcmd.Command {
	return e.toolchain.PrintEnvCommand(e.settings)
}
