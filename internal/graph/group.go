package graph

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
)

// GroupNode flattens to its members: depending on a group is equivalent to
// depending on every one of its edges directly. It emits no Makefile target
// of its own.
type GroupNode struct {
	Base
}

// NewGroupNode builds an empty group; members are added with AddEdge.
func NewGroupNode(full buildname.Name) *GroupNode {
	return &GroupNode{Base: NewBase(full)}
}

func (g *GroupNode) FlattenMembers() []*Edge { return g.Edges() }

func (g *GroupNode) GetInputFile() *vfs.Handle                        { return nil }
func (g *GroupNode) OutputTarget() (string, bool)                     { return "", false }
func (g *GroupNode) CommandLine(sys platform.System) *shellcmd.Command { return nil }
func (g *GroupNode) IsPhony() bool                                    { return false }

// AliasNode is a GroupNode that additionally emits a phony Makefile target
// under its own full name, so that `make <alias>` builds every member.
type AliasNode struct {
	GroupNode
}

// NewAliasNode builds an empty alias; members are added with AddEdge.
func NewAliasNode(full buildname.Name) *AliasNode {
	return &AliasNode{GroupNode: *NewGroupNode(full)}
}

func (a *AliasNode) OutputTarget() (string, bool) { return a.FullName().String(), true }
func (a *AliasNode) IsPhony() bool                { return true }
