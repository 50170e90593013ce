package toc

import (
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
)

// TocTools is the "toc" toolset exposed to build scripts: a single factory
// for test table-of-contents nodes.
type TocTools struct {
	extend.BaseToolSet
}

// GetTocFile returns the TOC node with the given name, creating it empty
// the first time it's asked for.
func (t *TocTools) GetTocFile(name string) *TocNode {
	ctx := t.Context()
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewTocNode(ctx.FullName().Append(name), ctx.OutDir())
	})
	return n.(*TocNode)
}

// TocController is the "toc" extension's controller; it carries no state
// of its own beyond the Environment every ToolController embeds.
type TocController struct {
	extend.BaseController
}

// NewTocController builds a controller for env.
func NewTocController(env *graph.Environment) *TocController {
	return &TocController{BaseController: extend.NewBaseController(env)}
}

// GetTools returns the per-context TocTools facade.
func (c *TocController) GetTools(ctx extend.Context) extend.ToolSet {
	return &TocTools{BaseToolSet: extend.NewBaseToolSet(ctx)}
}

func init() {
	extend.Register("toc", func(env *graph.Environment) extend.ToolController {
		return NewTocController(env)
	})
}
