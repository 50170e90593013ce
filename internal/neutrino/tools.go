package neutrino

import (
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
)

// NTools is the "n" toolset exposed to build scripts: factories for
// Neutrino source files and the binaries built from them.
type NTools struct {
	extend.BaseToolSet
}

// GetSourceFile returns the source file under the current context's path
// with the given name.
func (t *NTools) GetSourceFile(name string) *SourceNode {
	ctx := t.Context()
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewSourceNode(ctx.FullName().Append(name), ctx.File(name))
	})
	return n.(*SourceNode)
}

// GetModuleFile returns the module manifest file under the current path
// with the given name — manifests are ordinary Neutrino source files.
func (t *NTools) GetModuleFile(name string) *SourceNode {
	return t.GetSourceFile(name)
}

// GetLibrary returns a Neutrino library node under the current context's
// path, creating it empty the first time it's asked for.
func (t *NTools) GetLibrary(name string) *NLibrary {
	ctx := t.Context()
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewNLibrary(ctx.FullName().Append(name), ctx.OutDir())
	})
	return n.(*NLibrary)
}

// GetProgram returns a Neutrino program node under the current context's
// path, creating it empty the first time it's asked for.
func (t *NTools) GetProgram(name string) *NProgram {
	ctx := t.Context()
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewNProgram(ctx.FullName().Append(name), ctx.OutDir())
	})
	return n.(*NProgram)
}

// NController is the "n" extension's controller; it carries no state of
// its own beyond the Environment every ToolController embeds.
type NController struct {
	extend.BaseController
}

// NewNController builds a controller for env.
func NewNController(env *graph.Environment) *NController {
	return &NController{BaseController: extend.NewBaseController(env)}
}

// GetTools returns the per-context NTools facade.
func (c *NController) GetTools(ctx extend.Context) extend.ToolSet {
	return &NTools{BaseToolSet: extend.NewBaseToolSet(ctx)}
}

func init() {
	extend.Register("n", func(env *graph.Environment) extend.ToolController {
		return NewNController(env)
	})
}
