package testrunner

import (
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
)

// TestTools is the "test" toolset exposed to build scripts: a single
// factory for test-case-execution nodes.
type TestTools struct {
	extend.BaseToolSet
}

// GetExecTestCase returns the node that runs subject as a test case,
// keyed separately from the subject's own node identity so the same
// executable can be both built and, under a distinct name, run as a test.
func (t *TestTools) GetExecTestCase(subject string) *ExecTestCaseNode {
	ctx := t.Context()
	key := ctx.FullName().Append(subject, "test").String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewExecTestCaseNode(ctx.FullName().Append(subject, "test"), subject, ctx.OutDir())
	})
	return n.(*ExecTestCaseNode)
}

// TestController is the "test" extension's controller; it carries no state
// of its own beyond the Environment every ToolController embeds.
type TestController struct {
	extend.BaseController
}

// NewTestController builds a controller for env.
func NewTestController(env *graph.Environment) *TestController {
	return &TestController{BaseController: extend.NewBaseController(env)}
}

// GetTools returns the per-context TestTools facade.
func (c *TestController) GetTools(ctx extend.Context) extend.ToolSet {
	return &TestTools{BaseToolSet: extend.NewBaseToolSet(ctx)}
}

func init() {
	extend.Register("test", func(env *graph.Environment) extend.ToolController {
		return NewTestController(env)
	})
}
