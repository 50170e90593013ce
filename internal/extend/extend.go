// Package extend defines the contract between the core (script loading,
// the global Environment) and the build-extensions that expose a toolset to
// build scripts: a ToolController per extension kind, producing one ToolSet
// per Context it's asked about.
package extend

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// Context is the subset of a script-loading context a ToolSet needs to
// resolve files and create nodes: its nodespace (for GetOrCreate identity),
// its home and output folders, its full name prefix, its local Settings
// scope, and the Environment backing the whole run. internal/config's
// ConfigContext implements this.
type Context interface {
	Nodespace() *graph.Nodespace
	Environment() *graph.Environment
	FullName() buildname.Name
	HomeDir() *vfs.Handle
	OutDir() *vfs.Handle
	File(relPath string) *vfs.Handle
	Toolchain() (toolchain.Toolchain, error)
	Settings() *settings.Settings
}

// ToolSet is the per-Context facade a build script sees under its short
// name ("c", "n", "test", "toc", ...): a set of factory methods that wrap
// GetOrCreate calls into typed node constructors.
type ToolSet interface {
	Context() Context
}

// ToolController is the per-extension-kind singleton that produces a
// ToolSet for any Context it's asked about, and may contribute extra
// --buildflags parsing.
type ToolController interface {
	Environment() *graph.Environment
	GetTools(ctx Context) ToolSet
}

// CustomFlagsContributor is implemented by controllers (currently just "c")
// that parse extra tokens out of --buildflags.
type CustomFlagsContributor interface {
	AddCustomFlags(raw string) (toolchain.CustomFlags, error)
}

// BaseToolSet holds the Context every concrete ToolSet embeds.
type BaseToolSet struct {
	ctx Context
}

// NewBaseToolSet wraps ctx for embedding into a concrete ToolSet.
func NewBaseToolSet(ctx Context) BaseToolSet { return BaseToolSet{ctx: ctx} }

func (b BaseToolSet) Context() Context { return b.ctx }

// BaseController holds the Environment every concrete ToolController embeds.
type BaseController struct {
	env *graph.Environment
}

// NewBaseController wraps env for embedding into a concrete ToolController.
func NewBaseController(env *graph.Environment) BaseController { return BaseController{env: env} }

func (b BaseController) Environment() *graph.Environment { return b.env }

// ControllerFactory builds a ToolController for env — the Go equivalent of
// each extension module's module-level get_controller(env) function.
type ControllerFactory func(env *graph.Environment) ToolController

var registry = map[string]ControllerFactory{}

// Register adds name (a --extension value, e.g. "c", "n", "test", "toc") to
// the registry. Called from each extension package's init().
func Register(name string, factory ControllerFactory) {
	registry[name] = factory
}

// Lookup returns the registered factory for name, or false if name is not a
// known extension.
func Lookup(name string) (ControllerFactory, bool) {
	factory, ok := registry[name]
	return factory, ok
}

// Names returns every registered extension name, in registration order is
// not guaranteed; callers needing determinism should sort.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
