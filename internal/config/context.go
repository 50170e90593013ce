// Package config implements script loading: ConfigContext, the per-file
// scope a build script executes against, and the KDL directive loader that
// turns a declarative build file into graph nodes.
package config

import (
	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/cnode"
	mkerrors "github.com/goto10/mkmk/internal/errors"
	"github.com/goto10/mkmk/internal/execnode"
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// ConfigContext is the scope one build script file is loaded against. Every
// directive in the file — include, a toolset's node factories, add_alias —
// resolves relative to this context's home folder and full name prefix.
// Loading a child file (include) or a dependency (include_dep) creates a
// fresh ConfigContext rather than mutating this one.
type ConfigContext struct {
	nodespace *graph.Nodespace
	env       *graph.Environment
	home      *vfs.Handle
	fullName  buildname.Name
	settings  *settings.Settings
}

// NewRootContext builds the context the root build script loads against.
func NewRootContext(env *graph.Environment, home *vfs.Handle) *ConfigContext {
	return &ConfigContext{
		nodespace: env.RootNodespace(),
		env:       env,
		home:      home,
		fullName:  buildname.Of(),
		settings:  settings.New(),
	}
}

func (c *ConfigContext) Nodespace() *graph.Nodespace     { return c.nodespace }
func (c *ConfigContext) Environment() *graph.Environment { return c.env }
func (c *ConfigContext) FullName() buildname.Name        { return c.fullName }
func (c *ConfigContext) HomeDir() *vfs.Handle            { return c.home }
func (c *ConfigContext) OutDir() *vfs.Handle             { return c.nodespace.OutDir() }
func (c *ConfigContext) Settings() *settings.Settings    { return c.settings }

func (c *ConfigContext) File(relPath string) *vfs.Handle {
	return c.home.Child(relPath)
}

// Toolchain resolves the "c" extension's toolchain for this context. Build
// scripts that never use the "c" toolset never pay for this.
func (c *ConfigContext) Toolchain() (toolchain.Toolchain, error) {
	controller, err := c.controllerFor("c")
	if err != nil {
		return nil, err
	}
	cc, ok := controller.(*cnode.CController)
	if !ok {
		return nil, mkerrors.NewConfigurationError("extension", "c", nil)
	}
	return cc.GetToolchain()
}

// GetTools returns the named toolset's per-context facade (e.g. "c", "n").
func (c *ConfigContext) GetTools(name string) (extend.ToolSet, error) {
	controller, err := c.controllerFor(name)
	if err != nil {
		return nil, err
	}
	return controller.GetTools(c), nil
}

// InitExtensions instantiates and memoizes one controller per requested
// extension name against env, applying raw --buildflags tokens to whichever
// of them accepts custom flags (only "c", in the bundled set). Called once
// by the CLI layer before any build script loads, so every ConfigContext
// created afterward resolves the same controller instances via
// controllerFor instead of re-parsing --buildflags per context.
func InitExtensions(env *graph.Environment, extensions []string, buildFlags string) error {
	for _, name := range extensions {
		factory, ok := extend.Lookup(name)
		if !ok {
			return mkerrors.NewConfigurationError("extension", name, nil)
		}
		controller := factory(env)
		if contributor, ok := controller.(extend.CustomFlagsContributor); ok {
			if _, err := contributor.AddCustomFlags(buildFlags); err != nil {
				return err
			}
		}
		env.SetAttr("controller:"+name, controller)
	}
	return nil
}

// controllerFor returns the Environment-wide controller instance for the
// named extension, creating and memoizing it on first request via the
// Environment's attribute slot — a controller parses --buildflags once
// (InitExtensions, called from the CLI layer before any script loads) and
// must stay alive for the whole run so every context sees the
// same resolved flags and the same memoized toolchain.
func (c *ConfigContext) controllerFor(name string) (extend.ToolController, error) {
	attrKey := "controller:" + name
	if v, ok := c.env.GetAttr(attrKey); ok {
		return v.(extend.ToolController), nil
	}
	factory, ok := extend.Lookup(name)
	if !ok {
		return nil, mkerrors.NewConfigurationError("extension", name, nil)
	}
	controller := factory(c.env)
	c.env.SetAttr(attrKey, controller)
	return controller, nil
}

// GetGroup returns the group node with the given local name, creating it
// empty the first time it's asked for.
func (c *ConfigContext) GetGroup(name string) *graph.GroupNode {
	key := c.fullName.Append(name).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return graph.NewGroupNode(c.fullName.Append(name))
	})
	return n.(*graph.GroupNode)
}

// GetExternal returns a node previously registered in the root nodespace
// under the given fully-qualified key. The node must already exist —
// includes run in the order scripts declare them, so forward references
// aren't supported.
func (c *ConfigContext) GetExternal(key string) (graph.Node, error) {
	return c.env.GetExternal(key)
}

// GetLocal returns a node created earlier by this same context under the
// given local name — e.g. a "group"/"alias" block referencing a sibling
// "executable" directive declared earlier in the same file. Go's KDL build
// scripts reference sibling directives by their local name rather than by
// the bound variable a Python mkmk script would have held onto, so this is
// the mechanism member/generator/test references resolve through.
func (c *ConfigContext) GetLocal(name string) (graph.Node, error) {
	key := c.fullName.Append(name).String()
	n, ok := c.nodespace.Lookup(key)
	if !ok {
		return nil, mkerrors.NewGraphError("get_local", key)
	}
	return n, nil
}

// GetDepExternal returns a node registered under a named dependency's
// nodespace.
func (c *ConfigContext) GetDepExternal(dep, key string) (graph.Node, error) {
	return c.env.GetDepExternal(dep, key)
}

// GetRoot returns the folder this context's nodespace is rooted at.
func (c *ConfigContext) GetRoot() *vfs.Handle { return c.nodespace.RootDir() }

// GetDep returns the root folder of a dependency already loaded by an
// earlier include_dep.
func (c *ConfigContext) GetDep(name string) (*vfs.Handle, error) {
	ns, ok := c.env.LookupDepNodespace(name)
	if !ok {
		return nil, mkerrors.NewConfigurationError("dep", name, nil)
	}
	return ns.RootDir(), nil
}

// GetBindir returns this context's build output root.
func (c *ConfigContext) GetBindir() *vfs.Handle { return c.nodespace.OutDir() }

// GetFile returns the file under this context's home folder at relPath.
func (c *ConfigContext) GetFile(relPath string) *vfs.Handle {
	return c.home.Child(relPath)
}

// GetSystemFile returns a handle to an absolute or cwd-relative path,
// independent of this context's home folder.
func (c *ConfigContext) GetSystemFile(path string) *vfs.Handle {
	return c.env.Files.At(path)
}

// outdirFile mirrors the original's get_outdir_file: a file named after
// this context's full name (optionally with an extension appended) under
// the nodespace's output directory.
func (c *ConfigContext) outdirFile(name, ext string) *vfs.Handle {
	full := c.fullName.Append(name)
	if ext != "" {
		parts := full.Parts()
		parts[len(parts)-1] = parts[len(parts)-1] + "." + ext
		full = buildname.Of(parts...)
	}
	return c.nodespace.OutDir().Child(full.Parts()...)
}

// Include loads a child build script relative to this context's home
// folder, under a name prefix extended by every path segment but the last.
func (c *ConfigContext) Include(relParts ...string) error {
	fullScript := c.home.Child(relParts...)
	parentParts := relParts[:len(relParts)-1]
	sub := &ConfigContext{
		nodespace: c.nodespace,
		env:       c.env,
		home:      fullScript.Parent(),
		fullName:  c.fullName.Append(parentParts...),
		settings:  settings.NewChild(c.settings, false),
	}
	return LoadFile(sub, fullScript)
}

// IncludeDep loads a dependency's build script into its own fresh
// Nodespace, or does nothing if that dependency was already loaded by an
// earlier include_dep.
func (c *ConfigContext) IncludeDep(relParts ...string) error {
	depName := relParts[0]
	fullScript := c.home.Child(append([]string{"deps"}, relParts...)...)
	bindir := c.nodespace.OutDir().Child("deps", depName)
	ns, created := c.env.GetOrCreateDepNodespace(depName, fullScript.Parent(), bindir)
	if !created {
		return nil
	}
	sub := &ConfigContext{
		nodespace: ns,
		env:       c.env,
		home:      fullScript.Parent(),
		fullName:  buildname.Of(),
		settings:  settings.New(),
	}
	return LoadFile(sub, fullScript)
}

// AddAlias registers a toplevel phony target under name that depends on
// every given node.
func (c *ConfigContext) AddAlias(name string, members ...graph.Node) *graph.AliasNode {
	key := c.fullName.Append(name).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return graph.NewAliasNode(c.fullName.Append(name))
	})
	alias := n.(*graph.AliasNode)
	c.env.RootNodespace().GetOrCreate(buildname.Of(name).String(), func() graph.Node { return alias })
	for _, m := range members {
		alias.AddEdge(graph.NewEdge(m, nil))
	}
	return alias
}

// GetLibraryInfo returns the named library's platform descriptor set,
// creating it empty on first request.
func (c *ConfigContext) GetLibraryInfo(name string) *graph.LibraryInfo {
	return c.env.GetOrCreateLibrary(name)
}

// GetSourceFile returns a plain FileNode wrapping relPath under this
// context's home folder — the generic, toolset-agnostic form; a toolset's
// own GetSourceFile (e.g. CTools') wraps a typed node instead.
func (c *ConfigContext) GetSourceFile(relPath string) *graph.FileNode {
	key := c.fullName.Append(relPath).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return graph.NewFileNode(c.fullName.Append(relPath), c.home.Child(relPath))
	})
	return n.(*graph.FileNode)
}

// WrapSourceFile returns a FileNode for an arbitrary handle outside this
// context's own home folder, e.g. a file resolved by get_system_file.
func (c *ConfigContext) WrapSourceFile(handle *vfs.Handle) *graph.FileNode {
	key := c.fullName.Append(handle.Path()).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return graph.NewFileNode(c.fullName.Append(handle.Path()), handle)
	})
	return n.(*graph.FileNode)
}

// GetCustomExecFile returns the node representing the output of running a
// build-local runner dependency; the runner itself is wired in afterward
// via (*execnode.CustomExecNode).SetRunner.
func (c *ConfigContext) GetCustomExecFile(relPath string) *execnode.CustomExecNode {
	key := c.fullName.Append(relPath).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return execnode.NewCustomExecNode(c.fullName.Append(relPath), relPath, c.nodespace.OutDir())
	})
	return n.(*execnode.CustomExecNode)
}

// GetSystemExecFile returns the node representing the output of running a
// fixed system command.
func (c *ConfigContext) GetSystemExecFile(relPath, command string) *execnode.SystemExecNode {
	key := c.fullName.Append(relPath).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return execnode.NewSystemExecNode(c.fullName.Append(relPath), relPath, command, c.nodespace.OutDir())
	})
	return n.(*execnode.SystemExecNode)
}

// GetCopy returns the node that copies source's output file to relPath
// under the build output directory.
func (c *ConfigContext) GetCopy(relPath string, source graph.Node) *execnode.CopyNode {
	key := c.fullName.Append(relPath).String()
	n := c.nodespace.GetOrCreate(key, func() graph.Node {
		return execnode.NewCopyNode(c.fullName.Append(relPath), source, c.outdirFile(relPath, ""))
	})
	return n.(*execnode.CopyNode)
}
