package cnode

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

// CTools is the "c" toolset exposed to build scripts: factories that wrap
// GetOrCreate calls into the C node kinds.
type CTools struct {
	extend.BaseToolSet
	controller *CController
}

// GetSourceFile returns the source file under the current context's path
// with the given name.
func (t *CTools) GetSourceFile(name string) *CSourceNode {
	ctx := t.Context()
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewCSourceNode(ctx.FullName().Append(name), ctx.File(name))
	})
	return n.(*CSourceNode)
}

// GetIncludeGlob expands pattern (a doublestar glob such as "vendor/**")
// against this context's home folder and returns a FileNode for every
// matched folder, in sorted order, each usable as an include root via
// CSourceNode.AddIncludeRoot. Non-folder matches are skipped.
func (t *CTools) GetIncludeGlob(pattern string) ([]*graph.FileNode, error) {
	ctx := t.Context()
	full := filepath.Join(ctx.HomeDir().Path(), pattern)
	matches, err := doublestar.FilepathGlob(full)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]*graph.FileNode, 0, len(matches))
	for _, m := range matches {
		handle := ctx.Environment().Files.At(m)
		if handle.Kind() != vfs.Folder {
			continue
		}
		key := ctx.FullName().Append(m).String()
		n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
			return graph.NewFileNode(ctx.FullName().Append(m), handle)
		})
		out = append(out, n.(*graph.FileNode))
	}
	return out, nil
}

// GetObject returns the object node compiling source, creating it the
// first time it's asked for (keyed off source's own name).
func (t *CTools) GetObject(source *CSourceNode) (*ObjectNode, error) {
	ctx := t.Context()
	tc, err := t.controller.GetToolchain()
	if err != nil {
		return nil, err
	}
	key := source.FullName().Append("object").String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewObjectNode(source.FullName().Append("object"), source, tc, ctx.Settings(), ctx.OutDir())
	})
	return n.(*ObjectNode), nil
}

// GetExecutable returns an empty executable node that can then be
// configured with AddObject.
func (t *CTools) GetExecutable(name string) (*ExecutableNode, error) {
	ctx := t.Context()
	tc, err := t.controller.GetToolchain()
	if err != nil {
		return nil, err
	}
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewExecutableNode(ctx.FullName().Append(name), tc, t.controller.CustomFlags(), ctx.OutDir())
	})
	return n.(*ExecutableNode), nil
}

// GetSharedLibrary returns an empty shared-library node that can then be
// configured with AddObject/AddLibrary.
func (t *CTools) GetSharedLibrary(name string) (*SharedLibraryNode, error) {
	ctx := t.Context()
	tc, err := t.controller.GetToolchain()
	if err != nil {
		return nil, err
	}
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewSharedLibraryNode(ctx.FullName().Append(name), tc, ctx.OutDir())
	})
	return n.(*SharedLibraryNode), nil
}

// GetMessageResource returns an empty message-resource node that can then
// be configured with AddSource.
func (t *CTools) GetMessageResource(name string) (*MessageResourceNode, error) {
	ctx := t.Context()
	tc, err := t.controller.GetToolchain()
	if err != nil {
		return nil, err
	}
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewMessageResourceNode(ctx.FullName().Append(name), tc, ctx.OutDir())
	})
	return n.(*MessageResourceNode), nil
}

// GetEnvPrinter returns the node that prints this context's resolved
// compile flags when run.
func (t *CTools) GetEnvPrinter(name string) (*EnvPrinterNode, error) {
	ctx := t.Context()
	tc, err := t.controller.GetToolchain()
	if err != nil {
		return nil, err
	}
	key := ctx.FullName().Append(name).String()
	n := ctx.Nodespace().GetOrCreate(key, func() graph.Node {
		return NewEnvPrinterNode(ctx.FullName().Append(name), tc, ctx.Settings(), ctx.OutDir())
	})
	return n.(*EnvPrinterNode), nil
}

// CController is the "c" extension's controller: one per Environment, it
// lazily resolves and memoizes the toolchain selected by --buildflags.
type CController struct {
	extend.BaseController
	flags     toolchain.CustomFlags
	toolchain toolchain.Toolchain
}

// NewCController builds a controller with flags already resolved (by
// AddCustomFlags, or the defaults if --buildflags never mentioned "c").
func NewCController(env *graph.Environment, flags toolchain.CustomFlags) *CController {
	return &CController{BaseController: extend.NewBaseController(env), flags: flags}
}

// GetTools returns the per-context CTools facade.
func (c *CController) GetTools(ctx extend.Context) extend.ToolSet {
	return &CTools{BaseToolSet: extend.NewBaseToolSet(ctx), controller: c}
}

// GetToolchain resolves and memoizes the toolchain named by --toolchain.
func (c *CController) GetToolchain() (toolchain.Toolchain, error) {
	if c.toolchain == nil {
		tc, err := toolchain.New(c.flags.ToolchainName, c.flags)
		if err != nil {
			return nil, err
		}
		c.toolchain = tc
	}
	return c.toolchain, nil
}

// CustomFlags returns the flags this controller was configured with.
func (c *CController) CustomFlags() toolchain.CustomFlags { return c.flags }

// AddCustomFlags parses the C toolset's tokens out of raw, layered over the
// defaults: --debug, --gcc48, --expchecks, --toolchain <name>, --gprof,
// --nochecks, --warn, --valgrind, --valgrind-flag <flag> (repeatable),
// --time, --fastcompile, --debug-codegen/--no-debug-codegen, --devutils,
// --gen-fileid.
func (c *CController) AddCustomFlags(raw string) (toolchain.CustomFlags, error) {
	flags := toolchain.DefaultCustomFlags()
	tokens := splitFlagTokens(raw)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "--debug":
			flags.Debug = true
		case "--gcc48":
			flags.Gcc48 = true
		case "--expchecks":
			flags.ExpChecks = true
		case "--toolchain":
			i++
			if i < len(tokens) {
				flags.ToolchainName = tokens[i]
			}
		case "--gprof":
			flags.Gprof = true
		case "--nochecks":
			flags.Checks = false
		case "--warn":
			flags.Warn = true
		case "--valgrind":
			flags.Valgrind = true
		case "--valgrind-flag":
			i++
			if i < len(tokens) {
				flags.ValgrindFlags = append(flags.ValgrindFlags, tokens[i])
			}
		case "--time":
			flags.Time = true
		case "--fastcompile":
			flags.FastCompile = true
		case "--debug-codegen":
			flags.DebugCodegen = toolchain.DebugCodegenOn
		case "--no-debug-codegen":
			flags.DebugCodegen = toolchain.DebugCodegenOff
		case "--devutils":
			flags.Devutils = true
		case "--gen-fileid":
			flags.GenFileID = true
		}
	}
	c.flags = flags
	return flags, nil
}

func splitFlagTokens(raw string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = nil
		}
	}
	for _, r := range raw {
		if r == ' ' || r == '\t' || r == '\n' {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func init() {
	extend.Register("c", func(env *graph.Environment) extend.ToolController {
		return NewCController(env, toolchain.DefaultCustomFlags())
	})
}
