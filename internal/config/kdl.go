package config

import (
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/goto10/mkmk/internal/cnode"
	mkerrors "github.com/goto10/mkmk/internal/errors"
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/neutrino"
	"github.com/goto10/mkmk/internal/testrunner"
	"github.com/goto10/mkmk/internal/toc"
	"github.com/goto10/mkmk/internal/vfs"
)

// LoadFile reads scriptFile, parses it as KDL, and runs every toplevel
// directive against ctx.
func LoadFile(ctx *ConfigContext, scriptFile *vfs.Handle) error {
	lines, err := scriptFile.ReadLines()
	if err != nil {
		return mkerrors.NewIOError("read", scriptFile.Path(), err)
	}
	doc, err := kdl.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return mkerrors.NewScriptEvaluationError(scriptFile.Path(), "parse", err)
	}
	for _, n := range doc.Nodes {
		if err := runDirective(ctx, n); err != nil {
			return mkerrors.NewScriptEvaluationError(scriptFile.Path(), nodeName(n), err)
		}
	}
	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func stringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func firstStringArg(n *document.Node) (string, bool) {
	args := stringArgs(n)
	if len(args) == 0 {
		return "", false
	}
	return args[0], true
}

// childByName returns the first direct child of n with the given name.
func childByName(n *document.Node, name string) (*document.Node, bool) {
	for _, c := range n.Children {
		if nodeName(c) == name {
			return c, true
		}
	}
	return nil, false
}

// runDirective dispatches a single toplevel KDL node against ctx. Every
// case here corresponds to one exported ConfigContext method or one
// toolset block.
func runDirective(ctx *ConfigContext, n *document.Node) error {
	switch nodeName(n) {
	case "include":
		return ctx.Include(stringArgs(n)...)
	case "include-dep":
		return ctx.IncludeDep(stringArgs(n)...)
	case "group":
		return runGroupDirective(ctx, n)
	case "alias":
		return runAliasDirective(ctx, n)
	case "copy":
		return runCopyDirective(ctx, n)
	default:
		// A block named after a registered extension goes to
		// runToolsetBlock. Only the bundled "c", "n", "test" and "toc"
		// toolsets have directive handlers there; a block for any other
		// registered extension fails with a ConfigurationError.
		if _, ok := extend.Lookup(nodeName(n)); ok {
			return runToolsetBlock(ctx, n)
		}
		return mkerrors.NewConfigurationError("directive", nodeName(n), nil)
	}
}

// runToolsetBlock dispatches every child node of a toolset block (e.g. the
// "object"/"executable" children of a "c" block) to that toolset's known
// directive names, which dispatchToolsetDirective and its per-toolset
// helpers in this file define for the four bundled toolsets.
func runToolsetBlock(ctx *ConfigContext, n *document.Node) error {
	tools, err := ctx.GetTools(nodeName(n))
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dispatchToolsetDirective(ctx, tools, c); err != nil {
			return err
		}
	}
	return nil
}

func runGroupDirective(ctx *ConfigContext, n *document.Node) error {
	name, ok := firstStringArg(n)
	if !ok {
		return mkerrors.NewConfigurationError("group", "", nil)
	}
	group := ctx.GetGroup(name)
	for _, c := range n.Children {
		if nodeName(c) != "member" {
			continue
		}
		member, ok := firstStringArg(c)
		if !ok {
			continue
		}
		target, err := ctx.GetLocal(member)
		if err != nil {
			return err
		}
		group.AddEdge(graph.NewEdge(target, nil))
	}
	return nil
}

func runAliasDirective(ctx *ConfigContext, n *document.Node) error {
	name, ok := firstStringArg(n)
	if !ok {
		return mkerrors.NewConfigurationError("alias", "", nil)
	}
	var members []graph.Node
	for _, c := range n.Children {
		if nodeName(c) != "member" {
			continue
		}
		memberName, ok := firstStringArg(c)
		if !ok {
			continue
		}
		target, err := ctx.GetLocal(memberName)
		if err != nil {
			return err
		}
		members = append(members, target)
	}
	ctx.AddAlias(name, members...)
	return nil
}

func runCopyDirective(ctx *ConfigContext, n *document.Node) error {
	target, ok := firstStringArg(n)
	if !ok {
		return mkerrors.NewConfigurationError("copy", "", nil)
	}
	sourceChild, ok := childByName(n, "source")
	if !ok {
		return mkerrors.NewConfigurationError("copy", target, nil)
	}
	sourceName, ok := firstStringArg(sourceChild)
	if !ok {
		return mkerrors.NewConfigurationError("copy", target, nil)
	}
	source, err := ctx.GetLocal(sourceName)
	if err != nil {
		return err
	}
	ctx.GetCopy(target, source)
	return nil
}

// dispatchToolsetDirective interprets one child of a toolset block against
// the concrete ToolSet the block's name resolved to. Each case mirrors one
// factory method that toolset's own tools.go exposes.
func dispatchToolsetDirective(ctx *ConfigContext, tools extend.ToolSet, n *document.Node) error {
	switch t := tools.(type) {
	case *cnode.CTools:
		return dispatchCDirective(t, n)
	case *neutrino.NTools:
		return dispatchNDirective(t, n)
	case *testrunner.TestTools:
		return dispatchTestDirective(t, n)
	case *toc.TocTools:
		return dispatchTocDirective(ctx, t, n)
	default:
		return mkerrors.NewConfigurationError("toolset", nodeName(n), nil)
	}
}

func dispatchCDirective(t *cnode.CTools, n *document.Node) error {
	name, _ := firstStringArg(n)
	switch nodeName(n) {
	case "source":
		t.GetSourceFile(name)
		return nil
	case "object":
		sourceChild, ok := childByName(n, "source")
		if !ok {
			return mkerrors.NewConfigurationError("object", name, nil)
		}
		sourceName, _ := firstStringArg(sourceChild)
		source := t.GetSourceFile(sourceName)
		obj, err := t.GetObject(source)
		if err != nil {
			return err
		}
		for _, lc := range n.Children {
			switch nodeName(lc) {
			case "library":
				libName, _ := firstStringArg(lc)
				if err := obj.AddLibrary(t.Context().Environment(), libName, t.Context().Environment().Options.SystemName); err != nil {
					return err
				}
			case "include-glob":
				pattern, _ := firstStringArg(lc)
				roots, err := t.GetIncludeGlob(pattern)
				if err != nil {
					return err
				}
				for _, r := range roots {
					source.AddIncludeRoot(r)
				}
			}
		}
		return nil
	case "executable":
		exe, err := t.GetExecutable(name)
		if err != nil {
			return err
		}
		for _, oc := range n.Children {
			if nodeName(oc) != "object" {
				continue
			}
			objName, _ := firstStringArg(oc)
			source := t.GetSourceFile(objName)
			obj, err := t.GetObject(source)
			if err != nil {
				return err
			}
			exe.AddObject(obj)
		}
		return nil
	case "shared-library":
		lib, err := t.GetSharedLibrary(name)
		if err != nil {
			return err
		}
		for _, oc := range n.Children {
			switch nodeName(oc) {
			case "object":
				objName, _ := firstStringArg(oc)
				source := t.GetSourceFile(objName)
				obj, err := t.GetObject(source)
				if err != nil {
					return err
				}
				lib.AddObject(obj)
			case "library":
				libName, _ := firstStringArg(oc)
				lib.AddLibrary(libName)
			}
		}
		return nil
	case "resource":
		res, err := t.GetMessageResource(name)
		if err != nil {
			return err
		}
		for _, sc := range n.Children {
			if nodeName(sc) != "source" {
				continue
			}
			srcName, _ := firstStringArg(sc)
			res.AddSource(t.GetSourceFile(srcName))
		}
		return nil
	case "env-printer":
		_, err := t.GetEnvPrinter(name)
		return err
	default:
		return mkerrors.NewConfigurationError("c-directive", nodeName(n), nil)
	}
}

func dispatchNDirective(t *neutrino.NTools, n *document.Node) error {
	name, _ := firstStringArg(n)
	switch nodeName(n) {
	case "source":
		t.GetSourceFile(name)
		return nil
	case "module":
		t.GetModuleFile(name)
		return nil
	case "library":
		lib := t.GetLibrary(name)
		for _, mc := range n.Children {
			if nodeName(mc) != "module" {
				continue
			}
			modName, _ := firstStringArg(mc)
			lib.AddManifest(t.GetModuleFile(modName))
		}
		return nil
	case "program":
		prog := t.GetProgram(name)
		for _, c := range n.Children {
			switch nodeName(c) {
			case "source":
				srcName, _ := firstStringArg(c)
				prog.AddSource(t.GetSourceFile(srcName))
			case "module":
				modName, _ := firstStringArg(c)
				prog.AddModule(t.GetModuleFile(modName))
			}
		}
		return nil
	default:
		return mkerrors.NewConfigurationError("n-directive", nodeName(n), nil)
	}
}

func dispatchTestDirective(t *testrunner.TestTools, n *document.Node) error {
	name, _ := firstStringArg(n)
	if nodeName(n) != "case" {
		return mkerrors.NewConfigurationError("test-directive", nodeName(n), nil)
	}
	t.GetExecTestCase(name)
	return nil
}

func dispatchTocDirective(ctx *ConfigContext, t *toc.TocTools, n *document.Node) error {
	name, _ := firstStringArg(n)
	if nodeName(n) != "file" {
		return mkerrors.NewConfigurationError("toc-directive", nodeName(n), nil)
	}
	file := t.GetTocFile(name)
	for _, c := range n.Children {
		switch nodeName(c) {
		case "generator":
			genName, _ := firstStringArg(c)
			gen, err := ctx.GetLocal(genName)
			if err != nil {
				return err
			}
			file.SetGenerator(gen)
		case "test":
			testName, _ := firstStringArg(c)
			test, err := ctx.GetLocal(testName)
			if err != nil {
				return err
			}
			file.AddTest(test)
		}
	}
	return nil
}
