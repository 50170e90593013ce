package cnode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/extend"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/settings"
	"github.com/goto10/mkmk/internal/toolchain"
	"github.com/goto10/mkmk/internal/vfs"
)

type toolsFakeContext struct {
	full   buildname.Name
	ns     *graph.Nodespace
	env    *graph.Environment
	home   *vfs.Handle
	outDir *vfs.Handle
	store  *vfs.Store
}

func (c *toolsFakeContext) Nodespace() *graph.Nodespace     { return c.ns }
func (c *toolsFakeContext) Environment() *graph.Environment { return c.env }
func (c *toolsFakeContext) FullName() buildname.Name        { return c.full }
func (c *toolsFakeContext) HomeDir() *vfs.Handle             { return c.home }
func (c *toolsFakeContext) OutDir() *vfs.Handle              { return c.outDir }
func (c *toolsFakeContext) File(relPath string) *vfs.Handle {
	return c.store.At(filepath.Join(c.home.Path(), relPath))
}
func (c *toolsFakeContext) Toolchain() (toolchain.Toolchain, error) {
	return toolchain.New("gcc", toolchain.DefaultCustomFlags())
}
func (c *toolsFakeContext) Settings() *settings.Settings { return settings.New() }

func newToolsFakeContext(t *testing.T) *toolsFakeContext {
	t.Helper()
	dir := t.TempDir()
	store := vfs.NewStore(vfs.NewStickyCache())
	home := store.At(dir)
	outDir := store.At(filepath.Join(dir, "out"))
	sys, err := platform.For("posix")
	require.NoError(t, err)
	env := graph.NewEnvironment(graph.Options{SystemName: "posix"}, sys, store, home, outDir)
	return &toolsFakeContext{
		full:   buildname.Of("root"),
		ns:     env.RootNodespace(),
		env:    env,
		home:   home,
		outDir: outDir,
		store:  store,
	}
}

func TestCToolsGetSourceFileIsIdempotent(t *testing.T) {
	ctx := newToolsFakeContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(ctx.home.Path(), "widget.c"), []byte("int main(){}\n"), 0o644))

	controller := NewCController(ctx.env, toolchain.DefaultCustomFlags())
	tools := controller.GetTools(ctx).(*CTools)

	a := tools.GetSourceFile("widget.c")
	b := tools.GetSourceFile("widget.c")
	assert.Same(t, a, b)
	assert.Equal(t, filepath.Join(ctx.home.Path(), "widget.c"), a.GetInputFile().Path())
}

func TestCToolsGetObjectBuildsFromSource(t *testing.T) {
	ctx := newToolsFakeContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(ctx.home.Path(), "widget.c"), []byte("int main(){}\n"), 0o644))

	controller := NewCController(ctx.env, toolchain.DefaultCustomFlags())
	tools := controller.GetTools(ctx).(*CTools)

	src := tools.GetSourceFile("widget.c")
	obj, err := tools.GetObject(src)
	require.NoError(t, err)
	assert.Same(t, src, obj.Source())

	again, err := tools.GetObject(src)
	require.NoError(t, err)
	assert.Same(t, obj, again)
}

func TestCToolsGetExecutableAggregatesObjects(t *testing.T) {
	ctx := newToolsFakeContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(ctx.home.Path(), "widget.c"), []byte("int main(){}\n"), 0o644))

	controller := NewCController(ctx.env, toolchain.DefaultCustomFlags())
	tools := controller.GetTools(ctx).(*CTools)

	src := tools.GetSourceFile("widget.c")
	obj, err := tools.GetObject(src)
	require.NoError(t, err)

	exe, err := tools.GetExecutable("widget")
	require.NoError(t, err)
	exe.AddObject(obj)

	sys, err := platform.For("posix")
	require.NoError(t, err)
	cmd := exe.CommandLine(sys)
	require.Len(t, cmd.Parts(), 1)
	assert.Contains(t, cmd.Parts()[0], "widget.c.o")
}

func TestCControllerAddCustomFlagsParsesTokens(t *testing.T) {
	controller := NewCController(nil, toolchain.DefaultCustomFlags())
	flags, err := controller.AddCustomFlags("--debug --toolchain msvc --valgrind-flag --foo --valgrind-flag --bar --warn")
	require.NoError(t, err)
	assert.True(t, flags.Debug)
	assert.Equal(t, "msvc", flags.ToolchainName)
	assert.True(t, flags.Warn)
	assert.Equal(t, []string{"--foo", "--bar"}, flags.ValgrindFlags)
}

func TestCControllerGetToolchainMemoizes(t *testing.T) {
	controller := NewCController(nil, toolchain.DefaultCustomFlags())
	a, err := controller.GetToolchain()
	require.NoError(t, err)
	b, err := controller.GetToolchain()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCToolsGetIncludeGlobMatchesFoldersOnly(t *testing.T) {
	ctx := newToolsFakeContext(t)
	require.NoError(t, os.MkdirAll(filepath.Join(ctx.home.Path(), "vendor", "zlib"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(ctx.home.Path(), "vendor", "png"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ctx.home.Path(), "vendor", "README"), []byte("x"), 0o644))

	controller := NewCController(ctx.env, toolchain.DefaultCustomFlags())
	tools := controller.GetTools(ctx).(*CTools)

	roots, err := tools.GetIncludeGlob("vendor/*")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, filepath.Join(ctx.home.Path(), "vendor", "png"), roots[0].GetInputFile().Path())
	assert.Equal(t, filepath.Join(ctx.home.Path(), "vendor", "zlib"), roots[1].GetInputFile().Path())

	again, err := tools.GetIncludeGlob("vendor/*")
	require.NoError(t, err)
	assert.Same(t, roots[0], again[0])
}

func TestExtendRegistryKnowsC(t *testing.T) {
	factory, ok := extend.Lookup("c")
	require.True(t, ok)
	controller := factory(nil)
	assert.NotNil(t, controller)
}
