package neutrino

import (
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

type fakeContext struct {
	full   buildname.Name
	ns     *graph.Nodespace
	env    *graph.Environment
	home   *vfs.Handle
	outDir *vfs.Handle
	store  *vfs.Store
}

func (c *fakeContext) Nodespace() *graph.Nodespace     { return c.ns }
func (c *fakeContext) Environment() *graph.Environment { return c.env }
func (c *fakeContext) FullName() buildname.Name        { return c.full }
func (c *fakeContext) HomeDir() *vfs.Handle             { return c.home }
func (c *fakeContext) OutDir() *vfs.Handle              { return c.outDir }
func (c *fakeContext) File(relPath string) *vfs.Handle {
	return c.store.At(filepath.Join(c.home.Path(), relPath))
}
func (c *fakeContext) Toolchain() (toolchain.Toolchain, error) {
	return toolchain.New("gcc", toolchain.DefaultCustomFlags())
}
func (c *fakeContext) Settings() *settings.Settings { return settings.New() }

func newFakeContext(t *testing.T) *fakeContext {
	t.Helper()
	dir := t.TempDir()
	store := vfs.NewStore(vfs.NewStickyCache())
	home := store.At(dir)
	outDir := store.At(filepath.Join(dir, "out"))
	sys, err := platform.For("posix")
	require.NoError(t, err)
	env := graph.NewEnvironment(graph.Options{SystemName: "posix"}, sys, store, home, outDir)
	return &fakeContext{full: buildname.Of("root"), ns: env.RootNodespace(), env: env, home: home, outDir: outDir, store: store}
}

func TestNToolsGetSourceFileIsIdempotent(t *testing.T) {
	ctx := newFakeContext(t)
	controller := NewNController(ctx.env)
	tools := controller.GetTools(ctx).(*NTools)

	a := tools.GetSourceFile("widget.n")
	b := tools.GetSourceFile("widget.n")
	assert.Same(t, a, b)
}

func TestNToolsGetModuleFileDelegatesToSourceFile(t *testing.T) {
	ctx := newFakeContext(t)
	controller := NewNController(ctx.env)
	tools := controller.GetTools(ctx).(*NTools)

	a := tools.GetModuleFile("manifest.n")
	b := tools.GetSourceFile("manifest.n")
	assert.Same(t, a, b)
}

func TestNToolsGetLibraryAndGetProgramAreIdempotent(t *testing.T) {
	ctx := newFakeContext(t)
	controller := NewNController(ctx.env)
	tools := controller.GetTools(ctx).(*NTools)

	lib1 := tools.GetLibrary("mylib")
	lib2 := tools.GetLibrary("mylib")
	assert.Same(t, lib1, lib2)

	prog1 := tools.GetProgram("myprog")
	prog2 := tools.GetProgram("myprog")
	assert.Same(t, prog1, prog2)
}

func TestExtendRegistryKnowsN(t *testing.T) {
	factory, ok := extend.Lookup("n")
	require.True(t, ok)
	assert.NotNil(t, factory(nil))
}
