package testrunner

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

func TestTestToolsGetExecTestCaseIsIdempotent(t *testing.T) {
	ctx := newFakeContext(t)
	controller := NewTestController(ctx.env)
	tools := controller.GetTools(ctx).(*TestTools)

	a := tools.GetExecTestCase("my_test")
	b := tools.GetExecTestCase("my_test")
	assert.Same(t, a, b)
	assert.Equal(t, filepath.Join(ctx.outDir.Path(), "my_test.run"), a.OutputFile().Path())
}

func TestExtendRegistryKnowsTest(t *testing.T) {
	factory, ok := extend.Lookup("test")
	require.True(t, ok)
	assert.NotNil(t, factory(nil))
}
