package graph

import (
	"errors"
	"testing"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/shellcmd"
	"github.com/goto10/mkmk/internal/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leafNode is a minimal physical Node used only to exercise graph wiring in
// these tests.
type leafNode struct {
	Base
	file *vfs.Handle
}

func newLeaf(full buildname.Name, file *vfs.Handle) *leafNode {
	return &leafNode{Base: NewBase(full), file: file}
}

func (l *leafNode) GetInputFile() *vfs.Handle { return l.file }
func (l *leafNode) OutputTarget() (string, bool) {
	if l.file == nil {
		return "", false
	}
	return l.file.Path(), true
}
func (l *leafNode) CommandLine(sys platform.System) *shellcmd.Command { return nil }
func (l *leafNode) IsPhony() bool                                     { return false }

func TestEdgeHasAnnotationsRequiresExactMatch(t *testing.T) {
	e := NewEdge(nil, map[string]any{"obj": true, "lang": "c"})
	assert.True(t, e.HasAnnotations(map[string]any{"obj": true}))
	assert.True(t, e.HasAnnotations(nil))
	assert.False(t, e.HasAnnotations(map[string]any{"obj": false}))
	assert.False(t, e.HasAnnotations(map[string]any{"missing": true}))
}

func TestFilterReturnsOnlyMatchingEdges(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	a := newLeaf(buildname.Of("a"), store.At("/tmp/a.o"))
	b := newLeaf(buildname.Of("b"), store.At("/tmp/b.o"))
	edges := []*Edge{
		NewEdge(a, map[string]any{"obj": true}),
		NewEdge(b, map[string]any{"obj": false}),
	}
	filtered := Filter(edges, map[string]any{"obj": true})
	require.Len(t, filtered, 1)
	assert.Same(t, a, filtered[0].Target)
}

func TestFlattenExpandsGroupMembersRecursively(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	a := newLeaf(buildname.Of("a"), store.At("/tmp/a.o"))
	b := newLeaf(buildname.Of("b"), store.At("/tmp/b.o"))

	inner := NewGroupNode(buildname.Of("inner"))
	inner.AddEdge(NewEdge(a, nil))

	outer := NewGroupNode(buildname.Of("outer"))
	outer.AddEdge(NewEdge(inner, nil))
	outer.AddEdge(NewEdge(b, nil))

	top := []*Edge{NewEdge(outer, nil)}
	flat := Flatten(top)
	require.Len(t, flat, 2)
	assert.Same(t, a, flat[0].Target)
	assert.Same(t, b, flat[1].Target)
}

func TestAliasNodeIsPhonyAndFlattensLikeGroup(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	a := newLeaf(buildname.Of("a"), store.At("/tmp/a.o"))

	alias := NewAliasNode(buildname.Of("all"))
	alias.AddEdge(NewEdge(a, nil))

	assert.True(t, alias.IsPhony())
	target, ok := alias.OutputTarget()
	assert.True(t, ok)
	assert.Equal(t, "all", target)

	flat := Flatten([]*Edge{NewEdge(alias, nil)})
	require.Len(t, flat, 1)
	assert.Same(t, a, flat[0].Target)
}

func TestGroupNodeEmitsNoOutputTarget(t *testing.T) {
	g := NewGroupNode(buildname.Of("g"))
	_, ok := g.OutputTarget()
	assert.False(t, ok)
}

func TestNodespaceGetOrCreateIsIdempotent(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	root := store.At("/proj")
	env := NewEnvironment(Options{}, nil, store, root, root)
	ns := env.RootNodespace()

	calls := 0
	construct := func() Node {
		calls++
		return newLeaf(buildname.Of("a"), store.At("/proj/a.o"))
	}
	first := ns.GetOrCreate("a", construct)
	second := ns.GetOrCreate("a", construct)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetExternalFindsRootRegisteredNode(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	root := store.At("/proj")
	env := NewEnvironment(Options{}, nil, store, root, root)
	ns := env.RootNodespace()
	n := ns.GetOrCreate("a", func() Node { return newLeaf(buildname.Of("a"), store.At("/proj/a.o")) })

	found, err := env.GetExternal("a")
	require.NoError(t, err)
	assert.Same(t, n, found)

	_, err = env.GetExternal("missing")
	assert.Error(t, err)
}

func TestDepNodespaceIsolatesKeysFromRoot(t *testing.T) {
	store := vfs.NewStore(vfs.NewStickyCache())
	root := store.At("/proj")
	env := NewEnvironment(Options{}, nil, store, root, root)
	env.RootNodespace().GetOrCreate("a", func() Node { return newLeaf(buildname.Of("a"), store.At("/proj/a.o")) })

	depRoot := store.At("/proj/deps/libfoo")
	depNS, created := env.GetOrCreateDepNodespace("libfoo", depRoot, depRoot)
	require.True(t, created)
	depNS.GetOrCreate("a", func() Node { return newLeaf(buildname.Of("a"), store.At("/proj/deps/libfoo/a.o")) })

	fromRoot, err := env.GetExternal("a")
	require.NoError(t, err)
	fromDep, err := env.GetDepExternal("libfoo", "a")
	require.NoError(t, err)
	assert.NotSame(t, fromRoot, fromDep)

	_, createdAgain := env.GetOrCreateDepNodespace("libfoo", depRoot, depRoot)
	assert.False(t, createdAgain)
}

type fakePkgConfig struct {
	output string
	err    error
}

func (f fakePkgConfig) Run(name string) (string, error) { return f.output, f.err }

func TestLibraryInfoAutoresolveParsesFlags(t *testing.T) {
	li := newLibraryInfo("gtk+-3.0")
	li.AddPlatform("posix", nil, nil, "gtk+-3.0")

	inst, err := li.Resolve("posix", fakePkgConfig{output: "-I/usr/include/gtk -lgtk-3 -lglib-2.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/include/gtk"}, inst.Includes())
	assert.Equal(t, []string{"gtk-3", "glib-2.0"}, inst.Libs())
}

func TestLibraryInfoResolveUnknownPlatform(t *testing.T) {
	li := newLibraryInfo("gtk+-3.0")
	_, err := li.Resolve("windows", fakePkgConfig{})
	assert.Error(t, err)
}

func TestLibraryInfoAutoresolveFailurePropagatesExternalCommandError(t *testing.T) {
	li := newLibraryInfo("missing-lib")
	li.AddPlatform("posix", nil, nil, "missing-lib")
	_, err := li.Resolve("posix", fakePkgConfig{err: errors.New("exit status 1")})
	assert.Error(t, err)
}

func TestLibraryInfoAutoresolveOnlyRunsOnce(t *testing.T) {
	calls := 0
	runner := pkgConfigFunc(func(name string) (string, error) {
		calls++
		return "-Ifoo -lbar", nil
	})
	li := newLibraryInfo("x")
	li.AddPlatform("posix", nil, nil, "x")
	_, err := li.Resolve("posix", runner)
	require.NoError(t, err)
	_, err = li.Resolve("posix", runner)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

type pkgConfigFunc func(name string) (string, error)

func (f pkgConfigFunc) Run(name string) (string, error) { return f(name) }
