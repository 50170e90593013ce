package cnode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/vfs"
)

func TestIsCppDerivedFromExtension(t *testing.T) {
	dir := t.TempDir()
	store := vfs.NewStore(vfs.NewStickyCache())

	cPath := filepath.Join(dir, "a.c")
	ccPath := filepath.Join(dir, "b.cc")
	require.NoError(t, os.WriteFile(cPath, []byte("int main(){}\n"), 0o644))
	require.NoError(t, os.WriteFile(ccPath, []byte("int main(){}\n"), 0o644))

	cSrc := NewCSourceNode(buildname.Of("a"), store.At(cPath))
	ccSrc := NewCSourceNode(buildname.Of("b"), store.At(ccPath))
	assert.False(t, cSrc.IsCpp())
	assert.True(t, ccSrc.IsCpp())
}

func TestIncludedHeadersResolvesTransitiveClosure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include"), 0o755))
	mainPath := filepath.Join(dir, "main.c")
	aPath := filepath.Join(dir, "a.h")
	bPath := filepath.Join(dir, "include", "b.h")

	require.NoError(t, os.WriteFile(mainPath, []byte(`#include "a.h"
int main(){}
`), 0o644))
	require.NoError(t, os.WriteFile(aPath, []byte(`#include "include/b.h"
`), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte(`// leaf
`), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	src := NewCSourceNode(buildname.Of("main"), store.At(mainPath))

	headers, err := src.IncludedHeaders()
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, filepath.Clean(aPath), headers[0].Path())
	assert.Equal(t, filepath.Clean(bPath), headers[1].Path())
}

func TestIncludedHeadersMemoizesAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(mainPath, []byte("int main(){}\n"), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	src := NewCSourceNode(buildname.Of("main"), store.At(mainPath))

	h1, err := src.IncludedHeaders()
	require.NoError(t, err)
	h2, err := src.IncludedHeaders()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestIncludedHeadersIgnoresMissingIncludes(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(mainPath, []byte(`#include "nope.h"
`), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	src := NewCSourceNode(buildname.Of("main"), store.At(mainPath))

	headers, err := src.IncludedHeaders()
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestIncludesDedupesAndSortsAcrossGroups(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))

	store := vfs.NewStore(vfs.NewStickyCache())
	mainPath := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(mainPath, []byte("int main(){}\n"), 0o644))

	src := NewCSourceNode(buildname.Of("main"), store.At(mainPath))

	bRef := graph.NewFileNode(buildname.Of("b"), store.At(filepath.Join(dir, "b")))
	aRef := graph.NewFileNode(buildname.Of("a"), store.At(filepath.Join(dir, "a")))
	src.AddIncludeRoot(bRef)
	src.AddIncludeRoot(aRef)
	src.AddIncludeRoot(aRef) // duplicate folder reference

	includes := src.Includes()
	require.Len(t, includes, 2)
	assert.Equal(t, filepath.Clean(filepath.Join(dir, "a")), includes[0].Path())
	assert.Equal(t, filepath.Clean(filepath.Join(dir, "b")), includes[1].Path())
}

func TestAddSystemIncludeAndDefinesPreserveOrder(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(mainPath, []byte("int main(){}\n"), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	src := NewCSourceNode(buildname.Of("main"), store.At(mainPath))

	src.AddSystemInclude("/usr/include/zlib")
	src.AddSystemInclude("/usr/include/png")
	assert.Equal(t, []string{"/usr/include/zlib", "/usr/include/png"}, src.SystemIncludes())

	src.AddDefine("DEBUG", "1")
	src.AddDefine("VERSION", "2")
	assert.Equal(t, [][2]string{{"DEBUG", "1"}, {"VERSION", "2"}}, src.Defines())
}

func TestForceCOverride(t *testing.T) {
	dir := t.TempDir()
	ccPath := filepath.Join(dir, "b.cc")
	require.NoError(t, os.WriteFile(ccPath, []byte("int main(){}\n"), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	src := NewCSourceNode(buildname.Of("b"), store.At(ccPath))
	assert.False(t, src.ForceC())
	src.SetForceC(true)
	assert.True(t, src.ForceC())
}
