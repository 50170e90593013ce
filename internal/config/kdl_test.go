package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/vfs"
)

func newTestEnvironment(t *testing.T) (*graph.Environment, *vfs.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := vfs.NewStore(vfs.NewStickyCache())
	home := store.At(dir)
	outDir := store.At(filepath.Join(dir, "out"))
	sys, err := platform.For("posix")
	require.NoError(t, err)
	env := graph.NewEnvironment(graph.Options{SystemName: "posix"}, sys, store, home, outDir)
	return env, store, dir
}

// writeScript writes contents to disk at dir/name and returns the Store
// handle for it — the handle's Kind is resolved from the filesystem at
// construction time, so the file must exist before the handle is taken.
func writeScript(t *testing.T, store *vfs.Store, dir, name, contents string) *vfs.Handle {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	return store.At(full)
}

func TestLoadFileBuildsExecutableGroupAliasAndToc(t *testing.T) {
	env, store, dir := newTestEnvironment(t)
	home := store.At(dir)

	script := `
c {
	source "main.c"
	object "main.o" {
		source "main.c"
	}
	executable "prog" {
		object "main.o"
	}
}

group "all-objects" {
	member "main.o"
}

alias "default" {
	member "prog"
}

test {
	case "prog"
}

toc {
	file "manifest" {
		generator "prog"
		test "prog::test"
	}
}
`
	scriptFile := writeScript(t, store, dir, "build.kdl", script)
	ctx := NewRootContext(env, home)

	require.NoError(t, LoadFile(ctx, scriptFile))

	exe, err := ctx.GetLocal("prog")
	require.NoError(t, err)
	assert.NotNil(t, exe)

	group, err := ctx.GetLocal("all-objects")
	require.NoError(t, err)
	assert.NotEmpty(t, group.Edges())

	alias, err := ctx.GetExternal("default")
	require.NoError(t, err)
	assert.True(t, alias.IsPhony())

	tocNode, err := ctx.GetLocal("manifest")
	require.NoError(t, err)
	assert.Len(t, tocNode.Edges(), 2)
}

func TestLoadFileRejectsUnknownDirective(t *testing.T) {
	env, store, dir := newTestEnvironment(t)
	home := store.At(dir)
	scriptFile := writeScript(t, store, dir, "build.kdl", `bogus "thing"`)
	ctx := NewRootContext(env, home)

	err := LoadFile(ctx, scriptFile)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bogus") || strings.Contains(err.Error(), "directive"))
}

func TestLoadFileGroupMemberMustExistFirst(t *testing.T) {
	env, store, dir := newTestEnvironment(t)
	home := store.At(dir)
	scriptFile := writeScript(t, store, dir, "build.kdl", `
group "early" {
	member "not-yet-defined"
}
`)
	ctx := NewRootContext(env, home)

	err := LoadFile(ctx, scriptFile)
	require.Error(t, err)
}

func TestIncludeLoadsChildScriptUnderPrefix(t *testing.T) {
	env, store, dir := newTestEnvironment(t)
	home := store.At(dir)
	writeScript(t, store, dir, "sub/part.kdl", `
c {
	source "lib.c"
}
`)
	rootScript := writeScript(t, store, dir, "build.kdl", `include "sub" "part.kdl"`)
	ctx := NewRootContext(env, home)

	require.NoError(t, LoadFile(ctx, rootScript))

	n, err := ctx.GetExternal("sub::lib.c")
	require.NoError(t, err)
	assert.NotNil(t, n)
}
