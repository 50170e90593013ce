package neutrino

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto10/mkmk/internal/buildname"
	"github.com/goto10/mkmk/internal/graph"
	"github.com/goto10/mkmk/internal/platform"
	"github.com/goto10/mkmk/internal/vfs"
)

func TestNLibraryCommandLineIncludesManifests(t *testing.T) {
	dir := t.TempDir()
	compilerPath := filepath.Join(dir, "nc")
	m1Path := filepath.Join(dir, "a.module")
	m2Path := filepath.Join(dir, "b.module")
	require.NoError(t, os.WriteFile(compilerPath, []byte(""), 0o755))
	require.NoError(t, os.WriteFile(m1Path, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(m2Path, []byte(""), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	outDir := store.At(filepath.Join(dir, "out"))

	compiler := graph.NewFileNode(buildname.Of("nc"), store.At(compilerPath))
	m1 := NewSourceNode(buildname.Of("a.module"), store.At(m1Path))
	m2 := NewSourceNode(buildname.Of("b.module"), store.At(m2Path))

	lib := NewNLibrary(buildname.Of("mylib"), outDir)
	lib.SetCompiler(compiler).AddManifest(m1).AddManifest(m2)

	sys, err := platform.For("posix")
	require.NoError(t, err)
	cmd := lib.CommandLine(sys)
	require.NotNil(t, cmd)
	line := cmd.Parts()[0]
	assert.Contains(t, line, compilerPath)
	assert.Contains(t, line, "--build_library")
	assert.Contains(t, line, m1Path)
	assert.Contains(t, line, m2Path)

	assert.Equal(t, filepath.Join(dir, "out", "mylib.nl"), lib.OutputFile().Path())
}

func TestNProgramCommandLineIncludesSourceAndModules(t *testing.T) {
	dir := t.TempDir()
	compilerPath := filepath.Join(dir, "nc")
	srcPath := filepath.Join(dir, "main.n")
	modPath := filepath.Join(dir, "util.nl")
	require.NoError(t, os.WriteFile(compilerPath, []byte(""), 0o755))
	require.NoError(t, os.WriteFile(srcPath, []byte(""), 0o644))
	require.NoError(t, os.WriteFile(modPath, []byte(""), 0o644))

	store := vfs.NewStore(vfs.NewStickyCache())
	outDir := store.At(filepath.Join(dir, "out"))

	compiler := graph.NewFileNode(buildname.Of("nc"), store.At(compilerPath))
	src := NewSourceNode(buildname.Of("main.n"), store.At(srcPath))
	mod := graph.NewFileNode(buildname.Of("util.nl"), store.At(modPath))

	prog := NewNProgram(buildname.Of("myapp"), outDir)
	prog.SetCompiler(compiler).AddSource(src).AddModule(mod)

	sys, err := platform.For("posix")
	require.NoError(t, err)
	cmd := prog.CommandLine(sys)
	line := cmd.Parts()[0]
	assert.Contains(t, line, "--files")
	assert.Contains(t, line, srcPath)
	assert.Contains(t, line, modPath)
	assert.Contains(t, line, "--out")

	assert.Equal(t, filepath.Join(dir, "out", "myapp.np"), prog.OutputFile().Path())
}

func TestBinaryWithoutCompilerProducesEmptyCommand(t *testing.T) {
	dir := t.TempDir()
	store := vfs.NewStore(vfs.NewStickyCache())
	outDir := store.At(filepath.Join(dir, "out"))

	lib := NewNLibrary(buildname.Of("mylib"), outDir)
	sys, err := platform.For("posix")
	require.NoError(t, err)
	cmd := lib.CommandLine(sys)
	assert.Empty(t, cmd.Parts())
}
