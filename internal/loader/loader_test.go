package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jethrolarson/noolang-sub003/internal/manifest"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestResolveRelativeImport(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeModule(t, dir, "main.noo", "1")
	writeModule(t, dir, "helper.noo", "2")

	l := New(&manifest.Manifest{})
	prog, err := l.Resolve(mainPath, "./helper")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
}

func TestResolveMemoizesPerPath(t *testing.T) {
	dir := t.TempDir()
	mainPath := writeModule(t, dir, "main.noo", "1")
	writeModule(t, dir, "helper.noo", "2")

	l := New(&manifest.Manifest{})
	prog1, err := l.Resolve(mainPath, "./helper")
	require.NoError(t, err)
	prog2, err := l.Resolve(mainPath, "./helper")
	require.NoError(t, err)
	assert.Same(t, prog1, prog2, "a second resolve of the same path must reuse the cached parse")
}

func TestResolveStdlibImport(t *testing.T) {
	dir := t.TempDir()
	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	writeModule(t, stdlib, "core.noo", "1")

	l := New(&manifest.Manifest{StdlibPath: stdlib})
	_, err := l.Resolve("", "std/core")
	require.NoError(t, err)
}

func TestResolveStdlibImportMissingErrors(t *testing.T) {
	dir := t.TempDir()
	l := New(&manifest.Manifest{StdlibPath: filepath.Join(dir, "stdlib")})
	_, err := l.Resolve("", "std/missing")
	require.Error(t, err)
}

func TestResolveSearchPathImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.noo", "1")

	l := New(&manifest.Manifest{SearchPaths: []string{dir}})
	_, err := l.Resolve("", "util")
	require.NoError(t, err)
}

func TestResolveUnknownModuleErrors(t *testing.T) {
	l := New(&manifest.Manifest{SearchPaths: []string{t.TempDir()}})
	_, err := l.Resolve("", "nope")
	require.Error(t, err)
}

func TestResolveRelativeImportWithoutFromFileErrors(t *testing.T) {
	l := New(&manifest.Manifest{})
	_, err := l.Resolve("", "./helper")
	require.Error(t, err)
}

func TestCycleErrorMessageJoinsChain(t *testing.T) {
	err := &CycleError{Chain: []string{"a", "b", "a"}}
	assert.Equal(t, "circular import: a -> b -> a", err.Error())
}
