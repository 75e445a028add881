package project

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func writeGoMod(t *testing.T, dir, module string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+module+"\n\ngo 1.22\n"), 0o644))
}

func TestFindModuleRootInTree_AtRoot(t *testing.T) {
	tmp := t.TempDir()
	writeGoMod(t, tmp, "test")

	got, err := findModuleRootInTree(tmp)
	require.NoError(t, err)
	assert.Equal(t, tmp, got)
}

func TestFindModuleRootInTree_InSubdirectory(t *testing.T) {
	tmp := t.TempDir()
	subdir := filepath.Join(tmp, "backend")
	writeGoMod(t, subdir, "test/backend")

	got, err := findModuleRootInTree(tmp)
	require.NoError(t, err)
	assert.Equal(t, subdir, got)
}

func TestFindModuleRootInTree_NoGoMod(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "src"), 0o755))

	_, err := findModuleRootInTree(tmp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no go.mod found")
}

func TestFindModuleRootInTree_SkipsGitDir(t *testing.T) {
	tmp := t.TempDir()
	writeGoMod(t, filepath.Join(tmp, ".git"), "fake")
	realDir := filepath.Join(tmp, "real")
	writeGoMod(t, realDir, "real")

	got, err := findModuleRootInTree(tmp)
	require.NoError(t, err)
	assert.Equal(t, realDir, got)
}

func TestFindModuleRootInTree_PicksShallowest(t *testing.T) {
	tmp := t.TempDir()
	writeGoMod(t, filepath.Join(tmp, "a", "b"), "deep")
	shallow := filepath.Join(tmp, "z")
	writeGoMod(t, shallow, "shallow")

	got, err := findModuleRootInTree(tmp)
	require.NoError(t, err)
	assert.Equal(t, shallow, got)
}

func TestFindModuleRootInTree_SameDepthSorted(t *testing.T) {
	tmp := t.TempDir()
	dirA := filepath.Join(tmp, "alpha")
	writeGoMod(t, dirA, "alpha")
	writeGoMod(t, filepath.Join(tmp, "beta"), "beta")

	got, err := findModuleRootInTree(tmp)
	require.NoError(t, err)
	assert.Equal(t, dirA, got)
}

func TestFindModuleRootInTree_SkipsVendorNodeModulesAndTestdata(t *testing.T) {
	tmp := t.TempDir()
	for _, skip := range []string{"vendor", "node_modules", "testdata"} {
		writeGoMod(t, filepath.Join(tmp, skip), "skip")
	}

	_, err := findModuleRootInTree(tmp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no go.mod found")
}

func TestFindModuleRoot_WalksUp(t *testing.T) {
	tmp := t.TempDir()
	writeGoMod(t, tmp, "example.com/app")
	nested := filepath.Join(tmp, "internal", "routes")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := findModuleRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, tmp, got)
}

func TestResolve(t *testing.T) {
	tmp := t.TempDir()
	writeGoMod(t, tmp, "example.com/app")
	nested := filepath.Join(tmp, "cmd")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p, err := Resolve(nested, testLogger())
	require.NoError(t, err)
	assert.Equal(t, tmp, p.Root)
	assert.Equal(t, "example.com/app", p.ModulePath)
	assert.Equal(t, "1.22", p.GoVersion)
	assert.Equal(t, filepath.Join(tmp, "go.mod"), p.GoModPath())
}

func TestResolve_Errors(t *testing.T) {
	tmp := t.TempDir()
	_, err := Resolve(filepath.Join(tmp, "missing"), testLogger())
	assert.Error(t, err)

	file := filepath.Join(tmp, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Resolve(file, testLogger())
	assert.ErrorContains(t, err, "not a directory")
}

func TestLoad_NoModuleDirective(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "go.mod"), []byte("go 1.22\n"), 0o644))
	_, err := Load(tmp)
	assert.ErrorContains(t, err, "no module directive")
}
