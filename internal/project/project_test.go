package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadAndSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.of"), "module a\nexport fn f(): number { return 1 }\n")
	writeFile(t, filepath.Join(dir, "b.of"), "module b\nimport a\nfn g(): number { return a.f() }\n")

	manifestPath := filepath.Join(dir, "outfield.yaml")
	writeFile(t, manifestPath, "target: lua\nmodules:\n  a: a.of\n  b: b.of\n")

	m, err := Load(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "lua", m.Target)
	assert.Len(t, m.Modules, 2)

	sources, err := m.Sources(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, sources["a"], "module a")
	assert.Contains(t, sources["b"], "module b")
}

func TestLoadRejectsEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "empty.yaml")
	writeFile(t, manifestPath, "target: lua\n")

	_, err := Load(manifestPath)
	assert.Error(t, err)
}
