package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSourceFilesFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.of"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.outfield"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(""), 0o644))

	files, err := ListSourceFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"a.of", "b.outfield"}, names)
}

func TestRecompileAllRunsEveryFileAndReturnsFirstError(t *testing.T) {
	seen := make(chan string, 3)
	compileOne := func(ctx context.Context, path string) error {
		seen <- path
		if path == "bad.of" {
			return errors.New("boom")
		}
		return nil
	}

	err := RecompileAll(context.Background(), []string{"good1.of", "bad.of", "good2.of"}, compileOne)
	require.Error(t, err)
	close(seen)

	var got []string
	for p := range seen {
		got = append(got, p)
	}
	assert.ElementsMatch(t, []string{"good1.of", "bad.of", "good2.of"}, got)
}
