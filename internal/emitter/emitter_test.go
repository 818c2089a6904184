package emitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/outfield-lang/outfieldc/internal/config"
	"github.com/outfield-lang/outfieldc/internal/parser"
)

// TestGolden renders every testdata/*.txtar fixture's "input.of" section and
// compares it byte-for-byte against its "expected.lua" section, the
// structure/enum/match emission conventions of spec §6.
func TestGolden(t *testing.T) {
	matches, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			archive := txtar.Parse(data)

			var input, expected string
			for _, f := range archive.Files {
				switch f.Name {
				case "input.of":
					input = string(f.Data)
				case "expected.lua":
					expected = string(f.Data)
				}
			}
			require.NotEmpty(t, input)

			prog, perr := parser.Parse(path, input)
			require.NoError(t, perr)

			got := Emit(prog, config.TargetLuau)
			assert.Equal(t, expected, got)
		})
	}
}
