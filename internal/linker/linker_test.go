package linker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircularImportDetected(t *testing.T) {
	sources := map[string]string{
		"a": "module a\nimport b\nexport fn f(): number { return 1 }\n",
		"b": "module b\nimport a\nexport fn g(): number { return 2 }\n",
	}
	units, sink := Link(sources)
	assert.Nil(t, units)
	require.True(t, sink.HasErrors())

	found := false
	for _, d := range sink.Diagnostics() {
		if strings.Contains(d.Message, "Circular import detected") {
			found = true
		}
	}
	assert.True(t, found, "expected circular import error, got: %v", sink.Diagnostics())
}

func TestLinksIndependentModules(t *testing.T) {
	sources := map[string]string{
		"a": "module a\nexport fn f(): number { return 1 }\n",
		"b": "module b\nimport a\nfn g(): number { return a.f() }\n",
	}
	units, sink := Link(sources)
	require.False(t, sink.HasErrors(), "unexpected errors: %v", sink.Diagnostics())
	assert.Len(t, units, 2)
}
