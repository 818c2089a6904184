package checker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/parser"
	"github.com/outfield-lang/outfieldc/internal/types"
)

func check(t *testing.T, src string) *diag.Sink {
	t.Helper()
	prog, err := parser.Parse("test.of", src)
	require.NoError(t, err)
	sink := diag.NewSink()
	New(sink, types.NewRegistry(), nil).Check(prog)
	return sink
}

func hasMessageContaining(sink *diag.Sink, substr string) bool {
	for _, d := range sink.Diagnostics() {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestReturnTypeMismatch(t *testing.T) {
	sink := check(t, `
fn f(): number {
	return "no"
}
`)
	require.True(t, sink.HasErrors())
	assert.True(t, hasMessageContaining(sink, "Return type mismatch"))
}

func TestMatchOnEnumTypeChecksCleanly(t *testing.T) {
	// Exhaustiveness is the analyzer's concern (spec §4.2); the checker only
	// needs to accept a well-typed match over an enum subject.
	sink := check(t, `
enum E { A, B }

fn f(x: E): number {
	match x {
		case E.A => return 1
		case E.B => return 2
	}
}
`)
	assert.False(t, sink.HasErrors(), "expected no errors, got: %v", sink.Diagnostics())
}
