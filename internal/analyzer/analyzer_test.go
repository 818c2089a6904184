package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/parser"
)

func analyze(t *testing.T, src string) *diag.Sink {
	t.Helper()
	prog, err := parser.Parse("test.of", src)
	require.NoError(t, err)
	sink := diag.NewSink()
	New(sink, nil).Analyze(prog)
	return sink
}

func messages(sink *diag.Sink) []string {
	var out []string
	for _, d := range sink.Diagnostics() {
		out = append(out, d.Message)
	}
	return out
}

func TestUseBeforeAssignment(t *testing.T) {
	sink := analyze(t, `
fn f() {
	let x
	let y = x
}
`)
	require.True(t, sink.HasErrors())
	found := false
	for _, m := range messages(sink) {
		if strings.Contains(m, "Use of 'x' before assignment") {
			found = true
		}
	}
	assert.True(t, found, "expected use-before-assignment error, got: %v", messages(sink))
}

func TestNonExhaustiveEnumMatch(t *testing.T) {
	sink := analyze(t, `
enum E { A, B }

fn f(x: E): number {
	match x {
		case E.A => return 1
	}
}
`)
	require.True(t, sink.HasErrors())
	found := false
	for _, m := range messages(sink) {
		if strings.Contains(m, "Non-exhaustive match for enum") {
			found = true
		}
	}
	assert.True(t, found, "expected non-exhaustive enum match error, got: %v", messages(sink))
}

func TestNilNarrowingInsideGuard(t *testing.T) {
	sink := analyze(t, `
fn f() {
	let t: {x: number} | nil = nil
	if t ~= nil {
		let y = t.x
	}
}
`)
	assert.False(t, sink.HasErrors(), "expected no errors, got: %v", messages(sink))
}
