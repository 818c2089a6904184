package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outfield-lang/outfieldc/internal/config"
)

func compileOK(t *testing.T, src string) string {
	t.Helper()
	out, sink := Compile(src, config.DefaultOptions())
	require.False(t, sink.HasErrors(), "unexpected errors: %v", sink.Diagnostics())
	return out
}

func TestLoopInvariantHoisting(t *testing.T) {
	out := compileOK(t, `
fn f(n: number) {
	let a = 2
	let b = 3
	for i = 1, n {
		let x = a * b
		let y = x + 1
	}
}
`)
	assert.Contains(t, out, "local _hoisted")
	assert.Contains(t, out, "for i = 1, n do")
	assert.Contains(t, out, "local y = _hoisted")
}

func TestGlobalAliasing(t *testing.T) {
	out := compileOK(t, `
fn f(a: number, b: number): number {
	return math.sin(a) + math.sin(b)
}
`)
	assert.Contains(t, out, "local sin = math.sin")
	assert.Contains(t, out, "return sin(a) + sin(b)")
}

func TestRedundantTempElimination(t *testing.T) {
	out := compileOK(t, `
fn f(): number {
	let x = 1
	let y = x
	return y
}
`)
	assert.Contains(t, out, "return 1")
}

func TestLocalFieldCaching(t *testing.T) {
	out := compileOK(t, `
fn f(p: {x: number}): number {
	let a = p.x
	let b = p.x
	return a + b
}
`)
	assert.Contains(t, out, "local p_x = p.x")
}

func TestCompileReturnsErrorsWithoutEmitting(t *testing.T) {
	out, sink := Compile(`
fn f(): number {
	return "no"
}
`, config.DefaultOptions())
	assert.True(t, sink.HasErrors())
	assert.Empty(t, out)
}
