package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignabilityReflexivity(t *testing.T) {
	point := &Struct{Name: "Point", Fields: map[string]Type{"x": Number, "y": Number}}
	color := &Enum{Name: "Color", Items: []string{"Red", "Green"}}
	fn := &Func{Params: []Type{Number, Str}, Ret: Boolean}

	for _, tc := range []Type{Number, Str, Boolean, NilT{}, point, color, fn} {
		assert.True(t, Assignable(tc, tc), "%s should be assignable to itself", tc.String())
	}
}

func TestUnionAbsorption(t *testing.T) {
	u := NewUnion(Number, Str)
	assert.True(t, Assignable(Number, u))
	assert.True(t, Assignable(Str, u))
	assert.False(t, Assignable(Boolean, u))
}

func TestAnyNeutrality(t *testing.T) {
	any := AnyT{}
	assert.True(t, Assignable(Number, any))
	assert.True(t, Assignable(any, Number))
	assert.True(t, Assignable(any, Str))
}

func TestNewUnionFlattensAndDedupes(t *testing.T) {
	nested := NewUnion(Number, NewUnion(Str, Number))
	u, ok := nested.(*Union)
	require := assert.New(t)
	require.True(ok)
	require.Len(u.Types, 2)
}

func TestNewUnionCollapsesSingleMember(t *testing.T) {
	single := NewUnion(Number)
	_, isUnion := single.(*Union)
	assert.False(t, isUnion)
	assert.Equal(t, Number, single)
}

func TestIsNilableAndRemoveNil(t *testing.T) {
	nilable := NewUnion(Number, NilT{})
	assert.True(t, IsNilable(nilable))
	assert.False(t, IsNilable(Number))
	assert.Equal(t, Number, RemoveNil(nilable))
}

func TestStructWidthSubtyping(t *testing.T) {
	wide := &Struct{Fields: map[string]Type{"x": Number, "y": Number}}
	narrow := &Struct{Fields: map[string]Type{"x": Number}}

	assert.True(t, Assignable(wide, narrow), "extra fields are fine when only a subset is required")
	assert.False(t, Assignable(narrow, wide), "missing a required field must fail")
}

func TestFuncContravariantParamsCovariantReturn(t *testing.T) {
	numOrStr := NewUnion(Number, Str)
	narrowParam := &Func{Params: []Type{Number}, Ret: Number}
	wideParam := &Func{Params: []Type{numOrStr}, Ret: Number}

	assert.True(t, Assignable(wideParam, narrowParam), "a function accepting a wider param type satisfies a narrower one")
	assert.False(t, Assignable(narrowParam, wideParam))
}
