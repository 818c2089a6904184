// Package types implements the checker's structural type lattice:
// primitives, enums, structs, struct constructors, function types, and
// flattened/deduplicated unions, plus the assignability relation.
//
// There is no type inference, no type variables, and no generics, so each
// type is either written explicitly or computed once from its initializer.
// Types form a small sealed interface with a String() method used verbatim
// in diagnostic messages.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every checker type satisfies.
type Type interface {
	String() string
	key() string
}

// Any absorbs assignments in either direction (spec §3's intentional escape
// hatch).
type AnyT struct{}

func (AnyT) String() string { return "any" }
func (AnyT) key() string    { return "any" }

// Never is the bottom type: assignable to anything.
type NeverT struct{}

func (NeverT) String() string { return "never" }
func (NeverT) key() string    { return "never" }

// Nil is the absent-value type.
type NilT struct{}

func (NilT) String() string { return "nil" }
func (NilT) key() string    { return "nil" }

// PrimitiveKind distinguishes the three scalar primitives.
type PrimitiveKind string

const (
	KindNumber  PrimitiveKind = "number"
	KindString  PrimitiveKind = "string"
	KindBoolean PrimitiveKind = "boolean"
)

type Primitive struct {
	Kind PrimitiveKind
}

func (p Primitive) String() string { return string(p.Kind) }
func (p Primitive) key() string    { return "prim:" + string(p.Kind) }

var Number = Primitive{Kind: KindNumber}
var Str = Primitive{Kind: KindString}
var Boolean = Primitive{Kind: KindBoolean}

// Enum is a declared enum type, identified by name.
type Enum struct {
	Name  string
	Items []string // declaration order
}

func (e *Enum) String() string { return e.Name }
func (e *Enum) key() string    { return "enum:" + e.Name }

// HasItem reports whether name is a declared member.
func (e *Enum) HasItem(name string) bool {
	for _, it := range e.Items {
		if it == name {
			return true
		}
	}
	return false
}

// Struct is a structural record type: assignability is width-subtyped
// (spec §4.3 rule 5, struct case).
type Struct struct {
	Name   string // "" for an anonymous table-derived struct type
	Fields map[string]Type
}

func (s *Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	names := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, s.Fields[n].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *Struct) key() string {
	if s.Name != "" {
		return "struct:" + s.Name
	}
	names := make([]string, 0, len(s.Fields))
	for n := range s.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+s.Fields[n].key())
	}
	return "struct{" + strings.Join(parts, ",") + "}"
}

// StructCtor is the compile-time value representing a struct's `.new(...)`
// factory (spec's Struct constructor, §4.3).
type StructCtor struct {
	Name       string
	Instance   *Struct
	CtorParams []Type
}

func (c *StructCtor) String() string { return c.Name }
func (c *StructCtor) key() string    { return "ctor:" + c.Name }

// Func is a function type; params compared contravariantly, return
// covariantly (spec §4.3 rule 5, func case).
type Func struct {
	Params []Type
	Ret    Type
}

func (f *Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Ret.String())
}

func (f *Func) key() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.key()
	}
	return fmt.Sprintf("func(%s)->%s", strings.Join(parts, ","), f.Ret.key())
}

// Union is a flattened, deduplicated, length>=2 set of alternative types
// (spec §3's union invariants).
type Union struct {
	Types []Type
}

func (u *Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

func (u *Union) key() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.key()
	}
	sort.Strings(parts)
	return "union{" + strings.Join(parts, ",") + "}"
}

// NewUnion flattens nested unions, de-duplicates by structural key, and
// collapses length-1 to the sole member and length-0 to Never (spec §3).
func NewUnion(members ...Type) Type {
	var flat []Type
	var flatten func(t Type)
	flatten = func(t Type) {
		if u, ok := t.(*Union); ok {
			for _, m := range u.Types {
				flatten(m)
			}
			return
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		flatten(m)
	}

	seen := make(map[string]bool)
	var deduped []Type
	for _, t := range flat {
		k := t.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, t)
	}

	switch len(deduped) {
	case 0:
		return NeverT{}
	case 1:
		return deduped[0]
	default:
		return &Union{Types: deduped}
	}
}

// IsNilable reports whether t is nil itself or a union containing nil
// (spec §4.3).
func IsNilable(t Type) bool {
	if _, ok := t.(NilT); ok {
		return true
	}
	if u, ok := t.(*Union); ok {
		for _, m := range u.Types {
			if _, ok := m.(NilT); ok {
				return true
			}
		}
	}
	return false
}

// RemoveNil drops the nil member from a nilable type (spec §4.3).
func RemoveNil(t Type) Type {
	if _, ok := t.(NilT); ok {
		return NeverT{}
	}
	u, ok := t.(*Union)
	if !ok {
		return t
	}
	var rest []Type
	for _, m := range u.Types {
		if _, ok := m.(NilT); !ok {
			rest = append(rest, m)
		}
	}
	return NewUnion(rest...)
}

// Assignable implements `src ≲ dst` (spec §4.3), recursive and structural.
func Assignable(src, dst Type) bool {
	if _, ok := dst.(AnyT); ok {
		return true
	}
	if _, ok := src.(NeverT); ok {
		return true
	}
	if _, ok := src.(AnyT); ok {
		return true
	}

	if dstUnion, ok := dst.(*Union); ok {
		for _, u := range dstUnion.Types {
			if Assignable(src, u) {
				return true
			}
		}
		return false
	}

	if srcUnion, ok := src.(*Union); ok {
		for _, s := range srcUnion.Types {
			if !Assignable(s, dst) {
				return false
			}
		}
		return true
	}

	switch s := src.(type) {
	case NilT:
		_, ok := dst.(NilT)
		return ok
	case Primitive:
		d, ok := dst.(Primitive)
		return ok && d.Kind == s.Kind
	case *Enum:
		d, ok := dst.(*Enum)
		return ok && d.Name == s.Name
	case *StructCtor:
		d, ok := dst.(*StructCtor)
		return ok && d.Name == s.Name
	case *Struct:
		d, ok := dst.(*Struct)
		if !ok {
			return false
		}
		for fname, ftype := range d.Fields {
			sft, ok := s.Fields[fname]
			if !ok || !Assignable(sft, ftype) {
				return false
			}
		}
		return true
	case *Func:
		d, ok := dst.(*Func)
		if !ok || len(d.Params) != len(s.Params) {
			return false
		}
		for i := range d.Params {
			// contravariant parameters
			if !Assignable(d.Params[i], s.Params[i]) {
				return false
			}
		}
		// covariant return
		return Assignable(s.Ret, d.Ret)
	default:
		return false
	}
}
