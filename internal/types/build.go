package types

import "github.com/outfield-lang/outfieldc/internal/ast"

// Registry holds the declared enum/struct types visible while checking one
// unit (spec §4.3's "declared enum/struct in the current environment").
type Registry struct {
	Enums   map[string]*Enum
	Structs map[string]*StructCtor
}

func NewRegistry() *Registry {
	return &Registry{Enums: make(map[string]*Enum), Structs: make(map[string]*StructCtor)}
}

// FromTypeExpr constructs a checker Type from a parsed type-expression node
// (spec §4.3's "Type construction from AST"). Unknown names fall back to Any.
func FromTypeExpr(t ast.TypeExpr, reg *Registry) Type {
	if t == nil {
		return AnyT{}
	}
	switch n := t.(type) {
	case *ast.TypeName:
		switch n.Name {
		case "any":
			return AnyT{}
		case "never":
			return NeverT{}
		case "nil":
			return NilT{}
		case "number":
			return Number
		case "string":
			return Str
		case "boolean":
			return Boolean
		default:
			if e, ok := reg.Enums[n.Name]; ok {
				return e
			}
			if c, ok := reg.Structs[n.Name]; ok {
				return c.Instance
			}
			return AnyT{}
		}
	case *ast.TypeStruct:
		fields := make(map[string]Type, len(n.Fields))
		for _, f := range n.Fields {
			fields[f.Name] = FromTypeExpr(f.Type, reg)
		}
		return &Struct{Fields: fields}
	case *ast.TypeUnion:
		return NewUnion(FromTypeExpr(n.Left, reg), FromTypeExpr(n.Right, reg))
	case *ast.TypeFunc:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = FromTypeExpr(p, reg)
		}
		return &Func{Params: params, Ret: FromTypeExpr(n.Ret, reg)}
	default:
		return AnyT{}
	}
}

// TypeExprName extracts the plain identifier a type annotation refers to, if
// it is a bare TypeName (used by the analyzer to look up declared type names
// for match exhaustiveness).
func TypeExprName(t ast.TypeExpr) (string, bool) {
	if n, ok := t.(*ast.TypeName); ok {
		return n.Name, true
	}
	return "", false
}

// TypeExprIsNilUnion reports whether a type annotation is `nil` itself or a
// union containing `nil` as written in source (spec §4.2's "unless the
// annotation itself is a union containing nil").
func TypeExprIsNilUnion(t ast.TypeExpr) bool {
	switch n := t.(type) {
	case nil:
		return false
	case *ast.TypeName:
		return n.Name == "nil"
	case *ast.TypeUnion:
		return TypeExprIsNilUnion(n.Left) || TypeExprIsNilUnion(n.Right)
	default:
		return false
	}
}
