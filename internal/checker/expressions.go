package checker

import (
	"strconv"

	"github.com/outfield-lang/outfieldc/internal/ast"
	"github.com/outfield-lang/outfieldc/internal/diag"
	"github.com/outfield-lang/outfieldc/internal/types"
)

// typeOf computes e's structural type per spec §4.3's "Expression typing",
// reporting any assignability/arity/member errors along the way.
func (c *Checker) typeOf(e ast.Expr, scope *Scope) types.Type {
	switch n := e.(type) {
	case *ast.Number:
		return types.Number
	case *ast.String:
		return types.Str
	case *ast.Boolean:
		return types.Boolean
	case *ast.Nil:
		return types.NilT{}
	case *ast.Ident:
		if t, ok := scope.lookup(n.Name); ok {
			return t
		}
		return types.AnyT{}
	case *ast.Table:
		return c.typeOfTable(n, scope)
	case *ast.Unary:
		return c.typeOfUnary(n, scope)
	case *ast.Binary:
		return c.typeOfBinary(n, scope)
	case *ast.Call:
		return c.typeOfCall(n, scope)
	case *ast.Index:
		return c.typeOfIndex(n, scope)
	default:
		return types.AnyT{}
	}
}

func (c *Checker) typeOfTable(n *ast.Table, scope *Scope) types.Type {
	fields := make(map[string]types.Type)
	var positional []types.Type
	for _, f := range n.Fields {
		vt := c.typeOf(f.Value, scope)
		if f.KeyIsIdent {
			if key, ok := f.Key.(*ast.String); ok {
				fields[key.Value] = vt
				continue
			}
		}
		c.typeOf(f.Key, scope)
		fields["[index]"] = types.AnyT{}
	}
	for _, af := range n.ArrayFields {
		positional = append(positional, c.typeOf(af.Value, scope))
	}
	if len(positional) > 0 {
		fields["[index]"] = types.NewUnion(positional...)
	}
	return &types.Struct{Fields: fields}
}

func (c *Checker) typeOfUnary(n *ast.Unary, scope *Scope) types.Type {
	operand := c.typeOf(n.X, scope)
	switch n.Op {
	case "not":
		return types.Boolean
	case "-", "#":
		if !isNumber(operand) {
			c.sink.Error(n.X.GetSpan(), diag.CodeTypeMismatch, "expected number, got "+operand.String())
		}
		return types.Number
	default:
		return types.AnyT{}
	}
}

func (c *Checker) typeOfBinary(n *ast.Binary, scope *Scope) types.Type {
	lt := c.typeOf(n.Left, scope)
	rt := c.typeOf(n.Right, scope)

	switch n.Op {
	case "and", "or":
		return types.NewUnion(lt, rt)
	case "==", "~=", "<", "<=", ">", ">=":
		if n.Op != "==" && n.Op != "~=" {
			if !isNumber(lt) {
				c.sink.Error(n.Left.GetSpan(), diag.CodeTypeMismatch, "expected number, got "+lt.String())
			}
			if !isNumber(rt) {
				c.sink.Error(n.Right.GetSpan(), diag.CodeTypeMismatch, "expected number, got "+rt.String())
			}
		}
		return types.Boolean
	case "+", "-", "*", "/", "%", "^":
		if !isNumber(lt) {
			c.sink.Error(n.Left.GetSpan(), diag.CodeTypeMismatch, "expected number, got "+lt.String())
		}
		if !isNumber(rt) {
			c.sink.Error(n.Right.GetSpan(), diag.CodeTypeMismatch, "expected number, got "+rt.String())
		}
		return types.Number
	default:
		return types.AnyT{}
	}
}

func isNumber(t types.Type) bool {
	if _, ok := t.(types.AnyT); ok {
		return true
	}
	p, ok := t.(types.Primitive)
	return ok && p.Kind == types.KindNumber
}

// funcMember returns the first func member of t, itself if t is already a
// func, per spec §4.3's "union-of-func allowed: pick the first func member".
func funcMember(t types.Type) (*types.Func, bool) {
	switch f := t.(type) {
	case *types.Func:
		return f, true
	case *types.Union:
		for _, m := range f.Types {
			if fn, ok := funcMember(m); ok {
				return fn, true
			}
		}
	}
	return nil, false
}

func (c *Checker) typeOfCall(n *ast.Call, scope *Scope) types.Type {
	calleeType := c.typeOf(n.Callee, scope)
	if _, ok := calleeType.(types.AnyT); ok {
		for _, arg := range n.Args {
			c.typeOf(arg, scope)
		}
		return types.AnyT{}
	}

	fn, ok := funcMember(calleeType)
	if !ok {
		for _, arg := range n.Args {
			c.typeOf(arg, scope)
		}
		c.sink.Error(n.Callee.GetSpan(), diag.CodeNotCallable, "attempt to call non-function value of type "+calleeType.String())
		return types.AnyT{}
	}

	if len(n.Args) < len(fn.Params) {
		c.sink.Error(n.Span, diag.CodeArityMismatch, "too few arguments: expected "+strconv.Itoa(len(fn.Params))+", got "+strconv.Itoa(len(n.Args)))
	}

	for i, arg := range n.Args {
		at := c.typeOf(arg, scope)
		if i >= len(fn.Params) {
			continue // extra arguments silently accepted, spec §9 open question
		}
		if !types.Assignable(at, fn.Params[i]) {
			c.sink.Error(arg.GetSpan(), diag.CodeTypeMismatch,
				"argument "+strconv.Itoa(i+1)+": expected "+fn.Params[i].String()+", got "+at.String())
		}
	}

	return fn.Ret
}

func (c *Checker) typeOfIndex(n *ast.Index, scope *Scope) types.Type {
	if baseIdent, ok := n.Base.(*ast.Ident); ok && n.Dot {
		if modName, isAlias := c.aliasModule(baseIdent.Name); isAlias {
			if key, ok := n.Key.(*ast.String); ok {
				exports := c.env.ModuleExportTypes[modName]
				if t, found := exports[key.Value]; found {
					return t
				}
				c.sink.Error(n.Span, diag.CodeFieldNotPresent, "access to non-exported symbol '"+key.Value+"' from module '"+modName+"'")
				return types.AnyT{}
			}
		}
		if e, isEnum := c.reg.Enums[baseIdent.Name]; isEnum {
			if key, ok := n.Key.(*ast.String); ok {
				if !e.HasItem(key.Value) {
					c.sink.Error(n.Span, diag.CodeEnumNoMember, "enum '"+e.Name+"' has no member '"+key.Value+"'")
				}
			}
			return e
		}
	}

	baseType := c.typeOf(n.Base, scope)

	if !n.Dot {
		c.typeOf(n.Key, scope)
		return types.AnyT{}
	}

	key, ok := n.Key.(*ast.String)
	if !ok {
		return types.AnyT{}
	}

	if ctor, isCtor := baseType.(*types.StructCtor); isCtor && key.Value == "new" {
		return &types.Func{Params: ctor.CtorParams, Ret: ctor.Instance}
	}

	if st, isStruct := baseType.(*types.Struct); isStruct {
		if ft, found := st.Fields[key.Value]; found {
			return ft
		}
		c.sink.Error(n.Span, diag.CodeFieldNotPresent, "field '"+key.Value+"' not present on type "+baseType.String())
		return types.AnyT{}
	}

	if types.IsNilable(baseType) {
		c.sink.Error(n.Span, diag.CodeFieldNotPresent, "cannot access field on possibly-nil value")
		return types.AnyT{}
	}

	return types.AnyT{}
}

func (c *Checker) aliasModule(name string) (string, bool) {
	if c.env == nil {
		return "", false
	}
	m, ok := c.env.AliasToModule[name]
	return m, ok
}
