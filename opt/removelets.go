package opt

import "sharpjs/js"

// RemoveLets eliminates let bindings that translation left behind: identity
// bindings, unused bindings and bindings whose value can be moved to the
// single use.  It runs first in both the inline and the non-inline chains.
func RemoveLets(e js.Expr) js.Expr {
	return js.TransformExpr(e, func(x js.Expr) js.Expr {
		let, ok := x.(*js.Let)
		if !ok {
			return x
		}
		return removeLet(let)
	})
}

func removeLet(let *js.Let) js.Expr {
	// let x = v in x  ->  v
	if v, ok := let.Body.(*js.Var); ok && v.Id == let.Id {
		return let.Value
	}

	if let.Id.Mutable {
		return let
	}

	uses := js.CountVarUses(let.Body, let.Id)

	if uses == 0 {
		if js.IsPure(let.Value) {
			return let.Body
		}
		return &js.Sequential{Exprs: []js.Expr{let.Value, let.Body}}
	}

	// trivial values substitute at every use
	if isTrivial(let.Value) {
		return js.ReplaceVar(let.Body, let.Id, let.Value)
	}

	if uses == 1 {
		if js.IsPure(let.Value) {
			return js.ReplaceVar(let.Body, let.Id, let.Value)
		}
		// effectful values may only move to the first evaluation position
		if firstEvaluatedVar(let.Body) == let.Id {
			return js.ReplaceVar(let.Body, let.Id, let.Value)
		}
	}

	return let
}

// isTrivial recognizes values cheap enough to duplicate at every use.
func isTrivial(e js.Expr) bool {
	switch v := e.(type) {
	case *js.Const, *js.Undefined, *js.GlobalAccess, *js.This, *js.Hole:
		return true
	case *js.Var:
		return !v.Id.Mutable
	default:
		return false
	}
}

// firstEvaluatedVar returns the variable read first when e is evaluated, or
// nil when evaluation does not begin with a variable read.
func firstEvaluatedVar(e js.Expr) *js.Id {
	switch v := e.(type) {
	case *js.Var:
		return v.Id
	case *js.ExprSourcePos:
		return firstEvaluatedVar(v.Expr)
	case *js.Application:
		return firstEvaluatedVar(v.Func)
	case *js.New:
		return firstEvaluatedVar(v.Func)
	case *js.ItemGet:
		return firstEvaluatedVar(v.Obj)
	case *js.ItemSet:
		return firstEvaluatedVar(v.Obj)
	case *js.Unary:
		return firstEvaluatedVar(v.Expr)
	case *js.Binary:
		return firstEvaluatedVar(v.Left)
	case *js.Conditional:
		return firstEvaluatedVar(v.Cond)
	case *js.Let:
		return firstEvaluatedVar(v.Value)
	case *js.Sequential:
		if len(v.Exprs) > 0 {
			return firstEvaluatedVar(v.Exprs[0])
		}
		return nil
	case *js.NewArray:
		if len(v.Elems) > 0 {
			return firstEvaluatedVar(v.Elems[0])
		}
		return nil
	case *js.Object:
		if len(v.Fields) > 0 {
			return firstEvaluatedVar(v.Fields[0].Value)
		}
		return nil
	default:
		return nil
	}
}
