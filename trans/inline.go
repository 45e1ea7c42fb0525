package trans

import (
	"sharpjs/common"
	"sharpjs/js"
)

// Inline expansion order: resolve generics first (when the call site supplies
// any), then substitute arguments and the receiver, then retranslate the
// result so nested metadata dispatches happen with resolved types.

// resolveGenerics substitutes the concatenated positional generic list of a
// call site into every type reference of an inline body.
func resolveGenerics(e js.Expr, gs []common.Type) js.Expr {
	resolveConcreteType := func(ct common.ConcreteType) common.ConcreteType {
		if len(ct.Generics) == 0 {
			return ct
		}
		out := make([]common.Type, len(ct.Generics))
		for i, t := range ct.Generics {
			out[i] = common.SubstituteGenerics(t, gs)
		}
		return common.ConcreteType{Entity: ct.Entity, Generics: out}
	}
	resolveConcreteMethod := func(cm common.ConcreteMethod) common.ConcreteMethod {
		if len(cm.Generics) == 0 {
			return cm
		}
		out := make([]common.Type, len(cm.Generics))
		for i, t := range cm.Generics {
			out[i] = common.SubstituteGenerics(t, gs)
		}
		return common.ConcreteMethod{Entity: cm.Entity, Generics: out}
	}

	return js.TransformExpr(e, func(x js.Expr) js.Expr {
		switch v := x.(type) {
		case *js.Call:
			return &js.Call{This: v.This, Type: resolveConcreteType(v.Type), Method: resolveConcreteMethod(v.Method), Args: v.Args}
		case *js.Ctor:
			return &js.Ctor{Type: resolveConcreteType(v.Type), Ctor: v.Ctor, Args: v.Args}
		case *js.TraitCall:
			types := make([]common.Type, len(v.Types))
			for i, t := range v.Types {
				types[i] = common.SubstituteGenerics(t, gs)
			}
			return &js.TraitCall{This: v.This, Types: types, Method: resolveConcreteMethod(v.Method), Args: v.Args}
		case *js.TypeCheck:
			return &js.TypeCheck{Expr: v.Expr, Type: common.SubstituteGenerics(v.Type, gs)}
		default:
			return x
		}
	})
}

// substitute expands an inline body at a call site: formal parameters (or
// positional holes) become the supplied arguments and this references become
// thisObj.  Every identifier bound inside the body is refreshed so repeated
// expansion in one member cannot alias bindings.
func substitute(body js.Expr, args []js.Expr, thisObj js.Expr) js.Expr {
	params, inner := inlineParams(body)

	fresh := make(map[*js.Id]*js.Id)
	collectBoundIds(inner, fresh)

	argFor := func(i int) js.Expr {
		if i < len(args) {
			return args[i]
		}
		return &js.Undefined{}
	}

	return js.TransformExpr(inner, func(x js.Expr) js.Expr {
		switch v := x.(type) {
		case *js.Var:
			for i, p := range params {
				if v.Id == p {
					return argFor(i)
				}
			}
			if id, ok := fresh[v.Id]; ok {
				return &js.Var{Id: id}
			}
			return v
		case *js.VarSet:
			if id, ok := fresh[v.Id]; ok {
				return &js.VarSet{Id: id, Value: v.Value}
			}
			return v
		case *js.Hole:
			return argFor(v.Index)
		case *js.This:
			if thisObj != nil {
				return thisObj
			}
			return v
		case *js.Let:
			if id, ok := fresh[v.Id]; ok {
				return &js.Let{Id: id, Value: v.Value, Body: v.Body}
			}
			return v
		case *js.LetRec:
			bindings := make([]js.Binding, len(v.Bindings))
			for i, b := range v.Bindings {
				bindings[i] = js.Binding{Id: freshOr(fresh, b.Id), Value: b.Value}
			}
			return &js.LetRec{Bindings: bindings, Body: v.Body}
		case *js.Lambda:
			return &js.Lambda{Params: freshAll(fresh, v.Params), Body: v.Body}
		case *js.Function:
			return &js.Function{Params: freshAll(fresh, v.Params), Body: refreshStmtIds(v.Body, fresh)}
		case *js.StatementExpr:
			return &js.StatementExpr{Statement: refreshStmtIds(v.Statement, fresh), Result: freshOr(fresh, v.Result)}
		default:
			return x
		}
	})
}

// inlineParams strips the formal-parameter head of an inline body.  Compiled
// inline bodies are stored as lambdas over their formals; hole-based bodies
// have no head.
func inlineParams(body js.Expr) ([]*js.Id, js.Expr) {
	if lam, ok := body.(*js.Lambda); ok {
		return lam.Params, lam.Body
	}
	return nil, body
}

// collectBoundIds maps every identifier bound below e to a fresh copy.
func collectBoundIds(e js.Expr, fresh map[*js.Id]*js.Id) {
	bind := func(id *js.Id) {
		if id == nil {
			return
		}
		if _, ok := fresh[id]; !ok {
			next := js.NewId(id.Name)
			next.Mutable = id.Mutable
			fresh[id] = next
		}
	}

	js.VisitExpr(e, func(x js.Expr) {
		switch v := x.(type) {
		case *js.Let:
			bind(v.Id)
		case *js.LetRec:
			for _, b := range v.Bindings {
				bind(b.Id)
			}
		case *js.Lambda:
			for _, p := range v.Params {
				bind(p)
			}
		case *js.Function:
			for _, p := range v.Params {
				bind(p)
			}
			visitStmtBinders(v.Body, bind)
		case *js.StatementExpr:
			bind(v.Result)
			visitStmtBinders(v.Statement, bind)
		}
	})
}

func visitStmtBinders(s js.Statement, bind func(*js.Id)) {
	var walkStmt func(js.Statement) js.Statement
	walkExpr := func(e js.Expr) js.Expr { return e }
	walkStmt = func(st js.Statement) js.Statement {
		switch v := st.(type) {
		case *js.VarDeclaration:
			bind(v.Id)
		case *js.TryWith:
			bind(v.Var)
		}
		return js.MapStmtChildren(st, walkExpr, walkStmt)
	}
	walkStmt(s)
}

// refreshStmtIds rewrites statement-level binders (variable declarations and
// catch variables) with their fresh copies; expressions inside the statements
// are left as they are.
func refreshStmtIds(s js.Statement, fresh map[*js.Id]*js.Id) js.Statement {
	var walkStmt func(js.Statement) js.Statement
	walkExpr := func(e js.Expr) js.Expr { return e }
	walkStmt = func(st js.Statement) js.Statement {
		st = js.MapStmtChildren(st, walkExpr, walkStmt)
		switch v := st.(type) {
		case *js.VarDeclaration:
			return &js.VarDeclaration{Id: freshOr(fresh, v.Id), Value: v.Value}
		case *js.TryWith:
			return &js.TryWith{Body: v.Body, Var: freshOr(fresh, v.Var), Catch: v.Catch}
		default:
			return st
		}
	}
	return walkStmt(s)
}

func freshOr(fresh map[*js.Id]*js.Id, id *js.Id) *js.Id {
	if id == nil {
		return nil
	}
	if next, ok := fresh[id]; ok {
		return next
	}
	return id
}

func freshAll(fresh map[*js.Id]*js.Id, ids []*js.Id) []*js.Id {
	out := make([]*js.Id, len(ids))
	for i, id := range ids {
		out[i] = freshOr(fresh, id)
	}
	return out
}
