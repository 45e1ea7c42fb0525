package opt

import "sharpjs/js"

// CollectCurried recognizes eta-expanded curried forwarders and rewrites them
// to runtime curry helpers: a lambda chain λa.λb. … f(x…, a, b, …) whose
// trailing arguments are exactly the bound variables becomes
// Runtime.Curried2(f) / Curried3(f) / Curried(f, n), or CurriedA when leading
// arguments are pre-applied.  The rewrite is a fixed point: helper
// applications are not lambdas and are never rewritten again.
//
// skipTop leaves the outermost function untouched; constructor bodies keep
// their own function identity because the runtime wires prototypes to them.
func CollectCurried(e js.Expr, skipTop bool) js.Expr {
	var walkExpr func(js.Expr) js.Expr
	var walkStmt func(js.Statement) js.Statement

	walkExpr = func(x js.Expr) js.Expr {
		if out, ok := tryCollect(x, walkExpr); ok {
			return out
		}
		return js.MapExprChildren(x, walkExpr, walkStmt)
	}
	walkStmt = func(s js.Statement) js.Statement {
		return js.MapStmtChildren(s, walkExpr, walkStmt)
	}

	if skipTop {
		return js.MapExprChildren(e, walkExpr, walkStmt)
	}
	return walkExpr(e)
}

// tryCollect matches one lambda chain.  The walk function is applied to the
// surviving subexpressions so nested forwarders are still collected.
func tryCollect(e js.Expr, walk func(js.Expr) js.Expr) (js.Expr, bool) {
	params, body := lambdaChain(e)
	if len(params) < 2 {
		return nil, false
	}

	app, ok := body.(*js.Application)
	if !ok || len(app.Args) < len(params) {
		return nil, false
	}

	split := len(app.Args) - len(params)
	leading := app.Args[:split]
	trailing := app.Args[split:]

	for i, arg := range trailing {
		v, ok := arg.(*js.Var)
		if !ok || v.Id != params[i] {
			return nil, false
		}
	}

	if referencesAny(app.Func, params) {
		return nil, false
	}
	for _, arg := range leading {
		if referencesAny(arg, params) {
			return nil, false
		}
	}

	f := walk(app.Func)

	if len(leading) == 0 {
		switch len(params) {
		case 2:
			return js.RuntimeCall(js.RuntimeCurried2, f), true
		case 3:
			return js.RuntimeCall(js.RuntimeCurried3, f), true
		default:
			return js.RuntimeCall(js.RuntimeCurried, f, &js.Const{Value: len(params)}), true
		}
	}

	pre := make([]js.Expr, len(leading))
	for i, arg := range leading {
		pre[i] = walk(arg)
	}
	return js.RuntimeCall(js.RuntimeCurriedA, f, &js.Const{Value: len(params)}, &js.NewArray{Elems: pre}), true
}

// lambdaChain gathers the longest chain of single-parameter functions,
// accepting both expression-bodied lambdas and statement-bodied functions
// whose body is a single return.
func lambdaChain(e js.Expr) ([]*js.Id, js.Expr) {
	var params []*js.Id
	body := e
	for {
		switch v := body.(type) {
		case *js.Lambda:
			if len(v.Params) != 1 {
				return params, body
			}
			params = append(params, v.Params[0])
			body = v.Body
		case *js.Function:
			if len(v.Params) != 1 {
				return params, body
			}
			ret, ok := singleReturn(v.Body)
			if !ok {
				return params, body
			}
			params = append(params, v.Params[0])
			body = ret
		default:
			return params, body
		}
	}
}

func singleReturn(s js.Statement) (js.Expr, bool) {
	switch v := s.(type) {
	case *js.Return:
		if v.Value != nil {
			return v.Value, true
		}
		return nil, false
	case *js.Block:
		if len(v.Stmts) == 1 {
			return singleReturn(v.Stmts[0])
		}
		return nil, false
	case *js.StatementSourcePos:
		return singleReturn(v.Statement)
	default:
		return nil, false
	}
}

func referencesAny(e js.Expr, ids []*js.Id) bool {
	found := false
	js.VisitExpr(e, func(x js.Expr) {
		if v, ok := x.(*js.Var); ok {
			for _, id := range ids {
				if v.Id == id {
					found = true
				}
			}
		}
	})
	return found
}
