package opt

import (
	"sharpjs/common"
	"sharpjs/js"
)

// CleanRuntime simplifies applications of runtime helpers the translator and
// the curried-function collector emit.  Both variants rewrite saturated helper
// applications and flatten nested sequentials; the non-forced variant runs
// before statement breaking, and the forced variant also expands the shaping
// markers that must not survive into compiled output and folds conditionals
// whose condition is a constant boolean.
func CleanRuntime(e js.Expr, force bool) js.Expr {
	return js.TransformExpr(e, func(x js.Expr) js.Expr {
		switch v := x.(type) {
		case *js.Application:
			return cleanApplication(v)
		case *js.Sequential:
			return flattenSequential(v)
		case *js.OptimizedFSharpArg:
			if force {
				return expandOptimizedArg(v)
			}
			return v
		case *js.Conditional:
			if force {
				if c, ok := v.Cond.(*js.Const); ok {
					if b, ok := c.Value.(bool); ok {
						if b {
							return v.Then
						}
						return v.Else
					}
				}
			}
			return v
		default:
			return x
		}
	})
}

// cleanApplication collapses fully saturated curried and tupled wrappers:
// Runtime.Curried(f, n) applied to n single arguments becomes a direct call.
func cleanApplication(app *js.Application) js.Expr {
	base, chain := unwindApplications(app)

	ga, ok := base.(*js.GlobalAccess)
	if !ok || len(chain) < 2 {
		return app
	}

	wrapperArgs := chain[0]
	calls := chain[1:]
	if !allSingle(calls) {
		return app
	}

	switch {
	case ga.Address.Equal(js.RuntimeAddress(js.RuntimeCurried)) && len(wrapperArgs) == 2:
		if n, ok := constInt(wrapperArgs[1]); ok && len(calls) == n {
			return &js.Application{Func: wrapperArgs[0], Args: flattenChain(calls)}
		}
	case ga.Address.Equal(js.RuntimeAddress(js.RuntimeCurried2)) && len(wrapperArgs) == 1:
		if len(calls) == 2 {
			return &js.Application{Func: wrapperArgs[0], Args: flattenChain(calls)}
		}
	case ga.Address.Equal(js.RuntimeAddress(js.RuntimeCurried3)) && len(wrapperArgs) == 1:
		if len(calls) == 3 {
			return &js.Application{Func: wrapperArgs[0], Args: flattenChain(calls)}
		}
	case ga.Address.Equal(js.RuntimeAddress(js.RuntimeCurriedA)) && len(wrapperArgs) == 3:
		n, okN := constInt(wrapperArgs[1])
		pre, okPre := wrapperArgs[2].(*js.NewArray)
		if okN && okPre && len(calls) == n {
			args := append(append([]js.Expr(nil), pre.Elems...), flattenChain(calls)...)
			return &js.Application{Func: wrapperArgs[0], Args: args}
		}
	case ga.Address.Equal(js.RuntimeAddress(js.RuntimeTupled)) && len(wrapperArgs) == 1:
		if len(calls) == 1 {
			if arr, ok := calls[0][0].(*js.NewArray); ok {
				return &js.Application{Func: wrapperArgs[0], Args: arr.Elems}
			}
		}
	}

	return app
}

// unwindApplications unwinds f(a)(b)(c) into f and [[a] [b] [c]].
func unwindApplications(app *js.Application) (js.Expr, [][]js.Expr) {
	var chain [][]js.Expr
	var head js.Expr = app
	for {
		a, ok := head.(*js.Application)
		if !ok {
			break
		}
		chain = append([][]js.Expr{a.Args}, chain...)
		head = a.Func
	}
	return head, chain
}

func allSingle(chain [][]js.Expr) bool {
	for _, args := range chain {
		if len(args) != 1 {
			return false
		}
	}
	return true
}

func flattenChain(chain [][]js.Expr) []js.Expr {
	var out []js.Expr
	for _, args := range chain {
		out = append(out, args...)
	}
	return out
}

func constInt(e js.Expr) (int, bool) {
	c, ok := e.(*js.Const)
	if !ok {
		return 0, false
	}
	switch n := c.Value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// flattenSequential splices nested sequentials and drops pure non-final
// steps.
func flattenSequential(seq *js.Sequential) js.Expr {
	var out []js.Expr
	for _, e := range seq.Exprs {
		if inner, ok := e.(*js.Sequential); ok {
			out = append(out, inner.Exprs...)
			continue
		}
		out = append(out, e)
	}

	kept := out[:0]
	for i, e := range out {
		if i < len(out)-1 && js.IsPure(e) {
			continue
		}
		kept = append(kept, e)
	}
	out = kept

	switch len(out) {
	case 0:
		return &js.Undefined{}
	case 1:
		return out[0]
	default:
		return &js.Sequential{Exprs: out}
	}
}

// expandOptimizedArg re-wraps a raw use of a shape-optimized parameter so its
// value is usable as an ordinary curried or tupled function.
func expandOptimizedArg(arg *js.OptimizedFSharpArg) js.Expr {
	switch opt := arg.Opt.(type) {
	case common.CurriedFuncArg:
		return js.RuntimeCall(js.RuntimeCurried, arg.Expr, &js.Const{Value: opt.Arity})
	case common.TupledFuncArg:
		return js.RuntimeCall(js.RuntimeTupled, arg.Expr)
	default:
		return arg.Expr
	}
}
