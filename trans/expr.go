package trans

import (
	"sharpjs/common"
	"sharpjs/js"
)

// TransformExpr rewrites one source-level expression into the JavaScript IR.
// Nodes without a rule here recurse structurally.
func (tr *Translator) TransformExpr(e js.Expr) js.Expr {
	switch v := e.(type) {
	case nil:
		return &js.Undefined{}

	case *js.ExprSourcePos:
		saved := tr.currentSpan
		tr.currentSpan = v.Span
		inner := tr.TransformExpr(v.Expr)
		tr.currentSpan = saved
		return &js.ExprSourcePos{Span: v.Span, Expr: inner}

	case *js.Var:
		if tag, ok := tr.currentFuncArgs[v.Id]; ok {
			return &js.OptimizedFSharpArg{Expr: v, Opt: tag}
		}
		return v

	case *js.Application:
		if out, ok := tr.tryShapedParamCall(v); ok {
			return out
		}
		return js.MapExprChildren(e, tr.TransformExpr, tr.TransformStatement)

	case *js.Call:
		return tr.TransformCall(v)

	case *js.Ctor:
		return tr.TransformCtor(v)

	case *js.BaseCtor:
		return tr.TransformBaseCtor(v)

	case *js.CopyCtor:
		return tr.TransformCopyCtor(v.Type, tr.TransformExpr(v.Object))

	case *js.NewDelegate:
		return tr.TransformNewDelegate(v)

	case *js.NewRecord:
		return tr.TransformNewRecord(v)

	case *js.NewUnionCase:
		return tr.TransformNewUnionCase(v)

	case *js.UnionCaseTest:
		return tr.TransformUnionCaseTest(v)

	case *js.UnionCaseGet:
		return tr.TransformUnionCaseGet(v)

	case *js.UnionCaseTag:
		return tr.TransformUnionCaseTag(v)

	case *js.FieldGet:
		return tr.TransformFieldGet(v)

	case *js.FieldSet:
		return tr.TransformFieldSet(v)

	case *js.Cctor:
		return tr.TransformCctor(v.Type)

	case *js.TypeCheck:
		return tr.TransformTypeCheck(tr.TransformExpr(v.Expr), v.Type)

	case *js.TraitCall:
		return tr.TransformTraitCall(v)

	case *js.Self:
		if tr.selfAddress != nil {
			return &js.GlobalAccess{Address: *tr.selfAddress}
		}
		return tr.sourceErrorf("Self reference is only valid inside members bound under a static constructor")

	case *js.Base:
		return tr.sourceErrorf("Base reference is only valid as a call target")

	case *js.Hole:
		if tr.currentIsInline {
			return v
		}
		return tr.sourceErrorf("Hole is only valid inside an inline body")

	case *js.Await:
		return tr.sourceErrorf("Await is only valid inside a computation expression translated by a macro")

	case *js.NamedParameter:
		return tr.sourceErrorf("named parameter was not eliminated before translation")

	case *js.RefOrOutParameter:
		return tr.sourceErrorf("ref and out parameters are not supported in client-side code")

	case *js.Coalesce:
		return tr.transformCoalesce(v)

	case *js.OptimizedFSharpArg:
		return &js.OptimizedFSharpArg{Expr: tr.TransformExpr(v.Expr), Opt: v.Opt}

	default:
		return js.MapExprChildren(e, tr.TransformExpr, tr.TransformStatement)
	}
}

// TransformStatement rewrites the expressions embedded in a statement.
func (tr *Translator) TransformStatement(s js.Statement) js.Statement {
	if sp, ok := s.(*js.StatementSourcePos); ok {
		saved := tr.currentSpan
		tr.currentSpan = sp.Span
		inner := tr.TransformStatement(sp.Statement)
		tr.currentSpan = saved
		return &js.StatementSourcePos{Span: sp.Span, Statement: inner}
	}
	return js.MapStmtChildren(s, tr.TransformExpr, tr.TransformStatement)
}

// -----------------------------------------------------------------------------

// transformCoalesce lowers null coalescing into a null test over a bound
// temporary.
func (tr *Translator) transformCoalesce(c *js.Coalesce) js.Expr {
	left := tr.TransformExpr(c.Left)
	right := tr.TransformExpr(c.Right)
	id := js.NewId("c")
	return &js.Let{
		Id:    id,
		Value: left,
		Body: &js.Conditional{
			Cond: &js.Binary{Left: &js.Var{Id: id}, Op: js.BinaryNEq, Right: &js.Const{Value: nil}},
			Then: &js.Var{Id: id},
			Else: right,
		},
	}
}

// tryShapedParamCall collapses applications of shape-optimized parameters to
// direct n-ary calls.  Partial applications fall through; the raw-use marker
// and the runtime cleaner handle them.
func (tr *Translator) tryShapedParamCall(app *js.Application) (js.Expr, bool) {
	if len(tr.currentFuncArgs) == 0 {
		return nil, false
	}

	base, chain := unwindApplicationChain(app)
	v, ok := base.(*js.Var)
	if !ok {
		return nil, false
	}
	tag, ok := tr.currentFuncArgs[v.Id]
	if !ok {
		return nil, false
	}

	switch t := tag.(type) {
	case common.CurriedFuncArg:
		if len(chain) != t.Arity {
			return nil, false
		}
		var args []js.Expr
		for _, link := range chain {
			if len(link) != 1 {
				return nil, false
			}
			args = append(args, tr.TransformExpr(link[0]))
		}
		return &js.Application{Func: v, Args: args}, true

	case common.TupledFuncArg:
		if len(chain) != 1 || len(chain[0]) != 1 {
			return nil, false
		}
		arr, ok := chain[0][0].(*js.NewArray)
		if !ok || len(arr.Elems) != t.Arity {
			return nil, false
		}
		return &js.Application{Func: v, Args: tr.transformAll(arr.Elems)}, true
	}

	return nil, false
}

func unwindApplicationChain(app *js.Application) (js.Expr, [][]js.Expr) {
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
