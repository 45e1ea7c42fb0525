package trans

import (
	"strings"

	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
)

// TransformCall lowers a method call by resolving it through the metadata
// store.
func (tr *Translator) TransformCall(c *js.Call) js.Expr {
	thisObj := c.This
	baseCall := false
	if thisObj != nil {
		if _, ok := thisObj.(*js.Base); ok {
			thisObj = &js.This{}
			baseCall = true
		}
	}

	if c.Type.Entity == common.Dynamic {
		return tr.transformDynamicCall(thisObj, c.Method.Entity, c.Args)
	}

	return tr.transformCallTo(thisObj, c.Type, c.Method, c.Args, baseCall, c)
}

func (tr *Translator) transformCallTo(thisObj js.Expr, typ common.ConcreteType, method common.ConcreteMethod, args []js.Expr, baseCall bool, orig js.Expr) js.Expr {
	switch res := tr.store.LookupMethodInfo(typ.Entity, method.Entity).(type) {
	case meta.Compiled:
		return tr.CompileCall(res.Info, res.Opts, res.Body, thisObj, typ, method, args, baseCall, orig)

	case meta.Compiling:
		if meta.IsInlineKind(res.Info) {
			// compile the inline now so its body can be substituted here
			if cm := tr.store.CompilingMethodRecord(typ.Entity, method.Entity); cm != nil {
				tr.sub().CompileMethod(cm)
			}
			if compiled, ok := tr.store.LookupMethodInfo(typ.Entity, method.Entity).(meta.Compiled); ok {
				return tr.CompileCall(compiled.Info, compiled.Opts, compiled.Body, thisObj, typ, method, args, baseCall, orig)
			}
			// the inline dropped out (cycle); this member cannot compile
			// without its body either
			tr.failCurrentMember()
			return js.ErrorPlaceholder()
		}
		return tr.CompileCall(res.Info, res.Opts, res.Body, thisObj, typ, method, args, baseCall, orig)

	case meta.CustomTypeMember:
		return tr.compileCustomTypeMethod(res.Info, typ, method, thisObj, args)

	case meta.LookupMemberError:
		// the type may still be reachable even though the member is not
		if tr.store.HasType(typ.Entity) {
			tr.addTypeEdge(typ.Entity)
		}
		tr.store.AddError(tr.currentSpan, res.Err)
		return &js.Application{Func: js.ErrorPlaceholder(), Args: tr.transformAll(args)}

	default:
		return tr.sourceErrorf("unexpected method lookup result for %s", memberName(typ.Entity, method.Entity.Name))
	}
}

// addCallEdge records the dependency edge of an emitted call.  Inline kinds
// never reach here: their substituted bodies carry the real dependencies.
// Interface methods depend on the abstract node; members resolved only
// through the type's shape depend on the type node.
func (tr *Translator) addCallEdge(td common.TypeDef, m common.MethodDef) {
	if !tr.store.HasGraph() || tr.currentNode == nil {
		return
	}
	var to depm.Node
	switch {
	case tr.store.IsInterface(td):
		to = depm.AbstractMethodNode{Type: td, Method: m}
	case !tr.store.MethodExistsInMetadata(td, m) && tr.store.HasType(td):
		to = depm.TypeNode{Type: td}
	default:
		to = depm.MethodNode{Type: td, Method: m}
	}
	tr.store.Graph().AddEdge(tr.currentNode, to)
}

// -----------------------------------------------------------------------------

// CompileCall emits a call to a member of a known compilation kind.
func (tr *Translator) CompileCall(info meta.CompiledMember, opts meta.Optimizations, body js.Expr, thisObj js.Expr, typ common.ConcreteType, method common.ConcreteMethod, args []js.Expr, baseCall bool, orig js.Expr) js.Expr {
	if opts.Warn != "" {
		tr.store.AddWarning(tr.currentSpan, opts.Warn)
	}
	args = tr.shapeArgs(opts.FuncArgs, args)

	switch m := info.(type) {
	case meta.Instance:
		tr.addCallEdge(typ.Entity, method.Entity)
		if baseCall {
			return tr.compileBaseCall(m.Name, thisObj, typ, args)
		}
		recv := tr.TransformExpr(thisObj)
		return &js.Application{
			Func: &js.ItemGet{Obj: recv, Index: &js.Const{Value: m.Name}},
			Args: tr.transformAll(args),
		}

	case meta.Static:
		tr.addCallEdge(typ.Entity, method.Entity)
		var targs []js.Expr
		if thisObj != nil {
			targs = append(targs, tr.TransformExpr(thisObj))
		}
		targs = append(targs, tr.transformAll(args)...)
		return &js.Application{Func: &js.GlobalAccess{Address: m.Address}, Args: targs}

	case meta.Inline:
		var thisArg js.Expr
		if thisObj != nil {
			thisArg = tr.TransformExpr(thisObj)
		}
		return substitute(body, tr.transformAll(args), thisArg)

	case meta.NotCompiledInline:
		expanded := body
		if gs := append(append([]common.Type(nil), typ.Generics...), method.Generics...); len(gs) > 0 {
			expanded = resolveGenerics(expanded, gs)
		}
		expanded = substitute(expanded, args, thisObj)
		return tr.TransformExpr(expanded)

	case meta.Macro:
		return tr.compileMacro(m, &macroContext{
			thisObj: thisObj,
			typ:     typ,
			method:  method,
			args:    args,
			body:    body,
			orig:    orig,
			base:    baseCall,
		})

	case meta.Remote:
		return tr.compileRemoteCall(m, typ, method, args)

	case meta.Constructor:
		return tr.sourceErrorf("constructor compilation kind found on method %s", memberName(typ.Entity, method.Entity.Name))

	default:
		return tr.sourceErrorf("unsupported compilation kind for %s", memberName(typ.Entity, method.Entity.Name))
	}
}

// compileBaseCall emits Parent.prototype.m.call(this, args) for base calls.
func (tr *Translator) compileBaseCall(name string, thisObj js.Expr, typ common.ConcreteType, args []js.Expr) js.Expr {
	ci, ok := tr.store.TryLookupClassInfo(typ.Entity)
	if !ok || ci.Address == nil {
		return tr.sourceErrorf("cannot compile base call, class %s has no prototype address", typ.Entity.FullName)
	}

	proto := &js.ItemGet{Obj: &js.GlobalAccess{Address: *ci.Address}, Index: &js.Const{Value: "prototype"}, Pure: true}
	meth := &js.ItemGet{Obj: proto, Index: &js.Const{Value: name}, Pure: true}
	callArgs := append([]js.Expr{tr.TransformExpr(thisObj)}, tr.transformAll(args)...)
	return &js.Application{
		Func: &js.ItemGet{Obj: meth, Index: &js.Const{Value: "call"}, Pure: true},
		Args: callArgs,
	}
}

// -----------------------------------------------------------------------------
// Argument shaping.  Arguments are pre-adapted before translation according
// to the callee's per-argument tags.

func (tr *Translator) shapeArgs(tags []common.FuncArgOptimization, args []js.Expr) []js.Expr {
	if len(tags) == 0 {
		return args
	}
	out := append([]js.Expr(nil), args...)
	for i, tag := range tags {
		if i >= len(out) {
			break
		}
		switch t := tag.(type) {
		case common.CurriedFuncArg:
			out[i] = shapeCurriedArg(out[i], t.Arity)
		case common.TupledFuncArg:
			out[i] = shapeTupledArg(out[i], t.Arity)
		}
	}
	return out
}

// shapeCurriedArg adapts an argument for a callee that flattened a curried
// parameter of the given arity.
func shapeCurriedArg(a js.Expr, arity int) js.Expr {
	if oa, ok := a.(*js.OptimizedFSharpArg); ok {
		if c, ok := oa.Opt.(common.CurriedFuncArg); ok && c.Arity == arity {
			return oa.Expr
		}
	}

	params := make([]*js.Id, arity)
	for i := range params {
		params[i] = js.NewId("x")
	}
	var call js.Expr = a
	for _, p := range params {
		call = &js.Application{Func: call, Args: []js.Expr{&js.Var{Id: p}}}
	}
	return &js.Lambda{Params: params, Body: call}
}

// shapeTupledArg adapts an argument for a callee that flattened a
// tuple-taking parameter of the given width.
func shapeTupledArg(a js.Expr, arity int) js.Expr {
	if oa, ok := a.(*js.OptimizedFSharpArg); ok {
		if t, ok := oa.Opt.(common.TupledFuncArg); ok && t.Arity == arity {
			return oa.Expr
		}
	}

	if flat, ok := flattenTupleLambda(a, arity); ok {
		return flat
	}

	params := make([]*js.Id, arity)
	elems := make([]js.Expr, arity)
	for i := range params {
		params[i] = js.NewId("x")
		elems[i] = &js.Var{Id: params[i]}
	}
	return &js.Lambda{
		Params: params,
		Body:   &js.Application{Func: a, Args: []js.Expr{&js.NewArray{Elems: elems}}},
	}
}

// flattenTupleLambda rewrites a lambda over a tuple whose body only projects
// the tuple elements into an n-ary lambda.
func flattenTupleLambda(a js.Expr, arity int) (js.Expr, bool) {
	lam, ok := a.(*js.Lambda)
	if !ok || len(lam.Params) != 1 {
		return nil, false
	}
	tuple := lam.Params[0]

	// every use must appear as tuple[i]; a bare use escapes the tuple
	if !usedOnlyAsProjection(lam.Body, tuple, arity) {
		return nil, false
	}

	params := make([]*js.Id, arity)
	for i := range params {
		params[i] = js.NewId("x")
	}
	body := js.TransformExpr(lam.Body, func(x js.Expr) js.Expr {
		if ig, ok := x.(*js.ItemGet); ok {
			if v, ok := ig.Obj.(*js.Var); ok && v.Id == tuple {
				if i, ok := constIndex(ig.Index); ok && i < arity {
					return &js.Var{Id: params[i]}
				}
			}
		}
		return x
	})
	return &js.Lambda{Params: params, Body: body}, true
}

// usedOnlyAsProjection checks that every occurrence of the tuple variable is
// the object of an in-range constant index get.
func usedOnlyAsProjection(body js.Expr, tuple *js.Id, arity int) bool {
	bare := 0
	projected := 0
	js.VisitExpr(body, func(x js.Expr) {
		switch v := x.(type) {
		case *js.ItemGet:
			if obj, ok := v.Obj.(*js.Var); ok && obj.Id == tuple {
				if i, ok := constIndex(v.Index); ok && i < arity {
					projected++
				}
			}
		case *js.Var:
			if v.Id == tuple {
				bare++
			}
		}
	})
	return bare == projected
}

func constIndex(e js.Expr) (int, bool) {
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

// -----------------------------------------------------------------------------
// Dynamic dispatch.

var dynamicBinaryOps = map[string]js.BinaryOp{
	"op_Addition":    js.BinaryAdd,
	"op_Subtraction": js.BinarySub,
	"op_Multiply":    js.BinaryMul,
	"op_Division":    js.BinaryDiv,
	"op_Modulus":     js.BinaryMod,
	"op_Equality":    js.BinaryEq,
	"op_Inequality":  js.BinaryNEq,
	"op_LessThan":    js.BinaryLt,
	"op_GreaterThan": js.BinaryGt,
	"op_LessThanOrEqual":    js.BinaryLtEq,
	"op_GreaterThanOrEqual": js.BinaryGtEq,
	"op_LeftShift":          js.BinaryLShift,
	"op_RightShift":         js.BinaryRShift,
	"op_BitwiseAnd":         js.BinaryBitAnd,
	"op_BitwiseOr":          js.BinaryBitOr,
	"op_ExclusiveOr":        js.BinaryBitXor,
}

var dynamicUnaryOps = map[string]js.UnaryOp{
	"op_UnaryNegation":   js.UnaryNeg,
	"op_UnaryPlus":       js.UnaryPlus,
	"op_LogicalNot":      js.UnaryNot,
	"op_OnesComplement":  js.UnaryBitNot,
}

// transformDynamicCall lowers calls on the dynamic-object sentinel type.
// Operator-named methods map to JavaScript operators, and an op_ name with no
// operator mapping is a source error; any other method is a plain property
// call on the receiver, and a call without a receiver is a source error.
func (tr *Translator) transformDynamicCall(thisObj js.Expr, m common.MethodDef, args []js.Expr) js.Expr {
	if strings.HasPrefix(m.Name, "op_") {
		targs := tr.transformAll(args)
		if op, ok := dynamicBinaryOps[m.Name]; ok && len(targs) == 2 {
			return &js.Binary{Left: targs[0], Op: op, Right: targs[1]}
		}
		if op, ok := dynamicUnaryOps[m.Name]; ok && len(targs) == 1 {
			return &js.Unary{Op: op, Expr: targs[0]}
		}
		if len(targs) == 1 {
			switch m.Name {
			case "op_Increment":
				return &js.Binary{Left: targs[0], Op: js.BinaryAdd, Right: &js.Const{Value: 1}}
			case "op_Decrement":
				return &js.Binary{Left: targs[0], Op: js.BinarySub, Right: &js.Const{Value: 1}}
			}
		}
		return tr.sourceErrorf("unsupported operator on a dynamic object: %s", m.Name)
	}

	if thisObj == nil {
		return tr.sourceErrorf("static method call on a dynamic object: %s", m.Name)
	}

	recv := tr.TransformExpr(thisObj)
	return &js.Application{
		Func: &js.ItemGet{Obj: recv, Index: &js.Const{Value: m.Name}},
		Args: tr.transformAll(args),
	}
}
