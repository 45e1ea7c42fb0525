package opt

import "sharpjs/js"

// BreakStatements lowers a non-inline body into writer-ready form: lambdas
// become statement-bodied functions, let bindings become variable
// declarations and embedded statements are hoisted out of expression
// positions.  Hoisting preserves evaluation order by binding earlier
// unstable operands to temporaries.
func BreakStatements(e js.Expr) js.Expr {
	out, pre := breakExpr(e)
	if len(pre) > 0 {
		// a top-level prefix can only be kept as an embedded statement
		return &js.Sequential{Exprs: []js.Expr{
			&js.StatementExpr{Statement: &js.Block{Stmts: pre}},
			out,
		}}
	}
	return out
}

// BreakInline normalizes an inline body without leaving expression form:
// nested sequentials are flattened and lambdas are kept as lambdas so that
// call-site substitution stays cheap.
func BreakInline(e js.Expr) js.Expr {
	return js.TransformExpr(e, func(x js.Expr) js.Expr {
		if seq, ok := x.(*js.Sequential); ok {
			return flattenSequential(seq)
		}
		return x
	})
}

// -----------------------------------------------------------------------------

// breakExpr rewrites e into an expression free of Let, LetRec and
// StatementExpr, returning statements that must execute first.
func breakExpr(e js.Expr) (js.Expr, []js.Statement) {
	switch v := e.(type) {
	case *js.Lambda:
		return &js.Function{Params: v.Params, Body: breakBody(v.Body)}, nil

	case *js.Function:
		return &js.Function{Params: v.Params, Body: &js.Block{Stmts: breakStmt(v.Body)}}, nil

	case *js.Let:
		value, pre := breakExpr(v.Value)
		pre = append(pre, &js.VarDeclaration{Id: v.Id, Value: value})
		body, bodyPre := breakExpr(v.Body)
		return body, append(pre, bodyPre...)

	case *js.LetRec:
		var pre []js.Statement
		for _, b := range v.Bindings {
			value, valuePre := breakExpr(b.Value)
			pre = append(pre, valuePre...)
			pre = append(pre, &js.VarDeclaration{Id: b.Id, Value: value})
		}
		body, bodyPre := breakExpr(v.Body)
		return body, append(pre, bodyPre...)

	case *js.StatementExpr:
		if v.Result != nil {
			pre := []js.Statement{&js.VarDeclaration{Id: v.Result}}
			pre = append(pre, breakStmt(v.Statement)...)
			return &js.Var{Id: v.Result}, pre
		}
		return &js.Undefined{}, breakStmt(v.Statement)

	case *js.Sequential:
		if len(v.Exprs) == 0 {
			return &js.Undefined{}, nil
		}
		var pre []js.Statement
		for _, step := range v.Exprs[:len(v.Exprs)-1] {
			stepOut, stepPre := breakExpr(step)
			pre = append(pre, stepPre...)
			if !js.IsPure(stepOut) {
				pre = append(pre, &js.ExprStatement{Expr: stepOut})
			}
		}
		last, lastPre := breakExpr(v.Exprs[len(v.Exprs)-1])
		return last, append(pre, lastPre...)

	case *js.Conditional:
		cond, pre := breakExpr(v.Cond)
		thenOut, thenPre := breakExpr(v.Then)
		elseOut, elsePre := breakExpr(v.Else)
		if len(thenPre) == 0 && len(elsePre) == 0 {
			return &js.Conditional{Cond: cond, Then: thenOut, Else: elseOut}, pre
		}
		r := js.NewMutableId("r")
		pre = append(pre, &js.VarDeclaration{Id: r})
		pre = append(pre, &js.If{
			Cond: cond,
			Then: &js.Block{Stmts: append(thenPre, &js.ExprStatement{Expr: &js.VarSet{Id: r, Value: thenOut}})},
			Else: &js.Block{Stmts: append(elsePre, &js.ExprStatement{Expr: &js.VarSet{Id: r, Value: elseOut}})},
		})
		return &js.Var{Id: r}, pre

	case *js.Binary:
		if v.Op == js.BinaryAnd || v.Op == js.BinaryOr {
			return breakShortCircuit(v)
		}
		outs, pre := breakList([]js.Expr{v.Left, v.Right})
		return &js.Binary{Left: outs[0], Op: v.Op, Right: outs[1]}, pre

	case *js.Application:
		outs, pre := breakList(append([]js.Expr{v.Func}, v.Args...))
		return &js.Application{Func: outs[0], Args: outs[1:]}, pre

	case *js.New:
		outs, pre := breakList(append([]js.Expr{v.Func}, v.Args...))
		return &js.New{Func: outs[0], Args: outs[1:]}, pre

	case *js.ItemGet:
		outs, pre := breakList([]js.Expr{v.Obj, v.Index})
		return &js.ItemGet{Obj: outs[0], Index: outs[1], Pure: v.Pure}, pre

	case *js.ItemSet:
		outs, pre := breakList([]js.Expr{v.Obj, v.Index, v.Value})
		return &js.ItemSet{Obj: outs[0], Index: outs[1], Value: outs[2]}, pre

	case *js.NewArray:
		outs, pre := breakList(v.Elems)
		return &js.NewArray{Elems: outs}, pre

	case *js.Object:
		values := make([]js.Expr, len(v.Fields))
		for i, f := range v.Fields {
			values[i] = f.Value
		}
		outs, pre := breakList(values)
		fields := make([]js.ObjectField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = js.ObjectField{Name: f.Name, Value: outs[i]}
		}
		return &js.Object{Fields: fields}, pre

	case *js.Unary:
		out, pre := breakExpr(v.Expr)
		return &js.Unary{Op: v.Op, Expr: out}, pre

	case *js.VarSet:
		out, pre := breakExpr(v.Value)
		return &js.VarSet{Id: v.Id, Value: out}, pre

	case *js.ExprSourcePos:
		out, pre := breakExpr(v.Expr)
		return &js.ExprSourcePos{Span: v.Span, Expr: out}, pre

	case *js.CopyCtor:
		out, pre := breakExpr(v.Object)
		return &js.CopyCtor{Type: v.Type, Object: out}, pre

	default:
		return e, nil
	}
}

// breakShortCircuit hoists statements out of the right operand of && and ||
// without changing when it evaluates.
func breakShortCircuit(b *js.Binary) (js.Expr, []js.Statement) {
	left, pre := breakExpr(b.Left)
	right, rightPre := breakExpr(b.Right)
	if len(rightPre) == 0 {
		return &js.Binary{Left: left, Op: b.Op, Right: right}, pre
	}

	r := js.NewMutableId("r")
	pre = append(pre, &js.VarDeclaration{Id: r, Value: left})
	cond := js.Expr(&js.Var{Id: r})
	if b.Op == js.BinaryOr {
		cond = &js.Unary{Op: js.UnaryNot, Expr: cond}
	}
	pre = append(pre, &js.If{
		Cond: cond,
		Then: &js.Block{Stmts: append(rightPre, &js.ExprStatement{Expr: &js.VarSet{Id: r, Value: right}})},
	})
	return &js.Var{Id: r}, pre
}

// breakList breaks a left-to-right operand list.  When a later operand hoists
// statements, earlier unstable operands are bound to temporaries so they
// still evaluate first.
func breakList(es []js.Expr) ([]js.Expr, []js.Statement) {
	var pre []js.Statement
	outs := make([]js.Expr, len(es))
	for i, e := range es {
		out, p := breakExpr(e)
		if len(p) > 0 {
			for j := 0; j < i; j++ {
				if isStable(outs[j]) {
					continue
				}
				t := js.NewId("t")
				pre = append(pre, &js.VarDeclaration{Id: t, Value: outs[j]})
				outs[j] = &js.Var{Id: t}
			}
			pre = append(pre, p...)
		}
		outs[i] = out
	}
	return outs, pre
}

// isStable recognizes operands whose value cannot be changed by interleaved
// statements.
func isStable(e js.Expr) bool {
	switch v := e.(type) {
	case *js.Const, *js.Undefined, *js.GlobalAccess, *js.This, *js.Lambda, *js.Function:
		return true
	case *js.Var:
		return !v.Id.Mutable
	case *js.ExprSourcePos:
		return isStable(v.Expr)
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// breakBody lowers a function body expression into its statement form.
func breakBody(e js.Expr) js.Statement {
	return &js.Block{Stmts: breakTail(e)}
}

// breakTail lowers an expression in return position.
func breakTail(e js.Expr) []js.Statement {
	switch v := e.(type) {
	case *js.Sequential:
		if len(v.Exprs) == 0 {
			return []js.Statement{&js.Return{}}
		}
		var stmts []js.Statement
		for _, step := range v.Exprs[:len(v.Exprs)-1] {
			stepOut, stepPre := breakExpr(step)
			stmts = append(stmts, stepPre...)
			if !js.IsPure(stepOut) {
				stmts = append(stmts, &js.ExprStatement{Expr: stepOut})
			}
		}
		return append(stmts, breakTail(v.Exprs[len(v.Exprs)-1])...)

	case *js.Let:
		value, pre := breakExpr(v.Value)
		pre = append(pre, &js.VarDeclaration{Id: v.Id, Value: value})
		return append(pre, breakTail(v.Body)...)

	case *js.LetRec:
		var pre []js.Statement
		for _, b := range v.Bindings {
			value, valuePre := breakExpr(b.Value)
			pre = append(pre, valuePre...)
			pre = append(pre, &js.VarDeclaration{Id: b.Id, Value: value})
		}
		return append(pre, breakTail(v.Body)...)

	case *js.Conditional:
		cond, pre := breakExpr(v.Cond)
		thenOut, thenPre := breakExpr(v.Then)
		elseOut, elsePre := breakExpr(v.Else)
		if len(thenPre) == 0 && len(elsePre) == 0 {
			return append(pre, &js.Return{Value: &js.Conditional{Cond: cond, Then: thenOut, Else: elseOut}})
		}
		return append(pre, &js.If{
			Cond: cond,
			Then: &js.Block{Stmts: append([]js.Statement(nil), breakTail(v.Then)...)},
			Else: &js.Block{Stmts: append([]js.Statement(nil), breakTail(v.Else)...)},
		})

	case *js.StatementExpr:
		if v.Result == nil {
			return append(breakStmt(v.Statement), &js.Return{})
		}
		stmts := []js.Statement{&js.VarDeclaration{Id: v.Result}}
		stmts = append(stmts, breakStmt(v.Statement)...)
		return append(stmts, &js.Return{Value: &js.Var{Id: v.Result}})

	case *js.Undefined:
		return []js.Statement{&js.Return{}}

	case *js.ExprSourcePos:
		stmts := breakTail(v.Expr)
		if len(stmts) == 1 {
			return []js.Statement{&js.StatementSourcePos{Span: v.Span, Statement: stmts[0]}}
		}
		return []js.Statement{&js.StatementSourcePos{Span: v.Span, Statement: &js.Block{Stmts: stmts}}}

	default:
		out, pre := breakExpr(e)
		return append(pre, &js.Return{Value: out})
	}
}

// breakStmt lowers one statement, hoisting prefixes of its expressions.
func breakStmt(s js.Statement) []js.Statement {
	switch v := s.(type) {
	case *js.Block:
		var stmts []js.Statement
		for _, st := range v.Stmts {
			stmts = append(stmts, breakStmt(st)...)
		}
		return []js.Statement{&js.Block{Stmts: stmts}}

	case *js.ExprStatement:
		out, pre := breakExpr(v.Expr)
		if js.IsPure(out) {
			return pre
		}
		return append(pre, &js.ExprStatement{Expr: out})

	case *js.Return:
		if v.Value == nil {
			return []js.Statement{v}
		}
		return breakTail(v.Value)

	case *js.Throw:
		out, pre := breakExpr(v.Value)
		return append(pre, &js.Throw{Value: out})

	case *js.If:
		cond, pre := breakExpr(v.Cond)
		out := &js.If{Cond: cond, Then: blockOf(breakStmt(v.Then))}
		if v.Else != nil {
			out.Else = blockOf(breakStmt(v.Else))
		}
		return append(pre, out)

	case *js.While:
		cond, pre := breakExpr(v.Cond)
		body := blockOf(breakStmt(v.Body))
		if len(pre) == 0 {
			return []js.Statement{&js.While{Cond: cond, Body: body}}
		}
		// the condition needs statements: re-evaluate them on every pass
		loop := append(append([]js.Statement(nil), pre...),
			&js.If{Cond: &js.Unary{Op: js.UnaryNot, Expr: cond}, Then: &js.Break{}},
			body)
		return []js.Statement{&js.While{Cond: &js.Const{Value: true}, Body: &js.Block{Stmts: loop}}}

	case *js.For:
		return breakFor(v)

	case *js.Switch:
		expr, pre := breakExpr(v.Expr)
		cases := make([]js.SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			var body []js.Statement
			for _, st := range c.Body {
				body = append(body, breakStmt(st)...)
			}
			cases[i] = js.SwitchCase{Value: c.Value, Body: body}
		}
		return append(pre, &js.Switch{Expr: expr, Cases: cases})

	case *js.TryWith:
		return []js.Statement{&js.TryWith{
			Body:  blockOf(breakStmt(v.Body)),
			Var:   v.Var,
			Catch: blockOf(breakStmt(v.Catch)),
		}}

	case *js.TryFinally:
		return []js.Statement{&js.TryFinally{
			Body:    blockOf(breakStmt(v.Body)),
			Finally: blockOf(breakStmt(v.Finally)),
		}}

	case *js.Labeled:
		return []js.Statement{&js.Labeled{Label: v.Label, Statement: blockOf(breakStmt(v.Statement))}}

	case *js.VarDeclaration:
		if v.Value == nil {
			return []js.Statement{v}
		}
		out, pre := breakExpr(v.Value)
		return append(pre, &js.VarDeclaration{Id: v.Id, Value: out})

	case *js.StatementSourcePos:
		return []js.Statement{&js.StatementSourcePos{Span: v.Span, Statement: blockOf(breakStmt(v.Statement))}}

	default:
		return []js.Statement{s}
	}
}

func breakFor(v *js.For) []js.Statement {
	var initPre, condPre, stepPre []js.Statement
	var init, cond, step js.Expr
	if v.Init != nil {
		init, initPre = breakExpr(v.Init)
	}
	if v.Cond != nil {
		cond, condPre = breakExpr(v.Cond)
	}
	if v.Step != nil {
		step, stepPre = breakExpr(v.Step)
	}
	body := blockOf(breakStmt(v.Body))

	if len(initPre) == 0 && len(condPre) == 0 && len(stepPre) == 0 {
		return []js.Statement{&js.For{Init: init, Cond: cond, Step: step, Body: body}}
	}

	// lower into a while loop so the hoisted statements re-run per pass
	var out []js.Statement
	out = append(out, initPre...)
	if init != nil {
		out = append(out, &js.ExprStatement{Expr: init})
	}
	var loop []js.Statement
	loop = append(loop, condPre...)
	if cond != nil {
		loop = append(loop, &js.If{Cond: &js.Unary{Op: js.UnaryNot, Expr: cond}, Then: &js.Break{}})
	}
	loop = append(loop, body)
	loop = append(loop, stepPre...)
	if step != nil {
		loop = append(loop, &js.ExprStatement{Expr: step})
	}
	out = append(out, &js.While{Cond: &js.Const{Value: true}, Body: &js.Block{Stmts: loop}})
	return out
}

func blockOf(stmts []js.Statement) js.Statement {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &js.Block{Stmts: stmts}
}
