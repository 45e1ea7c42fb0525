package js

// MapExprChildren applies fe to the immediate expression children and fs to
// the immediate statement children of e, rebuilding the node.  Nodes without
// children are returned unchanged.  Every rewriter in the pipeline uses this
// as its default "recurse structurally" arm.
func MapExprChildren(e Expr, fe func(Expr) Expr, fs func(Statement) Statement) Expr {
	mapAll := func(es []Expr) []Expr {
		if len(es) == 0 {
			return nil
		}
		out := make([]Expr, len(es))
		for i, x := range es {
			out[i] = fe(x)
		}
		return out
	}
	mapOpt := func(x Expr) Expr {
		if x == nil {
			return nil
		}
		return fe(x)
	}

	switch v := e.(type) {
	case *Const, *Undefined, *Var, *GlobalAccess, *This, *Self, *Base, *Hole,
		*Verbatim, *Cctor:
		return e
	case *ExprSourcePos:
		return &ExprSourcePos{Span: v.Span, Expr: fe(v.Expr)}
	case *Let:
		return &Let{Id: v.Id, Value: fe(v.Value), Body: fe(v.Body)}
	case *VarSet:
		return &VarSet{Id: v.Id, Value: fe(v.Value)}
	case *LetRec:
		bindings := make([]Binding, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = Binding{Id: b.Id, Value: fe(b.Value)}
		}
		return &LetRec{Bindings: bindings, Body: fe(v.Body)}
	case *Lambda:
		return &Lambda{Params: v.Params, Body: fe(v.Body)}
	case *Function:
		return &Function{Params: v.Params, Body: fs(v.Body)}
	case *Application:
		return &Application{Func: fe(v.Func), Args: mapAll(v.Args)}
	case *Conditional:
		return &Conditional{Cond: fe(v.Cond), Then: fe(v.Then), Else: fe(v.Else)}
	case *Sequential:
		return &Sequential{Exprs: mapAll(v.Exprs)}
	case *Object:
		fields := make([]ObjectField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = ObjectField{Name: f.Name, Value: fe(f.Value)}
		}
		return &Object{Fields: fields}
	case *NewArray:
		return &NewArray{Elems: mapAll(v.Elems)}
	case *ItemGet:
		return &ItemGet{Obj: fe(v.Obj), Index: fe(v.Index), Pure: v.Pure}
	case *ItemSet:
		return &ItemSet{Obj: fe(v.Obj), Index: fe(v.Index), Value: fe(v.Value)}
	case *Unary:
		return &Unary{Op: v.Op, Expr: fe(v.Expr)}
	case *Binary:
		return &Binary{Left: fe(v.Left), Op: v.Op, Right: fe(v.Right)}
	case *New:
		return &New{Func: fe(v.Func), Args: mapAll(v.Args)}
	case *StatementExpr:
		return &StatementExpr{Statement: fs(v.Statement), Result: v.Result}
	case *Call:
		return &Call{This: mapOpt(v.This), Type: v.Type, Method: v.Method, Args: mapAll(v.Args)}
	case *Ctor:
		return &Ctor{Type: v.Type, Ctor: v.Ctor, Args: mapAll(v.Args)}
	case *BaseCtor:
		return &BaseCtor{This: fe(v.This), Type: v.Type, Ctor: v.Ctor, Args: mapAll(v.Args)}
	case *CopyCtor:
		return &CopyCtor{Type: v.Type, Object: fe(v.Object)}
	case *NewDelegate:
		return &NewDelegate{This: mapOpt(v.This), Type: v.Type, Method: v.Method}
	case *NewRecord:
		return &NewRecord{Type: v.Type, Args: mapAll(v.Args)}
	case *NewUnionCase:
		return &NewUnionCase{Type: v.Type, Case: v.Case, Args: mapAll(v.Args)}
	case *UnionCaseTest:
		return &UnionCaseTest{Expr: fe(v.Expr), Type: v.Type, Case: v.Case}
	case *UnionCaseGet:
		return &UnionCaseGet{Expr: fe(v.Expr), Type: v.Type, Case: v.Case, Field: v.Field}
	case *UnionCaseTag:
		return &UnionCaseTag{Expr: fe(v.Expr), Type: v.Type}
	case *FieldGet:
		return &FieldGet{This: mapOpt(v.This), Type: v.Type, Field: v.Field}
	case *FieldSet:
		return &FieldSet{This: mapOpt(v.This), Type: v.Type, Field: v.Field, Value: fe(v.Value)}
	case *TypeCheck:
		return &TypeCheck{Expr: fe(v.Expr), Type: v.Type}
	case *TraitCall:
		return &TraitCall{This: mapOpt(v.This), Types: v.Types, Method: v.Method, Args: mapAll(v.Args)}
	case *Await:
		return &Await{Expr: fe(v.Expr)}
	case *NamedParameter:
		return &NamedParameter{Name: v.Name, Value: fe(v.Value)}
	case *RefOrOutParameter:
		return &RefOrOutParameter{Expr: fe(v.Expr)}
	case *Coalesce:
		return &Coalesce{Left: fe(v.Left), Type: v.Type, Right: fe(v.Right)}
	case *OptimizedFSharpArg:
		return &OptimizedFSharpArg{Expr: fe(v.Expr), Opt: v.Opt}
	default:
		return e
	}
}

// MapStmtChildren applies fe to the immediate expression children and fs to
// the immediate statement children of s, rebuilding the node.
func MapStmtChildren(s Statement, fe func(Expr) Expr, fs func(Statement) Statement) Statement {
	mapOpt := func(x Expr) Expr {
		if x == nil {
			return nil
		}
		return fe(x)
	}
	mapOptStmt := func(x Statement) Statement {
		if x == nil {
			return nil
		}
		return fs(x)
	}

	switch v := s.(type) {
	case *Block:
		stmts := make([]Statement, len(v.Stmts))
		for i, st := range v.Stmts {
			stmts[i] = fs(st)
		}
		return &Block{Stmts: stmts}
	case *ExprStatement:
		return &ExprStatement{Expr: fe(v.Expr)}
	case *Return:
		return &Return{Value: mapOpt(v.Value)}
	case *Throw:
		return &Throw{Value: fe(v.Value)}
	case *TryWith:
		return &TryWith{Body: fs(v.Body), Var: v.Var, Catch: fs(v.Catch)}
	case *TryFinally:
		return &TryFinally{Body: fs(v.Body), Finally: fs(v.Finally)}
	case *While:
		return &While{Cond: fe(v.Cond), Body: fs(v.Body)}
	case *For:
		return &For{Init: mapOpt(v.Init), Cond: mapOpt(v.Cond), Step: mapOpt(v.Step), Body: fs(v.Body)}
	case *If:
		return &If{Cond: fe(v.Cond), Then: fs(v.Then), Else: mapOptStmt(v.Else)}
	case *Switch:
		cases := make([]SwitchCase, len(v.Cases))
		for i, c := range v.Cases {
			body := make([]Statement, len(c.Body))
			for j, st := range c.Body {
				body[j] = fs(st)
			}
			cases[i] = SwitchCase{Value: mapOpt(c.Value), Body: body}
		}
		return &Switch{Expr: fe(v.Expr), Cases: cases}
	case *Break, *Continue:
		return s
	case *Labeled:
		return &Labeled{Label: v.Label, Statement: fs(v.Statement)}
	case *VarDeclaration:
		return &VarDeclaration{Id: v.Id, Value: mapOpt(v.Value)}
	case *StatementSourcePos:
		return &StatementSourcePos{Span: v.Span, Statement: fs(v.Statement)}
	default:
		return s
	}
}

// -----------------------------------------------------------------------------

// TransformExpr rewrites e bottom-up: children first, then f on the rebuilt
// node.  Identifiers are globally fresh, so no capture avoidance is needed.
func TransformExpr(e Expr, f func(Expr) Expr) Expr {
	var te func(Expr) Expr
	var ts func(Statement) Statement
	te = func(x Expr) Expr {
		return f(MapExprChildren(x, te, ts))
	}
	ts = func(x Statement) Statement {
		return MapStmtChildren(x, te, ts)
	}
	return te(e)
}

// TransformStmt rewrites every expression inside s bottom-up with f.
func TransformStmt(s Statement, f func(Expr) Expr) Statement {
	var te func(Expr) Expr
	var ts func(Statement) Statement
	te = func(x Expr) Expr {
		return f(MapExprChildren(x, te, ts))
	}
	ts = func(x Statement) Statement {
		return MapStmtChildren(x, te, ts)
	}
	return ts(s)
}

// VisitExpr calls visit on e and every expression nested below it, including
// those inside statements.
func VisitExpr(e Expr, visit func(Expr)) {
	var te func(Expr) Expr
	var ts func(Statement) Statement
	te = func(x Expr) Expr {
		visit(x)
		return MapExprChildren(x, te, ts)
	}
	ts = func(x Statement) Statement {
		return MapStmtChildren(x, te, ts)
	}
	te(e)
}

// CountVarUses counts reads of id below e.
func CountVarUses(e Expr, id *Id) int {
	count := 0
	VisitExpr(e, func(x Expr) {
		if v, ok := x.(*Var); ok && v.Id == id {
			count++
		}
	})
	return count
}

// ReplaceVar substitutes reads of id below e with value.
func ReplaceVar(e Expr, id *Id, value Expr) Expr {
	return TransformExpr(e, func(x Expr) Expr {
		if v, ok := x.(*Var); ok && v.Id == id {
			return value
		}
		return x
	})
}

// RemoveSourcePositions strips every source-position wrapper below e.  Inline
// bodies are stored without positions so call sites report their own.
func RemoveSourcePositions(e Expr) Expr {
	return TransformExpr(e, func(x Expr) Expr {
		if sp, ok := x.(*ExprSourcePos); ok {
			return sp.Expr
		}
		return x
	})
}

// -----------------------------------------------------------------------------

// IsPure conservatively tests whether evaluating e can have no observable
// effect.
func IsPure(e Expr) bool {
	switch v := e.(type) {
	case *Const, *Undefined, *GlobalAccess, *This, *Self, *Hole, *Lambda, *Function:
		return true
	case *Var:
		return !v.Id.Mutable
	case *ExprSourcePos:
		return IsPure(v.Expr)
	case *ItemGet:
		return v.Pure && IsPure(v.Obj) && IsPure(v.Index)
	case *Conditional:
		return IsPure(v.Cond) && IsPure(v.Then) && IsPure(v.Else)
	case *Unary:
		return v.Op != UnaryVoid && IsPure(v.Expr)
	case *Binary:
		return IsPure(v.Left) && IsPure(v.Right)
	case *Object:
		for _, f := range v.Fields {
			if !IsPure(f.Value) {
				return false
			}
		}
		return true
	case *NewArray:
		for _, el := range v.Elems {
			if !IsPure(el) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
