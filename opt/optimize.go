package opt

import "sharpjs/js"

// Optimize runs the fixed-order pass chain over a translated non-inline
// body.  isCtor keeps the top-level function of constructor bodies out of
// curried collection; the runtime relies on constructor function identity.
func Optimize(e js.Expr, isCtor bool) js.Expr {
	e = RemoveLets(e)
	e = CleanRuntime(e, false)
	e = BreakStatements(e)
	e = CleanRuntime(e, true)
	e = CollectCurried(e, isCtor)
	return e
}

// OptimizeInline runs the reduced chain for inline bodies, which keep their
// expression form for call-site substitution.
func OptimizeInline(e js.Expr) js.Expr {
	e = RemoveLets(e)
	e = BreakInline(e)
	return e
}

// OptimizeStatement runs the non-inline chain over a statement body (static
// constructors and the entry point).
func OptimizeStatement(s js.Statement) js.Statement {
	s = mapStmtExprs(s, func(e js.Expr) js.Expr {
		e = RemoveLets(e)
		return CleanRuntime(e, false)
	})
	s = blockOf(breakStmt(s))
	s = mapStmtExprs(s, func(e js.Expr) js.Expr {
		e = CleanRuntime(e, true)
		return CollectCurried(e, false)
	})
	return s
}

// mapStmtExprs applies f to every outermost expression embedded in s.
func mapStmtExprs(s js.Statement, f func(js.Expr) js.Expr) js.Statement {
	var walk func(js.Statement) js.Statement
	walk = func(st js.Statement) js.Statement {
		return js.MapStmtChildren(st, f, walk)
	}
	return walk(s)
}
