package trans

import (
	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
)

// TransformCtor lowers a constructor call by resolving it through the
// metadata store.
func (tr *Translator) TransformCtor(c *js.Ctor) js.Expr {
	if tr.store.HasGraph() && tr.currentNode != nil {
		tr.store.Graph().AddEdge(tr.currentNode, depm.ConstructorNode{Type: c.Type.Entity, Ctor: c.Ctor})
	}

	switch res := tr.store.LookupConstructorInfo(c.Type.Entity, c.Ctor).(type) {
	case meta.Compiled:
		return tr.CompileCtor(res.Info, res.Opts, res.Body, c)

	case meta.Compiling:
		if meta.IsInlineKind(res.Info) {
			if cc := tr.store.CompilingCtorRecord(c.Type.Entity, c.Ctor); cc != nil {
				tr.sub().CompileConstructor(cc)
			}
			if compiled, ok := tr.store.LookupConstructorInfo(c.Type.Entity, c.Ctor).(meta.Compiled); ok {
				return tr.CompileCtor(compiled.Info, compiled.Opts, compiled.Body, c)
			}
			tr.failCurrentMember()
			return js.ErrorPlaceholder()
		}
		return tr.CompileCtor(res.Info, res.Opts, res.Body, c)

	case meta.CustomTypeMember:
		return tr.compileCustomTypeCtor(res.Info, c)

	case meta.LookupMemberError:
		tr.store.AddError(tr.currentSpan, res.Err)
		return &js.Application{Func: js.ErrorPlaceholder(), Args: tr.transformAll(c.Args)}

	default:
		return tr.sourceErrorf("unexpected constructor lookup result for %s", c.Type.Entity.FullName)
	}
}

// CompileCtor emits a constructor call of a known compilation kind.
func (tr *Translator) CompileCtor(info meta.CompiledMember, opts meta.Optimizations, body js.Expr, orig *js.Ctor) js.Expr {
	if opts.Warn != "" {
		tr.store.AddWarning(tr.currentSpan, opts.Warn)
	}
	args := tr.shapeArgs(opts.FuncArgs, orig.Args)

	switch m := info.(type) {
	case meta.Constructor:
		return &js.New{Func: &js.GlobalAccess{Address: m.Address}, Args: tr.transformAll(args)}

	case meta.Static:
		return &js.Application{Func: &js.GlobalAccess{Address: m.Address}, Args: tr.transformAll(args)}

	case meta.Inline:
		return substitute(body, tr.transformAll(args), nil)

	case meta.NotCompiledInline:
		expanded := body
		if len(orig.Type.Generics) > 0 {
			expanded = resolveGenerics(expanded, orig.Type.Generics)
		}
		expanded = substitute(expanded, args, nil)
		return tr.TransformExpr(expanded)

	case meta.Macro:
		return tr.compileMacro(m, &macroContext{
			typ:    orig.Type,
			ctor:   &orig.Ctor,
			args:   args,
			body:   body,
			orig:   orig,
			isCtor: true,
		})

	default:
		return tr.sourceErrorf("invalid compilation kind for constructor of %s", orig.Type.Entity.FullName)
	}
}

// compileCustomTypeCtor lowers constructors synthesized for custom types.
func (tr *Translator) compileCustomTypeCtor(ct meta.CustomTypeInfo, orig *js.Ctor) js.Expr {
	switch ct.(type) {
	case *meta.RecordInfo:
		return tr.TransformNewRecord(&js.NewRecord{Type: orig.Type, Args: orig.Args})
	case *meta.DelegateInfo:
		// a delegate constructor wraps a function value; the value is the
		// delegate
		if len(orig.Args) == 1 {
			return tr.TransformExpr(orig.Args[0])
		}
		return tr.sourceErrorf("delegate constructor of %s takes a single function", orig.Type.Entity.FullName)
	default:
		return tr.sourceErrorf("no constructor for custom type %s", orig.Type.Entity.FullName)
	}
}

// -----------------------------------------------------------------------------

// TransformBaseCtor rewrites a constructor chain into a call form applying
// the parent constructor function to the current object.
func (tr *Translator) TransformBaseCtor(b *js.BaseCtor) js.Expr {
	if tr.currentIsInline {
		if _, ok := b.This.(*js.This); ok {
			// keep the new-form; the call site lowers it against its own this
			return tr.TransformCtor(&js.Ctor{Type: b.Type, Ctor: b.Ctor, Args: b.Args})
		}
	}

	thisExpr := tr.TransformExpr(b.This)
	res := tr.TransformCtor(&js.Ctor{Type: b.Type, Ctor: b.Ctor, Args: b.Args})

	switch v := res.(type) {
	case *js.New:
		return callForm(v.Func, thisExpr, v.Args)
	case *js.Let:
		if n, ok := v.Body.(*js.New); ok && len(n.Args) == 1 {
			if vr, ok := n.Args[0].(*js.Var); ok && vr.Id == v.Id {
				return callForm(n.Func, thisExpr, []js.Expr{v.Value})
			}
		}
	}
	return tr.sourceErrorf("base constructor of %s is not translatable to a call form", b.Type.Entity.FullName)
}

func callForm(ctorFunc, thisExpr js.Expr, args []js.Expr) js.Expr {
	return &js.Application{
		Func: &js.ItemGet{Obj: ctorFunc, Index: &js.Const{Value: "call"}, Pure: true},
		Args: append([]js.Expr{thisExpr}, args...),
	}
}

// TransformCopyCtor wires the prototype of a plain object to its class.  With
// no class address the union shapes keep the node for the writer, which knows
// the metadata; anything else is already in final form.
func (tr *Translator) TransformCopyCtor(td common.TypeDef, obj js.Expr) js.Expr {
	if addr, ct := tr.store.TryLookupClassAddressOrCustomType(td); addr != nil {
		return js.RuntimeCall(js.RuntimeCreate, &js.GlobalAccess{Address: *addr}, obj)
	} else {
		switch ct.(type) {
		case *meta.UnionInfo, *meta.UnionCaseInfo:
			return &js.CopyCtor{Type: td, Object: obj}
		}
	}
	return obj
}
