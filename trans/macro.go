package trans

import (
	"fmt"

	"sharpjs/common"
	"sharpjs/js"
	"sharpjs/meta"
	"sharpjs/report"
)

// macroContext carries everything a macro invocation may need: the resolved
// call pieces, the member's stored body for inline fallback and the original
// node for delayed transforms.
type macroContext struct {
	thisObj js.Expr
	typ     common.ConcreteType
	method  common.ConcreteMethod
	ctor    *common.CtorDef
	args    []js.Expr
	body    js.Expr
	orig    js.Expr
	base    bool
	isCtor  bool
}

// compileMacro invokes a macro instance and interprets its result protocol
// recursively.
func (tr *Translator) compileMacro(m meta.Macro, ctx *macroContext) js.Expr {
	inst, err := tr.store.GetMacroInstance(m.Macro)
	if err != nil {
		return tr.error(err)
	}

	req := &meta.MacroCall{
		This:        ctx.thisObj,
		Type:        ctx.typ,
		Method:      ctx.method,
		Ctor:        ctx.ctor,
		Args:        ctx.args,
		Parameter:   m.Parameter,
		IsInline:    tr.currentIsInline,
		Compilation: tr.store,
	}

	res := invokeMacro(inst, req, ctx.isCtor)
	return tr.interpretMacroResult(res, m, ctx)
}

// invokeMacro contains a panicking macro; exceptions raised by user plug-ins
// become macro errors.
func invokeMacro(inst meta.MacroTranslator, req *meta.MacroCall, isCtor bool) (res meta.MacroResult) {
	defer func() {
		if r := recover(); r != nil {
			res = meta.MacroError{Message: fmt.Sprint(r)}
		}
	}()

	if isCtor {
		return inst.TranslateCtor(req)
	}
	return inst.TranslateCall(req)
}

func (tr *Translator) interpretMacroResult(res meta.MacroResult, m meta.Macro, ctx *macroContext) js.Expr {
	switch r := res.(type) {
	case meta.MacroOk:
		return tr.TransformExpr(r.Expr)

	case meta.MacroWarning:
		tr.store.AddWarning(tr.currentSpan, r.Message)
		return tr.interpretMacroResult(r.Result, m, ctx)

	case meta.MacroError:
		return tr.error(report.MacroError{Macro: m.Macro.FullName, Message: r.Message})

	case meta.MacroDependencies:
		if tr.store.HasGraph() && tr.currentNode != nil {
			for _, n := range r.Nodes {
				tr.store.Graph().AddEdge(tr.currentNode, n)
			}
		}
		return tr.interpretMacroResult(r.Result, m, ctx)

	case meta.MacroFallback:
		if m.Fallback == nil {
			// TODO: this should probably say TranslateCtor on the ctor path
			return tr.error(report.MacroError{Macro: m.Macro.FullName,
				Message: "macro returned Fallback from TranslateCall but no fallback compilation is set"})
		}
		if ctx.isCtor {
			return tr.CompileCtor(m.Fallback, meta.Optimizations{}, ctx.body, ctx.orig.(*js.Ctor))
		}
		return tr.CompileCall(m.Fallback, meta.Optimizations{}, ctx.body, ctx.thisObj, ctx.typ, ctx.method, ctx.args, ctx.base, ctx.orig)

	case meta.MacroNeedsResolvedTypeArg:
		if tr.currentIsInline {
			tr.hasDelayedTransform = true
			return ctx.orig
		}
		if _, ok := r.Type.(*common.GenericParam); ok {
			return tr.error(report.MacroError{Macro: m.Macro.FullName,
				Message: "macro requires a resolved type argument, mark the member inline"})
		}
		return tr.error(report.MacroError{Macro: m.Macro.FullName,
			Message: "macro returned NeedsResolvedTypeArg from TranslateCall for a type that is already resolved"})

	default:
		return tr.error(report.MacroError{Macro: m.Macro.FullName, Message: "macro returned no result"})
	}
}

// -----------------------------------------------------------------------------

// generateBody invokes the generator of a generator-bodied member.  The
// quotation kind is translated like any body; the literal kinds pass to the
// writer verbatim.
func (tr *Translator) generateBody(cm *meta.CompilingMethod) js.Expr {
	gen, err := tr.store.GetGeneratorInstance(*cm.Generator)
	if err != nil {
		tr.store.AddError(tr.currentSpan, err)
		return js.ErrorPlaceholder()
	}

	res := invokeGenerator(gen, &meta.GeneratorRequest{
		Type:        cm.Type,
		Method:      cm.Method,
		Parameter:   cm.GeneratorParam,
		Compilation: tr.store,
	})

	switch r := res.(type) {
	case meta.GeneratedQuotation:
		return r.Expr
	case meta.GeneratedJavaScript:
		return &js.Verbatim{Source: r.Source}
	case meta.GeneratedString:
		return &js.Verbatim{Source: r.Source}
	case meta.GeneratorFailure:
		tr.store.AddError(tr.currentSpan, report.GeneratorError{Generator: cm.Generator.FullName, Message: r.Message})
		return js.ErrorPlaceholder()
	default:
		tr.store.AddError(tr.currentSpan, report.GeneratorError{Generator: cm.Generator.FullName, Message: "generator returned no result"})
		return js.ErrorPlaceholder()
	}
}

func invokeGenerator(gen meta.Generator, req *meta.GeneratorRequest) (res meta.GeneratorResult) {
	defer func() {
		if r := recover(); r != nil {
			res = meta.GeneratorFailure{Message: fmt.Sprint(r)}
		}
	}()
	return gen.Generate(req)
}
