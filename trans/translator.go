package trans

import (
	"fmt"

	"sharpjs/common"
	"sharpjs/config"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
	"sharpjs/opt"
	"sharpjs/report"
)

// Translator is the construct responsible for converting the body of one
// compiling member from the source-level IR into the JavaScript IR.  The
// driver creates a fresh Translator per member; sub-translators created for
// on-demand inline compilation carry the in-progress stack by value.
type Translator struct {
	store   *meta.Store
	options *config.Options

	// currentNode is the graph-node identity of the member being compiled;
	// every dependency edge recorded during translation starts here.
	currentNode depm.Node

	// currentIsInline is set while compiling an inline body; several rules
	// defer work to the call site instead of failing.
	currentIsInline bool

	// selfAddress resolves Self references inside members bound under a
	// static constructor.
	selfAddress *js.Address

	// hasDelayedTransform is set when translation inside an inline body
	// could not be completed; the stored result is demoted so call sites
	// re-trigger translation with resolved types.
	hasDelayedTransform bool

	// currentFuncArgs maps the parameters of the current member that were
	// shape-optimized to their adaptation tags.
	currentFuncArgs map[*js.Id]common.FuncArgOptimization

	// inProgress is the stack of member nodes currently under translation,
	// threaded through sub-translators to detect inline cycles.
	inProgress []depm.Node

	currentSpan *report.TextSpan
}

// New creates a translator over a metadata store.
func New(store *meta.Store, options *config.Options) *Translator {
	if options == nil {
		options = config.Default()
	}
	return &Translator{store: store, options: options}
}

// sub creates a translator for compiling another member in the middle of the
// current translation.  The in-progress stack is inherited so cycles through
// the current member are caught.
func (tr *Translator) sub() *Translator {
	return &Translator{store: tr.store, options: tr.options, inProgress: tr.inProgress}
}

func (tr *Translator) onStack(node depm.Node) bool {
	for _, n := range tr.inProgress {
		if n == node {
			return true
		}
	}
	return false
}

func (tr *Translator) begin(node depm.Node, isInline bool) {
	tr.currentNode = node
	tr.currentIsInline = isInline
	tr.inProgress = append(append([]depm.Node(nil), tr.inProgress...), node)
}

// -----------------------------------------------------------------------------
// Diagnostics helpers.  Failures never propagate as Go errors; they become
// diagnostics on the store and an error placeholder in the tree.

func (tr *Translator) error(err error) js.Expr {
	tr.store.AddError(tr.currentSpan, err)
	return js.ErrorPlaceholder()
}

func (tr *Translator) sourceErrorf(format string, args ...interface{}) js.Expr {
	return tr.error(report.SourceErrorf(format, args...))
}

func (tr *Translator) warnf(format string, args ...interface{}) {
	tr.store.AddWarning(tr.currentSpan, fmt.Sprintf(format, args...))
}

func memberName(td common.TypeDef, name string) string {
	return td.FullName + "." + name
}

// -----------------------------------------------------------------------------
// Member entry points.

// CompileMethod translates one compiling method and stores the result.
func (tr *Translator) CompileMethod(cm *meta.CompilingMethod) {
	node := depm.MethodNode{Type: cm.Type, Method: cm.Method}
	if tr.onStack(node) {
		tr.store.AddError(nil, report.SourceErrorf("Inline loop found at method %s", memberName(cm.Type, cm.Method.Name)))
		tr.store.FailedCompiledMethod(cm.Type, cm.Method)
		return
	}
	tr.begin(node, meta.IsInlineKind(cm.Info))

	body := cm.Body
	if cm.Generator != nil {
		body = tr.generateBody(cm)
	}
	tr.bindFuncArgs(cm.Opts.FuncArgs, body)

	translated := tr.TransformExpr(body)

	// an inline cycle through this member drops its body
	if tr.store.IsFailed(node) {
		return
	}

	if tr.currentIsInline {
		result := opt.OptimizeInline(js.RemoveSourcePositions(translated))
		info := cm.Info
		if tr.hasDelayedTransform {
			info = meta.NotCompiledInline{}
		}
		tr.store.AddCompiledMethod(cm.Type, cm.Method, info, cm.Opts, result)
		return
	}

	result := opt.Optimize(translated, false)
	tr.checkForm(result, false)
	tr.store.AddCompiledMethod(cm.Type, cm.Method, cm.Info, cm.Opts, result)
}

// CompileConstructor translates one compiling constructor and stores the
// result.
func (tr *Translator) CompileConstructor(cc *meta.CompilingCtor) {
	node := depm.ConstructorNode{Type: cc.Type, Ctor: cc.Ctor}
	if tr.onStack(node) {
		tr.store.AddError(nil, report.SourceErrorf("Inline loop found at constructor of %s", cc.Type.FullName))
		tr.store.FailedCompiledConstructor(cc.Type, cc.Ctor)
		return
	}
	tr.begin(node, meta.IsInlineKind(cc.Info))

	tr.bindFuncArgs(cc.Opts.FuncArgs, cc.Body)
	translated := tr.TransformExpr(cc.Body)

	if tr.store.IsFailed(node) {
		return
	}

	if tr.currentIsInline {
		result := opt.OptimizeInline(js.RemoveSourcePositions(translated))
		info := cc.Info
		if tr.hasDelayedTransform {
			info = meta.NotCompiledInline{}
		}
		tr.store.AddCompiledConstructor(cc.Type, cc.Ctor, info, cc.Opts, result)
		return
	}

	result := opt.Optimize(translated, true)
	tr.checkForm(result, false)
	tr.store.AddCompiledConstructor(cc.Type, cc.Ctor, cc.Info, cc.Opts, result)
}

// CompileStaticConstructor translates one compiling static constructor.
func (tr *Translator) CompileStaticConstructor(cs *meta.CompilingStaticCtor) {
	tr.begin(depm.TypeNode{Type: cs.Type}, false)
	if ci, ok := tr.store.TryLookupClassInfo(cs.Type); ok && ci.Address != nil {
		tr.selfAddress = ci.Address
	}

	translated := tr.TransformStatement(cs.Body)
	tr.store.AddCompiledStaticConstructor(cs.Type, cs.Address, opt.OptimizeStatement(translated))
}

// CompileImplementation translates one compiling interface implementation.
func (tr *Translator) CompileImplementation(ci *meta.CompilingImpl) {
	tr.begin(depm.ImplementationNode{Type: ci.Type, Iface: ci.Iface, Method: ci.Method}, false)

	translated := tr.TransformExpr(ci.Body)
	result := opt.Optimize(translated, false)
	tr.checkForm(result, false)
	tr.store.AddCompiledImplementation(ci.Type, ci.Iface, ci.Method, ci.Info, result)
}

// CompileEntryPoint translates the program entry point.
func (tr *Translator) CompileEntryPoint(st js.Statement) {
	tr.begin(depm.EntryPointNode{}, false)

	translated := tr.TransformStatement(st)
	tr.store.SetEntryPoint(opt.OptimizeStatement(translated))
}

// -----------------------------------------------------------------------------

// bindFuncArgs records which parameters of the current member carry shaping
// tags; raw uses of those parameters must be re-wrapped.
func (tr *Translator) bindFuncArgs(tags []common.FuncArgOptimization, body js.Expr) {
	if len(tags) == 0 {
		return
	}
	lam, ok := body.(*js.Lambda)
	if !ok {
		return
	}

	tr.currentFuncArgs = make(map[*js.Id]common.FuncArgOptimization)
	for i, tag := range tags {
		if i >= len(lam.Params) {
			break
		}
		switch tag.(type) {
		case common.CurriedFuncArg, common.TupledFuncArg:
			tr.currentFuncArgs[lam.Params[i]] = tag
		}
	}
}

// checkForm runs the debug invalid-form check over a compiled body.  Any
// finding is a translator bug.
func (tr *Translator) checkForm(e js.Expr, isInline bool) {
	if !tr.options.Debug {
		return
	}
	for _, err := range opt.VerifyForm(e, isInline) {
		tr.store.AddError(tr.currentSpan, err)
	}
}

// failCurrentMember propagates a failed inline dependency: a member whose
// inline callee dropped out of compilation drops too.
func (tr *Translator) failCurrentMember() {
	switch n := tr.currentNode.(type) {
	case depm.MethodNode:
		tr.store.FailedCompiledMethod(n.Type, n.Method)
	case depm.ConstructorNode:
		tr.store.FailedCompiledConstructor(n.Type, n.Ctor)
	}
}

func (tr *Translator) transformAll(es []js.Expr) []js.Expr {
	if len(es) == 0 {
		return nil
	}
	out := make([]js.Expr, len(es))
	for i, e := range es {
		out[i] = tr.TransformExpr(e)
	}
	return out
}
