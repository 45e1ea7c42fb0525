package meta

import (
	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
)

// MacroCall is the request object handed to a macro.  For constructor
// translation Ctor is set and Method is the zero value.
type MacroCall struct {
	This        js.Expr
	Type        common.ConcreteType
	Method      common.ConcreteMethod
	Ctor        *common.CtorDef
	Args        []js.Expr
	Parameter   interface{}
	IsInline    bool
	Compilation *Store
}

// MacroResult is the result protocol of macros; the translator interprets
// results recursively.
type MacroResult interface {
	macroResult()
}

// MacroOk carries an expression to translate in place of the call.
type MacroOk struct {
	Expr js.Expr
}

func (MacroOk) macroResult() {}

// MacroWarning records a warning and continues with the nested result.
type MacroWarning struct {
	Message string
	Result  MacroResult
}

func (MacroWarning) macroResult() {}

// MacroError records an error; the call becomes an error placeholder.
type MacroError struct {
	Message string
}

func (MacroError) macroResult() {}

// MacroDependencies adds dependency edges and continues with the nested
// result.
type MacroDependencies struct {
	Nodes  []depm.Node
	Result MacroResult
}

func (MacroDependencies) macroResult() {}

// MacroFallback defers to the member's fallback compilation kind.
type MacroFallback struct{}

func (MacroFallback) macroResult() {}

// MacroNeedsResolvedTypeArg asks for a resolved generic argument; inside an
// inline body translation is delayed to the call site.
type MacroNeedsResolvedTypeArg struct {
	Type common.Type
}

func (MacroNeedsResolvedTypeArg) macroResult() {}

// MacroTranslator is a user plug-in customizing translation of particular
// calls and constructors.
type MacroTranslator interface {
	TranslateCall(call *MacroCall) MacroResult
	TranslateCtor(call *MacroCall) MacroResult
}

// MacroCloser is implemented by macros that emit additional members when the
// work queue first drains.
type MacroCloser interface {
	CloseMacro(c *Store)
}

// -----------------------------------------------------------------------------

// GeneratorRequest is the request object handed to a code generator that
// produces a member body at compile time.
type GeneratorRequest struct {
	Type        common.TypeDef
	Method      common.MethodDef
	Parameter   interface{}
	Compilation *Store
}

// GeneratorResult is the result protocol of generators.
type GeneratorResult interface {
	generatorResult()
}

// GeneratedQuotation carries a source expression tree read into the IR; it is
// translated like any other body.
type GeneratedQuotation struct {
	Expr js.Expr
}

func (GeneratedQuotation) generatorResult() {}

// GeneratedJavaScript carries pre-formed JavaScript source; the writer
// incorporates it verbatim.
type GeneratedJavaScript struct {
	Source string
}

func (GeneratedJavaScript) generatorResult() {}

// GeneratedString carries a pre-formed JavaScript string expression.
type GeneratedString struct {
	Source string
}

func (GeneratedString) generatorResult() {}

// GeneratorFailure reports an error raised while generating.
type GeneratorFailure struct {
	Message string
}

func (GeneratorFailure) generatorResult() {}

// Generator is a user plug-in producing member bodies at compile time.
type Generator interface {
	Generate(req *GeneratorRequest) GeneratorResult
}
