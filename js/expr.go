package js

import (
	"sharpjs/common"
	"sharpjs/report"
)

// Expr represents an expression in the JavaScript IR.  The IR is a closed sum
// type: the translator dispatches exhaustively over the kinds below and
// rewriters recurse structurally over the rest via MapExpr.
//
// Nodes up to and including Verbatim are directly writable as JavaScript.
// The nodes after the marker comment are source-level forms that translation
// eliminates, except CopyCtor, which union shapes without a class address keep
// for the writer; the invalid-form checker rejects a subset of them in
// compiled output.
type Expr interface {
	exprNode()
}

// Const is a literal value: nil (null), bool, string, int64 or float64.
type Const struct {
	Value interface{}
}

func (*Const) exprNode() {}

// Undefined is the JavaScript undefined value.
type Undefined struct{}

func (*Undefined) exprNode() {}

// Var reads a local identifier.
type Var struct {
	Id *Id
}

func (*Var) exprNode() {}

// ExprSourcePos attaches a source position to the wrapped expression.
type ExprSourcePos struct {
	Span *report.TextSpan
	Expr Expr
}

func (*ExprSourcePos) exprNode() {}

// Let binds a value in the body expression.
type Let struct {
	Id    *Id
	Value Expr
	Body  Expr
}

func (*Let) exprNode() {}

// Binding is one binding of a LetRec.
type Binding struct {
	Id    *Id
	Value Expr
}

// LetRec binds mutually recursive values in the body expression.
type LetRec struct {
	Bindings []Binding
	Body     Expr
}

func (*LetRec) exprNode() {}

// Lambda is a function with an expression body.
type Lambda struct {
	Params []*Id
	Body   Expr
}

func (*Lambda) exprNode() {}

// Function is a function with a statement body.  The statement breaker turns
// Lambdas into Functions for non-inline compiled members.
type Function struct {
	Params []*Id
	Body   Statement
}

func (*Function) exprNode() {}

// Application applies a function expression to arguments.
type Application struct {
	Func Expr
	Args []Expr
}

func (*Application) exprNode() {}

// Conditional is the ternary operator.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Conditional) exprNode() {}

// Sequential evaluates expressions in order, yielding the last.
type Sequential struct {
	Exprs []Expr
}

func (*Sequential) exprNode() {}

// ObjectField is one field of an object literal.
type ObjectField struct {
	Name  string
	Value Expr
}

// Object is an object literal.
type Object struct {
	Fields []ObjectField
}

func (*Object) exprNode() {}

// NewArray is an array literal.
type NewArray struct {
	Elems []Expr
}

func (*NewArray) exprNode() {}

// ItemGet reads obj[index].  Pure marks reads the optimizer may move or
// eliminate, such as immutable field reads.
type ItemGet struct {
	Obj   Expr
	Index Expr
	Pure  bool
}

func (*ItemGet) exprNode() {}

// ItemSet writes obj[index] = value.
type ItemSet struct {
	Obj   Expr
	Index Expr
	Value Expr
}

func (*ItemSet) exprNode() {}

// Unary applies a unary operator.
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

func (*Unary) exprNode() {}

// Binary applies a binary operator.
type Binary struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*Binary) exprNode() {}

// VarSet assigns a mutable local identifier.
type VarSet struct {
	Id    *Id
	Value Expr
}

func (*VarSet) exprNode() {}

// GlobalAccess reads a global value by address.
type GlobalAccess struct {
	Address Address
}

func (*GlobalAccess) exprNode() {}

// This is the JavaScript this reference.
type This struct{}

func (*This) exprNode() {}

// New constructs an object: new Func(Args).
type New struct {
	Func Expr
	Args []Expr
}

func (*New) exprNode() {}

// Verbatim is pre-formed JavaScript source produced by a code generator; the
// writer incorporates it without inspection.
type Verbatim struct {
	Source string
}

func (*Verbatim) exprNode() {}

// StatementExpr evaluates a statement in expression position, yielding the
// value of Result if set and undefined otherwise.  Only inline bodies may
// retain this form.
type StatementExpr struct {
	Statement Statement
	Result    *Id
}

func (*StatementExpr) exprNode() {}

// -----------------------------------------------------------------------------
// Source-level forms.  Everything below must be rewritten away by translation
// before a body is stored as compiled (inline bodies excepted for some kinds,
// and CopyCtor, which union shapes without a class address keep for the writer).

// Self refers to the current class from inside members bound under a static
// constructor.
type Self struct{}

func (*Self) exprNode() {}

// Base refers to the parent class; only valid as a call receiver.
type Base struct{}

func (*Base) exprNode() {}

// Hole is a positional placeholder for an argument inside an inline body.
type Hole struct {
	Index int
}

func (*Hole) exprNode() {}

// Call invokes a method resolved through the metadata store.
type Call struct {
	This   Expr // nil for static calls
	Type   common.ConcreteType
	Method common.ConcreteMethod
	Args   []Expr
}

func (*Call) exprNode() {}

// Ctor invokes a constructor resolved through the metadata store.
type Ctor struct {
	Type common.ConcreteType
	Ctor common.CtorDef
	Args []Expr
}

func (*Ctor) exprNode() {}

// BaseCtor chains to a parent-class constructor from inside a constructor.
type BaseCtor struct {
	This Expr
	Type common.ConcreteType
	Ctor common.CtorDef
	Args []Expr
}

func (*BaseCtor) exprNode() {}

// CopyCtor wires the prototype of a plain object to a class.
type CopyCtor struct {
	Type   common.TypeDef
	Object Expr
}

func (*CopyCtor) exprNode() {}

// NewDelegate creates a delegate value over a method.
type NewDelegate struct {
	This   Expr
	Type   common.ConcreteType
	Method common.ConcreteMethod
}

func (*NewDelegate) exprNode() {}

// NewRecord constructs a record from field values in declaration order.
type NewRecord struct {
	Type common.ConcreteType
	Args []Expr
}

func (*NewRecord) exprNode() {}

// NewUnionCase constructs a union case from its field values.
type NewUnionCase struct {
	Type common.ConcreteType
	Case string
	Args []Expr
}

func (*NewUnionCase) exprNode() {}

// UnionCaseTest tests whether a union value is the given case.
type UnionCaseTest struct {
	Expr Expr
	Type common.ConcreteType
	Case string
}

func (*UnionCaseTest) exprNode() {}

// UnionCaseGet reads a field of a union case.
type UnionCaseGet struct {
	Expr  Expr
	Type  common.ConcreteType
	Case  string
	Field string
}

func (*UnionCaseGet) exprNode() {}

// UnionCaseTag reads the tag of a union value.
type UnionCaseTag struct {
	Expr Expr
	Type common.ConcreteType
}

func (*UnionCaseTag) exprNode() {}

// FieldGet reads a field resolved through the metadata store.
type FieldGet struct {
	This  Expr // nil for static fields
	Type  common.ConcreteType
	Field string
}

func (*FieldGet) exprNode() {}

// FieldSet writes a field resolved through the metadata store.
type FieldSet struct {
	This  Expr // nil for static fields
	Type  common.ConcreteType
	Field string
	Value Expr
}

func (*FieldSet) exprNode() {}

// Cctor triggers the static constructor of a type.
type Cctor struct {
	Type common.TypeDef
}

func (*Cctor) exprNode() {}

// TypeCheck tests an expression against a source-level type.
type TypeCheck struct {
	Expr Expr
	Type common.Type
}

func (*TypeCheck) exprNode() {}

// TraitCall invokes a method constrained to exist on one of the candidate
// types, resolved at the call site.
type TraitCall struct {
	This   Expr
	Types  []common.Type
	Method common.ConcreteMethod
	Args   []Expr
}

func (*TraitCall) exprNode() {}

// Await awaits an asynchronous value; eliminated by the async macro.
type Await struct {
	Expr Expr
}

func (*Await) exprNode() {}

// NamedParameter is an argument passed by name; eliminated by the front-end
// or a macro.
type NamedParameter struct {
	Name  string
	Value Expr
}

func (*NamedParameter) exprNode() {}

// RefOrOutParameter is a by-reference argument; eliminated by translation.
type RefOrOutParameter struct {
	Expr Expr
}

func (*RefOrOutParameter) exprNode() {}

// Coalesce yields Left unless it is null, in which case Right.
type Coalesce struct {
	Left  Expr
	Type  common.Type
	Right Expr
}

func (*Coalesce) exprNode() {}

// OptimizedFSharpArg marks a raw use of a parameter whose function shape was
// flattened; call shaping strips the marker when shapes match.
type OptimizedFSharpArg struct {
	Expr Expr
	Opt  common.FuncArgOptimization
}

func (*OptimizedFSharpArg) exprNode() {}

// -----------------------------------------------------------------------------

// errorPlaceholderValue is the value substituted for failed translations so
// later passes can proceed.
const errorPlaceholderValue = "$$ERROR$$"

// ErrorPlaceholder returns the expression substituted where translation
// failed.
func ErrorPlaceholder() Expr {
	return &Const{Value: errorPlaceholderValue}
}

// IsErrorPlaceholder recognizes the placeholder produced by ErrorPlaceholder.
func IsErrorPlaceholder(e Expr) bool {
	c, ok := e.(*Const)
	return ok && c.Value == errorPlaceholderValue
}
