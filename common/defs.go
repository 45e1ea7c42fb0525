package common

// TypeDef identifies a type declared in some assembly.  Definitions are
// opaque, comparable values supplied by the front-end; the translator never
// inspects full names except for the handful of well-known types below.
type TypeDef struct {
	Assembly string
	FullName string
}

func (td TypeDef) String() string {
	return td.FullName
}

// MethodDef identifies a method of a type.  Overloads are distinguished by
// parameter count; the front-end mangles names where that is not enough.
type MethodDef struct {
	Name     string
	Params   int
	Generics int
}

func (md MethodDef) String() string {
	return md.Name
}

// CtorDef identifies a constructor of a type.
type CtorDef struct {
	Params int
}

// -----------------------------------------------------------------------------

// ConcreteType is a type definition together with its positional generic
// arguments as given at a use site.
type ConcreteType struct {
	Entity   TypeDef
	Generics []Type
}

// ConcreteMethod is a method definition together with its positional generic
// arguments as given at a call site.
type ConcreteMethod struct {
	Entity   MethodDef
	Generics []Type
}

// NonGenericType wraps a type definition with no generic arguments.
func NonGenericType(td TypeDef) ConcreteType {
	return ConcreteType{Entity: td}
}

// NonGenericMethod wraps a method definition with no generic arguments.
func NonGenericMethod(md MethodDef) ConcreteMethod {
	return ConcreteMethod{Entity: md}
}

// -----------------------------------------------------------------------------

// Well-known type definitions the translator special-cases.
var (
	// Dynamic is the sentinel type of dynamically dispatched receivers.
	Dynamic = TypeDef{Assembly: "netstandard", FullName: "dynamic"}

	UnitDef      = TypeDef{Assembly: "FSharp.Core", FullName: "Microsoft.FSharp.Core.Unit"}
	ObjectDef    = TypeDef{Assembly: "netstandard", FullName: "System.Object"}
	ExceptionDef = TypeDef{Assembly: "netstandard", FullName: "System.Exception"}
	ArrayDef     = TypeDef{Assembly: "netstandard", FullName: "System.Array"}
	VoidDef      = TypeDef{Assembly: "netstandard", FullName: "System.Void"}
	OptionDef    = TypeDef{Assembly: "FSharp.Core", FullName: "Microsoft.FSharp.Core.FSharpOption`1"}
	DisposableDef = TypeDef{Assembly: "netstandard", FullName: "System.IDisposable"}

	// RemotingProviderDef is the abstract provider interface remote calls
	// dispatch through when no user provider is declared.
	RemotingProviderDef = TypeDef{Assembly: "sharpjs", FullName: "SharpJS.Remoting.IRemotingProvider"}
)
