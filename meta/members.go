package meta

import (
	"sharpjs/common"
	"sharpjs/js"
)

// CompiledMember classifies how a member is emitted and how call sites to it
// are lowered.
type CompiledMember interface {
	compiledMember()
}

// Instance is dispatched through a receiver under the given property name.
type Instance struct {
	Name string
}

func (Instance) compiledMember() {}

// Static is dispatched as a global call at the given address.
type Static struct {
	Address js.Address
}

func (Static) compiledMember() {}

// Constructor constructs via new at the given address.
type Constructor struct {
	Address js.Address
}

func (Constructor) compiledMember() {}

// Inline is an already-compiled inline: the body is substituted directly at
// call sites.
type Inline struct{}

func (Inline) compiledMember() {}

// NotCompiledInline is an inline whose body still needs generic resolution
// and translation at each call site.
type NotCompiledInline struct{}

func (NotCompiledInline) compiledMember() {}

// Macro invokes a user macro instance; Fallback, if set, is the compilation
// kind to dispatch to when the macro declines.
type Macro struct {
	Macro     common.TypeDef
	Parameter interface{}
	Fallback  CompiledMember
}

func (Macro) compiledMember() {}

// Remote emits a call through a remoting provider object.
type Remote struct {
	Kind     RemotingKind
	Handle   string
	Provider *common.TypeDef
}

func (Remote) compiledMember() {}

// IsInlineKind reports whether call sites substitute the member's body.
func IsInlineKind(m CompiledMember) bool {
	switch m.(type) {
	case Inline, NotCompiledInline:
		return true
	default:
		return false
	}
}

// -----------------------------------------------------------------------------

// RemotingKind selects the remoting-provider method a remote call goes
// through.
type RemotingKind int

const (
	RemoteSync RemotingKind = iota
	RemoteAsync
	RemoteTask
	RemoteSend
)

var remotingKindNames = map[RemotingKind]string{
	RemoteSync:  "Sync",
	RemoteAsync: "Async",
	RemoteTask:  "Task",
	RemoteSend:  "Send",
}

// MethodName returns the provider method name for the kind.
func (k RemotingKind) MethodName() string {
	return remotingKindNames[k]
}

// -----------------------------------------------------------------------------

// Optimizations is the per-member optimization record.
type Optimizations struct {
	// FuncArgs describes the per-argument curried/tupled adaptation callers
	// must perform; nil when no argument was reshaped.
	FuncArgs []common.FuncArgOptimization

	// IsPure marks members whose calls have no side effects.  The translator
	// does not read it: call sites to such members are not marked pure.
	IsPure bool

	// Warn, if non-empty, is emitted at every call site.
	Warn string
}

// -----------------------------------------------------------------------------

// LookupMemberResult is the result of resolving a method or constructor
// through the store.
type LookupMemberResult interface {
	lookupMember()
}

// Compiled is a member whose translation has completed.
type Compiled struct {
	Info CompiledMember
	Opts Optimizations
	Body js.Expr
}

func (Compiled) lookupMember() {}

// Compiling is a member still queued for translation.
type Compiling struct {
	Info CompiledMember
	Opts Optimizations
	Body js.Expr
}

func (Compiling) lookupMember() {}

// CustomTypeMember is a compiler-synthesized member of a record, union,
// delegate or union case.
type CustomTypeMember struct {
	Info CustomTypeInfo
}

func (CustomTypeMember) lookupMember() {}

// LookupMemberError is a failed resolution.
type LookupMemberError struct {
	Err error
}

func (LookupMemberError) lookupMember() {}

// -----------------------------------------------------------------------------

// LookupFieldResult is the result of resolving a field through the store.
type LookupFieldResult interface {
	lookupField()
}

// InstanceField is stored under a plain property of the receiver.
type InstanceField struct {
	Name     string
	ReadOnly bool
}

func (InstanceField) lookupField() {}

// StaticField is stored at a global address.
type StaticField struct {
	Address js.Address
}

func (StaticField) lookupField() {}

// OptionalField is stored under a property that may be absent.
type OptionalField struct {
	Name string
}

func (OptionalField) lookupField() {}

// IndexedField is stored at a numeric index of the receiver.
type IndexedField struct {
	Index int
}

func (IndexedField) lookupField() {}

// CustomTypeField is a field of a record or union case.
type CustomTypeField struct {
	Info CustomTypeInfo
}

func (CustomTypeField) lookupField() {}

// PropertyField is accessed through getter/setter methods.
type PropertyField struct {
	Getter *common.MethodDef
	Setter *common.MethodDef
}

func (PropertyField) lookupField() {}

// LookupFieldError is a failed resolution.
type LookupFieldError struct {
	Err error
}

func (LookupFieldError) lookupField() {}
