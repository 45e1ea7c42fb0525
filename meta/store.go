package meta

import (
	"fmt"

	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/report"
)

// CompilingMethod is a method queued for translation.
type CompilingMethod struct {
	Type   common.TypeDef
	Method common.MethodDef
	Info   CompiledMember
	Opts   Optimizations
	Body   js.Expr

	// Generator, if set, produces the body at compile time.
	Generator      *common.TypeDef
	GeneratorParam interface{}
}

// CompilingCtor is a constructor queued for translation.
type CompilingCtor struct {
	Type common.TypeDef
	Ctor common.CtorDef
	Info CompiledMember
	Opts Optimizations
	Body js.Expr
}

// CompilingStaticCtor is a static constructor queued for translation.
type CompilingStaticCtor struct {
	Type    common.TypeDef
	Address js.Address
	Body    js.Statement
}

// CompilingImpl is an interface implementation queued for translation.
type CompilingImpl struct {
	Type   common.TypeDef
	Iface  common.TypeDef
	Method common.MethodDef
	Info   CompiledMember
	Body   js.Expr
}

// -----------------------------------------------------------------------------

type implKey struct {
	Iface  common.TypeDef
	Method common.MethodDef
}

type methodKey struct {
	Type   common.TypeDef
	Method common.MethodDef
}

// ClassInfo is the translated surface of a class.
type ClassInfo struct {
	// Address is the global address of the class's prototype root; nil for
	// classes without a prototype.
	Address *js.Address

	// BaseClass is the parent class, if any.
	BaseClass *common.TypeDef

	// IsInterface marks interface definitions.
	IsInterface bool

	// StaticCtorAddress is the address of the static constructor trigger,
	// if the class has one.
	StaticCtorAddress *js.Address

	// StaticCtorBody is the translated static constructor body.
	StaticCtorBody js.Statement

	methods map[common.MethodDef]*Compiled
	ctors   map[common.CtorDef]*Compiled
	impls   map[implKey]*Compiled
}

// Method returns the compiled record of a method, if present.
func (ci *ClassInfo) Method(m common.MethodDef) (*Compiled, bool) {
	c, ok := ci.methods[m]
	return c, ok
}

// Methods lists the compiled method definitions of the class.
func (ci *ClassInfo) Methods() []common.MethodDef {
	out := make([]common.MethodDef, 0, len(ci.methods))
	for m := range ci.methods {
		out = append(out, m)
	}
	return out
}

// -----------------------------------------------------------------------------

// Store is the metadata database of a single compilation.  It is read-mostly
// during translation; translators insert compiled members, dependency edges
// and diagnostics.  The driver runs translation sequentially, so the store
// does no locking.
type Store struct {
	classes     map[common.TypeDef]*ClassInfo
	customTypes map[common.TypeDef]CustomTypeInfo
	proxies     map[common.TypeDef]common.TypeDef
	fields      map[common.TypeDef]map[string]LookupFieldResult
	returnTypes map[methodKey]common.Type
	recordCtors map[common.TypeDef]common.CtorDef

	compilingMethods     []*CompilingMethod
	compilingCtors       []*CompilingCtor
	compilingStaticCtors []*CompilingStaticCtor
	compilingImpls       []*CompilingImpl

	entryPoint js.Statement

	graph *depm.Graph

	diagnostics []report.Diagnostic
	failed      map[depm.Node]struct{}

	macroFactories     map[common.TypeDef]func() MacroTranslator
	generatorFactories map[common.TypeDef]func() Generator
	macroInstances     map[common.TypeDef]MacroTranslator
	generatorInstances map[common.TypeDef]Generator
	macrosClosed       bool
	useLocalMacros     bool
}

// NewStore creates an empty store.  A nil graph disables dependency-edge
// recording.
func NewStore(graph *depm.Graph) *Store {
	return &Store{
		classes:            make(map[common.TypeDef]*ClassInfo),
		customTypes:        make(map[common.TypeDef]CustomTypeInfo),
		proxies:            make(map[common.TypeDef]common.TypeDef),
		fields:             make(map[common.TypeDef]map[string]LookupFieldResult),
		returnTypes:        make(map[methodKey]common.Type),
		recordCtors:        make(map[common.TypeDef]common.CtorDef),
		graph:              graph,
		failed:             make(map[depm.Node]struct{}),
		macroFactories:     make(map[common.TypeDef]func() MacroTranslator),
		generatorFactories: make(map[common.TypeDef]func() Generator),
		macroInstances:     make(map[common.TypeDef]MacroTranslator),
		generatorInstances: make(map[common.TypeDef]Generator),
		useLocalMacros:     true,
	}
}

// -----------------------------------------------------------------------------
// Registration surface used by the front-end (and tests) to seed metadata.

// AddClass registers a class.  The returned ClassInfo can be further
// configured before translation starts.
func (s *Store) AddClass(td common.TypeDef, ci *ClassInfo) *ClassInfo {
	if ci == nil {
		ci = &ClassInfo{}
	}
	if ci.methods == nil {
		ci.methods = make(map[common.MethodDef]*Compiled)
		ci.ctors = make(map[common.CtorDef]*Compiled)
		ci.impls = make(map[implKey]*Compiled)
	}
	s.classes[td] = ci
	return ci
}

// AddCustomType registers the custom-type shape of a type.
func (s *Store) AddCustomType(td common.TypeDef, info CustomTypeInfo) {
	s.customTypes[td] = info
	if r, ok := info.(*RecordInfo); ok {
		s.recordCtors[td] = common.CtorDef{Params: len(r.Fields)}
	}
}

// AddProxy redirects lookups of target to proxy.
func (s *Store) AddProxy(target, proxy common.TypeDef) {
	s.proxies[target] = proxy
}

// AddField registers the translation of a field.
func (s *Store) AddField(td common.TypeDef, name string, info LookupFieldResult) {
	fs, ok := s.fields[td]
	if !ok {
		fs = make(map[string]LookupFieldResult)
		s.fields[td] = fs
	}
	fs[name] = info
}

// SetReturnType records the return type of a method; the remoting path walks
// it to close the dependency graph over server-side types.
func (s *Store) SetReturnType(td common.TypeDef, m common.MethodDef, t common.Type) {
	s.returnTypes[methodKey{td, m}] = t
}

// AddCompilingMethod queues a method for translation.
func (s *Store) AddCompilingMethod(cm *CompilingMethod) {
	s.compilingMethods = append(s.compilingMethods, cm)
}

// AddCompilingConstructor queues a constructor for translation.
func (s *Store) AddCompilingConstructor(cc *CompilingCtor) {
	s.compilingCtors = append(s.compilingCtors, cc)
}

// AddCompilingStaticConstructor queues a static constructor for translation.
func (s *Store) AddCompilingStaticConstructor(cs *CompilingStaticCtor) {
	s.compilingStaticCtors = append(s.compilingStaticCtors, cs)
}

// AddCompilingImplementation queues an interface implementation for
// translation.
func (s *Store) AddCompilingImplementation(ci *CompilingImpl) {
	s.compilingImpls = append(s.compilingImpls, ci)
}

// SetEntryPoint records the program entry point.
func (s *Store) SetEntryPoint(st js.Statement) {
	s.entryPoint = st
}

// -----------------------------------------------------------------------------
// Query surface.

// resolve follows a proxy redirection, if any.
func (s *Store) resolve(td common.TypeDef) common.TypeDef {
	if _, ok := s.classes[td]; ok {
		return td
	}
	if _, ok := s.customTypes[td]; ok {
		return td
	}
	if proxy, ok := s.proxies[td]; ok {
		return proxy
	}
	return td
}

// FindProxied returns the proxy registered for a type.
func (s *Store) FindProxied(td common.TypeDef) (common.TypeDef, bool) {
	proxy, ok := s.proxies[td]
	return proxy, ok
}

// HasType reports whether any metadata is known for the type.
func (s *Store) HasType(td common.TypeDef) bool {
	td = s.resolve(td)
	if _, ok := s.classes[td]; ok {
		return true
	}
	_, ok := s.customTypes[td]
	return ok
}

// IsInterface reports whether the type is an interface.
func (s *Store) IsInterface(td common.TypeDef) bool {
	ci, ok := s.classes[s.resolve(td)]
	return ok && ci.IsInterface
}

// TryLookupClassInfo returns the class info of a type, following proxies.
func (s *Store) TryLookupClassInfo(td common.TypeDef) (*ClassInfo, bool) {
	ci, ok := s.classes[s.resolve(td)]
	return ci, ok
}

// TryLookupStaticConstructorAddress returns the static-constructor trigger
// address of a type, if it has one.
func (s *Store) TryLookupStaticConstructorAddress(td common.TypeDef) (js.Address, bool) {
	if ci, ok := s.TryLookupClassInfo(td); ok && ci.StaticCtorAddress != nil {
		return *ci.StaticCtorAddress, true
	}
	rtd := s.resolve(td)
	for _, cs := range s.compilingStaticCtors {
		if cs.Type == rtd {
			return cs.Address, true
		}
	}
	return js.Address{}, false
}

// TryLookupClassAddressOrCustomType returns the class address of a type, or
// failing that its custom-type shape.
func (s *Store) TryLookupClassAddressOrCustomType(td common.TypeDef) (*js.Address, CustomTypeInfo) {
	td = s.resolve(td)
	if ci, ok := s.classes[td]; ok && ci.Address != nil {
		return ci.Address, nil
	}
	return nil, s.customTypes[td]
}

// GetCustomType returns the custom-type shape of a type, or nil.
func (s *Store) GetCustomType(td common.TypeDef) CustomTypeInfo {
	return s.customTypes[s.resolve(td)]
}

// GetMethods lists every method definition known for a type, compiled or
// compiling.  Trait-call resolution matches candidates against this list.
func (s *Store) GetMethods(td common.TypeDef) []common.MethodDef {
	td = s.resolve(td)
	var out []common.MethodDef
	if ci, ok := s.classes[td]; ok {
		out = append(out, ci.Methods()...)
	}
	for _, cm := range s.compilingMethods {
		if cm.Type == td {
			out = append(out, cm.Method)
		}
	}
	return out
}

// MethodExistsInMetadata reports whether the method is known, compiled or
// compiling.
func (s *Store) MethodExistsInMetadata(td common.TypeDef, m common.MethodDef) bool {
	td = s.resolve(td)
	if ci, ok := s.classes[td]; ok {
		if _, ok := ci.methods[m]; ok {
			return true
		}
	}
	return s.compilingMethod(td, m) != nil
}

// ConstructorExistsInMetadata reports whether the constructor is known,
// compiled or compiling.
func (s *Store) ConstructorExistsInMetadata(td common.TypeDef, c common.CtorDef) bool {
	td = s.resolve(td)
	if ci, ok := s.classes[td]; ok {
		if _, ok := ci.ctors[c]; ok {
			return true
		}
	}
	return s.compilingCtor(td, c) != nil
}

// TryGetRecordConstructor returns the synthesized constructor of a record
// type.
func (s *Store) TryGetRecordConstructor(td common.TypeDef) (common.CtorDef, bool) {
	c, ok := s.recordCtors[s.resolve(td)]
	return c, ok
}

// LookupReturnType returns the recorded return type of a method.
func (s *Store) LookupReturnType(td common.TypeDef, m common.MethodDef) (common.Type, bool) {
	t, ok := s.returnTypes[methodKey{s.resolve(td), m}]
	return t, ok
}

func (s *Store) compilingMethod(td common.TypeDef, m common.MethodDef) *CompilingMethod {
	for _, cm := range s.compilingMethods {
		if cm.Type == td && cm.Method == m {
			return cm
		}
	}
	return nil
}

func (s *Store) compilingCtor(td common.TypeDef, c common.CtorDef) *CompilingCtor {
	for _, cc := range s.compilingCtors {
		if cc.Type == td && cc.Ctor == c {
			return cc
		}
	}
	return nil
}

// CompilingMethodRecord returns the queued record of a method, if present.
func (s *Store) CompilingMethodRecord(td common.TypeDef, m common.MethodDef) *CompilingMethod {
	return s.compilingMethod(s.resolve(td), m)
}

// CompilingCtorRecord returns the queued record of a constructor, if present.
func (s *Store) CompilingCtorRecord(td common.TypeDef, c common.CtorDef) *CompilingCtor {
	return s.compilingCtor(s.resolve(td), c)
}

// CompiledMemberCount totals the compiled methods, constructors and
// implementations across all classes.
func (s *Store) CompiledMemberCount() int {
	n := 0
	for _, ci := range s.classes {
		n += len(ci.methods) + len(ci.ctors) + len(ci.impls)
	}
	return n
}

// FailedCount returns how many members were dropped by failed translations.
func (s *Store) FailedCount() int {
	return len(s.failed)
}

// LookupMethodInfo resolves a method reference.  Resolution order: compiled
// members, compiling members, custom-type members, error.
func (s *Store) LookupMethodInfo(td common.TypeDef, m common.MethodDef) LookupMemberResult {
	rtd := s.resolve(td)

	if ci, ok := s.classes[rtd]; ok {
		if c, ok := ci.methods[m]; ok {
			return *c
		}
	}

	if cm := s.compilingMethod(rtd, m); cm != nil {
		return Compiling{Info: cm.Info, Opts: cm.Opts, Body: cm.Body}
	}

	if ct, ok := s.customTypes[rtd]; ok {
		return CustomTypeMember{Info: ct}
	}

	if !s.HasType(rtd) {
		return LookupMemberError{Err: report.TypeNotFound{Type: td.FullName}}
	}
	return LookupMemberError{Err: report.MemberNotFound{Type: td.FullName, Member: m.Name}}
}

// LookupConstructorInfo resolves a constructor reference.
func (s *Store) LookupConstructorInfo(td common.TypeDef, c common.CtorDef) LookupMemberResult {
	rtd := s.resolve(td)

	if ci, ok := s.classes[rtd]; ok {
		if cc, ok := ci.ctors[c]; ok {
			return *cc
		}
	}

	if cc := s.compilingCtor(rtd, c); cc != nil {
		return Compiling{Info: cc.Info, Opts: cc.Opts, Body: cc.Body}
	}

	if ct, ok := s.customTypes[rtd]; ok {
		return CustomTypeMember{Info: ct}
	}

	if !s.HasType(rtd) {
		return LookupMemberError{Err: report.TypeNotFound{Type: td.FullName}}
	}
	return LookupMemberError{Err: report.MemberNotFound{Type: td.FullName, Member: fmt.Sprintf(".ctor/%d", c.Params)}}
}

// LookupFieldInfo resolves a field reference.
func (s *Store) LookupFieldInfo(td common.TypeDef, name string) LookupFieldResult {
	rtd := s.resolve(td)

	if fs, ok := s.fields[rtd]; ok {
		if f, ok := fs[name]; ok {
			return f
		}
	}

	if ct, ok := s.customTypes[rtd]; ok {
		return CustomTypeField{Info: ct}
	}

	if !s.HasType(rtd) {
		return LookupFieldError{Err: report.TypeNotFound{Type: td.FullName}}
	}
	return LookupFieldError{Err: report.MemberNotFound{Type: td.FullName, Member: name}}
}

// -----------------------------------------------------------------------------
// Iteration surface for the driver.

// CompilingMethods returns the methods still queued for translation.
func (s *Store) CompilingMethods() []*CompilingMethod {
	return append([]*CompilingMethod(nil), s.compilingMethods...)
}

// GetCompilingConstructors returns the constructors queued for translation.
func (s *Store) GetCompilingConstructors() []*CompilingCtor {
	return append([]*CompilingCtor(nil), s.compilingCtors...)
}

// GetCompilingStaticConstructors returns the static constructors queued for
// translation.
func (s *Store) GetCompilingStaticConstructors() []*CompilingStaticCtor {
	return append([]*CompilingStaticCtor(nil), s.compilingStaticCtors...)
}

// GetCompilingImplementations returns the implementations queued for
// translation.
func (s *Store) GetCompilingImplementations() []*CompilingImpl {
	return append([]*CompilingImpl(nil), s.compilingImpls...)
}

// EntryPoint returns the program entry point, if one was recorded.
func (s *Store) EntryPoint() js.Statement {
	return s.entryPoint
}

// -----------------------------------------------------------------------------
// Mutation surface used by translators.

func (s *Store) classFor(td common.TypeDef) *ClassInfo {
	if ci, ok := s.classes[td]; ok {
		return ci
	}
	return s.AddClass(td, nil)
}

func (s *Store) removeCompilingMethod(td common.TypeDef, m common.MethodDef) {
	for i, cm := range s.compilingMethods {
		if cm.Type == td && cm.Method == m {
			s.compilingMethods = append(s.compilingMethods[:i], s.compilingMethods[i+1:]...)
			return
		}
	}
}

func (s *Store) removeCompilingCtor(td common.TypeDef, c common.CtorDef) {
	for i, cc := range s.compilingCtors {
		if cc.Type == td && cc.Ctor == c {
			s.compilingCtors = append(s.compilingCtors[:i], s.compilingCtors[i+1:]...)
			return
		}
	}
}

// AddCompiledMethod stores the translated body of a method and removes it
// from the work queue.
func (s *Store) AddCompiledMethod(td common.TypeDef, m common.MethodDef, info CompiledMember, opts Optimizations, body js.Expr) {
	s.removeCompilingMethod(td, m)
	s.classFor(td).methods[m] = &Compiled{Info: info, Opts: opts, Body: body}
}

// AddCompiledConstructor stores the translated body of a constructor and
// removes it from the work queue.
func (s *Store) AddCompiledConstructor(td common.TypeDef, c common.CtorDef, info CompiledMember, opts Optimizations, body js.Expr) {
	s.removeCompilingCtor(td, c)
	s.classFor(td).ctors[c] = &Compiled{Info: info, Opts: opts, Body: body}
}

// AddCompiledImplementation stores the translated body of an interface
// implementation and removes it from the work queue.
func (s *Store) AddCompiledImplementation(td, iface common.TypeDef, m common.MethodDef, info CompiledMember, body js.Expr) {
	for i, ci := range s.compilingImpls {
		if ci.Type == td && ci.Iface == iface && ci.Method == m {
			s.compilingImpls = append(s.compilingImpls[:i], s.compilingImpls[i+1:]...)
			break
		}
	}
	s.classFor(td).impls[implKey{iface, m}] = &Compiled{Info: info, Body: body}
}

// AddCompiledStaticConstructor stores the translated body of a static
// constructor and removes it from the work queue.
func (s *Store) AddCompiledStaticConstructor(td common.TypeDef, addr js.Address, body js.Statement) {
	for i, cs := range s.compilingStaticCtors {
		if cs.Type == td {
			s.compilingStaticCtors = append(s.compilingStaticCtors[:i], s.compilingStaticCtors[i+1:]...)
			break
		}
	}
	ci := s.classFor(td)
	ci.StaticCtorAddress = &addr
	ci.StaticCtorBody = body
}

// FailedCompiledMethod drops a method whose translation failed.
func (s *Store) FailedCompiledMethod(td common.TypeDef, m common.MethodDef) {
	s.removeCompilingMethod(td, m)
	s.failed[depm.MethodNode{Type: td, Method: m}] = struct{}{}
}

// FailedCompiledConstructor drops a constructor whose translation failed.
func (s *Store) FailedCompiledConstructor(td common.TypeDef, c common.CtorDef) {
	s.removeCompilingCtor(td, c)
	s.failed[depm.ConstructorNode{Type: td, Ctor: c}] = struct{}{}
}

// IsFailed reports whether a member was dropped by a failed translation.
func (s *Store) IsFailed(n depm.Node) bool {
	_, ok := s.failed[n]
	return ok
}

// -----------------------------------------------------------------------------
// Diagnostics.

// AddError appends an error diagnostic.
func (s *Store) AddError(span *report.TextSpan, err error) {
	s.diagnostics = append(s.diagnostics, report.NewError(span, err))
}

// AddWarning appends a warning diagnostic.
func (s *Store) AddWarning(span *report.TextSpan, msg string) {
	s.diagnostics = append(s.diagnostics, report.NewWarning(span, msg))
}

// Diagnostics returns all diagnostics recorded so far.
func (s *Store) Diagnostics() []report.Diagnostic {
	return s.diagnostics
}

// HasErrors reports whether any error diagnostic was recorded.
func (s *Store) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.IsError {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Dependency graph.

// HasGraph reports whether dependency edges are being recorded.
func (s *Store) HasGraph() bool {
	return s.graph != nil
}

// Graph returns the dependency graph; nil when edge recording is disabled.
func (s *Store) Graph() *depm.Graph {
	return s.graph
}

// -----------------------------------------------------------------------------
// Macro and generator registry.

// RegisterMacro registers a macro factory under its type definition.
func (s *Store) RegisterMacro(td common.TypeDef, factory func() MacroTranslator) {
	s.macroFactories[td] = factory
}

// RegisterGenerator registers a generator factory under its type definition.
func (s *Store) RegisterGenerator(td common.TypeDef, factory func() Generator) {
	s.generatorFactories[td] = factory
}

// UseLocalMacros controls whether macros stay available after CloseMacros;
// code services disable this.
func (s *Store) UseLocalMacros(use bool) {
	s.useLocalMacros = use
}

// GetMacroInstance returns the (cached) instance of a macro.
func (s *Store) GetMacroInstance(td common.TypeDef) (MacroTranslator, error) {
	if inst, ok := s.macroInstances[td]; ok {
		return inst, nil
	}
	if s.macrosClosed && !s.useLocalMacros {
		return nil, report.MacroError{Macro: td.FullName, Message: "macro is not available after macros have been closed"}
	}
	factory, ok := s.macroFactories[td]
	if !ok {
		return nil, report.MacroError{Macro: td.FullName, Message: "macro type not found"}
	}
	inst := factory()
	s.macroInstances[td] = inst
	return inst, nil
}

// GetGeneratorInstance returns the (cached) instance of a generator.
func (s *Store) GetGeneratorInstance(td common.TypeDef) (Generator, error) {
	if inst, ok := s.generatorInstances[td]; ok {
		return inst, nil
	}
	factory, ok := s.generatorFactories[td]
	if !ok {
		return nil, report.GeneratorError{Generator: td.FullName, Message: "generator type not found"}
	}
	inst := factory()
	s.generatorInstances[td] = inst
	return inst, nil
}

// CloseMacros gives every instantiated macro a chance to enqueue members it
// has been accumulating.  It runs once per compilation.
func (s *Store) CloseMacros() {
	if s.macrosClosed {
		return
	}
	s.macrosClosed = true
	for _, inst := range s.macroInstances {
		if closer, ok := inst.(MacroCloser); ok {
			closer.CloseMacro(s)
		}
	}
}
