package trans

import (
	"reflect"
	"strings"
	"testing"

	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
)

var (
	testClass  = common.TypeDef{Assembly: "Test", FullName: "Test.T"}
	callerType = common.TypeDef{Assembly: "Test", FullName: "Test.Caller"}
	callerDef  = common.MethodDef{Name: "Run"}
)

func newStore(t *testing.T) (*meta.Store, *depm.Graph) {
	t.Helper()
	g := depm.NewGraph()
	return meta.NewStore(g), g
}

func caller(body js.Expr) *meta.CompilingMethod {
	return &meta.CompilingMethod{
		Type:   callerType,
		Method: callerDef,
		Info:   meta.Static{Address: js.NewAddress("Test", "Run")},
		Body:   body,
	}
}

func compiledCallerBody(t *testing.T, store *meta.Store) js.Expr {
	t.Helper()
	res, ok := store.LookupMethodInfo(callerType, callerDef).(meta.Compiled)
	if !ok {
		t.Fatalf("caller was not compiled, got %T", store.LookupMethodInfo(callerType, callerDef))
	}
	return res.Body
}

// returnedExpr digs the single returned expression out of a compiled body.
func returnedExpr(t *testing.T, body js.Expr) js.Expr {
	t.Helper()
	fn, ok := body.(*js.Function)
	if !ok {
		t.Fatalf("expected a statement-bodied function, got %T", body)
	}
	block, ok := fn.Body.(*js.Block)
	if !ok {
		t.Fatalf("expected a block body, got %T", fn.Body)
	}
	if len(block.Stmts) != 1 {
		t.Fatalf("expected a single statement, got %d", len(block.Stmts))
	}
	ret, ok := block.Stmts[0].(*js.Return)
	if !ok {
		t.Fatalf("expected a return, got %T", block.Stmts[0])
	}
	return ret.Value
}

func hasErrorContaining(store *meta.Store, fragment string) bool {
	for _, d := range store.Diagnostics() {
		if d.IsError && strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

func TestStaticCallLowering(t *testing.T) {
	store, g := newStore(t)
	m := common.MethodDef{Name: "M", Params: 1}
	store.AddClass(testClass, nil)
	store.AddCompiledMethod(testClass, m, meta.Static{Address: js.NewAddress("N", "M")}, meta.Optimizations{}, nil)

	store.AddCompilingMethod(caller(&js.Lambda{Body: &js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
		Args:   []js.Expr{&js.Const{Value: 2}},
	}}))
	CompileAll(store, nil)

	got := returnedExpr(t, compiledCallerBody(t, store))
	want := &js.Application{
		Func: &js.GlobalAccess{Address: js.NewAddress("N", "M")},
		Args: []js.Expr{&js.Const{Value: 2}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("static call lowered to %#v", got)
	}

	from := depm.MethodNode{Type: callerType, Method: callerDef}
	to := depm.MethodNode{Type: testClass, Method: m}
	if !g.HasEdge(from, to) {
		t.Error("expected a dependency edge from the caller to the callee")
	}
}

func TestInlineSubstitution(t *testing.T) {
	store, g := newStore(t)
	id := common.MethodDef{Name: "Id", Params: 1}
	x := js.NewId("x")
	store.AddCompilingMethod(&meta.CompilingMethod{
		Type:   testClass,
		Method: id,
		Info:   meta.Inline{},
		Body:   &js.Lambda{Params: []*js.Id{x}, Body: &js.Var{Id: x}},
	})
	store.AddCompilingMethod(caller(&js.Lambda{Body: &js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(id),
		Args:   []js.Expr{&js.Const{Value: 3}},
	}}))
	CompileAll(store, nil)

	got := returnedExpr(t, compiledCallerBody(t, store))
	if !reflect.DeepEqual(got, &js.Const{Value: 3}) {
		t.Errorf("inline call lowered to %#v", got)
	}

	from := depm.MethodNode{Type: callerType, Method: callerDef}
	if len(g.Successors(from)) != 0 {
		t.Errorf("inline substitution must not add edges, got %v", g.Successors(from))
	}
}

func TestInlineCycleDetection(t *testing.T) {
	store, _ := newStore(t)
	f := common.MethodDef{Name: "F"}
	gm := common.MethodDef{Name: "G"}
	store.AddCompilingMethod(&meta.CompilingMethod{
		Type: testClass, Method: f, Info: meta.Inline{},
		Body: &js.Lambda{Body: &js.Call{Type: common.NonGenericType(testClass), Method: common.NonGenericMethod(gm)}},
	})
	store.AddCompilingMethod(&meta.CompilingMethod{
		Type: testClass, Method: gm, Info: meta.Inline{},
		Body: &js.Lambda{Body: &js.Call{Type: common.NonGenericType(testClass), Method: common.NonGenericMethod(f)}},
	})
	CompileAll(store, nil)

	if !hasErrorContaining(store, "Inline loop found at method") {
		t.Error("expected an inline loop error")
	}
	if !store.IsFailed(depm.MethodNode{Type: testClass, Method: f}) {
		t.Error("expected F to be marked failed")
	}
	if !store.IsFailed(depm.MethodNode{Type: testClass, Method: gm}) {
		t.Error("expected G to be marked failed")
	}
}

// -----------------------------------------------------------------------------

func unionU() (common.TypeDef, *meta.UnionInfo) {
	u := common.TypeDef{Assembly: "Test", FullName: "Test.U"}
	info := &meta.UnionInfo{Cases: []meta.UnionCase{
		{Name: "A", Kind: meta.NormalCase, Fields: []meta.UnionField{{Name: "Item"}}},
		{Name: "B", Kind: meta.SingletonCase},
		{Name: "C", Kind: meta.NormalCase, Fields: []meta.UnionField{{Name: "Item1"}, {Name: "Item2"}}},
	}}
	return u, info
}

func TestUnionCaseConstruction(t *testing.T) {
	store, _ := newStore(t)
	u, info := unionU()
	store.AddCustomType(u, info)
	tr := New(store, nil)

	got := tr.TransformExpr(&js.NewUnionCase{
		Type: common.NonGenericType(u),
		Case: "A",
		Args: []js.Expr{&js.Const{Value: 7}},
	})

	cc, ok := got.(*js.CopyCtor)
	if !ok {
		t.Fatalf("expected a copy ctor, got %#v", got)
	}
	if cc.Type != u {
		t.Errorf("copy ctor is for %v", cc.Type)
	}
	obj, ok := cc.Object.(*js.Object)
	if !ok || len(obj.Fields) != 2 {
		t.Fatalf("expected a two-field tag object, got %#v", cc.Object)
	}
	if obj.Fields[0].Name != "$" || !reflect.DeepEqual(obj.Fields[0].Value, &js.Const{Value: 0}) {
		t.Errorf("tag field is %#v", obj.Fields[0])
	}
	if obj.Fields[1].Name != "$0" || !reflect.DeepEqual(obj.Fields[1].Value, &js.Const{Value: 7}) {
		t.Errorf("value field is %#v", obj.Fields[1])
	}
}

func TestUnionTagAndGet(t *testing.T) {
	store, _ := newStore(t)
	u, info := unionU()
	store.AddCustomType(u, info)
	tr := New(store, nil)
	x := js.NewId("x")

	tag := tr.TransformExpr(&js.UnionCaseTag{Expr: &js.Var{Id: x}, Type: common.NonGenericType(u)})
	wantTag := &js.ItemGet{Obj: &js.Var{Id: x}, Index: &js.Const{Value: "$"}, Pure: true}
	if !reflect.DeepEqual(tag, wantTag) {
		t.Errorf("tag lowered to %#v", tag)
	}

	get := tr.TransformExpr(&js.UnionCaseGet{Expr: &js.Var{Id: x}, Type: common.NonGenericType(u), Case: "A", Field: "Item"})
	wantGet := &js.ItemGet{Obj: &js.Var{Id: x}, Index: &js.Const{Value: "$0"}, Pure: true}
	if !reflect.DeepEqual(get, wantGet) {
		t.Errorf("field get lowered to %#v", get)
	}

	test := tr.TransformExpr(&js.UnionCaseTest{Expr: &js.Var{Id: x}, Type: common.NonGenericType(u), Case: "C"})
	wantTest := &js.Binary{
		Left:  &js.ItemGet{Obj: &js.Var{Id: x}, Index: &js.Const{Value: "$"}, Pure: true},
		Op:    js.BinaryEqStrict,
		Right: &js.Const{Value: 2},
	}
	if !reflect.DeepEqual(test, wantTest) {
		t.Errorf("case test lowered to %#v", test)
	}
}

func TestErasedUnionTag(t *testing.T) {
	store, _ := newStore(t)
	e := common.TypeDef{Assembly: "Test", FullName: "Test.StringOrError"}
	store.AddCustomType(e, &meta.UnionInfo{IsErased: true, Cases: []meta.UnionCase{
		{Name: "S", Kind: meta.NormalCase, Fields: []meta.UnionField{{Name: "Item", Type: &common.DefType{Def: common.TypeDef{FullName: "System.String"}}}}},
		{Name: "E", Kind: meta.NormalCase, Fields: []meta.UnionField{{Name: "Item", Type: &common.DefType{Def: common.ExceptionDef}}}},
	}})
	tr := New(store, nil)
	x := js.NewId("x")

	tag := tr.TransformExpr(&js.UnionCaseTag{Expr: &js.Var{Id: x}, Type: common.NonGenericType(e)})
	want := &js.Conditional{
		Cond: &js.Binary{
			Left:  &js.Unary{Op: js.UnaryTypeOf, Expr: &js.Var{Id: x}},
			Op:    js.BinaryEq,
			Right: &js.Const{Value: "string"},
		},
		Then: &js.Const{Value: 0},
		Else: &js.Const{Value: 1},
	}
	if !reflect.DeepEqual(tag, want) {
		t.Errorf("erased tag lowered to %#v", tag)
	}
}

func TestOptionTag(t *testing.T) {
	store, _ := newStore(t)
	store.AddCustomType(common.OptionDef, &meta.UnionInfo{IsErased: true, Cases: []meta.UnionCase{
		{Name: "None", Kind: meta.ConstantCase},
		{Name: "Some", Kind: meta.NormalCase, Fields: []meta.UnionField{{Name: "Value"}}},
	}})
	tr := New(store, nil)
	x := js.NewId("x")

	tag := tr.TransformExpr(&js.UnionCaseTag{Expr: &js.Var{Id: x}, Type: common.NonGenericType(common.OptionDef)})
	want := &js.Conditional{
		Cond: &js.Binary{Left: &js.Var{Id: x}, Op: js.BinaryEqStrict, Right: &js.Undefined{}},
		Then: &js.Const{Value: 0},
		Else: &js.Const{Value: 1},
	}
	if !reflect.DeepEqual(tag, want) {
		t.Errorf("option tag lowered to %#v", tag)
	}
}

// -----------------------------------------------------------------------------

func TestTypeCheckException(t *testing.T) {
	store, _ := newStore(t)
	tr := New(store, nil)
	x := js.NewId("x")

	got := tr.TransformExpr(&js.TypeCheck{Expr: &js.Var{Id: x}, Type: &common.DefType{Def: common.ExceptionDef}})
	want := &js.Binary{
		Left:  &js.Var{Id: x},
		Op:    js.BinaryInstanceOf,
		Right: &js.GlobalAccess{Address: js.NewAddress("Error")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exception test lowered to %#v", got)
	}
}

func TestTypeCheckTypeParameterOutsideInline(t *testing.T) {
	store, _ := newStore(t)
	tr := New(store, nil)

	got := tr.TransformExpr(&js.TypeCheck{Expr: &js.Const{Value: 1}, Type: &common.GenericParam{Ordinal: 0}})
	if !js.IsErrorPlaceholder(got) {
		t.Errorf("expected an error placeholder, got %#v", got)
	}
	if !store.HasErrors() {
		t.Error("expected a diagnostic")
	}
}

// -----------------------------------------------------------------------------

func TestBindDelegate(t *testing.T) {
	store, _ := newStore(t)
	addr := js.NewAddress("A")
	store.AddClass(testClass, &meta.ClassInfo{Address: &addr})
	m := common.MethodDef{Name: "M", Params: 1}
	store.AddCompiledMethod(testClass, m, meta.Instance{Name: "m"}, meta.Optimizations{}, nil)
	tr := New(store, nil)
	obj := js.NewId("obj")

	got := tr.TransformExpr(&js.NewDelegate{
		This:   &js.Var{Id: obj},
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
	})

	proto := &js.ItemGet{Obj: &js.GlobalAccess{Address: addr}, Index: &js.Const{Value: "prototype"}, Pure: true}
	want := &js.Application{
		Func: &js.GlobalAccess{Address: js.RuntimeAddress(js.RuntimeBindDelegate)},
		Args: []js.Expr{
			&js.ItemGet{Obj: proto, Index: &js.Const{Value: "m"}, Pure: true},
			&js.Var{Id: obj},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delegate lowered to %#v", got)
	}
}

func TestBaseCallLowering(t *testing.T) {
	store, _ := newStore(t)
	parent := common.TypeDef{Assembly: "Test", FullName: "Test.Parent"}
	addr := js.NewAddress("P")
	store.AddClass(parent, &meta.ClassInfo{Address: &addr})
	m := common.MethodDef{Name: "M", Params: 1}
	store.AddCompiledMethod(parent, m, meta.Instance{Name: "M"}, meta.Optimizations{}, nil)
	tr := New(store, nil)
	a := js.NewId("a")

	got := tr.TransformExpr(&js.Call{
		This:   &js.Base{},
		Type:   common.NonGenericType(parent),
		Method: common.NonGenericMethod(m),
		Args:   []js.Expr{&js.Var{Id: a}},
	})

	proto := &js.ItemGet{Obj: &js.GlobalAccess{Address: addr}, Index: &js.Const{Value: "prototype"}, Pure: true}
	meth := &js.ItemGet{Obj: proto, Index: &js.Const{Value: "M"}, Pure: true}
	want := &js.Application{
		Func: &js.ItemGet{Obj: meth, Index: &js.Const{Value: "call"}, Pure: true},
		Args: []js.Expr{&js.This{}, &js.Var{Id: a}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("base call lowered to %#v", got)
	}
}

// -----------------------------------------------------------------------------

func TestCurriedArgumentShaping(t *testing.T) {
	store, _ := newStore(t)
	m := common.MethodDef{Name: "M", Params: 1}
	store.AddCompiledMethod(testClass, m, meta.Static{Address: js.NewAddress("N", "M")},
		meta.Optimizations{FuncArgs: []common.FuncArgOptimization{common.CurriedFuncArg{Arity: 3}}}, nil)
	tr := New(store, nil)
	e := js.NewId("e")

	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
		Args:   []js.Expr{&js.Var{Id: e}},
	})

	app, ok := got.(*js.Application)
	if !ok || len(app.Args) != 1 {
		t.Fatalf("expected a single-argument call, got %#v", got)
	}
	lam, ok := app.Args[0].(*js.Lambda)
	if !ok || len(lam.Params) != 3 {
		t.Fatalf("expected a 3-ary adapter lambda, got %#v", app.Args[0])
	}

	// the body must be e(x)(y)(z) over the adapter's own parameters
	body := lam.Body
	for i := 2; i >= 0; i-- {
		inner, ok := body.(*js.Application)
		if !ok || len(inner.Args) != 1 {
			t.Fatalf("expected a curried application chain, got %#v", body)
		}
		v, ok := inner.Args[0].(*js.Var)
		if !ok || v.Id != lam.Params[i] {
			t.Fatalf("argument %d is %#v", i, inner.Args[0])
		}
		body = inner.Func
	}
	if v, ok := body.(*js.Var); !ok || v.Id != e {
		t.Errorf("chain head is %#v", body)
	}
}

func TestShapedArgumentMarkerStripped(t *testing.T) {
	store, _ := newStore(t)
	m := common.MethodDef{Name: "M", Params: 1}
	store.AddCompiledMethod(testClass, m, meta.Static{Address: js.NewAddress("N", "M")},
		meta.Optimizations{FuncArgs: []common.FuncArgOptimization{common.CurriedFuncArg{Arity: 3}}}, nil)
	tr := New(store, nil)
	f := js.NewId("f")

	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
		Args: []js.Expr{&js.OptimizedFSharpArg{
			Expr: &js.Var{Id: f},
			Opt:  common.CurriedFuncArg{Arity: 3},
		}},
	})

	want := &js.Application{
		Func: &js.GlobalAccess{Address: js.NewAddress("N", "M")},
		Args: []js.Expr{&js.Var{Id: f}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matching shape must pass the raw value, got %#v", got)
	}
}

// -----------------------------------------------------------------------------

type fallbackMacro struct{}

func (fallbackMacro) TranslateCall(*meta.MacroCall) meta.MacroResult { return meta.MacroFallback{} }
func (fallbackMacro) TranslateCtor(*meta.MacroCall) meta.MacroResult { return meta.MacroFallback{} }

func TestMacroFallbackToInline(t *testing.T) {
	store, _ := newStore(t)
	macroDef := common.TypeDef{Assembly: "Test", FullName: "Test.MyMacro"}
	store.RegisterMacro(macroDef, func() meta.MacroTranslator { return fallbackMacro{} })

	m := common.MethodDef{Name: "M", Params: 1}
	x := js.NewId("x")
	inlineBody := &js.Lambda{Params: []*js.Id{x}, Body: &js.Var{Id: x}}
	store.AddCompiledMethod(testClass, m,
		meta.Macro{Macro: macroDef, Fallback: meta.Inline{}}, meta.Optimizations{}, inlineBody)

	tr := New(store, nil)
	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
		Args:   []js.Expr{&js.Const{Value: 5}},
	})
	if !reflect.DeepEqual(got, &js.Const{Value: 5}) {
		t.Errorf("fallback inline lowered to %#v", got)
	}
}

func TestMacroFallbackMissing(t *testing.T) {
	store, _ := newStore(t)
	macroDef := common.TypeDef{Assembly: "Test", FullName: "Test.MyMacro"}
	store.RegisterMacro(macroDef, func() meta.MacroTranslator { return fallbackMacro{} })

	m := common.MethodDef{Name: "M", Params: 1}
	store.AddCompiledMethod(testClass, m, meta.Macro{Macro: macroDef}, meta.Optimizations{}, nil)

	tr := New(store, nil)
	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
	})
	if !js.IsErrorPlaceholder(got) {
		t.Errorf("expected an error placeholder, got %#v", got)
	}
	if !hasErrorContaining(store, "no fallback compilation") {
		t.Error("expected a fallback error diagnostic")
	}
}

type panickyMacro struct{}

func (panickyMacro) TranslateCall(*meta.MacroCall) meta.MacroResult { panic("boom") }
func (panickyMacro) TranslateCtor(*meta.MacroCall) meta.MacroResult { panic("boom") }

func TestMacroPanicBecomesError(t *testing.T) {
	store, _ := newStore(t)
	macroDef := common.TypeDef{Assembly: "Test", FullName: "Test.Panicky"}
	store.RegisterMacro(macroDef, func() meta.MacroTranslator { return panickyMacro{} })

	m := common.MethodDef{Name: "M"}
	store.AddCompiledMethod(testClass, m, meta.Macro{Macro: macroDef}, meta.Optimizations{}, nil)

	tr := New(store, nil)
	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
	})
	if !js.IsErrorPlaceholder(got) {
		t.Errorf("expected an error placeholder, got %#v", got)
	}
	if !hasErrorContaining(store, "boom") {
		t.Error("expected the panic message in the diagnostics")
	}
}

// -----------------------------------------------------------------------------

func TestRecordOptionalFieldElision(t *testing.T) {
	store, _ := newStore(t)
	r := common.TypeDef{Assembly: "Test", FullName: "Test.R"}
	store.AddCustomType(r, &meta.RecordInfo{Fields: []meta.RecordField{
		{Name: "A", JSName: "A"},
		{Name: "B", JSName: "B", Optional: true},
	}})
	tr := New(store, nil)

	got := tr.TransformExpr(&js.NewRecord{
		Type: common.NonGenericType(r),
		Args: []js.Expr{&js.Const{Value: 1}, &js.Undefined{}},
	})

	app, ok := got.(*js.Application)
	if !ok || !js.IsRuntimeFunc(app.Func, js.RuntimeDeleteEmptyFields) {
		t.Fatalf("expected a DeleteEmptyFields call, got %#v", got)
	}
	if len(app.Args) != 2 {
		t.Fatalf("expected two arguments, got %d", len(app.Args))
	}
	names, ok := app.Args[1].(*js.NewArray)
	if !ok || len(names.Elems) != 1 || !reflect.DeepEqual(names.Elems[0], &js.Const{Value: "B"}) {
		t.Errorf("optional name list is %#v", app.Args[1])
	}
	obj, ok := app.Args[0].(*js.Object)
	if !ok || len(obj.Fields) != 2 || obj.Fields[0].Name != "A" || obj.Fields[1].Name != "B" {
		t.Errorf("record object is %#v", app.Args[0])
	}
}

// -----------------------------------------------------------------------------

func TestDynamicCalls(t *testing.T) {
	store, _ := newStore(t)
	tr := New(store, nil)
	d := js.NewId("d")

	got := tr.TransformExpr(&js.Call{
		This:   &js.Var{Id: d},
		Type:   common.NonGenericType(common.Dynamic),
		Method: common.NonGenericMethod(common.MethodDef{Name: "Foo", Params: 1}),
		Args:   []js.Expr{&js.Const{Value: 1}},
	})
	want := &js.Application{
		Func: &js.ItemGet{Obj: &js.Var{Id: d}, Index: &js.Const{Value: "Foo"}},
		Args: []js.Expr{&js.Const{Value: 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dynamic call lowered to %#v", got)
	}

	add := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(common.Dynamic),
		Method: common.NonGenericMethod(common.MethodDef{Name: "op_Addition", Params: 2}),
		Args:   []js.Expr{&js.Const{Value: 1}, &js.Const{Value: 2}},
	})
	wantAdd := &js.Binary{Left: &js.Const{Value: 1}, Op: js.BinaryAdd, Right: &js.Const{Value: 2}}
	if !reflect.DeepEqual(add, wantAdd) {
		t.Errorf("dynamic operator lowered to %#v", add)
	}

	static := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(common.Dynamic),
		Method: common.NonGenericMethod(common.MethodDef{Name: "Foo"}),
	})
	if !js.IsErrorPlaceholder(static) {
		t.Errorf("static dynamic call must fail, got %#v", static)
	}
}

func TestIdempotentTranslationOfPlainNodes(t *testing.T) {
	store, _ := newStore(t)
	tr := New(store, nil)
	x := js.NewId("x")

	body := js.Expr(&js.Conditional{
		Cond: &js.Var{Id: x},
		Then: &js.Object{Fields: []js.ObjectField{{Name: "a", Value: &js.Const{Value: 1}}}},
		Else: &js.NewArray{Elems: []js.Expr{&js.GlobalAccess{Address: js.NewAddress("N", "V")}, &js.Const{Value: nil}}},
	})
	got := tr.TransformExpr(body)
	if !reflect.DeepEqual(got, body) {
		t.Errorf("already-JS body changed: %#v", got)
	}
}

// -----------------------------------------------------------------------------

func TestTraitCallResolution(t *testing.T) {
	store, _ := newStore(t)
	m := common.MethodDef{Name: "Render", Params: 0}
	store.AddCompiledMethod(testClass, m, meta.Instance{Name: "render"}, meta.Optimizations{}, nil)
	tr := New(store, nil)
	x := js.NewId("x")

	got := tr.TransformExpr(&js.TraitCall{
		This:   &js.Var{Id: x},
		Types:  []common.Type{&common.DefType{Def: testClass}},
		Method: common.NonGenericMethod(common.MethodDef{Name: "Render", Params: 0}),
	})
	want := &js.Application{
		Func: &js.ItemGet{Obj: &js.Var{Id: x}, Index: &js.Const{Value: "render"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trait call lowered to %#v", got)
	}
}

func TestTraitCallUnresolvedOutsideInline(t *testing.T) {
	store, _ := newStore(t)
	tr := New(store, nil)

	got := tr.TransformExpr(&js.TraitCall{
		Types:  []common.Type{&common.DefType{Def: testClass}},
		Method: common.NonGenericMethod(common.MethodDef{Name: "Missing"}),
	})
	if !js.IsErrorPlaceholder(got) {
		t.Errorf("expected an error placeholder, got %#v", got)
	}
}

// -----------------------------------------------------------------------------

func TestDelayedTypeCheckDemotesInline(t *testing.T) {
	store, _ := newStore(t)
	m := common.MethodDef{Name: "Is", Params: 1, Generics: 1}
	x := js.NewId("x")
	store.AddCompilingMethod(&meta.CompilingMethod{
		Type: testClass, Method: m, Info: meta.Inline{},
		Body: &js.Lambda{Params: []*js.Id{x}, Body: &js.TypeCheck{Expr: &js.Var{Id: x}, Type: &common.GenericParam{Ordinal: 0}}},
	})
	CompileAll(store, nil)

	res, ok := store.LookupMethodInfo(testClass, m).(meta.Compiled)
	if !ok {
		t.Fatalf("inline was not compiled, got %T", store.LookupMethodInfo(testClass, m))
	}
	if _, ok := res.Info.(meta.NotCompiledInline); !ok {
		t.Fatalf("expected demotion to NotCompiledInline, got %T", res.Info)
	}

	// a call site with a resolved generic argument completes the test
	tr := New(store, nil)
	y := js.NewId("y")
	got := tr.TransformExpr(&js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.ConcreteMethod{Entity: m, Generics: []common.Type{&common.DefType{Def: common.ExceptionDef}}},
		Args:   []js.Expr{&js.Var{Id: y}},
	})
	want := &js.Binary{
		Left:  &js.Var{Id: y},
		Op:    js.BinaryInstanceOf,
		Right: &js.GlobalAccess{Address: js.NewAddress("Error")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolved type test lowered to %#v", got)
	}
}

// -----------------------------------------------------------------------------

func TestFieldGetLowering(t *testing.T) {
	store, _ := newStore(t)
	store.AddClass(testClass, nil)
	store.AddField(testClass, "Name", meta.InstanceField{Name: "name", ReadOnly: true})
	tr := New(store, nil)
	x := js.NewId("x")

	got := tr.TransformExpr(&js.FieldGet{This: &js.Var{Id: x}, Type: common.NonGenericType(testClass), Field: "Name"})
	want := &js.ItemGet{Obj: &js.Var{Id: x}, Index: &js.Const{Value: "name"}, Pure: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("field get lowered to %#v", got)
	}
}

func TestStaticFieldTriggersCctor(t *testing.T) {
	store, _ := newStore(t)
	store.AddClass(testClass, nil)
	store.AddField(testClass, "V", meta.StaticField{Address: js.NewAddress("T", "V")})
	store.AddCompilingStaticConstructor(&meta.CompilingStaticCtor{
		Type:    testClass,
		Address: js.NewAddress("T", "$cctor"),
		Body:    &js.Block{},
	})
	tr := New(store, nil)

	got := tr.TransformExpr(&js.FieldGet{Type: common.NonGenericType(testClass), Field: "V"})
	want := &js.Sequential{Exprs: []js.Expr{
		&js.Application{Func: &js.GlobalAccess{Address: js.NewAddress("T", "$cctor")}},
		&js.GlobalAccess{Address: js.NewAddress("T", "V")},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("static field get lowered to %#v", got)
	}
}

// -----------------------------------------------------------------------------

func TestRemoteCall(t *testing.T) {
	store, g := newStore(t)
	m := common.MethodDef{Name: "GetData"}
	store.AddClass(testClass, nil)
	store.AddCompiledMethod(testClass, m, meta.Remote{Kind: meta.RemoteAsync, Handle: "Test.T.GetData"}, meta.Optimizations{}, nil)
	data := common.TypeDef{Assembly: "Test", FullName: "Test.Data"}
	store.SetReturnType(testClass, m, &common.DefType{Def: data})

	cm := caller(&js.Lambda{Body: &js.Call{
		Type:   common.NonGenericType(testClass),
		Method: common.NonGenericMethod(m),
	}})
	store.AddCompilingMethod(cm)
	CompileAll(store, nil)

	got := returnedExpr(t, compiledCallerBody(t, store))
	app, ok := got.(*js.Application)
	if !ok {
		t.Fatalf("expected a provider call, got %#v", got)
	}
	ig, ok := app.Func.(*js.ItemGet)
	if !ok || !reflect.DeepEqual(ig.Index, &js.Const{Value: "Async"}) {
		t.Fatalf("expected dispatch through Async, got %#v", app.Func)
	}
	if !reflect.DeepEqual(app.Args[0], &js.Const{Value: "Test.T.GetData"}) {
		t.Errorf("handle argument is %#v", app.Args[0])
	}

	from := depm.MethodNode{Type: callerType, Method: callerDef}
	if !g.HasEdge(from, depm.TypeNode{Type: data}) {
		t.Error("expected a return-type edge for the remote call")
	}
	if !g.HasEdge(from, depm.AbstractMethodNode{Type: common.RemotingProviderDef, Method: common.MethodDef{Name: "Async", Params: 2}}) {
		t.Error("expected an abstract provider-method edge")
	}
}

// -----------------------------------------------------------------------------

func TestCoalesceLowering(t *testing.T) {
	store, _ := newStore(t)
	m := common.MethodDef{Name: "M"}
	store.AddCompilingMethod(&meta.CompilingMethod{
		Type: testClass, Method: m,
		Info: meta.Static{Address: js.NewAddress("T", "M")},
		Body: &js.Lambda{Body: &js.Coalesce{
			Left:  &js.GlobalAccess{Address: js.NewAddress("N", "V")},
			Right: &js.Const{Value: 0},
		}},
	})
	CompileAll(store, nil)

	res, _ := store.LookupMethodInfo(testClass, m).(meta.Compiled)
	errs := 0
	js.VisitExpr(res.Body, func(x js.Expr) {
		if _, ok := x.(*js.Coalesce); ok {
			errs++
		}
	})
	if errs != 0 {
		t.Errorf("coalesce survived translation: %#v", res.Body)
	}
}
