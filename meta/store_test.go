package meta

import (
	"testing"

	"sharpjs/common"
	"sharpjs/js"
	"sharpjs/report"
)

var (
	tT = common.TypeDef{Assembly: "Test", FullName: "Test.T"}
	mM = common.MethodDef{Name: "M", Params: 1}
)

func TestMemberLifecycle(t *testing.T) {
	s := NewStore(nil)
	body := js.Expr(&js.Const{Value: 1})
	s.AddCompilingMethod(&CompilingMethod{Type: tT, Method: mM, Info: Static{Address: js.NewAddress("T", "M")}, Body: body})

	if _, ok := s.LookupMethodInfo(tT, mM).(Compiling); !ok {
		t.Fatalf("queued member must look up as compiling, got %T", s.LookupMethodInfo(tT, mM))
	}
	if len(s.CompilingMethods()) != 1 {
		t.Fatal("expected one queued method")
	}

	s.AddCompiledMethod(tT, mM, Static{Address: js.NewAddress("T", "M")}, Optimizations{}, body)

	if len(s.CompilingMethods()) != 0 {
		t.Error("compilation must drain the queue")
	}
	res, ok := s.LookupMethodInfo(tT, mM).(Compiled)
	if !ok {
		t.Fatalf("expected a compiled result, got %T", s.LookupMethodInfo(tT, mM))
	}
	if _, ok := res.Info.(Static); !ok {
		t.Errorf("compiled info is %T", res.Info)
	}
}

func TestLookupErrors(t *testing.T) {
	s := NewStore(nil)

	res, ok := s.LookupMethodInfo(tT, mM).(LookupMemberError)
	if !ok {
		t.Fatalf("expected a lookup error, got %T", s.LookupMethodInfo(tT, mM))
	}
	if _, ok := res.Err.(report.TypeNotFound); !ok {
		t.Errorf("unknown type must report TypeNotFound, got %T", res.Err)
	}

	s.AddClass(tT, nil)
	res = s.LookupMethodInfo(tT, mM).(LookupMemberError)
	if _, ok := res.Err.(report.MemberNotFound); !ok {
		t.Errorf("known type must report MemberNotFound, got %T", res.Err)
	}
}

func TestProxyRedirection(t *testing.T) {
	s := NewStore(nil)
	target := common.TypeDef{Assembly: "netstandard", FullName: "System.DateTime"}
	proxy := common.TypeDef{Assembly: "Test", FullName: "Test.DateTimeProxy"}

	addr := js.NewAddress("DateTimeProxy")
	s.AddClass(proxy, &ClassInfo{Address: &addr})
	s.AddProxy(target, proxy)
	s.AddCompiledMethod(proxy, mM, Instance{Name: "m"}, Optimizations{}, nil)

	if _, ok := s.LookupMethodInfo(target, mM).(Compiled); !ok {
		t.Error("lookup must follow the proxy")
	}
	ci, ok := s.TryLookupClassInfo(target)
	if !ok || ci.Address == nil {
		t.Error("class info must follow the proxy")
	}
	if p, ok := s.FindProxied(target); !ok || p != proxy {
		t.Error("FindProxied must report the registered proxy")
	}
}

func TestCustomTypeMemberLookup(t *testing.T) {
	s := NewStore(nil)
	u := common.TypeDef{Assembly: "Test", FullName: "Test.U"}
	s.AddCustomType(u, &UnionInfo{Cases: []UnionCase{{Name: "A", Kind: SingletonCase}}})

	res, ok := s.LookupMethodInfo(u, common.MethodDef{Name: "get_A"}).(CustomTypeMember)
	if !ok {
		t.Fatalf("expected a custom type member, got %T", s.LookupMethodInfo(u, common.MethodDef{Name: "get_A"}))
	}
	if _, ok := res.Info.(*UnionInfo); !ok {
		t.Errorf("custom type info is %T", res.Info)
	}
}

func TestRecordConstructorSynthesis(t *testing.T) {
	s := NewStore(nil)
	r := common.TypeDef{Assembly: "Test", FullName: "Test.R"}
	s.AddCustomType(r, &RecordInfo{Fields: []RecordField{{Name: "A"}, {Name: "B"}}})

	ctor, ok := s.TryGetRecordConstructor(r)
	if !ok || ctor.Params != 2 {
		t.Errorf("record ctor is %v, %v", ctor, ok)
	}
	if _, ok := s.LookupConstructorInfo(r, ctor).(CustomTypeMember); !ok {
		t.Error("record construction must resolve as a custom type member")
	}
}

// -----------------------------------------------------------------------------

type enqueueOnClose struct{}

func (enqueueOnClose) TranslateCall(*MacroCall) MacroResult { return MacroFallback{} }
func (enqueueOnClose) TranslateCtor(*MacroCall) MacroResult { return MacroFallback{} }

func (m enqueueOnClose) CloseMacro(c *Store) {
	c.AddCompilingMethod(&CompilingMethod{
		Type:   tT,
		Method: common.MethodDef{Name: "Late"},
		Info:   Static{Address: js.NewAddress("T", "Late")},
		Body:   &js.Lambda{Body: &js.Const{Value: 0}},
	})
}

func TestCloseMacrosEnqueuesOnce(t *testing.T) {
	s := NewStore(nil)
	macroDef := common.TypeDef{Assembly: "Test", FullName: "Test.Closer"}
	s.RegisterMacro(macroDef, func() MacroTranslator { return enqueueOnClose{} })

	if _, err := s.GetMacroInstance(macroDef); err != nil {
		t.Fatalf("instantiation failed: %v", err)
	}

	s.CloseMacros()
	if len(s.CompilingMethods()) != 1 {
		t.Fatal("closing must let macros enqueue members")
	}

	s.CloseMacros()
	if len(s.CompilingMethods()) != 1 {
		t.Error("macros close once")
	}
}

func TestGetMacroInstanceUnknown(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.GetMacroInstance(common.TypeDef{FullName: "Nope"}); err == nil {
		t.Error("unknown macro must fail")
	}
}

func TestFailedMember(t *testing.T) {
	s := NewStore(nil)
	s.AddCompilingMethod(&CompilingMethod{Type: tT, Method: mM, Info: Inline{}})
	s.FailedCompiledMethod(tT, mM)

	if len(s.CompilingMethods()) != 0 {
		t.Error("failure must drain the queue entry")
	}
	if s.FailedCount() != 1 {
		t.Errorf("failed count is %d", s.FailedCount())
	}
}
