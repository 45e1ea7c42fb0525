package js

import (
	"reflect"
	"testing"
)

func TestMapExprChildrenRebuilds(t *testing.T) {
	x := NewId("x")
	e := &Conditional{
		Cond: &Var{Id: x},
		Then: &Const{Value: 1},
		Else: &Const{Value: 2},
	}

	got := MapExprChildren(e, func(c Expr) Expr { return c }, func(s Statement) Statement { return s })
	if !reflect.DeepEqual(got, e) {
		t.Errorf("identity map changed the node: %#v", got)
	}
}

func TestCountAndReplaceVar(t *testing.T) {
	x := NewId("x")
	y := NewId("y")
	e := &Binary{
		Left:  &Var{Id: x},
		Op:    BinaryAdd,
		Right: &Binary{Left: &Var{Id: x}, Op: BinaryMul, Right: &Var{Id: y}},
	}

	if n := CountVarUses(e, x); n != 2 {
		t.Errorf("expected 2 uses, got %d", n)
	}

	got := ReplaceVar(e, x, &Const{Value: 7})
	if n := CountVarUses(got, x); n != 0 {
		t.Errorf("replacement left %d uses", n)
	}
	if n := CountVarUses(got, y); n != 1 {
		t.Errorf("replacement touched other variables, %d uses of y", n)
	}
}

func TestRemoveSourcePositions(t *testing.T) {
	e := &ExprSourcePos{Expr: &Binary{
		Left:  &ExprSourcePos{Expr: &Const{Value: 1}},
		Op:    BinaryAdd,
		Right: &Const{Value: 2},
	}}

	got := RemoveSourcePositions(e)
	want := &Binary{Left: &Const{Value: 1}, Op: BinaryAdd, Right: &Const{Value: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positions not removed: %#v", got)
	}
}

func TestIsPure(t *testing.T) {
	x := NewId("x")
	m := NewMutableId("m")

	cases := []struct {
		e    Expr
		pure bool
	}{
		{&Const{Value: 1}, true},
		{&Var{Id: x}, true},
		{&Var{Id: m}, false},
		{&Lambda{Body: &Application{Func: &Var{Id: x}}}, true},
		{&Application{Func: &Var{Id: x}}, false},
		{&ItemGet{Obj: &Var{Id: x}, Index: &Const{Value: "a"}, Pure: true}, true},
		{&ItemGet{Obj: &Var{Id: x}, Index: &Const{Value: "a"}}, false},
	}
	for i, c := range cases {
		if IsPure(c.e) != c.pure {
			t.Errorf("case %d: IsPure = %v", i, !c.pure)
		}
	}
}

func TestAddressRoundTrip(t *testing.T) {
	a := NewAddress("N", "M")
	if a.String() != "N.M" {
		t.Errorf("address renders as %q", a.String())
	}
	if got := a.Segments; !reflect.DeepEqual(got, []string{"M", "N"}) {
		t.Errorf("segments stored as %v", got)
	}
	if !a.Equal(NewAddress("N", "M")) || a.Equal(NewAddress("N")) {
		t.Error("address equality is broken")
	}
	if sub := a.Sub("x"); sub.String() != "N.M.x" {
		t.Errorf("sub-address renders as %q", sub.String())
	}
}
