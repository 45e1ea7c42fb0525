package trans

import (
	"strconv"
	"strings"

	"sharpjs/common"
	"sharpjs/js"
	"sharpjs/meta"
)

// compileCustomTypeMethod lowers a compiler-synthesized member of a record,
// union, union case or delegate.
func (tr *Translator) compileCustomTypeMethod(ct meta.CustomTypeInfo, typ common.ConcreteType, method common.ConcreteMethod, thisObj js.Expr, args []js.Expr) js.Expr {
	tr.addTypeEdge(typ.Entity)
	name := method.Entity.Name

	switch info := ct.(type) {
	case *meta.DelegateInfo:
		return tr.compileDelegateMethod(info, typ, name, thisObj, args)

	case *meta.RecordInfo:
		switch {
		case strings.HasPrefix(name, "get_"):
			return tr.TransformFieldGet(&js.FieldGet{This: thisObj, Type: typ, Field: strings.TrimPrefix(name, "get_")})
		case strings.HasPrefix(name, "set_") && len(args) == 1:
			return tr.TransformFieldSet(&js.FieldSet{This: thisObj, Type: typ, Field: strings.TrimPrefix(name, "set_"), Value: args[0]})
		case name == "ToString":
			return &js.Const{Value: typ.Entity.FullName}
		default:
			return tr.sourceErrorf("unsupported record member: %s", memberName(typ.Entity, name))
		}

	case *meta.UnionInfo:
		return tr.compileUnionMethod(info, typ, name, thisObj, args)

	case *meta.UnionCaseInfo:
		if strings.HasPrefix(name, "get_") {
			return tr.TransformUnionCaseGet(&js.UnionCaseGet{
				Expr:  thisObj,
				Type:  common.NonGenericType(info.Union),
				Case:  info.Case,
				Field: strings.TrimPrefix(name, "get_"),
			})
		}
		return tr.sourceErrorf("unsupported union case member: %s", memberName(typ.Entity, name))

	default:
		return tr.sourceErrorf("custom type member lookup on a type with no custom shape: %s", typ.Entity.FullName)
	}
}

func (tr *Translator) compileDelegateMethod(info *meta.DelegateInfo, typ common.ConcreteType, name string, thisObj js.Expr, args []js.Expr) js.Expr {
	switch name {
	case "Invoke":
		return &js.Application{Func: tr.TransformExpr(thisObj), Args: tr.transformAll(args)}
	case "op_Addition", "Combine":
		if len(args) == 2 {
			return js.RuntimeCall(js.RuntimeCombineDelegates, &js.NewArray{Elems: tr.transformAll(args)})
		}
	case "op_Equality":
		if len(args) == 2 {
			targs := tr.transformAll(args)
			return js.RuntimeCall(js.RuntimeDelegateEqual, targs[0], targs[1])
		}
	case "op_Inequality":
		if len(args) == 2 {
			targs := tr.transformAll(args)
			return &js.Unary{Op: js.UnaryNot, Expr: js.RuntimeCall(js.RuntimeDelegateEqual, targs[0], targs[1])}
		}
	case "ToString":
		return &js.Const{Value: typ.Entity.FullName}
	}
	return tr.sourceErrorf("unsupported delegate method: %s", memberName(typ.Entity, name))
}

func (tr *Translator) compileUnionMethod(u *meta.UnionInfo, typ common.ConcreteType, name string, thisObj js.Expr, args []js.Expr) js.Expr {
	switch {
	case name == "get_Tag":
		return tr.unionCaseTag(tr.TransformExpr(thisObj), typ, u)

	case strings.HasPrefix(name, "get_Is"):
		return tr.unionCaseTest(tr.TransformExpr(thisObj), typ, u, strings.TrimPrefix(name, "get_Is"))

	case strings.HasPrefix(name, "New"):
		return tr.newUnionCase(typ, u, strings.TrimPrefix(name, "New"), args)

	case name == "ToString":
		return &js.Const{Value: typ.Entity.FullName}

	case strings.HasPrefix(name, "get_"):
		caseName := strings.TrimPrefix(name, "get_")
		idx := u.CaseIndex(caseName)
		if idx < 0 {
			return tr.sourceErrorf("union case not found: %s", memberName(typ.Entity, caseName))
		}
		switch u.Cases[idx].Kind {
		case meta.SingletonCase:
			return tr.singletonCase(typ, u, idx)
		case meta.ConstantCase:
			return &js.Const{Value: u.Cases[idx].Constant}
		default:
			return tr.sourceErrorf("union case %s is not a singleton", memberName(typ.Entity, caseName))
		}

	default:
		return tr.sourceErrorf("unsupported union member: %s", memberName(typ.Entity, name))
	}
}

// -----------------------------------------------------------------------------
// Union case construction.

// TransformNewUnionCase lowers construction of a union case.
func (tr *Translator) TransformNewUnionCase(nc *js.NewUnionCase) js.Expr {
	u, ok := tr.store.GetCustomType(nc.Type.Entity).(*meta.UnionInfo)
	if !ok {
		return tr.sourceErrorf("union construction on a type with no union shape: %s", nc.Type.Entity.FullName)
	}
	return tr.newUnionCase(nc.Type, u, nc.Case, nc.Args)
}

func (tr *Translator) newUnionCase(typ common.ConcreteType, u *meta.UnionInfo, caseName string, args []js.Expr) js.Expr {
	idx := u.CaseIndex(caseName)
	if idx < 0 {
		return tr.sourceErrorf("union case not found: %s", memberName(typ.Entity, caseName))
	}
	c := &u.Cases[idx]

	if u.IsErased {
		// the runtime representation is the bare case value
		if len(args) > 0 {
			return tr.TransformExpr(args[0])
		}
		return &js.Undefined{}
	}

	if u.IsFlattened() {
		if c.Kind == meta.ConstantCase {
			return &js.Const{Value: c.Constant}
		}
		if len(c.Fields) == 1 && len(args) > 0 {
			return tr.TransformExpr(args[0])
		}
	}

	switch c.Kind {
	case meta.SingletonCase:
		return tr.singletonCase(typ, u, idx)
	case meta.ConstantCase:
		return &js.Const{Value: c.Constant}
	default:
		fields := make([]js.ObjectField, 0, len(c.Fields)+1)
		fields = append(fields, js.ObjectField{Name: "$", Value: &js.Const{Value: idx}})
		for i := range c.Fields {
			var value js.Expr = &js.Undefined{}
			if i < len(args) {
				value = tr.TransformExpr(args[i])
			}
			fields = append(fields, js.ObjectField{Name: "$" + strconv.Itoa(i), Value: value})
		}

		caseClass := typ.Entity
		if c.ClassDef != nil {
			caseClass = *c.ClassDef
		}
		return tr.TransformCopyCtor(caseClass, &js.Object{Fields: fields})
	}
}

// singletonCase materializes the shared instance stored on the union address.
func (tr *Translator) singletonCase(typ common.ConcreteType, u *meta.UnionInfo, idx int) js.Expr {
	if ci, ok := tr.store.TryLookupClassInfo(typ.Entity); ok && ci.Address != nil {
		return &js.ItemGet{
			Obj:   &js.GlobalAccess{Address: *ci.Address},
			Index: &js.Const{Value: u.Cases[idx].Name},
			Pure:  true,
		}
	}
	// no address to hang the shared instance on; fall back to a tag object
	return tr.TransformCopyCtor(typ.Entity, &js.Object{Fields: []js.ObjectField{
		{Name: "$", Value: &js.Const{Value: idx}},
	}})
}

// -----------------------------------------------------------------------------
// Union case tests, tags and field access.

// TransformUnionCaseTest lowers a case test.
func (tr *Translator) TransformUnionCaseTest(t *js.UnionCaseTest) js.Expr {
	u, ok := tr.store.GetCustomType(t.Type.Entity).(*meta.UnionInfo)
	if !ok {
		return tr.sourceErrorf("union case test on a type with no union shape: %s", t.Type.Entity.FullName)
	}
	return tr.unionCaseTest(tr.TransformExpr(t.Expr), t.Type, u, t.Case)
}

func (tr *Translator) unionCaseTest(e js.Expr, typ common.ConcreteType, u *meta.UnionInfo, caseName string) js.Expr {
	idx := u.CaseIndex(caseName)
	if idx < 0 {
		return tr.sourceErrorf("union case not found: %s", memberName(typ.Entity, caseName))
	}
	c := &u.Cases[idx]

	if u.IsErased {
		return tr.erasedCaseTest(e, typ, c)
	}

	if u.IsFlattened() {
		null := u.NullCase()
		if null < 0 {
			return &js.Const{Value: true}
		}
		op := js.BinaryNEqStrict
		if idx == null {
			op = js.BinaryEqStrict
		}
		return &js.Binary{Left: e, Op: op, Right: &js.Const{Value: nil}}
	}

	if c.Kind == meta.ConstantCase && c.Constant == nil {
		return &js.Binary{Left: e, Op: js.BinaryEqStrict, Right: &js.Const{Value: nil}}
	}

	return &js.Binary{
		Left:  &js.ItemGet{Obj: e, Index: &js.Const{Value: "$"}, Pure: true},
		Op:    js.BinaryEqStrict,
		Right: &js.Const{Value: idx},
	}
}

// erasedCaseTest reconstructs membership of an erased case from the runtime
// shape of the value.
func (tr *Translator) erasedCaseTest(e js.Expr, typ common.ConcreteType, c *meta.UnionCase) js.Expr {
	if typ.Entity == common.OptionDef {
		op := js.BinaryNEqStrict
		if len(c.Fields) == 0 {
			op = js.BinaryEqStrict
		}
		return &js.Binary{Left: e, Op: op, Right: &js.Undefined{}}
	}
	if c.Kind == meta.ConstantCase {
		return &js.Binary{Left: e, Op: js.BinaryEqStrict, Right: &js.Const{Value: c.Constant}}
	}
	if len(c.Fields) == 1 {
		return tr.TransformTypeCheck(e, c.Fields[0].Type)
	}
	return tr.sourceErrorf("erased union case %s has no testable shape", memberName(typ.Entity, c.Name))
}

// TransformUnionCaseTag lowers a tag read.
func (tr *Translator) TransformUnionCaseTag(t *js.UnionCaseTag) js.Expr {
	u, ok := tr.store.GetCustomType(t.Type.Entity).(*meta.UnionInfo)
	if !ok {
		return tr.sourceErrorf("union tag read on a type with no union shape: %s", t.Type.Entity.FullName)
	}
	return tr.unionCaseTag(tr.TransformExpr(t.Expr), t.Type, u)
}

func (tr *Translator) unionCaseTag(e js.Expr, typ common.ConcreteType, u *meta.UnionInfo) js.Expr {
	if u.IsErased {
		if typ.Entity == common.OptionDef {
			return &js.Conditional{
				Cond: &js.Binary{Left: e, Op: js.BinaryEqStrict, Right: &js.Undefined{}},
				Then: &js.Const{Value: 0},
				Else: &js.Const{Value: 1},
			}
		}
		// test cases in declaration order; the last is the default
		out := js.Expr(&js.Const{Value: len(u.Cases) - 1})
		for i := len(u.Cases) - 2; i >= 0; i-- {
			out = &js.Conditional{
				Cond: tr.erasedCaseTest(e, typ, &u.Cases[i]),
				Then: &js.Const{Value: i},
				Else: out,
			}
		}
		return out
	}

	if u.IsFlattened() {
		null := u.NullCase()
		if null < 0 {
			return &js.Const{Value: 0}
		}
		return &js.Conditional{
			Cond: &js.Binary{Left: e, Op: js.BinaryEqStrict, Right: &js.Const{Value: nil}},
			Then: &js.Const{Value: null},
			Else: &js.Const{Value: u.FlatCase()},
		}
	}

	return &js.ItemGet{Obj: e, Index: &js.Const{Value: "$"}, Pure: true}
}

// TransformUnionCaseGet lowers a case field read.
func (tr *Translator) TransformUnionCaseGet(g *js.UnionCaseGet) js.Expr {
	u, ok := tr.store.GetCustomType(g.Type.Entity).(*meta.UnionInfo)
	if !ok {
		return tr.sourceErrorf("union field read on a type with no union shape: %s", g.Type.Entity.FullName)
	}

	idx := u.CaseIndex(g.Case)
	if idx < 0 {
		return tr.sourceErrorf("union case not found: %s", memberName(g.Type.Entity, g.Case))
	}
	c := &u.Cases[idx]

	e := tr.TransformExpr(g.Expr)

	if u.IsErased {
		return e
	}
	if u.IsFlattened() && len(c.Fields) == 1 {
		return e
	}

	j := c.FieldIndex(g.Field)
	if j < 0 {
		j = itemFieldIndex(g.Field)
	}
	if j < 0 || j >= len(c.Fields) {
		return tr.sourceErrorf("union case field not found: %s.%s", memberName(g.Type.Entity, g.Case), g.Field)
	}

	return &js.ItemGet{Obj: e, Index: &js.Const{Value: "$" + strconv.Itoa(j)}, Pure: true}
}

// itemFieldIndex resolves the compiler-generated Item/Item2/… field names.
func itemFieldIndex(field string) int {
	if field == "Item" {
		return 0
	}
	if n, ok := strings.CutPrefix(field, "Item"); ok {
		if i, err := strconv.Atoi(n); err == nil && i >= 1 {
			return i - 1
		}
	}
	return -1
}

// -----------------------------------------------------------------------------
// Records.

// TransformNewRecord lowers record construction.  Optional fields keep an
// incoming undefined and unwrap a present value from its $0 slot; empty
// optional slots are removed after construction.
func (tr *Translator) TransformNewRecord(nr *js.NewRecord) js.Expr {
	r, ok := tr.store.GetCustomType(nr.Type.Entity).(*meta.RecordInfo)
	if !ok {
		return tr.sourceErrorf("record construction on a type with no record shape: %s", nr.Type.Entity.FullName)
	}

	fields := make([]js.ObjectField, 0, len(r.Fields))
	var optional []js.Expr
	for i, f := range r.Fields {
		var value js.Expr = &js.Undefined{}
		if i < len(nr.Args) {
			value = tr.TransformExpr(nr.Args[i])
		}
		if f.Optional {
			id := js.NewId("o")
			value = &js.Let{
				Id:    id,
				Value: value,
				Body: &js.Conditional{
					Cond: &js.Binary{Left: &js.Var{Id: id}, Op: js.BinaryEqStrict, Right: &js.Undefined{}},
					Then: &js.Undefined{},
					Else: &js.ItemGet{Obj: &js.Var{Id: id}, Index: &js.Const{Value: "$0"}, Pure: true},
				},
			}
			optional = append(optional, &js.Const{Value: f.JSName})
		}
		fields = append(fields, js.ObjectField{Name: f.JSName, Value: value})
	}

	obj := tr.TransformCopyCtor(nr.Type.Entity, &js.Object{Fields: fields})
	if len(optional) > 0 {
		return js.RuntimeCall(js.RuntimeDeleteEmptyFields, obj, &js.NewArray{Elems: optional})
	}
	return obj
}
