package trans

import (
	"sharpjs/common"
	"sharpjs/js"
	"sharpjs/meta"
)

// typeofNames maps well-known definitions to their JavaScript typeof string.
var typeofNames = map[string]string{
	"System.Void":    "undefined",
	"System.Boolean": "boolean",
	"System.String":  "string",
	"System.Char":    "string",
	"System.SByte":   "number",
	"System.Byte":    "number",
	"System.Int16":   "number",
	"System.UInt16":  "number",
	"System.Int32":   "number",
	"System.UInt32":  "number",
	"System.Int64":   "number",
	"System.UInt64":  "number",
	"System.Single":  "number",
	"System.Double":  "number",
	"System.Decimal": "number",
	"System.Object":  "object",
}

// instanceofNames maps well-known definitions to the global they are
// instances of.
var instanceofNames = map[string]string{
	"System.Exception": "Error",
	"System.Array":     "Array",
}

// TransformTypeCheck lowers a source-level type test over an already
// translated expression.
func (tr *Translator) TransformTypeCheck(e js.Expr, t common.Type) js.Expr {
	switch ty := t.(type) {
	case *common.GenericParam:
		if tr.currentIsInline {
			tr.hasDelayedTransform = true
			return &js.TypeCheck{Expr: e, Type: t}
		}
		return tr.sourceErrorf("type test on a type parameter is only allowed inside inline members")

	case *common.ArrayType:
		if _, ok := ty.Elem.(*common.GenericParam); ok {
			return tr.sourceErrorf("generic array type test is not translatable, test against System.Array instead")
		}
		return instanceOf(e, js.NewAddress("Array"))

	case *common.TupleType:
		return instanceOf(e, js.NewAddress("Array"))

	case *common.FuncType:
		return tr.sourceErrorf("function type test is not translatable, test against Function instead")

	case *common.DefType:
		return tr.typeCheckDef(e, ty)

	default:
		return tr.sourceErrorf("unsupported type test")
	}
}

func (tr *Translator) typeCheckDef(e js.Expr, dt *common.DefType) js.Expr {
	switch dt.Def {
	case common.UnitDef:
		return &js.Binary{Left: e, Op: js.BinaryEqStrict, Right: &js.Const{Value: nil}}
	case common.DisposableDef:
		return &js.Binary{Left: &js.Const{Value: "Dispose"}, Op: js.BinaryIn, Right: e}
	}

	if name, ok := typeofNames[dt.Def.FullName]; ok {
		return &js.Binary{
			Left:  &js.Unary{Op: js.UnaryTypeOf, Expr: e},
			Op:    js.BinaryEq,
			Right: &js.Const{Value: name},
		}
	}
	if global, ok := instanceofNames[dt.Def.FullName]; ok {
		return instanceOf(e, js.NewAddress(global))
	}

	addr, ct := tr.store.TryLookupClassAddressOrCustomType(dt.Def)
	if addr != nil {
		return instanceOf(e, *addr)
	}

	switch info := ct.(type) {
	case *meta.UnionCaseInfo:
		ut := common.NonGenericType(info.Union)
		u, ok := tr.store.GetCustomType(info.Union).(*meta.UnionInfo)
		if !ok {
			return tr.sourceErrorf("union case %s has no union shape", info.Case)
		}
		return tr.unionCaseTest(e, ut, u, info.Case)

	case *meta.UnionInfo:
		if info.IsErased {
			return tr.sourceErrorf("type test against an erased union %s is not translatable, test a case instead", dt.Def.FullName)
		}
		return tr.sourceErrorf("no runtime type information for %s, add a Prototype attribute", dt.Def.FullName)

	case *meta.RecordInfo:
		return tr.sourceErrorf("no runtime type information for %s, add a Prototype attribute", dt.Def.FullName)

	default:
		return tr.sourceErrorf("no runtime type information for %s, add a Prototype attribute", dt.Def.FullName)
	}
}

func instanceOf(e js.Expr, addr js.Address) js.Expr {
	return &js.Binary{Left: e, Op: js.BinaryInstanceOf, Right: &js.GlobalAccess{Address: addr}}
}
