package trans

import (
	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
)

// TransformFieldGet lowers a field read through the metadata store.
func (tr *Translator) TransformFieldGet(fg *js.FieldGet) js.Expr {
	tr.addTypeEdge(fg.Type.Entity)

	switch f := tr.store.LookupFieldInfo(fg.Type.Entity, fg.Field).(type) {
	case meta.InstanceField:
		return &js.ItemGet{Obj: tr.TransformExpr(fg.This), Index: &js.Const{Value: f.Name}, Pure: f.ReadOnly}

	case meta.StaticField:
		value := js.Expr(&js.GlobalAccess{Address: f.Address})
		if cctor, ok := tr.store.TryLookupStaticConstructorAddress(fg.Type.Entity); ok {
			return &js.Sequential{Exprs: []js.Expr{
				&js.Application{Func: &js.GlobalAccess{Address: cctor}},
				value,
			}}
		}
		return value

	case meta.OptionalField:
		return js.RuntimeCall(js.RuntimeGetOptional,
			&js.ItemGet{Obj: tr.TransformExpr(fg.This), Index: &js.Const{Value: f.Name}})

	case meta.IndexedField:
		return &js.ItemGet{Obj: tr.TransformExpr(fg.This), Index: &js.Const{Value: f.Index}}

	case meta.CustomTypeField:
		return tr.customTypeFieldGet(f.Info, fg)

	case meta.PropertyField:
		if f.Getter == nil {
			return tr.sourceErrorf("property %s has no getter", memberName(fg.Type.Entity, fg.Field))
		}
		return tr.transformCallTo(fg.This, fg.Type, common.NonGenericMethod(*f.Getter), nil, false, fg)

	case meta.LookupFieldError:
		tr.store.AddError(tr.currentSpan, f.Err)
		return js.ErrorPlaceholder()

	default:
		return tr.sourceErrorf("unexpected field lookup result for %s", memberName(fg.Type.Entity, fg.Field))
	}
}

// TransformFieldSet lowers a field write through the metadata store.
func (tr *Translator) TransformFieldSet(fs *js.FieldSet) js.Expr {
	tr.addTypeEdge(fs.Type.Entity)

	switch f := tr.store.LookupFieldInfo(fs.Type.Entity, fs.Field).(type) {
	case meta.InstanceField:
		return &js.ItemSet{
			Obj:   tr.TransformExpr(fs.This),
			Index: &js.Const{Value: f.Name},
			Value: tr.TransformExpr(fs.Value),
		}

	case meta.StaticField:
		// a global write is an indexed write on its parent address
		if len(f.Address.Segments) == 0 {
			return tr.sourceErrorf("static field %s has an empty address", memberName(fs.Type.Entity, fs.Field))
		}
		parent := js.Address{Segments: f.Address.Segments[1:]}
		return &js.ItemSet{
			Obj:   &js.GlobalAccess{Address: parent},
			Index: &js.Const{Value: f.Address.Segments[0]},
			Value: tr.TransformExpr(fs.Value),
		}

	case meta.OptionalField:
		return js.RuntimeCall(js.RuntimeSetOptional,
			tr.TransformExpr(fs.This), &js.Const{Value: f.Name}, tr.TransformExpr(fs.Value))

	case meta.IndexedField:
		return &js.ItemSet{
			Obj:   tr.TransformExpr(fs.This),
			Index: &js.Const{Value: f.Index},
			Value: tr.TransformExpr(fs.Value),
		}

	case meta.CustomTypeField:
		return tr.customTypeFieldSet(f.Info, fs)

	case meta.PropertyField:
		if f.Setter == nil {
			return tr.sourceErrorf("property %s has no setter", memberName(fs.Type.Entity, fs.Field))
		}
		return tr.transformCallTo(fs.This, fs.Type, common.NonGenericMethod(*f.Setter), []js.Expr{fs.Value}, false, fs)

	case meta.LookupFieldError:
		tr.store.AddError(tr.currentSpan, f.Err)
		return js.ErrorPlaceholder()

	default:
		return tr.sourceErrorf("unexpected field lookup result for %s", memberName(fs.Type.Entity, fs.Field))
	}
}

// customTypeFieldGet reads record fields by their JavaScript name and union
// case fields by their slot.
func (tr *Translator) customTypeFieldGet(ct meta.CustomTypeInfo, fg *js.FieldGet) js.Expr {
	switch info := ct.(type) {
	case *meta.RecordInfo:
		for _, f := range info.Fields {
			if f.Name != fg.Field {
				continue
			}
			get := &js.ItemGet{Obj: tr.TransformExpr(fg.This), Index: &js.Const{Value: f.JSName}}
			if f.Optional {
				return js.RuntimeCall(js.RuntimeGetOptional, get)
			}
			return get
		}
		return tr.sourceErrorf("record field not found: %s", memberName(fg.Type.Entity, fg.Field))

	case *meta.UnionCaseInfo:
		return tr.TransformUnionCaseGet(&js.UnionCaseGet{
			Expr:  fg.This,
			Type:  common.NonGenericType(info.Union),
			Case:  info.Case,
			Field: fg.Field,
		})

	default:
		return tr.sourceErrorf("field access on custom type %s is not supported", fg.Type.Entity.FullName)
	}
}

func (tr *Translator) customTypeFieldSet(ct meta.CustomTypeInfo, fs *js.FieldSet) js.Expr {
	switch info := ct.(type) {
	case *meta.RecordInfo:
		for _, f := range info.Fields {
			if f.Name != fs.Field {
				continue
			}
			if f.Optional {
				return js.RuntimeCall(js.RuntimeSetOptional,
					tr.TransformExpr(fs.This), &js.Const{Value: f.JSName}, tr.TransformExpr(fs.Value))
			}
			return &js.ItemSet{
				Obj:   tr.TransformExpr(fs.This),
				Index: &js.Const{Value: f.JSName},
				Value: tr.TransformExpr(fs.Value),
			}
		}
		return tr.sourceErrorf("record field not found: %s", memberName(fs.Type.Entity, fs.Field))

	default:
		return tr.sourceErrorf("field write on custom type %s is not supported", fs.Type.Entity.FullName)
	}
}

// -----------------------------------------------------------------------------

// TransformCctor lowers a static-constructor trigger.  Types without a static
// constructor translate to undefined.
func (tr *Translator) TransformCctor(td common.TypeDef) js.Expr {
	if addr, ok := tr.store.TryLookupStaticConstructorAddress(td); ok {
		tr.addTypeEdge(td)
		return &js.Application{Func: &js.GlobalAccess{Address: addr}}
	}
	return &js.Undefined{}
}

func (tr *Translator) addTypeEdge(td common.TypeDef) {
	if tr.store.HasGraph() && tr.currentNode != nil {
		tr.store.Graph().AddEdge(tr.currentNode, depm.TypeNode{Type: td})
	}
}
