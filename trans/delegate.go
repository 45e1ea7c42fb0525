package trans

import (
	"sharpjs/js"
	"sharpjs/meta"
)

// TransformNewDelegate lowers delegate creation over a method reference.
// Static methods are their global function; instance methods bind the
// prototype function to the receiver; everything else wraps the call in a
// synthesized lambda, which does not preserve delegate equality.
func (tr *Translator) TransformNewDelegate(d *js.NewDelegate) js.Expr {
	var info meta.CompiledMember
	switch res := tr.store.LookupMethodInfo(d.Type.Entity, d.Method.Entity).(type) {
	case meta.Compiled:
		info = res.Info
	case meta.Compiling:
		info = res.Info
	case meta.LookupMemberError:
		tr.store.AddError(tr.currentSpan, res.Err)
		return js.ErrorPlaceholder()
	default:
		return tr.sourceErrorf("cannot create a delegate from %s", memberName(d.Type.Entity, d.Method.Entity.Name))
	}

	switch m := info.(type) {
	case meta.Static:
		tr.addCallEdge(d.Type.Entity, d.Method.Entity)
		return &js.GlobalAccess{Address: m.Address}

	case meta.Instance:
		tr.addCallEdge(d.Type.Entity, d.Method.Entity)
		ci, ok := tr.store.TryLookupClassInfo(d.Type.Entity)
		if !ok || ci.Address == nil {
			return tr.sourceErrorf("cannot bind a delegate, class %s has no prototype address", d.Type.Entity.FullName)
		}
		proto := &js.ItemGet{Obj: &js.GlobalAccess{Address: *ci.Address}, Index: &js.Const{Value: "prototype"}, Pure: true}
		meth := &js.ItemGet{Obj: proto, Index: &js.Const{Value: m.Name}, Pure: true}
		return js.RuntimeCall(js.RuntimeBindDelegate, meth, tr.TransformExpr(d.This))

	default:
		if tr.options.WarnInlineDelegates {
			tr.warnf("delegate from %s does not preserve equality", memberName(d.Type.Entity, d.Method.Entity.Name))
		}
		params := make([]*js.Id, d.Method.Entity.Params)
		args := make([]js.Expr, d.Method.Entity.Params)
		for i := range params {
			params[i] = js.NewId("x")
			args[i] = &js.Var{Id: params[i]}
		}
		lambda := &js.Lambda{
			Params: params,
			Body:   &js.Call{This: d.This, Type: d.Type, Method: d.Method, Args: args},
		}
		return tr.TransformExpr(lambda)
	}
}
