package trans

import (
	"sharpjs/common"
	"sharpjs/js"
)

// TransformTraitCall resolves a trait call against the candidate receiver
// types.  A single match across the set resolves to a concrete call.  Inside
// an inline body an unresolved or ambiguous call is kept for the call sites;
// anywhere else it is an error.
func (tr *Translator) TransformTraitCall(tc *js.TraitCall) js.Expr {
	type match struct {
		typ    common.ConcreteType
		method common.MethodDef
	}

	var matches []match
	unresolved := false

	for _, t := range tc.Types {
		dt, ok := t.(*common.DefType)
		if !ok {
			unresolved = true
			continue
		}
		for _, m := range tr.store.GetMethods(dt.Def) {
			if m.Name == tc.Method.Entity.Name && m.Params == tc.Method.Entity.Params {
				matches = append(matches, match{
					typ:    common.ConcreteType{Entity: dt.Def, Generics: dt.Generics},
					method: m,
				})
			}
		}
	}

	if len(matches) == 1 && !unresolved {
		m := matches[0]
		return tr.transformCallTo(
			tc.This,
			m.typ,
			common.ConcreteMethod{Entity: m.method, Generics: tc.Method.Generics},
			tc.Args,
			false,
			tc,
		)
	}

	if tr.currentIsInline {
		tr.hasDelayedTransform = true
		return tc
	}

	if len(matches) > 1 {
		return tr.sourceErrorf("trait call %s is ambiguous", tc.Method.Entity.Name)
	}
	return tr.sourceErrorf("trait call target not found: %s", tc.Method.Entity.Name)
}
