package opt

import (
	"fmt"

	"sharpjs/js"
)

// VerifyForm checks a compiled body for forms translation must have
// eliminated.  Any finding is a translator bug, not a source error; the
// driver runs this in debug builds only.
func VerifyForm(e js.Expr, isInline bool) []error {
	var errs []error
	invalid := func(kind string) {
		errs = append(errs, fmt.Errorf("invalid form after transformation: %s", kind))
	}

	js.VisitExpr(e, func(x js.Expr) {
		switch x.(type) {
		case *js.Self:
			invalid("Self")
		case *js.Base:
			invalid("Base")
		case *js.Hole:
			if !isInline {
				invalid("Hole")
			}
		case *js.FieldGet:
			invalid("FieldGet")
		case *js.FieldSet:
			invalid("FieldSet")
		case *js.Let:
			if !isInline {
				invalid("Let")
			}
		case *js.LetRec:
			if !isInline {
				invalid("LetRec")
			}
		case *js.StatementExpr:
			if !isInline {
				invalid("StatementExpr")
			}
		case *js.Await:
			invalid("Await")
		case *js.NamedParameter:
			invalid("NamedParameter")
		case *js.RefOrOutParameter:
			invalid("RefOrOutParameter")
		case *js.Ctor:
			if !isInline {
				invalid("Ctor")
			}
		case *js.Call:
			if !isInline {
				invalid("Call")
			}
		case *js.Coalesce:
			invalid("Coalesce")
		case *js.TypeCheck:
			invalid("TypeCheck")
		}
	})

	return errs
}
