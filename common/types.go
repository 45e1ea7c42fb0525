package common

// Type represents a source-level type reference.  Generic arguments are
// positional; a GenericParam refers into the concatenated generic list of the
// enclosing type and method.
type Type interface {
	typeNode()
}

// DefType is a (possibly generic) named type.
type DefType struct {
	Def      TypeDef
	Generics []Type
}

func (*DefType) typeNode() {}

// GenericParam is a positional reference to a type parameter.
type GenericParam struct {
	Ordinal int
}

func (*GenericParam) typeNode() {}

// ArrayType is a CLR array type of some rank.
type ArrayType struct {
	Elem Type
	Rank int
}

func (*ArrayType) typeNode() {}

// FuncType is an F# function type.
type FuncType struct {
	Arg Type
	Res Type
}

func (*FuncType) typeNode() {}

// TupleType is an F# tuple type.
type TupleType struct {
	Elems []Type
}

func (*TupleType) typeNode() {}

// -----------------------------------------------------------------------------

// SubstituteGenerics replaces every GenericParam in t by the positionally
// matching entry of gs.  Out-of-range parameters are left untouched.
func SubstituteGenerics(t Type, gs []Type) Type {
	switch v := t.(type) {
	case *GenericParam:
		if v.Ordinal >= 0 && v.Ordinal < len(gs) {
			return gs[v.Ordinal]
		}
		return v
	case *DefType:
		return &DefType{Def: v.Def, Generics: substituteAll(v.Generics, gs)}
	case *ArrayType:
		return &ArrayType{Elem: SubstituteGenerics(v.Elem, gs), Rank: v.Rank}
	case *FuncType:
		return &FuncType{Arg: SubstituteGenerics(v.Arg, gs), Res: SubstituteGenerics(v.Res, gs)}
	case *TupleType:
		return &TupleType{Elems: substituteAll(v.Elems, gs)}
	default:
		return t
	}
}

func substituteAll(ts []Type, gs []Type) []Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = SubstituteGenerics(t, gs)
	}
	return out
}

// ConcreteDefs collects every type definition appearing in t.  Used to close
// the dependency graph over remote-call return types.
func ConcreteDefs(t Type) []TypeDef {
	var defs []TypeDef
	var walk func(Type)
	walk = func(t Type) {
		switch v := t.(type) {
		case *DefType:
			defs = append(defs, v.Def)
			for _, g := range v.Generics {
				walk(g)
			}
		case *ArrayType:
			walk(v.Elem)
		case *FuncType:
			walk(v.Arg)
			walk(v.Res)
		case *TupleType:
			for _, e := range v.Elems {
				walk(e)
			}
		}
	}
	walk(t)
	return defs
}
