package meta

import "sharpjs/common"

// CustomTypeInfo describes a type whose members are synthesized by the source
// compiler rather than declared: records, unions, union cases and delegates.
// The translator emits field accessors and case constructors for these
// instead of dispatching method calls.
type CustomTypeInfo interface {
	customType()
}

// DelegateInfo describes a delegate type.
type DelegateInfo struct {
	ArgTypes   []common.Type
	ReturnType common.Type
}

func (*DelegateInfo) customType() {}

// RecordField is one field of a record.
type RecordField struct {
	Name     string
	JSName   string
	Type     common.Type
	Optional bool
}

// RecordInfo describes a record type.  Fields are in declaration order,
// which is also constructor-argument order.
type RecordInfo struct {
	Fields []RecordField
}

func (*RecordInfo) customType() {}

// UnionCaseKind discriminates how a union case is represented.
type UnionCaseKind int

const (
	// NormalCase carries fields and is represented as a tagged object.
	NormalCase UnionCaseKind = iota

	// ConstantCase is represented as its constant value.
	ConstantCase

	// SingletonCase carries no fields; a shared instance is stored on the
	// union's address.
	SingletonCase
)

// UnionField is one field of a union case.
type UnionField struct {
	Name string
	Type common.Type
}

// UnionCase is one case of a union type.
type UnionCase struct {
	Name     string
	Kind     UnionCaseKind
	Fields   []UnionField
	Constant interface{}

	// ClassDef, if set, is the type definition of the class generated for
	// this case; new case objects get its prototype.
	ClassDef *common.TypeDef
}

// FieldIndex returns the position of a field within the case, or -1.
func (c *UnionCase) FieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// UnionInfo describes a union type.  Cases are in declaration order; the tag
// of a case is its index.
type UnionInfo struct {
	Cases   []UnionCase
	HasNull bool

	// IsErased marks unions whose runtime representation is the bare case
	// value; the tag is reconstructed by type inspection.
	IsErased bool
}

func (*UnionInfo) customType() {}

// CaseIndex returns the tag of a named case, or -1.
func (u *UnionInfo) CaseIndex(name string) int {
	for i, c := range u.Cases {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// IsFlattened reports whether the union collapses to its sole field-bearing
// case: single-case unions and two-case unions where one case is null.
func (u *UnionInfo) IsFlattened() bool {
	if u.IsErased {
		return false
	}
	switch len(u.Cases) {
	case 1:
		return true
	case 2:
		return u.HasNull
	default:
		return false
	}
}

// FlatCase returns the index of the field-bearing case of a flattened union.
func (u *UnionInfo) FlatCase() int {
	if len(u.Cases) == 1 {
		return 0
	}
	for i, c := range u.Cases {
		if !(c.Kind == ConstantCase && c.Constant == nil) {
			return i
		}
	}
	return 0
}

// NullCase returns the index of the null constant case, or -1.
func (u *UnionInfo) NullCase() int {
	for i, c := range u.Cases {
		if c.Kind == ConstantCase && c.Constant == nil {
			return i
		}
	}
	return -1
}

// UnionCaseInfo is the custom type attached to the generated class of a
// single union case; member access resolves against the base union.
type UnionCaseInfo struct {
	Union common.TypeDef
	Case  string
}

func (*UnionCaseInfo) customType() {}
