package js

import "strconv"

// Id is a local identifier.  Ids are created fresh per binding and compared
// by pointer identity; the name is only a hint for the writer.
type Id struct {
	Name    string
	Mutable bool

	ordinal int64
}

var lastIdOrdinal int64

// NewId creates a fresh immutable identifier.
func NewId(name string) *Id {
	lastIdOrdinal++
	return &Id{Name: name, ordinal: lastIdOrdinal}
}

// NewMutableId creates a fresh mutable identifier.
func NewMutableId(name string) *Id {
	id := NewId(name)
	id.Mutable = true
	return id
}

func (id *Id) String() string {
	if id.Name != "" {
		return id.Name + "$" + strconv.FormatInt(id.ordinal, 10)
	}
	return "$" + strconv.FormatInt(id.ordinal, 10)
}
