package js

import "strings"

// Address names a global value by its path segments in reverse order: the
// address of N.M is ["M", "N"].  Reversed storage lets a child address share
// its parent's tail.
type Address struct {
	Segments []string
}

// NewAddress creates an address from segments given in source order.
func NewAddress(path ...string) Address {
	segs := make([]string, len(path))
	for i, s := range path {
		segs[len(path)-1-i] = s
	}
	return Address{Segments: segs}
}

// Sub returns the address of a member under a.
func (a Address) Sub(name string) Address {
	segs := make([]string, 0, len(a.Segments)+1)
	segs = append(segs, name)
	segs = append(segs, a.Segments...)
	return Address{Segments: segs}
}

// Equal tests addresses segment by segment.
func (a Address) Equal(b Address) bool {
	if len(a.Segments) != len(b.Segments) {
		return false
	}
	for i, s := range a.Segments {
		if b.Segments[i] != s {
			return false
		}
	}
	return true
}

func (a Address) String() string {
	parts := make([]string, len(a.Segments))
	for i, s := range a.Segments {
		parts[len(a.Segments)-1-i] = s
	}
	return strings.Join(parts, ".")
}
