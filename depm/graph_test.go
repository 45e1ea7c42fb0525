package depm

import (
	"testing"

	"sharpjs/common"
)

func TestGraphEdges(t *testing.T) {
	g := NewGraph()
	a := MethodNode{Type: common.TypeDef{FullName: "A"}, Method: common.MethodDef{Name: "M"}}
	b := MethodNode{Type: common.TypeDef{FullName: "B"}, Method: common.MethodDef{Name: "N"}}
	c := TypeNode{Type: common.TypeDef{FullName: "C"}}

	g.AddEdge(a, b)
	g.AddEdge(a, b) // duplicates collapse
	g.AddEdge(b, c)

	if !g.HasEdge(a, b) || !g.HasEdge(b, c) || g.HasEdge(a, c) {
		t.Error("direct edges are wrong")
	}
	if len(g.Successors(a)) != 1 {
		t.Errorf("expected one successor, got %v", g.Successors(a))
	}

	reach := g.Reachable(a)
	for _, n := range []Node{a, b, c} {
		if _, ok := reach[n]; !ok {
			t.Errorf("%v not reachable", n)
		}
	}
	if _, ok := g.Reachable(b)[a]; ok {
		t.Error("reachability must follow edge direction")
	}
}

func TestNodeKindsAreDistinct(t *testing.T) {
	td := common.TypeDef{FullName: "T"}
	m := common.MethodDef{Name: "M"}

	g := NewGraph()
	g.AddEdge(EntryPointNode{}, MethodNode{Type: td, Method: m})
	if g.HasEdge(EntryPointNode{}, AbstractMethodNode{Type: td, Method: m}) {
		t.Error("method and abstract-method nodes must not collide")
	}
}
