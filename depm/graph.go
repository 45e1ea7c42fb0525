package depm

import "sharpjs/common"

// Node identifies an entity that can participate in the dependency graph.
// All node kinds are comparable values so they can be used as map keys.
type Node interface {
	graphNode()
}

// MethodNode identifies a concrete method.
type MethodNode struct {
	Type   common.TypeDef
	Method common.MethodDef
}

func (MethodNode) graphNode() {}

// AbstractMethodNode identifies an interface or abstract method; depending on
// it pulls in every implementation of reachable types.
type AbstractMethodNode struct {
	Type   common.TypeDef
	Method common.MethodDef
}

func (AbstractMethodNode) graphNode() {}

// ConstructorNode identifies a constructor.
type ConstructorNode struct {
	Type common.TypeDef
	Ctor common.CtorDef
}

func (ConstructorNode) graphNode() {}

// ImplementationNode identifies a type's implementation of an interface
// method.
type ImplementationNode struct {
	Type   common.TypeDef
	Iface  common.TypeDef
	Method common.MethodDef
}

func (ImplementationNode) graphNode() {}

// TypeNode identifies a type as a whole: its prototype, static state and
// custom-type shape.
type TypeNode struct {
	Type common.TypeDef
}

func (TypeNode) graphNode() {}

// AssemblyNode identifies an entire assembly.
type AssemblyNode struct {
	Name      string
	IsLibrary bool
}

func (AssemblyNode) graphNode() {}

// EntryPointNode identifies the program entry point.
type EntryPointNode struct{}

func (EntryPointNode) graphNode() {}

// -----------------------------------------------------------------------------

// Graph records which members a compiled member depends on.  Edges are added
// as a side effect of translation; the bundler later walks the graph to find
// the dead-code-eliminated closure of the entry point.
type Graph struct {
	edges map[Node]map[Node]struct{}
}

// NewGraph creates an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[Node]map[Node]struct{})}
}

// AddEdge records that from depends on to.  Duplicate edges collapse.
func (g *Graph) AddEdge(from, to Node) {
	tos, ok := g.edges[from]
	if !ok {
		tos = make(map[Node]struct{})
		g.edges[from] = tos
	}

	tos[to] = struct{}{}
}

// HasEdge tests whether a direct edge from from to to has been recorded.
func (g *Graph) HasEdge(from, to Node) bool {
	_, ok := g.edges[from][to]
	return ok
}

// Successors returns the direct dependencies of a node.
func (g *Graph) Successors(from Node) []Node {
	tos := g.edges[from]
	if len(tos) == 0 {
		return nil
	}

	out := make([]Node, 0, len(tos))
	for n := range tos {
		out = append(out, n)
	}
	return out
}

// Reachable computes the set of nodes reachable from start, including start
// itself.
func (g *Graph) Reachable(start Node) map[Node]struct{} {
	seen := map[Node]struct{}{start: {}}
	stack := []Node{start}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for succ := range g.edges[n] {
			if _, ok := seen[succ]; !ok {
				seen[succ] = struct{}{}
				stack = append(stack, succ)
			}
		}
	}

	return seen
}
