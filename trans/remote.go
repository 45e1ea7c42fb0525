package trans

import (
	"strings"

	"sharpjs/common"
	"sharpjs/depm"
	"sharpjs/js"
	"sharpjs/meta"
)

// defaultRemotingProvider is the address of the built-in provider class.
var defaultRemotingProvider = js.NewAddress("Remoting", "AjaxRemotingProvider")

// compileRemoteCall emits a remote call through a remoting provider object:
// provider.<kind>(handle, [args]).  The server side of the call must stay in
// the dependency closure, so edges are added for the abstract provider method
// and for every concrete type in the return type.
func (tr *Translator) compileRemoteCall(m meta.Remote, typ common.ConcreteType, method common.ConcreteMethod, args []js.Expr) js.Expr {
	providerDef := common.RemotingProviderDef
	var provider js.Expr

	if m.Provider != nil {
		ci, ok := tr.store.TryLookupClassInfo(*m.Provider)
		if !ok || ci.Address == nil {
			return tr.sourceErrorf("remoting provider %s has no address", m.Provider.FullName)
		}
		providerDef = *m.Provider
		provider = &js.New{Func: &js.GlobalAccess{Address: *ci.Address}}
	} else if tr.options.RemotingProvider != "" {
		provider = &js.New{Func: &js.GlobalAccess{Address: js.NewAddress(strings.Split(tr.options.RemotingProvider, ".")...)}}
	} else {
		provider = &js.New{Func: &js.GlobalAccess{Address: defaultRemotingProvider}}
	}

	if tr.store.HasGraph() && tr.currentNode != nil {
		tr.store.Graph().AddEdge(tr.currentNode, depm.AbstractMethodNode{
			Type:   providerDef,
			Method: common.MethodDef{Name: m.Kind.MethodName(), Params: 2},
		})
		if rt, ok := tr.store.LookupReturnType(typ.Entity, method.Entity); ok {
			for _, td := range common.ConcreteDefs(rt) {
				tr.store.Graph().AddEdge(tr.currentNode, depm.TypeNode{Type: td})
			}
		}
	}

	return &js.Application{
		Func: &js.ItemGet{Obj: provider, Index: &js.Const{Value: m.Kind.MethodName()}},
		Args: []js.Expr{
			&js.Const{Value: m.Handle},
			&js.NewArray{Elems: tr.transformAll(args)},
		},
	}
}
