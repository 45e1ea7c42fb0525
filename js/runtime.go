package js

// Names of the runtime helpers the translator emits.  They all live under the
// Runtime global of the support library.
const (
	RuntimeCurried           = "Curried"
	RuntimeCurried2          = "Curried2"
	RuntimeCurried3          = "Curried3"
	RuntimeCurriedA          = "CurriedA"
	RuntimeTupled            = "Tupled"
	RuntimeBindDelegate      = "BindDelegate"
	RuntimeCombineDelegates  = "CombineDelegates"
	RuntimeDelegateEqual     = "DelegateEqual"
	RuntimeGetOptional       = "GetOptional"
	RuntimeSetOptional       = "SetOptional"
	RuntimeDeleteEmptyFields = "DeleteEmptyFields"
	RuntimeCreate            = "Create"
)

// RuntimeAddress returns the address of a runtime helper.
func RuntimeAddress(name string) Address {
	return NewAddress("Runtime", name)
}

// RuntimeFunc returns a reference to a runtime helper.
func RuntimeFunc(name string) Expr {
	return &GlobalAccess{Address: RuntimeAddress(name)}
}

// RuntimeCall applies a runtime helper to arguments.
func RuntimeCall(name string, args ...Expr) Expr {
	return &Application{Func: RuntimeFunc(name), Args: args}
}

// IsRuntimeFunc recognizes a reference to the named runtime helper.
func IsRuntimeFunc(e Expr, name string) bool {
	ga, ok := e.(*GlobalAccess)
	return ok && ga.Address.Equal(RuntimeAddress(name))
}
