package common

// FuncArgOptimization describes the adaptation a caller must perform on one
// argument of a member whose function-typed parameters were flattened.
type FuncArgOptimization interface {
	funcArgOpt()
}

// NotOptimizedFuncArg marks an argument passed through unchanged.
type NotOptimizedFuncArg struct{}

func (NotOptimizedFuncArg) funcArgOpt() {}

// CurriedFuncArg marks an argument whose curried function of the given arity
// was flattened to a single n-ary function.
type CurriedFuncArg struct {
	Arity int
}

func (CurriedFuncArg) funcArgOpt() {}

// TupledFuncArg marks an argument whose tuple-taking function of the given
// width was flattened to a single n-ary function.
type TupledFuncArg struct {
	Arity int
}

func (TupledFuncArg) funcArgOpt() {}
