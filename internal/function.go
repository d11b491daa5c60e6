package internal

import "fmt"

type callable interface {
	arity() int
	// paren locates errors raised by the call itself
	call(exec *exec, paren *Token, arguments []interface{}) interface{}
}

type loxFunction struct {
	declaration   *fnStmt
	closure       *env
	isInitializer bool
}

// returnValue is the outcome of a statement that executed a return
type returnValue struct {
	value interface{}
}

func (f *loxFunction) arity() int {
	return len(f.declaration.params)
}

func (f *loxFunction) call(exec *exec, paren *Token, arguments []interface{}) interface{} {
	env := newEnv(f.closure)
	for i := range f.declaration.params {
		env.define(f.declaration.params[i].Lexeme, arguments[i])
	}

	result := exec.executeBlock(f.declaration.body, env)

	// An initializer always yields its instance
	if f.isInitializer {
		return f.closure.values["this"]
	}

	if ret, isReturn := result.(*returnValue); isReturn {
		return ret.value
	}
	return nil
}

// bind creates a copy of the method whose closure defines "this"
func (f *loxFunction) bind(object *loxInstance) *loxFunction {
	environment := newEnv(f.closure)
	environment.define("this", object)
	return &loxFunction{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.Lexeme)
}

type nativeFn struct {
	arityValue int
	callFn     func(arguments []interface{}) (interface{}, error)
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, paren *Token, arguments []interface{}) interface{} {
	result, err := n.callFn(arguments)
	if err != nil {
		runtimeErr(paren, err)
	}
	return result
}

func (n *nativeFn) String() string {
	return "<native fn>"
}
