package internal

type env struct {
	enclosing *env
	values    map[string]interface{}
}

func newEnv(enclosing *env) *env {
	return &env{
		enclosing: enclosing,
		values:    make(map[string]interface{}),
	}
}

func (e *env) get(name *Token) interface{} {
	if value, ok := e.values[name.Lexeme]; ok {
		return value
	}
	if e.enclosing != nil {
		return e.enclosing.get(name)
	}
	runtimeErr(name, undefinedVar(name.Lexeme))
	return nil
}

func (e *env) define(name string, value interface{}) {
	e.values[name] = value
}

func (e *env) assign(name *Token, value interface{}) {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return
	}
	if e.enclosing != nil {
		e.enclosing.assign(name, value)
		return
	}
	runtimeErr(name, undefinedVar(name.Lexeme))
}

// ancestor walks exactly distance enclosing links
func (e *env) ancestor(name *Token, distance int) *env {
	environment := e
	for i := 0; i < distance; i++ {
		if environment.enclosing == nil {
			runtimeErr(name, errOutOfScope)
		}
		environment = environment.enclosing
	}
	return environment
}

func (e *env) getAt(distance int, name *Token) interface{} {
	values := e.ancestor(name, distance).values
	value, ok := values[name.Lexeme]
	if !ok {
		runtimeErr(name, undefinedVar(name.Lexeme))
	}
	return value
}

func (e *env) assignAt(distance int, name *Token, value interface{}) {
	e.ancestor(name, distance).values[name.Lexeme] = value
}
