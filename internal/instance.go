package internal

import "fmt"

type loxInstance struct {
	class  *loxClass
	fields map[string]interface{}
}

type instance interface {
	get(tk *Token) interface{}
	set(name *Token, value interface{})
}

// get looks up fields first, then methods through the superclass chain
func (o *loxInstance) get(tk *Token) interface{} {
	if val, ok := o.fields[tk.Lexeme]; ok {
		return val
	}
	if method := o.class.findMethod(tk.Lexeme); method != nil {
		return method.bind(o)
	}
	runtimeErr(tk, undefinedProp(tk.Lexeme))
	return nil
}

func (o *loxInstance) set(name *Token, value interface{}) {
	o.fields[name.Lexeme] = value
}

func (o *loxInstance) String() string {
	return fmt.Sprintf("%s instance", o.class.name)
}
