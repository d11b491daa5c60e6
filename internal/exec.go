package internal

// maxCallDepth bounds recursion so a runaway program fails with a runtime
// error instead of exhausting the host stack
const maxCallDepth = 10000

type exec struct {
	state *interpreterState

	globals *env
	env     *env

	// locals maps variable reference ids to their scope distance
	locals map[int]int

	depth int
}

func newExec(state *interpreterState) *exec {
	globals := newEnv(nil)
	defineGlobals(globals)
	return &exec{
		state:   state,
		globals: globals,
		env:     globals,
		locals:  make(map[int]int),
	}
}

// interpret runs stmts in order, the first runtime error aborts the rest
func (e *exec) interpret(stmts []Stmt) (res bool) {
	defer func() {
		if r := recover(); r != nil {
			runErr, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			e.env = e.globals
			e.depth = 0
			e.state.runtimeError(runErr)
			res = false
		}
	}()
	for _, s := range stmts {
		s.accept(e)
	}
	return true
}

func (e *exec) visitExprStmt(stmt *exprStmt) R {
	stmt.expression.accept(e)
	return nil
}

func (e *exec) visitPrintStmt(stmt *printStmt) R {
	value := stmt.expression.accept(e)
	e.state.printer.Println(stringify(value))
	return nil
}

func (e *exec) visitVarStmt(stmt *varStmt) R {
	var val interface{}
	if stmt.initializer != nil {
		val = stmt.initializer.accept(e)
	}
	e.env.define(stmt.name.Lexeme, val)
	return nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) R {
	return e.executeBlock(stmt.stmts, newEnv(e.env))
}

// executeBlock runs stmts in env and always restores the previous env,
// a *returnValue result stops the block
func (e *exec) executeBlock(stmts []Stmt, env *env) R {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		if val := s.accept(e); val != nil {
			return val
		}
	}
	return nil
}

func (e *exec) visitIfStmt(stmt *ifStmt) R {
	if truthy(stmt.condition.accept(e)) {
		return stmt.thenBranch.accept(e)
	}
	if stmt.elseBranch != nil {
		return stmt.elseBranch.accept(e)
	}
	return nil
}

func (e *exec) visitWhileStmt(stmt *whileStmt) R {
	for truthy(stmt.condition.accept(e)) {
		if val := stmt.body.accept(e); val != nil {
			return val
		}
	}
	return nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) R {
	e.env.define(stmt.name.Lexeme, &loxFunction{
		declaration:   stmt,
		closure:       e.env,
		isInitializer: false,
	})
	return nil
}

func (e *exec) visitReturnStmt(stmt *returnStmt) R {
	var value interface{}
	if stmt.value != nil {
		value = stmt.value.accept(e)
	}
	return &returnValue{value: value}
}

func (e *exec) visitClassStmt(stmt *classStmt) R {
	// Bound early so methods can refer to the class
	e.env.define(stmt.name.Lexeme, nil)

	var superclass *loxClass
	if stmt.superclass != nil {
		class, ok := stmt.superclass.accept(e).(*loxClass)
		if !ok {
			runtimeErr(stmt.superclass.name, errExpectedClass)
		}
		superclass = class
	}

	closure := e.env
	if superclass != nil {
		closure = newEnv(e.env)
		closure.define("super", superclass)
	}

	class := &loxClass{
		name:       stmt.name.Lexeme,
		superclass: superclass,
		methods:    make(map[string]*loxFunction),
	}
	for _, m := range stmt.methods {
		class.methods[m.name.Lexeme] = &loxFunction{
			declaration:   m,
			closure:       closure,
			isInitializer: m.name.Lexeme == "init",
		}
	}

	e.env.assign(stmt.name, class)
	return nil
}

func (e *exec) visitAssignExpr(expr *assignExpr) R {
	val := expr.value.accept(e)
	if distance, ok := e.locals[expr.id]; ok {
		e.env.assignAt(distance, expr.name, val)
	} else {
		e.globals.assign(expr.name, val)
	}
	return val
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) R {
	left := expr.left.accept(e)
	right := expr.right.accept(e)
	switch expr.operator.Kind {
	case EQUAL_EQUAL:
		return isEqual(left, right)
	case BANG_EQUAL:
		return !isEqual(left, right)
	case GREATER:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum > rightNum
	case GREATER_EQUAL:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum >= rightNum
	case LESS:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum < rightNum
	case LESS_EQUAL:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum <= rightNum
	case PLUS:
		return e.add(expr, left, right)
	case MINUS:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum - rightNum
	case SLASH:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum / rightNum
	case STAR:
		leftNum, rightNum := e.getNums(expr, left, right)
		return leftNum * rightNum
	}
	return nil
}

func (e *exec) add(expr *binaryExpr, left, right interface{}) interface{} {
	switch l := left.(type) {
	case float64:
		if r, ok := right.(float64); ok {
			return l + r
		}
	case string:
		if r, ok := right.(string); ok {
			return l + r
		}
	}
	runtimeErr(expr.operator, errOperandsAdd)
	return nil
}

func (e *exec) getNums(binExpr *binaryExpr, left, right interface{}) (float64, float64) {
	leftNum, ok := left.(float64)
	if !ok {
		runtimeErr(binExpr.operator, errOperandsNumbers)
	}
	rightNum, ok := right.(float64)
	if !ok {
		runtimeErr(binExpr.operator, errOperandsNumbers)
	}
	return leftNum, rightNum
}

func (e *exec) visitCallExpr(expr *callExpr) R {
	callee := expr.callee.accept(e)
	arguments := make([]interface{}, len(expr.arguments))
	for i := range expr.arguments {
		arguments[i] = expr.arguments[i].accept(e)
	}

	fn, isFn := callee.(callable)
	if !isFn {
		runtimeErr(expr.paren, errOnlyFunction)
	}

	if len(arguments) != fn.arity() {
		runtimeErr(expr.paren, invalidArguments(fn.arity(), len(arguments)))
	}

	if e.depth >= maxCallDepth {
		runtimeErr(expr.paren, errStackOverflow)
	}
	e.depth++
	defer func() {
		e.depth--
	}()

	return fn.call(e, expr.paren, arguments)
}

func (e *exec) visitGetExpr(expr *getExpr) R {
	object := expr.object.accept(e)
	if obj, ok := object.(instance); ok {
		return obj.get(expr.name)
	}
	runtimeErr(expr.name, errOnlyInstanceProperties)
	return nil
}

func (e *exec) visitSetExpr(expr *setExpr) R {
	obj, ok := expr.object.accept(e).(instance)
	if !ok {
		runtimeErr(expr.name, errOnlyInstanceFields)
	}

	val := expr.value.accept(e)
	obj.set(expr.name, val)
	return val
}

// visitSuperExpr finds the method on the statically bound superclass and
// binds it to the current instance
func (e *exec) visitSuperExpr(expr *superExpr) R {
	distance := e.locals[expr.id]
	superclass := e.env.getAt(distance, expr.keyword).(*loxClass)
	this := &Token{
		Kind:   THIS,
		Lexeme: "this",
		Line:   expr.keyword.Line,
	}
	object := e.env.getAt(distance-1, this).(*loxInstance)
	method := superclass.findMethod(expr.method.Lexeme)
	if method == nil {
		runtimeErr(expr.method, undefinedProp(expr.method.Lexeme))
	}
	return method.bind(object)
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) R {
	return expr.expression.accept(e)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) R {
	return expr.value
}

// visitLogicalExpr short-circuits and yields the deciding operand itself
func (e *exec) visitLogicalExpr(expr *logicalExpr) R {
	left := expr.left.accept(e)

	if expr.operator.Kind == OR {
		if truthy(left) {
			return left
		}
	} else if !truthy(left) {
		return left
	}

	return expr.right.accept(e)
}

func (e *exec) visitThisExpr(expr *thisExpr) R {
	return e.lookUpVariable(expr.keyword, expr.id)
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) R {
	value := expr.right.accept(e)
	switch expr.operator.Kind {
	case BANG:
		return !truthy(value)
	case MINUS:
		valueNum, ok := value.(float64)
		if !ok {
			runtimeErr(expr.operator, errOperandNumber)
		}
		return -valueNum
	}
	return nil
}

func (e *exec) visitVariableExpr(expr *variableExpr) R {
	return e.lookUpVariable(expr.name, expr.id)
}

// lookUpVariable uses the resolved distance, unresolved names are globals
func (e *exec) lookUpVariable(name *Token, id int) interface{} {
	if distance, ok := e.locals[id]; ok {
		return e.env.getAt(distance, name)
	}
	return e.globals.get(name)
}
