package internal

type functionType int

const (
	ftNone functionType = iota
	ftFunction
	ftMethod
	ftInitializer
)

type classType int

const (
	ctNone classType = iota
	ctClass
	ctSubclass
)

// resolver computes, for every local variable reference, how many
// environments away its declaration lives
type resolver struct {
	state  *interpreterState
	locals map[int]int

	// false while a variable is declared but its initializer is pending
	scopes []map[string]bool

	currentFunction functionType
	currentClass    classType
}

func newResolver(state *interpreterState, locals map[int]int) *resolver {
	return &resolver{
		state:  state,
		locals: locals,
	}
}

func (r *resolver) resolve(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s Stmt) {
	s.accept(r)
}

func (r *resolver) resolveExpr(e expr) {
	e.accept(r)
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name *Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peekScope()
	if _, ok := scope[name.Lexeme]; ok {
		r.error(name, errAlreadyDeclared)
	}
	scope[name.Lexeme] = false
}

func (r *resolver) define(name *Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.Lexeme] = true
}

// resolveLocal records the hop count of the innermost scope defining name,
// names not found are left to the globals. A variable whose initializer is
// still being resolved is skipped, so it reads the binding it shadows
func (r *resolver) resolveLocal(id int, name *Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if ready, ok := r.scopes[i][name.Lexeme]; ok && ready {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveFunction(fn *fnStmt, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() {
		r.currentFunction = enclosingFunction
	}()

	r.beginScope()
	for _, param := range fn.params {
		r.declare(param)
		r.define(param)
	}
	r.resolve(fn.body)
	r.endScope()
}

func (r *resolver) error(tk *Token, err error) {
	r.state.tokenError(ResolutionError, tk, err)
}

func (r *resolver) visitExprStmt(stmt *exprStmt) R {
	r.resolveExpr(stmt.expression)
	return nil
}

func (r *resolver) visitPrintStmt(stmt *printStmt) R {
	r.resolveExpr(stmt.expression)
	return nil
}

func (r *resolver) visitVarStmt(stmt *varStmt) R {
	r.declare(stmt.name)
	if stmt.initializer != nil {
		r.resolveExpr(stmt.initializer)
	}
	r.define(stmt.name)
	return nil
}

func (r *resolver) visitBlockStmt(stmt *blockStmt) R {
	r.beginScope()
	r.resolve(stmt.stmts)
	r.endScope()
	return nil
}

func (r *resolver) visitIfStmt(stmt *ifStmt) R {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.thenBranch)
	if stmt.elseBranch != nil {
		r.resolveStmt(stmt.elseBranch)
	}
	return nil
}

func (r *resolver) visitWhileStmt(stmt *whileStmt) R {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.body)
	return nil
}

func (r *resolver) visitFnStmt(stmt *fnStmt) R {
	// Defined eagerly so the function can refer to itself
	r.declare(stmt.name)
	r.define(stmt.name)
	r.resolveFunction(stmt, ftFunction)
	return nil
}

func (r *resolver) visitReturnStmt(stmt *returnStmt) R {
	if r.currentFunction == ftNone {
		r.error(stmt.keyword, errTopLevelReturn)
	}
	if stmt.value != nil {
		if r.currentFunction == ftInitializer {
			r.error(stmt.keyword, errInitializerReturn)
		}
		r.resolveExpr(stmt.value)
	}
	return nil
}

func (r *resolver) visitClassStmt(stmt *classStmt) R {
	enclosingClass := r.currentClass
	r.currentClass = ctClass
	defer func() {
		r.currentClass = enclosingClass
	}()

	r.declare(stmt.name)
	r.define(stmt.name)

	if stmt.superclass != nil {
		if stmt.superclass.name.Lexeme == stmt.name.Lexeme {
			r.error(stmt.superclass.name, errInheritFromSelf)
		}
		r.currentClass = ctSubclass
		r.resolveExpr(stmt.superclass)

		r.beginScope()
		r.peekScope()["super"] = true
	}

	r.beginScope()
	r.peekScope()["this"] = true

	for _, method := range stmt.methods {
		kind := ftMethod
		if method.name.Lexeme == "init" {
			kind = ftInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if stmt.superclass != nil {
		r.endScope()
	}
	return nil
}

func (r *resolver) visitAssignExpr(expr *assignExpr) R {
	r.resolveExpr(expr.value)
	r.resolveLocal(expr.id, expr.name)
	return nil
}

func (r *resolver) visitBinaryExpr(expr *binaryExpr) R {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitCallExpr(expr *callExpr) R {
	r.resolveExpr(expr.callee)
	for _, argument := range expr.arguments {
		r.resolveExpr(argument)
	}
	return nil
}

func (r *resolver) visitGetExpr(expr *getExpr) R {
	r.resolveExpr(expr.object)
	return nil
}

func (r *resolver) visitSetExpr(expr *setExpr) R {
	r.resolveExpr(expr.value)
	r.resolveExpr(expr.object)
	return nil
}

func (r *resolver) visitSuperExpr(expr *superExpr) R {
	if r.currentClass == ctNone {
		r.error(expr.keyword, errSuperOutsideClass)
	} else if r.currentClass != ctSubclass {
		r.error(expr.keyword, errSuperWithoutSuperclass)
	}
	r.resolveLocal(expr.id, expr.keyword)
	return nil
}

func (r *resolver) visitGroupingExpr(expr *groupingExpr) R {
	r.resolveExpr(expr.expression)
	return nil
}

func (r *resolver) visitLiteralExpr(expr *literalExpr) R {
	return nil
}

func (r *resolver) visitLogicalExpr(expr *logicalExpr) R {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitThisExpr(expr *thisExpr) R {
	if r.currentClass == ctNone {
		r.error(expr.keyword, errThisOutsideClass)
		return nil
	}
	r.resolveLocal(expr.id, expr.keyword)
	return nil
}

func (r *resolver) visitUnaryExpr(expr *unaryExpr) R {
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitVariableExpr(expr *variableExpr) R {
	r.resolveLocal(expr.id, expr.name)
	return nil
}
