package internal

// parser stores parser data
type parser struct {
	tokens  []Token
	current int

	// nextID is shared with the interpreter so ids never repeat across parses
	nextID *int

	state *interpreterState
}

const maxFunctionParams = 255

// parsePanic unwinds a declaration that could not be parsed
type parsePanic struct {
	err *SyntaxError
}

func newParser(state *interpreterState, tokens []Token, nextID *int) *parser {
	return &parser{
		tokens: tokens,
		nextID: nextID,
		state:  state,
	}
}

func (p *parser) parse() []Stmt {
	stmts := make([]Stmt, 0)
	for !p.isAtEnd() {
		st := p.parseStmt()
		// A declaration that failed to parse is dropped
		if st != nil {
			stmts = append(stmts, st)
		}
	}
	return stmts
}

func (p *parser) parseStmt() (s Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parsePanic); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()
	return p.declaration()
}

func (p *parser) id() int {
	*p.nextID++
	return *p.nextID
}

func (p *parser) declaration() Stmt {
	if p.match(CLASS) {
		return p.class()
	}
	if p.match(FUN) {
		return p.fn()
	}
	if p.match(VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *parser) class() Stmt {
	name := p.consume(IDENTIFIER, errExpectClassName)

	var superclass *variableExpr
	if p.match(LESS) {
		class := p.consume(IDENTIFIER, errExpectSuperclassName)
		superclass = &variableExpr{
			name: class,
			id:   p.id(),
		}
	}

	p.consume(LEFT_BRACE, errExpectBraceBeforeClass)

	var methods []*fnStmt
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.function(errExpectMethodName))
	}

	p.consume(RIGHT_BRACE, errExpectBraceAfterClass)

	return &classStmt{
		name:       name,
		superclass: superclass,
		methods:    methods,
	}
}

func (p *parser) fn() Stmt {
	return p.function(errExpectFunctionName)
}

func (p *parser) function(nameErr error) *fnStmt {
	name := p.consume(IDENTIFIER, nameErr)

	p.consume(LEFT_PAREN, errExpectParenAfterName)

	var params []*Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxFunctionParams {
				p.error(p.peek(), errMaxParameters)
			}
			params = append(params, p.consume(IDENTIFIER, errExpectParamName))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RIGHT_PAREN, errExpectParenAfterParams)

	p.consume(LEFT_BRACE, errExpectBraceBeforeBody)
	body := p.block()

	return &fnStmt{
		name:   name,
		params: params,
		body:   body,
	}
}

func (p *parser) varDeclaration() Stmt {
	name := p.consume(IDENTIFIER, errExpectVariableName)

	var init expr
	if p.match(EQUAL) {
		init = p.expression()
	}

	p.consume(SEMICOLON, errExpectSemicolonAfterVar)
	return &varStmt{
		name:        name,
		initializer: init,
	}
}

func (p *parser) statement() Stmt {
	if p.match(FOR) {
		return p.forLoop()
	}
	if p.match(IF) {
		return p.ifStmt()
	}
	if p.match(PRINT) {
		return p.printStmt()
	}
	if p.match(RETURN) {
		return p.ret()
	}
	if p.match(WHILE) {
		return p.while()
	}
	if p.match(LEFT_BRACE) {
		return &blockStmt{stmts: p.block()}
	}
	return p.expressionStmt()
}

// forLoop desugars into a while loop wrapped in blocks
func (p *parser) forLoop() Stmt {
	p.consume(LEFT_PAREN, errExpectParenAfterFor)

	var init Stmt
	if p.match(SEMICOLON) {
		init = nil
	} else if p.match(VAR) {
		init = p.varDeclaration()
	} else {
		init = p.expressionStmt()
	}

	var cond expr
	if !p.check(SEMICOLON) {
		cond = p.expression()
	}
	p.consume(SEMICOLON, errExpectSemicolonAfterCond)

	var inc expr
	if !p.check(RIGHT_PAREN) {
		inc = p.expression()
	}
	p.consume(RIGHT_PAREN, errExpectParenAfterClauses)

	body := p.statement()

	if inc != nil {
		body = &blockStmt{stmts: []Stmt{body, &exprStmt{expression: inc}}}
	}
	if cond == nil {
		cond = &literalExpr{value: true}
	}
	body = &whileStmt{condition: cond, body: body}
	if init != nil {
		body = &blockStmt{stmts: []Stmt{init, body}}
	}

	return body
}

func (p *parser) ifStmt() Stmt {
	p.consume(LEFT_PAREN, errExpectParenAfterIf)
	cond := p.expression()
	p.consume(RIGHT_PAREN, errExpectParenAfterIfCond)

	st := &ifStmt{
		condition:  cond,
		thenBranch: p.statement(),
	}
	if p.match(ELSE) {
		st.elseBranch = p.statement()
	}

	return st
}

func (p *parser) printStmt() Stmt {
	value := p.expression()
	p.consume(SEMICOLON, errExpectSemicolonAfterValue)
	return &printStmt{expression: value}
}

func (p *parser) ret() Stmt {
	var value expr
	keyword := p.previous()
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.consume(SEMICOLON, errExpectSemicolonAfterReturn)
	return &returnStmt{
		keyword: keyword,
		value:   value,
	}
}

func (p *parser) while() Stmt {
	p.consume(LEFT_PAREN, errExpectParenAfterWhile)
	cond := p.expression()
	p.consume(RIGHT_PAREN, errExpectParenAfterWhileCond)
	body := p.statement()
	return &whileStmt{
		condition: cond,
		body:      body,
	}
}

func (p *parser) block() []Stmt {
	stmts := make([]Stmt, 0)
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.declaration())
	}
	p.consume(RIGHT_BRACE, errExpectBraceAfterBlock)
	return stmts
}

func (p *parser) expressionStmt() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, errExpectSemicolonAfterExpr)
	return &exprStmt{expression: expr}
}

func (p *parser) expression() expr {
	return p.assignment()
}

func (p *parser) assignment() expr {
	expr := p.or()
	if p.match(EQUAL) {
		equal := p.previous()
		value := p.assignment()

		if variable, isVar := expr.(*variableExpr); isVar {
			return &assignExpr{
				name:  variable.name,
				value: value,
				id:    p.id(),
			}
		} else if get, isGet := expr.(*getExpr); isGet {
			return &setExpr{
				object: get.object,
				name:   get.name,
				value:  value,
			}
		}

		// Reported without unwinding, the parser is not confused
		p.error(equal, errInvalidAssignTarget)
	}
	return expr
}

func (p *parser) or() expr {
	expr := p.and()
	for p.match(OR) {
		operator := p.previous()
		right := p.and()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) and() expr {
	expr := p.equality()
	for p.match(AND) {
		operator := p.previous()
		right := p.equality()
		expr = &logicalExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) equality() expr {
	expr := p.comparison()
	for p.match(EQUAL_EQUAL, BANG_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) comparison() expr {
	expr := p.term()
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) term() expr {
	expr := p.factor()
	for p.match(PLUS, MINUS) {
		operator := p.previous()
		right := p.factor()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) factor() expr {
	expr := p.unary()
	for p.match(SLASH, STAR) {
		operator := p.previous()
		right := p.unary()
		expr = &binaryExpr{
			left:     expr,
			operator: operator,
			right:    right,
		}
	}
	return expr
}

func (p *parser) unary() expr {
	if p.match(BANG, MINUS) {
		operator := p.previous()
		right := p.unary()
		return &unaryExpr{
			operator: operator,
			right:    right,
		}
	}
	return p.call()
}

func (p *parser) call() expr {
	expr := p.primary()
	for {
		if p.match(LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(DOT) {
			name := p.consume(IDENTIFIER, errExpectPropertyName)
			expr = &getExpr{
				object: expr,
				name:   name,
			}
		} else {
			break
		}
	}
	return expr
}

func (p *parser) finishCall(callee expr) expr {
	arguments := make([]expr, 0)
	if !p.check(RIGHT_PAREN) {
		for {
			if len(arguments) >= maxFunctionParams {
				p.error(p.peek(), errMaxArguments)
			}
			arguments = append(arguments, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RIGHT_PAREN, errExpectParenAfterArgs)
	return &callExpr{
		callee:    callee,
		paren:     paren,
		arguments: arguments,
	}
}

func (p *parser) primary() expr {
	if p.match(FALSE) {
		return &literalExpr{value: false}
	}
	if p.match(TRUE) {
		return &literalExpr{value: true}
	}
	if p.match(NIL) {
		return &literalExpr{value: nil}
	}
	if p.match(NUMBER, STRING) {
		return &literalExpr{value: p.previous().Literal}
	}
	if p.match(SUPER) {
		return p.superExpr()
	}
	if p.match(THIS) {
		return &thisExpr{keyword: p.previous(), id: p.id()}
	}
	if p.match(IDENTIFIER) {
		return &variableExpr{name: p.previous(), id: p.id()}
	}
	if p.match(LEFT_PAREN) {
		expr := p.expression()
		p.consume(RIGHT_PAREN, errExpectParenAfterExpr)
		return &groupingExpr{expression: expr}
	}

	p.fatalError(p.peek(), errExpectExpr)
	return nil
}

func (p *parser) superExpr() expr {
	keyword := p.previous()
	p.consume(DOT, errExpectDotAfterSuper)
	method := p.consume(IDENTIFIER, errExpectSuperMethod)
	return &superExpr{
		keyword: keyword,
		method:  method,
		id:      p.id(),
	}
}

func (p *parser) consume(tk TokenType, err error) *Token {
	if p.check(tk) {
		return p.advance()
	}

	p.fatalError(p.peek(), err)
	return nil
}

// error reports without unwinding
func (p *parser) error(tk *Token, err error) {
	p.state.tokenError(ParseError, tk, err)
}

// fatalError reports and unwinds to parseStmt, which synchronizes
func (p *parser) fatalError(tk *Token, err error) {
	panic(parsePanic{err: p.state.tokenError(ParseError, tk, err)})
}

func (p *parser) advance() *Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(tokens ...TokenType) bool {
	for _, token := range tokens {
		if p.check(token) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(token TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == token
}

func (p *parser) peek() *Token {
	return &p.tokens[p.current]
}

func (p *parser) previous() *Token {
	return &p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == EOF
}

// synchronize discards tokens until a statement boundary
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case CLASS:
			return
		case FUN:
			return
		case VAR:
			return
		case FOR:
			return
		case IF:
			return
		case WHILE:
			return
		case PRINT:
			return
		case RETURN:
			return
		default:
		}

		p.advance()
	}
}
