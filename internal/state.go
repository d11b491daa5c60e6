package internal

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorKind classifies errors reported while running a program
type ErrorKind int

const (
	LexError ErrorKind = iota
	ParseError
	ResolutionError
	RuntimeErrorKind
)

// Kind sentinels, usable with errors.Is
var (
	ErrLex     = errors.New("lex error")
	ErrParse   = errors.New("parse error")
	ErrResolve = errors.New("resolution error")
	ErrRuntime = errors.New("runtime error")

	// ErrSyntax is returned by Run when scanning, parsing or resolution failed
	ErrSyntax = errors.New("syntax error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case LexError:
		return ErrLex
	case ParseError:
		return ErrParse
	case ResolutionError:
		return ErrResolve
	}
	return ErrRuntime
}

func (k ErrorKind) String() string {
	return k.sentinel().Error()
}

// SyntaxError is a lex, parse or resolution error
type SyntaxError struct {
	Kind  ErrorKind
	Line  int
	Where string
	Err   error
}

func (e *SyntaxError) Error() string {
	return e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == e.Kind.sentinel() || target == ErrSyntax
}

// RuntimeError aborts the execution of a program
type RuntimeError struct {
	Token *Token
	Err   error
}

func (e *RuntimeError) Error() string {
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

// Reporter receives every error exactly once, when it is detected
type Reporter interface {
	Report(err error)
}

// interpreterState stores the state shared by every phase of one interpreter
type interpreterState struct {
	errors          []error
	reporter        Reporter
	printer         IPrinter
	logger          *logrus.Logger
	hadError        bool
	hadRuntimeError bool
}

func (s *interpreterState) report(err error) {
	s.errors = append(s.errors, err)
	if s.reporter != nil {
		s.reporter.Report(err)
	}
}

// setError records an error that has no token, lexer errors only
func (s *interpreterState) setError(kind ErrorKind, err error, line int) {
	s.hadError = true
	s.report(&SyntaxError{Kind: kind, Line: line, Err: err})
}

// tokenError records an error located at a token
func (s *interpreterState) tokenError(kind ErrorKind, tk *Token, err error) *SyntaxError {
	where := fmt.Sprintf(" at '%s'", tk.Lexeme)
	if tk.Kind == EOF {
		where = " at end"
	}
	syntaxErr := &SyntaxError{Kind: kind, Line: tk.Line, Where: where, Err: err}
	s.hadError = true
	s.report(syntaxErr)
	return syntaxErr
}

func (s *interpreterState) runtimeError(err *RuntimeError) {
	s.hadRuntimeError = true
	s.logger.WithFields(logrus.Fields{
		"line":  err.Token.Line,
		"token": err.Token.Lexeme,
	}).Debug(err.Error())
	s.report(err)
}

// runtimeErr aborts the execution, it is recovered by exec.interpret
func runtimeErr(tk *Token, err error) {
	panic(&RuntimeError{Token: tk, Err: err})
}

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character.")
var errUnterminatedString = errors.New("Unterminated string.")

// Parser errors
var errExpectExpr = errors.New("Expect expression.")
var errInvalidAssignTarget = errors.New("Invalid assignment target.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")
var errExpectClassName = errors.New("Expect class name.")
var errExpectSuperclassName = errors.New("Expect superclass name.")
var errExpectBraceBeforeClass = errors.New("Expect '{' before class body.")
var errExpectBraceAfterClass = errors.New("Expect '}' after class body.")
var errExpectFunctionName = errors.New("Expect function name.")
var errExpectMethodName = errors.New("Expect method name.")
var errExpectParenAfterName = errors.New("Expect '(' after name.")
var errExpectParamName = errors.New("Expect parameter name.")
var errExpectParenAfterParams = errors.New("Expect ')' after parameters.")
var errExpectBraceBeforeBody = errors.New("Expect '{' before body.")
var errExpectVariableName = errors.New("Expect variable name.")
var errExpectSemicolonAfterVar = errors.New("Expect ';' after variable declaration.")
var errExpectParenAfterFor = errors.New("Expect '(' after 'for'.")
var errExpectSemicolonAfterCond = errors.New("Expect ';' after loop condition.")
var errExpectParenAfterClauses = errors.New("Expect ')' after for clauses.")
var errExpectParenAfterIf = errors.New("Expect '(' after 'if'.")
var errExpectParenAfterIfCond = errors.New("Expect ')' after if condition.")
var errExpectSemicolonAfterValue = errors.New("Expect ';' after value.")
var errExpectSemicolonAfterReturn = errors.New("Expect ';' after return value.")
var errExpectParenAfterWhile = errors.New("Expect '(' after 'while'.")
var errExpectParenAfterWhileCond = errors.New("Expect ')' after condition.")
var errExpectBraceAfterBlock = errors.New("Expect '}' after block.")
var errExpectSemicolonAfterExpr = errors.New("Expect ';' after expression.")
var errExpectPropertyName = errors.New("Expect property name after '.'.")
var errExpectParenAfterArgs = errors.New("Expect ')' after arguments.")
var errExpectDotAfterSuper = errors.New("Expect '.' after 'super'.")
var errExpectSuperMethod = errors.New("Expect superclass method name.")
var errExpectParenAfterExpr = errors.New("Expect ')' after expression.")

// Resolution errors
var errAlreadyDeclared = errors.New("Already a variable with this name in this scope.")
var errTopLevelReturn = errors.New("Can't return from top-level code.")
var errInitializerReturn = errors.New("Can't return a value from an initializer.")
var errThisOutsideClass = errors.New("Can't use 'this' outside of a class.")
var errSuperOutsideClass = errors.New("Can't use 'super' outside of a class.")
var errSuperWithoutSuperclass = errors.New("Can't use 'super' in a class with no superclass.")
var errInheritFromSelf = errors.New("A class can't inherit from itself.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errUndefinedProp = errors.New("Undefined property")
var errOutOfScope = errors.New("Attempted to access variable from out of scope.")
var errOperandNumber = errors.New("Operand must be a number.")
var errOperandsNumbers = errors.New("Operands must be two numbers.")
var errOperandsAdd = errors.New("Operands must be two numbers or two strings.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errInvalidNumberArguments = errors.New("Invalid number of arguments")
var errOnlyInstanceProperties = errors.New("Only instances have properties.")
var errOnlyInstanceFields = errors.New("Only instances have fields.")
var errExpectedClass = errors.New("Superclass must be a class.")
var errStackOverflow = errors.New("Stack overflow.")

func undefinedVar(name string) error {
	return &namedError{err: errUndefinedVar, msg: fmt.Sprintf("Undefined variable '%s'.", name)}
}

func undefinedProp(name string) error {
	return &namedError{err: errUndefinedProp, msg: fmt.Sprintf("Undefined property '%s'.", name)}
}

func invalidArguments(expected, got int) error {
	return &namedError{
		err: errInvalidNumberArguments,
		msg: fmt.Sprintf("Expected %d arguments but got %d.", expected, got),
	}
}

// namedError carries a message built at runtime while matching its sentinel
type namedError struct {
	err error
	msg string
}

func (e *namedError) Error() string {
	return e.msg
}

func (e *namedError) Unwrap() error {
	return e.err
}
