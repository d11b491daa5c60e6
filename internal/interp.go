package internal

import (
	"github.com/sirupsen/logrus"
)

// R is the result of visiting a node
type R interface{}

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
}

// Options configures a new Interpreter, every field is optional
type Options struct {
	// Printer receives the output of print statements.
	Printer IPrinter
	// Reporter receives each lex, parse, resolution and runtime error.
	Reporter Reporter
	// Logger receives debug entries for each phase, warn level by default.
	Logger *logrus.Logger
}

// Interpreter owns the globals, the resolution table and the error flags of
// one logical run. It is not safe for concurrent use.
type Interpreter struct {
	state *interpreterState
	exec  *exec

	// nextID is the last id handed to a variable reference
	nextID int
}

type discardPrinter struct{}

func (discardPrinter) Println(a ...interface{}) (n int, err error) {
	return 0, nil
}

// NewInterpreter creates an interpreter with the native globals defined
func NewInterpreter(opts Options) *Interpreter {
	state := &interpreterState{
		errors:   make([]error, 0),
		reporter: opts.Reporter,
		printer:  opts.Printer,
		logger:   opts.Logger,
	}
	if state.printer == nil {
		state.printer = discardPrinter{}
	}
	if state.logger == nil {
		state.logger = logrus.New()
		state.logger.SetLevel(logrus.WarnLevel)
	}
	return &Interpreter{
		state: state,
		exec:  newExec(state),
	}
}

// Scan splits source into tokens, errors are reported and scanning goes on
func (in *Interpreter) Scan(source string) []Token {
	errorsBefore := len(in.state.errors)
	tokens := newLexer(in.state, source).scan()
	in.state.logger.WithFields(logrus.Fields{
		"phase":  "scan",
		"tokens": len(tokens),
		"errors": len(in.state.errors) - errorsBefore,
	}).Debug("scan complete")
	return tokens
}

// Parse builds the program, declarations that fail to parse are dropped
func (in *Interpreter) Parse(tokens []Token) []Stmt {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Kind: EOF, Line: line})
	}
	errorsBefore := len(in.state.errors)
	stmts := newParser(in.state, tokens, &in.nextID).parse()
	in.state.logger.WithFields(logrus.Fields{
		"phase":      "parse",
		"statements": len(stmts),
		"errors":     len(in.state.errors) - errorsBefore,
	}).Debug("parse complete")
	return stmts
}

// Resolve fills the resolution table for stmts
func (in *Interpreter) Resolve(stmts []Stmt) {
	errorsBefore := len(in.state.errors)
	localsBefore := len(in.exec.locals)
	newResolver(in.state, in.exec.locals).resolve(stmts)
	in.state.logger.WithFields(logrus.Fields{
		"phase":  "resolve",
		"locals": len(in.exec.locals) - localsBefore,
		"errors": len(in.state.errors) - errorsBefore,
	}).Debug("resolve complete")
}

// Interpret executes stmts, the first runtime error aborts the rest
func (in *Interpreter) Interpret(stmts []Stmt) {
	ok := in.exec.interpret(stmts)
	in.state.logger.WithFields(logrus.Fields{
		"phase": "interpret",
		"ok":    ok,
	}).Debug("interpret complete")
}

// Run scans, parses, resolves and interprets source. It returns an error
// matching ErrSyntax or ErrRuntime when a phase failed.
func (in *Interpreter) Run(source string) error {
	tokens := in.Scan(source)
	stmts := in.Parse(tokens)
	if in.HadError() {
		return ErrSyntax
	}

	in.Resolve(stmts)
	if in.HadError() {
		return ErrSyntax
	}

	in.Interpret(stmts)
	if in.HadRuntimeError() {
		return ErrRuntime
	}
	return nil
}

// HadError reports a lex, parse or resolution error since the last clear
func (in *Interpreter) HadError() bool {
	return in.state.hadError
}

// HadRuntimeError reports a runtime error since the last clear
func (in *Interpreter) HadRuntimeError() bool {
	return in.state.hadRuntimeError
}

// ClearErrors resets the error flags, used between REPL lines
func (in *Interpreter) ClearErrors() {
	in.state.hadError = false
	in.state.hadRuntimeError = false
}

// Errors returns every error reported so far
func (in *Interpreter) Errors() []error {
	return in.state.errors
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter) bool {
	var reporter Reporter
	if r, ok := p.(Reporter); ok {
		reporter = r
	}
	in := NewInterpreter(Options{Printer: p, Reporter: reporter})
	return in.Run(source) == nil
}
