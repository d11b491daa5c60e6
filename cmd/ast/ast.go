package main

import (
	"fmt"
	"go/format"
	"log"
	"os"
	"strings"
)

//go:generate sh -c "go run . Expr > ../../internal/expr.go && go run . Stmt > ../../internal/stmt.go"

var definitions = map[string][]string{
	"Stmt": {
		"Expr: expression expr",
		"Print: expression expr",
		"Var: name *Token, initializer expr",
		"Block: stmts []Stmt",
		"If: condition expr, thenBranch Stmt, elseBranch Stmt",
		"While: condition expr, body Stmt",
		"Fn: name *Token, params []*Token, body []Stmt",
		"Return: keyword *Token, value expr",
		"Class: name *Token, superclass *variableExpr, methods []*fnStmt",
	},
	"Expr": {
		"Assign: name *Token, value expr, id int",
		"Binary: left expr, operator *Token, right expr",
		"Call: callee expr, paren *Token, arguments []expr",
		"Get: object expr, name *Token",
		"Set: object expr, name *Token, value expr",
		"Super: keyword *Token, method *Token, id int",
		"Grouping: expression expr",
		"Literal: value interface{}",
		"Logical: left expr, operator *Token, right expr",
		"This: keyword *Token, id int",
		"Unary: operator *Token, right expr",
		"Variable: name *Token, id int",
	},
}

func main() {
	if len(os.Args) != 2 {
		log.Fatal("Usage: ast Expr|Stmt")
	}
	types, ok := definitions[os.Args[1]]
	if !ok {
		log.Fatalf("unknown node set %q", os.Args[1])
	}
	out, err := format.Source([]byte(generateAst(os.Args[1], types)))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(out))
}

// interfaceName keeps statements exported so the driver can hold a program
func interfaceName(baseName string) string {
	if baseName == "Stmt" {
		return baseName
	}
	return strings.ToLower(baseName)
}

func generateAst(baseName string, types []string) string {
	out := "// Code generated by cmd/ast. DO NOT EDIT.\n\n"
	out += "package internal\n\n"

	// Start base interface
	out += "type " + interfaceName(baseName) + " interface {\n"
	out += "\taccept(" + strings.ToLower(baseName) + "Visitor) R\n"
	out += "}\n\n"
	// End base interface

	// Start Visitor interface
	out += fmt.Sprintf("type %sVisitor interface {\n", strings.ToLower(baseName))
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		name := strings.TrimSpace(typeDef[0])
		structType := strings.ToLower(string(name[0])) + name[1:] + baseName
		out += "\tvisit" + name + baseName + "(" + strings.ToLower(baseName) + " *" + structType + ") R\n"
	}
	out += "}\n\n"
	// End Visitor interface

	// Start  structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}
	// End structs

	return out
}

func generateType(baseName, name, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	fieldArray := strings.Split(fields, ",")
	for _, field := range fieldArray {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Method Definition
	out += "func (s *" + structName + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) R {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	// End Method Definition

	return out
}
