package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Report(err error) {
	var syntaxErr *SyntaxError
	var runErr *RuntimeError
	if errors.As(err, &syntaxErr) {
		t.Println(fmt.Sprintf("[line %d] Error%s: %s", syntaxErr.Line, syntaxErr.Where, syntaxErr.Error()))
	} else if errors.As(err, &runErr) {
		t.Println(fmt.Sprintf("Runtime Error on line %d\n\t%s", runErr.Token.Line, runErr.Error()))
	}
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func checkExpression(t *testing.T, exp string, result ...string) {
	source := "print " + exp + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	any := false
	for _, r := range result {
		if tp.Equals(r) {
			any = true
			break
		}
	}
	if !any {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	result := fmt.Sprintf("Runtime Error on line %d\n\t%s", line, errorMsg)
	checkOutput(t, source, result)
}

func checkSyntaxError(t *testing.T, source string, errorMsgs ...string) {
	checkOutput(t, source, strings.Join(errorMsgs, "\n"))
}

func checkOutput(t *testing.T, source string, result string) {
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	if strings.TrimSuffix(tp.printed, "\n") != result {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s----",
			source,
			result,
			tp.printed,
		)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	source := code + "\nprint " + resultVar + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\t%s should be equal to %s instead of %s",
			code,
			resultVar,
			result,
			tp.printed,
		)
	}
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		// Number
		checkExpression(t, "1", "1")

		// Negative
		checkExpression(t, "-1", "-1")

		// Add numbers
		checkExpression(t, "1 + 2 + 3", "6")

		// Subtract numbers
		checkExpression(t, "8 - 2", "6")

		// Multiply numbers
		checkExpression(t, "1 * 2 * 3", "6")

		// Divide numbers
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "7 / 2", "3.5")

		// Fractions
		checkExpression(t, "1.5 + 1.5", "3")
		checkExpression(t, "2.25", "2.25")

		// Non-finite and extreme values
		checkExpression(t, "1 / 0", "Infinity")
		checkExpression(t, "-1 / 0", "-Infinity")
		checkExpression(t, "0 / 0", "NaN")
		checkExpression(t, "-0", "0")
		checkExpression(t, "100000000000000000000000", "1e+23")
		checkExpression(t, "123456789012345680000", "123456789012345680000")
		checkExpression(t, "1.5 / 10000000", "1.5e-7")
		checkExpression(t, "0.000001", "0.000001")

		// Precedence and associativity
		checkExpression(t, "2 + 3 * 4", "14")
		checkExpression(t, "(2 + 3) * 4", "20")
		checkExpression(t, "10 - 4 - 3", "3")
		checkExpression(t, "100 / 10 / 5", "2")
		checkExpression(t, "-2 * -3", "6")
		checkExpression(t, "--3", "3")
	}

	// Comparison
	{
		checkExpression(t, "1 < 2", "true")
		checkExpression(t, "2 <= 2", "true")
		checkExpression(t, "3 > 4", "false")
		checkExpression(t, "3 >= 3", "true")
		checkExpression(t, "1 + 2 == 3", "true")
		checkExpression(t, "1 < 2 == true", "true")
	}

	// Equality
	{
		checkExpression(t, "1 == 1", "true")
		checkExpression(t, "1 != 1", "false")
		checkExpression(t, `"a" == "a"`, "true")
		checkExpression(t, `"a" != "b"`, "true")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, "true == true", "true")
	}

	// Logical
	{
		// 'true' literal
		checkExpression(t, "true", "true")

		// 'false' literal
		checkExpression(t, "false", "false")

		// 'nil' literal
		checkExpression(t, "nil", "nil")

		// not
		checkExpression(t, "!false", "true")
		checkExpression(t, "!true", "false")
		checkExpression(t, "!nil", "true")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!0", "false")
		checkExpression(t, "!!1", "true")

		// and
		checkExpression(t, "true and true", "true")
		checkExpression(t, "false and true", "false")
		checkExpression(t, "true and false", "false")
		checkExpression(t, "nil and 1", "nil")
		checkExpression(t, "1 and 2", "2")

		// or
		checkExpression(t, "false or false", "false")
		checkExpression(t, "false or true", "true")
		checkExpression(t, "nil or 3", "3")
		checkExpression(t, `"hi" or 2`, "hi")
		checkExpression(t, "false or nil", "nil")
	}

	// Strings
	{
		checkExpression(t, `"1" + "1"`, "11")
		checkExpression(t, `"foo" + "bar"`, "foobar")
		checkExpression(t, `""`, "")
	}
}

func TestPrecedenceMatchesParenthesizedForm(t *testing.T) {
	cases := []struct {
		exp           string
		parenthesized string
	}{
		{"1 + 2 * 3 - 4 / 2", "(1 + (2 * 3)) - (4 / 2)"},
		{"-1 * -2 + 3", "((-1) * (-2)) + 3"},
		{"1 < 2 == 3 > 4", "(1 < 2) == (3 > 4)"},
		{"2 * 3 + 4 * 5 < 30", "((2 * 3) + (4 * 5)) < 30"},
		{"1 - 2 - 3 - 4", "((1 - 2) - 3) - 4"},
		{"8 / 4 / 2 * 3", "((8 / 4) / 2) * 3"},
		{"1 == 1 and 2 < 1 or 3 >= 3", "((1 == 1) and (2 < 1)) or (3 >= 3)"},
	}
	for _, c := range cases {
		expected := &testPrinter{}
		RunSourceWithPrinter("print "+c.parenthesized+";", expected)
		checkExpression(t, c.exp, strings.TrimSuffix(expected.printed, "\n"))
	}
}

func TestStatements(t *testing.T) {

	// Variables
	{
		checkStatements(t, "var a;", "a", "nil")
		checkStatements(t, "var a = 1;", "a", "1")
		checkStatements(t, "var a = 1; a = 2;", "a", "2")
		checkStatements(t, "var a; var b; a = b = 3;", "a", "3")
		checkStatements(t, "var a = 1; var a = 2;", "a", "2")
	}

	// Blocks and shadowing
	{
		checkOutput(t, "var a = 1; { var a = a + 1; print a; } print a;", "2\n1")
		checkOutput(t, "{ var a = 1; { var a = a + 1; print a; } print a; }", "2\n1")
		checkOutput(t, "var a = 1; { a = 5; } print a;", "5")
	}

	// If
	{
		checkOutput(t, `if (1 > 2) print "a"; else print "b";`, "b")
		checkOutput(t, `if (0) print "zero is truthy";`, "zero is truthy")
		checkOutput(t, `if (true) if (false) print "a"; else print "b";`, "b")
		checkOutput(t, `if (nil) print "a";`, "")
	}

	// While
	{
		checkStatements(t, "var i = 0; while (i < 3) { i = i + 1; }", "i", "3")
	}

	// For
	{
		checkOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2")
		checkOutput(t, "var i = 0; for (; i < 2;) { print i; i = i + 1; }", "0\n1")
		checkOutput(t, "var i; for (i = 5; i < 7; i = i + 1) print i; print i;", "5\n6\n7")
		checkOutput(t, `fun f() { for (;;) { return "done"; } } print f();`, "done")
	}
}

func TestFunctions(t *testing.T) {
	checkOutput(t, "fun f() {} print f;", "<fn f>")
	checkOutput(t, "fun f() {} print f();", "nil")
	checkOutput(t, "fun f() { return; } print f();", "nil")
	checkOutput(t, "print clock;", "<native fn>")
	checkOutput(t, "print clock() > 0;", "true")
	checkOutput(t, "fun add(a, b) { return a + b; } print add(1, 2);", "3")

	checkOutput(t, `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
print fib(10);`, "55")

	// Forward references between globals
	checkOutput(t, `
fun isEven(n) { if (n == 0) return true; return isOdd(n - 1); }
fun isOdd(n) { if (n == 0) return false; return isEven(n - 1); }
print isEven(10);`, "true")

	// Return unwinds nested blocks and loops
	checkOutput(t, `
fun find() {
	var i = 0;
	while (true) {
		{
			if (i == 3) return i;
		}
		i = i + 1;
	}
}
print find();`, "3")
}

func TestClosures(t *testing.T) {
	checkOutput(t, `
fun makeCounter() {
	var n = 0;
	fun count() {
		n = n + 1;
		return n;
	}
	return count;
}
var counter = makeCounter();
print counter();
print counter();`, "1\n2")

	// Two counters do not share state
	checkOutput(t, `
fun makeCounter() {
	var n = 0;
	fun count() { n = n + 1; return n; }
	return count;
}
var a = makeCounter();
var b = makeCounter();
a();
a();
print a();
print b();`, "3\n1")

	// Lexical, not dynamic, scoping
	checkOutput(t, `
var a = "global";
{
	fun showA() {
		print a;
	}
	showA();
	var a = "block";
	showA();
}`, "global\nglobal")

	// Closures sharing one frame
	checkOutput(t, `
fun pair() {
	var v = 0;
	fun set(x) { v = x; }
	fun get() { return v; }
	set(42);
	return get;
}
print pair()();`, "42")
}

func TestClasses(t *testing.T) {
	checkOutput(t, "class C {} print C;", "C")
	checkOutput(t, "class C {} print C();", "C instance")

	checkOutput(t, `
class Point {
	init(x, y) {
		this.x = x;
		this.y = y;
	}
	sum() {
		return this.x + this.y;
	}
}
var p = Point(1, 2);
print p.sum();`, "3")

	// Fields
	checkOutput(t, "class C {} var c = C(); c.x = 1; c.x = c.x + 1; print c.x;", "2")
	checkOutput(t, "class C { m() { return 1; } } var c = C(); c.m = 2; print c.m;", "2")

	// Bound methods remember this
	checkOutput(t, `
class C {
	init() { this.v = 7; }
	get() { return this.v; }
}
var m = C().get;
print m();`, "7")

	// Initializer always yields the instance
	checkOutput(t, "class Foo { init() { return; } } var f = Foo(); print f.init();", "Foo instance")
	checkOutput(t, `
class Foo {
	init() {
		this.n = 1;
		return;
		this.n = 2;
	}
}
print Foo().n;`, "1")

	// Reference equality
	checkOutput(t, "class C {} var a = C(); var b = C(); print a == a; print a == b;", "true\nfalse")

	// Class refers to itself inside its methods
	checkOutput(t, `
class Node {
	make() { return Node(); }
}
print Node().make();`, "Node instance")
}

func TestInheritance(t *testing.T) {
	checkOutput(t, `
class A {
	method() {
		print "A";
	}
}
class B < A {
	method() {
		print "B";
		super.method();
	}
}
B().method();`, "B\nA")

	// this inside the superclass method is the subclass instance
	checkOutput(t, `
class A {
	method() { print this.name(); }
	name() { return "A"; }
}
class B < A {
	name() { return "B"; }
	test() { super.method(); }
}
B().test();`, "B")

	// super is bound statically
	checkOutput(t, `
class A { say() { print "A"; } }
class B < A { say() { super.say(); } }
class C < B {}
C().say();`, "A")

	checkOutput(t, "class A { init(x) { this.x = x; } } class B < A {} print B(5).x;", "5")
	checkOutput(t, `class A { m() { return "a"; } } class B < A {} class C < B {} print C().m();`, "a")
	checkOutput(t, `
class A { init(v) { this.v = v; } }
class B < A {
	init() {
		super.init(10);
		this.w = this.v * 2;
	}
}
print B().w;`, "20")
}

func TestRuntimeErrors(t *testing.T) {
	checkErrorMsg(t, `print 1 + "1"; print "after";`, "Operands must be two numbers or two strings.", 1)
	checkErrorMsg(t, `print "1" + 1;`, "Operands must be two numbers or two strings.", 1)
	checkErrorMsg(t, `print -"a";`, "Operand must be a number.", 1)
	checkErrorMsg(t, `print 1 < "a";`, "Operands must be two numbers.", 1)
	checkErrorMsg(t, `print nil * 2;`, "Operands must be two numbers.", 1)
	checkErrorMsg(t, "print undefinedVar;", "Undefined variable 'undefinedVar'.", 1)
	checkErrorMsg(t, "x = 1;", "Undefined variable 'x'.", 1)
	checkErrorMsg(t, `"str"();`, "Can only call functions and classes.", 1)
	checkErrorMsg(t, "fun f(a) {} f();", "Expected 1 arguments but got 0.", 1)
	checkErrorMsg(t, "print clock(1);", "Expected 0 arguments but got 1.", 1)
	checkErrorMsg(t, "print 1.x;", "Only instances have properties.", 1)
	checkErrorMsg(t, "var a = 1; a.x = 2;", "Only instances have fields.", 1)
	checkErrorMsg(t, "class C {} C().foo;", "Undefined property 'foo'.", 1)
	checkErrorMsg(t, `var NotClass = "x"; class B < NotClass {}`, "Superclass must be a class.", 1)
	checkErrorMsg(t, "fun f() { f(); } f();", "Stack overflow.", 1)

	// Arity is checked before the initializer runs
	checkErrorMsg(t, `
class P {
	init(x) {
		print "init";
		this.x = x;
	}
}
P(1, 2);`, "Expected 1 arguments but got 2.", 8)

	checkOutput(t, "print 1;\nprint nil + 1;\nprint 2;",
		"1\nRuntime Error on line 2\n\tOperands must be two numbers or two strings.")
}

func TestSyntaxErrors(t *testing.T) {
	// Both errors are reported, nothing runs
	checkSyntaxError(t, "var = 1;\nprint (1;\nprint \"ok\";",
		"[line 1] Error at '=': Expect variable name.",
		"[line 2] Error at ';': Expect ')' after expression.",
	)
	checkSyntaxError(t, "1 = 2;", "[line 1] Error at '=': Invalid assignment target.")
	checkSyntaxError(t, "print", "[line 1] Error at end: Expect expression.")
	checkSyntaxError(t, "print @;",
		"[line 1] Error: Unexpected character.",
		"[line 1] Error at ';': Expect expression.",
	)
	checkSyntaxError(t, `print "abc`,
		"[line 1] Error: Unterminated string.",
		"[line 1] Error at end: Expect expression.",
	)

	args := strings.TrimSuffix(strings.Repeat("1, ", 256), ", ")
	checkSyntaxError(t, "fun f() {} f("+args+");",
		"[line 1] Error at '1': Can't have more than 255 arguments.")
}

func TestResolutionErrors(t *testing.T) {
	checkSyntaxError(t, "return 1;", "[line 1] Error at 'return': Can't return from top-level code.")
	checkSyntaxError(t, "{ var a = 1; var a = 2; }",
		"[line 1] Error at 'a': Already a variable with this name in this scope.")
	checkSyntaxError(t, "fun f(a, a) {}",
		"[line 1] Error at 'a': Already a variable with this name in this scope.")
	checkSyntaxError(t, "print this;", "[line 1] Error at 'this': Can't use 'this' outside of a class.")
	checkSyntaxError(t, "fun f() { return this; }", "[line 1] Error at 'this': Can't use 'this' outside of a class.")
	checkSyntaxError(t, "print super.x;", "[line 1] Error at 'super': Can't use 'super' outside of a class.")
	checkSyntaxError(t, "class A { m() { super.m(); } }",
		"[line 1] Error at 'super': Can't use 'super' in a class with no superclass.")
	checkSyntaxError(t, "class A < A {}", "[line 1] Error at 'A': A class can't inherit from itself.")
	checkSyntaxError(t, "class A { init() { return 1; } }",
		"[line 1] Error at 'return': Can't return a value from an initializer.")

	// The pass goes on after an error
	checkSyntaxError(t, "return 1;\nprint this;",
		"[line 1] Error at 'return': Can't return from top-level code.",
		"[line 2] Error at 'this': Can't use 'this' outside of a class.",
	)
}

func BenchmarkWhileLoop(b *testing.B) {
	source := `
var a = 1;
while (a < 100000) {
	a = a + 1;
}`
	for i := 0; i < b.N; i++ {
		RunSourceWithPrinter(source, discardPrinter{})
	}
}
