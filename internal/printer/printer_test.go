package printer

import (
	"testing"

	"github.com/HugoDaniel/jsprune/internal/parser"
)

// ----------------------------------------------------------------------------
// Test Helpers (esbuild-style)
// ----------------------------------------------------------------------------

// expectPrinted verifies pretty-printed output.
func expectPrinted(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		prog, errs := parser.New(input).Parse()
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := New(Options{}).Print(prog)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// expectPrintedMinify verifies minified output (whitespace removed).
func expectPrintedMinify(t *testing.T, input string, expected string) {
	t.Helper()
	t.Run(input+"_minify", func(t *testing.T) {
		t.Helper()
		prog, errs := parser.New(input).Parse()
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		actual := New(Options{MinifyWhitespace: true}).Print(prog)
		if actual != expected {
			t.Errorf("\ninput:\n%s\nexpected:\n%s\nactual:\n%s", input, expected, actual)
		}
	})
}

// expectStable verifies that printing is a fixed point: the printed output
// parses and prints back to itself.
func expectStable(t *testing.T, input string) {
	t.Helper()
	t.Run(input+"_stable", func(t *testing.T) {
		t.Helper()
		prog, errs := parser.New(input).Parse()
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		for _, minify := range []bool{false, true} {
			once := New(Options{MinifyWhitespace: minify}).Print(prog)
			reparsed, errs := parser.New(once).Parse()
			if len(errs) > 0 {
				t.Fatalf("reparse errors in %q: %v", once, errs)
			}
			twice := New(Options{MinifyWhitespace: minify}).Print(reparsed)
			if once != twice {
				t.Errorf("unstable output:\nfirst:\n%s\nsecond:\n%s", once, twice)
			}
		}
	})
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func TestVarDecl(t *testing.T) {
	expectPrinted(t, "var a = 1, b", "var a = 1, b;\n")
	expectPrinted(t, "let [x, , y = 2, ...z] = arr", "let [x, , y = 2, ...z] = arr;\n")
	expectPrinted(t, "const {a, b: c, d = 1, ...e} = obj", "const {a, b: c, d = 1, ...e} = obj;\n")
	expectPrinted(t, "var [a, ,] = b", "var [a, ,] = b;\n")
	expectPrintedMinify(t, "var a = 1, b", "var a=1,b;")
	expectPrintedMinify(t, "const {a, b: c} = obj", "const{a,b:c}=obj;")
}

func TestFunctionDecl(t *testing.T) {
	expectPrinted(t, "function f(a, b = 1, ...c) {}", "function f(a, b = 1, ...c) {}\n")
	expectPrinted(t, "function f() { return 1 }", "function f() {\n    return 1;\n}\n")
	expectPrinted(t, "function* g() { yield 1; yield* h() }", "function* g() {\n    yield 1;\n    yield* h();\n}\n")
	expectPrintedMinify(t, "function f(a) { return a }", "function f(a){return a;}")
}

func TestClassDecl(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {}\n")
	expectPrinted(t, "class A extends B { constructor() { super() } static m() {} get x() {} }",
		"class A extends B {\n    constructor() {\n        super();\n    }\n    static m() {}\n    get x() {}\n}\n")
	expectPrintedMinify(t, "class A extends B { m() {} }", "class A extends B{m(){}}")
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func TestControlFlow(t *testing.T) {
	expectPrinted(t, "if (a) b(); else c()", "if (a) b();\nelse c();\n")
	expectPrinted(t, "if (a) { b() } else if (c) { d() }", "if (a) {\n    b();\n} else if (c) {\n    d();\n}\n")
	expectPrinted(t, "while (x) {}", "while (x) {}\n")
	expectPrinted(t, "do x(); while (y)", "do x();\nwhile (y);\n")
	expectPrinted(t, "for (var i = 0; i < n; i++) {}", "for (var i = 0; i < n; i++) {}\n")
	expectPrinted(t, "for (;;) ;", "for (;;);\n")
	expectPrinted(t, "for (var k in o) {}", "for (var k in o) {}\n")
	expectPrinted(t, "for (x of xs) {}", "for (x of xs) {}\n")
	expectPrinted(t, "label: for (;;) { break label; continue label }",
		"label: for (;;) {\n    break label;\n    continue label;\n}\n")
	expectPrintedMinify(t, "if (a) b(); else c()", "if(a)b();else c();")
	expectPrintedMinify(t, "for (var k in o) {}", "for(var k in o){}")
}

func TestDanglingElse(t *testing.T) {
	expectPrinted(t, "if (a) { if (b) c() } else d()", "if (a) {\n    if (b) c();\n} else d();\n")
}

func TestTryAndSwitch(t *testing.T) {
	expectPrinted(t, "try { a() } catch (e) {} finally {}", "try {\n    a();\n} catch (e) {} finally {}\n")
	expectPrinted(t, "try {} catch {}", "try {} catch {}\n")
	expectPrinted(t, "switch (x) { case 1: a(); default: }", "switch (x) {\ncase 1:\n    a();\ndefault:\n}\n")
}

func TestExports(t *testing.T) {
	expectPrinted(t, "export var a = 1", "export var a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {}\n")
	expectPrinted(t, "export default a + b", "export default a + b;\n")
	expectPrinted(t, "export { a, b as c }", "export {a, b as c};\n")
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func TestPrecedence(t *testing.T) {
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a + b * c", "a + b * c;\n")
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "(a, b)", "a, b;\n")
	expectPrinted(t, "f((a, b))", "f((a, b));\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "(a = b).c", "(a = b).c;\n")
	expectPrinted(t, "a ? b : c ? d : e", "a ? b : c ? d : e;\n")
	expectPrinted(t, "(a ? b : c) ? d : e", "(a ? b : c) ? d : e;\n")
	expectPrinted(t, "a ** b ** c", "a ** b ** c;\n")
	expectPrinted(t, "(a ** b) ** c", "(a ** b) ** c;\n")
	expectPrinted(t, "(-a) ** b", "(-a) ** b;\n")
	expectPrinted(t, "(a || b) ?? c", "(a || b) ?? c;\n")
	expectPrinted(t, "!(a && b)", "!(a && b);\n")
	expectPrinted(t, "typeof a", "typeof a;\n")
	expectPrinted(t, "- -a", "- -a;\n")
	expectPrinted(t, "a + +b", "a + +b;\n")
	expectPrintedMinify(t, "a + +b", "a+ +b;")
	expectPrintedMinify(t, "a - -b", "a- -b;")
	expectPrintedMinify(t, "a in b", "a in b;")
}

func TestCallsAndMembers(t *testing.T) {
	expectPrinted(t, "a.b.c(d)[e]", "a.b.c(d)[e];\n")
	expectPrinted(t, "new A", "new A();\n")
	expectPrinted(t, "new A.B(c)", "new A.B(c);\n")
	expectPrinted(t, "new (f())()", "new (f())();\n")
	expectPrinted(t, "new A().b", "new A().b;\n")
	expectPrinted(t, "a?.b?.(c)?.[d]", "a?.b?.(c)?.[d];\n")
	expectPrinted(t, "f(...args)", "f(...args);\n")
	expectPrinted(t, "(1).toString()", "(1).toString();\n")
	expectPrinted(t, "tag`a${b}c`", "tag`a${b}c`;\n")
}

func TestStatementStartParens(t *testing.T) {
	expectPrinted(t, "(function () {})()", "(function() {}());\n")
	expectPrinted(t, "({}).toString()", "({}.toString());\n")
	expectPrinted(t, "({a} = b)", "({a} = b);\n")
	expectPrinted(t, "(class {})", "(class {});\n")
	expectPrinted(t, "x = function () {}", "x = function() {};\n")
}

func TestArrows(t *testing.T) {
	expectPrinted(t, "a => a", "(a) => a;\n")
	expectPrinted(t, "(a, b) => { return a }", "(a, b) => {\n    return a;\n};\n")
	expectPrinted(t, "() => ({})", "() => ({});\n")
	expectPrinted(t, "(() => 1)()", "(() => 1)();\n")
	expectPrinted(t, "f(a => b, c)", "f((a) => b, c);\n")
}

func TestLiterals(t *testing.T) {
	expectPrinted(t, "[a, , b]", "[a, , b];\n")
	expectPrinted(t, "[a, ,]", "[a, ,];\n")
	expectPrinted(t, "x = {a: 1, b, [c]: 2, ...d, m() {}, get g() {}, set s(v) {}}",
		"x = {a: 1, b, [c]: 2, ...d, m() {}, get g() {}, set s(v) {}};\n")
	expectPrinted(t, "x = /re/g", "x = /re/g;\n")
	expectPrinted(t, "x = `plain`", "x = `plain`;\n")
	expectPrintedMinify(t, "x = a / /re/", "x=a/ /re/;")
}

func TestForInitForbidsIn(t *testing.T) {
	expectPrinted(t, "for (var a = (b in c); ;) {}", "for (var a = (b in c);;) {}\n")
	expectPrinted(t, "for (var a = f(b in c); ;) {}", "for (var a = f(b in c);;) {}\n")
}

func TestRoundTripStable(t *testing.T) {
	expectStable(t, "var a = function () { return { x: 1 } }")
	expectStable(t, "if (a) if (b) c(); else d(); else e()")
	expectStable(t, "({ a, b: [c] } = d)")
	expectStable(t, "for (let [k, v] of m) { use(k, v) }")
	expectStable(t, "a = b ? c => c : d")
	expectStable(t, "x = a ?? (b || c)")
	expectStable(t, "class A { static *gen() { yield; } }")
}
