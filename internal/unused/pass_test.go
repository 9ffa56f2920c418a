package unused

import (
	"errors"
	"testing"

	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/parser"
	"github.com/HugoDaniel/jsprune/internal/printer"
	"github.com/HugoDaniel/jsprune/internal/test"
)

// ----------------------------------------------------------------------------
// Test Helpers (esbuild-style)
// ----------------------------------------------------------------------------

const externs = "function alert() {} var externVar;"

func parseRoot(t *testing.T, input string) *ast.Root {
	t.Helper()
	ext, errs := parser.New(externs).Parse()
	if len(errs) > 0 {
		t.Fatalf("extern parse errors: %v", errs)
	}
	prog, errs := parser.New(input).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return &ast.Root{Externs: ext, Programs: []*ast.Program{prog}}
}

// normalize prints src the way processed output is printed.
func normalize(t *testing.T, src string) string {
	t.Helper()
	prog, errs := parser.New(src).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors in expected output: %v", errs)
	}
	return printer.New(printer.Options{MinifyWhitespace: true}).Print(prog)
}

func process(t *testing.T, opts Options, input string) (string, Report) {
	t.Helper()
	root := parseRoot(t, input)
	report, err := New(opts).Process(root)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return printer.New(printer.Options{MinifyWhitespace: true}).Print(root.Programs[0]), report
}

func expectPrunedWith(t *testing.T, opts Options, input, expected string) {
	t.Helper()
	t.Run(input, func(t *testing.T) {
		t.Helper()
		actual, _ := process(t, opts, input)
		test.AssertEqualWithDiff(t, actual, normalize(t, expected))

		// The output is a fixpoint.
		again, report := process(t, opts, actual)
		test.AssertEqual(t, report.Changed, false)
		test.AssertEqualWithDiff(t, again, actual)
	})
}

func expectPruned(t *testing.T, input, expected string) {
	t.Helper()
	expectPrunedWith(t, DefaultOptions(), input, expected)
}

func expectSame(t *testing.T, input string) {
	t.Helper()
	expectPruned(t, input, input)
}

func options(f func(*Options)) Options {
	opts := DefaultOptions()
	f(&opts)
	return opts
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func TestVarDeclarations(t *testing.T) {
	expectPruned(t, "var a;", "")
	expectPruned(t, "var a = 1, b = 2; alert(b);", "var b = 2; alert(b);")
	expectPruned(t, "var a = alert();", "alert();")
	expectPruned(t, "var a = alert(), b = 1, c = 2; alert(c);", "alert(); var c = 2; alert(c);")
	expectPruned(t, "var a = 1; var b = a; var c = b;", "")
	expectPruned(t,
		"var a, b = foo(), c = i++, d; var e = boo(); var f; print(d);",
		"foo(); i++; var d; boo(); print(d);")
	expectPruned(t, "{ let x = 1; }", "{}")
	expectSame(t, "var a = 1; alert(a);")
	expectSame(t, "var _a = 1;")
}

func TestShadowedPureCalls(t *testing.T) {
	expectPruned(t, "var s = String(1);", "")
	expectPruned(t, "function Object() { alert(); } var x = Object();", "function Object() { alert(); } Object();")
	expectPruned(t, "function f(String) { var s = String(); } f(alert);", "function f(String) { String(); } f(alert);")
	expectPruned(t, "var Array = alert; var a = Array(1);", "var Array = alert; Array(1);")
}

func TestFunctionDeclarations(t *testing.T) {
	expectPruned(t, "function f() {}", "")
	expectPruned(t, "function f() { f(); }", "")
	expectPruned(t, "function f() { g(); } function g() { f(); }", "")
	expectPruned(t, "function A() { A(); } function B() { B(); } B();", "function B() { B(); } B();")
	expectPruned(t, "function f() { var x = 1; return 2; } alert(f());", "function f() { return 2; } alert(f());")
	expectSame(t, "function f() {} alert(f);")
}

func TestClassDeclarations(t *testing.T) {
	expectPruned(t, "class A {}", "")
	expectPruned(t, "class A { m() { return 1; } }", "")
	expectSame(t, "class A extends alert() {}")
	expectSame(t, "class A {} new A();")
}

func TestAssignments(t *testing.T) {
	expectPruned(t, "var a = 1; a = 2;", "")
	expectPruned(t, "var a; a = alert();", "alert();")
	expectPruned(t, "var a; alert() || (a = 1);", "alert() || 0;")
	expectPruned(t, "var a; externVar ? a = 1 : alert();", "externVar ? 0 : alert();")
	expectPruned(t, "var a; a = 1, alert();", "alert();")
	expectPruned(t, "var b = 0; var z; z = z = b = 1; alert(b);", "var b = 0; b = 1; alert(b);")
	expectPruned(t, "var b; var z = 0; z = z = b = 1; alert(z);", "var z = 0; z = z = 1; alert(z);")
	expectSame(t, "var a; alert(a = 1);")
	expectSame(t, "var a = 0; a++;")
	expectSame(t, "var a = 1; with (externVar) { a = 2; }")
}

func TestControlStructureBodies(t *testing.T) {
	expectPruned(t, "var x = 1; if (0) { x = 2; }", "if (0) {}")
	expectPruned(t, "var x = 1; if (0) x = 2;", "if (0) {}")
	expectPruned(t, "var x; while (externVar) x = 1;", "while (externVar) {}")
	expectPruned(t, "switch (externVar) { case 1: var y = 1; }", "switch (externVar) { case 1: }")
	expectPruned(t, "for (var i = 0; ;) {}", "for (;;) {}")
	expectPruned(t, "for (var i = alert(); ;) {}", "for (alert(); ;) {}")
	expectSame(t, "for (var i = 0; i < 3; i++) {}")
}

func TestAlwaysLive(t *testing.T) {
	expectSame(t, "for (var k in externVar) {}")
	expectSame(t, "try {} catch (e) {}")
	expectSame(t, "var o = {set x(v) {}}; alert(o);")
	expectSame(t, "function f(a) { return arguments; } f(1);")
}

// ----------------------------------------------------------------------------
// Functions
// ----------------------------------------------------------------------------

func TestParameters(t *testing.T) {
	expectPruned(t, "function f(a, b) { return a; } f(1, 2);", "function f(a) { return a; } f(1);")
	expectPruned(t, "function f(a, b) { return a; } f(1, alert());", "function f(a) { return a; } f(1, alert());")
	expectPruned(t, "function f(a = 1) {} f();", "function f() {} f();")
	expectPruned(t, "function f(a = 1, b) { return b; } f(1, 2);", "function f(a, b) { return b; } f(1, 2);")
	expectSame(t, "function f(a, b) { return b; } f(1, 2);")
	expectPruned(t,
		"function f(e, c, f, d, g) { return c + d; } f(1, 2);",
		"function f(e, c, f, d) { return c + d; } f(1, 2);")
	expectSame(t, "function f(a = alert()) {} f();")
	expectSame(t, "function f(p) { p.x = 1; } f({});")
}

func TestCallSiteTrimming(t *testing.T) {
	expectPruned(t, "function f(a) {} f(1); f(2);", "function f() {} f(); f();")
	expectPruned(t, "function f(a, b) { return a; } f(1, 2, 3);", "function f(a) { return a; } f(1, 2, 3);")
	expectPruned(t, "function f(a, b) { return a; } f(1); f(2, 3); f(4, 5, 6);", "function f(a) { return a; } f(1); f(2); f(4, 5, 6);")
	expectPruned(t, "function f(a, b, c) { return a; } f(1, alert(), 2);", "function f(a) { return a; } f(1, alert());")
	expectPruned(t, "function f(a, ...rest) { return a; } f(1, 2, 3);", "function f(a) { return a; } f(1);")

	// Arguments no parameter ever received are not trimmed.
	expectSame(t, "function f(a, b) { return b; } f(1, 2, 3);")
	expectSame(t, "function f() {} f(1, alert());")
	expectSame(t, "function goog$inherits() {} function a() {} var b = {}; goog$inherits(b.foo, a);")
	expectPruned(t, "var f = function(a) {}; f(1);", "var f = function() {}; f();")

	// Escaping functions keep their call sites.
	expectPruned(t, "function f(a) {} f(1); alert(f);", "function f() {} f(1); alert(f);")
	expectPruned(t, "function JSCompiler_renameProperty(a) {} JSCompiler_renameProperty(1);",
		"function JSCompiler_renameProperty() {} JSCompiler_renameProperty(1);")

	noTrim := options(func(o *Options) { o.TrimCallSites = false })
	expectPrunedWith(t, noTrim, "function f(a) {} f(1);", "function f() {} f(1);")
}

func TestFunctionExpressionNames(t *testing.T) {
	expectPruned(t, "var f = function g() {}; alert(f);", "var f = function() {}; alert(f);")
	expectPruned(t, "alert(class C {});", "alert(class {});")
	expectSame(t, "var f = function g() { return g; }; alert(f);")

	keep := options(func(o *Options) { o.PreserveFunctionExpressionNames = true })
	expectPrunedWith(t, keep, "var f = function g() {}; alert(f);", "var f = function g() {}; alert(f);")
}

func TestRemoveGlobalDisabled(t *testing.T) {
	locals := options(func(o *Options) { o.RemoveGlobal = false })
	expectPrunedWith(t, locals, "var a = 1; function f(x) {}", "var a = 1; function f(x) {}")
	expectPrunedWith(t, locals, "function f() { var a = 1; }", "function f() {}")
}

// ----------------------------------------------------------------------------
// Property Writes and Links
// ----------------------------------------------------------------------------

func TestPropertyWrites(t *testing.T) {
	expectPruned(t, "var a = {}; a.x = 1;", "")
	expectPruned(t, "var a = {}; a.x = alert();", "alert();")
	expectPruned(t, "var a = {}; a[alert()] = externVar;", "alert();")
	expectPruned(t, "function A() {} A.prototype.m = function() {};", "")
	expectSame(t, "function A() {} A.prototype.m = function() {}; new A();")
	expectSame(t, "var a = externVar; a.x = 1;")
	expectSame(t, "var a = {}; alert(a.x = 1);")
}

func TestLinks(t *testing.T) {
	expectPruned(t, "function A() {} function B() {} goog.inherits(B, A);", "")
	expectPruned(t, "function A() {} function B() {} goog.mixin(B.prototype, A.prototype);", "")
	expectPruned(t, "function A() {} function B() {} goog.inherits(B, A), alert();", "alert();")
	expectSame(t, "function A() {} function B() {} goog.inherits(B, A); new B();")
	expectSame(t, "function B() {} goog.inherits(B, alert());")

	// A base reached only through a dead link is dead too.
	expectPruned(t,
		"function A() {} function B() {} function C() {} goog.inherits(C, B); goog.inherits(B, A); new A();",
		"function A() {} new A();")
}

// ----------------------------------------------------------------------------
// Destructuring
// ----------------------------------------------------------------------------

func TestDestructuring(t *testing.T) {
	expectPruned(t, "var [a, b] = externVar; alert(b);", "var [, b] = externVar; alert(b);")
	expectPruned(t, "var [a, b] = externVar; alert(a);", "var [a] = externVar; alert(a);")
	expectPruned(t, "var {a, b} = externVar; alert(a);", "var {a} = externVar; alert(a);")
	expectPruned(t, "var [a, b, c] = []; use(a, c);", "var [a, , c] = []; use(a, c);")
	expectPruned(t, "var {a, b} = externVar;", "var {} = externVar;")
	expectPruned(t, "var {a, ...r} = externVar; alert(a);", "var {a} = externVar; alert(a);")
	expectPruned(t, "var {a = alert()} = externVar;", "var {a = alert()} = externVar;")
	expectSame(t, "var {a, ...r} = externVar; alert(r);")
	expectPruned(t, "function f({a, b}) { return a; } f(externVar);", "function f({a}) { return a; } f(externVar);")
}

// ----------------------------------------------------------------------------
// Modules
// ----------------------------------------------------------------------------

func TestModules(t *testing.T) {
	expectPruned(t, "export var a = 1; var b = 2;", "export var a = 1;")
	expectPruned(t, "var a = 1, b = 2; export { a };", "var a = 1; export { a };")
}

// ----------------------------------------------------------------------------
// Iteration
// ----------------------------------------------------------------------------

func TestReport(t *testing.T) {
	actual, report := process(t, DefaultOptions(), "var a = 1; function f(x) {} f(a);")
	test.AssertEqualWithDiff(t, actual, normalize(t, "function f() {} f();"))
	test.AssertEqual(t, report.Changed, true)
	test.AssertEqual(t, report.Iterations, 3)
	test.AssertEqual(t, report.Removed, 3)

	_, report = process(t, DefaultOptions(), "alert(externVar);")
	test.AssertEqual(t, report.Changed, false)
	test.AssertEqual(t, report.Iterations, 1)
}

func TestIterationLimit(t *testing.T) {
	opts := options(func(o *Options) { o.MaxIterations = 1 })
	root := parseRoot(t, "var a = 1; function f(x) {} f(a);")
	_, err := New(opts).Process(root)

	var internal *InternalError
	if !errors.As(err, &internal) {
		t.Fatalf("expected *InternalError, got %v", err)
	}
	test.AssertEqual(t, internal.Iterations, 1)
	if !errors.Is(err, ErrNoFixpoint) {
		t.Errorf("expected ErrNoFixpoint, got %v", err)
	}
}

func TestIdempotentAndCached(t *testing.T) {
	root := parseRoot(t, "function f() { var x = 1; } function g() { return 1; } alert(f, g);")
	p := New(DefaultOptions())
	if _, err := p.Process(root); err != nil {
		t.Fatal(err)
	}
	before := p.Scopes().Stats()

	report, err := p.Process(root)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, report.Changed, false)

	after := p.Scopes().Stats()
	test.AssertEqual(t, after.Built, before.Built)
	if after.Reused <= before.Reused {
		t.Errorf("expected cached scopes to be reused, stats %+v then %+v", before, after)
	}
}

func TestGolden(t *testing.T) {
	for _, c := range test.LoadGolden(t, "testdata") {
		t.Run(c.Name, func(t *testing.T) {
			actual, _ := process(t, DefaultOptions(), c.Input)
			test.AssertEqualWithDiff(t, actual, normalize(t, c.Output))
		})
	}
}
