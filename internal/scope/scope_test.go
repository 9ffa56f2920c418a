package scope

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/parser"
)

// ----------------------------------------------------------------------------
// Test Helpers
// ----------------------------------------------------------------------------

func parseRoot(t *testing.T, externs string, sources ...string) *ast.Root {
	t.Helper()
	root := &ast.Root{}
	if externs != "" {
		prog, errs := parser.New(externs).Parse()
		if len(errs) > 0 {
			t.Fatalf("extern parse errors: %v", errs)
		}
		root.Externs = prog
	}
	for _, src := range sources {
		prog, errs := parser.New(src).Parse()
		if len(errs) > 0 {
			t.Fatalf("parse errors: %v", errs)
		}
		root.Programs = append(root.Programs, prog)
	}
	return root
}

// functions returns the functions of the tree in source order.
func functions(root *ast.Root) []*ast.Function {
	var fns []*ast.Function
	ast.Inspect(root, func(n ast.Node) bool {
		if fn, ok := n.(*ast.Function); ok {
			fns = append(fns, fn)
		}
		return true
	})
	return fns
}

func firstOf[T ast.Node](root ast.Node) T {
	var found T
	done := false
	ast.Inspect(root, func(n ast.Node) bool {
		if done {
			return false
		}
		if v, ok := n.(T); ok {
			found, done = v, true
			return false
		}
		return true
	})
	return found
}

func names(s *Scope) []string {
	var out []string
	for _, b := range s.Bindings() {
		out = append(out, b.Name)
	}
	return out
}

func expectNames(t *testing.T, s *Scope, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, names(s)); diff != "" {
		t.Errorf("%s scope bindings mismatch (-want +got):\n%s", s.Kind, diff)
	}
}

func expectNestingPanic(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(*NestingError)
		if !ok {
			t.Fatalf("panic value %T, want *NestingError", r)
		}
		if !errors.Is(err, target) {
			t.Errorf("panic %v does not wrap %v", err, target)
		}
	}()
	f()
}

// ----------------------------------------------------------------------------
// Declarations
// ----------------------------------------------------------------------------

func TestGlobalScopeDeclarations(t *testing.T) {
	root := parseRoot(t,
		"function alert() {} var externVar;",
		"var a = 1; { var b; let c; } function f() { var d; } class K {} let e;",
	)
	c := NewCreator()
	global := c.CreateScope(root, nil)

	if global.Kind != KindGlobal {
		t.Fatalf("kind = %v, want global", global.Kind)
	}
	expectNames(t, global, "alert", "externVar", "f", "K", "e", "a", "b")

	if b := global.Get("alert"); !b.Extern {
		t.Error("alert should be an extern binding")
	}
	if b := global.Get("a"); b.Extern || b.Kind != GlobalVar {
		t.Errorf("a = %v, extern=%v; want a non-extern global var", b, b.Extern)
	}
	if b := global.Get("K"); b.Kind != BlockScoped {
		t.Errorf("class K kind = %v, want block-scoped", b.Kind)
	}
}

func TestFunctionScopeDeclarations(t *testing.T) {
	root := parseRoot(t, "", `
		function f(a, [b, c = 1], {d}, ...e) {
			var v;
			if (a) { var w; let blockOnly; }
			for (var i = 0; ; ) {}
			function inner() {}
			let l;
		}
	`)
	c := NewCreator()
	global := c.CreateScope(root, nil)
	fn := functions(root)[0]
	fs := c.CreateScope(fn, global)

	expectNames(t, fs, "a", "b", "c", "d", "e", "inner", "l", "v", "w", "i")
	if fs.Get("f") != nil {
		t.Error("a function declaration's name belongs to the enclosing scope")
	}
	if got := fs.Get("a").Kind; got != Parameter {
		t.Errorf("a kind = %v, want parameter", got)
	}
	if got := fs.Get("v").Kind; got != LocalVar {
		t.Errorf("v kind = %v, want local-var", got)
	}
	if global.Get("f") == nil {
		t.Error("f should be declared globally")
	}
}

func TestFunctionExpressionName(t *testing.T) {
	root := parseRoot(t, "", "var x = function g() { return g; }; var y = function h() { var h; };")
	c := NewCreator()
	global := c.CreateScope(root, nil)
	fns := functions(root)

	gs := c.CreateScope(fns[0], global)
	if b := gs.Get("g"); b == nil || b.Kind != FunctionName {
		t.Errorf("g should be a function-expression name, got %v", b)
	}
	if global.Get("g") != nil {
		t.Error("expression name must not leak into the enclosing scope")
	}

	hs := c.CreateScope(fns[1], global)
	if b := hs.Get("h"); b == nil || b.Kind != LocalVar {
		t.Errorf("var h should shadow the expression name, got %v", b)
	}
	expectNames(t, hs, "h")
}

func TestRedeclarationKeepsFirstBinding(t *testing.T) {
	root := parseRoot(t, "", "function f(a) { var a; var b; var b; }")
	c := NewCreator()
	fs := c.CreateScope(functions(root)[0], c.CreateScope(root, nil))

	expectNames(t, fs, "a", "b")
	if fs.Get("a").Kind != Parameter {
		t.Error("var a should not replace the parameter binding")
	}
}

func TestNestedScopeKinds(t *testing.T) {
	root := parseRoot(t, "", `
		try {} catch (err) { let inCatch; }
		for (let i = 0; ; ) {}
		for (const k of ks) {}
		switch (x) { case 1: let inSwitch; }
		var C = class D {};
	`)
	c := NewCreator()
	global := c.CreateScope(root, nil)

	catchScope := c.CreateScope(firstOf[*ast.CatchClause](root), global)
	if catchScope.Kind != KindCatch || catchScope.Get("err").Kind != CatchParam {
		t.Errorf("catch scope = %v %v", catchScope.Kind, names(catchScope))
	}
	catchBody := c.CreateScope(firstOf[*ast.CatchClause](root).Body, catchScope)
	expectNames(t, catchBody, "inCatch")

	loop := c.CreateScope(firstOf[*ast.ForStmt](root), global)
	if loop.Kind != KindLoop {
		t.Errorf("for-let kind = %v, want loop", loop.Kind)
	}
	expectNames(t, loop, "i")

	forOf := c.CreateScope(firstOf[*ast.ForInStmt](root), global)
	expectNames(t, forOf, "k")

	sw := c.CreateScope(firstOf[*ast.SwitchStmt](root), global)
	expectNames(t, sw, "inSwitch")

	class := c.CreateScope(firstOf[*ast.Class](root), global)
	if class.Kind != KindClass || class.Get("D").Kind != ClassName {
		t.Errorf("class scope = %v %v", class.Kind, names(class))
	}
	expectNames(t, global, "C")
}

func TestModuleScope(t *testing.T) {
	root := parseRoot(t, "", "var script;", "export var exported; var local;")
	c := NewCreator()
	global := c.CreateScope(root, nil)
	expectNames(t, global, "script")

	mod := c.CreateScope(root.Programs[1], global)
	if mod.Kind != KindModule {
		t.Fatalf("kind = %v, want module", mod.Kind)
	}
	expectNames(t, mod, "exported", "local")
	if got := mod.Get("local").Kind; got != LocalVar {
		t.Errorf("module var kind = %v, want local-var", got)
	}
}

func TestLookupWalksParents(t *testing.T) {
	root := parseRoot(t, "", "var outer; function f(p) { { let inner; } }")
	c := NewCreator()
	global := c.CreateScope(root, nil)
	fn := functions(root)[0]
	fs := c.CreateScope(fn, global)
	block := c.CreateScope(fn.Body.Body[0].(*ast.BlockStmt), fs)

	if b := block.Lookup("outer"); b == nil || b.Scope != global {
		t.Errorf("outer resolved to %v", b)
	}
	if b := block.Lookup("p"); b == nil || b.Scope != fs {
		t.Errorf("p resolved to %v", b)
	}
	if block.Lookup("missing") != nil {
		t.Error("unknown names should not resolve")
	}
	if block.Hoisting() != fs || global.Hoisting() != global {
		t.Error("Hoisting returned the wrong scope")
	}
}

// ----------------------------------------------------------------------------
// Memoization and Invalidation
// ----------------------------------------------------------------------------

func TestFrozenCreatorMemoizes(t *testing.T) {
	root := parseRoot(t, "", "function f() {}")
	c := NewCreator()
	c.Freeze()

	global := c.CreateScope(root, nil)
	if c.CreateScope(root, nil) != global {
		t.Error("global scope should be returned from the cache")
	}
	fs := c.CreateScope(functions(root)[0], global)
	if c.CreateScope(functions(root)[0], global) != fs {
		t.Error("function scope should be returned from the cache")
	}
	if got := c.Stats(); got.Built != 2 || got.Reused != 2 {
		t.Errorf("stats = %+v, want 2 built and 2 reused", got)
	}
}

func TestThawedCreatorBuildsFreshScopes(t *testing.T) {
	root := parseRoot(t, "", "var a;")
	c := NewCreator()
	if c.IsFrozen() {
		t.Fatal("a new Creator starts thawed")
	}
	if c.CreateScope(root, nil) == c.CreateScope(root, nil) {
		t.Error("thawed reads must not be cached")
	}
}

func TestFrozenCacheIgnoresUnreportedEdits(t *testing.T) {
	root := parseRoot(t, "", "var a; var b;")
	c := NewCreator()
	c.Freeze()
	global := c.CreateScope(root, nil)

	// Remove "var b" without reporting it
	prog := root.Programs[0]
	prog.Body = prog.Body[:1]

	if got := c.CreateScope(root, nil); got != global || got.Get("b") == nil {
		t.Error("frozen cache should return the stale scope")
	}
}

func TestGlobalChangeKeepsSiblingFunctionScopes(t *testing.T) {
	root := parseRoot(t, "", "function f() { var x; } function g() { var y; } var z;")
	c := NewCreator()
	c.Freeze()
	global := c.CreateScope(root, nil)
	fns := functions(root)
	fs := c.CreateScope(fns[0], global)
	gs := c.CreateScope(fns[1], global)

	c.Thaw()
	prog := root.Programs[0]
	prog.Body = prog.Body[:2] // drop "var z"
	c.ReportChange(root)
	c.Freeze()

	newGlobal := c.CreateScope(root, nil)
	if newGlobal == global {
		t.Error("global scope should be rebuilt after a global change")
	}
	if newGlobal.Get("z") != nil {
		t.Error("rebuilt global scope should not declare z")
	}
	if c.CreateScope(fns[0], newGlobal) != fs {
		t.Error("f scope should keep its identity")
	}
	if c.CreateScope(fns[1], newGlobal) != gs {
		t.Error("g scope should keep its identity")
	}
	if fs.Parent != newGlobal {
		t.Error("kept scopes should be re-parented to the rebuilt global scope")
	}
}

func TestNestedChangeInvalidatesPathToRoot(t *testing.T) {
	root := parseRoot(t, "", "function f() { { var x; } } function g() {}")
	c := NewCreator()
	c.Freeze()
	global := c.CreateScope(root, nil)
	fns := functions(root)
	fs := c.CreateScope(fns[0], global)
	inner := fns[0].Body.Body[0].(*ast.BlockStmt)
	bs := c.CreateScope(inner, fs)
	gs := c.CreateScope(fns[1], global)

	c.Thaw()
	inner.Body = nil
	c.ReportChange(inner)
	c.Freeze()

	newGlobal := c.CreateScope(root, nil)
	newF := c.CreateScope(fns[0], newGlobal)
	newB := c.CreateScope(inner, newF)

	if newGlobal == global || newF == fs || newB == bs {
		t.Error("every scope on the path from the edit to the root should be rebuilt")
	}
	if newF.Get("x") != nil {
		t.Error("hoisted var x should be gone after the rebuild")
	}
	if c.CreateScope(fns[1], newGlobal) != gs {
		t.Error("g scope is off the edited path and should keep its identity")
	}
}

func TestDetachedScopesArePurged(t *testing.T) {
	root := parseRoot(t, "", "function f() { function inner() { { } } }")
	c := NewCreator()
	c.Freeze()
	global := c.CreateScope(root, nil)
	fns := functions(root)
	fs := c.CreateScope(fns[0], global)
	is := c.CreateScope(fns[1], fs)
	c.CreateScope(fns[1].Body.Body[0].(*ast.BlockStmt), is)

	c.Thaw()
	fns[0].Body.Body = nil
	c.ReportChange(fns[0])
	c.Freeze()

	fs = c.CreateScope(fns[0], c.CreateScope(root, nil))
	if _, ok := c.cache[fns[1]]; ok {
		t.Error("detached function scope should be purged")
	}
	if len(c.cache) != 2 {
		t.Errorf("cache holds %d scopes, want 2", len(c.cache))
	}
	expectNestingPanic(t, ErrMismatchedNesting, func() {
		c.CreateScope(fns[1], fs)
	})
}

// ----------------------------------------------------------------------------
// Nesting Errors
// ----------------------------------------------------------------------------

func TestNestingErrors(t *testing.T) {
	root := parseRoot(t, "", "function f() { function inner() {} } function g() {}")
	c := NewCreator()
	global := c.CreateScope(root, nil)
	fns := functions(root)
	gs := c.CreateScope(fns[2], global)

	expectNestingPanic(t, ErrInvalidArgument, func() {
		c.CreateScope(root, global)
	})
	expectNestingPanic(t, ErrInvalidArgument, func() {
		c.CreateScope(fns[0], nil)
	})
	// inner is nested in f, not g
	fs := c.CreateScope(fns[0], global)
	expectNestingPanic(t, ErrMismatchedNesting, func() {
		c.CreateScope(fns[1], gs)
	})
	if c.CreateScope(fns[1], fs) == nil {
		t.Error("correctly nested request should succeed")
	}
}
