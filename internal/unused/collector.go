package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/scope"
)

// walker visits code that is known to be reachable. It is passed by value,
// so nested contexts are plain copies.
type walker struct {
	a      *analysis
	scope  *scope.Scope
	fn     *fnInfo // nearest enclosing non-arrow function
	inWith bool    // names may resolve to properties of a with object
}

// collect walks every program of root. Top-level statements that are not
// declarations are roots; declarations defer their values until live.
func (a *analysis) collect(root *ast.Root) {
	w := walker{a: a, scope: a.scopes.CreateScope(root, nil)}
	for _, prog := range root.Programs {
		w.child(prog).stmts(prog.Body)
	}
}

func (w walker) enter(n ast.ScopeNode) walker {
	w.scope = w.a.scopes.CreateScope(n, w.scope)
	return w
}

// child enters n if n opens a scope nested in the current one.
func (w walker) child(n ast.Node) walker {
	if sn, ok := scope.Nested(n, w.scope.Node); ok {
		return w.enter(sn)
	}
	return w
}

// resolve returns the binding id refers to, or nil for an unresolved name.
func (w walker) resolve(id *ast.Identifier) *binding {
	sb := w.scope.Lookup(id.Name)
	if sb == nil {
		return nil
	}
	b := w.a.info(sb)
	w.a.idents[id] = b
	return b
}

func (w walker) pure(e ast.Expr) bool {
	return !w.a.purity.HasSideEffects(e)
}

func (w walker) when(b *binding, f func()) {
	w.a.when(b, f)
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (w walker) stmts(list []ast.Stmt) {
	for _, s := range list {
		w.stmt(s)
	}
}

func (w walker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		w.varDecl(s)

	case *ast.FunctionDecl:
		w.functionDecl(s)

	case *ast.ClassDecl:
		w.classDecl(s)

	case *ast.ExprStmt:
		if !w.linkStmt(s.Expr) {
			w.expr(s.Expr, false)
		}

	case *ast.BlockStmt:
		w.child(s).stmts(s.Body)

	case *ast.IfStmt:
		w.expr(s.Test, true)
		w.stmt(s.Then)
		if s.Else != nil {
			w.stmt(s.Else)
		}

	case *ast.ForStmt:
		inner := w.child(s)
		switch init := s.Init.(type) {
		case *ast.VarDecl:
			inner.varDecl(init)
		case *ast.ExprStmt:
			inner.expr(init.Expr, false)
		}
		inner.expr(s.Test, true)
		inner.expr(s.Update, false)
		inner.stmt(s.Body)

	case *ast.ForInStmt:
		inner := w.child(s)
		if s.Decl != nil {
			for _, d := range s.Decl.Decls {
				inner.keepPattern(d.Target)
			}
		} else {
			inner.keepPattern(s.Target)
		}
		inner.expr(s.Right, true)
		inner.stmt(s.Body)

	case *ast.WhileStmt:
		w.expr(s.Test, true)
		w.stmt(s.Body)

	case *ast.DoWhileStmt:
		w.stmt(s.Body)
		w.expr(s.Test, true)

	case *ast.ReturnStmt:
		w.expr(s.Value, true)

	case *ast.ThrowStmt:
		w.expr(s.Value, true)

	case *ast.TryStmt:
		w.child(s.Block).stmts(s.Block.Body)
		if s.Catch != nil {
			cw := w.enter(s.Catch)
			if s.Catch.Param != nil {
				cw.keepPattern(s.Catch.Param)
			}
			cw.child(s.Catch.Body).stmts(s.Catch.Body.Body)
		}
		if s.Finally != nil {
			w.child(s.Finally).stmts(s.Finally.Body)
		}

	case *ast.SwitchStmt:
		sw := w.enter(s)
		sw.expr(s.Discriminant, true)
		for _, c := range s.Cases {
			sw.expr(c.Test, true)
			sw.stmts(c.Body)
		}

	case *ast.LabeledStmt:
		w.stmt(s.Body)

	case *ast.WithStmt:
		w.expr(s.Object, true)
		inner := w
		inner.inWith = true
		inner.stmt(s.Body)

	case *ast.ExportDecl:
		w.export(s.Decl)
		w.stmt(s.Decl)

	case *ast.ExportDefault:
		if s.Decl != nil {
			w.export(s.Decl)
			w.stmt(s.Decl)
		}
		w.expr(s.Expr, true)

	case *ast.ExportNamed:
		for _, spec := range s.Specifiers {
			w.a.markLive(w.resolve(spec.Local))
		}
	}
}

// export roots the names declared by an exported declaration.
func (w walker) export(decl ast.Stmt) {
	mark := func(id *ast.Identifier) {
		w.a.markLive(w.resolve(id))
	}
	switch d := decl.(type) {
	case *ast.VarDecl:
		for _, decl := range d.Decls {
			ast.BindingIdentifiers(decl.Target, mark)
		}
	case *ast.FunctionDecl:
		if d.Fn.Name != nil {
			mark(d.Fn.Name)
		}
	case *ast.ClassDecl:
		if d.Class.Name != nil {
			mark(d.Class.Name)
		}
	}
}

func (w walker) varDecl(d *ast.VarDecl) {
	for _, decl := range d.Decls {
		id, ok := decl.Target.(*ast.Identifier)
		if !ok {
			// Destructuring declarations are never removed whole, so the
			// value is always evaluated.
			w.pattern(decl.Target)
			w.expr(decl.Init, true)
			continue
		}
		b := w.resolve(id)
		if w.inWith {
			w.a.markLive(b)
		}
		w.a.define(b, decl.Init, false)
		if decl.Init == nil {
			continue
		}
		if init := decl.Init; w.pure(init) {
			w.when(b, func() { w.expr(init, true) })
		} else {
			w.expr(init, true)
		}
	}
}

func (w walker) functionDecl(d *ast.FunctionDecl) {
	fn := d.Fn
	if fn.Name == nil {
		w.function(fn, true)
		return
	}
	b := w.resolve(fn.Name)
	w.a.define(b, fn, false)
	w.when(b, func() { w.function(fn, true) })
}

func (w walker) classDecl(d *ast.ClassDecl) {
	c := d.Class
	if c.Name == nil {
		w.class(c, true)
		return
	}
	b := w.resolve(c.Name)
	w.a.define(b, c, false)
	if !w.pure(c) {
		w.a.markLive(b)
	}
	w.when(b, func() { w.class(c, true) })
}

// ----------------------------------------------------------------------------
// Functions and Classes
// ----------------------------------------------------------------------------

func (w walker) function(fn *ast.Function, isDecl bool) {
	fw := w.enter(fn)
	info := &fnInfo{locked: fn.Kind == ast.FnSetter}
	w.a.fns[fn] = info
	if fn.Kind != ast.FnArrow {
		fw.fn = info
	}
	if fn.Name != nil && !isDecl {
		fw.resolve(fn.Name)
	}

	for _, p := range fn.Params {
		ast.BindingIdentifiers(p.Target, func(id *ast.Identifier) {
			if b := fw.resolve(id); b != nil {
				info.params = append(info.params, b)
			}
		})
	}
	if info.locked {
		for _, b := range info.params {
			w.a.markLive(b)
		}
	}

	for _, p := range fn.Params {
		if id, ok := p.Target.(*ast.Identifier); ok {
			b := w.a.idents[id]
			if def := p.Default; def != nil && fw.pure(def) {
				fw.when(b, func() { fw.expr(def, true) })
			} else {
				fw.expr(def, true)
			}
			continue
		}
		fw.pattern(p.Target)
		fw.expr(p.Default, true)
	}

	if fn.Body != nil {
		fw.stmts(fn.Body.Body)
	} else {
		fw.expr(fn.ExprBody, true)
	}
}

func (w walker) class(c *ast.Class, isDecl bool) {
	cw := w.enter(c)
	if c.Name != nil && !isDecl {
		cw.resolve(c.Name)
	}
	cw.expr(c.Extends, true)
	for _, m := range c.Members {
		if m.Computed {
			cw.expr(m.Key, true)
		}
		cw.function(m.Value, false)
	}
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

// pattern walks a declaration or assignment pattern whose slots may be
// pruned. A slot bound to a plain name defers its default and computed key
// until the name is live; any other slot is kept and walked now.
func (w walker) pattern(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.Identifier:
		b := w.resolve(p)
		if w.inWith {
			w.a.markLive(b)
		}
		w.a.define(b, nil, true)

	case *ast.DotExpr:
		w.expr(p, true)

	case *ast.IndexExpr:
		w.expr(p, true)

	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil && el.Target != nil {
				w.slot(el.Target, nil, el.Default, true)
			}
		}
		if p.Rest != nil {
			w.pattern(p.Rest)
		}

	case *ast.ObjectPattern:
		// Dropping a property would change what the rest element collects.
		prunable := p.Rest == nil
		for _, prop := range p.Props {
			var key ast.Expr
			if prop.Computed {
				key = prop.Key
			}
			w.slot(prop.Target, key, prop.Default, prunable)
		}
		if p.Rest != nil {
			w.pattern(p.Rest)
		}
	}
}

func (w walker) slot(target ast.Pattern, key, def ast.Expr, prunable bool) {
	id, ok := target.(*ast.Identifier)
	if !ok || !prunable || !w.pure(key) || !w.pure(def) {
		w.expr(key, true)
		w.expr(def, true)
		w.pattern(target)
		return
	}
	w.pattern(id)
	w.when(w.a.idents[id], func() {
		w.expr(key, true)
		w.expr(def, true)
	})
}

// keepPattern walks a pattern whose names can never be removed: catch
// parameters and for-in/of targets.
func (w walker) keepPattern(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.Identifier:
		w.a.markLive(w.resolve(p))
	case *ast.DotExpr:
		w.expr(p, true)
	case *ast.IndexExpr:
		w.expr(p, true)
	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil && el.Target != nil {
				w.keepPattern(el.Target)
				w.expr(el.Default, true)
			}
		}
		if p.Rest != nil {
			w.keepPattern(p.Rest)
		}
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			if prop.Computed {
				w.expr(prop.Key, true)
			}
			w.keepPattern(prop.Target)
			w.expr(prop.Default, true)
		}
		if p.Rest != nil {
			w.keepPattern(p.Rest)
		}
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// expr walks e. used reports whether the value of e is read; it only
// decides whether assignments inside e may be deferred.
func (w walker) expr(e ast.Expr, used bool) {
	switch e := e.(type) {
	case nil:

	case *ast.Identifier:
		w.read(e)

	case *ast.Function:
		w.function(e, false)

	case *ast.Class:
		w.class(e, false)

	case *ast.AssignExpr:
		w.assign(e, used)

	case *ast.BinaryExpr:
		switch e.Op {
		case ast.BinOpComma:
			w.expr(e.Left, false)
			w.expr(e.Right, used)
		case ast.BinOpLogicalOr, ast.BinOpLogicalAnd, ast.BinOpNullishCoalescing:
			w.expr(e.Left, true)
			w.expr(e.Right, used)
		default:
			w.expr(e.Left, true)
			w.expr(e.Right, true)
		}

	case *ast.CondExpr:
		w.expr(e.Test, true)
		w.expr(e.Yes, used)
		w.expr(e.No, used)

	case *ast.CallExpr:
		w.call(e, e.Callee, e.Args)

	case *ast.NewExpr:
		w.call(e, e.Callee, e.Args)

	case *ast.UnaryExpr:
		w.expr(e.Arg, true)

	case *ast.DotExpr:
		w.expr(e.Target, true)

	case *ast.IndexExpr:
		w.expr(e.Target, true)
		w.expr(e.Index, true)

	case *ast.TemplateLit:
		w.expr(e.Tag, true)
		for _, x := range e.Exprs {
			w.expr(x, true)
		}

	case *ast.ArrayLit:
		for _, el := range e.Elements {
			w.expr(el, true)
		}

	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Computed {
				w.expr(p.Key, true)
			}
			w.expr(p.Value, true)
			w.expr(p.Default, true)
		}

	case *ast.SpreadElement:
		w.expr(e.Arg, true)

	case *ast.YieldExpr:
		w.expr(e.Arg, true)
	}
}

// read records a use of id.
func (w walker) read(id *ast.Identifier) {
	b := w.resolve(id)
	if b == nil {
		if id.Name == "arguments" {
			w.a.useArguments(w.fn)
		}
		return
	}
	b.nonCallUse = true
	w.a.markLive(b)
}

func (w walker) call(e, callee ast.Expr, args []ast.Expr) {
	if id, ok := callee.(*ast.Identifier); ok {
		if b := w.resolve(id); b != nil {
			b.calls = append(b.calls, e)
			w.a.markLive(b)
		} else {
			w.read(id)
		}
	} else {
		w.expr(callee, true)
	}
	for _, arg := range args {
		w.expr(arg, true)
	}
}

func (w walker) assign(e *ast.AssignExpr, used bool) {
	if e.Op != ast.BinOpAssign {
		// Compound assignments read their target.
		w.expr(e.Target.(ast.Expr), true)
		w.expr(e.Value, true)
		return
	}

	switch t := e.Target.(type) {
	case *ast.Identifier:
		b := w.resolve(t)
		if b == nil {
			if t.Name == "arguments" {
				w.a.useArguments(w.fn)
			}
			w.expr(e.Value, true)
			return
		}
		if w.inWith {
			w.a.markLive(b)
		}
		w.a.define(b, e.Value, used)
		if v := e.Value; !used && w.pure(v) {
			w.when(b, func() { w.expr(v, true) })
		} else {
			w.expr(v, true)
		}

	case *ast.DotExpr, *ast.IndexExpr:
		if !used && w.propertyWrite(e) {
			return
		}
		w.expr(t.(ast.Expr), true)
		w.expr(e.Value, true)

	default:
		w.pattern(e.Target)
		w.expr(e.Value, true)
	}
}

// propertyWrite records "x.p = v", "x[k] = v" or "x.prototype.p = v" as
// removable with x, deferring the parts without side effects until x is
// live. It reports false when the write must be kept.
func (w walker) propertyWrite(e *ast.AssignExpr) bool {
	base, key := writeBase(e.Target)
	if base == nil || w.inWith {
		return false
	}
	b := w.resolve(base)
	if b == nil || b.decl.Extern || b.decl.Kind == scope.Parameter || b.decl.Kind == scope.CatchParam {
		return false
	}

	w.a.writes[e] = b
	w.a.addWrite(b)
	for _, part := range []ast.Expr{key, e.Value} {
		if part == nil {
			continue
		}
		if w.pure(part) {
			w.when(b, func() { w.expr(part, true) })
		} else {
			w.expr(part, true)
		}
	}
	return true
}

// writeBase returns the variable written through by a property write
// target, with the computed key if there is one.
func writeBase(target ast.Pattern) (base *ast.Identifier, key ast.Expr) {
	var obj ast.Expr
	switch t := target.(type) {
	case *ast.DotExpr:
		if t.Optional {
			return nil, nil
		}
		obj = t.Target
	case *ast.IndexExpr:
		if t.Optional {
			return nil, nil
		}
		obj, key = t.Target, t.Index
	default:
		return nil, nil
	}
	if proto, ok := obj.(*ast.DotExpr); ok && proto.Name == "prototype" && !proto.Optional {
		obj = proto.Target
	}
	id, _ := obj.(*ast.Identifier)
	return id, key
}
