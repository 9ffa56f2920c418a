package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/scope"
)

// rewriter applies one iteration's liveness to the tree. Every edit is
// reported to the scope creator against the innermost enclosing scope
// node.
type rewriter struct {
	a       *analysis
	node    ast.ScopeNode
	edits   int
	removed int
}

func newRewriter(a *analysis) *rewriter {
	return &rewriter{a: a}
}

func (r *rewriter) edit() {
	r.edits++
	r.a.scopes.ReportChange(r.node)
}

func (r *rewriter) remove(n int) {
	r.removed += n
	r.edit()
}

// within runs f with n as the current scope node when n opens a scope.
func (r *rewriter) within(n ast.Node, f func()) {
	sn, ok := scope.Nested(n, r.node)
	if !ok {
		f()
		return
	}
	saved := r.node
	r.node = sn
	f()
	r.node = saved
}

func (r *rewriter) rewriteRoot(root *ast.Root) {
	r.node = root
	for _, prog := range root.Programs {
		r.within(prog, func() {
			prog.Body = r.stmts(prog.Body)
		})
	}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (r *rewriter) stmts(list []ast.Stmt) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(list))
	for _, s := range list {
		out = append(out, r.stmt(s)...)
	}
	return out
}

// body rewrites the single statement of a control structure, which cannot
// be left empty.
func (r *rewriter) body(s ast.Stmt) ast.Stmt {
	list := r.stmt(s)
	switch len(list) {
	case 0:
		return &ast.BlockStmt{Loc: s.Pos()}
	case 1:
		return list[0]
	}
	return &ast.BlockStmt{Loc: s.Pos(), Body: list}
}

// stmt returns the statements that replace s.
func (r *rewriter) stmt(s ast.Stmt) []ast.Stmt {
	switch s := s.(type) {
	case *ast.VarDecl:
		return r.varDecl(s, false)

	case *ast.FunctionDecl:
		if s.Fn.Name != nil && !r.a.live(s.Fn.Name) {
			r.remove(1)
			return nil
		}
		r.function(s.Fn, true)

	case *ast.ClassDecl:
		if s.Class.Name != nil && !r.a.live(s.Class.Name) {
			r.remove(1)
			return nil
		}
		r.class(s.Class, true)

	case *ast.ExprStmt:
		if call, ok := s.Expr.(*ast.CallExpr); ok && r.deadLink(call) {
			return nil
		}
		e := r.expr(s.Expr, false)
		if e == nil {
			return nil
		}
		s.Expr = e

	case *ast.BlockStmt:
		r.within(s, func() {
			s.Body = r.stmts(s.Body)
		})

	case *ast.IfStmt:
		s.Test = r.expr(s.Test, true)
		s.Then = r.body(s.Then)
		if s.Else != nil {
			s.Else = r.body(s.Else)
		}

	case *ast.ForStmt:
		r.within(s, func() {
			s.Init = r.forInit(s.Init)
			s.Test = r.expr(s.Test, true)
			s.Update = r.expr(s.Update, false)
			s.Body = r.body(s.Body)
		})

	case *ast.ForInStmt:
		r.within(s, func() {
			s.Right = r.expr(s.Right, true)
			s.Body = r.body(s.Body)
		})

	case *ast.WhileStmt:
		s.Test = r.expr(s.Test, true)
		s.Body = r.body(s.Body)

	case *ast.DoWhileStmt:
		s.Body = r.body(s.Body)
		s.Test = r.expr(s.Test, true)

	case *ast.ReturnStmt:
		s.Value = r.expr(s.Value, true)

	case *ast.ThrowStmt:
		s.Value = r.expr(s.Value, true)

	case *ast.TryStmt:
		r.stmt(s.Block)
		if s.Catch != nil {
			r.within(s.Catch, func() {
				r.stmt(s.Catch.Body)
			})
		}
		if s.Finally != nil {
			r.stmt(s.Finally)
		}

	case *ast.SwitchStmt:
		r.within(s, func() {
			s.Discriminant = r.expr(s.Discriminant, true)
			for _, c := range s.Cases {
				c.Test = r.expr(c.Test, true)
				c.Body = r.stmts(c.Body)
			}
		})

	case *ast.LabeledStmt:
		s.Body = r.body(s.Body)

	case *ast.WithStmt:
		s.Object = r.expr(s.Object, true)
		s.Body = r.body(s.Body)

	case *ast.ExportDecl:
		if list := r.stmt(s.Decl); len(list) == 1 {
			s.Decl = list[0]
		}

	case *ast.ExportDefault:
		switch d := s.Decl.(type) {
		case *ast.FunctionDecl:
			r.function(d.Fn, true)
		case *ast.ClassDecl:
			r.class(d.Class, true)
		}
		s.Expr = r.expr(s.Expr, true)
	}
	return []ast.Stmt{s}
}

// varDecl drops dead declarators. A dead declarator whose initializer has
// side effects leaves the initializer behind as an expression statement
// at the same position. With keepEffects, such declarators stay in place
// instead, for heads that cannot hold a statement.
func (r *rewriter) varDecl(d *ast.VarDecl, keepEffects bool) []ast.Stmt {
	var out []ast.Stmt
	var kept []*ast.Declarator
	dropped := false
	flush := func() {
		if len(kept) > 0 {
			out = append(out, &ast.VarDecl{Loc: d.Loc, Kind: d.Kind, Decls: kept})
			kept = nil
		}
	}

	for _, decl := range d.Decls {
		if id, ok := decl.Target.(*ast.Identifier); ok && !r.a.live(id) {
			if decl.Init == nil || r.a.pure(decl.Init) {
				dropped = true
				r.remove(1)
				continue
			}
			if !keepEffects {
				dropped = true
				r.remove(1)
				flush()
				if e := r.expr(decl.Init, false); e != nil {
					out = append(out, &ast.ExprStmt{Loc: d.Loc, Expr: e})
				}
				continue
			}
		}
		r.prune(decl.Target)
		decl.Init = r.expr(decl.Init, true)
		kept = append(kept, decl)
	}

	if !dropped {
		return []ast.Stmt{d}
	}
	flush()
	return out
}

// forInit rewrites the head of a for statement. Side effects of dead
// declarators become a comma expression when nothing else is declared.
func (r *rewriter) forInit(init ast.Stmt) ast.Stmt {
	switch s := init.(type) {
	case *ast.VarDecl:
		hasLive := false
		for _, decl := range s.Decls {
			if id, ok := decl.Target.(*ast.Identifier); !ok || r.a.live(id) {
				hasLive = true
			}
		}
		list := r.varDecl(s, hasLive)
		var exprs []ast.Expr
		for _, st := range list {
			switch st := st.(type) {
			case *ast.VarDecl:
				return st
			case *ast.ExprStmt:
				exprs = append(exprs, st.Expr)
			}
		}
		if len(exprs) == 0 {
			return nil
		}
		return &ast.ExprStmt{Loc: s.Loc, Expr: joinComma(exprs)}

	case *ast.ExprStmt:
		e := r.expr(s.Expr, false)
		if e == nil {
			return nil
		}
		s.Expr = e
	}
	return init
}

// deadLink reports whether call is an inheritance link whose derived
// binding is dead.
func (r *rewriter) deadLink(call *ast.CallExpr) bool {
	b, ok := r.a.links[call]
	if !ok || b.live {
		return false
	}
	r.remove(1)
	return true
}

// ----------------------------------------------------------------------------
// Functions and Classes
// ----------------------------------------------------------------------------

func (r *rewriter) function(fn *ast.Function, isDecl bool) {
	r.within(fn, func() {
		if !isDecl && fn.Name != nil && !r.a.pass.opts.PreserveFunctionExpressionNames && !r.a.live(fn.Name) {
			fn.Name = nil
			r.remove(1)
		}
		r.params(fn)
		if fn.Body != nil {
			fn.Body.Body = r.stmts(fn.Body.Body)
		} else {
			fn.ExprBody = r.expr(fn.ExprBody, true)
		}
	})
}

// params drops dead trailing parameters. A dead parameter followed by a
// live one keeps its position; only a default without side effects is
// removed from it.
func (r *rewriter) params(fn *ast.Function) {
	if keep := r.a.keptParams(fn); keep < len(fn.Params) {
		r.remove(len(fn.Params) - keep)
		fn.Params = fn.Params[:keep]
	}
	for _, p := range fn.Params {
		if id, ok := p.Target.(*ast.Identifier); ok {
			if p.Default != nil && !r.a.live(id) && r.a.pure(p.Default) {
				p.Default = nil
				r.remove(1)
			}
		} else {
			r.prune(p.Target)
		}
		p.Default = r.expr(p.Default, true)
	}
}

func (r *rewriter) class(c *ast.Class, isDecl bool) {
	r.within(c, func() {
		if !isDecl && c.Name != nil && !r.a.pass.opts.PreserveFunctionExpressionNames && !r.a.live(c.Name) {
			c.Name = nil
			r.remove(1)
		}
		c.Extends = r.expr(c.Extends, true)
		for _, m := range c.Members {
			if m.Computed {
				m.Key = r.expr(m.Key, true)
			}
			r.function(m.Value, false)
		}
	})
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// expr rewrites e and returns its replacement. When used is false the
// value of e is ignored, and nil means nothing needs to be evaluated.
func (r *rewriter) expr(e ast.Expr, used bool) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil

	case *ast.AssignExpr:
		return r.assign(e, used)

	case *ast.BinaryExpr:
		switch e.Op {
		case ast.BinOpComma:
			var left ast.Expr
			if call, ok := e.Left.(*ast.CallExpr); !ok || !r.deadLink(call) {
				left = r.expr(e.Left, false)
			}
			right := r.expr(e.Right, used)
			switch {
			case left == nil:
				return right
			case right == nil:
				return left
			}
			e.Left, e.Right = left, right

		case ast.BinOpLogicalOr, ast.BinOpLogicalAnd, ast.BinOpNullishCoalescing:
			e.Left = r.expr(e.Left, true)
			e.Right = r.operand(e.Right, used)

		default:
			e.Left = r.expr(e.Left, true)
			e.Right = r.expr(e.Right, true)
		}

	case *ast.CondExpr:
		e.Test = r.expr(e.Test, true)
		e.Yes = r.operand(e.Yes, used)
		e.No = r.operand(e.No, used)

	case *ast.CallExpr:
		e.Args = r.trim(e, e.Args)
		e.Callee = r.expr(e.Callee, true)
		r.exprs(e.Args)

	case *ast.NewExpr:
		e.Args = r.trim(e, e.Args)
		e.Callee = r.expr(e.Callee, true)
		r.exprs(e.Args)

	case *ast.Function:
		r.function(e, false)

	case *ast.Class:
		r.class(e, false)

	case *ast.UnaryExpr:
		e.Arg = r.expr(e.Arg, true)

	case *ast.DotExpr:
		e.Target = r.expr(e.Target, true)

	case *ast.IndexExpr:
		e.Target = r.expr(e.Target, true)
		e.Index = r.expr(e.Index, true)

	case *ast.TemplateLit:
		e.Tag = r.expr(e.Tag, true)
		r.exprs(e.Exprs)

	case *ast.ArrayLit:
		r.exprs(e.Elements)

	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Computed {
				p.Key = r.expr(p.Key, true)
			}
			p.Value = r.expr(p.Value, true)
			p.Default = r.expr(p.Default, true)
		}

	case *ast.SpreadElement:
		e.Arg = r.expr(e.Arg, true)

	case *ast.YieldExpr:
		e.Arg = r.expr(e.Arg, true)
	}
	return e
}

func (r *rewriter) exprs(list []ast.Expr) {
	for i, e := range list {
		list[i] = r.expr(e, true)
	}
}

// operand rewrites an operand that cannot be omitted even when its value
// is ignored. An operand left with nothing to evaluate becomes 0.
func (r *rewriter) operand(e ast.Expr, used bool) ast.Expr {
	if out := r.expr(e, used); out != nil {
		return out
	}
	return &ast.NumberLit{Loc: e.Pos(), Raw: "0"}
}

func (r *rewriter) assign(e *ast.AssignExpr, used bool) ast.Expr {
	if e.Op == ast.BinOpAssign {
		switch t := e.Target.(type) {
		case *ast.Identifier:
			if !r.a.live(t) {
				r.remove(1)
				if !used && r.a.pure(e.Value) {
					return nil
				}
				return r.expr(e.Value, used)
			}

		case *ast.DotExpr, *ast.IndexExpr:
			if b, ok := r.a.writes[e]; ok && !b.live {
				r.remove(1)
				return r.writeEffects(e)
			}

		case *ast.ArrayPattern, *ast.ObjectPattern:
			r.prune(t)
			e.Value = r.expr(e.Value, true)
			return e
		}
	}

	if target, ok := e.Target.(ast.Expr); ok {
		r.expr(target, true)
	}
	e.Value = r.expr(e.Value, true)
	return e
}

// writeEffects returns what must still run of a dropped property write:
// its computed key and its value, when they have side effects.
func (r *rewriter) writeEffects(e *ast.AssignExpr) ast.Expr {
	var parts []ast.Expr
	if index, ok := e.Target.(*ast.IndexExpr); ok && !r.a.pure(index.Index) {
		if k := r.expr(index.Index, false); k != nil {
			parts = append(parts, k)
		}
	}
	if !r.a.pure(e.Value) {
		if v := r.expr(e.Value, false); v != nil {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return joinComma(parts)
}

// trim drops the arguments planned for removal at a call site.
func (r *rewriter) trim(call ast.Expr, args []ast.Expr) []ast.Expr {
	keep, ok := r.a.trims[call]
	if !ok || keep >= len(args) {
		return args
	}
	r.remove(len(args) - keep)
	return args[:keep]
}

func joinComma(exprs []ast.Expr) ast.Expr {
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = &ast.BinaryExpr{Loc: out.Pos(), Op: ast.BinOpComma, Left: out, Right: e}
	}
	return out
}
