package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
	"github.com/HugoDaniel/jsprune/internal/scope"
)

// linkStmt recognizes an inheritance link such as "goog.inherits(B, A)"
// used as a statement or as the left operand of a comma. The helper and
// the base arguments are only referenced once the derived binding is live;
// otherwise the rewriter drops the call.
func (w walker) linkStmt(e ast.Expr) bool {
	if call, ok := e.(*ast.CallExpr); ok {
		return w.link(call)
	}
	if comma, ok := e.(*ast.BinaryExpr); ok && comma.Op == ast.BinOpComma {
		if call, ok := comma.Left.(*ast.CallExpr); ok && w.link(call) {
			w.expr(comma.Right, false)
			return true
		}
	}
	return false
}

func (w walker) link(call *ast.CallExpr) bool {
	if call.Optional || len(call.Args) == 0 {
		return false
	}
	name, ok := dottedName(call.Callee)
	if !ok || !w.a.pass.links[name] {
		return false
	}
	derived := linkTarget(call.Args[0])
	if derived == nil {
		return false
	}
	for _, arg := range call.Args[1:] {
		if !w.pure(arg) {
			return false
		}
	}
	b := w.resolve(derived)
	if b == nil || b.decl.Extern || b.decl.Kind == scope.Parameter {
		return false
	}

	w.a.links[call] = b
	w.when(b, func() {
		w.expr(call.Callee, true)
		for _, arg := range call.Args[1:] {
			w.expr(arg, true)
		}
	})
	return true
}

// linkTarget returns X for a derived argument "X" or "X.prototype".
func linkTarget(arg ast.Expr) *ast.Identifier {
	if dot, ok := arg.(*ast.DotExpr); ok && dot.Name == "prototype" && !dot.Optional {
		arg = dot.Target
	}
	id, _ := arg.(*ast.Identifier)
	return id
}
