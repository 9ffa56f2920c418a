package scope

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
)

// scanner collects the declarations of one scope and the scope nodes
// nested directly inside its region.
type scanner struct {
	c        *Creator
	scope    *Scope
	children []ast.ScopeNode
	extern   bool
}

func (sc *scanner) declare(id *ast.Identifier, kind BindingKind, site ast.Node) {
	sc.scope.declare(id, kind, site, sc.extern)
}

func (sc *scanner) varKind() BindingKind {
	if sc.scope.Kind == KindGlobal {
		return GlobalVar
	}
	return LocalVar
}

// scan fills in the bindings of sc.scope.
func (sc *scanner) scan() {
	switch n := sc.scope.Node.(type) {
	case *ast.Root:
		if n.Externs != nil {
			sc.extern = true
			sc.region(n.Externs)
			sc.hoist(n.Externs)
			sc.extern = false
		}
		for _, prog := range n.Programs {
			if prog.IsModule {
				sc.children = append(sc.children, prog)
				continue
			}
			sc.region(prog)
			sc.hoist(prog)
		}

	case *ast.Program:
		sc.region(n)
		sc.hoist(n)

	case *ast.Function:
		if n.Name != nil && !sc.c.fnDecls[n] {
			sc.declare(n.Name, FunctionName, n)
		}
		for _, param := range n.Params {
			ast.BindingIdentifiers(param.Target, func(id *ast.Identifier) {
				sc.declare(id, Parameter, n)
			})
		}
		sc.region(n)
		if n.Body != nil {
			sc.hoist(n.Body)
		}

	case *ast.Class:
		if n.Name != nil && !sc.c.classDecls[n] {
			sc.declare(n.Name, ClassName, n)
		}
		sc.region(n)

	case *ast.CatchClause:
		if n.Param != nil {
			ast.BindingIdentifiers(n.Param, func(id *ast.Identifier) {
				sc.declare(id, CatchParam, n)
			})
		}
		sc.region(n)

	default:
		sc.region(n)
	}
}

// region walks the part of the tree owned by the scope, declaring lexical
// names and stopping at nested scope nodes.
func (sc *scanner) region(root ast.Node) {
	ast.Inspect(root, func(n ast.Node) bool {
		if n != root {
			if child, ok := sc.childScope(n); ok {
				sc.children = append(sc.children, child)
				return false
			}
		}

		switch n := n.(type) {
		case *ast.VarDecl:
			if n.Kind != ast.VarVar {
				for _, d := range n.Decls {
					ast.BindingIdentifiers(d.Target, func(id *ast.Identifier) {
						sc.declare(id, BlockScoped, n)
					})
				}
			}

		case *ast.FunctionDecl:
			sc.c.fnDecls[n.Fn] = true
			if n.Fn.Name != nil {
				kind := BlockScoped
				if sc.scope.IsHoisting() {
					kind = sc.varKind()
				}
				sc.declare(n.Fn.Name, kind, n)
			}

		case *ast.ClassDecl:
			sc.c.classDecls[n.Class] = true
			if n.Class.Name != nil {
				sc.declare(n.Class.Name, BlockScoped, n)
			}
		}
		return true
	})
}

// childScope reports whether n defines a scope nested in the region.
func (sc *scanner) childScope(n ast.Node) (ast.ScopeNode, bool) {
	return Nested(n, sc.scope.Node)
}

// Nested reports whether n defines a scope of its own when it appears in
// the region of the scope defined by owner. Walkers that call CreateScope
// use it to supply parents in the order the Creator expects.
func Nested(n ast.Node, owner ast.ScopeNode) (ast.ScopeNode, bool) {
	switch n := n.(type) {
	case *ast.Function:
		return n, true
	case *ast.Class:
		return n, true
	case *ast.CatchClause:
		return n, true
	case *ast.SwitchStmt:
		return n, true
	case *ast.BlockStmt:
		if fn, ok := owner.(*ast.Function); ok && ast.IsFunctionBody(fn, n) {
			return nil, false
		}
		return n, true
	case *ast.ForStmt:
		return n, ast.DeclaresLexically(n)
	case *ast.ForInStmt:
		return n, ast.DeclaresLexically(n)
	case *ast.Program:
		return n, n.IsModule
	}
	return nil, false
}

// hoist declares every var binding under root that is not inside a nested
// function.
func (sc *scanner) hoist(root ast.Node) {
	kind := sc.varKind()
	ast.Inspect(root, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Function, *ast.Class:
			return false
		case *ast.VarDecl:
			if n.Kind == ast.VarVar {
				for _, d := range n.Decls {
					ast.BindingIdentifiers(d.Target, func(id *ast.Identifier) {
						sc.declare(id, kind, n)
					})
				}
			}
		}
		return true
	})
}

// kindOf returns the scope kind defined by node.
func kindOf(node ast.ScopeNode) Kind {
	switch node.(type) {
	case *ast.Root:
		return KindGlobal
	case *ast.Program:
		return KindModule
	case *ast.Function:
		return KindFunction
	case *ast.Class:
		return KindClass
	case *ast.CatchClause:
		return KindCatch
	case *ast.ForStmt, *ast.ForInStmt:
		return KindLoop
	}
	return KindBlock
}
