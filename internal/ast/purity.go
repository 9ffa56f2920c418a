package ast

// ----------------------------------------------------------------------------
// Side Effects and Purity Analysis
// ----------------------------------------------------------------------------

// PurityContext answers "may evaluating this expression have an observable
// effect?" for the optimizer. The analysis is syntactic: property reads are
// assumed not to hit side-effecting getters, and operators are assumed not
// to call user-defined conversion methods.
type PurityContext struct {
	// PureCalls lists global function names whose calls have no side effects
	// beyond those of their arguments.
	PureCalls map[string]bool
}

// NewPurityContext creates a purity context. The given names are treated
// as pure functions.
func NewPurityContext(pureCalls ...string) *PurityContext {
	ctx := &PurityContext{PureCalls: make(map[string]bool, len(pureCalls))}
	for _, name := range pureCalls {
		ctx.PureCalls[name] = true
	}
	return ctx
}

// Without returns a copy of ctx that no longer trusts calls to names. The
// optimizer passes the names a program declares itself, since a local
// function called "Object" is not the global constructor.
func (ctx *PurityContext) Without(names map[string]bool) *PurityContext {
	out := &PurityContext{PureCalls: make(map[string]bool, len(ctx.PureCalls))}
	for name := range ctx.PureCalls {
		if !names[name] {
			out.PureCalls[name] = true
		}
	}
	return out
}

// DeclaredNames returns every name bound anywhere under the given nodes:
// variables, functions, classes, parameters and catch parameters.
func DeclaredNames(nodes ...Node) map[string]bool {
	names := make(map[string]bool)
	add := func(id *Identifier) { names[id.Name] = true }
	for _, root := range nodes {
		Inspect(root, func(n Node) bool {
			switch n := n.(type) {
			case *VarDecl:
				for _, d := range n.Decls {
					BindingIdentifiers(d.Target, add)
				}
			case *Function:
				if n.Name != nil {
					add(n.Name)
				}
				for _, p := range n.Params {
					BindingIdentifiers(p.Target, add)
				}
			case *Class:
				if n.Name != nil {
					add(n.Name)
				}
			case *CatchClause:
				if n.Param != nil {
					BindingIdentifiers(n.Param, add)
				}
			}
			return true
		})
	}
	return names
}

// HasSideEffects reports whether evaluating expr may have effects other
// than producing its value. A nil expression has none.
func (ctx *PurityContext) HasSideEffects(expr Expr) bool {
	switch e := expr.(type) {
	case nil:
		return false

	case *Identifier, *NumberLit, *StringLit, *RegExpLit, *BoolLit, *NullLit,
		*ThisExpr, *SuperExpr, *Function:
		return false

	case *TemplateLit:
		if e.Tag != nil {
			return true
		}
		return ctx.anyHasSideEffects(e.Exprs)

	case *ArrayLit:
		for _, el := range e.Elements {
			if _, ok := el.(*SpreadElement); ok {
				// Spreading runs the iterator protocol
				return true
			}
			if ctx.HasSideEffects(el) {
				return true
			}
		}
		return false

	case *ObjectLit:
		for _, p := range e.Props {
			if p.Kind == PropSpread {
				return true
			}
			if p.Computed && ctx.HasSideEffects(p.Key) {
				return true
			}
			if ctx.HasSideEffects(p.Value) {
				return true
			}
		}
		return false

	case *Class:
		if ctx.HasSideEffects(e.Extends) {
			return true
		}
		for _, m := range e.Members {
			if m.Computed && ctx.HasSideEffects(m.Key) {
				return true
			}
		}
		return false

	case *SpreadElement:
		return true

	case *UnaryExpr:
		if e.Op == UnOpDelete || e.Op.IsUpdate() {
			return true
		}
		return ctx.HasSideEffects(e.Arg)

	case *BinaryExpr:
		return ctx.HasSideEffects(e.Left) || ctx.HasSideEffects(e.Right)

	case *CondExpr:
		return ctx.HasSideEffects(e.Test) || ctx.HasSideEffects(e.Yes) || ctx.HasSideEffects(e.No)

	case *DotExpr:
		return ctx.HasSideEffects(e.Target)

	case *IndexExpr:
		return ctx.HasSideEffects(e.Target) || ctx.HasSideEffects(e.Index)

	case *CallExpr:
		if id, ok := e.Callee.(*Identifier); ok && ctx.PureCalls[id.Name] {
			return ctx.anyHasSideEffects(e.Args)
		}
		return true

	case *AssignExpr, *NewExpr, *YieldExpr:
		return true
	}

	return true
}

func (ctx *PurityContext) anyHasSideEffects(exprs []Expr) bool {
	for _, e := range exprs {
		if ctx.HasSideEffects(e) {
			return true
		}
	}
	return false
}

// IsLocalValue reports whether expr creates a fresh value that no other code
// can hold a reference to: a literal object, array, function or class, or a
// primitive. Property writes on a binding that only ever holds local values
// are unobservable once the binding itself is unused.
func (ctx *PurityContext) IsLocalValue(expr Expr) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case *NumberLit, *StringLit, *BoolLit, *NullLit, *RegExpLit:
		return true
	case *TemplateLit:
		return e.Tag == nil && !ctx.HasSideEffects(e)
	case *ArrayLit, *ObjectLit, *Function, *Class:
		return !ctx.HasSideEffects(e)
	case *Identifier:
		return e.Name == "undefined"
	case *UnaryExpr:
		return e.Op == UnOpVoid && !ctx.HasSideEffects(e.Arg)
	}
	return false
}
