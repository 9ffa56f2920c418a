package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
)

// live reports whether the name bound or referenced by id is live.
// Identifiers the walk never resolved are kept.
func (a *analysis) live(id *ast.Identifier) bool {
	b, ok := a.idents[id]
	return !ok || b.live
}

func (a *analysis) pure(e ast.Expr) bool {
	return !a.purity.HasSideEffects(e)
}

// slotRemovable reports whether a destructuring slot can be dropped: it
// binds a dead plain name, and neither its computed key nor its default
// has side effects. Slots with nested patterns are only ever emptied.
func (a *analysis) slotRemovable(target ast.Pattern, key, def ast.Expr) bool {
	id, ok := target.(*ast.Identifier)
	return ok && !a.live(id) && a.pure(key) && a.pure(def)
}

// restRemovable reports whether a rest element can be dropped.
func (a *analysis) restRemovable(rest ast.Pattern) bool {
	id, ok := rest.(*ast.Identifier)
	return ok && !a.live(id)
}

// vanishes reports whether p binds nothing once pruned, so that the
// parameter holding it can be dropped.
func (a *analysis) vanishes(p ast.Pattern) bool {
	switch p := p.(type) {
	case *ast.Identifier:
		return !a.live(p)

	case *ast.ArrayPattern:
		for _, el := range p.Elements {
			if el != nil && el.Target != nil && !a.slotRemovable(el.Target, nil, el.Default) {
				return false
			}
		}
		return p.Rest == nil || a.restRemovable(p.Rest)

	case *ast.ObjectPattern:
		if p.Rest != nil && !a.restRemovable(p.Rest) {
			return false
		}
		for _, prop := range p.Props {
			if !a.slotRemovable(prop.Target, computedKey(prop), prop.Default) {
				return false
			}
		}
		return true
	}
	return false
}

// paramRemovable reports whether p can be dropped from the end of a
// parameter list.
func (a *analysis) paramRemovable(p *ast.Param) bool {
	return a.pure(p.Default) && a.vanishes(p.Target)
}

// keptParams returns how many leading parameters of fn survive.
func (a *analysis) keptParams(fn *ast.Function) int {
	n := len(fn.Params)
	for n > 0 && a.paramRemovable(fn.Params[n-1]) {
		n--
	}
	return n
}

func computedKey(prop *ast.ObjectPatternProp) ast.Expr {
	if prop.Computed {
		return prop.Key
	}
	return nil
}

// ----------------------------------------------------------------------------
// Pruning
// ----------------------------------------------------------------------------

// prune removes dead slots from a destructuring pattern in place. Array
// slots become holes so later positions keep their index; trailing holes
// are trimmed. Object properties are dropped, unless a surviving rest
// element would then collect them.
func (r *rewriter) prune(p ast.Pattern) {
	switch p := p.(type) {
	case *ast.ArrayPattern:
		if p.Rest != nil {
			if r.a.restRemovable(p.Rest) {
				p.Rest = nil
				r.remove(1)
			} else {
				r.prune(p.Rest)
			}
		}
		for i, el := range p.Elements {
			if el == nil || el.Target == nil {
				continue
			}
			if r.a.slotRemovable(el.Target, nil, el.Default) {
				p.Elements[i] = nil
				r.remove(1)
				continue
			}
			r.prune(el.Target)
			el.Default = r.expr(el.Default, true)
		}
		if p.Rest == nil {
			n := len(p.Elements)
			for n > 0 && (p.Elements[n-1] == nil || p.Elements[n-1].Target == nil) {
				n--
			}
			if n < len(p.Elements) {
				p.Elements = p.Elements[:n]
				r.edit()
			}
		}

	case *ast.ObjectPattern:
		if p.Rest != nil {
			if r.a.restRemovable(p.Rest) {
				p.Rest = nil
				r.remove(1)
			} else {
				r.prune(p.Rest)
			}
		}
		props := p.Props[:0]
		for _, prop := range p.Props {
			if p.Rest == nil && r.a.slotRemovable(prop.Target, computedKey(prop), prop.Default) {
				r.remove(1)
				continue
			}
			if prop.Computed {
				prop.Key = r.expr(prop.Key, true)
			}
			r.prune(prop.Target)
			prop.Default = r.expr(prop.Default, true)
			props = append(props, prop)
		}
		p.Props = props

	case *ast.DotExpr:
		r.expr(p, true)

	case *ast.IndexExpr:
		r.expr(p, true)
	}
}
