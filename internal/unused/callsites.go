package unused

import (
	"github.com/HugoDaniel/jsprune/internal/ast"
)

// planCalls decides, for every function whose call sites are all visible,
// how many arguments each call keeps. A function qualifies when it is the
// only value its binding ever holds, every reference calls it, and its
// parameters are not observed through the arguments object.
//
// Only arguments that fed a removed parameter are dropped, from the end and
// never past one with side effects: the cut-off is shared by all call sites
// so a position is either trimmed everywhere or nowhere. A call passing
// more arguments than there are parameters is left alone, unless a removed
// rest parameter collected them.
func (a *analysis) planCalls() {
	for _, b := range a.bindings {
		if !b.live || b.fn == nil || b.defs != 1 || b.nonCallUse || len(b.calls) == 0 {
			continue
		}
		if a.pass.preserved[b.decl.Name] {
			continue
		}
		info := a.fns[b.fn]
		if info == nil || info.usesArguments || info.locked {
			continue
		}

		params := b.fn.Params
		keep := a.keptParams(b.fn)
		if keep == len(params) || keep > 0 && params[keep-1].Rest {
			continue
		}
		rest := params[len(params)-1].Rest
		trimmable := func(args []ast.Expr) bool {
			return len(args) > keep && (rest || len(args) <= len(params))
		}

		cutoff := keep
		for _, call := range b.calls {
			args := callArgs(call)
			if !trimmable(args) {
				continue
			}
			for i := len(args) - 1; i >= cutoff; i-- {
				if _, spread := args[i].(*ast.SpreadElement); spread || !a.pure(args[i]) {
					cutoff = i + 1
					break
				}
			}
		}
		for _, call := range b.calls {
			if args := callArgs(call); trimmable(args) && len(args) > cutoff {
				a.trims[call] = cutoff
			}
		}
	}
}

func callArgs(call ast.Expr) []ast.Expr {
	switch call := call.(type) {
	case *ast.CallExpr:
		return call.Args
	case *ast.NewExpr:
		return call.Args
	}
	return nil
}
